// Package pdf genera la representación PDF de una factura.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Emisor + contacto    │  N° Factura + Fecha          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FACTURAR A: Nombre + email + contacto                      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: # | Descripción | Cant. | Tarifa | Total             │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Subtotal / Impuesto / Descuento / TOTAL / Saldo    │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	appbilling "github.com/jhoicas/smart-billing/internal/application/billing"
	"github.com/jhoicas/smart-billing/pkg/money"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 51, Blue: 102}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
	headerBg     = &props.Cell{BackgroundColor: colorPrimary}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa billing.BillPDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	compress bool
}

// Option configura el generador.
type Option func(*MarotoPDFGenerator)

// WithCompression activa o desactiva la compresión de los content streams (activa por defecto).
func WithCompression(on bool) Option {
	return func(g *MarotoPDFGenerator) { g.compress = on }
}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator(opts ...Option) *MarotoPDFGenerator {
	g := &MarotoPDFGenerator{compress: true}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// cp1252Formatter lo implementa *money.Formatter.
type cp1252Formatter interface {
	CP1252() *money.Formatter
}

// GenerateBillPDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateBillPDF(ctx context.Context, doc appbilling.BillDocument) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if doc.Money == nil {
		return nil, fmt.Errorf("pdf: formateador de moneda requerido")
	}
	// Helvetica solo cubre Windows-1252: "₹" se imprimiría como ".".
	if f, ok := doc.Money.(cp1252Formatter); ok {
		doc.Money = f.CP1252()
	}

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Invoice "+doc.Number, true).
		WithAuthor(doc.Company.Name, true).
		WithCompression(g.compress).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(doc))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(billToRow(doc))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableDetailRows(doc)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRows(doc)...)

	m.AddRows(row.New(4))
	m.AddRows(row.New(8).Add(col.New(12).Add(
		text.New("Thank you for your business!", props.Text{
			Style: fontstyle.Italic, Size: 8, Align: align.Center, Color: colorGray, Top: 2,
		}),
	)))

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return out.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: emisor (izq) y N° factura + fecha (der).
func headerRow(doc appbilling.BillDocument) core.Row {
	contact := fmt.Sprintf("Email: %s   |   Phone: %s",
		nonEmpty(doc.Company.Email, "-"),
		nonEmpty(doc.Company.Phone, "-"),
	)
	return row.New(20).Add(
		col.New(7).Add(
			text.New(doc.Company.Name, props.Text{
				Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 1,
			}),
			text.New(contact, props.Text{Size: 8, Top: 10, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("INVOICE", props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(doc.Number, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Date: "+doc.Date.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// billToRow: datos del cliente.
func billToRow(doc appbilling.BillDocument) core.Row {
	return row.New(16).Add(
		col.New(12).Add(
			text.New("BILL TO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(doc.CustomerName, "-"), props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("Email: %s   |   Contact: %s",
				nonEmpty(doc.CustomerEmail, "-"),
				nonEmpty(doc.CustomerContact, "-"),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de ítems.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("#", 1, align.Center),
		h("Description", 5, align.Left),
		h("Qty", 2, align.Right),
		h("Rate", 2, align.Right),
		h("Total", 2, align.Right),
	).WithStyle(headerBg)
}

// tableDetailRows: una fila por línea.
func tableDetailRows(doc appbilling.BillDocument) []core.Row {
	result := make([]core.Row, 0, len(doc.Lines))
	for i, l := range doc.Lines {
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(fmt.Sprintf("%d", i+1),
				props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(5).Add(text.New(nonEmpty(l.Description, "-"),
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
			col.New(2).Add(text.New(l.Quantity.StringFixed(2),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(doc.Money.Format(l.Rate),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(doc.Money.Format(l.Total),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

// totalsRows: bloque de totales alineado a la derecha.
func totalsRows(doc appbilling.BillDocument) []core.Row {
	entry := func(label, value string, grand bool) core.Row {
		p := props.Text{Size: 9, Align: align.Right, Right: 1}
		if grand {
			p = props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1}
		}
		lp := p
		lp.Style = fontstyle.Bold
		return row.New(6).Add(
			col.New(6),
			col.New(3).Add(text.New(label, lp)),
			col.New(3).Add(text.New(value, p)),
		)
	}

	t := doc.Totals
	rows := []core.Row{
		entry("Subtotal:", doc.Money.Format(t.Subtotal), false),
		entry(fmt.Sprintf("Tax (%s%%):", doc.TaxRate.String()), doc.Money.Format(t.TaxAmount), false),
		entry("Discount:", doc.Money.Format(doc.Discount.Neg()), false),
		entry("TOTAL:", doc.Money.Format(t.GrandTotal), true),
	}
	if doc.Advance.IsPositive() {
		rows = append(rows,
			entry("Advance paid:", doc.Money.Format(doc.Advance), false),
			entry("Balance due:", doc.Money.Format(t.RemainingAmount), true),
		)
	}
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
