package pdf_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appbilling "github.com/jhoicas/smart-billing/internal/application/billing"
	"github.com/jhoicas/smart-billing/internal/domain/bill"
	"github.com/jhoicas/smart-billing/internal/domain/entity"
	"github.com/jhoicas/smart-billing/internal/infrastructure/pdf"
	"github.com/jhoicas/smart-billing/pkg/money"
)

func buildDoc(t *testing.T, advance string) appbilling.BillDocument {
	t.Helper()
	fm, err := money.New("USD", "en-US")
	require.NoError(t, err)

	e := bill.NewEngine(
		bill.WithRows(
			bill.LineItem{FieldIndex: -1, Description: "Printing", Quantity: "2", Rate: "150"},
			bill.LineItem{FieldIndex: -1, Description: "Scanning", Quantity: "3", Rate: "12.5"},
		),
		bill.WithAdjustments(bill.Adjustments{TaxRate: "18", Discount: "50", Advance: advance}),
	)
	e.Init()
	d := &entity.Draft{Number: "INV-000007", CustomerName: "Asha", Engine: e}
	return appbilling.BuildDocument(d, appbilling.CompanyInfo{Name: "Great Cyber Cafe"}, fm,
		time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
}

func TestGenerateBillPDF_DevuelvePDF(t *testing.T) {
	g := pdf.NewMarotoPDFGenerator()
	for _, advance := range []string{"", "100"} {
		out, err := g.GenerateBillPDF(context.Background(), buildDoc(t, advance))
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "la salida debe ser un PDF")
	}
}

func TestGenerateBillPDF_SinFormateador(t *testing.T) {
	doc := buildDoc(t, "")
	doc.Money = nil
	_, err := pdf.NewMarotoPDFGenerator().GenerateBillPDF(context.Background(), doc)
	assert.Error(t, err)
}

func TestGenerateBillPDF_ContextoCancelado(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := pdf.NewMarotoPDFGenerator().GenerateBillPDF(ctx, buildDoc(t, ""))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGenerateBillPDF_RupiaLegibleConFuenteEstandar(t *testing.T) {
	fm, err := money.New("INR", "en-IN")
	require.NoError(t, err)

	e := bill.NewEngine(
		bill.WithRows(bill.LineItem{FieldIndex: -1, Description: "Printing", Quantity: "2", Rate: "150"}),
		bill.WithAdjustments(bill.Adjustments{TaxRate: "18", Discount: "50"}),
	)
	e.Init()
	d := &entity.Draft{Number: "INV-000008", CustomerName: "Ravi", Engine: e}
	doc := appbilling.BuildDocument(d, appbilling.CompanyInfo{Name: "Great Cyber Cafe"}, fm,
		time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))

	out, err := pdf.NewMarotoPDFGenerator(pdf.WithCompression(false)).GenerateBillPDF(context.Background(), doc)
	require.NoError(t, err)

	assert.Contains(t, string(out), "(Rs 304.00) Tj", "el total debe llevar el símbolo Rs")
	assert.NotContains(t, string(out), "(.304.00) Tj")
	assert.Equal(t, fm.Symbol()+"304.00", fm.Format(doc.Totals.GrandTotal), "el formateador del documento no cambia")
}
