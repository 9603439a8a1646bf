package bill

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/smart-billing/internal/domain"
)

// DefaultQuantity cantidad con la que nace cada línea nueva.
const DefaultQuantity = "1"

// Trigger identifica el evento que provocó un recálculo.
type Trigger string

const (
	TriggerInit       Trigger = "init"
	TriggerLineEdit   Trigger = "line_edit"
	TriggerRowAdded   Trigger = "row_added"
	TriggerRowRemoved Trigger = "row_removed"
	TriggerAdjustment Trigger = "adjustment"
	TriggerRefresh    Trigger = "refresh"
)

// LineItem una fila de la tabla de ítems. Cantidad y tarifa se guardan como texto
// digitado y se interpretan en cada recálculo.
type LineItem struct {
	FieldIndex  int // N en items[N][...]; posición al crearse, nunca se renumera
	Description string
	Quantity    string
	Rate        string
	Total       decimal.Decimal
}

// FieldPrefix devuelve el prefijo de los nombres de campo de la fila: "items[N]".
func (li LineItem) FieldPrefix() string {
	return fmt.Sprintf("items[%d]", li.FieldIndex)
}

// FieldName devuelve el nombre completo de un campo, ej. "items[3][rate]".
func (li LineItem) FieldName(field string) string {
	return fmt.Sprintf("items[%d][%s]", li.FieldIndex, field)
}

// Observer recibe el resultado de cada recálculo completo.
type Observer func(trigger Trigger, totals Totals)

// Option configura un Engine en su construcción.
type Option func(*Engine)

// WithObserver registra un observador síncrono.
func WithObserver(o Observer) Option {
	return func(e *Engine) {
		if o != nil {
			e.observers = append(e.observers, o)
		}
	}
}

// WithRows precarga filas existentes (equivalente a las filas ya renderizadas).
// Si FieldIndex es negativo se asigna la posición.
func WithRows(rows ...LineItem) Option {
	return func(e *Engine) {
		for _, r := range rows {
			if r.FieldIndex < 0 {
				r.FieldIndex = len(e.rows)
			}
			row := r
			e.rows = append(e.rows, &row)
		}
	}
}

// WithAdjustments precarga tasa de impuesto, descuento y anticipo.
func WithAdjustments(adj Adjustments) Option {
	return func(e *Engine) { e.adj = adj }
}

// Engine mantiene la tabla de ítems y sus totales. Cada mutación recalcula de
// forma síncrona y completa antes de retornar; no hay estado intermedio cacheado.
//
// Engine no es seguro para uso concurrente: el llamador serializa el acceso.
type Engine struct {
	rows      []*LineItem
	adj       Adjustments
	totals    Totals
	observers []Observer
}

// NewEngine construye el motor. Llamar Init antes de leer totales.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Init recalcula todas las líneas y los totales (carga inicial explícita).
func (e *Engine) Init() Totals {
	for _, r := range e.rows {
		r.Total = LineTotal(r.Quantity, r.Rate)
	}
	return e.recompute(TriggerInit)
}

// AddRow agrega una fila con valores por defecto y recalcula.
// La nueva fila aporta 0 hasta que se le asigne tarifa.
func (e *Engine) AddRow() LineItem {
	row := &LineItem{
		FieldIndex: len(e.rows),
		Quantity:   DefaultQuantity,
		Total:      LineTotal(DefaultQuantity, ""),
	}
	e.rows = append(e.rows, row)
	e.recompute(TriggerRowAdded)
	return *row
}

// RemoveRow elimina la fila en la posición indicada (sin confirmación) y recalcula.
func (e *Engine) RemoveRow(pos int) (Totals, error) {
	if err := e.checkPos(pos); err != nil {
		return e.totals, err
	}
	e.rows = append(e.rows[:pos], e.rows[pos+1:]...)
	return e.recompute(TriggerRowRemoved), nil
}

// SetQuantity actualiza la cantidad digitada de una fila y recalcula su total.
func (e *Engine) SetQuantity(pos int, raw string) (Totals, error) {
	if err := e.checkPos(pos); err != nil {
		return e.totals, err
	}
	e.rows[pos].Quantity = raw
	return e.recomputeLine(pos), nil
}

// SetRate actualiza la tarifa digitada de una fila y recalcula su total.
func (e *Engine) SetRate(pos int, raw string) (Totals, error) {
	if err := e.checkPos(pos); err != nil {
		return e.totals, err
	}
	e.rows[pos].Rate = raw
	return e.recomputeLine(pos), nil
}

// SetDescription actualiza la descripción; no afecta totales.
func (e *Engine) SetDescription(pos int, text string) error {
	if err := e.checkPos(pos); err != nil {
		return err
	}
	e.rows[pos].Description = text
	return nil
}

// SetTaxRate actualiza el porcentaje de impuesto y recalcula.
func (e *Engine) SetTaxRate(raw string) Totals {
	e.adj.TaxRate = raw
	return e.recompute(TriggerAdjustment)
}

// SetDiscount actualiza el descuento fijo y recalcula.
func (e *Engine) SetDiscount(raw string) Totals {
	e.adj.Discount = raw
	return e.recompute(TriggerAdjustment)
}

// SetAdvance actualiza el anticipo y recalcula.
func (e *Engine) SetAdvance(raw string) Totals {
	e.adj.Advance = raw
	return e.recompute(TriggerAdjustment)
}

// Recompute recalcula los totales de la factura sin tocar las líneas.
// Es idempotente.
func (e *Engine) Recompute() Totals {
	return e.recompute(TriggerRefresh)
}

// Rows devuelve una copia de las filas en orden.
func (e *Engine) Rows() []LineItem {
	out := make([]LineItem, len(e.rows))
	for i, r := range e.rows {
		out[i] = *r
	}
	return out
}

// Len número de filas actuales.
func (e *Engine) Len() int { return len(e.rows) }

// Adjustments devuelve los ajustes actuales.
func (e *Engine) Adjustments() Adjustments { return e.adj }

// Totals devuelve el último resultado calculado.
func (e *Engine) Totals() Totals { return e.totals }

func (e *Engine) recomputeLine(pos int) Totals {
	r := e.rows[pos]
	r.Total = LineTotal(r.Quantity, r.Rate)
	return e.recompute(TriggerLineEdit)
}

func (e *Engine) recompute(trigger Trigger) Totals {
	lineTotals := make([]decimal.Decimal, len(e.rows))
	for i, r := range e.rows {
		lineTotals[i] = r.Total
	}
	e.totals = ComputeTotals(lineTotals, e.adj)
	for _, o := range e.observers {
		o(trigger, e.totals)
	}
	return e.totals
}

func (e *Engine) checkPos(pos int) error {
	if pos < 0 || pos >= len(e.rows) {
		return fmt.Errorf("%w: fila %d (hay %d)", domain.ErrNotFound, pos, len(e.rows))
	}
	return nil
}
