package bill

import "github.com/shopspring/decimal"

// moneyPlaces decimales con los que se redondea todo monto derivado.
const moneyPlaces = 2

var hundred = decimal.NewFromInt(100)

// Round2 redondea a 2 decimales, mitad alejándose de cero, sobre el valor
// decimal exacto (sin pasar por punto flotante).
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(moneyPlaces)
}

// Adjustments son los ajustes escalares de la factura tal como fueron digitados.
type Adjustments struct {
	TaxRate  string // porcentaje de impuesto, ej. "18"
	Discount string // descuento fijo
	Advance  string // anticipo recibido
}

// Totals valores derivados de la factura; nunca se actualizan de forma incremental.
type Totals struct {
	Subtotal        decimal.Decimal
	TaxAmount       decimal.Decimal
	GrandTotal      decimal.Decimal
	RemainingAmount decimal.Decimal
}

// Equal compara dos resultados monto a monto.
func (t Totals) Equal(o Totals) bool {
	return t.Subtotal.Equal(o.Subtotal) &&
		t.TaxAmount.Equal(o.TaxAmount) &&
		t.GrandTotal.Equal(o.GrandTotal) &&
		t.RemainingAmount.Equal(o.RemainingAmount)
}

// LineTotal calcula el total de una línea: round2(cantidad × tarifa).
func LineTotal(quantity, rate string) decimal.Decimal {
	return Round2(ParseAmount(quantity).Mul(ParseAmount(rate)))
}

// ComputeTotals calcula subtotal, impuesto, total y saldo pendiente a partir de
// los totales de línea ya redondeados y de los ajustes.
//
//	subtotal  = Σ totales de línea
//	impuesto  = round2(subtotal × tasa / 100)
//	total     = round2(subtotal + impuesto − descuento)   (puede ser negativo)
//	pendiente = max(0, total − anticipo)
func ComputeTotals(lineTotals []decimal.Decimal, adj Adjustments) Totals {
	subtotal := decimal.Zero
	for _, t := range lineTotals {
		subtotal = subtotal.Add(t)
	}
	taxRate := ParseAmount(adj.TaxRate)
	discount := ParseAmount(adj.Discount)
	advance := ParseAmount(adj.Advance)

	taxAmount := Round2(subtotal.Mul(taxRate).Div(hundred))
	grandTotal := Round2(subtotal.Add(taxAmount).Sub(discount))
	remaining := Round2(grandTotal.Sub(advance))
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}

	return Totals{
		Subtotal:        subtotal,
		TaxAmount:       taxAmount,
		GrandTotal:      grandTotal,
		RemainingAmount: remaining,
	}
}
