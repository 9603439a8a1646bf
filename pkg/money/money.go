// Package money formatea montos en la única moneda configurada del servicio.
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Formatter convierte montos en texto con símbolo y separadores del locale.
type Formatter struct {
	unit    currency.Unit
	tag     language.Tag
	printer *message.Printer
	symbol  string // vacío: símbolo del locale
}

// símbolos de reemplazo cuando el del locale no existe en cp1252.
var cp1252Symbols = map[string]string{
	"INR": "Rs ",
}

// New construye un formateador para un código ISO 4217 (ej. "INR") y un locale BCP 47 (ej. "en-IN").
func New(code, locale string) (*Formatter, error) {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return nil, fmt.Errorf("money: moneda %q: %w", code, err)
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("money: locale %q: %w", locale, err)
	}
	return &Formatter{unit: unit, tag: tag, printer: message.NewPrinter(tag)}, nil
}

// Code devuelve el código ISO de la moneda.
func (f *Formatter) Code() string { return f.unit.String() }

// Symbol devuelve el símbolo de la moneda en el locale configurado.
func (f *Formatter) Symbol() string {
	if f.symbol != "" {
		return f.symbol
	}
	return f.printer.Sprint(currency.Symbol(f.unit))
}

// CP1252 devuelve un formateador cuyo símbolo se puede escribir con las fuentes
// estándar de PDF (Helvetica, Times), que solo cubren Windows-1252.
// Si el símbolo del locale ya es representable devuelve f sin cambios.
func (f *Formatter) CP1252() *Formatter {
	if _, err := charmap.Windows1252.NewEncoder().String(f.Symbol()); err == nil {
		return f
	}
	out := *f
	out.symbol = cp1252Symbols[f.Code()]
	if out.symbol == "" {
		out.symbol = f.Code() + " "
	}
	return &out
}

// Format devuelve el monto con símbolo, separador de miles y 2 decimales. Ej: "₹1,234.50".
func (f *Formatter) Format(amount decimal.Decimal) string {
	rounded := amount.Round(2)
	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Abs()
	}
	return sign + f.Symbol() + f.Number(rounded)
}

// Number devuelve solo la parte numérica con separadores del locale y 2 decimales.
// x/text solo formatea tipos nativos, así que el monto pasa por float64: es exacto
// mientras el valor tenga como mucho 15 dígitos significativos (hasta 9.999.999.999.999,99).
func (f *Formatter) Number(amount decimal.Decimal) string {
	return f.printer.Sprint(number.Decimal(amount.Round(2).InexactFloat64(), number.Scale(2)))
}
