package bill

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// numericPrefix reconoce el prefijo numérico más largo de un texto, igual que
// parseFloat en el navegador: signo, parte entera, fracción y exponente opcionales.
var numericPrefix = regexp.MustCompile(`^([+-]?)(\d*)(?:\.(\d*))?(?:[eE]([+-]?\d+))?`)

// maxExponent acota exponentes absurdos ("1e999999") que no caben en un monto.
const maxExponent = 64

// ParseAmount convierte el texto de un campo numérico en decimal.
// Texto vacío, no numérico o fuera de rango vale 0; nunca retorna error.
//
//	"2"      → 2
//	" 150.5" → 150.5
//	"12abc"  → 12
//	"abc"    → 0
func ParseAmount(raw string) decimal.Decimal {
	s := strings.TrimLeft(raw, " \t\r\n\f\v")
	m := numericPrefix.FindStringSubmatch(s)
	if m == nil {
		return decimal.Zero
	}
	sign, intPart, fracPart, exp := m[1], m[2], m[3], m[4]
	if intPart == "" && fracPart == "" {
		return decimal.Zero
	}
	if intPart == "" {
		intPart = "0"
	}

	var b strings.Builder
	b.WriteString(sign)
	b.WriteString(intPart)
	if fracPart != "" {
		b.WriteByte('.')
		b.WriteString(fracPart)
	}
	if exp != "" {
		n, err := strconv.Atoi(exp)
		if err != nil || n > maxExponent || n < -maxExponent {
			return decimal.Zero
		}
		b.WriteByte('e')
		b.WriteString(strconv.Itoa(n))
	}

	d, err := decimal.NewFromString(b.String())
	if err != nil {
		return decimal.Zero
	}
	return d
}

// NormalizeInput aplica el formato de los campos numéricos al perder el foco:
// vacío se mantiene vacío; cualquier otro valor queda con 2 decimales.
func NormalizeInput(raw string) string {
	if raw == "" {
		return ""
	}
	return Round2(ParseAmount(raw)).StringFixed(2)
}
