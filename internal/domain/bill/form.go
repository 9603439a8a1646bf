package bill

import (
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Nombres de los campos de ajustes en el formulario enviado.
const (
	FormTaxRate  = "tax_rate"
	FormDiscount = "discount"
	FormAdvance  = "advance_amount"
)

var descriptionKey = regexp.MustCompile(`^items\[(\d+)\]\[description\]$`)

// ParseItemsForm interpreta un formulario con campos items[N][description|quantity|rate]
// como lo hace el receptor del envío:
//   - cantidad vacía vale 1; cantidad o tarifa no numérica deja la fila en 1 × 0;
//   - se descartan filas sin descripción o con tarifa ≤ 0;
//   - ante claves repetidas gana el primer valor;
//   - las filas se ordenan por N y conservan N como FieldIndex; los campos de cada
//     fila se buscan con el índice tal como fue escrito ("01" no es "1").
func ParseItemsForm(form url.Values) ([]LineItem, Adjustments) {
	type formRow struct {
		raw string // índice tal como viene en la clave, ej. "01"
		n   int
	}
	found := make([]formRow, 0)
	for key := range form {
		m := descriptionKey.FindStringSubmatch(key)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		found = append(found, formRow{raw: m[1], n: n})
	}
	sort.Slice(found, func(i, j int) bool {
		if found[i].n == found[j].n {
			return found[i].raw < found[j].raw
		}
		return found[i].n < found[j].n
	})

	items := make([]LineItem, 0, len(found))
	for _, r := range found {
		prefix := "items[" + r.raw + "]"
		description := strings.TrimSpace(form.Get(prefix + "[description]"))
		quantity, rate := formQuantityRate(form, prefix)
		if description == "" || !rate.IsPositive() {
			continue
		}
		items = append(items, LineItem{
			FieldIndex:  r.n,
			Description: description,
			Quantity:    quantity.String(),
			Rate:        rate.String(),
		})
	}

	adj := Adjustments{
		TaxRate:  form.Get(FormTaxRate),
		Discount: form.Get(FormDiscount),
		Advance:  form.Get(FormAdvance),
	}
	return items, adj
}

func formQuantityRate(form url.Values, prefix string) (decimal.Decimal, decimal.Decimal) {
	one := decimal.NewFromInt(1)
	qs := strings.TrimSpace(form.Get(prefix + "[quantity]"))
	rs := strings.TrimSpace(form.Get(prefix + "[rate]"))

	quantity := one
	if qs != "" {
		q, err := decimal.NewFromString(qs)
		if err != nil {
			return one, decimal.Zero
		}
		quantity = q
	}
	rate := decimal.Zero
	if rs != "" {
		r, err := decimal.NewFromString(rs)
		if err != nil {
			return one, decimal.Zero
		}
		rate = r
	}
	return quantity, rate
}

// EncodeItemsForm serializa filas y ajustes con los mismos nombres de campo.
func EncodeItemsForm(items []LineItem, adj Adjustments) url.Values {
	form := url.Values{}
	for _, it := range items {
		// Add y no Set: un índice repetido conserva el primer valor, como en el navegador.
		form.Add(it.FieldName("description"), it.Description)
		form.Add(it.FieldName("quantity"), it.Quantity)
		form.Add(it.FieldName("rate"), it.Rate)
		form.Add(it.FieldName("total"), it.Total.StringFixed(2))
	}
	form.Set(FormTaxRate, adj.TaxRate)
	form.Set(FormDiscount, adj.Discount)
	form.Set(FormAdvance, adj.Advance)
	return form
}
