package bill_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/smart-billing/internal/domain/bill"
)

func TestParseAmount_Casos(t *testing.T) {
	casos := []struct {
		raw  string
		want string
	}{
		{"2", "2"},
		{"150.00", "150"},
		{" 150.5", "150.5"},
		{"12abc", "12"},
		{"-3.25", "-3.25"},
		{"+4", "4"},
		{".5", "0.5"},
		{"-.5", "-0.5"},
		{"7.", "7"},
		{"1e3", "1000"},
		{"1.5E-1", "0.15"},
		{"2e", "2"},
		{"", "0"},
		{"abc", "0"},
		{".", "0"},
		{"-", "0"},
		{"e5", "0"},
		{"1e99999", "0"},
	}
	for _, c := range casos {
		got := bill.ParseAmount(c.raw)
		assert.Equal(t, c.want, got.String(), "ParseAmount(%q)", c.raw)
	}
}

// Texto no numérico nunca produce pánico ni error: vale 0.
func TestParseAmount_NoNumericoEsCero(t *testing.T) {
	for _, raw := range []string{"", "abc", "NaN", "Infinity", "$100", "--1"} {
		assert.NotPanics(t, func() { bill.ParseAmount(raw) })
		assert.True(t, bill.ParseAmount(raw).IsZero(), "ParseAmount(%q) debe ser 0", raw)
	}
}

func TestNormalizeInput(t *testing.T) {
	assert.Equal(t, "", bill.NormalizeInput(""))
	assert.Equal(t, "2.00", bill.NormalizeInput("2"))
	assert.Equal(t, "150.50", bill.NormalizeInput("150.5"))
	assert.Equal(t, "1.01", bill.NormalizeInput("1.005"))
	assert.Equal(t, "0.00", bill.NormalizeInput("abc"))
}
