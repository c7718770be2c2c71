package pricelabel

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseNumericValue(t *testing.T) {
	tests := []struct {
		name  string
		label string
		want  float64
		ok    bool
	}{
		{"grouped comma decimal with currency", "1 234,56 USD", 1234.56, true},
		{"plain integer with currency", "100 USD", 100, true},
		{"dot decimal", "42.5", 42.5, true},
		{"negative comma decimal", "-12,5 EUR", -12.5, true},
		{"non-breaking space grouping", "9 876,1 SEK", 9876.1, true},
		{"first numeral wins", "10 to 20", 10, true},
		{"no digits", "not a price", 0, false},
		{"empty", "", 0, false},
		{"currency only", "USD", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseNumericValue(tt.label)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.want, got, 1e-9)
			}
		})
	}
}

func TestFormatPriceLabel(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		currency string
		want     string
		ok       bool
	}{
		{"grouped with currency", 1234.5, "USD", "1 234,50 USD", true},
		{"two digits at threshold", 100.0, "USD", "100,00 USD", true},
		{"small value keeps four digits", 12.3456, "EUR", "12,3456 EUR", true},
		{"small value trims to three digits", 1.5, "", "1,500", true},
		{"negative grouped", -1234567.25, "USD", "-1 234 567,25 USD", true},
		{"currency trimmed", 2.5, "  GBP  ", "2,500 GBP", true},
		{"no currency", 250000.0, "", "250 000,00", true},
		{"nan", math.NaN(), "USD", "", false},
		{"positive infinity", math.Inf(1), "USD", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FormatPriceLabel(tt.value, tt.currency)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInferCurrencyFromLabel(t *testing.T) {
	tests := []struct {
		name  string
		label string
		want  string
		ok    bool
	}{
		{"uppercased suffix", "1 234,56 usd", "USD", true},
		{"already upper", "100 USD", "USD", true},
		{"trailing spaces", "100 EUR  ", "EUR", true},
		{"bare code", "USD", "USD", true},
		{"no suffix", "1234", "", false},
		{"longer trailing word", "100 gold", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := InferCurrencyFromLabel(tt.label)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatReturnLabel(t *testing.T) {
	assert.Equal(t, "+10.0%", FormatReturnLabel(10))
	assert.Equal(t, "+0.0%", FormatReturnLabel(0))
	assert.Equal(t, "-3.4%", FormatReturnLabel(-3.4))
	assert.Equal(t, "+2.5%", FormatReturnLabel(2.51))
	assert.Equal(t, "+0.0%", FormatReturnLabel(math.NaN()))
}
