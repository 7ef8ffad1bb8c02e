package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAmount(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		currency string
		amount   float64
	}{
		{
			name:     "labeled total with dollar symbol",
			text:     "Coffee Shop\nSubtotal: $40.00\nTotal: $45.00\nThank you",
			currency: "$",
			amount:   45.00,
		},
		{
			name:     "labeled total without currency defaults to pounds",
			text:     "Total: 19.99",
			currency: "£",
			amount:   19.99,
		},
		{
			name:     "amount label",
			text:     "Amount: €12.50",
			currency: "€",
			amount:   12.50,
		},
		{
			name:     "currency amount followed by total keyword",
			text:     "£33.20 total due",
			currency: "£",
			amount:   33.20,
		},
		{
			name:     "dirham glyph normalized to AED",
			text:     "المجموع د.إ120.50",
			currency: "AED",
			amount:   120.50,
		},
		{
			name:     "rial glyph normalized to OMR",
			text:     "Total: ر.ع.5.500",
			currency: "OMR",
			amount:   5.500,
		},
		{
			name:     "dinar glyph normalized to KWD",
			text:     "د.ك10.250",
			currency: "KWD",
			amount:   10.250,
		},
		{
			name:     "iso code without label",
			text:     "paid AED 85.00 by card",
			currency: "AED",
			amount:   85.00,
		},
		{
			name:     "thousands separators stripped",
			text:     "Total: $1,234.56",
			currency: "$",
			amount:   1234.56,
		},
		{
			name:     "comma decimal separator",
			text:     "Total: €120,50",
			currency: "€",
			amount:   120.50,
		},
		{
			name:     "untagged numbers fall back to the last one",
			text:     "Subtotal 40.00\nService 4.00\n44.00",
			currency: "£",
			amount:   44.00,
		},
		{
			name:     "subtotal line does not read as a total label",
			text:     "Subtotal: $40.00\n$45.00 total",
			currency: "$",
			amount:   45.00,
		},
		{
			name:     "totally is not a total label",
			text:     "totally worth it\n9.99",
			currency: "£",
			amount:   9.99,
		},
		{
			name:     "no decimal number at all",
			text:     "thank you for shopping with us",
			currency: "£",
			amount:   0,
		},
		{
			name:     "empty text",
			text:     "",
			currency: "£",
			amount:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Amount(tt.text)
			assert.Equal(t, tt.currency, got.Currency)
			assert.InDelta(t, tt.amount, got.Amount, 1e-9)
		})
	}
}

func TestAmount_Idempotent(t *testing.T) {
	text := "Receipt\nTotal: $45.00"
	first := Amount(text)
	second := Amount(text)
	assert.Equal(t, first, second)
}

func TestAmount_NeverNegative(t *testing.T) {
	for _, text := range []string{"", "Total: -12.00", "balance -3.50 owed"} {
		got := Amount(text)
		assert.GreaterOrEqual(t, got.Amount, 0.0, "text %q", text)
	}
}
