package notify_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/sufield/confdesk/internal/notify"
)

func TestFormatMoney(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		amount   string
		currency string
		want     string
	}{
		{name: "zero", amount: "0", currency: "NOK", want: "0 NOK"},
		{name: "small whole", amount: "950", currency: "NOK", want: "950 NOK"},
		{name: "thousands", amount: "1234567", currency: "NOK", want: "1,234,567 NOK"},
		{name: "cents kept", amount: "1234.5", currency: "usd", want: "$1,234.50"},
		{name: "rounding", amount: "999.999", currency: "EUR", want: "€1,000"},
		{name: "negative", amount: "-4200", currency: "GBP", want: "-£4,200"},
		{name: "exact thousand", amount: "1000", currency: "", want: "1,000"},
		{name: "six digits", amount: "250000", currency: "SEK", want: "250,000 SEK"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, notify.FormatMoney(decimal.RequireFromString(tt.amount), tt.currency))
		})
	}
}
