package notify

import (
	"strings"

	"github.com/shopspring/decimal"
)

var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
}

// FormatMoney renders an amount with thousands separators and two decimals.
// Whole amounts drop the decimals. Known currencies get a symbol prefix,
// others a code suffix.
func FormatMoney(amount decimal.Decimal, currency string) string {
	s := amount.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	if amount.IsNegative() && !amount.Round(2).IsZero() {
		b.WriteByte('-')
	}

	code := strings.ToUpper(strings.TrimSpace(currency))
	symbol, hasSymbol := currencySymbols[code]
	if hasSymbol {
		b.WriteString(symbol)
	}

	b.WriteString(groupThousands(intPart))
	if frac != "00" {
		b.WriteByte('.')
		b.WriteString(frac)
	}

	if !hasSymbol && code != "" {
		b.WriteByte(' ')
		b.WriteString(code)
	}
	return b.String()
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
