package coupons

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatBRL renders a decimal the way a Brazilian shopper reads money:
// thousands separated by dots, cents by a comma, prefixed with "R$ ".
func FormatBRL(amount decimal.Decimal) string {
	fixed := amount.StringFixed(2)

	negative := strings.HasPrefix(fixed, "-")
	fixed = strings.TrimPrefix(fixed, "-")

	parts := strings.SplitN(fixed, ".", 2)
	intPart, cents := parts[0], parts[1]

	var grouped strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			grouped.WriteByte('.')
		}
		grouped.WriteRune(digit)
	}

	out := "R$ " + grouped.String() + "," + cents
	if negative {
		out = "-" + out
	}
	return out
}
