// Package money formats amounts for display.
package money

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultSymbol is used when no currency symbol is configured.
const DefaultSymbol = "$"

// Format renders v with two decimals, thousands separators and the given
// currency symbol, e.g. "-€1,234.50". Values that are not numbers render as
// zero, and amounts under a tenth of a cent render as an unsigned zero.
func Format(v float64, symbol string) string {
	if symbol == "" {
		symbol = DefaultSymbol
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(v) < 0.001 {
		v = 0
	}

	d := decimal.NewFromFloat(v).Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}

	fixed := d.StringFixed(2)
	whole, frac, _ := strings.Cut(fixed, ".")
	return sign + symbol + group(whole) + "." + frac
}

// Signed is Format with an explicit "+" on positive amounts.
func Signed(v float64, symbol string) string {
	s := Format(v, symbol)
	if v >= 0.005 {
		return "+" + s
	}
	return s
}

func group(digits string) string {
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
