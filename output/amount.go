package output

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatAmount formats an amount with thousands separators. Whole amounts
// are printed without decimals, others with two.
func FormatAmount(d decimal.Decimal) string {
	var s string
	if d.Equal(d.Truncate(0)) {
		s = d.Truncate(0).String()
	} else {
		s = d.StringFixed(2)
	}

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}

	intPart, frac, hasFrac := strings.Cut(s, ".")
	var b strings.Builder
	b.WriteString(sign)
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if hasFrac {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return b.String()
}
