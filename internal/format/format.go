package format

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Price renders amount rounded to two decimals with the currency symbol.
// LTR output prefixes the symbol ("$1,234.50"); RTL output suffixes it ("1,234.50 $").
func Price(amount decimal.Decimal, symbol string, rtl bool) string {
	fixed := amount.StringFixed(2)
	neg := strings.HasPrefix(fixed, "-")
	fixed = strings.TrimPrefix(fixed, "-")
	head, tail, _ := strings.Cut(fixed, ".")
	digits := thousandSep(head) + "." + tail
	if neg && strings.Trim(digits, "0.,") != "" {
		digits = "-" + digits
	}
	if rtl {
		return digits + " " + symbol
	}
	if strings.HasPrefix(digits, "-") {
		return "-" + symbol + digits[1:]
	}
	return symbol + digits
}

func thousandSep(s string) string {
	var b strings.Builder
	for i, c := range s {
		if i != 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	return b.String()
}

// Date formats t in a locale-friendly short form.
func Date(t time.Time, lang string) string {
	switch strings.ToLower(lang) {
	case "ar":
		return t.Format("2006/01/02")
	default:
		return t.Format("Jan 2, 2006")
	}
}
