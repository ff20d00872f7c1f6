package dashboard

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// currencySymbols lists the codes rendered with a symbol and digit grouping.
// Every other code falls back to "<amount> <CODE>".
var currencySymbols = map[string]string{
	"USD": "$",
}

// dateLayouts are tried in order by FormatDateLabel.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// fixed2 rounds the exact binary value of v to two places, ties away from
// zero, so 1.005 (stored just below the tie) gives "1.00". Negatives that
// round to zero keep their sign. Non-finite values are printed as is.
func fixed2(v float64) string {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return strconv.FormatFloat(v, 'f', 2, 64)
	}
	d, err := decimal.NewFromString(strconv.FormatFloat(v, 'f', 40, 64))
	if err != nil {
		return strconv.FormatFloat(v, 'f', 2, 64)
	}
	s := d.StringFixed(2)
	if v < 0 && !strings.HasPrefix(s, "-") {
		s = "-" + s
	}
	return s
}

// FormatCurrency formats amount in the given currency.
// USD renders as "$1,234.50"; other codes as "1234.50 EUR".
func FormatCurrency(amount float64, currency string) string {
	symbol, ok := currencySymbols[currency]
	if !ok {
		return fmt.Sprintf("%s %s", fixed2(amount), currency)
	}

	str := fixed2(amount)
	negative := strings.HasPrefix(str, "-")
	str = strings.TrimPrefix(str, "-")

	parts := strings.SplitN(str, ".", 2)
	if len(parts) != 2 {
		return symbol + str
	}
	result := symbol + groupThousands(parts[0]) + "." + parts[1]
	if negative {
		result = "-" + result
	}
	return result
}

// groupThousands inserts commas every three digits from the right.
func groupThousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	var b strings.Builder
	head := n % 3
	if head > 0 {
		b.WriteString(s[:head])
	}
	for i := head; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// FormatAxisCurrency formats a y-axis tick. compact is accepted for
// symmetry with the tooltip formatter and does not change the output.
func FormatAxisCurrency(value float64, currency string, compact bool) string {
	return FormatCurrency(value, currency)
}

// FormatTooltip formats the hover text for one chart point.
func FormatTooltip(value float64, currency string) string {
	return "Price: " + FormatCurrency(value, currency)
}

// FormatCompact abbreviates large magnitudes: 2500000 -> "2.50M",
// 1500 -> "1.50K", 500 -> "500".
func FormatCompact(n float64) string {
	switch {
	case n >= 1_000_000:
		return fixed2(n/1_000_000) + "M"
	case n >= 1_000:
		return fixed2(n/1_000) + "K"
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// FormatDateLabel shortens an ISO date to "Jan 2". Unparseable input is
// returned unchanged.
func FormatDateLabel(date string) string {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, date); err == nil {
			return t.Format("Jan 2")
		}
	}
	return date
}

// FormatPriceChange renders "+1.25 (0.67%)". A nil percent (previous close
// of zero) renders as "n/a".
func FormatPriceChange(change float64, percent *float64) string {
	sign := ""
	if change >= 0 {
		sign = "+"
	}
	pct := "n/a"
	if percent != nil {
		pct = fixed2(*percent) + "%"
	}
	return fmt.Sprintf("%s%s (%s)", sign, fixed2(change), pct)
}
