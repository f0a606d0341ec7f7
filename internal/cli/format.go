// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/theirongolddev/tally/internal/money"

	"github.com/shopspring/decimal"
)

// FormatAmount renders d in cur with grouping and two decimals, e.g. "₹1,23,456.50".
func FormatAmount(cur money.Currency, d decimal.Decimal) string {
	return cur.Display(d)
}

// FormatBalance is FormatAmount with an explicit sign, e.g. "+$12.00" or "-$3.50".
func FormatBalance(cur money.Currency, d decimal.Decimal) string {
	if d.IsNegative() {
		return "-" + cur.Display(d.Neg())
	}
	return "+" + cur.Display(d)
}

// FormatShare formats a whole-number percentage.
func FormatShare(pct int) string {
	return strconv.Itoa(pct) + "%"
}

// FormatLegend renders a chart legend entry: "Food: ₹13.00 (52%)".
func FormatLegend(cur money.Currency, label string, sum decimal.Decimal, pct int) string {
	return fmt.Sprintf("%s: %s (%s)", label, cur.Display(sum), FormatShare(pct))
}

// FormatDate formats a record date in local time.
func FormatDate(t time.Time) string {
	return t.Local().Format("2006-01-02")
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// Truncate shortens s to at most n display runes, ending with "…".
func Truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 {
		return ""
	}
	if len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}
