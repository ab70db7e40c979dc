package query

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatConversion renders a conversion result like "2 BTC ≈ 100000 USD".
func FormatConversion(amount, result float64, base, quote string) string {
	return fmt.Sprintf("%s %s ≈ %s %s",
		FormatNumber(amount), strings.ToUpper(base),
		FormatNumber(result), strings.ToUpper(quote))
}

// FormatNumber prints up to 12 decimal places with trailing zeros trimmed,
// so tiny alt-coin prices stay readable and round amounts stay round.
func FormatNumber(value float64) string {
	s := strconv.FormatFloat(value, 'f', 12, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	if s == "" || s == "-" {
		return "0"
	}
	return s
}
