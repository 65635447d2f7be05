package kroger

import (
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// NotAvailable marks a price the upstream record did not carry.
const NotAvailable = "N/A"

// FormatPrice renders v as US currency with two decimals and thousands
// separators. Rounding is correct rounding of the float64 value, with exact
// halves going to the even digit: 2.675 is stored below the half and becomes
// "$2.67", 0.125 is an exact half and becomes "$0.12".
func FormatPrice(v float64) string {
	fixed := strconv.FormatFloat(v, 'f', 2, 64)
	whole, frac, _ := strings.Cut(fixed, ".")

	n, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return "$" + fixed
	}
	return "$" + humanize.Comma(n) + "." + frac
}
