package payment

import (
	"fmt"
	"math"
	"strings"
)

// FormatNaira renders an amount as a Nigerian naira string with thousands
// separators, e.g. 25000 -> "₦25,000.00". Receipts show amounts this way.
func FormatNaira(amount float64) string {
	return formatCurrency(amount, "₦")
}

func formatCurrency(amount float64, symbol string) string {
	negative := amount < 0
	amount = math.Abs(amount)

	whole := int64(amount)
	cents := int64(math.Round((amount - float64(whole)) * 100))
	if cents == 100 { // rounding carried over
		whole++
		cents = 0
	}

	digits := fmt.Sprintf("%d", whole)
	var groups []string
	for len(digits) > 3 {
		groups = append([]string{digits[len(digits)-3:]}, groups...)
		digits = digits[:len(digits)-3]
	}
	groups = append([]string{digits}, groups[0:]...)

	sign := ""
	if negative {
		sign = "-"
	}
	return fmt.Sprintf("%s%s%s.%02d", sign, symbol, strings.Join(groups, ","), cents)
}
