package expense

import (
	"github.com/dustin/go-humanize"
)

func CurrencySymbol(currency string) string {
	if currency == "INR" {
		return "₹"
	}
	return "$"
}

// Money renders an amount with its currency symbol and thousands grouping.
func Money(currency string, amount float64) string {
	return CurrencySymbol(currency) + humanize.Commaf(amount)
}
