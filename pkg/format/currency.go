// Package format renders amounts for people to read.
package format

import (
	"math"

	"github.com/iwvelando/emi-calculator/pkg/mathutil"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Currency returns a currency string with the given symbol and thousands
// separators (e.g., "-₹1,234.56").
func Currency(amount float64, symbol string) string {
	formatted := NumericCurrency(math.Abs(amount))
	if mathutil.Round(amount) < 0 {
		return "-" + symbol + formatted
	}
	return symbol + formatted
}

// NumericCurrency returns a currency string without a currency symbol but with separators (e.g., "-1,234.56").
func NumericCurrency(amount float64) string {
	return printer.Sprintf("%.2f", mathutil.Round(amount))
}

// Percent formats a percentage with one decimal place (e.g., "54.8%").
func Percent(value float64) string {
	return printer.Sprintf("%.1f%%", value)
}
