// Package format renders amounts, percentages and multiples for reports.
package format

import (
	"strings"

	"github.com/iwvelando/sme-valuation/pkg/mathutil"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var symbols = map[string]string{
	"EUR": "€",
	"USD": "$",
	"GBP": "£",
	"CHF": "CHF ",
	"MXN": "MX$",
}

// Symbol returns the display symbol of an ISO currency code. Unknown codes are
// rendered as the code followed by a space.
func Symbol(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if symbol, ok := symbols[code]; ok {
		return symbol
	}
	if code == "" {
		return symbols["EUR"]
	}
	return code + " "
}

// Currency returns a currency string with the code's symbol and thousands
// separators (e.g., "-€1,234.56").
func Currency(amount float64, code string) string {
	rounded := mathutil.Round(amount)
	if rounded == 0 {
		rounded = 0 // drop the sign of -0
	}
	if rounded < 0 {
		return "-" + Symbol(code) + NumericCurrency(-rounded)
	}
	return Symbol(code) + NumericCurrency(rounded)
}

// NumericCurrency returns a currency string without a currency symbol but with separators (e.g., "-1,234.56").
func NumericCurrency(amount float64) string {
	p := message.NewPrinter(language.English)
	return p.Sprintf("%.2f", amount)
}

// Whole returns an amount rounded to units with separators (e.g., "1,234").
func Whole(amount float64) string {
	p := message.NewPrinter(language.English)
	return p.Sprintf("%.0f", amount)
}

// Percent renders a 0-100 percentage with two decimals.
func Percent(pct float64) string {
	p := message.NewPrinter(language.English)
	return p.Sprintf("%.2f%%", pct)
}

// OptionalPercent renders a percentage or "n/a" when absent.
func OptionalPercent(pct *float64) string {
	if pct == nil {
		return "n/a"
	}
	return Percent(*pct)
}

// Multiple renders a valuation multiple such as EV/EBITDA.
func Multiple(x float64) string {
	if mathutil.IsZero(x) {
		return "n/a"
	}
	p := message.NewPrinter(language.English)
	return p.Sprintf("%.1fx", x)
}
