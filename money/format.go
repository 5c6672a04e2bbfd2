// Package money formats integer currency amounts for display.
package money

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultLocale is the storefront's display locale (Colombian pesos).
var DefaultLocale = language.MustParse("es-CO")

// Formatter renders whole currency units with locale digit grouping and no decimals.
type Formatter struct {
	printer *message.Printer
	symbol  string
}

// NewFormatter returns a Formatter for the given locale using the "$" symbol.
func NewFormatter(tag language.Tag) *Formatter {
	return &Formatter{
		printer: message.NewPrinter(tag),
		symbol:  "$",
	}
}

// Format renders amount, e.g. 1234567 -> "$1.234.567" for es-CO.
func (f *Formatter) Format(amount int64) string {
	if amount < 0 {
		return "-" + f.symbol + f.printer.Sprintf("%d", -amount)
	}
	return f.symbol + f.printer.Sprintf("%d", amount)
}

var defaultFormatter = NewFormatter(DefaultLocale)

// FormatCOP formats amount with the default storefront locale.
func FormatCOP(amount int64) string {
	return defaultFormatter.Format(amount)
}
