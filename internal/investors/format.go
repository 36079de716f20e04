package investors

import (
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

var (
	billion = decimal.New(1, 9)
	million = decimal.New(1, 6)
)

// FormatCurrency renders a list total in billions with one decimal, e.g.
// "2.5B". Exactly zero renders "-".
func FormatCurrency(amount decimal.Decimal) string {
	if amount.IsZero() {
		return "-"
	}
	return amount.Div(billion).StringFixed(1) + "B"
}

// FormatAmount renders a commitment amount in millions with one decimal,
// rounding half away from zero: 1_250_000 -> "1.3M".
func FormatAmount(amount decimal.Decimal) string {
	return amount.Div(million).StringFixed(1) + "M"
}

// CurrencySymbol returns the display symbol of an ISO currency code, or the
// code itself when it is unknown.
func CurrencySymbol(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return ""
	}
	if grapheme := money.New(0, code).Currency().Grapheme; grapheme != "" {
		return grapheme
	}
	return code
}

// FormatCardAmount renders an aggregate card amount prefixed with the display
// currency symbol, e.g. "£73.0M".
func FormatCardAmount(amount decimal.Decimal, currency string) string {
	return CurrencySymbol(currency) + FormatAmount(amount)
}
