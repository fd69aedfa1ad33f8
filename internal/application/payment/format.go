package payment

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var displayLanguage = language.BrazilianPortuguese

// FormatAmount renders an amount in minor units the way the dashboard shows it,
// e.g. 1790 brl is "R$ 17,90". Unknown currencies fall back to "17.90 XYZ".
func FormatAmount(cents int64, code string) string {
	amount := decimal.New(cents, -2)

	unit, err := currency.ParseISO(strings.ToUpper(code))
	if err != nil {
		return amount.StringFixed(2) + " " + strings.ToUpper(code)
	}

	p := message.NewPrinter(displayLanguage)
	return p.Sprint(currency.Symbol(unit.Amount(amount.InexactFloat64())))
}
