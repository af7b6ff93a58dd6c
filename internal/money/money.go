// Package money форматирует денежные суммы для отображения.
package money

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// DefaultLocale - локаль отображения цен (nl-NL, евро).
var DefaultLocale = language.Dutch

// Format форматирует сумму в евро по нидерландской локали, например "€ 2,25".
func Format(amount decimal.Decimal) string {
	return FormatIn(DefaultLocale, amount)
}

// FormatIn форматирует сумму в евро для указанной локали.
// message.Printer не потокобезопасен, поэтому создаётся на каждый вызов.
func FormatIn(tag language.Tag, amount decimal.Decimal) string {
	f, _ := amount.Round(2).Float64()
	p := message.NewPrinter(tag)
	return p.Sprintf("€ %v", number.Decimal(f, number.Scale(2)))
}
