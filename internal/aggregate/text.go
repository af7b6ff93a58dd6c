package aggregate

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Text рендерит сводку как текст заказа для отправки в снекбар.
// format задаёт представление сумм; nil означает decimal.StringFixed(2).
func (s Summary) Text(format func(decimal.Decimal) string) string {
	if format == nil {
		format = func(d decimal.Decimal) string { return d.StringFixed(2) }
	}

	var b strings.Builder
	b.WriteString("Snack order\n\n")
	if len(s.Rows) == 0 {
		b.WriteString("(no items)\n")
	}
	for _, r := range s.Rows {
		fmt.Fprintf(&b, "%dx %s  %s\n", r.Quantity, r.Name, format(r.Subtotal))
	}
	fmt.Fprintf(&b, "\nTotal: %s\n", format(s.GrandTotal))
	return b.String()
}
