package aggregate

import (
	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/snackorders/internal/domain"
)

// PaymentRow - строка чек-листа оплаты.
type PaymentRow struct {
	OrderID      string          `json:"order_id"`
	CustomerName string          `json:"customer_name"`
	Total        decimal.Decimal `json:"total"`
	IsPaid       bool            `json:"is_paid"`
}

// Label возвращает человекочитаемый статус оплаты.
func (r PaymentRow) Label() string {
	return PaidLabel(r.IsPaid)
}

// PaidLabel переводит флаг оплаты в метку для журнала и отображения.
func PaidLabel(isPaid bool) string {
	if isPaid {
		return "paid"
	}
	return "unpaid"
}

// PaymentChecklist возвращает по строке на заказ в исходном порядке.
func PaymentChecklist(orders []domain.Order) []PaymentRow {
	rows := make([]PaymentRow, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, PaymentRow{
			OrderID:      o.ID,
			CustomerName: o.CustomerName,
			Total:        o.TotalPrice,
			IsPaid:       o.IsPaid,
		})
	}
	return rows
}

// Outstanding возвращает сумму неоплаченных заказов.
func Outstanding(orders []domain.Order) decimal.Decimal {
	total := decimal.Zero
	for _, o := range orders {
		if !o.IsPaid {
			total = total.Add(o.TotalPrice)
		}
	}
	return total
}
