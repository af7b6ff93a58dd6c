package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// MenuItem - позиция меню. Принадлежит каталогу, ядро её не изменяет.
type MenuItem struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Price    decimal.Decimal `json:"price"`
}

// OrderLine представляет одну строку заказа.
// Name и Price фиксируются в момент создания строки и не следуют за меню.
type OrderLine struct {
	// MenuItemID пуст, если позиция меню не выбрана.
	MenuItemID string          `json:"menu_item_id"`
	Name       string          `json:"name"`
	Quantity   int             `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
}

// Subtotal возвращает quantity * price.
func (l OrderLine) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Order агрегирует заказ одного человека.
type Order struct {
	ID           string          `json:"id"`
	CustomerName string          `json:"customer_name"`
	Items        []OrderLine     `json:"items"`
	TotalPrice   decimal.Decimal `json:"total_price"`
	IsPaid       bool            `json:"is_paid"`
	CreatedAt    time.Time       `json:"created_at"`
}

// OrderPatch - частичное обновление заказа; nil означает "не менять".
type OrderPatch struct {
	Items  *[]OrderLine `json:"items,omitempty"`
	IsPaid *bool        `json:"is_paid,omitempty"`
}

// RecalculateTotal считает сумму заказа по позициям.
func RecalculateTotal(items []OrderLine) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// CloneLines возвращает независимую копию строк заказа.
func CloneLines(items []OrderLine) []OrderLine {
	if items == nil {
		return nil
	}
	out := make([]OrderLine, len(items))
	copy(out, items)
	return out
}

// Clone возвращает копию заказа, не разделяющую срез строк с оригиналом.
func (o Order) Clone() Order {
	o.Items = CloneLines(o.Items)
	return o
}

// ValidateInvariants проверяет базовые инварианты заказа и возвращает список замечаний.
func (o *Order) ValidateInvariants() []error {
	var errs []error

	if strings.TrimSpace(o.CustomerName) == "" {
		errs = append(errs, ErrCustomerNameRequired)
	}
	if len(o.Items) == 0 {
		errs = append(errs, ErrItemsRequired)
	}

	for _, item := range o.Items {
		if item.Quantity < 1 {
			errs = append(errs, ErrItemQtyInvalid)
		}
		if item.Price.IsNegative() {
			errs = append(errs, ErrItemPriceInvalid)
		}
	}
	// Сверяем total_price с суммой qty * price.
	if !RecalculateTotal(o.Items).Equal(o.TotalPrice) {
		errs = append(errs, ErrAmountMismatch)
	}

	return errs
}
