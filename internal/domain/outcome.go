package domain

// OutcomeKind различает результат операций над строками заказа.
type OutcomeKind int

const (
	// OutcomeUpdated - заказ сохранён с оставшимися строками.
	OutcomeUpdated OutcomeKind = iota + 1
	// OutcomeDeleted - удаление последней строки удалило весь заказ.
	OutcomeDeleted
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeUpdated:
		return "updated"
	case OutcomeDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// Outcome - результат SetQuantity/DeleteLine: Updated(order) либо Deleted(order_id).
type Outcome struct {
	Kind    OutcomeKind
	Order   Order
	OrderID string
}

// Updated строит исход с обновлённым заказом.
func Updated(order Order) Outcome {
	return Outcome{Kind: OutcomeUpdated, Order: order, OrderID: order.ID}
}

// Deleted строит исход каскадного удаления заказа.
func Deleted(orderID string) Outcome {
	return Outcome{Kind: OutcomeDeleted, OrderID: orderID}
}

// IsDeleted сообщает, был ли заказ удалён.
func (o Outcome) IsDeleted() bool {
	return o.Kind == OutcomeDeleted
}
