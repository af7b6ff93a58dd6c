package domain

import (
	"context"
	"time"
)

// EventType - тип события изменения данных.
type EventType string

const (
	EventOrderCreated    EventType = "order.created"
	EventOrderUpdated    EventType = "order.updated"
	EventOrderDeleted    EventType = "order.deleted"
	EventOrdersReset     EventType = "orders.reset"
	EventAuditAppended   EventType = "audit.appended"
	EventSettingsUpdated EventType = "settings.updated"
	EventMenuReplaced    EventType = "menu.replaced"
)

// ChangeEvent описывает подтверждённое хранилищем изменение.
type ChangeEvent struct {
	Type      EventType   `json:"type"`
	OrderID   string      `json:"order_id,omitempty"`
	Order     *Order      `json:"order,omitempty"`
	Audit     *AuditEntry `json:"audit,omitempty"`
	Settings  *Settings   `json:"settings,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// Key возвращает ключ партиционирования события.
func (e ChangeEvent) Key() string {
	if e.OrderID != "" {
		return e.OrderID
	}
	return string(e.Type)
}

// EventPublisher рассылает события изменений (websocket, Kafka).
// Ошибка публикации не отменяет уже сохранённое изменение.
type EventPublisher interface {
	Publish(ctx context.Context, event ChangeEvent) error
}
