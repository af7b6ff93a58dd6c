package domain

import "time"

// AuditEntry - запись журнала действий. Timestamp и ClientIP проставляет хранилище.
type AuditEntry struct {
	ID         string    `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	Action     string    `json:"action"`
	Details    string    `json:"details"`
	OrderID    string    `json:"order_id,omitempty"`
	DeviceInfo string    `json:"device_info"`
	ClientIP   string    `json:"client_ip"`
}

// AuditRecord - то, что клиент отправляет при добавлении записи.
type AuditRecord struct {
	Action     string `json:"action"`
	Details    string `json:"details"`
	OrderID    string `json:"order_id,omitempty"`
	DeviceInfo string `json:"device_info"`
}
