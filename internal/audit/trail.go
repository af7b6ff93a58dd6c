// Package audit ведёт журнал действий: клиентское представление записей
// и классификацию устройства по строке User-Agent.
package audit

import (
	"context"
	"sort"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/snackorders/internal/domain"
)

// Теги действий журнала.
const (
	ActionOrderPlaced     = "order placed"
	ActionItemAdjusted    = "item adjusted"
	ActionItemRemoved     = "item removed"
	ActionOrderRemoved    = "order removed"
	ActionPaymentChanged  = "payment changed"
	ActionAppReset        = "app reset"
	ActionAdminLogin      = "admin login"
	ActionAdminLogout     = "admin logout"
	ActionSettingsChanged = "settings changed"
)

// Trail - представление журнала, новые записи первыми.
// Запись добавляется в представление только после подтверждения хранилищем.
type Trail struct {
	log    domain.AuditLog
	logger *log.Entry

	mu      sync.RWMutex
	entries []domain.AuditEntry
}

// NewTrail создаёт журнал поверх хранилища записей.
func NewTrail(auditLog domain.AuditLog, logger *log.Entry) *Trail {
	if logger == nil {
		logger = log.WithField("component", "audit-trail")
	}
	return &Trail{log: auditLog, logger: logger}
}

// Load перечитывает журнал из хранилища и сортирует по времени хранилища.
func (t *Trail) Load(ctx context.Context) error {
	entries, err := t.log.ListAuditLog(ctx)
	if err != nil {
		return domain.Unavailable("list audit log", err)
	}
	sortNewestFirst(entries)

	t.mu.Lock()
	t.entries = entries
	t.mu.Unlock()
	return nil
}

// Record добавляет запись. Ошибка хранилища логируется и не возвращается:
// к этому моменту сама мутация уже подтверждена.
func (t *Trail) Record(ctx context.Context, deviceInfo, action, details, orderID string) {
	entry, err := t.log.AppendAuditLog(ctx, domain.AuditRecord{
		Action:     action,
		Details:    details,
		OrderID:    orderID,
		DeviceInfo: deviceInfo,
	})
	if err != nil {
		t.logger.WithError(err).WithFields(log.Fields{
			"action":   action,
			"order_id": orderID,
		}).Warn("failed to append audit entry")
		return
	}

	t.mu.Lock()
	t.entries = append([]domain.AuditEntry{entry}, t.entries...)
	sortNewestFirst(t.entries)
	t.mu.Unlock()
}

// Entries возвращает копию представления журнала.
func (t *Trail) Entries() []domain.AuditEntry {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]domain.AuditEntry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Clear очищает локальное представление.
func (t *Trail) Clear() {
	t.mu.Lock()
	t.entries = nil
	t.mu.Unlock()
}

func sortNewestFirst(entries []domain.AuditEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})
}
