package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/vladislavdragonenkov/snackorders/internal/domain"
)

type auditRepositoryInMemory struct {
	mu      sync.RWMutex
	entries []domain.AuditEntry
}

// NewAuditRepository возвращает in-memory журнал действий.
func NewAuditRepository() domain.AuditRepository {
	return &auditRepositoryInMemory{}
}

func (r *auditRepositoryInMemory) Append(_ context.Context, entry domain.AuditEntry) error {
	r.mu.Lock()
	r.entries = append(r.entries, entry)
	r.mu.Unlock()
	return nil
}

// List возвращает записи от новых к старым; при равном времени новее та, что добавлена позже.
func (r *auditRepositoryInMemory) List(_ context.Context, limit int) ([]domain.AuditEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.AuditEntry, 0, len(r.entries))
	for i := len(r.entries) - 1; i >= 0; i-- {
		result = append(result, r.entries[i])
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Timestamp.After(result[j].Timestamp)
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (r *auditRepositoryInMemory) DeleteAll(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := len(r.entries)
	r.entries = nil
	return n, nil
}

var _ domain.AuditRepository = (*auditRepositoryInMemory)(nil)
