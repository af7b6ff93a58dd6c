package memory

import (
	"context"
	"sync"

	"github.com/vladislavdragonenkov/snackorders/internal/domain"
)

type menuRepositoryInMemory struct {
	mu    sync.RWMutex
	items []domain.MenuItem
}

// NewMenuRepository возвращает in-memory репозиторий меню.
func NewMenuRepository() domain.MenuRepository {
	return &menuRepositoryInMemory{}
}

func (r *menuRepositoryInMemory) List(_ context.Context) ([]domain.MenuItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.MenuItem, len(r.items))
	copy(out, r.items)
	return out, nil
}

func (r *menuRepositoryInMemory) ReplaceAll(_ context.Context, items []domain.MenuItem) error {
	next := make([]domain.MenuItem, len(items))
	copy(next, items)

	r.mu.Lock()
	r.items = next
	r.mu.Unlock()
	return nil
}

var _ domain.MenuRepository = (*menuRepositoryInMemory)(nil)
