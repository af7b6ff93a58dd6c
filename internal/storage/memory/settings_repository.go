package memory

import (
	"context"
	"sync"

	"github.com/vladislavdragonenkov/snackorders/internal/domain"
)

type settingsRepositoryInMemory struct {
	mu       sync.RWMutex
	settings *domain.Settings
}

// NewSettingsRepository возвращает in-memory хранилище единственной записи настроек.
func NewSettingsRepository() domain.SettingsRepository {
	return &settingsRepositoryInMemory{}
}

func (r *settingsRepositoryInMemory) Get(_ context.Context) (domain.Settings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.settings == nil {
		return domain.Settings{}, domain.ErrSettingsNotFound
	}
	return *r.settings, nil
}

// Create ничего не делает, если запись уже есть.
func (r *settingsRepositoryInMemory) Create(_ context.Context, settings domain.Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.settings == nil {
		s := settings
		r.settings = &s
	}
	return nil
}

func (r *settingsRepositoryInMemory) Update(_ context.Context, patch domain.SettingsPatch) (domain.Settings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.settings == nil {
		return domain.Settings{}, domain.ErrSettingsNotFound
	}
	next := patch.Apply(*r.settings)
	r.settings = &next
	return next, nil
}

var _ domain.SettingsRepository = (*settingsRepositoryInMemory)(nil)
