package app

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	healthcheck "github.com/vladislavdragonenkov/snackorders/internal/health"
	"github.com/vladislavdragonenkov/snackorders/internal/service/backend"
	"github.com/vladislavdragonenkov/snackorders/internal/storage/memory"
	"github.com/vladislavdragonenkov/snackorders/internal/storage/postgres"
)

// runtimeDependencies - хранилища, выбранные по конфигурации.
type runtimeDependencies struct {
	repos          backend.Repositories
	storageChecker healthcheck.Checker
	closeFn        func() error
}

func initRuntimeDependencies(ctx context.Context, cfg Config, logger *log.Entry) (runtimeDependencies, error) {
	switch cfg.StorageDriver {
	case StorageDriverMemory:
		logger.Info("using in-memory storage")
		return runtimeDependencies{
			repos: backend.Repositories{
				Menu:     memory.NewMenuRepository(),
				Orders:   memory.NewOrderRepository(),
				Settings: memory.NewSettingsRepository(),
				Audit:    memory.NewAuditRepository(),
			},
			storageChecker: healthcheck.NewSimpleChecker("storage", func(context.Context) error { return nil }),
		}, nil

	case StorageDriverPostgres:
		if cfg.PostgresDSN == "" {
			return runtimeDependencies{}, errors.New("postgres dsn is required")
		}
		store, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return runtimeDependencies{}, err
		}
		if cfg.PostgresAutoMigrate {
			if err := store.MigrateUp(ctx, 0); err != nil {
				_ = store.Close()
				return runtimeDependencies{}, fmt.Errorf("apply migrations: %w", err)
			}
			version, applied, err := store.MigrationStatus(ctx)
			if err == nil {
				logger.WithFields(log.Fields{"version": version, "applied": applied}).Info("postgres migrations applied")
			}
		}
		logger.Info("using postgres storage")
		return runtimeDependencies{
			repos: backend.Repositories{
				Menu:     postgres.NewMenuRepository(store),
				Orders:   postgres.NewOrderRepository(store),
				Settings: postgres.NewSettingsRepository(store),
				Audit:    postgres.NewAuditRepository(store),
			},
			storageChecker: healthcheck.NewPingChecker("postgres", store),
			closeFn:        store.Close,
		}, nil

	default:
		return runtimeDependencies{}, fmt.Errorf("unsupported storage driver: %s", cfg.StorageDriver)
	}
}
