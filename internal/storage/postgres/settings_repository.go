package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/vladislavdragonenkov/snackorders/internal/domain"
)

const settingsRowID = 1

type settingsRepository struct {
	store *Store
}

// NewSettingsRepository создаёт PostgreSQL-реализацию SettingsRepository.
func NewSettingsRepository(store *Store) domain.SettingsRepository {
	return &settingsRepository{store: store}
}

func (r *settingsRepository) Get(ctx context.Context) (domain.Settings, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var s domain.Settings
	err := r.store.db.QueryRowContext(ctx,
		`SELECT payment_link, is_edit_mode FROM app_settings WHERE id = $1`, settingsRowID,
	).Scan(&s.PaymentLink, &s.IsEditMode)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Settings{}, domain.ErrSettingsNotFound
		}
		return domain.Settings{}, fmt.Errorf("select settings: %w", err)
	}
	return s, nil
}

func (r *settingsRepository) Create(ctx context.Context, settings domain.Settings) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	query, args, err := psql.Insert("app_settings").
		Columns("id", "payment_link", "is_edit_mode").
		Values(settingsRowID, settings.PaymentLink, settings.IsEditMode).
		Suffix("ON CONFLICT (id) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert settings: %w", err)
	}
	if _, err := r.store.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert settings: %w", err)
	}
	return nil
}

// Update обновляет только переданные поля.
func (r *settingsRepository) Update(ctx context.Context, patch domain.SettingsPatch) (domain.Settings, error) {
	if patch.Empty() {
		return r.Get(ctx)
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	builder := psql.Update("app_settings").Where(sq.Eq{"id": settingsRowID})
	if patch.PaymentLink != nil {
		builder = builder.Set("payment_link", *patch.PaymentLink)
	}
	if patch.IsEditMode != nil {
		builder = builder.Set("is_edit_mode", *patch.IsEditMode)
	}
	query, args, err := builder.Suffix("RETURNING payment_link, is_edit_mode").ToSql()
	if err != nil {
		return domain.Settings{}, fmt.Errorf("build update settings: %w", err)
	}

	var s domain.Settings
	if err := r.store.db.QueryRowContext(ctx, query, args...).Scan(&s.PaymentLink, &s.IsEditMode); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Settings{}, domain.ErrSettingsNotFound
		}
		return domain.Settings{}, fmt.Errorf("update settings: %w", err)
	}
	return s, nil
}

var _ domain.SettingsRepository = (*settingsRepository)(nil)
