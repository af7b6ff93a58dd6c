package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vladislavdragonenkov/snackorders/internal/domain"
)

type menuRepository struct {
	store *Store
}

// NewMenuRepository создаёт PostgreSQL-реализацию MenuRepository.
func NewMenuRepository(store *Store) domain.MenuRepository {
	return &menuRepository{store: store}
}

func (r *menuRepository) List(ctx context.Context) ([]domain.MenuItem, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	query, args, err := psql.Select("id", "name", "category", "price").
		From("menu_items").
		OrderBy("position ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list menu: %w", err)
	}
	rows, err := r.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list menu: %w", err)
	}
	defer rows.Close()

	items := make([]domain.MenuItem, 0)
	for rows.Next() {
		var item domain.MenuItem
		if err := rows.Scan(&item.ID, &item.Name, &item.Category, &item.Price); err != nil {
			return nil, fmt.Errorf("scan menu item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate menu items: %w", err)
	}
	return items, nil
}

// ReplaceAll заменяет меню в одной транзакции.
func (r *menuRepository) ReplaceAll(ctx context.Context, items []domain.MenuItem) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	return r.store.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM menu_items`); err != nil {
			return fmt.Errorf("clear menu: %w", err)
		}
		if len(items) == 0 {
			return nil
		}

		builder := psql.Insert("menu_items").Columns("id", "name", "category", "price", "position")
		for i, item := range items {
			builder = builder.Values(item.ID, item.Name, item.Category, item.Price, i)
		}
		query, args, err := builder.ToSql()
		if err != nil {
			return fmt.Errorf("build insert menu: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert menu: %w", err)
		}
		return nil
	})
}

var _ domain.MenuRepository = (*menuRepository)(nil)
