package catalog

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/snackorders/internal/domain"
)

type seedRow struct {
	name     string
	category string
	price    string
}

// SeedMenu возвращает стартовое меню с новыми идентификаторами.
func SeedMenu() []domain.MenuItem {
	items := make([]domain.MenuItem, 0, len(seedMenu))
	for _, row := range seedMenu {
		items = append(items, domain.MenuItem{
			ID:       uuid.NewString(),
			Name:     row.name,
			Category: row.category,
			Price:    decimal.RequireFromString(row.price),
		})
	}
	return items
}
