package catalog_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/snackorders/internal/catalog"
	"github.com/vladislavdragonenkov/snackorders/internal/domain"
)

func item(id, name, category string) domain.MenuItem {
	return domain.MenuItem{ID: id, Name: name, Category: category, Price: decimal.RequireFromString("1.00")}
}

func names(items []domain.MenuItem) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Name)
	}
	return out
}

func TestNewIndex_GroupsInCanonicalOrder(t *testing.T) {
	idx := catalog.NewIndex([]domain.MenuItem{
		item("1", "Cola", "DRANKEN"),
		item("2", "Frikandel", "SNACKS"),
		item("3", "Patat groot", "PATAT"),
		item("4", "Mystery", "SECRET MENU"),
	})

	assert.Equal(t, []string{"SNACKS", "PATAT", "DRANKEN"}, idx.Categories())
	assert.Equal(t, 3, idx.Len())
	assert.Nil(t, idx.Items("SECRET MENU"))

	// Позиция вне канонических категорий всё равно разрешается по ID.
	got, ok := idx.Lookup("4")
	require.True(t, ok)
	assert.Equal(t, "Mystery", got.Name)
}

func TestNewIndex_SortsByNameWithCollation(t *testing.T) {
	idx := catalog.NewIndex([]domain.MenuItem{
		item("1", "kroket", "SNACKS"),
		item("2", "Bitterballen", "SNACKS"),
		item("3", "Éénpersoons bamischijf", "SNACKS"),
		item("4", "Frikandel", "SNACKS"),
	})

	assert.Equal(t,
		[]string{"Bitterballen", "Éénpersoons bamischijf", "Frikandel", "kroket"},
		names(idx.Items("SNACKS")),
	)
}

func TestNewIndex_CustomCategoryOrder(t *testing.T) {
	idx := catalog.NewIndex([]domain.MenuItem{
		item("1", "Cola", "DRANKEN"),
		item("2", "Frikandel", "SNACKS"),
	}, catalog.WithCategoryOrder([]string{"DRANKEN", "SNACKS", "DRANKEN"}))

	assert.Equal(t, []string{"DRANKEN", "SNACKS"}, idx.Categories())
}

func TestIndex_ItemsReturnsCopy(t *testing.T) {
	idx := catalog.NewIndex([]domain.MenuItem{item("1", "Frikandel", "SNACKS")})

	items := idx.Items("SNACKS")
	items[0].Name = "changed"

	assert.Equal(t, "Frikandel", idx.Items("SNACKS")[0].Name)
	assert.Equal(t, "Frikandel", idx.Groups()[0].Items[0].Name)
}

func TestNewIndex_Empty(t *testing.T) {
	idx := catalog.NewIndex(nil)

	assert.Empty(t, idx.Categories())
	assert.Zero(t, idx.Len())
	_, ok := idx.Lookup("missing")
	assert.False(t, ok)
}

func TestSeedMenu(t *testing.T) {
	items := catalog.SeedMenu()
	require.NotEmpty(t, items)

	ids := make(map[string]struct{}, len(items))
	for _, it := range items {
		require.NotEmpty(t, it.ID)
		require.False(t, it.Price.IsNegative(), it.Name)
		ids[it.ID] = struct{}{}
	}
	assert.Len(t, ids, len(items))

	// Все категории стартового меню входят в канонический порядок.
	idx := catalog.NewIndex(items)
	assert.Equal(t, len(items), idx.Len())
	assert.Equal(t, catalog.DefaultCategoryOrder, idx.Categories())
}
