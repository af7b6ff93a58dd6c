package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/snackorders/internal/domain"
	"github.com/vladislavdragonenkov/snackorders/internal/storage/memory"
)

func newOrder(id string) domain.Order {
	items := []domain.OrderLine{
		{MenuItemID: "m-1", Name: "Patat", Quantity: 2, Price: decimal.RequireFromString("2.60")},
	}
	return domain.Order{
		ID:           id,
		CustomerName: "Alice",
		Items:        items,
		TotalPrice:   domain.RecalculateTotal(items),
		CreatedAt:    time.Now().UTC(),
	}
}

func TestOrderRepository_CreateGet(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewOrderRepository()
	order := newOrder("order-1")

	if err := repo.Create(ctx, order); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := repo.Create(ctx, order); !errors.Is(err, domain.ErrOrderExists) {
		t.Fatalf("expected ErrOrderExists, got %v", err)
	}

	stored, err := repo.Get(ctx, order.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if stored.ID != order.ID {
		t.Fatalf("expected id %s, got %s", order.ID, stored.ID)
	}

	stored.Items[0].Quantity = 99
	again, _ := repo.Get(ctx, order.ID)
	if again.Items[0].Quantity != 2 {
		t.Fatalf("repository shares items with caller: %d", again.Items[0].Quantity)
	}
}

func TestOrderRepository_ListKeepsCreationOrder(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewOrderRepository()
	for _, id := range []string{"c", "a", "b"} {
		if err := repo.Create(ctx, newOrder(id)); err != nil {
			t.Fatalf("create %s failed: %v", id, err)
		}
	}

	orders, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(orders) != 3 || orders[0].ID != "c" || orders[1].ID != "a" || orders[2].ID != "b" {
		t.Fatalf("unexpected order: %+v", orders)
	}
}

func TestOrderRepository_SaveDelete(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewOrderRepository()
	order := newOrder("order-1")

	if err := repo.Save(ctx, order); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound on save, got %v", err)
	}
	if err := repo.Create(ctx, order); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	order.IsPaid = true
	if err := repo.Save(ctx, order); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	stored, _ := repo.Get(ctx, order.ID)
	if !stored.IsPaid {
		t.Fatal("expected saved order to be paid")
	}

	if err := repo.Delete(ctx, order.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := repo.Delete(ctx, order.ID); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound on second delete, got %v", err)
	}
}

func TestOrderRepository_DeleteAll(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewOrderRepository()
	_ = repo.Create(ctx, newOrder("a"))
	_ = repo.Create(ctx, newOrder("b"))

	n, err := repo.DeleteAll(ctx)
	if err != nil || n != 2 {
		t.Fatalf("expected 2 deleted, got %d (%v)", n, err)
	}
	orders, _ := repo.List(ctx)
	if len(orders) != 0 {
		t.Fatalf("expected empty list, got %d", len(orders))
	}
}
