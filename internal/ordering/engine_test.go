package ordering_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/vladislavdragonenkov/snackorders/internal/access"
	"github.com/vladislavdragonenkov/snackorders/internal/audit"
	"github.com/vladislavdragonenkov/snackorders/internal/domain"
	"github.com/vladislavdragonenkov/snackorders/internal/ordering"
	"github.com/vladislavdragonenkov/snackorders/internal/service/backend"
	"github.com/vladislavdragonenkov/snackorders/internal/storage/memory"
)

const adminCode = "1990"

var errStorageDown = errors.New("storage down")

// flakyCollaborator пропускает вызовы в backend, пока не включён сбой.
type flakyCollaborator struct {
	*backend.Service
	failWrites     bool
	failAuditReads bool
}

func (f *flakyCollaborator) ListAuditLog(ctx context.Context) ([]domain.AuditEntry, error) {
	if f.failAuditReads {
		return nil, errStorageDown
	}
	return f.Service.ListAuditLog(ctx)
}

func (f *flakyCollaborator) CreateOrder(ctx context.Context, name string, items []domain.OrderLine) (domain.Order, error) {
	if f.failWrites {
		return domain.Order{}, errStorageDown
	}
	return f.Service.CreateOrder(ctx, name, items)
}

func (f *flakyCollaborator) UpdateOrder(ctx context.Context, id string, patch domain.OrderPatch) (domain.Order, error) {
	if f.failWrites {
		return domain.Order{}, errStorageDown
	}
	return f.Service.UpdateOrder(ctx, id, patch)
}

func (f *flakyCollaborator) DeleteOrder(ctx context.Context, id string) error {
	if f.failWrites {
		return errStorageDown
	}
	return f.Service.DeleteOrder(ctx, id)
}

func (f *flakyCollaborator) ResetAll(ctx context.Context) error {
	if f.failWrites {
		return errStorageDown
	}
	return f.Service.ResetAll(ctx)
}

type fixture struct {
	engine *ordering.Engine
	collab *flakyCollaborator
	user   *access.Session
	admin  *access.Session
	fries  domain.MenuItem
	cola   domain.MenuItem
}

func setup(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte(adminCode), bcrypt.MinCost)
	require.NoError(t, err)

	menu := memory.NewMenuRepository()
	fries := domain.MenuItem{ID: "fries", Name: "Patat", Category: "PATAT", Price: decimal.RequireFromString("2.60")}
	cola := domain.MenuItem{ID: "cola", Name: "Cola", Category: "DRANKEN", Price: decimal.RequireFromString("2.00")}
	require.NoError(t, menu.ReplaceAll(ctx, []domain.MenuItem{fries, cola}))

	svc := backend.NewService(backend.Repositories{
		Menu:     menu,
		Orders:   memory.NewOrderRepository(),
		Settings: memory.NewSettingsRepository(),
		Audit:    memory.NewAuditRepository(),
	}, backend.WithAdminCodeHash(hash))
	collab := &flakyCollaborator{Service: svc}

	engine := ordering.NewEngine(collab)
	user := access.NewSession("Mozilla/5.0 (iPhone)")
	admin := access.NewSession("Mozilla/5.0 (Macintosh)")

	require.NoError(t, engine.Load(ctx, user))
	require.NoError(t, engine.Gate().Login(ctx, admin, adminCode))

	return &fixture{engine: engine, collab: collab, user: user, admin: admin, fries: fries, cola: cola}
}

func (f *fixture) enableEditMode(t *testing.T) {
	t.Helper()
	_, err := f.engine.Gate().SetEditMode(context.Background(), f.admin, true)
	require.NoError(t, err)
}

func (f *fixture) place(t *testing.T, name string, drafts ...ordering.DraftLine) domain.Order {
	t.Helper()
	order, err := f.engine.PlaceOrder(context.Background(), f.user, name, drafts)
	require.NoError(t, err)
	return order
}

func auditActions(t *testing.T, f *fixture) []string {
	t.Helper()
	entries, err := f.engine.AuditLog(context.Background(), f.admin, true)
	require.NoError(t, err)
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Action)
	}
	return out
}

func assertTotalsConsistent(t *testing.T, f *fixture) {
	t.Helper()
	for _, o := range f.engine.Orders() {
		assert.Empty(t, o.ValidateInvariants(), "order %s", o.ID)
	}
	s := f.engine.Overview()
	assert.True(t, s.GrandTotal.Equal(s.RowsTotal()))
}

func TestPlaceOrder_DropsInvalidLines(t *testing.T) {
	f := setup(t)

	order := f.place(t, "Alice",
		ordering.DraftLine{MenuItemID: f.fries.ID, Quantity: 2},
		ordering.DraftLine{MenuItemID: "", Quantity: 1},
		ordering.DraftLine{MenuItemID: "unknown", Quantity: 3},
		ordering.DraftLine{MenuItemID: f.cola.ID, Quantity: 0},
	)

	require.Len(t, order.Items, 1)
	assert.Equal(t, "Patat", order.Items[0].Name)
	assert.Equal(t, 2, order.Items[0].Quantity)
	assert.True(t, order.TotalPrice.Equal(decimal.RequireFromString("5.20")))
	assert.Len(t, f.engine.Orders(), 1)
	assert.Equal(t, []string{audit.ActionOrderPlaced, audit.ActionAdminLogin}, auditActions(t, f))
}

func TestPlaceOrder_Rejections(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.engine.PlaceOrder(ctx, f.user, "", []ordering.DraftLine{{MenuItemID: f.fries.ID, Quantity: 1}})
	assert.ErrorIs(t, err, domain.ErrCustomerNameRequired)

	_, err = f.engine.PlaceOrder(ctx, f.user, "   ", []ordering.DraftLine{{MenuItemID: f.fries.ID, Quantity: 1}})
	assert.ErrorIs(t, err, domain.ErrCustomerNameRequired)

	_, err = f.engine.PlaceOrder(ctx, f.user, "Alice", nil)
	assert.ErrorIs(t, err, domain.ErrNoValidLines)
	assert.True(t, domain.IsValidation(err))

	assert.Empty(t, f.engine.Orders())
	assert.Equal(t, []string{audit.ActionAdminLogin}, auditActions(t, f))
}

func TestPlaceOrder_SnapshotsMenuPrice(t *testing.T) {
	f := setup(t)
	order := f.place(t, "Alice", ordering.DraftLine{MenuItemID: f.cola.ID, Quantity: 1})

	assert.True(t, order.Items[0].Price.Equal(f.cola.Price))
	assert.Equal(t, f.cola.ID, order.Items[0].MenuItemID)
}

func TestSetQuantity_RequiresEditMode(t *testing.T) {
	f := setup(t)
	order := f.place(t, "Alice", ordering.DraftLine{MenuItemID: f.fries.ID, Quantity: 2})

	_, err := f.engine.SetQuantity(context.Background(), f.user, order.ID, 0, 5)
	assert.ErrorIs(t, err, domain.ErrEditModeDisabled)
	assert.True(t, domain.IsUnauthorized(err))

	_, err = f.engine.DeleteLine(context.Background(), f.user, order.ID, 0)
	assert.ErrorIs(t, err, domain.ErrEditModeDisabled)
}

func TestSetQuantity_UpdatesLine(t *testing.T) {
	f := setup(t)
	f.enableEditMode(t)
	order := f.place(t, "Alice",
		ordering.DraftLine{MenuItemID: f.fries.ID, Quantity: 2},
		ordering.DraftLine{MenuItemID: f.cola.ID, Quantity: 1},
	)

	out, err := f.engine.SetQuantity(context.Background(), f.user, order.ID, 0, 3)
	require.NoError(t, err)

	assert.Equal(t, domain.OutcomeUpdated, out.Kind)
	assert.Equal(t, 3, out.Order.Items[0].Quantity)
	assert.True(t, out.Order.TotalPrice.Equal(decimal.RequireFromString("9.80")))
	assertTotalsConsistent(t, f)
	assert.Equal(t, audit.ActionItemAdjusted, auditActions(t, f)[0])
}

func TestSetQuantity_ZeroRemovesLine(t *testing.T) {
	f := setup(t)
	f.enableEditMode(t)
	order := f.place(t, "Alice",
		ordering.DraftLine{MenuItemID: f.fries.ID, Quantity: 2},
		ordering.DraftLine{MenuItemID: f.cola.ID, Quantity: 1},
	)

	out, err := f.engine.SetQuantity(context.Background(), f.user, order.ID, 0, -4)
	require.NoError(t, err)

	require.Equal(t, domain.OutcomeUpdated, out.Kind)
	require.Len(t, out.Order.Items, 1)
	assert.Equal(t, "Cola", out.Order.Items[0].Name)
	assertTotalsConsistent(t, f)
}

func TestSetQuantity_LastLineCascadesToDelete(t *testing.T) {
	f := setup(t)
	f.enableEditMode(t)
	order := f.place(t, "Alice", ordering.DraftLine{MenuItemID: f.fries.ID, Quantity: 1})
	before := len(auditActions(t, f))

	out, err := f.engine.SetQuantity(context.Background(), f.user, order.ID, 0, 0)
	require.NoError(t, err)

	assert.True(t, out.IsDeleted())
	assert.Equal(t, order.ID, out.OrderID)
	assert.Empty(t, f.engine.Orders())

	remote, err := f.collab.ListOrders(context.Background())
	require.NoError(t, err)
	assert.Empty(t, remote)

	actions := auditActions(t, f)
	require.Len(t, actions, before+1)
	assert.Equal(t, audit.ActionOrderRemoved, actions[0])
}

func TestDeleteLine(t *testing.T) {
	f := setup(t)
	f.enableEditMode(t)
	order := f.place(t, "Bob",
		ordering.DraftLine{MenuItemID: f.fries.ID, Quantity: 2},
		ordering.DraftLine{MenuItemID: f.cola.ID, Quantity: 5},
	)
	ctx := context.Background()

	out, err := f.engine.DeleteLine(ctx, f.user, order.ID, 1)
	require.NoError(t, err)
	require.Equal(t, domain.OutcomeUpdated, out.Kind)
	assert.Len(t, out.Order.Items, 1)
	assert.Equal(t, audit.ActionItemRemoved, auditActions(t, f)[0])

	out, err = f.engine.DeleteLine(ctx, f.user, order.ID, 0)
	require.NoError(t, err)
	assert.True(t, out.IsDeleted())
	assert.Equal(t, audit.ActionOrderRemoved, auditActions(t, f)[0])
	assert.Empty(t, f.engine.Orders())
}

func TestLineIndexOutOfRange(t *testing.T) {
	f := setup(t)
	f.enableEditMode(t)
	order := f.place(t, "Alice", ordering.DraftLine{MenuItemID: f.fries.ID, Quantity: 1})

	_, err := f.engine.SetQuantity(context.Background(), f.user, order.ID, 3, 1)
	assert.ErrorIs(t, err, domain.ErrLineNotFound)
	_, err = f.engine.DeleteLine(context.Background(), f.user, order.ID, -1)
	assert.True(t, domain.IsNotFound(err))
}

func TestDeleteOrder(t *testing.T) {
	f := setup(t)
	order := f.place(t, "Carol", ordering.DraftLine{MenuItemID: f.cola.ID, Quantity: 1})

	require.NoError(t, f.engine.DeleteOrder(context.Background(), f.user, order.ID))
	assert.Empty(t, f.engine.Orders())

	entries, err := f.engine.AuditLog(context.Background(), f.admin, true)
	require.NoError(t, err)
	assert.Equal(t, audit.ActionOrderRemoved, entries[0].Action)
	assert.Contains(t, entries[0].Details, "Carol")

	err = f.engine.DeleteOrder(context.Background(), f.user, order.ID)
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestDeleteOrder_RemovedElsewhereIsNotFound(t *testing.T) {
	f := setup(t)
	order := f.place(t, "Dave", ordering.DraftLine{MenuItemID: f.cola.ID, Quantity: 1})

	// Другая сессия уже удалила заказ.
	require.NoError(t, f.collab.Service.DeleteOrder(context.Background(), order.ID))

	err := f.engine.DeleteOrder(context.Background(), f.user, order.ID)
	assert.True(t, domain.IsNotFound(err))
	assert.Len(t, f.engine.Orders(), 1)

	require.NoError(t, f.engine.Refresh(context.Background()))
	assert.Empty(t, f.engine.Orders())
}

func TestSetPaid(t *testing.T) {
	f := setup(t)
	order := f.place(t, "Alice", ordering.DraftLine{MenuItemID: f.fries.ID, Quantity: 2})

	updated, err := f.engine.SetPaid(context.Background(), f.user, order.ID, true)
	require.NoError(t, err)

	assert.True(t, updated.IsPaid)
	assert.True(t, updated.TotalPrice.Equal(order.TotalPrice))
	assert.Equal(t, order.Items, updated.Items)

	checklist := f.engine.PaymentChecklist()
	require.Len(t, checklist, 1)
	assert.Equal(t, "paid", checklist[0].Label())

	entries, err := f.engine.AuditLog(context.Background(), f.admin, true)
	require.NoError(t, err)
	assert.Equal(t, audit.ActionPaymentChanged, entries[0].Action)
	assert.Equal(t, "Alice: paid", entries[0].Details)
}

func TestResetAll(t *testing.T) {
	f := setup(t)
	f.place(t, "Alice", ordering.DraftLine{MenuItemID: f.fries.ID, Quantity: 2})
	f.place(t, "Bob", ordering.DraftLine{MenuItemID: f.cola.ID, Quantity: 1})
	ctx := context.Background()

	err := f.engine.ResetAll(ctx, f.admin, false)
	assert.ErrorIs(t, err, domain.ErrConfirmationRequired)

	err = f.engine.ResetAll(ctx, f.user, true)
	assert.ErrorIs(t, err, domain.ErrAdminRequired)
	assert.Len(t, f.engine.Orders(), 2)

	require.NoError(t, f.engine.ResetAll(ctx, f.admin, true))
	assert.Empty(t, f.engine.Orders())
	assert.Equal(t, audit.ActionAppReset, auditActions(t, f)[0])
}

func TestResetAll_DropsStaleAuditView(t *testing.T) {
	f := setup(t)
	f.place(t, "Alice", ordering.DraftLine{MenuItemID: f.fries.ID, Quantity: 1})
	require.NotEmpty(t, f.engine.Trail().Entries())

	// Журнал не перечитывается после сброса: в представлении остаётся только сам сброс.
	f.collab.failAuditReads = true
	require.NoError(t, f.engine.ResetAll(context.Background(), f.admin, true))

	entries := f.engine.Trail().Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, audit.ActionAppReset, entries[0].Action)
}

func TestAuditLog_AdminOnly(t *testing.T) {
	f := setup(t)

	_, err := f.engine.AuditLog(context.Background(), f.user, false)
	assert.ErrorIs(t, err, domain.ErrAdminRequired)
}

func TestCollaboratorFailureLeavesStateUnchanged(t *testing.T) {
	f := setup(t)
	f.enableEditMode(t)
	order := f.place(t, "Alice",
		ordering.DraftLine{MenuItemID: f.fries.ID, Quantity: 2},
		ordering.DraftLine{MenuItemID: f.cola.ID, Quantity: 1},
	)
	before := f.engine.Orders()
	entriesBefore := len(auditActions(t, f))
	ctx := context.Background()

	f.collab.failWrites = true

	_, err := f.engine.PlaceOrder(ctx, f.user, "Bob", []ordering.DraftLine{{MenuItemID: f.cola.ID, Quantity: 1}})
	assert.True(t, domain.IsUnavailable(err))
	_, err = f.engine.SetQuantity(ctx, f.user, order.ID, 0, 9)
	assert.True(t, domain.IsUnavailable(err))
	_, err = f.engine.DeleteLine(ctx, f.user, order.ID, 0)
	assert.True(t, domain.IsUnavailable(err))
	_, err = f.engine.SetPaid(ctx, f.user, order.ID, true)
	assert.True(t, domain.IsUnavailable(err))
	err = f.engine.DeleteOrder(ctx, f.user, order.ID)
	assert.True(t, domain.IsUnavailable(err))
	assert.ErrorIs(t, err, errStorageDown)
	err = f.engine.ResetAll(ctx, f.admin, true)
	assert.True(t, domain.IsUnavailable(err))

	assert.Equal(t, before, f.engine.Orders())
	assert.Len(t, auditActions(t, f), entriesBefore)
}

func TestOverviewFromEngine(t *testing.T) {
	f := setup(t)
	f.place(t, "A", ordering.DraftLine{MenuItemID: f.fries.ID, Quantity: 3})
	f.place(t, "B",
		ordering.DraftLine{MenuItemID: f.fries.ID, Quantity: 2},
		ordering.DraftLine{MenuItemID: f.cola.ID, Quantity: 5},
	)

	s := f.engine.Overview()
	require.Len(t, s.Rows, 2)
	assert.Equal(t, "Patat", s.Rows[0].Name)
	assert.Equal(t, "Cola", s.Rows[1].Name)
	assertTotalsConsistent(t, f)
}

func TestCatalogAndSettingsViews(t *testing.T) {
	f := setup(t)

	assert.Equal(t, []string{"PATAT", "DRANKEN"}, f.engine.Catalog().Categories())
	assert.False(t, f.engine.Settings().IsEditMode)

	f.enableEditMode(t)
	assert.True(t, f.engine.Settings().IsEditMode)
}
