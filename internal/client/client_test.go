package client_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/vladislavdragonenkov/snackorders/internal/access"
	"github.com/vladislavdragonenkov/snackorders/internal/client"
	"github.com/vladislavdragonenkov/snackorders/internal/domain"
	"github.com/vladislavdragonenkov/snackorders/internal/ordering"
	"github.com/vladislavdragonenkov/snackorders/internal/service/backend"
	"github.com/vladislavdragonenkov/snackorders/internal/storage/memory"
	"github.com/vladislavdragonenkov/snackorders/internal/transport/httpapi"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("1990"), bcrypt.MinCost)
	require.NoError(t, err)
	svc := backend.NewService(backend.Repositories{
		Menu:     memory.NewMenuRepository(),
		Orders:   memory.NewOrderRepository(),
		Settings: memory.NewSettingsRepository(),
		Audit:    memory.NewAuditRepository(),
	}, backend.WithAdminCodeHash(hash))

	srv := httptest.NewServer(httpapi.NewRouter(httpapi.NewHandler(svc, nil), httpapi.RouterConfig{}))
	t.Cleanup(srv.Close)
	return srv
}

func newClient(t *testing.T, baseURL string) *client.Client {
	t.Helper()
	c, err := client.New(baseURL, client.WithTimeout(2*time.Second))
	require.NoError(t, err)
	return c
}

func TestNewRejectsRelativeURL(t *testing.T) {
	_, err := client.New("localhost:8001")
	assert.Error(t, err)
}

func TestClientRoundTrip(t *testing.T) {
	c := newClient(t, newServer(t).URL)
	ctx := context.Background()

	menu, err := c.GetMenu(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, menu)

	item := menu[0]
	order, err := c.CreateOrder(ctx, "Anna", []domain.OrderLine{
		{MenuItemID: item.ID, Name: item.Name, Quantity: 2, Price: item.Price},
	})
	require.NoError(t, err)
	assert.True(t, item.Price.Mul(decimal.NewFromInt(2)).Equal(order.TotalPrice))

	paid := true
	order, err = c.UpdateOrder(ctx, order.ID, domain.OrderPatch{IsPaid: &paid})
	require.NoError(t, err)
	assert.True(t, order.IsPaid)

	ok, err := c.VerifyAdmin(ctx, "1990")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = c.VerifyAdmin(ctx, "1234")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.DeleteOrder(ctx, order.ID))
	err = c.DeleteOrder(ctx, order.ID)
	assert.True(t, domain.IsNotFound(err), "got %v", err)
}

func TestClientMapsStatusCodes(t *testing.T) {
	c := newClient(t, newServer(t).URL)
	ctx := context.Background()

	_, err := c.CreateOrder(ctx, " ", []domain.OrderLine{{Name: "Patat", Quantity: 1}})
	assert.True(t, domain.IsValidation(err), "got %v", err)

	_, err = c.UpdateOrder(ctx, "missing", domain.OrderPatch{})
	assert.True(t, domain.IsNotFound(err), "got %v", err)
}

func TestClientStatusKinds(t *testing.T) {
	tests := []struct {
		name   string
		status int
		is     func(error) bool
	}{
		{name: "not found", status: http.StatusNotFound, is: domain.IsNotFound},
		{name: "bad request", status: http.StatusBadRequest, is: domain.IsValidation},
		{name: "unprocessable", status: http.StatusUnprocessableEntity, is: domain.IsValidation},
		{name: "unauthorized", status: http.StatusUnauthorized, is: domain.IsUnauthorized},
		{name: "forbidden", status: http.StatusForbidden, is: domain.IsUnauthorized},
		{name: "conflict", status: http.StatusConflict, is: domain.IsUnavailable},
		{name: "internal", status: http.StatusInternalServerError, is: domain.IsUnavailable},
		{name: "bad gateway", status: http.StatusBadGateway, is: domain.IsUnavailable},
		{name: "service unavailable", status: http.StatusServiceUnavailable, is: domain.IsUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"error":"rejected"}`))
			}))
			t.Cleanup(srv.Close)

			_, err := newClient(t, srv.URL).ListOrders(context.Background())
			require.Error(t, err)
			assert.True(t, tt.is(err), "status %d: got %v", tt.status, err)
		})
	}
}

func TestClientUndecodableBodyIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html>proxy page</html>"))
	}))
	t.Cleanup(srv.Close)

	_, err := newClient(t, srv.URL).GetMenu(context.Background())
	assert.True(t, domain.IsUnavailable(err), "got %v", err)
}

func TestClientNetworkErrorIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := newClient(t, url).GetSettings(context.Background())
	assert.True(t, domain.IsUnavailable(err), "got %v", err)
}

// Ядро работает поверх HTTP так же, как поверх in-process backend.
func TestEngineOverHTTP(t *testing.T) {
	c := newClient(t, newServer(t).URL)
	ctx := context.Background()

	engine := ordering.NewEngine(c)
	admin := access.NewSession("Mac - Safari")
	require.NoError(t, engine.Load(ctx, admin))
	require.NoError(t, engine.Gate().Login(ctx, admin, "1990"))

	item := engine.Catalog().Groups()[0].Items[0]
	order, err := engine.PlaceOrder(ctx, admin, "Bo", []ordering.DraftLine{{MenuItemID: item.ID, Quantity: 3}})
	require.NoError(t, err)

	_, err = engine.SetQuantity(ctx, admin, order.ID, 0, 1)
	assert.ErrorIs(t, err, domain.ErrEditModeDisabled)

	_, err = engine.Gate().SetEditMode(ctx, admin, true)
	require.NoError(t, err)

	outcome, err := engine.SetQuantity(ctx, admin, order.ID, 0, 0)
	require.NoError(t, err)
	assert.True(t, outcome.IsDeleted())

	orders, err := c.ListOrders(ctx)
	require.NoError(t, err)
	assert.Empty(t, orders)

	entries, err := engine.AuditLog(ctx, admin, true)
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	assert.Equal(t, "order removed", entries[0].Action)
	assert.Equal(t, "127.0.0.1", entries[0].ClientIP)
}
