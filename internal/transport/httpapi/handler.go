// Package httpapi - REST-интерфейс хранилища заказов (/api/...).
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/snackorders/internal/aggregate"
	"github.com/vladislavdragonenkov/snackorders/internal/domain"
	"github.com/vladislavdragonenkov/snackorders/internal/money"
)

const maxBodyBytes = 1 << 20

// Backend - операции сервиса, доступные через HTTP.
// Реализуется *backend.Service.
type Backend interface {
	domain.Collaborator
	SeedMenu(ctx context.Context) ([]domain.MenuItem, error)
}

// Handler обслуживает эндпоинты /api.
type Handler struct {
	svc    Backend
	logger *log.Entry
}

// NewHandler создаёт обработчик поверх сервиса.
func NewHandler(svc Backend, logger *log.Entry) *Handler {
	if logger == nil {
		logger = log.WithField("component", "http-api")
	}
	return &Handler{svc: svc, logger: logger}
}

// RegisterRoutes регистрирует эндпоинты на роутере, смонтированном в /api.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Root)

	r.Get("/menu", h.ListMenu)
	r.Post("/menu/seed", h.SeedMenu)

	r.Get("/orders", h.ListOrders)
	r.Post("/orders", h.CreateOrder)
	r.Put("/orders/{id}", h.UpdateOrder)
	r.Delete("/orders/{id}", h.DeleteOrder)

	r.Get("/activity-log", h.ListActivity)
	r.Post("/activity-log", h.AppendActivity)

	r.Get("/settings", h.GetSettings)
	r.Put("/settings", h.UpdateSettings)

	r.Post("/admin/verify", h.VerifyAdmin)
	r.Post("/reset", h.Reset)

	r.Get("/overview", h.Overview)
}

// --- Request / Response types ---

type createOrderRequest struct {
	CustomerName string             `json:"customer_name"`
	Items        []domain.OrderLine `json:"items"`
}

type verifyAdminRequest struct {
	Pin string `json:"pin"`
}

type verifyAdminResponse struct {
	Success bool `json:"success"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type overviewRow struct {
	aggregate.Row
	UnitPriceText string `json:"unit_price_text"`
	SubtotalText  string `json:"subtotal_text"`
}

type paymentRow struct {
	aggregate.PaymentRow
	Status    string `json:"status"`
	TotalText string `json:"total_text"`
}

type overviewResponse struct {
	Rows           []overviewRow   `json:"rows"`
	GrandTotal     decimal.Decimal `json:"grand_total"`
	GrandTotalText string          `json:"grand_total_text"`
	Outstanding    decimal.Decimal `json:"outstanding"`
	Payments       []paymentRow    `json:"payments"`
	Text           string          `json:"text"`
}

// --- Handlers ---

// Root отвечает приветствием, используется как простая проверка доступности.
func (h *Handler) Root(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, messageResponse{Message: "Snack order API"})
}

// ListMenu возвращает меню; пустое хранилище заполняется стартовым меню.
func (h *Handler) ListMenu(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.GetMenu(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(items))
}

// SeedMenu заменяет меню стартовым.
func (h *Handler) SeedMenu(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.SeedMenu(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: fmt.Sprintf("Seeded %d menu items", len(items))})
}

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.svc.ListOrders(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(orders))
}

func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if !h.decode(w, r, &req) {
		return
	}
	order, err := h.svc.CreateOrder(r.Context(), req.CustomerName, req.Items)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *Handler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	var patch domain.OrderPatch
	if !h.decode(w, r, &patch) {
		return
	}
	order, err := h.svc.UpdateOrder(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *Handler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteOrder(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Order deleted"})
}

func (h *Handler) ListActivity(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.ListAuditLog(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(entries))
}

func (h *Handler) AppendActivity(w http.ResponseWriter, r *http.Request) {
	var record domain.AuditRecord
	if !h.decode(w, r, &record) {
		return
	}
	entry, err := h.svc.AppendAuditLog(r.Context(), record)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.svc.GetSettings(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var patch domain.SettingsPatch
	if !h.decode(w, r, &patch) {
		return
	}
	settings, err := h.svc.UpdateSettings(r.Context(), patch)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

// VerifyAdmin проверяет админ-код. Неверный код - это success=false, а не ошибка.
func (h *Handler) VerifyAdmin(w http.ResponseWriter, r *http.Request) {
	var req verifyAdminRequest
	if !h.decode(w, r, &req) {
		return
	}
	ok, err := h.svc.VerifyAdmin(r.Context(), req.Pin)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, verifyAdminResponse{Success: ok})
}

func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.ResetAll(r.Context()); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "All orders have been reset"})
}

// Overview отдаёт сводку по позициям и чек-лист оплаты с отформатированными суммами.
func (h *Handler) Overview(w http.ResponseWriter, r *http.Request) {
	orders, err := h.svc.ListOrders(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	summary := aggregate.Overview(orders)
	resp := overviewResponse{
		Rows:           make([]overviewRow, 0, len(summary.Rows)),
		GrandTotal:     summary.GrandTotal,
		GrandTotalText: money.Format(summary.GrandTotal),
		Outstanding:    aggregate.Outstanding(orders),
		Text:           summary.Text(money.Format),
	}
	for _, row := range summary.Rows {
		resp.Rows = append(resp.Rows, overviewRow{
			Row:           row,
			UnitPriceText: money.Format(row.UnitPrice),
			SubtotalText:  money.Format(row.Subtotal),
		})
	}
	checklist := aggregate.PaymentChecklist(orders)
	resp.Payments = make([]paymentRow, 0, len(checklist))
	for _, row := range checklist {
		resp.Payments = append(resp.Payments, paymentRow{
			PaymentRow: row,
			Status:     row.Label(),
			TotalText:  money.Format(row.Total),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- Helpers ---

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return false
	}
	return true
}

// writeError переводит доменную ошибку в HTTP-статус.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	entry := h.logger.WithError(err).WithFields(log.Fields{
		"method": r.Method,
		"path":   r.URL.Path,
		"status": status,
	})
	if status >= http.StatusInternalServerError {
		entry.Error("request failed")
	} else {
		entry.Debug("request rejected")
	}

	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	writeJSON(w, status, errorResponse{Error: msg})
}

// StatusFor возвращает HTTP-статус для ошибки сервиса.
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case domain.IsValidation(err):
		return http.StatusBadRequest
	case domain.IsUnauthorized(err):
		return http.StatusUnauthorized
	case domain.IsNotFound(err):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrOrderExists):
		return http.StatusConflict
	case domain.IsUnavailable(err):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Warn("failed to encode JSON response")
	}
}

// nonNil превращает nil-срез в пустой, чтобы в ответе был [] вместо null.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
