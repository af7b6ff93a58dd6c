// Package client - HTTP-реализация domain.Collaborator поверх REST API сервиса.
//
// Сетевые ошибки, таймауты и ответы 5xx превращаются в domain.ErrUnavailable,
// 404 - в domain.ErrNotFound, 400 - в domain.ErrValidation.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/snackorders/internal/domain"
)

const (
	defaultTimeout = 10 * time.Second
	maxErrorBody   = 4 << 10
)

// Client обращается к /api эндпоинтам сервиса.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	logger  *log.Entry
	timeout time.Duration
}

// Option настраивает Client.
type Option func(*Client)

// WithHTTPClient подменяет HTTP-клиент (например, в тестах).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout задаёт таймаут одного запроса.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger задаёт logger.
func WithLogger(logger *log.Entry) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New создаёт клиент для сервиса по адресу baseURL (например, http://localhost:8001).
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}

	c := &Client{
		baseURL: u,
		http:    &http.Client{},
		logger:  log.WithField("component", "snack-client"),
		timeout: defaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

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

type errorResponse struct {
	Error string `json:"error"`
}

func (c *Client) GetMenu(ctx context.Context) ([]domain.MenuItem, error) {
	var items []domain.MenuItem
	err := c.do(ctx, "get menu", http.MethodGet, "/api/menu", nil, &items)
	return items, err
}

// SeedMenu заменяет меню на сервере стартовым.
func (c *Client) SeedMenu(ctx context.Context) error {
	return c.do(ctx, "seed menu", http.MethodPost, "/api/menu/seed", nil, nil)
}

func (c *Client) ListOrders(ctx context.Context) ([]domain.Order, error) {
	var orders []domain.Order
	err := c.do(ctx, "list orders", http.MethodGet, "/api/orders", nil, &orders)
	return orders, err
}

func (c *Client) CreateOrder(ctx context.Context, customerName string, items []domain.OrderLine) (domain.Order, error) {
	var order domain.Order
	err := c.do(ctx, "create order", http.MethodPost, "/api/orders",
		createOrderRequest{CustomerName: customerName, Items: items}, &order)
	return order, err
}

func (c *Client) UpdateOrder(ctx context.Context, orderID string, patch domain.OrderPatch) (domain.Order, error) {
	var order domain.Order
	err := c.do(ctx, "update order", http.MethodPut, "/api/orders/"+url.PathEscape(orderID), patch, &order)
	return order, err
}

func (c *Client) DeleteOrder(ctx context.Context, orderID string) error {
	return c.do(ctx, "delete order", http.MethodDelete, "/api/orders/"+url.PathEscape(orderID), nil, nil)
}

func (c *Client) GetSettings(ctx context.Context) (domain.Settings, error) {
	var settings domain.Settings
	err := c.do(ctx, "get settings", http.MethodGet, "/api/settings", nil, &settings)
	return settings, err
}

func (c *Client) UpdateSettings(ctx context.Context, patch domain.SettingsPatch) (domain.Settings, error) {
	var settings domain.Settings
	err := c.do(ctx, "update settings", http.MethodPut, "/api/settings", patch, &settings)
	return settings, err
}

func (c *Client) VerifyAdmin(ctx context.Context, code string) (bool, error) {
	var resp verifyAdminResponse
	if err := c.do(ctx, "verify admin", http.MethodPost, "/api/admin/verify", verifyAdminRequest{Pin: code}, &resp); err != nil {
		return false, err
	}
	return resp.Success, nil
}

func (c *Client) ResetAll(ctx context.Context) error {
	return c.do(ctx, "reset", http.MethodPost, "/api/reset", nil, nil)
}

func (c *Client) ListAuditLog(ctx context.Context) ([]domain.AuditEntry, error) {
	var entries []domain.AuditEntry
	err := c.do(ctx, "list audit log", http.MethodGet, "/api/activity-log", nil, &entries)
	return entries, err
}

func (c *Client) AppendAuditLog(ctx context.Context, record domain.AuditRecord) (domain.AuditEntry, error) {
	var entry domain.AuditEntry
	err := c.do(ctx, "append audit log", http.MethodPost, "/api/activity-log", record, &entry)
	return entry, err
}

// do выполняет запрос и декодирует ответ в out (если out != nil).
func (c *Client) do(ctx context.Context, op, method, path string, in, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+path, body)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.WithError(err).WithField("op", op).Warn("request failed")
		return domain.Unavailable(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return c.statusError(op, resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return domain.Unavailable(op, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

// statusError переводит HTTP-статус в категорию доменной ошибки.
func (c *Client) statusError(op string, resp *http.Response) error {
	msg := resp.Status
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var er errorResponse
	if json.Unmarshal(raw, &er) == nil && er.Error != "" {
		msg = er.Error
	}

	var kind error
	switch {
	case resp.StatusCode == http.StatusNotFound:
		kind = domain.ErrNotFound
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnprocessableEntity:
		kind = domain.ErrValidation
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		kind = domain.ErrUnauthorized
	default:
		c.logger.WithFields(log.Fields{"op": op, "status": resp.StatusCode}).Warn("server returned an error")
		return domain.Unavailable(op, errors.New(msg))
	}
	return fmt.Errorf("%s: %w: %s", op, kind, msg)
}

var _ domain.Collaborator = (*Client)(nil)
