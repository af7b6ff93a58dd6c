// Package ordering применяет мутации заказов поверх внешнего хранилища.
//
// Engine держит локальный снимок заказов и продвигает его только после того,
// как хранилище подтвердило операцию. Оптимистичных изменений нет.
package ordering

import (
	"context"
	"fmt"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/snackorders/internal/access"
	"github.com/vladislavdragonenkov/snackorders/internal/aggregate"
	"github.com/vladislavdragonenkov/snackorders/internal/audit"
	"github.com/vladislavdragonenkov/snackorders/internal/catalog"
	"github.com/vladislavdragonenkov/snackorders/internal/domain"
	"github.com/vladislavdragonenkov/snackorders/internal/money"
)

// DraftLine - строка черновика заказа до валидации.
// Пустой MenuItemID означает, что позиция не выбрана.
type DraftLine struct {
	MenuItemID string
	Quantity   int
}

// Option настраивает Engine.
type Option func(*Engine)

// WithLogger задаёт logger движка.
func WithLogger(logger *log.Entry) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithCatalogOptions передаёт опции построения индекса меню.
func WithCatalogOptions(opts ...catalog.Option) Option {
	return func(e *Engine) {
		e.catalogOpts = append(e.catalogOpts, opts...)
	}
}

// Engine - движок мутаций заказов.
type Engine struct {
	collab      domain.Collaborator
	gate        *access.Gate
	trail       *audit.Trail
	logger      *log.Entry
	catalogOpts []catalog.Option

	mu     sync.RWMutex
	menu   *catalog.Index
	orders []domain.Order
}

// NewEngine создаёт движок поверх внешнего исполнителя.
func NewEngine(collab domain.Collaborator, opts ...Option) *Engine {
	e := &Engine{collab: collab}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = log.WithField("component", "ordering-engine")
	}
	e.trail = audit.NewTrail(collab, e.logger.WithField("layer", "audit"))
	e.gate = access.NewGate(collab, collab, e.trail, e.logger.WithField("layer", "access"))
	e.menu = catalog.NewIndex(nil, e.catalogOpts...)
	return e
}

// Gate возвращает шлюз доступа, общий с движком.
func (e *Engine) Gate() *access.Gate { return e.gate }

// Trail возвращает журнал действий.
func (e *Engine) Trail() *audit.Trail { return e.trail }

// Load загружает меню, заказы и настройки. Журнал читается только в админ-сессии.
func (e *Engine) Load(ctx context.Context, sess *access.Session) error {
	items, err := e.collab.GetMenu(ctx)
	if err != nil {
		return domain.Unavailable("get menu", err)
	}
	orders, err := e.collab.ListOrders(ctx)
	if err != nil {
		return domain.Unavailable("list orders", err)
	}
	if _, err := e.gate.LoadSettings(ctx); err != nil {
		return err
	}

	index := catalog.NewIndex(items, e.catalogOpts...)
	e.mu.Lock()
	e.menu = index
	e.orders = orders
	e.mu.Unlock()

	if sess != nil && sess.IsAdmin() {
		if err := e.trail.Load(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Refresh перечитывает заказы из хранилища.
func (e *Engine) Refresh(ctx context.Context) error {
	orders, err := e.collab.ListOrders(ctx)
	if err != nil {
		return domain.Unavailable("list orders", err)
	}
	e.mu.Lock()
	e.orders = orders
	e.mu.Unlock()
	return nil
}

// PlaceOrder создаёт заказ. Строки без позиции меню или с quantity <= 0 отбрасываются молча;
// если не осталось ни одной, возвращается ErrNoValidLines.
func (e *Engine) PlaceOrder(ctx context.Context, sess *access.Session, customerName string, drafts []DraftLine) (domain.Order, error) {
	name := strings.TrimSpace(customerName)
	if name == "" {
		return domain.Order{}, domain.ErrCustomerNameRequired
	}

	menu := e.Catalog()
	lines := make([]domain.OrderLine, 0, len(drafts))
	for _, d := range drafts {
		if d.Quantity <= 0 || d.MenuItemID == "" {
			continue
		}
		item, ok := menu.Lookup(d.MenuItemID)
		if !ok {
			continue
		}
		lines = append(lines, domain.OrderLine{
			MenuItemID: item.ID,
			Name:       item.Name,
			Quantity:   d.Quantity,
			Price:      item.Price,
		})
	}
	if len(lines) == 0 {
		return domain.Order{}, domain.ErrNoValidLines
	}

	order, err := e.collab.CreateOrder(ctx, name, lines)
	if err != nil {
		return domain.Order{}, domain.Unavailable("create order", err)
	}

	e.mu.Lock()
	e.orders = append(e.orders, order)
	e.mu.Unlock()

	e.record(ctx, sess, audit.ActionOrderPlaced,
		fmt.Sprintf("%s placed an order: %s (%s)", order.CustomerName, describeLines(order.Items), money.Format(order.TotalPrice)),
		order.ID)
	return order, nil
}

// SetQuantity меняет количество строки. Отрицательное значение приводится к нулю,
// строка с нулём удаляется, а опустевший заказ удаляется целиком.
func (e *Engine) SetQuantity(ctx context.Context, sess *access.Session, orderID string, lineIndex, quantity int) (domain.Outcome, error) {
	if err := e.gate.Authorize(sess, access.FeatureEditLines); err != nil {
		return domain.Outcome{}, err
	}
	order, err := e.lookupLine(orderID, lineIndex)
	if err != nil {
		return domain.Outcome{}, err
	}
	if quantity < 0 {
		quantity = 0
	}

	line := order.Items[lineIndex]
	lines := domain.CloneLines(order.Items)
	if quantity == 0 {
		lines = removeLine(lines, lineIndex)
	} else {
		lines[lineIndex].Quantity = quantity
	}
	if len(lines) == 0 {
		return e.cascadeDelete(ctx, sess, order)
	}

	updated, err := e.collab.UpdateOrder(ctx, orderID, domain.OrderPatch{Items: &lines})
	if err != nil {
		return domain.Outcome{}, domain.Unavailable("update order", err)
	}
	e.replace(updated)

	e.record(ctx, sess, audit.ActionItemAdjusted,
		fmt.Sprintf("%s: %s quantity %d -> %d", order.CustomerName, line.Name, line.Quantity, quantity),
		orderID)
	return domain.Updated(updated), nil
}

// DeleteLine удаляет одну строку заказа; удаление последней строки удаляет заказ.
func (e *Engine) DeleteLine(ctx context.Context, sess *access.Session, orderID string, lineIndex int) (domain.Outcome, error) {
	if err := e.gate.Authorize(sess, access.FeatureEditLines); err != nil {
		return domain.Outcome{}, err
	}
	order, err := e.lookupLine(orderID, lineIndex)
	if err != nil {
		return domain.Outcome{}, err
	}

	line := order.Items[lineIndex]
	lines := removeLine(domain.CloneLines(order.Items), lineIndex)
	if len(lines) == 0 {
		return e.cascadeDelete(ctx, sess, order)
	}

	updated, err := e.collab.UpdateOrder(ctx, orderID, domain.OrderPatch{Items: &lines})
	if err != nil {
		return domain.Outcome{}, domain.Unavailable("update order", err)
	}
	e.replace(updated)

	e.record(ctx, sess, audit.ActionItemRemoved,
		fmt.Sprintf("%s: removed %dx %s", order.CustomerName, line.Quantity, line.Name),
		orderID)
	return domain.Updated(updated), nil
}

// DeleteOrder удаляет заказ целиком.
func (e *Engine) DeleteOrder(ctx context.Context, sess *access.Session, orderID string) error {
	order, err := e.lookup(orderID)
	if err != nil {
		return err
	}
	_, err = e.cascadeDelete(ctx, sess, order)
	return err
}

// SetPaid меняет только статус оплаты.
func (e *Engine) SetPaid(ctx context.Context, sess *access.Session, orderID string, isPaid bool) (domain.Order, error) {
	order, err := e.lookup(orderID)
	if err != nil {
		return domain.Order{}, err
	}

	updated, err := e.collab.UpdateOrder(ctx, orderID, domain.OrderPatch{IsPaid: &isPaid})
	if err != nil {
		return domain.Order{}, domain.Unavailable("update order", err)
	}
	e.replace(updated)

	e.record(ctx, sess, audit.ActionPaymentChanged,
		fmt.Sprintf("%s: %s", order.CustomerName, aggregate.PaidLabel(isPaid)),
		orderID)
	return updated, nil
}

// ResetAll удаляет все заказы. Требует явного подтверждения и админ-сессии.
func (e *Engine) ResetAll(ctx context.Context, sess *access.Session, confirmed bool) error {
	if !confirmed {
		return domain.ErrConfirmationRequired
	}
	if err := e.gate.Authorize(sess, access.FeatureReset); err != nil {
		return err
	}

	e.mu.RLock()
	count := len(e.orders)
	e.mu.RUnlock()

	if err := e.collab.ResetAll(ctx); err != nil {
		return domain.Unavailable("reset", err)
	}

	e.mu.Lock()
	e.orders = nil
	e.mu.Unlock()

	// Хранилище может очистить журнал вместе с заказами: локальный вид
	// сбрасывается и собирается заново, устаревшие записи не переживают сброс.
	e.trail.Clear()
	if err := e.trail.Load(ctx); err != nil {
		e.logger.WithError(err).Warn("failed to reload audit log after reset")
	}
	e.record(ctx, sess, audit.ActionAppReset, fmt.Sprintf("all orders deleted (%d)", count), "")
	return nil
}

// AuditLog возвращает журнал действий. Доступно только админ-сессии.
func (e *Engine) AuditLog(ctx context.Context, sess *access.Session, reload bool) ([]domain.AuditEntry, error) {
	if err := e.gate.Authorize(sess, access.FeatureViewLog); err != nil {
		return nil, err
	}
	if reload {
		if err := e.trail.Load(ctx); err != nil {
			return nil, err
		}
	}
	return e.trail.Entries(), nil
}

// Orders возвращает копию снимка заказов.
func (e *Engine) Orders() []domain.Order {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]domain.Order, len(e.orders))
	for i, o := range e.orders {
		out[i] = o.Clone()
	}
	return out
}

// Overview возвращает сводку по текущим заказам.
func (e *Engine) Overview() aggregate.Summary {
	return aggregate.Overview(e.Orders())
}

// PaymentChecklist возвращает чек-лист оплаты.
func (e *Engine) PaymentChecklist() []aggregate.PaymentRow {
	return aggregate.PaymentChecklist(e.Orders())
}

// Catalog возвращает индекс меню.
func (e *Engine) Catalog() *catalog.Index {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.menu
}

// Settings возвращает снимок настроек.
func (e *Engine) Settings() domain.Settings {
	return e.gate.Settings()
}

func (e *Engine) cascadeDelete(ctx context.Context, sess *access.Session, order domain.Order) (domain.Outcome, error) {
	// Имя берём до удаления: после него заказа нет в снимке.
	name := order.CustomerName
	if err := e.collab.DeleteOrder(ctx, order.ID); err != nil {
		return domain.Outcome{}, domain.Unavailable("delete order", err)
	}

	e.mu.Lock()
	for i := range e.orders {
		if e.orders[i].ID == order.ID {
			e.orders = append(e.orders[:i:i], e.orders[i+1:]...)
			break
		}
	}
	e.mu.Unlock()

	e.record(ctx, sess, audit.ActionOrderRemoved, fmt.Sprintf("order of %s removed", name), order.ID)
	return domain.Deleted(order.ID), nil
}

func (e *Engine) lookup(orderID string) (domain.Order, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	for _, o := range e.orders {
		if o.ID == orderID {
			return o.Clone(), nil
		}
	}
	return domain.Order{}, domain.ErrOrderNotFound
}

func (e *Engine) lookupLine(orderID string, lineIndex int) (domain.Order, error) {
	order, err := e.lookup(orderID)
	if err != nil {
		return domain.Order{}, err
	}
	if lineIndex < 0 || lineIndex >= len(order.Items) {
		return domain.Order{}, domain.ErrLineNotFound
	}
	return order, nil
}

func (e *Engine) replace(order domain.Order) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range e.orders {
		if e.orders[i].ID == order.ID {
			e.orders[i] = order
			return
		}
	}
	e.orders = append(e.orders, order)
}

func (e *Engine) record(ctx context.Context, sess *access.Session, action, details, orderID string) {
	device := ""
	if sess != nil {
		device = sess.DeviceInfo()
	}
	e.trail.Record(ctx, device, action, details, orderID)
}

func removeLine(lines []domain.OrderLine, i int) []domain.OrderLine {
	return append(lines[:i], lines[i+1:]...)
}

func describeLines(lines []domain.OrderLine) string {
	parts := make([]string, 0, len(lines))
	for _, l := range lines {
		parts = append(parts, fmt.Sprintf("%dx %s", l.Quantity, l.Name))
	}
	return strings.Join(parts, ", ")
}
