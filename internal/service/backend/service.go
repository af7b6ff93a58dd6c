// Package backend реализует серверную сторону domain.Collaborator поверх репозиториев.
//
// Сервис пересчитывает total_price на каждой принятой мутации, проставляет время и IP
// записей журнала, заполняет пустое меню и лениво создаёт настройки по умолчанию.
package backend

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/vladislavdragonenkov/snackorders/internal/catalog"
	"github.com/vladislavdragonenkov/snackorders/internal/domain"
	"github.com/vladislavdragonenkov/snackorders/internal/metrics"
)

const defaultAuditLimit = 1000

// Repositories - набор хранилищ сервиса.
type Repositories struct {
	Menu     domain.MenuRepository
	Orders   domain.OrderRepository
	Settings domain.SettingsRepository
	Audit    domain.AuditRepository
}

// Option настраивает Service.
type Option func(*Service)

// WithLogger задаёт logger сервиса.
func WithLogger(logger *log.Entry) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithAdminCodeHash задаёт bcrypt-хеш админ-кода. Без него VerifyAdmin всегда отвечает false.
func WithAdminCodeHash(hash []byte) Option {
	return func(s *Service) {
		s.adminHash = hash
	}
}

// WithResetClearsAudit включает очистку журнала при ResetAll.
func WithResetClearsAudit(enabled bool) Option {
	return func(s *Service) {
		s.resetClearsAudit = enabled
	}
}

// WithPublisher задаёт получателя событий изменений.
func WithPublisher(publisher domain.EventPublisher) Option {
	return func(s *Service) {
		s.publisher = publisher
	}
}

// WithMetrics задаёт метрики сервиса.
func WithMetrics(m *metrics.ServiceMetrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithAuditLimit ограничивает число записей в ListAuditLog.
func WithAuditLimit(limit int) Option {
	return func(s *Service) {
		s.auditLimit = limit
	}
}

// WithClock подменяет источник времени (для тестов).
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithoutMenuSeeding отключает автоматическое заполнение пустого меню.
func WithoutMenuSeeding() Option {
	return func(s *Service) {
		s.seedMenu = false
	}
}

// Service - in-process реализация domain.Collaborator.
type Service struct {
	repos            Repositories
	logger           *log.Entry
	adminHash        []byte
	resetClearsAudit bool
	publisher        domain.EventPublisher
	metrics          *metrics.ServiceMetrics
	auditLimit       int
	seedMenu         bool
	now              func() time.Time
}

// NewService создаёт сервис поверх репозиториев.
func NewService(repos Repositories, opts ...Option) *Service {
	s := &Service{
		repos:      repos,
		auditLimit: defaultAuditLimit,
		seedMenu:   true,
		now:        func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.WithField("component", "backend")
	}
	return s
}

// HashAdminCode возвращает bcrypt-хеш админ-кода для конфигурации.
func HashAdminCode(code string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
}

// GetMenu возвращает меню, заполняя пустое хранилище стартовым меню.
func (s *Service) GetMenu(ctx context.Context) ([]domain.MenuItem, error) {
	defer s.observe("list_menu", time.Now())

	items, err := s.repos.Menu.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(items) > 0 || !s.seedMenu {
		return items, nil
	}
	return s.SeedMenu(ctx)
}

// SeedMenu заменяет меню стартовым.
func (s *Service) SeedMenu(ctx context.Context) ([]domain.MenuItem, error) {
	items := catalog.SeedMenu()
	if err := s.repos.Menu.ReplaceAll(ctx, items); err != nil {
		return nil, err
	}
	s.logger.WithField("items", len(items)).Info("menu seeded")
	s.publish(ctx, domain.ChangeEvent{Type: domain.EventMenuReplaced})
	return items, nil
}

// ListOrders возвращает заказы в порядке создания.
func (s *Service) ListOrders(ctx context.Context) ([]domain.Order, error) {
	defer s.observe("list_orders", time.Now())
	return s.repos.Orders.List(ctx)
}

// CreateOrder сохраняет новый заказ и вычисляет его сумму.
func (s *Service) CreateOrder(ctx context.Context, customerName string, items []domain.OrderLine) (domain.Order, error) {
	defer s.observe("create_order", time.Now())

	lines := roundPrices(items)
	order := domain.Order{
		ID:           uuid.NewString(),
		CustomerName: strings.TrimSpace(customerName),
		Items:        lines,
		TotalPrice:   domain.RecalculateTotal(lines),
		CreatedAt:    s.now(),
	}
	if err := validate(&order); err != nil {
		return domain.Order{}, err
	}
	if err := s.repos.Orders.Create(ctx, order); err != nil {
		return domain.Order{}, err
	}

	s.metrics.RecordOrderCreated()
	s.logger.WithFields(log.Fields{"order_id": order.ID, "lines": len(order.Items)}).Info("order created")
	s.publish(ctx, domain.ChangeEvent{Type: domain.EventOrderCreated, OrderID: order.ID, Order: &order})
	return order, nil
}

// UpdateOrder применяет частичное обновление и пересчитывает сумму.
func (s *Service) UpdateOrder(ctx context.Context, orderID string, patch domain.OrderPatch) (domain.Order, error) {
	defer s.observe("update_order", time.Now())

	order, err := s.repos.Orders.Get(ctx, orderID)
	if err != nil {
		return domain.Order{}, err
	}
	if patch.Items != nil {
		order.Items = roundPrices(*patch.Items)
	}
	if patch.IsPaid != nil {
		order.IsPaid = *patch.IsPaid
	}
	order.TotalPrice = domain.RecalculateTotal(order.Items)

	if err := validate(&order); err != nil {
		return domain.Order{}, err
	}
	if err := s.repos.Orders.Save(ctx, order); err != nil {
		return domain.Order{}, err
	}

	s.metrics.RecordOrderUpdated()
	s.publish(ctx, domain.ChangeEvent{Type: domain.EventOrderUpdated, OrderID: order.ID, Order: &order})
	return order, nil
}

// DeleteOrder удаляет заказ или возвращает ErrOrderNotFound.
func (s *Service) DeleteOrder(ctx context.Context, orderID string) error {
	defer s.observe("delete_order", time.Now())

	if err := s.repos.Orders.Delete(ctx, orderID); err != nil {
		return err
	}
	s.metrics.RecordOrderDeleted()
	s.publish(ctx, domain.ChangeEvent{Type: domain.EventOrderDeleted, OrderID: orderID})
	return nil
}

// GetSettings возвращает настройки, создавая запись по умолчанию при первом обращении.
func (s *Service) GetSettings(ctx context.Context) (domain.Settings, error) {
	settings, err := s.repos.Settings.Get(ctx)
	if err == nil {
		return settings, nil
	}
	if !errors.Is(err, domain.ErrSettingsNotFound) {
		return domain.Settings{}, err
	}
	if err := s.repos.Settings.Create(ctx, domain.Settings{}); err != nil {
		return domain.Settings{}, err
	}
	return s.repos.Settings.Get(ctx)
}

// UpdateSettings применяет патч к настройкам.
func (s *Service) UpdateSettings(ctx context.Context, patch domain.SettingsPatch) (domain.Settings, error) {
	if _, err := s.GetSettings(ctx); err != nil {
		return domain.Settings{}, err
	}
	settings, err := s.repos.Settings.Update(ctx, patch)
	if err != nil {
		return domain.Settings{}, err
	}
	s.publish(ctx, domain.ChangeEvent{Type: domain.EventSettingsUpdated, Settings: &settings})
	return settings, nil
}

// VerifyAdmin сравнивает код с bcrypt-хешем. Ограничения числа попыток нет.
func (s *Service) VerifyAdmin(_ context.Context, code string) (bool, error) {
	ok := len(s.adminHash) > 0 && bcrypt.CompareHashAndPassword(s.adminHash, []byte(code)) == nil
	s.metrics.RecordAdminVerification(ok)
	if !ok {
		s.logger.Warn("admin verification rejected")
	}
	return ok, nil
}

// ResetAll удаляет все заказы и, если настроено, журнал.
func (s *Service) ResetAll(ctx context.Context) error {
	defer s.observe("reset", time.Now())

	deleted, err := s.repos.Orders.DeleteAll(ctx)
	if err != nil {
		return err
	}
	if s.resetClearsAudit {
		if _, err := s.repos.Audit.DeleteAll(ctx); err != nil {
			return err
		}
	}

	s.metrics.RecordReset(deleted)
	s.logger.WithFields(log.Fields{
		"deleted_orders": deleted,
		"audit_cleared":  s.resetClearsAudit,
	}).Warn("all orders reset")
	s.publish(ctx, domain.ChangeEvent{Type: domain.EventOrdersReset})
	return nil
}

// ListAuditLog возвращает журнал от новых записей к старым.
func (s *Service) ListAuditLog(ctx context.Context) ([]domain.AuditEntry, error) {
	defer s.observe("list_audit", time.Now())
	return s.repos.Audit.List(ctx, s.auditLimit)
}

// AppendAuditLog добавляет запись, проставляя время и IP клиента из контекста.
func (s *Service) AppendAuditLog(ctx context.Context, record domain.AuditRecord) (domain.AuditEntry, error) {
	defer s.observe("append_audit", time.Now())

	if strings.TrimSpace(record.Action) == "" {
		return domain.AuditEntry{}, ErrActionRequired
	}
	entry := domain.AuditEntry{
		ID:         uuid.NewString(),
		Timestamp:  s.now(),
		Action:     record.Action,
		Details:    record.Details,
		OrderID:    record.OrderID,
		DeviceInfo: record.DeviceInfo,
		ClientIP:   ClientIPFromContext(ctx),
	}
	if err := s.repos.Audit.Append(ctx, entry); err != nil {
		return domain.AuditEntry{}, err
	}

	s.metrics.RecordAuditEntry()
	s.publish(ctx, domain.ChangeEvent{Type: domain.EventAuditAppended, OrderID: entry.OrderID, Audit: &entry})
	return entry, nil
}

// CountOrders возвращает число сохранённых заказов.
func (s *Service) CountOrders(ctx context.Context) (int, error) {
	orders, err := s.repos.Orders.List(ctx)
	if err != nil {
		return 0, err
	}
	return len(orders), nil
}

func (s *Service) publish(ctx context.Context, event domain.ChangeEvent) {
	if s.publisher == nil {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.metrics.RecordPublishError(string(event.Type))
		s.logger.WithError(err).WithField("event_type", event.Type).Warn("failed to publish change event")
	}
}

func (s *Service) observe(op string, start time.Time) {
	s.metrics.RecordStorageDuration(op, time.Since(start))
}

// roundPrices копирует строки, округляя цены до копеек, как их хранит БД.
// Сумма заказа считается уже по округлённым ценам.
func roundPrices(items []domain.OrderLine) []domain.OrderLine {
	lines := domain.CloneLines(items)
	for i := range lines {
		lines[i].Price = lines[i].Price.Round(2)
	}
	return lines
}

// validate возвращает первую ошибку инвариантов заказа.
func validate(order *domain.Order) error {
	if errs := order.ValidateInvariants(); len(errs) > 0 {
		return errs[0]
	}
	return nil
}

var _ domain.Collaborator = (*Service)(nil)
