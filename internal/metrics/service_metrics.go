// Package metrics содержит Prometheus-метрики сервиса заказов.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ServiceMetrics содержит метрики операций backend-сервиса.
type ServiceMetrics struct {
	// Счётчики мутаций заказов
	ordersCreated prometheus.Counter
	ordersUpdated prometheus.Counter
	ordersDeleted prometheus.Counter
	resets        prometheus.Counter

	auditEntries  prometheus.Counter
	adminAttempts *prometheus.CounterVec
	publishErrors *prometheus.CounterVec

	// Длительность обращений к хранилищу
	storageDuration *prometheus.HistogramVec

	activeOrders prometheus.Gauge
	wsClients    prometheus.Gauge
}

// NewServiceMetrics регистрирует метрики в глобальном реестре.
func NewServiceMetrics() *ServiceMetrics {
	return NewServiceMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

// NewServiceMetricsWithRegisterer регистрирует метрики в переданном реестре.
// Повторная регистрация возвращает уже зарегистрированные коллекторы.
func NewServiceMetricsWithRegisterer(registerer prometheus.Registerer) *ServiceMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &ServiceMetrics{
		ordersCreated: registerCounter(registerer, prometheus.CounterOpts{
			Name: "snack_orders_created_total",
			Help: "Total number of orders placed",
		}),
		ordersUpdated: registerCounter(registerer, prometheus.CounterOpts{
			Name: "snack_orders_updated_total",
			Help: "Total number of accepted order updates",
		}),
		ordersDeleted: registerCounter(registerer, prometheus.CounterOpts{
			Name: "snack_orders_deleted_total",
			Help: "Total number of orders deleted, including resets",
		}),
		resets: registerCounter(registerer, prometheus.CounterOpts{
			Name: "snack_resets_total",
			Help: "Total number of global resets",
		}),
		auditEntries: registerCounter(registerer, prometheus.CounterOpts{
			Name: "snack_audit_entries_total",
			Help: "Total number of audit log entries appended",
		}),
		adminAttempts: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "snack_admin_verifications_total",
			Help: "Admin code verifications grouped by result",
		}, []string{"result"}),
		publishErrors: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "snack_event_publish_errors_total",
			Help: "Change events that failed to publish grouped by event type",
		}, []string{"type"}),
		storageDuration: registerHistogramVec(registerer, prometheus.HistogramOpts{
			Name:    "snack_storage_operation_duration_seconds",
			Help:    "Duration of storage operations in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}, []string{"operation"}),
		activeOrders: registerGauge(registerer, prometheus.GaugeOpts{
			Name: "snack_active_orders",
			Help: "Number of orders currently stored",
		}),
		wsClients: registerGauge(registerer, prometheus.GaugeOpts{
			Name: "snack_ws_clients",
			Help: "Number of connected websocket clients",
		}),
	}
}

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	collector := prometheus.NewCounter(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Counter)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter %q: %v", opts.Name, err))
	}
	return collector
}

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	collector := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerGauge(registerer prometheus.Registerer, opts prometheus.GaugeOpts) prometheus.Gauge {
	collector := prometheus.NewGauge(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Gauge)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register gauge %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogramVec(registerer prometheus.Registerer, opts prometheus.HistogramOpts, labels []string) *prometheus.HistogramVec {
	collector := prometheus.NewHistogramVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.HistogramVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram vec %q: %v", opts.Name, err))
	}
	return collector
}

// Все Record-методы безопасны для nil-получателя: сервис может работать без метрик.

// RecordOrderCreated увеличивает счётчик созданных заказов.
func (m *ServiceMetrics) RecordOrderCreated() {
	if m == nil {
		return
	}
	m.ordersCreated.Inc()
	m.activeOrders.Inc()
}

// RecordOrderUpdated увеличивает счётчик обновлений.
func (m *ServiceMetrics) RecordOrderUpdated() {
	if m == nil {
		return
	}
	m.ordersUpdated.Inc()
}

// RecordOrderDeleted учитывает удаление заказа.
func (m *ServiceMetrics) RecordOrderDeleted() {
	if m == nil {
		return
	}
	m.ordersDeleted.Inc()
	m.activeOrders.Dec()
}

// RecordReset учитывает глобальный сброс и удалённые им заказы.
func (m *ServiceMetrics) RecordReset(deleted int) {
	if m == nil {
		return
	}
	m.resets.Inc()
	m.ordersDeleted.Add(float64(deleted))
	m.activeOrders.Set(0)
}

// SetActiveOrders выставляет текущее число заказов (например, после старта).
func (m *ServiceMetrics) SetActiveOrders(n int) {
	if m == nil {
		return
	}
	m.activeOrders.Set(float64(n))
}

// RecordAuditEntry увеличивает счётчик записей журнала.
func (m *ServiceMetrics) RecordAuditEntry() {
	if m == nil {
		return
	}
	m.auditEntries.Inc()
}

// RecordAdminVerification учитывает проверку админ-кода.
func (m *ServiceMetrics) RecordAdminVerification(success bool) {
	if m == nil {
		return
	}
	result := "rejected"
	if success {
		result = "accepted"
	}
	m.adminAttempts.WithLabelValues(result).Inc()
}

// RecordPublishError учитывает неудачную публикацию события.
func (m *ServiceMetrics) RecordPublishError(eventType string) {
	if m == nil {
		return
	}
	m.publishErrors.WithLabelValues(eventType).Inc()
}

// RecordStorageDuration записывает длительность операции хранилища.
func (m *ServiceMetrics) RecordStorageDuration(operation string, duration time.Duration) {
	if m == nil {
		return
	}
	m.storageDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// WSClientConnected / WSClientDisconnected отслеживают websocket-клиентов.
func (m *ServiceMetrics) WSClientConnected() {
	if m == nil {
		return
	}
	m.wsClients.Inc()
}

func (m *ServiceMetrics) WSClientDisconnected() {
	if m == nil {
		return
	}
	m.wsClients.Dec()
}
