package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/vladislavdragonenkov/snackorders/internal/domain"
)

// Topics для Kafka
const (
	TopicOrderEvents = "snack.order.events"
	TopicAuditEvents = "snack.audit.events"
)

// HeaderEventType дублирует тип события в заголовке, чтобы consumer мог фильтровать без разбора payload.
const HeaderEventType = "x-event-type"

// ChangePublisher публикует события изменений: журнал в audit-topic, остальное в order-topic.
type ChangePublisher struct {
	producer   *Producer
	orderTopic string
	auditTopic string

	mu      sync.Mutex
	lastErr error
}

// NewChangePublisher создаёт паблишер. Пустые topic заменяются значениями по умолчанию.
func NewChangePublisher(producer *Producer, orderTopic, auditTopic string) *ChangePublisher {
	if orderTopic == "" {
		orderTopic = TopicOrderEvents
	}
	if auditTopic == "" {
		auditTopic = TopicAuditEvents
	}
	return &ChangePublisher{producer: producer, orderTopic: orderTopic, auditTopic: auditTopic}
}

// Publish реализует domain.EventPublisher.
func (p *ChangePublisher) Publish(_ context.Context, event domain.ChangeEvent) error {
	if p == nil || p.producer == nil {
		return errors.New("kafka change publisher is not initialized")
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", event.Type, err)
	}
	err = p.producer.Send(p.topicFor(event.Type), event.Key(), payload,
		map[string]string{HeaderEventType: string(event.Type)}, event.Timestamp)

	p.mu.Lock()
	p.lastErr = err
	p.mu.Unlock()
	return err
}

// Check возвращает ошибку последней публикации; nil, если она прошла успешно.
// Используется health-проверкой брокера.
func (p *ChangePublisher) Check(context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastErr
}

func (p *ChangePublisher) topicFor(t domain.EventType) string {
	if t == domain.EventAuditAppended {
		return p.auditTopic
	}
	return p.orderTopic
}

var _ domain.EventPublisher = (*ChangePublisher)(nil)
