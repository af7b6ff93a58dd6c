package ws

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/snackorders/internal/domain"
	"github.com/vladislavdragonenkov/snackorders/internal/metrics"
)

const broadcastBuffer = 256

// ErrHubStopped возвращается при публикации в остановленный hub.
var ErrHubStopped = errors.New("websocket hub is stopped")

// Hub хранит подключённых клиентов и рассылает им события изменений.
type Hub struct {
	clients map[*Client]struct{}

	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	done       chan struct{}

	logger  *log.Entry
	metrics *metrics.ServiceMetrics

	mu       sync.RWMutex
	stopOnce sync.Once
}

// Option настраивает Hub.
type Option func(*Hub)

// WithLogger задаёт logger.
func WithLogger(logger *log.Entry) Option {
	return func(h *Hub) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithMetrics включает учёт подключённых клиентов.
func WithMetrics(m *metrics.ServiceMetrics) Option {
	return func(h *Hub) {
		h.metrics = m
	}
}

// NewHub создаёт hub. Цикл запускается через Run.
func NewHub(opts ...Option) *Hub {
	h := &Hub{
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, broadcastBuffer),
		done:       make(chan struct{}),
		logger:     log.WithField("component", "ws-hub"),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run обслуживает регистрацию клиентов и рассылку до отмены ctx.
func (h *Hub) Run(ctx context.Context) {
	defer h.stop()

	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = struct{}{}
			h.mu.Unlock()
			h.metrics.WSClientConnected()
			h.logger.WithField("remote", client.remote).Debug("websocket client connected")

		case client := <-h.unregister:
			h.mu.Lock()
			h.drop(client)
			h.mu.Unlock()

		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Буфер клиента переполнен: отключаем его.
					h.logger.WithField("remote", client.remote).Warn("websocket client is too slow, dropping")
					h.drop(client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Publish реализует domain.EventPublisher: событие рассылается всем клиентам.
func (h *Hub) Publish(ctx context.Context, event domain.ChangeEvent) error {
	message, err := json.Marshal(event)
	if err != nil {
		return err
	}

	select {
	case <-h.done:
		return ErrHubStopped
	default:
	}

	select {
	case h.broadcast <- message:
		return nil
	case <-h.done:
		return ErrHubStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ClientCount возвращает число подключённых клиентов.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// drop вызывается под h.mu.
func (h *Hub) drop(client *Client) {
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	close(client.send)
	h.metrics.WSClientDisconnected()
}

func (h *Hub) stop() {
	h.stopOnce.Do(func() {
		close(h.done)
		h.mu.Lock()
		for client := range h.clients {
			h.drop(client)
		}
		h.mu.Unlock()
	})
}

var _ domain.EventPublisher = (*Hub)(nil)
