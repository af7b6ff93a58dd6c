package httpapi

import (
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/snackorders/internal/service/backend"
)

// RouterConfig - параметры сборки HTTP-роутера.
type RouterConfig struct {
	// AllowedOrigins - список CORS-источников; пустой список означает "*".
	AllowedOrigins []string
	// Events - обработчик websocket-подписки на изменения; nil отключает /ws/orders.
	Events http.Handler
	// Health - обработчик /healthz; nil отключает эндпоинт.
	Health http.Handler
	Logger *log.Entry
}

// NewRouter собирает chi-роутер со всеми маршрутами приложения.
func NewRouter(h *Handler, cfg RouterConfig) chi.Router {
	logger := cfg.Logger
	if logger == nil {
		logger = log.WithField("component", "http")
	}

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if cfg.Health != nil {
		r.Method(http.MethodGet, "/healthz", cfg.Health)
	}
	if cfg.Events != nil {
		r.Method(http.MethodGet, "/ws/orders", cfg.Events)
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(clientIP)
		h.RegisterRoutes(r)
	})

	return r
}

// clientIP кладёт адрес клиента в контекст; backend проставляет его в журнал.
// X-Forwarded-For уже разобран middleware.RealIP.
func clientIP(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := r.RemoteAddr
		if host, _, err := net.SplitHostPort(ip); err == nil {
			ip = host
		}
		next.ServeHTTP(w, r.WithContext(backend.WithClientIP(r.Context(), ip)))
	})
}

func requestLogger(logger *log.Entry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)

			logger.WithFields(log.Fields{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      ww.Status(),
				"bytes":       ww.BytesWritten(),
				"duration_ms": time.Since(start).Milliseconds(),
				"request_id":  middleware.GetReqID(r.Context()),
			}).Debug("http request")
		})
	}
}
