package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	promgrpc "github.com/grpc-ecosystem/go-grpc-prometheus"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	healthcheck "github.com/vladislavdragonenkov/snackorders/internal/health"
	"github.com/vladislavdragonenkov/snackorders/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/snackorders/internal/metrics"
	"github.com/vladislavdragonenkov/snackorders/internal/service/backend"
	"github.com/vladislavdragonenkov/snackorders/internal/transport/httpapi"
	"github.com/vladislavdragonenkov/snackorders/internal/transport/ws"
	"github.com/vladislavdragonenkov/snackorders/internal/version"
)

// Run поднимает HTTP API, websocket-рассылку, gRPC health и сервер метрик
// и блокируется до отмены ctx или падения одного из серверов.
func Run(ctx context.Context, cfg Config) error {
	logger := log.WithField("component", "app")

	deps, err := initRuntimeDependencies(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if deps.closeFn != nil {
		defer func() {
			if err := deps.closeFn(); err != nil {
				logger.WithError(err).Warn("failed to close storage")
			}
		}()
	}

	serviceMetrics := metrics.NewServiceMetrics()

	runCtx, cancelRun := context.WithCancel(ctx)
	defer cancelRun()

	hub := ws.NewHub(ws.WithLogger(logger.WithField("layer", "ws")), ws.WithMetrics(serviceMetrics))
	hubDone := make(chan struct{})
	go func() {
		hub.Run(runCtx)
		close(hubDone)
	}()

	publishers := backend.FanOut{hub}
	var kafkaPublisher *kafka.ChangePublisher
	kafkaProducer, _ := initKafkaProducer(cfg.KafkaBrokers, cfg.KafkaClientID, logger)
	if kafkaProducer != nil {
		kafkaPublisher = kafka.NewChangePublisher(kafkaProducer, cfg.KafkaOrderTopic, cfg.KafkaAuditTopic)
		publishers = append(publishers, kafkaPublisher)
	}
	defer closeKafka(kafkaProducer, logger)

	svcOpts := []backend.Option{
		backend.WithLogger(logger.WithField("layer", "backend")),
		backend.WithPublisher(publishers),
		backend.WithMetrics(serviceMetrics),
		backend.WithResetClearsAudit(cfg.ResetClearsAudit),
		backend.WithAuditLimit(cfg.AuditLimit),
	}
	hash, err := adminCodeHash(cfg)
	if err != nil {
		return err
	}
	if len(hash) == 0 {
		logger.Warn("admin code is not configured, admin verification will always fail")
	}
	svcOpts = append(svcOpts, backend.WithAdminCodeHash(hash))
	svc := backend.NewService(deps.repos, svcOpts...)

	if n, err := svc.CountOrders(ctx); err != nil {
		logger.WithError(err).Warn("failed to count orders on startup")
	} else {
		serviceMetrics.SetActiveOrders(n)
	}

	healthHandler := healthcheck.NewHandler(version.GetVersion())
	healthHandler.RegisterChecker("storage", deps.storageChecker)
	if kafkaPublisher != nil {
		healthHandler.RegisterChecker("kafka", healthcheck.NewOptionalChecker("kafka", kafkaPublisher.Check))
	}

	router := httpapi.NewRouter(
		httpapi.NewHandler(svc, logger.WithField("layer", "http")),
		httpapi.RouterConfig{
			AllowedOrigins: cfg.CORSOrigins,
			Events:         hub.Handler(nil),
			Health:         healthHandler,
			Logger:         logger.WithField("layer", "http"),
		},
	)

	httpLis, err := net.Listen("tcp", cfg.HTTPAddr)
	if err != nil {
		return fmt.Errorf("listen http: %w", err)
	}
	httpSrv := &http.Server{Handler: router, ReadHeaderTimeout: 10 * time.Second}

	metricsSrv := startMetricsServer(runCtx, cfg.MetricsAddr, logger, healthHandler)

	grpcMetrics := promgrpc.NewServerMetrics()
	grpcServer := grpc.NewServer(grpc.ChainUnaryInterceptor(grpcMetrics.UnaryServerInterceptor()))
	if err := prometheus.Register(grpcMetrics); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok2 := are.ExistingCollector.(*promgrpc.ServerMetrics); ok2 {
				grpcMetrics = existing
			}
		} else {
			logger.WithError(err).Warn("failed to register grpc metrics")
		}
	}
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	reflection.Register(grpcServer)
	grpcMetrics.InitializeMetrics(grpcServer)
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	grpcLis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		_ = httpLis.Close()
		shutdownHTTP(metricsSrv, logger)
		return fmt.Errorf("listen grpc: %w", err)
	}

	errCh := make(chan error, 2)
	go func() {
		logger.Infof("HTTP API слушает %s", httpLis.Addr())
		if err := httpSrv.Serve(httpLis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()
	go func() {
		logger.Infof("gRPC health слушает %s", grpcLis.Addr())
		if err := grpcServer.Serve(grpcLis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			errCh <- fmt.Errorf("grpc server: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("получен сигнал остановки, останавливаем серверы")
		runErr = ctx.Err()
	case runErr = <-errCh:
		logger.WithError(runErr).Error("server failed, shutting down")
	}

	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	shutdownHTTPWithTimeout(httpSrv, cfg.ShutdownTimeout, logger)
	stopGRPC(grpcServer, cfg.ShutdownTimeout, logger)
	shutdownHTTP(metricsSrv, logger)

	cancelRun()
	<-hubDone
	return runErr
}

// adminCodeHash возвращает bcrypt-хеш из конфигурации или хеширует открытый код.
func adminCodeHash(cfg Config) ([]byte, error) {
	if cfg.AdminCodeHash != "" {
		return []byte(cfg.AdminCodeHash), nil
	}
	if cfg.AdminCode == "" {
		return nil, nil
	}
	hash, err := backend.HashAdminCode(cfg.AdminCode)
	if err != nil {
		return nil, fmt.Errorf("hash admin code: %w", err)
	}
	return hash, nil
}

// startMetricsServer запускает HTTP-обработчик /metrics для Prometheus.
func startMetricsServer(ctx context.Context, addr string, logger *log.Entry, healthHandler *healthcheck.Handler) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/healthz", healthHandler)
	mux.HandleFunc("/readyz", healthHandler.ReadinessHandler)
	mux.HandleFunc("/livez", healthcheck.LivenessHandler)

	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		logger.Infof("метрики доступны по адресу %s/metrics", addr)
		logger.Infof("health checks: %s/healthz, %s/readyz, %s/livez", addr, addr, addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Warn("metrics server failed")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownHTTP(srv, logger)
	}()

	return srv
}

// shutdownHTTP аккуратно останавливает HTTP-сервер.
func shutdownHTTP(srv *http.Server, logger *log.Entry) {
	shutdownHTTPWithTimeout(srv, 5*time.Second, logger)
}

func shutdownHTTPWithTimeout(srv *http.Server, timeout time.Duration, logger *log.Entry) {
	if srv == nil {
		return
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Warn("http shutdown with error")
	}
}

// stopGRPC ждёт GracefulStop не дольше timeout, затем останавливает принудительно.
func stopGRPC(srv *grpc.Server, timeout time.Duration, logger *log.Entry) {
	if srv == nil {
		return
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	stoppedCh := make(chan struct{})
	go func() {
		srv.GracefulStop()
		close(stoppedCh)
	}()
	select {
	case <-stoppedCh:
	case <-time.After(timeout):
		logger.Warn("graceful stop превысил таймаут, принудительно останавливаем")
		srv.Stop()
	}
}
