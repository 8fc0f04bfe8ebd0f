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

	healthcheck "github.com/vladislavdragonenkov/pedidos/internal/health"
	"github.com/vladislavdragonenkov/pedidos/internal/jobs"
	"github.com/vladislavdragonenkov/pedidos/internal/transport/httpapi"
	"github.com/vladislavdragonenkov/pedidos/internal/version"
)

const (
	shutdownTimeout     = 5 * time.Second
	healthSyncInterval  = 5 * time.Second
	grpcHealthService   = "pedidos.v1.Ledger"
	httpReadHeaderLimit = 5 * time.Second
)

// Run поднимает журнал, HTTP API, сервер метрик и gRPC health и работает до отмены ctx.
func Run(ctx context.Context, cfg Config) error {
	logger := log.WithField("component", "app")
	logger.WithField("build", version.String()).Info("starting pedidos")

	deps, err := NewDependencies(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := deps.Close(closeCtx); err != nil {
			logger.WithError(err).Warn("failed to close ledger dependencies")
		}
	}()

	if cfg.Backup.Enabled {
		backup := jobs.NewBackupJob(cfg.DataFile, cfg.Backup.Dir, cfg.Backup.Schedule, cfg.Backup.Keep,
			logger.WithField("component", "backup-job"))
		if err := backup.Start(); err != nil {
			return err
		}
		defer backup.Stop()
	}

	grpcMetrics := promgrpc.NewServerMetrics()
	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(grpcMetrics.UnaryServerInterceptor()),
		grpc.ChainStreamInterceptor(grpcMetrics.StreamServerInterceptor()),
	)
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
	grpcMetrics.InitializeMetrics(grpcServer)

	// Reflection для grpcurl
	reflection.Register(grpcServer)

	healthHandler := healthcheck.NewHandler(version.GetVersion())
	deps.RegisterHealthChecks(healthHandler)
	go syncGRPCHealth(ctx, healthHandler, healthServer, healthSyncInterval)

	metricsSrv := startMetricsServer(ctx, cfg.MetricsAddr, logger, healthHandler)

	api := httpapi.NewServer(deps.Store, logger.WithField("component", "http-api"))
	apiSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.Handler(),
		ReadHeaderTimeout: httpReadHeaderLimit,
	}

	httpLis, err := net.Listen("tcp", cfg.HTTPAddr)
	if err != nil {
		shutdownHTTP(metricsSrv, logger)
		return fmt.Errorf("listen http %s: %w", cfg.HTTPAddr, err)
	}
	grpcLis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		_ = httpLis.Close()
		shutdownHTTP(metricsSrv, logger)
		return fmt.Errorf("listen grpc %s: %w", cfg.GRPCAddr, err)
	}

	errCh := make(chan error, 2)
	go func() {
		logger.Infof("HTTP API слушает %s", httpLis.Addr())
		if err := apiSrv.Serve(httpLis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http api: %w", err)
		}
	}()
	go func() {
		logger.Infof("gRPC сервер слушает %s", grpcLis.Addr())
		errCh <- grpcServer.Serve(grpcLis)
	}()

	select {
	case <-ctx.Done():
		logger.Info("получен сигнал остановки, останавливаем серверы")
		healthServer.Shutdown()
		shutdownHTTP(apiSrv, logger)
		stopGRPC(grpcServer, logger)
		shutdownHTTP(metricsSrv, logger)
		return ctx.Err()
	case err := <-errCh:
		shutdownHTTP(apiSrv, logger)
		stopGRPC(grpcServer, logger)
		shutdownHTTP(metricsSrv, logger)
		if errors.Is(err, grpc.ErrServerStopped) {
			return nil
		}
		return err
	}
}

// stopGRPC пытается остановить gRPC аккуратно, по таймауту — принудительно.
func stopGRPC(server *grpc.Server, logger *log.Entry) {
	stoppedCh := make(chan struct{})
	go func() {
		server.GracefulStop()
		close(stoppedCh)
	}()
	select {
	case <-stoppedCh:
	case <-time.After(shutdownTimeout):
		logger.Warn("graceful stop превысил таймаут, принудительно останавливаем")
		server.Stop()
	}
}

// syncGRPCHealth переносит статус HTTP health checks в grpc.health.v1.
func syncGRPCHealth(ctx context.Context, checks *healthcheck.Handler, server *health.Server, interval time.Duration) {
	update := func() {
		status := healthpb.HealthCheckResponse_SERVING
		if overall, _ := checks.Evaluate(); overall == healthcheck.StatusUnhealthy {
			status = healthpb.HealthCheckResponse_NOT_SERVING
		}
		server.SetServingStatus("", status)
		server.SetServingStatus(grpcHealthService, status)
	}

	update()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			update()
		}
	}
}

// startMetricsServer запускает HTTP-обработчик /metrics и health probes.
func startMetricsServer(ctx context.Context, addr string, logger *log.Entry, healthHandler *healthcheck.Handler) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/healthz", healthHandler)
	mux.HandleFunc("/livez", healthcheck.LivenessHandler)
	mux.HandleFunc("/readyz", healthHandler.ReadinessHandler)

	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: httpReadHeaderLimit}
	go func() {
		logger.Infof("метрики доступны по адресу %s/metrics", addr)
		logger.Infof("health checks: %s/healthz, %s/livez, %s/readyz", addr, addr, addr)
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
	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Warn("http shutdown with error")
	}
}
