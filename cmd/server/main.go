package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	grpcadapter "github.com/simaogato/splitflow-backend/internal/adapter/grpc"
	"github.com/simaogato/splitflow-backend/internal/adapter/repository/memory"
	"github.com/simaogato/splitflow-backend/internal/adapter/repository/postgres"
	"github.com/simaogato/splitflow-backend/internal/config"
	"github.com/simaogato/splitflow-backend/internal/domain"
	"github.com/simaogato/splitflow-backend/internal/usecase/balance"
	"github.com/simaogato/splitflow-backend/internal/usecase/seeder"
	"github.com/simaogato/splitflow-backend/internal/usecase/splitbill"
	"github.com/simaogato/splitflow-backend/pkg/logging"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		slog.Error("Failed to load .env file", "error", err)
		os.Exit(1)
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.LogLevel)

	if err := run(cfg); err != nil {
		slog.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx := context.Background()

	// 1. Initialize Repositories
	splitBillRepo, categoryRepo, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	// 2. Seed system categories
	if err := seeder.NewSystemSeeder(categoryRepo).Seed(ctx); err != nil {
		return err
	}
	slog.Info("System categories seeded", "count", len(seeder.DefaultCategories))

	// 3. Initialize Services (Use Cases)
	splitBillService := splitbill.NewSplitBillService(splitBillRepo, categoryRepo)
	balanceService := balance.NewBalanceService(splitBillRepo)

	// 4. Build gRPC server
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	metrics, err := grpcadapter.NewMetrics(registry)
	if err != nil {
		return err
	}

	grpcServer := grpclib.NewServer(
		grpclib.ChainUnaryInterceptor(
			metrics.UnaryInterceptor(),
			grpcadapter.LoggingInterceptor(slog.Default()),
			grpcadapter.AuthInterceptor(cfg.APIToken, healthpb.Health_Check_FullMethodName),
		),
	)

	grpcadapter.RegisterSplitBillServiceServer(grpcServer, grpcadapter.NewServer(splitBillService, balanceService))

	healthServer := health.NewServer()
	healthServer.SetServingStatus(grpcadapter.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	reflection.Register(grpcServer)

	// 5. Build ops HTTP server
	httpServer := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           opsRouter(registry),
		ReadHeaderTimeout: 5 * time.Second,
	}

	lis, err := net.Listen("tcp", ":"+cfg.GRPCPort)
	if err != nil {
		return err
	}

	errCh := make(chan error, 2)
	go func() {
		slog.Info("gRPC server listening", "port", cfg.GRPCPort, "backend", cfg.DataBackend)
		if err := grpcServer.Serve(lis); err != nil {
			errCh <- err
		}
	}()
	go func() {
		slog.Info("HTTP ops server listening", "port", cfg.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	select {
	case sig := <-sigChan:
		slog.Info("Shutting down gracefully", "signal", sig.String())
	case err := <-errCh:
		slog.Error("Server failed, shutting down", "error", err)
	}

	healthServer.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Warn("HTTP ops server shutdown", "error", err)
	}

	stopped := make(chan struct{})
	go func() {
		grpcServer.GracefulStop()
		close(stopped)
	}()
	select {
	case <-stopped:
		slog.Info("gRPC server stopped")
	case <-shutdownCtx.Done():
		grpcServer.Stop()
		slog.Warn("gRPC server forced to stop after timeout", "timeout", cfg.ShutdownTimeout)
	}

	return nil
}

// openStore returns the repositories for the configured backend and a func that releases them
func openStore(ctx context.Context, cfg *config.Config) (domain.SplitBillRepository, domain.CategoryRepository, func(), error) {
	switch cfg.DataBackend {
	case config.BackendPostgres:
		db, err := postgres.NewDB(ctx, cfg.DBConnStr)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := postgres.RunMigrations(db); err != nil {
			db.Close()
			return nil, nil, nil, err
		}
		slog.Info("Using postgres backend")
		closeFn := func() {
			if err := db.Close(); err != nil {
				slog.Warn("Failed to close database", "error", err)
			}
		}
		return postgres.NewSplitBillRepository(db), postgres.NewCategoryRepository(db), closeFn, nil
	default:
		slog.Info("Using in-memory backend")
		return memory.NewSplitBillStore(), memory.NewCategoryStore(), func() {}, nil
	}
}

func opsRouter(registry *prometheus.Registry) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))

	return r
}
