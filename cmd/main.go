package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/okian/pokeapi/internal/adapters/http/api"
	"github.com/okian/pokeapi/internal/adapters/http/openapi"
	"github.com/okian/pokeapi/internal/adapters/http/swagger"
	"github.com/okian/pokeapi/internal/adapters/repository"
	service "github.com/okian/pokeapi/internal/app"
	"github.com/okian/pokeapi/internal/config"
	"github.com/okian/pokeapi/pkg/logger"
	"github.com/okian/pokeapi/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 10 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	systemMetricsInterval     = 10 * time.Second
	storeMetricsInterval      = 5 * time.Second
	nanosecondsPerMillisecond = 1e6
)

// Document metadata for /api-docs.
var docInfo = openapi.Info{
	Title:       "Pokemons API",
	Version:     "1.0.0",
	Description: "API to manage Pokemons",
}

func main() {
	// Disable default Go metrics collection to avoid duplicate metrics
	// We collect our own custom system metrics instead
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Initialize logging
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := run(ctx, cfg); err != nil {
		logger.Get().Error(ctx, "pokeapi exited", logger.Error(err))
		stop()
		os.Exit(1)
	}
}

// run serves the API until ctx is cancelled.
func run(ctx context.Context, cfg *config.Config) error {
	if err := logger.Init(logger.WithFormat(cfg.LogFormat)); err != nil {
		return fmt.Errorf("configuring logger: %w", err)
	}
	loggerInstance := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
	defer func() {
		_ = logger.Sync()
	}()

	store, err := newStore(ctx, cfg)
	if err != nil {
		return err
	}

	svc := service.New(
		service.WithLogger(loggerInstance),
		service.WithStore(store),
		service.WithColumns(cfg.Columns),
	)
	if err := svc.Start(ctx); err != nil {
		_ = store.Close()
		return fmt.Errorf("starting service: %w", err)
	}
	defer svc.Stop()

	go startSystemMetricsUpdater(ctx)
	go startStoreMetricsUpdater(ctx, store)

	handler, err := newHandler(ctx, cfg, svc, loggerInstance)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		loggerInstance.Info(ctx, "Starting run on port "+strconv.Itoa(cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// Wait for shutdown signal or a listener failure
	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("HTTP server failed: %w", err)
		}
	}
	loggerInstance.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		loggerInstance.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	loggerInstance.Info(ctx, "server stopped")
	return nil
}

// newStore opens the store selected by cfg.DBDriver.
func newStore(ctx context.Context, cfg *config.Config) (repository.Store, error) {
	switch cfg.DBDriver {
	case config.DriverSQLite:
		return repository.NewSQLiteStore(ctx, repository.SQLiteConfig{
			Path:      cfg.DBPath,
			Bootstrap: cfg.DBBootstrap,
		})
	case config.DriverPostgres:
		return repository.NewPostgresStore(ctx, repository.PostgresConfig{
			Host:     cfg.DBHost,
			Port:     cfg.DBPort,
			User:     cfg.DBUser,
			Password: cfg.DBPassword,
			Database: cfg.DBName,
			MaxConns: cfg.DBMaxConns,
		})
	default:
		return nil, fmt.Errorf("%w: unknown db_driver %q", config.ErrInvalidConfig, cfg.DBDriver)
	}
}

// newHandler builds the mux with the pokemon routes and /api-docs, wrapped
// in the middleware chain.
func newHandler(ctx context.Context, cfg *config.Config, svc *service.Service, l logger.Logger) (http.Handler, error) {
	mux := http.NewServeMux()

	apiServer := api.NewServer(svc, api.WithLogger(l))
	apiServer.Register(ctx, mux)

	var servers []openapi.Server
	if cfg.ServerURL != "" {
		servers = []openapi.Server{{URL: cfg.ServerURL, Description: "Local server"}}
	}
	doc := openapi.Build(docInfo, servers, api.Routes(), svc.Columns().Names())
	if err := swagger.Register(ctx, mux, doc); err != nil {
		return nil, fmt.Errorf("registering docs: %w", err)
	}

	return apiServer.Handler(mux), nil
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// startStoreMetricsUpdater refreshes the connection pool gauges.
func startStoreMetricsUpdater(ctx context.Context, store repository.Store) {
	ticker := time.NewTicker(storeMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateStoreMetrics(store)
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)

	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		// Calculate average GC pause time
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}

func updateStoreMetrics(store repository.Store) {
	st := store.Stats()
	metrics.UpdateStoreConnections(store.Driver(), st.Total, st.Idle, st.InUse)
}
