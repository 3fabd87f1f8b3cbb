package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/presion/internal/adapters/http/api"
	"github.com/okian/presion/internal/adapters/http/site"
	"github.com/okian/presion/internal/adapters/http/swagger"
	"github.com/okian/presion/internal/adapters/repository"
	app "github.com/okian/presion/internal/app"
	"github.com/okian/presion/internal/config"
	"github.com/okian/presion/pkg/i18n"
	"github.com/okian/presion/pkg/logger"
	"github.com/okian/presion/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout           = 10 * time.Second
	writeTimeout          = 30 * time.Second // a page waits on one sheet round trip
	idleTimeout           = 60 * time.Second
	readHeaderTimeout     = 5 * time.Second
	shutdownTimeout       = 30 * time.Second
	systemMetricsInterval = 10 * time.Second
)

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		logger.Get().Error(ctx, "presion stopped", logger.Error(err))
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	if err := logger.InitWith(os.Stdout, cfg.LogFormat); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	log := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	handler, err := build(ctx, cfg, log)
	if err != nil {
		return err
	}

	go startSystemMetricsUpdater(ctx)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
	}
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
	return nil
}

// build opens the Row Store and wires both HTTP surfaces around it.
func build(ctx context.Context, cfg *config.Config, log logger.Logger) (http.Handler, error) {
	store, err := openStore(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("time zone: %w", err)
	}
	svc, err := app.New(store,
		app.WithLogger(log.Named("service")),
		app.WithLocation(loc),
		app.WithBackend(cfg.RowStore),
	)
	if err != nil {
		return nil, err
	}

	tag, _ := i18n.Parse(cfg.Locale)

	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	api.NewServer(svc, svc).Register(ctx, mux)
	site.Register(ctx, mux, site.NewHandler(svc,
		site.WithLanguage(tag),
		site.WithLogger(log.Named("site")),
	))

	return api.RequestLogger(mux, log.Named("http")), nil
}

// openStore selects the Row Store backend. Any failure here is fatal.
func openStore(ctx context.Context, cfg *config.Config, log logger.Logger) (repository.Store, error) {
	switch cfg.RowStore {
	case config.RowStoreMemory:
		log.Warn(ctx, "using in-memory row store; records are lost on exit")
		return repository.NewMemoryStore(), nil

	case config.RowStoreSheets:
		key, err := cfg.Credentials()
		if err != nil {
			return nil, err
		}
		credential, email, err := repository.CredentialsOption(ctx, key)
		if err != nil {
			return nil, err
		}
		log.Info(ctx, "using service account", logger.String("email", email))
		return repository.OpenSheets(ctx,
			repository.WithSpreadsheetID(cfg.SpreadsheetID),
			repository.WithSpreadsheetName(cfg.SpreadsheetName),
			repository.WithTimeout(cfg.RowStoreTimeout()),
			repository.WithLogger(log.Named("sheets")),
			repository.WithClientOptions(credential),
		)

	default:
		return nil, fmt.Errorf("%w: unknown row_store %q", config.ErrInvalidConfig, cfg.RowStore)
	}
}

// startSystemMetricsUpdater refreshes the system gauges until ctx ends.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	updateSystemMetrics()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())
}
