// Package cli holds the start-up steps shared by the finorbit commands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"finorbit/internal/config"
	"finorbit/internal/format"
	apphttp "finorbit/internal/http"
	"finorbit/internal/log"
	"finorbit/internal/middleware/ratelimit"
	"finorbit/internal/payload"
)

// CacheSweepInterval is how often expired table sessions and idle rate
// limit buckets are dropped.
const CacheSweepInterval = 5 * time.Minute

// SetupLogger builds the application logger from cfg and makes it the
// slog default.
func SetupLogger(cfg *config.Config) *log.Logger {
	logger := log.New(log.Config{
		Level:     log.ParseLevel(cfg.LogLevel),
		Format:    cfg.LogFormat,
		Component: log.ComponentApp,
		Output:    os.Stdout,
	})
	log.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
func LoadAndValidateConfig() (*config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadPayloads reads every page document of cfg.PayloadDir.
func LoadPayloads(ctx context.Context, cfg *config.Config, logger *log.Logger) (*payload.Store, error) {
	bundles, err := payload.LoadDir(ctx, cfg.PayloadDir, logger)
	if err != nil {
		return nil, err
	}
	store := payload.NewStore(bundles)
	logger.Info("Page documents loaded",
		log.FieldOperation, log.OpLoad,
		"pages", store.Pages(),
		"dir", cfg.PayloadDir)
	return store, nil
}

// NewServer assembles the HTTP server from configuration.
func NewServer(cfg *config.Config, store *payload.Store, logger *log.Logger) (*apphttp.Server, error) {
	f, err := format.New(cfg.Locale, cfg.Currency)
	if err != nil {
		return nil, fmt.Errorf("formatter: %w", err)
	}
	return apphttp.NewServer(cfg.Addr(), apphttp.Dependencies{
		Store:      store,
		Formatter:  f,
		Logger:     logger,
		SessionTTL: cfg.TableSessionTTL,
		SessionMax: cfg.TableSessionMax,
		RateLimit: ratelimit.Config{
			RequestsPerMinute: cfg.RateLimitPerMinute,
		},
	})
}

// SignalContext is cancelled on SIGINT or SIGTERM.
func SignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}

// Serve runs srv and its cache sweeper until ctx is cancelled, then shuts
// the server down within timeout.
func Serve(ctx context.Context, srv *apphttp.Server, timeout time.Duration, logger *log.Logger) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting finorbit server", log.FieldOperation, log.OpStartup, "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return srv.Caches().Run(gctx, CacheSweepInterval)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutdown signal received", log.FieldOperation, log.OpShutdown)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("Server stopped gracefully")
	return nil
}
