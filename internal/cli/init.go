// Package cli provides common CLI initialization utilities shared by
// cmd/persis and cmd/persis-worker.
package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/vamshib4u/persis-indian-grill-expenses/internal/amqp"
	"github.com/vamshib4u/persis-indian-grill-expenses/internal/backend"
	"github.com/vamshib4u/persis-indian-grill-expenses/internal/config"
	"github.com/vamshib4u/persis-indian-grill-expenses/internal/ledger"
	applog "github.com/vamshib4u/persis-indian-grill-expenses/internal/log"
	gsheet "github.com/vamshib4u/persis-indian-grill-expenses/internal/sheets/google"
)

// SetupLogger installs the process logger. LOG_LEVEL picks the level and
// LOG_FORMAT=json switches to JSON output. Both are read before the config
// is loaded.
func SetupLogger() *slog.Logger {
	logger := applog.New(applog.Config{
		Level: applog.ParseLevel(os.Getenv("LOG_LEVEL")),
		JSON:  strings.EqualFold(os.Getenv("LOG_FORMAT"), "json"),
	})
	applog.SetDefault(logger)
	return logger.Logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *slog.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

// InitBackend opens the configured record backend.
// Returns the backend or exits the process on failure.
func InitBackend(ctx context.Context, logger *slog.Logger, cfg *config.Config) *backend.BackendResult {
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}
	res, err := backend.NewFactory(logger).CreateBackend(ctx, bcfg)
	if err != nil {
		logger.Error("Failed to initialize backend", "error", err, "backend", bcfg.Type)
		os.Exit(1)
	}
	return res
}

// InitAMQP connects to the broker when one is configured. A connection
// failure is logged and yields nil so callers fall back to inline sync.
func InitAMQP(logger *slog.Logger, cfg *config.Config) *amqp.Client {
	if !cfg.AMQPEnabled() {
		logger.Info("AMQP not configured, month sync messages disabled")
		return nil
	}
	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Warn("Failed to initialize AMQP client, continuing without sync queue", "error", err)
		return nil
	}
	logger.Info("Initialized AMQP client",
		"exchange", cfg.AMQPExchange,
		"queue", cfg.AMQPQueue)
	return client
}

// InitSheets creates the Google Sheets client when configured, nil otherwise.
func InitSheets(ctx context.Context, logger *slog.Logger, cfg *config.Config) *gsheet.Client {
	if !cfg.SheetsEnabled() {
		logger.Info("Google Sheets not configured, month export disabled")
		return nil
	}
	client, err := gsheet.NewFromConfig(ctx, cfg.GoogleSpreadsheetID, cfg.GoogleServiceAccountJSON, cfg.GoogleServiceAccountFile)
	if err != nil {
		logger.Warn("Failed to initialize Google Sheets client", "error", err)
		return nil
	}
	return client
}

// NewEngine builds the cash-holding engine for the configured custodians.
func NewEngine(cfg *config.Config) *ledger.Engine {
	return ledger.NewEngine(cfg.CashHolders)
}

// GracefulShutdown sets up signal handling for graceful shutdown.
// Returns a context that will be cancelled on shutdown signals,
// and a channel that signals when shutdown is complete.
func GracefulShutdown(logger *slog.Logger, timeout time.Duration, cleanup func()) (context.Context, <-chan struct{}) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		cancel()

		finished := make(chan struct{})
		go func() {
			if cleanup != nil {
				cleanup()
			}
			close(finished)
		}()

		select {
		case <-finished:
			logger.Info("Shutdown complete")
		case <-time.After(timeout):
			logger.Warn("Shutdown timeout reached")
		}
		close(done)
	}()

	return ctx, done
}

// WaitForShutdown blocks until the context is cancelled.
func WaitForShutdown(ctx context.Context, done <-chan struct{}) {
	<-ctx.Done()
	<-done
}
