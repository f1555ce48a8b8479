package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/vamshib4u/persis-indian-grill-expenses/internal/cache"
	"github.com/vamshib4u/persis-indian-grill-expenses/internal/cli"
	apphttp "github.com/vamshib4u/persis-indian-grill-expenses/internal/http"
	"github.com/vamshib4u/persis-indian-grill-expenses/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	ctx := context.Background()
	be := cli.InitBackend(ctx, logger, cfg)

	// Keep nil clients out of the interfaces so "not configured" checks work.
	var publisher services.MonthPublisher
	amqpClient := cli.InitAMQP(logger, cfg)
	if amqpClient != nil {
		publisher = amqpClient
	}

	reports := services.NewReportService(be.Store, cli.NewEngine(cfg), cfg.ReportCacheSize, cfg.ReportCacheTTL)
	records := services.NewRecordService(be.Store, publisher, reports)

	deps := apphttp.Deps{
		Records:         records,
		Reports:         reports,
		Pinger:          be.Pinger,
		Logger:          logger,
		WritesPerMinute: cfg.RateLimitPerMinute,
	}
	if sheetsClient := cli.InitSheets(ctx, logger, cfg); sheetsClient != nil {
		deps.Syncer = services.NewMonthSyncer(reports, sheetsClient, be.Tracker)
		deps.Loader = sheetsClient
	}

	caches := cache.NewManager()
	for _, c := range reports.Caches() {
		caches.Register(c)
	}
	caches.StartCleanup(ctx, 10*time.Minute)

	srv := apphttp.NewServer(":"+cfg.Port, deps)
	srv.ReadTimeout = 15 * time.Second
	srv.WriteTimeout = 60 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	shutdownCtx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 25*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		caches.Stop()
		if amqpClient != nil {
			if err := amqpClient.Close(); err != nil {
				logger.Warn("Failed to close AMQP client", "error", err)
			}
		}
		if err := be.Close(); err != nil {
			logger.Warn("Failed to close backend", "error", err)
		}
	})

	logger.Info("Starting persis server",
		"port", cfg.Port,
		"backend", cfg.DataBackend,
		"sync_queue", amqpClient != nil,
		"sheets", deps.Syncer != nil)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(shutdownCtx, done)
	logger.Info("Server stopped gracefully")
}
