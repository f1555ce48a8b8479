package main

import (
	"os"
	"time"

	"github.com/vamshib4u/persis-indian-grill-expenses/internal/cli"
	"github.com/vamshib4u/persis-indian-grill-expenses/internal/config"
	"github.com/vamshib4u/persis-indian-grill-expenses/internal/services"
	"github.com/vamshib4u/persis-indian-grill-expenses/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	logger.Info("Starting persis-worker")

	cfg := cli.LoadAndValidateConfig(logger)
	if cfg.DataBackend == config.BackendMemory {
		logger.Warn("Worker is using the memory backend; it will not see records written by the server")
	}

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, nil)

	be := cli.InitBackend(ctx, logger, cfg)
	defer be.Close()

	sheetsClient := cli.InitSheets(ctx, logger, cfg)
	if sheetsClient == nil {
		logger.Error("Google Sheets must be configured for the worker")
		os.Exit(1)
	}

	reports := services.NewReportService(be.Store, cli.NewEngine(cfg), cfg.ReportCacheSize, cfg.ReportCacheTTL)
	syncer := services.NewMonthSyncer(reports, sheetsClient, be.Tracker)

	var consumer worker.Consumer
	if amqpClient := cli.InitAMQP(logger, cfg); amqpClient != nil {
		defer amqpClient.Close()
		consumer = amqpClient
	}

	w := worker.NewSyncWorker(consumer, syncer, cfg.SyncInterval)
	logger.Info("Worker running",
		"sync_interval", cfg.SyncInterval,
		"consumer", consumer != nil)

	if err := w.Run(ctx); err != nil {
		logger.Error("Worker stopped with error", "error", err)
		be.Close()
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Worker stopped")
}
