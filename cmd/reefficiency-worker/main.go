package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"reefficiency/internal/amqp"
	"reefficiency/internal/backend"
	"reefficiency/internal/cli"
	"reefficiency/internal/report"
	"reefficiency/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	logger.Info("Starting reefficiency-worker")

	cfg := cli.LoadAndValidateConfig(logger)
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the sync worker")
		os.Exit(1)
	}

	// SQLite ledger holds the rows to sync.
	ledger := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer ledger.Close()

	// Spreadsheet backend the rows are appended to.
	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}
	result, err := backend.NewFactory(logger).CreateBackend(context.Background(), backendCfg)
	if err != nil {
		logger.Error("Failed to initialize backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	if backendCfg.Type == backend.MemoryBackend {
		logger.Warn("Memory backend is process-local, synced rows live only inside this worker")
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	// Dashboard refreshes read the backend directly so they never trail a
	// row this worker just appended.
	schema := report.HeaderSchema{
		Category:    cfg.HeaderCategory,
		Income:      cfg.HeaderIncome,
		Expenditure: cfg.HeaderExpenditure,
	}
	assembler := report.NewAssembler(result.Backend, schema, cfg.ReportTopN)

	syncWorker := worker.NewSyncWorker(ledger, result.Backend, result.Backend, assembler, worker.SyncWorkerConfig{
		BatchSize:     cfg.SyncBatchSize,
		SweepInterval: cfg.SyncInterval,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// On startup, drain any backlog that accumulated while the worker was
	// down.
	logger.Info("Performing startup sync check...")
	if err := syncWorker.StartupSyncCheck(ctx); err != nil {
		logger.Error("Failed startup sync check", "error", err)
		// Don't exit - continue with normal operation
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return amqpClient.ConsumeTransactionSync(gctx, func(msg *amqp.TransactionSyncMessage) error {
			return syncWorker.HandleSyncMessage(gctx, msg)
		})
	})

	g.Go(func() error {
		ticker := time.NewTicker(cfg.SyncInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return gctx.Err()
			case <-ticker.C:
				if err := syncWorker.ProcessPending(gctx); err != nil {
					logger.Error("Periodic sync failed", "error", err)
				}
			}
		}
	})

	g.Go(func() error {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return gctx.Err()
			case <-ticker.C:
				syncWorker.RefreshDashboard(gctx)
			}
		}
	})

	logger.Info("Worker started",
		"backend", cfg.DataBackend,
		"batch_size", cfg.SyncBatchSize,
		"sweep_interval", cfg.SyncInterval.String())

	// Handle shutdown signals
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		select {
		case sig := <-sigChan:
			logger.Info("Shutdown signal received", "signal", sig.String())
			cancel()
		case <-gctx.Done():
		}
	}()

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker shutdown complete")
}
