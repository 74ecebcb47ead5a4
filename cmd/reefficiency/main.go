package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"reefficiency/internal/amqp"
	"reefficiency/internal/auth"
	"reefficiency/internal/backend"
	"reefficiency/internal/cache"
	"reefficiency/internal/chat"
	"reefficiency/internal/cli"
	apphttp "reefficiency/internal/http"
	"reefficiency/internal/locale"
	"reefficiency/internal/report"
	"reefficiency/internal/services"
)

const reportCacheSize = 100

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	// Choose the spreadsheet backend (default: memory).
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

	// SQLite ledger: the write path journals here before any append.
	ledger := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer ledger.Close()

	// Optional AMQP publisher; without it appends run inline.
	var publisher services.SyncPublisher
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, appends run inline", "error", err)
		} else {
			defer amqpClient.Close()
			publisher = amqpClient
			logger.Info("AMQP publisher initialized", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	} else {
		logger.Info("AMQP disabled, appends run inline")
	}

	// Report pipeline with cache.
	schema := report.HeaderSchema{
		Category:    cfg.HeaderCategory,
		Income:      cfg.HeaderIncome,
		Expenditure: cfg.HeaderExpenditure,
	}
	assembler := report.NewAssembler(result.Backend, schema, cfg.ReportTopN)
	reportService := services.NewReportService(assembler, reportCacheSize, cfg.ReportCacheTTL)

	cacheManager := cache.NewManager()
	cacheManager.Register(reportService.Cleaner())
	cacheManager.StartCleanup(10 * time.Minute)

	// Record pipeline: ledger first, then publish or inline append.
	recordService := services.NewRecordService(ledger, publisher, result.Backend, reportService)

	// Chat command surface.
	lang, _ := locale.Normalize(cfg.DefaultLanguage)
	allow := auth.NewAllowList(cfg.AllowedUserIDs)
	if allow.Size() == 0 {
		logger.Warn("ALLOWED_USER_IDS is empty, every chat user will be rejected")
	}
	chatHandler := chat.NewHandler(allow, recordService, reportService, lang)

	srv := apphttp.NewServer(":"+cfg.Port, chatHandler, reportService, ledger, lang)

	// Configure server timeouts and limits
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	// Graceful shutdown handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		cacheManager.Stop()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting reefficiency server",
		"port", cfg.Port,
		"backend", cfg.DataBackend,
		"allowed_users", allow.Size(),
		"language", string(lang))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
