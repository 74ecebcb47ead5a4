// Package worker copies ledger rows to the spreadsheet backend. It is
// driven by AMQP sync messages with a periodic sweep as the safety net for
// lost messages and crashed runs.
package worker

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"reefficiency/internal/amqp"
	"reefficiency/internal/core"
	"reefficiency/internal/sheets"
	"reefficiency/internal/storage"
)

// SyncWorkerConfig holds tuning for the sync worker
type SyncWorkerConfig struct {
	// BatchSize is the max number of rows per sweep cycle (default: 10)
	BatchSize int

	// SweepInterval is how often the pending sweep runs (default: 30s)
	SweepInterval time.Duration

	// MaxRetries is the attempt cap before a row is left in error state
	// for operator attention (default: 3)
	MaxRetries int
}

// DefaultSyncWorkerConfig returns sensible defaults
func DefaultSyncWorkerConfig() SyncWorkerConfig {
	return SyncWorkerConfig{
		BatchSize:     10,
		SweepInterval: 30 * time.Second,
		MaxRetries:    3,
	}
}

// Ledger is the slice of the SQLite repository the worker needs.
type Ledger interface {
	GetTransaction(ctx context.Context, id int64) (storage.LedgerTransaction, error)
	GetPendingSync(ctx context.Context, limit int) ([]storage.LedgerTransaction, error)
	MarkSynced(ctx context.Context, id int64, rowRef string) error
	MarkSyncError(ctx context.Context, id int64) error
	RequeueErrors(ctx context.Context, maxAttempts int) (int64, error)
}

// Reporter assembles the annual report the dashboard projection is built
// from.
type Reporter interface {
	Annual(ctx context.Context, year int) (core.Report, error)
}

// SyncWorker appends ledger rows to the period tables and refreshes the
// dashboard worksheet after successful writes.
type SyncWorker struct {
	ledger     Ledger
	appender   sheets.TransactionAppender
	dashboards sheets.DashboardWriter
	reports    Reporter
	config     SyncWorkerConfig
}

func NewSyncWorker(ledger Ledger, appender sheets.TransactionAppender, dashboards sheets.DashboardWriter, reports Reporter, config SyncWorkerConfig) *SyncWorker {
	if config.BatchSize <= 0 {
		config.BatchSize = DefaultSyncWorkerConfig().BatchSize
	}
	if config.MaxRetries <= 0 {
		config.MaxRetries = DefaultSyncWorkerConfig().MaxRetries
	}
	return &SyncWorker{
		ledger:     ledger,
		appender:   appender,
		dashboards: dashboards,
		reports:    reports,
		config:     config,
	}
}

// HandleSyncMessage processes one sync message from AMQP. It returns nil
// for permanently unprocessable rows so the delivery is acked instead of
// looping through the queue forever.
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.TransactionSyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message", "id", msg.ID)

	row, err := w.ledger.GetTransaction(ctx, msg.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			slog.WarnContext(ctx, "Sync message for unknown ledger row, dropping", "id", msg.ID)
			return nil
		}
		return fmt.Errorf("get transaction from ledger: %w", err)
	}

	if row.SyncStatus == "synced" {
		slog.DebugContext(ctx, "Row already synced, skipping", "id", row.ID)
		return nil
	}
	if row.SyncAttempts >= int64(w.config.MaxRetries) {
		slog.ErrorContext(ctx, "Giving up on row after max attempts",
			"id", row.ID,
			"attempts", row.SyncAttempts)
		return nil
	}

	tx, err := row.Transaction()
	if err != nil {
		// Malformed rows will not fix themselves on redelivery.
		slog.ErrorContext(ctx, "Ledger row does not convert, marking error",
			"id", row.ID,
			"error", err)
		if markErr := w.ledger.MarkSyncError(ctx, row.ID); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error", "id", row.ID, "error", markErr)
		}
		return nil
	}

	if err := w.syncToBackend(ctx, row.ID, tx); err != nil {
		return fmt.Errorf("sync transaction %d: %w", row.ID, err)
	}

	w.RefreshDashboard(ctx)
	return nil
}

// ProcessPending sweeps the ledger for rows that never made it to the
// backend, either because a publish was lost or a previous append failed.
func (w *SyncWorker) ProcessPending(ctx context.Context) error {
	if _, err := w.ledger.RequeueErrors(ctx, w.config.MaxRetries); err != nil {
		slog.ErrorContext(ctx, "Failed to requeue errored rows", "error", err)
	}

	pending, err := w.ledger.GetPendingSync(ctx, w.config.BatchSize)
	if err != nil {
		return fmt.Errorf("get pending transactions: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending transactions", "count", len(pending))

	synced := 0
	for _, row := range pending {
		if ctx.Err() != nil {
			break
		}
		tx, err := row.Transaction()
		if err != nil {
			slog.ErrorContext(ctx, "Skipping malformed ledger row", "id", row.ID, "error", err)
			if markErr := w.ledger.MarkSyncError(ctx, row.ID); markErr != nil {
				slog.ErrorContext(ctx, "Failed to mark sync error", "id", row.ID, "error", markErr)
			}
			continue
		}
		if err := w.syncToBackend(ctx, row.ID, tx); err != nil {
			slog.ErrorContext(ctx, "Failed to sync pending row", "id", row.ID, "error", err)
			continue
		}
		synced++
	}

	if synced > 0 {
		w.RefreshDashboard(ctx)
	}
	return nil
}

// StartupSyncCheck drains a larger pending backlog once at worker startup,
// recovering from downtime and missed messages.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	pending, err := w.ledger.GetPendingSync(ctx, w.config.BatchSize*5)
	if err != nil {
		return fmt.Errorf("get pending transactions for startup check: %w", err)
	}

	if len(pending) == 0 {
		slog.InfoContext(ctx, "No pending transactions found on startup")
		return nil
	}

	slog.InfoContext(ctx, "Found pending transactions on startup, processing...",
		"count", len(pending))

	successCount := 0
	errorCount := 0
	for _, row := range pending {
		tx, err := row.Transaction()
		if err != nil {
			slog.ErrorContext(ctx, "Skipping malformed ledger row", "id", row.ID, "error", err)
			if markErr := w.ledger.MarkSyncError(ctx, row.ID); markErr != nil {
				slog.ErrorContext(ctx, "Failed to mark sync error", "id", row.ID, "error", markErr)
			}
			errorCount++
			continue
		}
		if err := w.syncToBackend(ctx, row.ID, tx); err != nil {
			slog.ErrorContext(ctx, "Failed to sync during startup", "id", row.ID, "error", err)
			errorCount++
			continue
		}
		successCount++
	}

	slog.InfoContext(ctx, "Startup sync completed",
		"total", len(pending),
		"synced", successCount,
		"errors", errorCount)

	if successCount > 0 {
		w.RefreshDashboard(ctx)
	}
	return nil
}

func (w *SyncWorker) syncToBackend(ctx context.Context, id int64, tx core.Transaction) error {
	ref, err := w.appender.Append(ctx, tx)
	if err != nil {
		if markErr := w.ledger.MarkSyncError(ctx, id); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error", "id", id, "error", markErr)
		}
		return fmt.Errorf("append to backend: %w", err)
	}

	if err := w.ledger.MarkSynced(ctx, id, ref); err != nil {
		slog.ErrorContext(ctx, "Failed to mark as synced", "id", id, "error", err)
		// Don't return error here - the append actually worked
	}

	slog.InfoContext(ctx, "Successfully synced transaction",
		"id", id,
		"row_ref", ref,
		"period", tx.PeriodName())

	return nil
}

// RefreshDashboard rewrites the dashboard worksheet with the current
// year's report. Failures are logged, the synced rows are already safe.
func (w *SyncWorker) RefreshDashboard(ctx context.Context) {
	if w.dashboards == nil || w.reports == nil {
		return
	}

	year := time.Now().Year()
	rep, err := w.reports.Annual(ctx, year)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to assemble dashboard report", "year", year, "error", err)
		return
	}

	if err := w.dashboards.WriteDashboard(ctx, rep); err != nil {
		slog.ErrorContext(ctx, "Failed to write dashboard", "year", year, "error", err)
		return
	}

	slog.InfoContext(ctx, "Dashboard refreshed", "year", year)
}
