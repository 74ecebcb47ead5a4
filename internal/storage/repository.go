package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"reefficiency/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteRepository is the durable ledger every recorded transaction lands
// in before the sync worker copies it to the spreadsheet backend.
type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// SaveTransaction appends a validated transaction to the ledger in pending
// state and returns the stored row. A zero date is stamped with today.
func (r *SQLiteRepository) SaveTransaction(ctx context.Context, tx core.Transaction, userID int64) (LedgerTransaction, error) {
	if err := tx.Validate(); err != nil {
		return LedgerTransaction{}, fmt.Errorf("validate transaction: %w", err)
	}

	date := tx.Date
	if date.IsZero() {
		date = time.Now()
	}

	row, err := r.queries.CreateTransaction(ctx, CreateTransactionParams{
		OccurredOn:  date.Format("2006-01-02"),
		Kind:        string(tx.Kind),
		Category:    tx.Category,
		Description: tx.Description,
		Amount:      tx.Amount.Rupiah,
		UserID:      userID,
	})
	if err != nil {
		return LedgerTransaction{}, fmt.Errorf("create transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved to ledger",
		"id", row.ID,
		"kind", row.Kind,
		"category", row.Category,
		"amount", row.Amount,
		"occurred_on", row.OccurredOn)

	return row, nil
}

// GetTransaction retrieves a single ledger row by id.
func (r *SQLiteRepository) GetTransaction(ctx context.Context, id int64) (LedgerTransaction, error) {
	row, err := r.queries.GetTransaction(ctx, id)
	if err != nil {
		return LedgerTransaction{}, fmt.Errorf("get transaction by id: %w", err)
	}
	return row, nil
}

// GetPendingSync returns ledger rows that still need to be appended to the
// spreadsheet backend, oldest first.
func (r *SQLiteRepository) GetPendingSync(ctx context.Context, limit int) ([]LedgerTransaction, error) {
	rows, err := r.queries.GetPendingTransactions(ctx, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("get pending transactions: %w", err)
	}
	return rows, nil
}

// MarkSynced records a successful append together with the backend row
// reference it produced.
func (r *SQLiteRepository) MarkSynced(ctx context.Context, id int64, rowRef string) error {
	err := r.queries.MarkTransactionSynced(ctx, MarkTransactionSyncedParams{
		RowRef: rowRef,
		ID:     id,
	})
	if err != nil {
		return fmt.Errorf("mark transaction synced: %w", err)
	}

	slog.InfoContext(ctx, "Transaction marked as synced", "id", id, "row_ref", rowRef)
	return nil
}

// MarkSyncError flags a failed append and bumps the attempt counter.
func (r *SQLiteRepository) MarkSyncError(ctx context.Context, id int64) error {
	if err := r.queries.MarkTransactionSyncError(ctx, id); err != nil {
		return fmt.Errorf("mark transaction sync error: %w", err)
	}

	slog.WarnContext(ctx, "Transaction marked with sync error", "id", id)
	return nil
}

// RequeueErrors moves errored rows below the attempt cap back to pending so
// the periodic sweep can retry them.
func (r *SQLiteRepository) RequeueErrors(ctx context.Context, maxAttempts int) (int64, error) {
	n, err := r.queries.RequeueErroredTransactions(ctx, int64(maxAttempts))
	if err != nil {
		return 0, fmt.Errorf("requeue errored transactions: %w", err)
	}
	if n > 0 {
		slog.InfoContext(ctx, "Requeued errored transactions", "count", n)
	}
	return n, nil
}

// SyncStatusCounts reports how many ledger rows sit in each sync state.
func (r *SQLiteRepository) SyncStatusCounts(ctx context.Context) (map[string]int64, error) {
	counts, err := r.queries.CountTransactionsByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("count transactions by status: %w", err)
	}

	result := make(map[string]int64, len(counts))
	for _, sc := range counts {
		result[sc.SyncStatus] = sc.Count
	}
	return result, nil
}

// Transaction converts a ledger row back into the domain type.
func (t LedgerTransaction) Transaction() (core.Transaction, error) {
	date, err := time.Parse("2006-01-02", t.OccurredOn)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parse occurred_on %q: %w", t.OccurredOn, err)
	}

	return core.Transaction{
		Date:        date,
		Kind:        core.TransactionKind(t.Kind),
		Category:    t.Category,
		Description: t.Description,
		Amount:      core.Money{Rupiah: t.Amount},
	}, nil
}
