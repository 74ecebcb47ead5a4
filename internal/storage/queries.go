package storage

// Hand-maintained data access layer for the ledger. Every statement here
// must stay in step with the schema under migrations/.

import (
	"context"
	"database/sql"
	"time"
)

type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

// LedgerTransaction is a row of the transactions table. OccurredOn is the
// date-only day the transaction belongs to, in 2006-01-02 form.
type LedgerTransaction struct {
	ID           int64
	RecordedAt   time.Time
	OccurredOn   string
	Kind         string
	Category     string
	Description  string
	Amount       int64
	UserID       int64
	SyncStatus   string
	SyncAttempts int64
	SyncedAt     sql.NullTime
	RowRef       string
}

const transactionColumns = `id, recorded_at, occurred_on, kind, category, description, amount, user_id, sync_status, sync_attempts, synced_at, row_ref`

func scanTransaction(row interface{ Scan(dest ...any) error }) (LedgerTransaction, error) {
	var t LedgerTransaction
	err := row.Scan(
		&t.ID,
		&t.RecordedAt,
		&t.OccurredOn,
		&t.Kind,
		&t.Category,
		&t.Description,
		&t.Amount,
		&t.UserID,
		&t.SyncStatus,
		&t.SyncAttempts,
		&t.SyncedAt,
		&t.RowRef,
	)
	return t, err
}

const createTransaction = `INSERT INTO transactions (occurred_on, kind, category, description, amount, user_id)
VALUES (?, ?, ?, ?, ?, ?)
RETURNING ` + transactionColumns

type CreateTransactionParams struct {
	OccurredOn  string
	Kind        string
	Category    string
	Description string
	Amount      int64
	UserID      int64
}

func (q *Queries) CreateTransaction(ctx context.Context, arg CreateTransactionParams) (LedgerTransaction, error) {
	row := q.db.QueryRowContext(ctx, createTransaction,
		arg.OccurredOn,
		arg.Kind,
		arg.Category,
		arg.Description,
		arg.Amount,
		arg.UserID,
	)
	return scanTransaction(row)
}

const getTransaction = `SELECT ` + transactionColumns + `
FROM transactions
WHERE id = ?`

func (q *Queries) GetTransaction(ctx context.Context, id int64) (LedgerTransaction, error) {
	row := q.db.QueryRowContext(ctx, getTransaction, id)
	return scanTransaction(row)
}

const getPendingTransactions = `SELECT ` + transactionColumns + `
FROM transactions
WHERE sync_status = 'pending'
ORDER BY id
LIMIT ?`

func (q *Queries) GetPendingTransactions(ctx context.Context, limit int64) ([]LedgerTransaction, error) {
	rows, err := q.db.QueryContext(ctx, getPendingTransactions, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []LedgerTransaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, t)
	}
	return items, rows.Err()
}

const markTransactionSynced = `UPDATE transactions
SET sync_status = 'synced', synced_at = CURRENT_TIMESTAMP, row_ref = ?
WHERE id = ?`

type MarkTransactionSyncedParams struct {
	RowRef string
	ID     int64
}

func (q *Queries) MarkTransactionSynced(ctx context.Context, arg MarkTransactionSyncedParams) error {
	_, err := q.db.ExecContext(ctx, markTransactionSynced, arg.RowRef, arg.ID)
	return err
}

const markTransactionSyncError = `UPDATE transactions
SET sync_status = 'error', sync_attempts = sync_attempts + 1
WHERE id = ?`

func (q *Queries) MarkTransactionSyncError(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, markTransactionSyncError, id)
	return err
}

const requeueErroredTransactions = `UPDATE transactions
SET sync_status = 'pending'
WHERE sync_status = 'error' AND sync_attempts < ?`

func (q *Queries) RequeueErroredTransactions(ctx context.Context, maxAttempts int64) (int64, error) {
	res, err := q.db.ExecContext(ctx, requeueErroredTransactions, maxAttempts)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const countTransactionsByStatus = `SELECT sync_status, COUNT(*)
FROM transactions
GROUP BY sync_status`

type StatusCount struct {
	SyncStatus string
	Count      int64
}

func (q *Queries) CountTransactionsByStatus(ctx context.Context) ([]StatusCount, error) {
	rows, err := q.db.QueryContext(ctx, countTransactionsByStatus)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []StatusCount
	for rows.Next() {
		var sc StatusCount
		if err := rows.Scan(&sc.SyncStatus, &sc.Count); err != nil {
			return nil, err
		}
		items = append(items, sc)
	}
	return items, rows.Err()
}
