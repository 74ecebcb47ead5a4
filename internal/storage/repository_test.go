package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"reefficiency/internal/core"
)

func newTestRepository(t *testing.T) *SQLiteRepository {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "ledger.db")
	repo, err := NewSQLiteRepository(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestSaveTransaction(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	tx := core.Transaction{
		Date:        time.Date(2025, 8, 14, 15, 30, 0, 0, time.UTC),
		Kind:        core.Expenditure,
		Category:    "makanan",
		Description: "nasi goreng",
		Amount:      core.Money{Rupiah: 25000},
	}

	row, err := repo.SaveTransaction(ctx, tx, 12345)
	if err != nil {
		t.Fatalf("SaveTransaction: %v", err)
	}

	if row.ID == 0 {
		t.Error("expected non-zero id")
	}
	if row.OccurredOn != "2025-08-14" {
		t.Errorf("expected date-only 2025-08-14, got %q", row.OccurredOn)
	}
	if row.Kind != "expenditure" {
		t.Errorf("expected kind expenditure, got %q", row.Kind)
	}
	if row.Amount != 25000 {
		t.Errorf("expected amount 25000, got %d", row.Amount)
	}
	if row.SyncStatus != "pending" {
		t.Errorf("expected pending sync status, got %q", row.SyncStatus)
	}
	if row.UserID != 12345 {
		t.Errorf("expected user id 12345, got %d", row.UserID)
	}
}

func TestSaveTransactionStampsZeroDate(t *testing.T) {
	repo := newTestRepository(t)

	tx := core.Transaction{
		Kind:     core.Income,
		Category: "gaji",
		Amount:   core.Money{Rupiah: 5000000},
	}

	row, err := repo.SaveTransaction(context.Background(), tx, 1)
	if err != nil {
		t.Fatalf("SaveTransaction: %v", err)
	}
	if row.OccurredOn != time.Now().Format("2006-01-02") {
		t.Errorf("expected today's date, got %q", row.OccurredOn)
	}
}

func TestSaveTransactionRejectsInvalid(t *testing.T) {
	repo := newTestRepository(t)

	tx := core.Transaction{
		Kind:     core.Expenditure,
		Category: "",
		Amount:   core.Money{Rupiah: 1000},
	}

	if _, err := repo.SaveTransaction(context.Background(), tx, 1); err == nil {
		t.Fatal("expected validation error for empty category")
	}
}

func TestSyncLifecycle(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	save := func(category string) LedgerTransaction {
		t.Helper()
		row, err := repo.SaveTransaction(ctx, core.Transaction{
			Kind:     core.Expenditure,
			Category: category,
			Amount:   core.Money{Rupiah: 1000},
		}, 1)
		if err != nil {
			t.Fatalf("SaveTransaction: %v", err)
		}
		return row
	}

	first := save("a")
	second := save("b")
	save("c")

	pending, err := repo.GetPendingSync(ctx, 2)
	if err != nil {
		t.Fatalf("GetPendingSync: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("expected 2 pending rows with limit 2, got %d", len(pending))
	}
	if pending[0].ID != first.ID || pending[1].ID != second.ID {
		t.Errorf("expected oldest-first order, got ids %d, %d", pending[0].ID, pending[1].ID)
	}

	if err := repo.MarkSynced(ctx, first.ID, "mem:8/25:2"); err != nil {
		t.Fatalf("MarkSynced: %v", err)
	}
	if err := repo.MarkSyncError(ctx, second.ID); err != nil {
		t.Fatalf("MarkSyncError: %v", err)
	}

	synced, err := repo.GetTransaction(ctx, first.ID)
	if err != nil {
		t.Fatalf("GetTransaction: %v", err)
	}
	if synced.SyncStatus != "synced" {
		t.Errorf("expected synced status, got %q", synced.SyncStatus)
	}
	if synced.RowRef != "mem:8/25:2" {
		t.Errorf("expected row ref to be stored, got %q", synced.RowRef)
	}
	if !synced.SyncedAt.Valid {
		t.Error("expected synced_at to be set")
	}

	errored, err := repo.GetTransaction(ctx, second.ID)
	if err != nil {
		t.Fatalf("GetTransaction: %v", err)
	}
	if errored.SyncStatus != "error" {
		t.Errorf("expected error status, got %q", errored.SyncStatus)
	}
	if errored.SyncAttempts != 1 {
		t.Errorf("expected 1 sync attempt, got %d", errored.SyncAttempts)
	}

	counts, err := repo.SyncStatusCounts(ctx)
	if err != nil {
		t.Fatalf("SyncStatusCounts: %v", err)
	}
	if counts["pending"] != 1 || counts["synced"] != 1 || counts["error"] != 1 {
		t.Errorf("unexpected status counts: %v", counts)
	}

	requeued, err := repo.RequeueErrors(ctx, 5)
	if err != nil {
		t.Fatalf("RequeueErrors: %v", err)
	}
	if requeued != 1 {
		t.Errorf("expected 1 requeued row, got %d", requeued)
	}

	pending, err = repo.GetPendingSync(ctx, 10)
	if err != nil {
		t.Fatalf("GetPendingSync: %v", err)
	}
	if len(pending) != 2 {
		t.Errorf("expected 2 pending rows after requeue, got %d", len(pending))
	}
}

func TestRequeueRespectsAttemptCap(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	row, err := repo.SaveTransaction(ctx, core.Transaction{
		Kind:     core.Expenditure,
		Category: "a",
		Amount:   core.Money{Rupiah: 1000},
	}, 1)
	if err != nil {
		t.Fatalf("SaveTransaction: %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := repo.MarkSyncError(ctx, row.ID); err != nil {
			t.Fatalf("MarkSyncError: %v", err)
		}
	}

	requeued, err := repo.RequeueErrors(ctx, 3)
	if err != nil {
		t.Fatalf("RequeueErrors: %v", err)
	}
	if requeued != 0 {
		t.Errorf("expected no requeue at attempt cap, got %d", requeued)
	}
}

func TestLedgerTransactionRoundTrip(t *testing.T) {
	row := LedgerTransaction{
		OccurredOn:  "2025-03-09",
		Kind:        "income",
		Category:    "gaji",
		Description: "bonus",
		Amount:      750000,
	}

	tx, err := row.Transaction()
	if err != nil {
		t.Fatalf("Transaction: %v", err)
	}
	if tx.Kind != core.Income {
		t.Errorf("expected income kind, got %q", tx.Kind)
	}
	if tx.Date.Year() != 2025 || tx.Date.Month() != time.March || tx.Date.Day() != 9 {
		t.Errorf("unexpected date %v", tx.Date)
	}
	if tx.PeriodName() != "3/25" {
		t.Errorf("expected period 3/25, got %q", tx.PeriodName())
	}

	bad := LedgerTransaction{OccurredOn: "not-a-date"}
	if _, err := bad.Transaction(); err == nil {
		t.Fatal("expected error for malformed date")
	}
}
