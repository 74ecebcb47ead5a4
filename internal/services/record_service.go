package services

import (
	"context"
	"fmt"
	"log/slog"

	"reefficiency/internal/core"
	"reefficiency/internal/sheets"
	"reefficiency/internal/storage"
)

// Ledger is the slice of the SQLite repository the record path needs.
type Ledger interface {
	SaveTransaction(ctx context.Context, tx core.Transaction, userID int64) (storage.LedgerTransaction, error)
	MarkSynced(ctx context.Context, id int64, rowRef string) error
	MarkSyncError(ctx context.Context, id int64) error
}

// SyncPublisher queues a ledger row for the sync worker.
type SyncPublisher interface {
	PublishTransactionSync(ctx context.Context, id int64) error
}

// YearInvalidator drops cached reports for a year after it changes.
type YearInvalidator interface {
	InvalidateYear(year int)
}

// RecordReceipt describes where a recorded transaction ended up. Queued
// means the spreadsheet append is still pending in the ledger, RowRef is
// set once the backend row exists.
type RecordReceipt struct {
	LedgerID    int64
	RowRef      string
	Queued      bool
	Transaction core.Transaction
}

// RecordService is the write path: every transaction lands in the ledger
// first, then either a sync message is published for the worker or, when
// no broker is configured, the append runs inline.
type RecordService struct {
	ledger      Ledger
	publisher   SyncPublisher
	appender    sheets.TransactionAppender
	invalidator YearInvalidator
}

func NewRecordService(ledger Ledger, publisher SyncPublisher, appender sheets.TransactionAppender, invalidator YearInvalidator) *RecordService {
	return &RecordService{
		ledger:      ledger,
		publisher:   publisher,
		appender:    appender,
		invalidator: invalidator,
	}
}

// Record saves a transaction and schedules its append to the spreadsheet
// backend. The ledger write is the source of truth: a failed publish or a
// failed inline append never loses the row, it stays pending or errored
// for the sweep to retry.
func (s *RecordService) Record(ctx context.Context, tx core.Transaction, userID int64) (RecordReceipt, error) {
	row, err := s.ledger.SaveTransaction(ctx, tx, userID)
	if err != nil {
		return RecordReceipt{}, fmt.Errorf("save transaction: %w", err)
	}

	stamped, err := row.Transaction()
	if err != nil {
		return RecordReceipt{}, fmt.Errorf("read back transaction %d: %w", row.ID, err)
	}

	receipt := RecordReceipt{
		LedgerID:    row.ID,
		Queued:      true,
		Transaction: stamped,
	}

	switch {
	case s.publisher != nil:
		if err := s.publisher.PublishTransactionSync(ctx, row.ID); err != nil {
			// The row is already pending in the ledger, the periodic
			// sweep will pick it up.
			slog.ErrorContext(ctx, "Failed to publish sync message",
				"id", row.ID,
				"error", err)
		}
	case s.appender != nil:
		ref, err := s.appender.Append(ctx, stamped)
		if err != nil {
			if markErr := s.ledger.MarkSyncError(ctx, row.ID); markErr != nil {
				slog.ErrorContext(ctx, "Failed to mark sync error", "id", row.ID, "error", markErr)
			}
			return receipt, fmt.Errorf("append transaction: %w", err)
		}
		if err := s.ledger.MarkSynced(ctx, row.ID, ref); err != nil {
			slog.ErrorContext(ctx, "Failed to mark as synced", "id", row.ID, "error", err)
		}
		receipt.RowRef = ref
		receipt.Queued = false
	default:
		slog.WarnContext(ctx, "No sync target configured, transaction stays pending", "id", row.ID)
	}

	if s.invalidator != nil {
		s.invalidator.InvalidateYear(stamped.Date.Year())
	}

	slog.InfoContext(ctx, "Transaction recorded",
		"id", row.ID,
		"period", stamped.PeriodName(),
		"queued", receipt.Queued)

	return receipt, nil
}
