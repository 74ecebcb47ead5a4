package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income      TransactionKind = "income"
	Expenditure TransactionKind = "expenditure"
)

type (
	TransactionKind string

	Money struct {
		Rupiah int64
	}

	Transaction struct {
		Date        time.Time // zero means "stamp at append time"
		Kind        TransactionKind
		Category    string
		Description string
		Amount      Money
	}
)

var (
	ErrInvalidKind   = errors.New("invalid transaction kind")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrEmptyCategory = errors.New("empty category")
)

func (k TransactionKind) Validate() error {
	switch k {
	case Income, Expenditure:
		return nil
	default:
		return ErrInvalidKind
	}
}

func (m Money) Validate() error {
	if m.Rupiah <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (t Transaction) Validate() error {
	if err := t.Kind.Validate(); err != nil {
		return err
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if len(t.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	return nil
}

// PeriodName returns the worksheet name for the transaction's month, in the
// M/YY form used by the backing spreadsheet (e.g. "3/25" for March 2025).
func (t Transaction) PeriodName() string {
	d := t.Date
	if d.IsZero() {
		d = time.Now()
	}
	return PeriodNameFor(d.Year(), int(d.Month()))
}
