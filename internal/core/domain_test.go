package core

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestTransactionKindValidate(t *testing.T) {
	if err := Income.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := Expenditure.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := TransactionKind("transfer").Validate(); !errors.Is(err, ErrInvalidKind) {
		t.Fatalf("expected ErrInvalidKind, got %v", err)
	}
}

func TestMoneyValidate(t *testing.T) {
	if err := (Money{Rupiah: 1}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Money{Rupiah: 0}).Validate(); err == nil {
		t.Fatalf("expected error for zero")
	}
	if err := (Money{Rupiah: -100}).Validate(); err == nil {
		t.Fatalf("expected error for negative")
	}
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		Kind:        Expenditure,
		Category:    "makanan",
		Description: "nasi goreng",
		Amount:      Money{Rupiah: 25000},
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		mutate func(*Transaction)
		want   error
	}{
		{func(tx *Transaction) { tx.Kind = "other" }, ErrInvalidKind},
		{func(tx *Transaction) { tx.Amount.Rupiah = 0 }, ErrInvalidAmount},
		{func(tx *Transaction) { tx.Amount.Rupiah = -1 }, ErrInvalidAmount},
		{func(tx *Transaction) { tx.Category = "  " }, ErrEmptyCategory},
	}
	for i, tc := range cases {
		tx := good
		tc.mutate(&tx)
		if err := tx.Validate(); !errors.Is(err, tc.want) {
			t.Fatalf("case %d expected %v, got %v", i, tc.want, err)
		}
	}

	long := good
	long.Description = strings.Repeat("x", 201)
	if err := long.Validate(); err == nil {
		t.Fatalf("expected error for long description")
	}
}

func TestTransactionPeriodName(t *testing.T) {
	tx := Transaction{Date: time.Date(2025, time.March, 14, 0, 0, 0, 0, time.UTC)}
	if got := tx.PeriodName(); got != "3/25" {
		t.Fatalf("expected %q, got %q", "3/25", got)
	}
	tx.Date = time.Date(2008, time.December, 1, 0, 0, 0, 0, time.UTC)
	if got := tx.PeriodName(); got != "12/08" {
		t.Fatalf("expected %q, got %q", "12/08", got)
	}
}
