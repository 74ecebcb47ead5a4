package memory

import (
	"context"
	"testing"
	"time"

	"reefficiency/internal/core"
	"reefficiency/internal/sheets"
)

func testTx(kind core.TransactionKind, category string, amount int64) core.Transaction {
	return core.Transaction{
		Date:        time.Date(2025, time.March, 10, 14, 30, 0, 0, time.UTC),
		Kind:        kind,
		Category:    category,
		Description: "test",
		Amount:      core.Money{Rupiah: amount},
	}
}

func TestAppendCreatesTableWithHeader(t *testing.T) {
	s := New(sheets.DefaultColumns())

	ref, err := s.Append(context.Background(), testTx(core.Expenditure, "makanan", 25000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref != "mem:3/25:2" {
		t.Fatalf("unexpected row ref %q", ref)
	}

	names, err := s.TableNames(context.Background())
	if err != nil || len(names) != 1 || names[0] != "3/25" {
		t.Fatalf("unexpected names %v (err=%v)", names, err)
	}

	grid, err := s.ReadTable(context.Background(), "3/25")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(grid) != 2 {
		t.Fatalf("expected header + 1 row, got %d rows", len(grid))
	}
	wantHeader := []string{"Tanggal", "Kategori", "Deskripsi", "Pemasukan", "Pengeluaran"}
	for i, h := range wantHeader {
		if grid[0][i] != h {
			t.Fatalf("header %d expected %q, got %q", i, h, grid[0][i])
		}
	}
	row := grid[1]
	if row[0] != "2025-03-10" || row[1] != "makanan" || row[3] != "" || row[4] != "25000" {
		t.Fatalf("unexpected row %v", row)
	}
}

func TestAppendIncomeColumn(t *testing.T) {
	s := New(sheets.DefaultColumns())
	if _, err := s.Append(context.Background(), testTx(core.Income, "gaji", 5000000)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	grid, _ := s.ReadTable(context.Background(), "3/25")
	row := grid[1]
	if row[3] != "5000000" || row[4] != "" {
		t.Fatalf("expected amount in income column, got %v", row)
	}
}

func TestAppendValidates(t *testing.T) {
	s := New(sheets.DefaultColumns())
	bad := testTx(core.Expenditure, "", 1000)
	if _, err := s.Append(context.Background(), bad); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestReadTableUnknown(t *testing.T) {
	s := New(sheets.DefaultColumns())
	if _, err := s.ReadTable(context.Background(), "9/99"); err == nil {
		t.Fatalf("expected error for unknown table")
	}
}

func TestReadTableReturnsCopy(t *testing.T) {
	s := New(sheets.DefaultColumns())
	s.SeedTable("1/25", [][]string{{"Kategori"}, {"makanan"}})

	grid, _ := s.ReadTable(context.Background(), "1/25")
	grid[1][0] = "mutated"

	again, _ := s.ReadTable(context.Background(), "1/25")
	if again[1][0] != "makanan" {
		t.Fatalf("expected snapshot isolation, got %q", again[1][0])
	}
}

func TestWriteDashboard(t *testing.T) {
	s := New(sheets.DefaultColumns())
	if s.Dashboard() != nil {
		t.Fatalf("expected no dashboard before write")
	}
	rep := core.Report{Year: 2025}
	if err := s.WriteDashboard(context.Background(), rep); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := s.Dashboard(); got == nil || got.Year != 2025 {
		t.Fatalf("unexpected dashboard %+v", got)
	}
}
