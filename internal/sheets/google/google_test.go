package google

import (
	"context"
	"errors"
	"os"
	"testing"

	"reefficiency/internal/core"
	"reefficiency/internal/sheets"
)

func clearGoogleEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"GOOGLE_SPREADSHEET_ID",
		"GOOGLE_SERVICE_ACCOUNT_JSON",
		"GOOGLE_SERVICE_ACCOUNT_FILE",
		"GOOGLE_APPLICATION_CREDENTIALS",
		"DASHBOARD_SHEET_NAME",
	} {
		old := os.Getenv(key)
		os.Unsetenv(key)
		t.Cleanup(func() { os.Setenv(key, old) })
	}
}

func TestNewFromEnvMissingSpreadsheetID(t *testing.T) {
	clearGoogleEnv(t)

	_, err := NewFromEnv(context.Background(), sheets.DefaultColumns())
	if err == nil {
		t.Fatal("expected error for missing GOOGLE_SPREADSHEET_ID")
	}
	if err.Error() != "missing GOOGLE_SPREADSHEET_ID" {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestNewFromEnvMissingCredentials(t *testing.T) {
	clearGoogleEnv(t)
	os.Setenv("GOOGLE_SPREADSHEET_ID", "sheet-id")

	_, err := NewFromEnv(context.Background(), sheets.DefaultColumns())
	if err == nil {
		t.Fatal("expected error for missing credentials")
	}
}

func TestQuoteSheet(t *testing.T) {
	cases := []struct {
		in  string
		out string
	}{
		{"3/25", "'3/25'"},
		{"Dashboard", "'Dashboard'"},
		{"it's", "'it''s'"},
	}
	for _, tc := range cases {
		if got := quoteSheet(tc.in); got != tc.out {
			t.Fatalf("%q expected %q, got %q", tc.in, tc.out, got)
		}
	}
}

func TestToStrings(t *testing.T) {
	in := []interface{}{" makanan ", 50000, 2.5, true}
	want := []string{"makanan", "50000", "2.5", "true"}
	got := toStrings(in)
	if len(got) != len(want) {
		t.Fatalf("expected %d values, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("value %d expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestIsMissingSheetErr(t *testing.T) {
	if !isMissingSheetErr(errors.New("googleapi: Error 400: Unable to parse range: '3/25'!1:1, badRequest")) {
		t.Fatal("expected missing-sheet error to be recognized")
	}
	if isMissingSheetErr(errors.New("quota exceeded")) {
		t.Fatal("unrelated error misclassified")
	}
	if isMissingSheetErr(nil) {
		t.Fatal("nil misclassified")
	}
}

func TestDashboardGrid(t *testing.T) {
	rep := core.Report{Year: 2025, Annual: core.NewAnnualAggregate(2025)}
	rep.Annual.TotalIncome = core.Money{Rupiah: 1000}
	rep.Annual.TotalExpenditure = core.Money{Rupiah: 600}
	for m := 1; m <= 12; m++ {
		rep.Months[m-1] = core.EmptyMonthlySummary(m)
	}
	rep.Months[0].Income = core.Money{Rupiah: 1000}
	rep.Months[0].Expenditure = core.Money{Rupiah: 600}
	rep.TopAnnual = []core.CategoryAmount{{Name: "makanan", Amount: core.Money{Rupiah: 600}}}

	grid := dashboardGrid(rep)

	if grid[0][0] != "Laporan Tahunan" || grid[0][1] != 2025 {
		t.Fatalf("unexpected title row: %v", grid[0])
	}
	if grid[2][1] != int64(1000) || grid[3][1] != int64(600) || grid[4][1] != int64(400) {
		t.Fatalf("unexpected summary rows: %v %v %v", grid[2], grid[3], grid[4])
	}
	// Savings rate row present because income is non-zero.
	if grid[5][0] != "Tingkat Tabungan" || grid[5][1] != "40.0%" {
		t.Fatalf("unexpected savings row: %v", grid[5])
	}

	// Month table: header + 12 rows starting after the blank separator.
	if grid[7][0] != "Bulan" {
		t.Fatalf("expected month header at row 7, got %v", grid[7])
	}
	if grid[8][0] != "Januari" || grid[8][1] != int64(1000) {
		t.Fatalf("unexpected january row: %v", grid[8])
	}
	if grid[19][0] != "Desember" {
		t.Fatalf("expected december at row 19, got %v", grid[19])
	}

	if grid[21][0] != "Top Kategori" {
		t.Fatalf("expected top header at row 21, got %v", grid[21])
	}
	if grid[22][0] != "makanan" || grid[22][1] != int64(600) {
		t.Fatalf("unexpected top row: %v", grid[22])
	}
}
