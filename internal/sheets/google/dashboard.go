package google

import (
	"context"
	"errors"
	"fmt"

	"reefficiency/internal/core"
	"reefficiency/internal/locale"

	gsheet "google.golang.org/api/sheets/v4"
)

// WriteDashboard clears the dashboard worksheet and writes the report as
// one value block starting at A1. The worksheet is created when missing.
// These cells exist purely for people who open the spreadsheet; nothing
// reads them back.
func (c *Client) WriteDashboard(ctx context.Context, rep core.Report) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}
	if _, err := c.EnsureTable(ctx, c.dashboardSheet, false); err != nil {
		return err
	}

	rng := quoteSheet(c.dashboardSheet)
	if _, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, rng, &gsheet.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear dashboard: %w", err)
	}

	vr := &gsheet.ValueRange{Values: dashboardGrid(rep)}
	if _, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng+"!A1", vr).
		ValueInputOption("USER_ENTERED").
		Context(ctx).Do(); err != nil {
		return fmt.Errorf("update dashboard: %w", err)
	}
	return nil
}

// dashboardGrid lays the report out as rows of cells: the annual summary,
// the twelve-month breakdown and the top expenditure categories.
func dashboardGrid(rep core.Report) [][]any {
	grid := [][]any{
		{"Laporan Tahunan", rep.Year},
		{},
		{"Total Pemasukan", rep.Annual.TotalIncome.Rupiah},
		{"Total Pengeluaran", rep.Annual.TotalExpenditure.Rupiah},
		{"Selisih Bersih", rep.Annual.Net().Rupiah},
	}
	if rate, ok := rep.Annual.SavingsRate(); ok {
		grid = append(grid, []any{"Tingkat Tabungan", fmt.Sprintf("%.1f%%", rate)})
	}

	grid = append(grid, []any{}, []any{"Bulan", "Pemasukan", "Pengeluaran", "Selisih"})
	for _, s := range rep.Months {
		grid = append(grid, []any{
			locale.MonthName(locale.Indonesian, s.Month),
			s.Income.Rupiah,
			s.Expenditure.Rupiah,
			s.Net().Rupiah,
		})
	}

	if len(rep.TopAnnual) > 0 {
		grid = append(grid, []any{}, []any{"Top Kategori", "Jumlah"})
		for _, ca := range rep.TopAnnual {
			grid = append(grid, []any{ca.Name, ca.Amount.Rupiah})
		}
	}
	return grid
}
