// Package export renders annual reports as XLSX workbooks for download.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"reefficiency/internal/core"
	"reefficiency/internal/locale"
	"reefficiency/internal/report"
)

// Filename returns the download name for a year's workbook.
func Filename(year int) string {
	return fmt.Sprintf("laporan-%d.xlsx", year)
}

// AnnualXLSX writes the year's report to w as a workbook with three sheets:
// the annual summary, the twelve-month breakdown and the ranked expenditure
// categories. Sheet and column names follow the requested language.
func AnnualXLSX(w io.Writer, rep core.Report, lang locale.Language) error {
	f := excelize.NewFile()
	defer f.Close()

	summary := locale.T(lang, "export_sheet_summary")
	months := locale.T(lang, "export_sheet_months")
	categories := locale.T(lang, "export_sheet_categories")

	if err := f.SetSheetName("Sheet1", summary); err != nil {
		return fmt.Errorf("rename summary sheet: %w", err)
	}
	if _, err := f.NewSheet(months); err != nil {
		return fmt.Errorf("create month sheet: %w", err)
	}
	if _, err := f.NewSheet(categories); err != nil {
		return fmt.Errorf("create category sheet: %w", err)
	}

	writeSummarySheet(f, summary, rep, lang)
	writeMonthSheet(f, months, rep, lang)
	writeCategorySheet(f, categories, rep, lang)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeSummarySheet(f *excelize.File, sheet string, rep core.Report, lang locale.Language) {
	f.SetCellValue(sheet, "A1", fmt.Sprintf(locale.T(lang, "export_title"), rep.Year))

	rows := [][]interface{}{
		{locale.T(lang, "report_income"), rep.Annual.TotalIncome.Rupiah},
		{locale.T(lang, "report_expenditure"), rep.Annual.TotalExpenditure.Rupiah},
		{locale.T(lang, "report_net"), rep.Annual.Net().Rupiah},
	}
	if rate, ok := rep.Annual.SavingsRate(); ok {
		rows = append(rows, []interface{}{locale.T(lang, "report_savings"), fmt.Sprintf("%.1f%%", rate)})
	}
	for rowIdx, row := range rows {
		for colIdx, val := range row {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+3)
			f.SetCellValue(sheet, cell, val)
		}
	}
}

func writeMonthSheet(f *excelize.File, sheet string, rep core.Report, lang locale.Language) {
	headers := []string{
		locale.T(lang, "export_col_month"),
		locale.T(lang, "export_col_income"),
		locale.T(lang, "export_col_expenditure"),
		locale.T(lang, "export_col_net"),
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for m := 1; m <= 12; m++ {
		ms := rep.Months[m-1]
		row := []interface{}{
			locale.MonthName(lang, m),
			ms.Income.Rupiah,
			ms.Expenditure.Rupiah,
			ms.Net().Rupiah,
		}
		for colIdx, val := range row {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, m+1)
			f.SetCellValue(sheet, cell, val)
		}
	}
}

func writeCategorySheet(f *excelize.File, sheet string, rep core.Report, lang locale.Language) {
	headers := []string{
		locale.T(lang, "export_col_category"),
		locale.T(lang, "export_col_amount"),
		locale.T(lang, "export_col_share"),
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	var ranked []core.CategoryAmount
	if bc := rep.Annual.ByCategory; bc != nil {
		ranked = report.TopCategories(bc, bc.Len())
	}
	total := rep.Annual.TotalExpenditure.Rupiah
	for rowIdx, ca := range ranked {
		share := "0.0%"
		if total > 0 {
			share = fmt.Sprintf("%.1f%%", float64(ca.Amount.Rupiah)/float64(total)*100)
		}
		row := []interface{}{ca.Name, ca.Amount.Rupiah, share}
		for colIdx, val := range row {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheet, cell, val)
		}
	}
}
