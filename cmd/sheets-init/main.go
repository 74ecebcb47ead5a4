package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"

	"reefficiency/internal/config"
	"reefficiency/internal/core"
	"reefficiency/internal/report"
	"reefficiency/internal/sheets"
	gsheet "reefficiency/internal/sheets/google"
)

// One-shot setup check for the sheets backend: verifies credentials and
// spreadsheet access, lists the period tables, and makes sure the
// worksheets the write path needs exist. Safe to run repeatedly.
func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	cols := sheets.Columns{
		Date:        cfg.HeaderDate,
		Category:    cfg.HeaderCategory,
		Description: cfg.HeaderDescription,
		Income:      cfg.HeaderIncome,
		Expenditure: cfg.HeaderExpenditure,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	client, err := gsheet.NewFromEnv(ctx, cols)
	if err != nil {
		log.Fatalf("sheets client: %v", err)
	}

	title, err := client.SpreadsheetTitle(ctx)
	if err != nil {
		log.Fatalf("spreadsheet access: %v", err)
	}
	fmt.Printf("Spreadsheet OK: %q\n", title)

	names, err := client.TableNames(ctx)
	if err != nil {
		log.Fatalf("list worksheets: %v", err)
	}
	var periods []string
	for _, name := range names {
		if _, _, ok := report.ParsePeriodName(name); ok {
			periods = append(periods, name)
		}
	}
	fmt.Printf("Worksheets: %d total, %d period tables\n", len(names), len(periods))
	for _, name := range periods {
		fmt.Printf("  - %s\n", name)
	}

	// Make sure this month's period table exists so the first append of the
	// month does not have to create it.
	now := time.Now()
	current := core.PeriodNameFor(now.Year(), int(now.Month()))
	created, err := client.EnsureTable(ctx, current, true)
	if err != nil {
		log.Fatalf("ensure period table %s: %v", current, err)
	}
	if created {
		fmt.Printf("Created period table %s with header row\n", current)
	} else {
		fmt.Printf("Period table %s already exists\n", current)
	}

	// Project the current year onto the dashboard worksheet, creating it
	// when missing.
	schema := report.HeaderSchema{
		Category:    cfg.HeaderCategory,
		Income:      cfg.HeaderIncome,
		Expenditure: cfg.HeaderExpenditure,
	}
	rep, err := report.NewAssembler(client, schema, cfg.ReportTopN).Annual(ctx, now.Year())
	if err != nil {
		log.Fatalf("assemble report: %v", err)
	}
	if err := client.WriteDashboard(ctx, rep); err != nil {
		log.Fatalf("write dashboard: %v", err)
	}
	fmt.Printf("Dashboard refreshed for %d\n", now.Year())

	fmt.Println("Setup check passed.")
}
