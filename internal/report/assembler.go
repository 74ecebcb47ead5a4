package report

import (
	"context"
	"fmt"
	"log/slog"

	"reefficiency/internal/core"
	"reefficiency/internal/locale"
	"reefficiency/internal/sheets"
)

// Assembler runs one reporting request end to end: snapshot the table
// names, locate the year's period tables, extract and aggregate them, rank
// categories. The result is plain data; rendering belongs to the
// presentation adapters.
type Assembler struct {
	tables sheets.TableReader
	schema HeaderSchema
	topN   int
}

func NewAssembler(tables sheets.TableReader, schema HeaderSchema, topN int) *Assembler {
	if topN <= 0 {
		topN = DefaultTopN
	}
	return &Assembler{tables: tables, schema: schema, topN: topN}
}

// Assemble builds the report for a year. monthName optionally selects the
// month for the monthly top-category breakdown; it resolves through the
// locale layer (Indonesian or English full names) and an unresolvable name
// simply leaves that breakdown empty.
//
// Tables that cannot be read or lack the required headers are skipped with
// a warning; the rest of the year still aggregates. Only an unavailable
// snapshot (table listing) fails the request.
func (a *Assembler) Assemble(ctx context.Context, year int, monthName string) (core.Report, error) {
	names, err := a.tables.TableNames(ctx)
	if err != nil {
		return core.Report{}, fmt.Errorf("list tables: %w", err)
	}

	var summaries []core.MonthlySummary
	for _, ref := range LocateYear(names, year) {
		grid, err := a.tables.ReadTable(ctx, ref.Name)
		if err != nil {
			slog.WarnContext(ctx, "Skipping unreadable period table",
				"table", ref.Name,
				"error", err)
			continue
		}
		summary, err := Extract(grid, ref.Month, a.schema)
		if err != nil {
			slog.WarnContext(ctx, "Skipping period table",
				"table", ref.Name,
				"error", err)
			continue
		}
		summaries = append(summaries, summary)
	}

	agg := Aggregate(year, summaries)

	rep := core.Report{
		Year:      year,
		Annual:    agg,
		TopAnnual: TopCategories(agg.ByCategory, a.topN),
		TopMonth:  []core.CategoryAmount{},
		MonthName: monthName,
	}
	for m := 1; m <= 12; m++ {
		if s, ok := agg.Summaries[m]; ok {
			rep.Months[m-1] = s
		} else {
			rep.Months[m-1] = core.EmptyMonthlySummary(m)
		}
	}
	if monthName != "" {
		if m, ok := locale.MonthNumber(monthName); ok {
			rep.Month = m
			if s, ok := agg.Summaries[m]; ok {
				rep.TopMonth = TopCategories(s.Categories, a.topN)
			}
		}
	}
	return rep, nil
}

// Annual assembles the full-year report without a monthly breakdown. It
// reads the backend directly on every call, so callers that want caching
// wrap the assembler in a service.
func (a *Assembler) Annual(ctx context.Context, year int) (core.Report, error) {
	return a.Assemble(ctx, year, "")
}
