package report

import "reefficiency/internal/core"

// Aggregate folds per-table summaries into the year's aggregate. Addition
// is commutative, so the order summaries arrive in never changes the
// numbers; only the first-seen category ordering follows input order.
// Zero summaries yield a valid all-zero aggregate.
func Aggregate(year int, summaries []core.MonthlySummary) core.AnnualAggregate {
	agg := core.NewAnnualAggregate(year)
	for _, s := range summaries {
		agg.TotalIncome.Rupiah += s.Income.Rupiah
		agg.TotalExpenditure.Rupiah += s.Expenditure.Rupiah
		agg.ByCategory.Merge(s.Categories)
		agg.Summaries[s.Month] = mergeMonth(agg.Summaries[s.Month], s)
	}
	return agg
}

// mergeMonth combines two summaries for the same month. Worksheet titles
// are unique so this is normally a plain insert, but additive merging
// keeps the commutativity guarantee even if a source ever lists a month
// twice.
func mergeMonth(existing, s core.MonthlySummary) core.MonthlySummary {
	if existing.Categories == nil {
		return s
	}
	existing.Income.Rupiah += s.Income.Rupiah
	existing.Expenditure.Rupiah += s.Expenditure.Rupiah
	existing.Categories.Merge(s.Categories)
	return existing
}
