package core

import "strconv"

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string
	Amount Money
}

// CategoryTotals accumulates amounts per category while remembering the
// order in which categories were first seen. That order is the documented
// tie-break when ranking categories with equal totals.
type CategoryTotals struct {
	amounts map[string]int64
	order   []string
}

func NewCategoryTotals() *CategoryTotals {
	return &CategoryTotals{amounts: make(map[string]int64)}
}

// Add accumulates rupiah under the given category.
func (t *CategoryTotals) Add(name string, rupiah int64) {
	if _, seen := t.amounts[name]; !seen {
		t.order = append(t.order, name)
	}
	t.amounts[name] += rupiah
}

// Amount returns the accumulated total for a category.
func (t *CategoryTotals) Amount(name string) (int64, bool) {
	v, ok := t.amounts[name]
	return v, ok
}

func (t *CategoryTotals) Len() int {
	return len(t.order)
}

// Items returns the totals in first-seen order.
func (t *CategoryTotals) Items() []CategoryAmount {
	items := make([]CategoryAmount, 0, len(t.order))
	for _, name := range t.order {
		items = append(items, CategoryAmount{Name: name, Amount: Money{Rupiah: t.amounts[name]}})
	}
	return items
}

// Merge folds other into t, preserving t's first-seen ordering for
// categories both sides know about.
func (t *CategoryTotals) Merge(other *CategoryTotals) {
	if other == nil {
		return
	}
	for _, name := range other.order {
		t.Add(name, other.amounts[name])
	}
}

// MonthlySummary is the roll-up of one period table: totals for the month
// plus expenditure broken down by category.
type MonthlySummary struct {
	Month       int // 1-12 in rendered reports; raw table months pass through
	Income      Money
	Expenditure Money
	Categories  *CategoryTotals
}

// EmptyMonthlySummary returns the all-zero placeholder used for months that
// have no period table.
func EmptyMonthlySummary(month int) MonthlySummary {
	return MonthlySummary{Month: month, Categories: NewCategoryTotals()}
}

// HasData reports whether the month recorded any income or expenditure.
func (s MonthlySummary) HasData() bool {
	return s.Income.Rupiah != 0 || s.Expenditure.Rupiah != 0 || s.Categories.Len() != 0
}

// Net returns income minus expenditure.
func (s MonthlySummary) Net() Money {
	return Money{Rupiah: s.Income.Rupiah - s.Expenditure.Rupiah}
}

// AnnualAggregate is the full-year roll-up across every period table that
// belongs to the year. Summaries is keyed by table month; a table with an
// out-of-range month (say "13/25") keeps its totals here even though it
// never appears in a rendered month grid.
type AnnualAggregate struct {
	Year             int
	TotalIncome      Money
	TotalExpenditure Money
	ByCategory       *CategoryTotals
	Summaries        map[int]MonthlySummary
}

func NewAnnualAggregate(year int) AnnualAggregate {
	return AnnualAggregate{
		Year:       year,
		ByCategory: NewCategoryTotals(),
		Summaries:  make(map[int]MonthlySummary),
	}
}

// Net returns total income minus total expenditure.
func (a AnnualAggregate) Net() Money {
	return Money{Rupiah: a.TotalIncome.Rupiah - a.TotalExpenditure.Rupiah}
}

// SavingsRate returns net savings as a percentage of income, or ok=false
// when the year recorded no income.
func (a AnnualAggregate) SavingsRate() (float64, bool) {
	if a.TotalIncome.Rupiah == 0 {
		return 0, false
	}
	return float64(a.Net().Rupiah) / float64(a.TotalIncome.Rupiah) * 100, true
}

// Report is the immutable result of one reporting request. It is plain
// data: presentation adapters (chat markdown, JSON, XLSX, dashboard cells)
// map it onto their surface without reaching back into the engine.
type Report struct {
	Year   int
	Annual AnnualAggregate

	// Months always holds twelve slots in calendar order; months without
	// a period table are all-zero placeholders.
	Months [12]MonthlySummary

	// TopAnnual ranks the year's expenditure categories, largest first.
	TopAnnual []CategoryAmount

	// Month is the resolved month of the monthly breakdown, 0 when no
	// month was requested or the name did not resolve. TopMonth is empty
	// in both of those cases and when the month has no data.
	Month     int
	MonthName string
	TopMonth  []CategoryAmount
}

// PeriodNameFor returns the worksheet name of a month's period table in
// M/YY form: month without leading zero, two-digit year.
func PeriodNameFor(year, month int) string {
	yy := year % 100
	name := strconv.Itoa(month) + "/"
	if yy < 10 {
		name += "0"
	}
	return name + strconv.Itoa(yy)
}
