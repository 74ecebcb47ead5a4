// Package report implements the aggregation engine: locating a year's
// period tables, extracting their rows, folding them into annual totals and
// ranking expenditure categories. Each invocation reads one snapshot,
// computes in memory and returns an immutable core.Report.
package report

import (
	"regexp"
	"strconv"
)

// Period tables are worksheets named "M/YY": one or two month digits, a
// slash, exactly two year digits. Anything else (instructions, dashboards)
// is not a period table.
var periodNamePattern = regexp.MustCompile(`^(\d{1,2})/(\d{2})$`)

// PeriodRef names one period table together with its parsed month.
type PeriodRef struct {
	Name  string
	Month int
}

// ParsePeriodName splits a table name into month and two-digit year
// suffix. ok is false for names that are not period tables.
func ParsePeriodName(name string) (month, yearSuffix int, ok bool) {
	m := periodNamePattern.FindStringSubmatch(name)
	if m == nil {
		return 0, 0, false
	}
	month, _ = strconv.Atoi(m[1])
	yearSuffix, _ = strconv.Atoi(m[2])
	return month, yearSuffix, true
}

// LocateYear selects the period tables belonging to the target year,
// preserving the order the names were listed in. Non-period names are
// silently skipped. Months outside 1-12 pass through; the aggregate keeps
// their totals even though no rendered month grid shows them.
func LocateYear(names []string, year int) []PeriodRef {
	suffix := year % 100
	var refs []PeriodRef
	for _, name := range names {
		month, yy, ok := ParsePeriodName(name)
		if !ok || yy != suffix {
			continue
		}
		refs = append(refs, PeriodRef{Name: name, Month: month})
	}
	return refs
}
