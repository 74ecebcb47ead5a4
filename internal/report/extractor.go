package report

import (
	"errors"
	"fmt"
	"strings"

	"reefficiency/internal/core"
)

// HeaderSchema names the three column labels a period table must carry.
// Matching is exact and case-sensitive; column order is irrelevant. The
// labels come from configuration so a renamed sheet column never touches
// the aggregation logic.
type HeaderSchema struct {
	Category    string
	Income      string
	Expenditure string
}

// ErrMissingHeader marks a table whose header row lacks one of the
// required labels. Callers skip such tables and keep aggregating.
var ErrMissingHeader = errors.New("missing required header")

// Extract folds one period table's grid into the month's summary. The
// first row is the header row; every later row is data. Income and
// expenditure cells count only when they parse as numbers strictly greater
// than zero. A row's category lands in the per-category map only when the
// row has a positive expenditure and a non-empty category label.
func Extract(grid [][]string, month int, schema HeaderSchema) (core.MonthlySummary, error) {
	summary := core.EmptyMonthlySummary(month)
	if len(grid) == 0 {
		return summary, fmt.Errorf("%w: table has no header row", ErrMissingHeader)
	}

	headers := grid[0]
	colCategory := indexOf(headers, schema.Category)
	colIncome := indexOf(headers, schema.Income)
	colExpenditure := indexOf(headers, schema.Expenditure)
	if colCategory == -1 || colIncome == -1 || colExpenditure == -1 {
		missing := make([]string, 0, 3)
		if colCategory == -1 {
			missing = append(missing, schema.Category)
		}
		if colIncome == -1 {
			missing = append(missing, schema.Income)
		}
		if colExpenditure == -1 {
			missing = append(missing, schema.Expenditure)
		}
		return summary, fmt.Errorf("%w: missing %s; got headers=%v", ErrMissingHeader, strings.Join(missing, ","), headers)
	}

	var income, expenditure int64
	for i := 1; i < len(grid); i++ {
		row := grid[i]
		if v, ok := core.ParseCellAmount(safeGet(row, colIncome)); ok && v > 0 {
			income += v
		}
		v, ok := core.ParseCellAmount(safeGet(row, colExpenditure))
		if !ok || v <= 0 {
			continue
		}
		expenditure += v
		if category := strings.TrimSpace(safeGet(row, colCategory)); category != "" {
			summary.Categories.Add(category, v)
		}
	}
	summary.Income = core.Money{Rupiah: income}
	summary.Expenditure = core.Money{Rupiah: expenditure}
	return summary, nil
}

// indexOf finds a header label by exact, case-sensitive match.
func indexOf(headers []string, label string) int {
	for i, h := range headers {
		if h == label {
			return i
		}
	}
	return -1
}

func safeGet(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
