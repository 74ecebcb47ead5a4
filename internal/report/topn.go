package report

import (
	"sort"

	"reefficiency/internal/core"
)

// DefaultTopN is how many categories the standard reports rank.
const DefaultTopN = 5

// TopCategories returns at most n categories ordered by amount descending.
// Equal amounts keep their first-seen order: the sort is stable and the
// input enumerates in accumulation order. An empty or nil input returns an
// empty sequence.
func TopCategories(totals *core.CategoryTotals, n int) []core.CategoryAmount {
	if totals == nil || n <= 0 {
		return []core.CategoryAmount{}
	}
	items := totals.Items()
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Amount.Rupiah > items[j].Amount.Rupiah
	})
	if len(items) > n {
		items = items[:n]
	}
	return items
}
