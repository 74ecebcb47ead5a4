package report

import (
	"testing"

	"reefficiency/internal/core"
)

func TestTopCategories(t *testing.T) {
	totals := core.NewCategoryTotals()
	totals.Add("A", 100)
	totals.Add("B", 50)
	totals.Add("C", 200)
	totals.Add("D", 10)
	totals.Add("E", 5)
	totals.Add("F", 1)

	got := TopCategories(totals, 5)
	want := []core.CategoryAmount{
		{Name: "C", Amount: core.Money{Rupiah: 200}},
		{Name: "A", Amount: core.Money{Rupiah: 100}},
		{Name: "B", Amount: core.Money{Rupiah: 50}},
		{Name: "D", Amount: core.Money{Rupiah: 10}},
		{Name: "E", Amount: core.Money{Rupiah: 5}},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("entry %d expected %+v, got %+v", i, want[i], got[i])
		}
	}
}

func TestTopCategoriesEmpty(t *testing.T) {
	if got := TopCategories(core.NewCategoryTotals(), 5); len(got) != 0 {
		t.Fatalf("expected empty result, got %v", got)
	}
	if got := TopCategories(nil, 5); len(got) != 0 {
		t.Fatalf("expected empty result for nil totals, got %v", got)
	}
}

func TestTopCategoriesTieBreak(t *testing.T) {
	// Equal amounts keep first-seen order.
	totals := core.NewCategoryTotals()
	totals.Add("transport", 100)
	totals.Add("makanan", 100)
	totals.Add("hiburan", 100)
	totals.Add("kesehatan", 200)

	got := TopCategories(totals, 5)
	wantNames := []string{"kesehatan", "transport", "makanan", "hiburan"}
	if len(got) != len(wantNames) {
		t.Fatalf("expected %d entries, got %d", len(wantNames), len(got))
	}
	for i, name := range wantNames {
		if got[i].Name != name {
			t.Fatalf("entry %d expected %q, got %q", i, name, got[i].Name)
		}
	}
}

func TestTopCategoriesFewerThanN(t *testing.T) {
	totals := core.NewCategoryTotals()
	totals.Add("makanan", 10)

	if got := TopCategories(totals, 5); len(got) != 1 || got[0].Name != "makanan" {
		t.Fatalf("expected single entry, got %v", got)
	}
}
