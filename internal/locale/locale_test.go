package locale

import "testing"

func TestMonthNumber(t *testing.T) {
	cases := []struct {
		in    string
		month int
		ok    bool
	}{
		{"januari", 1, true},
		{"Januari", 1, true},
		{"JANUARI", 1, true},
		{"january", 1, true},
		{"mei", 5, true},
		{"may", 5, true},
		{"desember", 12, true},
		{"december", 12, true},
		{" maret ", 3, true},
		{"jan", 0, false}, // abbreviations do not resolve
		{"13", 0, false},
		{"", 0, false},
		{"bulan", 0, false},
	}
	for _, tc := range cases {
		got, ok := MonthNumber(tc.in)
		if ok != tc.ok || got != tc.month {
			t.Fatalf("%q expected (%d,%v), got (%d,%v)", tc.in, tc.month, tc.ok, got, ok)
		}
	}
}

func TestMonthName(t *testing.T) {
	if got := MonthName(Indonesian, 8); got != "Agustus" {
		t.Fatalf("expected Agustus, got %q", got)
	}
	if got := MonthName(English, 8); got != "August" {
		t.Fatalf("expected August, got %q", got)
	}
	if got := MonthName(Indonesian, 13); got != "" {
		t.Fatalf("expected empty for out-of-range month, got %q", got)
	}
}

func TestMonthAbbrev(t *testing.T) {
	if got := MonthAbbrev(Indonesian, 5); got != "Mei" {
		t.Fatalf("expected Mei, got %q", got)
	}
	if got := MonthAbbrev(English, 5); got != "May" {
		t.Fatalf("expected May, got %q", got)
	}
	if got := MonthAbbrev(Indonesian, 1); got != "Jan" {
		t.Fatalf("expected Jan, got %q", got)
	}
}

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		lang Language
		ok   bool
	}{
		{"id", Indonesian, true},
		{"EN", English, true},
		{"english", English, true},
		{"indonesia", Indonesian, true},
		{"fr", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := Normalize(tc.in)
		if ok != tc.ok || got != tc.lang {
			t.Fatalf("%q expected (%q,%v), got (%q,%v)", tc.in, tc.lang, tc.ok, got, ok)
		}
	}
}

func TestTFallback(t *testing.T) {
	if got := T(English, "error_general"); got == "" || got == "error_general" {
		t.Fatalf("expected english message, got %q", got)
	}
	if got := T("fr", "error_general"); got != T(Indonesian, "error_general") {
		t.Fatalf("unknown language should fall back to default, got %q", got)
	}
	if got := T(Indonesian, "no_such_key"); got != "no_such_key" {
		t.Fatalf("missing key should fall back to key, got %q", got)
	}
}
