// Package core holds the domain types shared by every layer: transactions,
// integer rupiah amounts, and the summary structures produced by reporting.
//
// Amounts are whole rupiah carried as int64. The backing spreadsheet stores
// them as integers with optional digit grouping, so parsing strips grouping
// separators instead of treating them as decimal points.
package core

import (
	"strconv"
	"strings"
)

// ParseAmount converts a user-supplied amount string to rupiah.
//
// It accepts plain digits and digit grouping with dots, commas or spaces
// ("50000", "50.000", "50,000" all yield 50000). Signs, decimals and any
// other character are rejected. The result must be strictly positive.
//
// Examples:
//
//	ParseAmount("50000")  -> 50000, nil
//	ParseAmount("50.000") -> 50000, nil
//	ParseAmount("-500")   -> 0, ErrInvalidAmount
//	ParseAmount("0")      -> 0, ErrInvalidAmount
func ParseAmount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}
	digits := stripGrouping(s)
	if digits == "" {
		return 0, ErrInvalidAmount
	}
	v, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	if v <= 0 {
		return 0, ErrInvalidAmount
	}
	return v, nil
}

// ParseCellAmount reads a spreadsheet cell as a rupiah amount. Unlike
// ParseAmount it tolerates a leading sign, because cells are data we do not
// control. Blank or non-numeric cells report ok=false, never an error.
func ParseCellAmount(s string) (value int64, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	neg := false
	switch s[0] {
	case '-':
		neg = true
		s = s[1:]
	case '+':
		s = s[1:]
	}
	digits := stripGrouping(s)
	if digits == "" {
		return 0, false
	}
	v, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, false
	}
	if neg {
		v = -v
	}
	return v, true
}

// stripGrouping removes digit-grouping separators and reports "" if any
// other non-digit remains.
func stripGrouping(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteByte(byte(r))
		case r == '.' || r == ',' || r == ' ':
			// grouping separator
		default:
			return ""
		}
	}
	return b.String()
}

// FormatRupiah renders an amount as "Rp 1,234,567". Negative amounts keep
// the sign after the currency marker, matching the chat report layout.
func FormatRupiah(rupiah int64) string {
	neg := rupiah < 0
	if neg {
		rupiah = -rupiah
	}
	s := strconv.FormatInt(rupiah, 10)
	var b strings.Builder
	b.WriteString("Rp ")
	if neg {
		b.WriteByte('-')
	}
	lead := len(s) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(s[:lead])
	for i := lead; i < len(s); i += 3 {
		b.WriteByte(',')
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// Format renders the Money value for display.
func (m Money) Format() string {
	return FormatRupiah(m.Rupiah)
}
