// Package render turns assembled reports into the chat Markdown replies.
package render

import (
	"fmt"
	"strings"

	"reefficiency/internal/core"
	"reefficiency/internal/locale"
	"reefficiency/internal/report"
)

// Monthly renders the report focused on its resolved month. Falls back to
// the annual rendering when no month is set.
func Monthly(rep core.Report, lang locale.Language) string {
	if rep.Month < 1 || rep.Month > 12 {
		return Annual(rep, lang)
	}

	monthName := locale.MonthName(lang, rep.Month)
	ms := rep.Months[rep.Month-1]
	if !ms.HasData() {
		return fmt.Sprintf(locale.T(lang, "report_no_month_data"), monthName, rep.Year)
	}

	var b strings.Builder
	fmt.Fprintf(&b, locale.T(lang, "report_monthly_title"), strings.ToUpper(monthName), rep.Year)
	b.WriteString("\n")
	b.WriteString(strings.Repeat("=", 40))
	b.WriteString("\n\n")

	b.WriteString(locale.T(lang, "report_summary_header"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "- %s: %s\n", locale.T(lang, "report_income"), ms.Income.Format())
	fmt.Fprintf(&b, "- %s: %s\n", locale.T(lang, "report_expenditure"), ms.Expenditure.Format())
	fmt.Fprintf(&b, "- %s: %s\n\n", locale.T(lang, "report_net"), ms.Net().Format())

	if ms.Categories.Len() > 0 {
		b.WriteString(locale.T(lang, "report_categories"))
		b.WriteString("\n")
		for _, ca := range report.TopCategories(ms.Categories, ms.Categories.Len()) {
			fmt.Fprintf(&b, "- %s: %s (%s)\n",
				ca.Name,
				ca.Amount.Format(),
				percentage(ca.Amount, ms.Expenditure))
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

// Annual renders the full-year report: summary totals, the twelve-month
// breakdown, top expenditure categories and the financial health block.
func Annual(rep core.Report, lang locale.Language) string {
	if len(rep.Annual.Summaries) == 0 {
		return fmt.Sprintf(locale.T(lang, "report_no_year_data"), rep.Year)
	}

	var b strings.Builder
	fmt.Fprintf(&b, locale.T(lang, "report_annual_title"), rep.Year)
	b.WriteString("\n")
	b.WriteString(strings.Repeat("-", 52))
	b.WriteString("\n\n")

	b.WriteString(locale.T(lang, "report_annual_summary"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "- %s: %s\n", locale.T(lang, "report_income"), rep.Annual.TotalIncome.Format())
	fmt.Fprintf(&b, "- %s: %s\n", locale.T(lang, "report_expenditure"), rep.Annual.TotalExpenditure.Format())
	fmt.Fprintf(&b, "- %s: %s\n\n", locale.T(lang, "report_net"), rep.Annual.Net().Format())

	b.WriteString(locale.T(lang, "report_breakdown"))
	b.WriteString("\n")
	for m := 1; m <= 12; m++ {
		abbrev := locale.MonthAbbrev(lang, m)
		ms := rep.Months[m-1]
		if !ms.HasData() {
			fmt.Fprintf(&b, "- %s: %s\n", abbrev, locale.T(lang, "report_month_empty"))
			continue
		}
		fmt.Fprintf(&b, "- %s: +%s | -%s | Net: %s\n",
			abbrev,
			ms.Income.Format(),
			ms.Expenditure.Format(),
			ms.Net().Format())
	}
	b.WriteString("\n")

	if len(rep.TopAnnual) > 0 {
		fmt.Fprintf(&b, locale.T(lang, "report_top"), len(rep.TopAnnual))
		b.WriteString("\n")
		for i, ca := range rep.TopAnnual {
			fmt.Fprintf(&b, "%d. %s: %s (%s)\n",
				i+1,
				ca.Name,
				ca.Amount.Format(),
				percentage(ca.Amount, rep.Annual.TotalExpenditure))
		}
		b.WriteString("\n")
	}

	if rate, ok := rep.Annual.SavingsRate(); ok {
		b.WriteString(locale.T(lang, "report_health"))
		b.WriteString("\n")
		fmt.Fprintf(&b, "- %s: %.1f%% (%s)\n", locale.T(lang, "report_savings"), rate, healthLabel(rate, lang))
		fmt.Fprintf(&b, "- %s: %s\n", locale.T(lang, "report_avg_expenditure"),
			core.Money{Rupiah: rep.Annual.TotalExpenditure.Rupiah / 12}.Format())
		fmt.Fprintf(&b, "- %s: %s\n", locale.T(lang, "report_avg_income"),
			core.Money{Rupiah: rep.Annual.TotalIncome.Rupiah / 12}.Format())
	}

	return strings.TrimRight(b.String(), "\n")
}

// healthLabel maps a savings rate onto its qualitative label. Thresholds
// are strict: exactly 20% is "good", not "excellent".
func healthLabel(rate float64, lang locale.Language) string {
	switch {
	case rate > 20:
		return locale.T(lang, "health_excellent")
	case rate > 10:
		return locale.T(lang, "health_good")
	case rate > 0:
		return locale.T(lang, "health_fair")
	default:
		return locale.T(lang, "health_poor")
	}
}

func percentage(part core.Money, total core.Money) string {
	if total.Rupiah <= 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", float64(part.Rupiah)/float64(total.Rupiah)*100)
}
