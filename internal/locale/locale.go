// Package locale carries the bilingual (Indonesian/English) month names and
// chat message catalog. Indonesian is the default language.
package locale

import "strings"

type Language string

const (
	Indonesian Language = "id"
	English    Language = "en"

	Default = Indonesian
)

// Normalize maps a user-supplied language code to a supported Language.
func Normalize(code string) (Language, bool) {
	switch strings.ToLower(strings.TrimSpace(code)) {
	case "id", "indonesia", "indonesian":
		return Indonesian, true
	case "en", "english", "inggris":
		return English, true
	default:
		return "", false
	}
}

var monthNamesID = [12]string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

var monthNamesEN = [12]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// MonthNumber resolves a month name in either language to its number.
// Matching is case-insensitive on full names. Unknown names report ok=false.
func MonthNumber(name string) (int, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, false
	}
	for i := 0; i < 12; i++ {
		if strings.EqualFold(name, monthNamesID[i]) || strings.EqualFold(name, monthNamesEN[i]) {
			return i + 1, true
		}
	}
	return 0, false
}

// MonthName returns the month's full name in the given language, or "" for
// months outside 1-12.
func MonthName(lang Language, month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	if lang == English {
		return monthNamesEN[month-1]
	}
	return monthNamesID[month-1]
}

// MonthAbbrev returns the three-letter form used in compact report lines.
func MonthAbbrev(lang Language, month int) string {
	name := MonthName(lang, month)
	if len(name) <= 3 {
		return name
	}
	return name[:3]
}

var messages = map[Language]map[string]string{
	Indonesian: {
		"welcome":         "Selamat datang di Reefficiency Bot! Gunakan /lang id atau /lang en untuk memilih bahasa.",
		"language_set":    "Bahasa diatur ke Bahasa Indonesia. Ada yang bisa saya bantu?\n\nCatat transaksi:\n`/catat pengeluaran makanan 50000 Nasi Padang`\n\nMinta laporan:\n`/laporan` atau `/laporan 2024` atau `/laporan februari 2024`",
		"error_general":   "❌ Maaf, terjadi kesalahan. Silakan coba lagi.",
		"not_allowed":     "Maaf, Anda tidak diizinkan menggunakan bot ini.",
		"usage_catat":     "Format salah. Gunakan: `/catat jenis kategori jumlah [deskripsi]`\nContoh: `/catat pengeluaran makanan 50000 Nasi Padang`",
		"usage_laporan":   "Format salah. Gunakan:\n`/laporan` - Laporan bulan ini\n`/laporan [bulan]` - Laporan bulan terakhir\n`/laporan [tahun]` - Laporan tahunan\n`/laporan [bulan] [tahun]` - Laporan bulan dan tahun spesifik",
		"usage_lang":      "Gunakan: `/lang id` atau `/lang en`",
		"unknown_command": "Perintah tidak dikenal. Gunakan /catat, /laporan, atau /lang.",
		"invalid_kind":    "Jenis transaksi harus `pemasukan` atau `pengeluaran`.",
		"invalid_amount":  "Jumlah harus berupa angka positif.",
		"invalid_month":   "Format bulan tidak valid. Gunakan nama bulan dalam bahasa Indonesia.\nContoh: januari, februari, maret, dst.",
		"invalid_year":    "Format tahun tidak valid.",
		"future_period":   "❌ Bulan %s dan tahun %d belum berlangsung.",
		"future_year":     "❌ Tahun %d belum berlangsung.",
		"too_many_args":   "Terlalu banyak parameter. Maksimal 2 parameter.",
		"recorded":        "✅ Berhasil dicatat:\nJenis: %s\nKategori: %s\nJumlah: %s\nDeskripsi: %s",

		"report_monthly_title":   "📊 *LAPORAN BULANAN - %s %d*",
		"report_annual_title":    "📊 *LAPORAN TAHUNAN - %d*",
		"report_summary_header":  "💰 *RINGKASAN KEUANGAN*",
		"report_annual_summary":  "💰 *RINGKASAN TAHUNAN*",
		"report_income":          "Total Pemasukan",
		"report_expenditure":     "Total Pengeluaran",
		"report_net":             "Selisih Bersih",
		"report_categories":      "📈 *PENGELUARAN PER KATEGORI*",
		"report_breakdown":       "📅 *BREAKDOWN BULANAN*",
		"report_top":             "📈 *TOP %d KATEGORI PENGELUARAN*",
		"report_health":          "🏥 *INDIKATOR KESEHATAN KEUANGAN*",
		"report_savings":         "Tingkat Tabungan",
		"report_avg_expenditure": "Rata-rata Pengeluaran/Bulan",
		"report_avg_income":      "Rata-rata Pemasukan/Bulan",
		"report_month_empty":     "Tidak ada data",
		"report_no_month_data":   "📊 Tidak ada data transaksi untuk %s %d.",
		"report_no_year_data":    "📊 Tidak ada data transaksi untuk tahun %d.",
		"health_excellent":       "Sangat Baik ✅",
		"health_good":            "Baik 👍",
		"health_fair":            "Cukup ⚠️",
		"health_poor":            "Perlu Perbaikan ❌",

		"export_title":            "Laporan Tahunan %d",
		"export_sheet_summary":    "Ringkasan",
		"export_sheet_months":     "Bulanan",
		"export_sheet_categories": "Kategori",
		"export_col_month":        "Bulan",
		"export_col_income":       "Pemasukan",
		"export_col_expenditure":  "Pengeluaran",
		"export_col_net":          "Selisih",
		"export_col_category":     "Kategori",
		"export_col_amount":       "Jumlah",
		"export_col_share":        "Porsi",
	},
	English: {
		"welcome":         "Welcome to Reefficiency Bot! Use /lang id or /lang en to choose your language.",
		"language_set":    "Language set to English. How can I help you today?\n\nLog a transaction:\n`/catat expense food 50000 lunch`\n\nAsk for reports:\n`/laporan` or `/laporan 2024` or `/laporan february 2024`",
		"error_general":   "❌ Sorry, an error occurred. Please try again.",
		"not_allowed":     "Sorry, you are not allowed to use this bot.",
		"usage_catat":     "Wrong format. Use: `/catat kind category amount [description]`\nExample: `/catat expense food 50000 lunch`",
		"usage_laporan":   "Wrong format. Use:\n`/laporan` - This month's report\n`/laporan [month]` - Latest report for a month\n`/laporan [year]` - Annual report\n`/laporan [month] [year]` - Specific month and year",
		"usage_lang":      "Use: `/lang id` or `/lang en`",
		"unknown_command": "Unknown command. Use /catat, /laporan, or /lang.",
		"invalid_kind":    "Transaction kind must be `income` or `expense`.",
		"invalid_amount":  "Amount must be a positive number.",
		"invalid_month":   "Invalid month. Use a full month name.\nExample: january, february, march, etc.",
		"invalid_year":    "Invalid year.",
		"future_period":   "❌ %s %d has not happened yet.",
		"future_year":     "❌ Year %d has not happened yet.",
		"too_many_args":   "Too many parameters. Two at most.",
		"recorded":        "✅ Recorded:\nKind: %s\nCategory: %s\nAmount: %s\nDescription: %s",

		"report_monthly_title":   "📊 *MONTHLY REPORT - %s %d*",
		"report_annual_title":    "📊 *ANNUAL REPORT - %d*",
		"report_summary_header":  "💰 *FINANCIAL SUMMARY*",
		"report_annual_summary":  "💰 *ANNUAL SUMMARY*",
		"report_income":          "Total Income",
		"report_expenditure":     "Total Expenditure",
		"report_net":             "Net Difference",
		"report_categories":      "📈 *EXPENDITURE BY CATEGORY*",
		"report_breakdown":       "📅 *MONTHLY BREAKDOWN*",
		"report_top":             "📈 *TOP %d EXPENDITURE CATEGORIES*",
		"report_health":          "🏥 *FINANCIAL HEALTH INDICATORS*",
		"report_savings":         "Savings Rate",
		"report_avg_expenditure": "Average Expenditure/Month",
		"report_avg_income":      "Average Income/Month",
		"report_month_empty":     "No data",
		"report_no_month_data":   "📊 No transaction data for %s %d.",
		"report_no_year_data":    "📊 No transaction data for year %d.",
		"health_excellent":       "Excellent ✅",
		"health_good":            "Good 👍",
		"health_fair":            "Fair ⚠️",
		"health_poor":            "Needs Improvement ❌",

		"export_title":            "Annual Report %d",
		"export_sheet_summary":    "Summary",
		"export_sheet_months":     "Monthly",
		"export_sheet_categories": "Categories",
		"export_col_month":        "Month",
		"export_col_income":       "Income",
		"export_col_expenditure":  "Expenditure",
		"export_col_net":          "Net",
		"export_col_category":     "Category",
		"export_col_amount":       "Amount",
		"export_col_share":        "Share",
	},
}

// T looks up a message by key, falling back to the default language and
// finally to the key itself so a missing entry never blanks a reply.
func T(lang Language, key string) string {
	if m, ok := messages[lang]; ok {
		if s, ok := m[key]; ok {
			return s
		}
	}
	if s, ok := messages[Default][key]; ok {
		return s
	}
	return key
}
