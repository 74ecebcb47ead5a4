package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"reefficiency/internal/core"
	"reefficiency/internal/export"
	"reefficiency/internal/locale"
)

// handleHealth performs a basic liveness check.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.startedAt).String(),
	})
}

// handleReady performs a readiness check with dependency verification.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	status := "ready"
	httpStatus := http.StatusOK
	checks := make(map[string]any)

	if s.messages == nil {
		checks["chat"] = "not_configured"
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["chat"] = "ok"
	}

	if s.reports == nil {
		checks["reports"] = "not_configured"
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["reports"] = "ok"
	}

	// The ledger store is optional; the memory backend runs without one.
	if s.ledger != nil {
		if err := s.ledger.Ping(ctx); err != nil {
			checks["ledger"] = fmt.Sprintf("failed: %v", err)
			status = "not_ready"
			httpStatus = http.StatusServiceUnavailable
		} else {
			checks["ledger"] = "ok"
		}
	} else {
		checks["ledger"] = "not_configured"
	}

	if stats, ok := s.reports.(interface{ CacheStats() int }); ok {
		checks["report_cache"] = map[string]any{
			"entries": stats.CacheStats(),
			"status":  "ok",
		}
	}

	checks["rate_limiter"] = map[string]any{
		"active_clients": s.rateLimiter.activeClients(),
		"status":         "ok",
	}

	writeJSON(w, httpStatus, map[string]any{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    checks,
	})
}

type messageRequest struct {
	UserID int64  `json:"user_id"`
	Text   string `json:"text"`
}

type messageResponse struct {
	Reply string `json:"reply"`
}

// handleMessage feeds one chat message through the command handler and
// returns the localized reply. The chat transport (Telegram webhook, CLI,
// test harness) is whoever calls this endpoint.
func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}
	if s.messages == nil {
		errorJSON(w, http.StatusServiceUnavailable, "chat handler not configured")
		return
	}

	var req messageRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&req); err != nil {
		slog.WarnContext(r.Context(), "Malformed message body", "error", err)
		errorJSON(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.UserID == 0 {
		errorJSON(w, http.StatusUnprocessableEntity, "user_id is required")
		return
	}
	text := sanitizeInput(req.Text)
	if text == "" {
		errorJSON(w, http.StatusUnprocessableEntity, "text is required")
		return
	}

	reply := s.messages.HandleMessage(r.Context(), req.UserID, text)
	writeJSON(w, http.StatusOK, messageResponse{Reply: reply})
}

// handleReports routes /api/v1/reports/{year} and
// /api/v1/reports/{year}/export.
func (s *Server) handleReports(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	if s.reports == nil {
		errorJSON(w, http.StatusServiceUnavailable, "report source not configured")
		return
	}

	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/v1/reports/"), "/")
	if rest == "" {
		errorJSON(w, http.StatusNotFound, "missing report year")
		return
	}
	parts := strings.Split(rest, "/")

	year, err := strconv.Atoi(parts[0])
	if err != nil || year < 1900 || year > 2100 {
		errorJSON(w, http.StatusBadRequest, "invalid report year")
		return
	}

	switch {
	case len(parts) == 1:
		s.serveReportJSON(w, r, year)
	case len(parts) == 2 && parts[1] == "export":
		s.serveReportExport(w, r, year)
	default:
		errorJSON(w, http.StatusNotFound, "not found")
	}
}

func (s *Server) serveReportJSON(w http.ResponseWriter, r *http.Request, year int) {
	lang := s.requestLanguage(r)

	if monthName := strings.TrimSpace(r.URL.Query().Get("month")); monthName != "" {
		month, ok := locale.MonthNumber(monthName)
		if !ok {
			errorJSON(w, http.StatusBadRequest, "unknown month name")
			return
		}
		rep, err := s.reports.Monthly(r.Context(), year, locale.MonthName(locale.Indonesian, month))
		if err != nil {
			slog.ErrorContext(r.Context(), "Monthly report failed", "year", year, "month", month, "error", err)
			errorJSON(w, http.StatusInternalServerError, "report assembly failed")
			return
		}
		writeJSON(w, http.StatusOK, monthlyReportJSON(rep, lang))
		return
	}

	rep, err := s.reports.Annual(r.Context(), year)
	if err != nil {
		slog.ErrorContext(r.Context(), "Annual report failed", "year", year, "error", err)
		errorJSON(w, http.StatusInternalServerError, "report assembly failed")
		return
	}
	writeJSON(w, http.StatusOK, annualReportJSON(rep, lang))
}

func (s *Server) serveReportExport(w http.ResponseWriter, r *http.Request, year int) {
	rep, err := s.reports.Annual(r.Context(), year)
	if err != nil {
		slog.ErrorContext(r.Context(), "Annual report failed", "year", year, "error", err)
		errorJSON(w, http.StatusInternalServerError, "report assembly failed")
		return
	}

	// Build the workbook in memory so errors can still produce a clean
	// error response instead of a truncated download.
	var buf bytes.Buffer
	if err := export.AnnualXLSX(&buf, rep, s.requestLanguage(r)); err != nil {
		slog.ErrorContext(r.Context(), "Workbook build failed", "year", year, "error", err)
		errorJSON(w, http.StatusInternalServerError, "export failed")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(year)))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.WarnContext(r.Context(), "Export write interrupted", "error", err)
	}
}

// requestLanguage resolves the ?lang= override, falling back to the
// server's configured language.
func (s *Server) requestLanguage(r *http.Request) locale.Language {
	if v := r.URL.Query().Get("lang"); v != "" {
		if lang, ok := locale.Normalize(v); ok {
			return lang
		}
	}
	return s.lang
}

type reportJSON struct {
	Year             int            `json:"year"`
	Month            int            `json:"month,omitempty"`
	MonthName        string         `json:"month_name,omitempty"`
	TotalIncome      int64          `json:"total_income"`
	TotalExpenditure int64          `json:"total_expenditure"`
	Net              int64          `json:"net"`
	SavingsRate      *float64       `json:"savings_rate,omitempty"`
	Months           []monthJSON    `json:"months,omitempty"`
	TopCategories    []categoryJSON `json:"top_categories"`
}

type monthJSON struct {
	Month       int    `json:"month"`
	Name        string `json:"name"`
	Income      int64  `json:"income"`
	Expenditure int64  `json:"expenditure"`
	Net         int64  `json:"net"`
}

type categoryJSON struct {
	Name   string `json:"name"`
	Amount int64  `json:"amount"`
}

// annualReportJSON flattens a full-year report for the JSON surface.
// Amounts are whole rupiah.
func annualReportJSON(rep core.Report, lang locale.Language) reportJSON {
	out := reportJSON{
		Year:             rep.Year,
		TotalIncome:      rep.Annual.TotalIncome.Rupiah,
		TotalExpenditure: rep.Annual.TotalExpenditure.Rupiah,
		Net:              rep.Annual.Net().Rupiah,
		Months:           make([]monthJSON, 0, 12),
		TopCategories:    categoriesJSON(rep.TopAnnual),
	}
	if rate, ok := rep.Annual.SavingsRate(); ok {
		out.SavingsRate = &rate
	}
	for m := 1; m <= 12; m++ {
		ms := rep.Months[m-1]
		out.Months = append(out.Months, monthJSON{
			Month:       m,
			Name:        locale.MonthName(lang, m),
			Income:      ms.Income.Rupiah,
			Expenditure: ms.Expenditure.Rupiah,
			Net:         ms.Net().Rupiah,
		})
	}
	return out
}

// monthlyReportJSON narrows the report to the requested month.
func monthlyReportJSON(rep core.Report, lang locale.Language) reportJSON {
	if rep.Month < 1 || rep.Month > 12 {
		return annualReportJSON(rep, lang)
	}
	ms := rep.Months[rep.Month-1]
	return reportJSON{
		Year:             rep.Year,
		Month:            rep.Month,
		MonthName:        locale.MonthName(lang, rep.Month),
		TotalIncome:      ms.Income.Rupiah,
		TotalExpenditure: ms.Expenditure.Rupiah,
		Net:              ms.Net().Rupiah,
		TopCategories:    categoriesJSON(rep.TopMonth),
	}
}

func categoriesJSON(top []core.CategoryAmount) []categoryJSON {
	out := make([]categoryJSON, 0, len(top))
	for _, ca := range top {
		out = append(out, categoryJSON{Name: ca.Name, Amount: ca.Amount.Rupiah})
	}
	return out
}
