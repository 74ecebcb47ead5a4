package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"reefficiency/internal/core"
	"reefficiency/internal/locale"
)

type fakeMessages struct {
	lastUserID int64
	lastText   string
	reply      string
}

func (f *fakeMessages) HandleMessage(ctx context.Context, userID int64, text string) string {
	f.lastUserID = userID
	f.lastText = text
	return f.reply
}

type fakeReports struct {
	rep       core.Report
	err       error
	lastYear  int
	lastMonth string
}

func (f *fakeReports) Annual(ctx context.Context, year int) (core.Report, error) {
	f.lastYear = year
	return f.rep, f.err
}

func (f *fakeReports) Monthly(ctx context.Context, year int, monthName string) (core.Report, error) {
	f.lastYear = year
	f.lastMonth = monthName
	return f.rep, f.err
}

type fakePinger struct{ err error }

func (f fakePinger) Ping(ctx context.Context) error { return f.err }

func sampleReport() core.Report {
	cats := core.NewCategoryTotals()
	cats.Add("makanan", 650000)
	cats.Add("transportasi", 350000)

	august := core.MonthlySummary{
		Month:       8,
		Income:      core.Money{Rupiah: 5000000},
		Expenditure: core.Money{Rupiah: 1000000},
		Categories:  cats,
	}

	annual := core.NewAnnualAggregate(2025)
	annual.TotalIncome = august.Income
	annual.TotalExpenditure = august.Expenditure
	annual.ByCategory.Merge(cats)
	annual.Summaries[8] = august

	rep := core.Report{Year: 2025, Annual: annual}
	for m := 1; m <= 12; m++ {
		rep.Months[m-1] = core.EmptyMonthlySummary(m)
	}
	rep.Months[7] = august
	rep.TopAnnual = []core.CategoryAmount{
		{Name: "makanan", Amount: core.Money{Rupiah: 650000}},
		{Name: "transportasi", Amount: core.Money{Rupiah: 350000}},
	}
	rep.Month = 8
	rep.MonthName = "agustus"
	rep.TopMonth = rep.TopAnnual
	return rep
}

func newTestServer(messages MessageHandler, reports ReportSource, ledger Pinger) *Server {
	return NewServer(":0", messages, reports, ledger, locale.Indonesian)
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(&fakeMessages{}, &fakeReports{}, nil)

	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %v", body["status"])
	}
	if body["uptime"] == "" {
		t.Error("uptime missing")
	}
}

func TestReadyEndpoint(t *testing.T) {
	srv := newTestServer(&fakeMessages{}, &fakeReports{}, fakePinger{})

	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}

	var body struct {
		Status string         `json:"status"`
		Checks map[string]any `json:"checks"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status != "ready" {
		t.Errorf("status = %q", body.Status)
	}
	if body.Checks["ledger"] != "ok" {
		t.Errorf("ledger check = %v", body.Checks["ledger"])
	}
}

func TestReadyEndpointLedgerDown(t *testing.T) {
	srv := newTestServer(&fakeMessages{}, &fakeReports{}, fakePinger{err: errors.New("database is locked")})

	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "not_ready") {
		t.Errorf("body = %s", rr.Body.String())
	}
}

func TestReadyEndpointWithoutLedger(t *testing.T) {
	srv := newTestServer(&fakeMessages{}, &fakeReports{}, nil)

	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), "not_configured") {
		t.Errorf("body = %s", rr.Body.String())
	}
}

func TestMessagesEndpoint(t *testing.T) {
	messages := &fakeMessages{reply: "✅ Berhasil dicatat"}
	srv := newTestServer(messages, &fakeReports{}, nil)

	payload := `{"user_id": 7, "text": "/catat pengeluaran makanan 50000"}`
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/messages", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	srv.Handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
	var resp messageResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Reply != "✅ Berhasil dicatat" {
		t.Errorf("reply = %q", resp.Reply)
	}
	if messages.lastUserID != 7 {
		t.Errorf("userID = %d, want 7", messages.lastUserID)
	}
	if messages.lastText != "/catat pengeluaran makanan 50000" {
		t.Errorf("text = %q", messages.lastText)
	}
}

func TestMessagesEndpointValidation(t *testing.T) {
	srv := newTestServer(&fakeMessages{}, &fakeReports{}, nil)

	// Wrong method
	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/messages", nil))
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rr.Code)
	}
	if rr.Header().Get("Allow") != "POST" {
		t.Errorf("Allow = %q", rr.Header().Get("Allow"))
	}

	// Malformed JSON
	rr = httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/v1/messages", strings.NewReader("{not json")))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}

	// Missing user ID
	rr = httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/v1/messages", strings.NewReader(`{"text": "/start"}`)))
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rr.Code)
	}

	// Blank text
	rr = httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/v1/messages", strings.NewReader(`{"user_id": 7, "text": "   "}`)))
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rr.Code)
	}
}

func TestAnnualReportEndpoint(t *testing.T) {
	reports := &fakeReports{rep: sampleReport()}
	srv := newTestServer(&fakeMessages{}, reports, nil)

	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/reports/2025", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
	if reports.lastYear != 2025 {
		t.Errorf("year passed = %d", reports.lastYear)
	}

	var out reportJSON
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Year != 2025 || out.Month != 0 {
		t.Errorf("year/month = %d/%d", out.Year, out.Month)
	}
	if out.TotalIncome != 5000000 || out.TotalExpenditure != 1000000 || out.Net != 4000000 {
		t.Errorf("totals = %d/%d/%d", out.TotalIncome, out.TotalExpenditure, out.Net)
	}
	if out.SavingsRate == nil || *out.SavingsRate != 80 {
		t.Errorf("savings rate = %v", out.SavingsRate)
	}
	if len(out.Months) != 12 {
		t.Fatalf("months = %d", len(out.Months))
	}
	if out.Months[7].Name != "Agustus" || out.Months[7].Income != 5000000 {
		t.Errorf("august row = %+v", out.Months[7])
	}
	if len(out.TopCategories) != 2 || out.TopCategories[0].Name != "makanan" {
		t.Errorf("top categories = %+v", out.TopCategories)
	}
}

func TestMonthlyReportEndpoint(t *testing.T) {
	reports := &fakeReports{rep: sampleReport()}
	srv := newTestServer(&fakeMessages{}, reports, nil)

	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/reports/2025?month=august&lang=en", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
	// Month names are canonicalized before they reach the report source.
	if reports.lastMonth != "Agustus" {
		t.Errorf("month passed = %q", reports.lastMonth)
	}

	var out reportJSON
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Month != 8 || out.MonthName != "August" {
		t.Errorf("month = %d %q", out.Month, out.MonthName)
	}
	if out.TotalExpenditure != 1000000 {
		t.Errorf("expenditure = %d", out.TotalExpenditure)
	}
	if len(out.Months) != 0 {
		t.Errorf("months should be omitted, got %d", len(out.Months))
	}
	if len(out.TopCategories) != 2 {
		t.Errorf("top categories = %+v", out.TopCategories)
	}
}

func TestReportEndpointValidation(t *testing.T) {
	srv := newTestServer(&fakeMessages{}, &fakeReports{rep: sampleReport()}, nil)

	cases := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/api/v1/reports/abc", http.StatusBadRequest},
		{http.MethodGet, "/api/v1/reports/99", http.StatusBadRequest},
		{http.MethodGet, "/api/v1/reports/", http.StatusNotFound},
		{http.MethodGet, "/api/v1/reports/2025/unknown", http.StatusNotFound},
		{http.MethodGet, "/api/v1/reports/2025?month=xyz", http.StatusBadRequest},
		{http.MethodPost, "/api/v1/reports/2025", http.StatusMethodNotAllowed},
	}
	for _, tc := range cases {
		rr := httptest.NewRecorder()
		srv.Handler.ServeHTTP(rr, httptest.NewRequest(tc.method, tc.path, nil))
		if rr.Code != tc.want {
			t.Errorf("%s %s = %d, want %d", tc.method, tc.path, rr.Code, tc.want)
		}
	}
}

func TestReportEndpointBackendError(t *testing.T) {
	srv := newTestServer(&fakeMessages{}, &fakeReports{err: errors.New("sheet unreachable")}, nil)

	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/reports/2025", nil))
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "report assembly failed") {
		t.Errorf("body = %s", rr.Body.String())
	}
}

func TestExportEndpoint(t *testing.T) {
	srv := newTestServer(&fakeMessages{}, &fakeReports{rep: sampleReport()}, nil)

	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/reports/2025/export", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" {
		t.Errorf("Content-Type = %q", ct)
	}
	if cd := rr.Header().Get("Content-Disposition"); !strings.Contains(cd, "laporan-2025.xlsx") {
		t.Errorf("Content-Disposition = %q", cd)
	}

	f, err := excelize.OpenReader(bytes.NewReader(rr.Body.Bytes()))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	got, err := f.GetCellValue("Ringkasan", "A1")
	if err != nil {
		t.Fatalf("read title cell: %v", err)
	}
	if got != "Laporan Tahunan 2025" {
		t.Errorf("title = %q", got)
	}
}
