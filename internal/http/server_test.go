package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestSecurityHeaders(t *testing.T) {
	srv := newTestServer(&fakeMessages{}, &fakeReports{rep: sampleReport()}, nil)

	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/reports/2025", nil))

	headers := map[string]string{
		"X-Content-Type-Options":  "nosniff",
		"X-Frame-Options":         "DENY",
		"Content-Security-Policy": "default-src 'none'",
		"Referrer-Policy":         "strict-origin-when-cross-origin",
	}
	for name, want := range headers {
		if got := rr.Header().Get(name); got != want {
			t.Errorf("%s = %q, want %q", name, got, want)
		}
	}
}

func TestRateLimitsPostRequests(t *testing.T) {
	srv := newTestServer(&fakeMessages{reply: "ok"}, &fakeReports{}, nil)

	post := func() *httptest.ResponseRecorder {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/messages", strings.NewReader(`{"user_id": 7, "text": "/start"}`))
		srv.Handler.ServeHTTP(rr, req)
		return rr
	}

	for i := 0; i < 60; i++ {
		if rr := post(); rr.Code != http.StatusOK {
			t.Fatalf("request %d status = %d, body = %s", i+1, rr.Code, rr.Body.String())
		}
	}

	rr := post()
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rr.Code)
	}
	if rr.Header().Get("Retry-After") != "60" {
		t.Errorf("Retry-After = %q", rr.Header().Get("Retry-After"))
	}

	// GET requests are not rate limited.
	get := httptest.NewRecorder()
	srv.Handler.ServeHTTP(get, httptest.NewRequest(http.MethodGet, "/api/v1/reports/2025", nil))
	if get.Code == http.StatusTooManyRequests {
		t.Error("GET request was rate limited")
	}
}

func TestShutdownIsIdempotent(t *testing.T) {
	srv := newTestServer(&fakeMessages{}, &fakeReports{}, nil)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		t.Fatalf("first shutdown: %v", err)
	}
	if err := srv.Shutdown(ctx); err != nil {
		t.Fatalf("second shutdown: %v", err)
	}
}
