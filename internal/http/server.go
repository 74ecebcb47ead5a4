// Package http serves the REST surface of the reporting engine: chat
// message intake, report JSON, and XLSX export downloads.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"reefficiency/internal/core"
	"reefficiency/internal/locale"
)

// MessageHandler processes one inbound chat message and returns the
// localized reply text.
type MessageHandler interface {
	HandleMessage(ctx context.Context, userID int64, text string) string
}

// ReportSource assembles reports for the JSON and export endpoints.
type ReportSource interface {
	Annual(ctx context.Context, year int) (core.Report, error)
	Monthly(ctx context.Context, year int, monthName string) (core.Report, error)
}

// Pinger verifies that a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	http.Server
	messages MessageHandler
	reports  ReportSource
	ledger   Pinger
	lang     locale.Language

	rateLimiter *rateLimiter
	secMetrics  *securityMetrics
	startedAt   time.Time

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run
// http.Server. The ledger pinger may be nil when no store backs the
// deployment (memory backend).
func NewServer(addr string, messages MessageHandler, reports ReportSource, ledger Pinger, lang locale.Language) *Server {
	if lang == "" {
		lang = locale.Default
	}

	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		messages:    messages,
		reports:     reports,
		ledger:      ledger,
		lang:        lang,
		rateLimiter: newRateLimiter(),
		secMetrics:  &securityMetrics{},
		startedAt:   time.Now(),
	}

	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)
	mux.HandleFunc("/api/v1/messages", s.withSecurityHeaders(s.handleMessage))
	mux.HandleFunc("/api/v1/reports/", s.withSecurityHeaders(s.handleReports))

	return s
}

// withSecurityHeaders adds security headers, rate limiting, and request
// logging to responses.
func (s *Server) withSecurityHeaders(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := extractClientIP(r)

		// Generate request ID for tracing
		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"client_ip", clientIP,
			"user_agent", r.Header.Get("User-Agent"))

		if detectSuspiciousRequest(r, s.secMetrics) {
			slog.WarnContext(ctx, "Suspicious request pattern",
				"request_id", requestID,
				"client_ip", clientIP,
				"url", r.URL.String())
		}

		// Apply rate limiting to POST requests (message intake)
		if r.Method == http.MethodPost && !s.rateLimiter.allow(clientIP, s.secMetrics) {
			slog.WarnContext(ctx, "Rate limit exceeded", "client_ip", clientIP, "method", r.Method, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			errorJSON(w, http.StatusTooManyRequests, "rate limit exceeded, try again later")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'none'")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		// Capture status code for the completion log
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		duration := time.Since(start)
		slog.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds(),
			"client_ip", clientIP)
	}
}

type contextKey string

// requestIDKey carries the generated request ID through handler contexts.
const requestIDKey contextKey = "request_id"

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}
