package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"reefficiency/internal/cache"
	"reefficiency/internal/core"
	"reefficiency/internal/locale"
	"reefficiency/internal/report"
)

// ErrUnknownMonth is returned when a month name resolves in neither
// supported language.
var ErrUnknownMonth = errors.New("unknown month name")

// ReportService serves assembled reports through an LRU cache. Reading a
// year means a full snapshot of its period tables, so cached results are
// kept until the TTL runs out or a new transaction invalidates the year.
type ReportService struct {
	assembler *report.Assembler
	cache     *cache.LRUCache[core.Report]
}

func NewReportService(assembler *report.Assembler, cacheSize int, ttl time.Duration) *ReportService {
	return &ReportService{
		assembler: assembler,
		cache:     cache.NewLRUCache[core.Report](cacheSize, ttl),
	}
}

// Annual returns the full-year report.
func (s *ReportService) Annual(ctx context.Context, year int) (core.Report, error) {
	return s.get(ctx, year, "")
}

// Monthly returns the annual report focused on one month. The month name
// may be Indonesian or English, case-insensitive.
func (s *ReportService) Monthly(ctx context.Context, year int, monthName string) (core.Report, error) {
	if _, ok := locale.MonthNumber(monthName); !ok {
		return core.Report{}, fmt.Errorf("%w: %q", ErrUnknownMonth, monthName)
	}
	return s.get(ctx, year, monthName)
}

func (s *ReportService) get(ctx context.Context, year int, monthName string) (core.Report, error) {
	key := cacheKey(year, monthName)
	if rep, ok := s.cache.Get(key); ok {
		slog.DebugContext(ctx, "Report served from cache", "key", key)
		return rep, nil
	}

	rep, err := s.assembler.Assemble(ctx, year, monthName)
	if err != nil {
		return core.Report{}, err
	}

	s.cache.Set(key, rep)
	return rep, nil
}

// InvalidateYear drops every cached report for the year, annual and
// monthly alike. RecordService calls this after each write.
func (s *ReportService) InvalidateYear(year int) {
	if n := s.cache.DeletePrefix(fmt.Sprintf("%d:", year)); n > 0 {
		slog.Debug("Invalidated cached reports", "year", year, "count", n)
	}
}

// CacheStats reports the number of cached reports, for the status surface.
func (s *ReportService) CacheStats() int {
	return s.cache.Size()
}

// Cleaner exposes the underlying cache for the cleanup manager.
func (s *ReportService) Cleaner() cache.Cleaner {
	return s.cache
}

func cacheKey(year int, monthName string) string {
	if monthName == "" {
		return fmt.Sprintf("%d:annual", year)
	}
	m, _ := locale.MonthNumber(monthName)
	return fmt.Sprintf("%d:%d", year, m)
}
