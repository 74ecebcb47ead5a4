// Package memory is the in-memory spreadsheet used by tests and the
// "memory" data backend. It keeps worksheet grids in a map and implements
// the same ports as the Google adapter.
package memory

import (
	"context"
	"fmt"
	"sync"

	"reefficiency/internal/core"
	"reefficiency/internal/sheets"
)

type Store struct {
	mu        sync.Mutex
	cols      sheets.Columns
	order     []string
	tables    map[string][][]string
	dashboard *core.Report
}

var (
	_ sheets.TableReader         = (*Store)(nil)
	_ sheets.TransactionAppender = (*Store)(nil)
	_ sheets.DashboardWriter     = (*Store)(nil)
)

func New(cols sheets.Columns) *Store {
	return &Store{cols: cols, tables: make(map[string][][]string)}
}

// SeedTable installs a worksheet with the given grid, replacing any
// existing content. Mainly for tests.
func (s *Store) SeedTable(name string, grid [][]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tables[name]; !ok {
		s.order = append(s.order, name)
	}
	s.tables[name] = copyGrid(grid)
}

// TableNames lists worksheets in creation order.
func (s *Store) TableNames(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.order...), nil
}

// ReadTable returns a copy of the worksheet's grid.
func (s *Store) ReadTable(_ context.Context, name string) ([][]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	grid, ok := s.tables[name]
	if !ok {
		return nil, fmt.Errorf("table %q not found", name)
	}
	return copyGrid(grid), nil
}

// Append writes the transaction into its period worksheet, creating the
// worksheet with a header row when it does not exist yet.
func (s *Store) Append(_ context.Context, tx core.Transaction) (string, error) {
	if err := tx.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	name := tx.PeriodName()
	grid, ok := s.tables[name]
	if !ok {
		s.order = append(s.order, name)
	}
	if len(grid) == 0 {
		grid = [][]string{s.cols.Header()}
	}
	grid = append(grid, s.cols.Row(grid[0], tx))
	s.tables[name] = grid
	return fmt.Sprintf("mem:%s:%d", name, len(grid)), nil
}

// WriteDashboard keeps the latest projected report.
func (s *Store) WriteDashboard(_ context.Context, rep core.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dashboard = &rep
	return nil
}

// Dashboard returns the last report written through WriteDashboard, or
// nil when none was written yet.
func (s *Store) Dashboard() *core.Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dashboard
}

func copyGrid(grid [][]string) [][]string {
	out := make([][]string, len(grid))
	for i, row := range grid {
		out[i] = append([]string(nil), row...)
	}
	return out
}
