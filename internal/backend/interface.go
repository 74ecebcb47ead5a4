package backend

import (
	"context"

	"reefficiency/internal/sheets"
)

// Backend bundles the spreadsheet ports a deployment runs against.
type Backend interface {
	sheets.TableReader
	sheets.TransactionAppender
	sheets.DashboardWriter
}

// CleanupFunc represents a cleanup function for backend resources.
type CleanupFunc func() error

// BackendResult contains the backend instance and optional cleanup function.
type BackendResult struct {
	Backend Backend
	Cleanup CleanupFunc
}

// Factory creates backends based on configuration.
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation.
type Config struct {
	Type BackendType

	// Worksheet header labels shared by the write and report paths.
	Columns sheets.Columns

	// Google Sheets specific
	SpreadsheetID string
}

// BackendType represents the type of backend.
type BackendType string

const (
	SheetsBackend BackendType = "sheets"
	MemoryBackend BackendType = "memory"
)

// String implements fmt.Stringer.
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid.
func (bt BackendType) IsValid() bool {
	switch bt {
	case SheetsBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
