package sheets

import (
	"context"

	"reefficiency/internal/core"
)

// Ports for outbound adapters.
type (
	// TableReader exposes a snapshot of the backing spreadsheet: the set
	// of worksheet titles and each worksheet's cell grid. The first row of
	// a grid is the header row.
	TableReader interface {
		TableNames(ctx context.Context) ([]string, error)
		ReadTable(ctx context.Context, name string) ([][]string, error)
	}

	// TransactionAppender appends one transaction row to its period
	// worksheet, creating the worksheet and header row when absent.
	TransactionAppender interface {
		Append(ctx context.Context, tx core.Transaction) (rowRef string, err error)
	}

	// DashboardWriter projects an assembled report onto the dashboard
	// worksheet. The report itself stays plain data; only this port knows
	// about cell addresses.
	DashboardWriter interface {
		WriteDashboard(ctx context.Context, rep core.Report) error
	}
)
