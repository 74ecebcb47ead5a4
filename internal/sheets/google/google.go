// Package google adapts the Google Sheets API to the sheets ports. One
// worksheet per period table, named M/YY, plus a dashboard worksheet the
// report gets projected onto.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"reefficiency/internal/core"
	ports "reefficiency/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

type Client struct {
	svc            *gsheet.Service
	spreadsheetID  string
	cols           ports.Columns
	dashboardSheet string
}

// Ensure interface conformance
var (
	_ ports.TableReader         = (*Client)(nil)
	_ ports.TransactionAppender = (*Client)(nil)
	_ ports.DashboardWriter     = (*Client)(nil)
)

// NewFromEnv creates a Sheets client from environment variables.
// Required: GOOGLE_SPREADSHEET_ID.
// Credentials: GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or
// GOOGLE_APPLICATION_CREDENTIALS.
// Optional: DASHBOARD_SHEET_NAME (default "Dashboard").
func NewFromEnv(ctx context.Context, cols ports.Columns) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	dashboard := strings.TrimSpace(os.Getenv("DASHBOARD_SHEET_NAME"))
	if dashboard == "" {
		dashboard = "Dashboard"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:            svc,
		spreadsheetID:  spreadsheetID,
		cols:           cols,
		dashboardSheet: dashboard,
	}, nil
}

// newSheetsService initializes a Sheets Service using Service Account
// credentials from GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE
// or GOOGLE_APPLICATION_CREDENTIALS.
func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error
	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

// TableNames lists all worksheet titles in sheet order.
func (c *Client) TableNames(ctx context.Context) ([]string, error) {
	if c.svc == nil {
		return nil, errors.New("sheets service not initialized")
	}
	resp, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("get spreadsheet: %w", err)
	}
	names := make([]string, 0, len(resp.Sheets))
	for _, sh := range resp.Sheets {
		if sh.Properties != nil {
			names = append(names, sh.Properties.Title)
		}
	}
	return names, nil
}

// SpreadsheetTitle returns the document title, mainly for setup checks.
func (c *Client) SpreadsheetTitle(ctx context.Context) (string, error) {
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}
	resp, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("get spreadsheet: %w", err)
	}
	if resp.Properties == nil {
		return "", nil
	}
	return resp.Properties.Title, nil
}

// ReadTable returns the worksheet's used range as strings.
func (c *Client) ReadTable(ctx context.Context, name string) ([][]string, error) {
	if c.svc == nil {
		return nil, errors.New("sheets service not initialized")
	}
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, quoteSheet(name)).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	grid := make([][]string, len(resp.Values))
	for i, row := range resp.Values {
		grid[i] = toStrings(row)
	}
	return grid, nil
}

// Append writes the transaction into its period worksheet. The worksheet
// and its header row are created on first use, and the row is laid out
// against whatever header the worksheet actually has.
func (c *Client) Append(ctx context.Context, tx core.Transaction) (string, error) {
	if err := tx.Validate(); err != nil {
		return "", fmt.Errorf("validation failed: %w", err)
	}
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}

	name := tx.PeriodName()
	headers, err := c.headerRow(ctx, name)
	if err != nil {
		if !isMissingSheetErr(err) {
			return "", fmt.Errorf("read header of %s: %w", name, err)
		}
		if err := c.addSheet(ctx, name); err != nil {
			return "", fmt.Errorf("create period table %s: %w", name, err)
		}
		slog.InfoContext(ctx, "Created period table", "table", name)
		headers = nil
	}
	if len(headers) == 0 {
		headers = c.cols.Header()
		if _, err := c.appendRow(ctx, name, toAnys(headers)); err != nil {
			return "", fmt.Errorf("write header of %s: %w", name, err)
		}
	}

	ref, err := c.appendRow(ctx, name, toAnys(c.cols.Row(headers, tx)))
	if err != nil {
		return "", fmt.Errorf("append to %s: %w", name, err)
	}
	return ref, nil
}

// EnsureTable creates the named worksheet if it does not exist. withHeader
// additionally writes the standard header row into a freshly created
// worksheet. Reports whether a worksheet was created.
func (c *Client) EnsureTable(ctx context.Context, name string, withHeader bool) (bool, error) {
	if c.svc == nil {
		return false, errors.New("sheets service not initialized")
	}
	names, err := c.TableNames(ctx)
	if err != nil {
		return false, err
	}
	for _, existing := range names {
		if existing == name {
			return false, nil
		}
	}
	if err := c.addSheet(ctx, name); err != nil {
		return false, fmt.Errorf("create table %s: %w", name, err)
	}
	if withHeader {
		if _, err := c.appendRow(ctx, name, toAnys(c.cols.Header())); err != nil {
			return false, fmt.Errorf("write header of %s: %w", name, err)
		}
	}
	return true, nil
}

func (c *Client) headerRow(ctx context.Context, name string) ([]string, error) {
	rng := fmt.Sprintf("%s!1:1", quoteSheet(name))
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	if len(resp.Values) == 0 {
		return nil, nil
	}
	return toStrings(resp.Values[0]), nil
}

func (c *Client) addSheet(ctx context.Context, name string) error {
	req := &gsheet.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheet.Request{{
			AddSheet: &gsheet.AddSheetRequest{
				Properties: &gsheet.SheetProperties{Title: name},
			},
		}},
	}
	_, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do()
	return err
}

func (c *Client) appendRow(ctx context.Context, name string, row []any) (string, error) {
	rng := fmt.Sprintf("%s!A1", quoteSheet(name))
	vr := &gsheet.ValueRange{Values: [][]any{row}}
	resp, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return "", err
	}
	if resp.Updates != nil && resp.Updates.UpdatedRange != "" {
		return resp.Updates.UpdatedRange, nil
	}
	return name, nil
}

// isMissingSheetErr recognizes the API's response to a range naming a
// worksheet that does not exist.
func isMissingSheetErr(err error) bool {
	return err != nil && strings.Contains(err.Error(), "Unable to parse range")
}

// quoteSheet wraps a worksheet title in single quotes for A1 notation,
// doubling embedded quotes. Period table names contain a slash, which the
// API refuses without quoting.
func quoteSheet(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

func toStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}

func toAnys(in []string) []any {
	out := make([]any, len(in))
	for i, v := range in {
		out[i] = v
	}
	return out
}
