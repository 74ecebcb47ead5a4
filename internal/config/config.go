package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP Server
	Port string

	// Database
	SQLiteDBPath string

	// AMQP
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Google Sheets
	GoogleSpreadsheetID string
	DashboardSheetName  string

	// Worksheet header labels. The category, income and expenditure
	// labels double as the required headers the report extractor matches.
	HeaderDate        string
	HeaderCategory    string
	HeaderDescription string
	HeaderIncome      string
	HeaderExpenditure string

	// Chat
	AllowedUserIDs  []int64
	DefaultLanguage string

	// Reports
	ReportTopN     int
	ReportCacheTTL time.Duration

	// Worker
	SyncBatchSize int
	SyncInterval  time.Duration

	// Backend selection
	DataBackend string
}

func Load() *Config {
	cfg := &Config{
		Port:         getEnv("PORT", "8081"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/reefficiency.db"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "reefficiency"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "sync_transactions"),

		GoogleSpreadsheetID: getEnv("GOOGLE_SPREADSHEET_ID", ""),
		DashboardSheetName:  getEnv("DASHBOARD_SHEET_NAME", "Dashboard"),

		HeaderDate:        getEnv("SHEET_HEADER_DATE", "Tanggal"),
		HeaderCategory:    getEnv("SHEET_HEADER_CATEGORY", "Kategori"),
		HeaderDescription: getEnv("SHEET_HEADER_DESCRIPTION", "Deskripsi"),
		HeaderIncome:      getEnv("SHEET_HEADER_INCOME", "Pemasukan"),
		HeaderExpenditure: getEnv("SHEET_HEADER_EXPENDITURE", "Pengeluaran"),

		AllowedUserIDs:  getEnvIDList("ALLOWED_USER_IDS"),
		DefaultLanguage: getEnv("DEFAULT_LANGUAGE", "id"),

		ReportTopN:     getEnvInt("REPORT_TOP_N", 5),
		ReportCacheTTL: getEnvDuration("REPORT_CACHE_TTL", 5*time.Minute),

		SyncBatchSize: getEnvInt("SYNC_BATCH_SIZE", 10),
		SyncInterval:  getEnvDuration("SYNC_INTERVAL", 30*time.Second),

		DataBackend: getEnv("DATA_BACKEND", "memory"),
	}

	return cfg
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Validate port
	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	// Validate data backend
	validBackends := []string{"memory", "sheets"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.DataBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	// Validate SQLite path when a ledger is configured
	if c.SQLiteDBPath != "" {
		dir := filepath.Dir(c.SQLiteDBPath)
		if dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0755); err != nil {
					errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
				}
			}
		}
	}

	// Validate AMQP URL if provided
	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path is required when AMQP is configured: the worker syncs from the local ledger")
		}
	}

	// Validate Google Sheets configuration if backend is sheets
	if c.DataBackend == "sheets" && c.GoogleSpreadsheetID == "" {
		errors = append(errors, "Google Spreadsheet ID is required when using sheets backend")
	}

	// Validate header labels
	headers := map[string]string{
		"SHEET_HEADER_DATE":        c.HeaderDate,
		"SHEET_HEADER_CATEGORY":    c.HeaderCategory,
		"SHEET_HEADER_DESCRIPTION": c.HeaderDescription,
		"SHEET_HEADER_INCOME":      c.HeaderIncome,
		"SHEET_HEADER_EXPENDITURE": c.HeaderExpenditure,
	}
	for key, label := range headers {
		if strings.TrimSpace(label) == "" {
			errors = append(errors, fmt.Sprintf("%s cannot be empty", key))
		}
	}

	// Validate language
	if c.DefaultLanguage != "id" && c.DefaultLanguage != "en" {
		errors = append(errors, fmt.Sprintf("invalid default language '%s': must be 'id' or 'en'", c.DefaultLanguage))
	}

	// Validate report configuration
	if c.ReportTopN < 1 {
		errors = append(errors, fmt.Sprintf("invalid report top N %d: must be at least 1", c.ReportTopN))
	} else if c.ReportTopN > 50 {
		errors = append(errors, fmt.Sprintf("invalid report top N %d: must be at most 50", c.ReportTopN))
	}
	if c.ReportCacheTTL < 0 {
		errors = append(errors, fmt.Sprintf("invalid report cache TTL %v: must not be negative", c.ReportCacheTTL))
	}

	// Validate worker configuration
	if c.SyncBatchSize < 1 {
		errors = append(errors, fmt.Sprintf("invalid sync batch size %d: must be at least 1", c.SyncBatchSize))
	} else if c.SyncBatchSize > 1000 {
		errors = append(errors, fmt.Sprintf("invalid sync batch size %d: must be at most 1000", c.SyncBatchSize))
	}

	if c.SyncInterval < time.Second {
		errors = append(errors, fmt.Sprintf("invalid sync interval %v: must be at least 1 second", c.SyncInterval))
	} else if c.SyncInterval > 24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid sync interval %v: must be at most 24 hours", c.SyncInterval))
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// getEnvIDList parses a comma-separated list of numeric ids, skipping
// entries that do not parse. An unset variable yields an empty list, which
// the chat layer treats as "deny everyone".
func getEnvIDList(key string) []int64 {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	var ids []int64
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if id, err := strconv.ParseInt(part, 10, 64); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}
