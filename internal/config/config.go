// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - Load layers defaults, an optional YAML file and PRESION_* env vars.
// - External errors are wrapped with this package's sentinel kinds.
package config

import (
	"context"
	"time"
)

// Row Store backends.
const (
	RowStoreSheets = "sheets"
	RowStoreMemory = "memory"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// RowStore selects the backend: "sheets" or "memory".
	RowStore string `koanf:"row_store"`

	// SpreadsheetID addresses the sheet directly and skips the Drive lookup.
	SpreadsheetID string `koanf:"spreadsheet_id"`

	// SpreadsheetName is looked up through Drive when SpreadsheetID is empty.
	SpreadsheetName string `koanf:"spreadsheet_name"`

	// CredentialsFile points at a service-account JSON key.
	CredentialsFile string `koanf:"credentials_file"`

	// CredentialsJSON holds the service-account key inline; it wins over
	// CredentialsFile.
	CredentialsJSON string `koanf:"credentials_json"`

	// TimeZone is the zone entry times are recorded in.
	TimeZone string `koanf:"time_zone"`

	// Locale selects the UI language: es or en.
	Locale string `koanf:"locale"`

	// RowStoreTimeoutMS bounds each row store call; 0 leaves the transport default.
	RowStoreTimeoutMS int `koanf:"row_store_timeout_ms"`
}

// New creates a Config with defaults. Context is accepted first to
// satisfy the project-wide convention and is currently unused.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:        "info",
		LogFormat:       "text",
		Addr:            ":9080",
		RowStore:        RowStoreSheets,
		SpreadsheetName: "registro_presion",
		TimeZone:        "America/Santiago",
		Locale:          "es",
	}
}

// RowStoreTimeout returns the per-call timeout, zero when unset.
func (c *Config) RowStoreTimeout() time.Duration {
	if c.RowStoreTimeoutMS <= 0 {
		return 0
	}
	return time.Duration(c.RowStoreTimeoutMS) * time.Millisecond
}

// Location resolves TimeZone.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.TimeZone)
}
