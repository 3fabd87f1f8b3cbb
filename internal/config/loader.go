package config

import (
	"context"
	"fmt"
	"os"
	"strings"
	_ "time/tzdata" // time_zone must resolve without a system zoneinfo

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/okian/presion/pkg/i18n"
)

// Environment variable prefix and the variable naming the YAML file.
const (
	envPrefix  = "PRESION_"
	envFileVar = "PRESION_CONFIG"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New(ctx))
//  2. file (YAML) if PRESION_CONFIG is set
//  3. env (prefix PRESION_)
func Load(ctx context.Context) (*Config, error) {
	base := New(ctx)

	k := koanf.New(".")

	if path := os.Getenv(envFileVar); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// PRESION_ROW_STORE -> row_store; underscores are kept to match koanf tags.
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, strings.ToLower(envPrefix))
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings the process cannot start without.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	switch c.RowStore {
	case RowStoreSheets:
		if c.CredentialsJSON == "" && c.CredentialsFile == "" {
			return fmt.Errorf("%w: %w: set credentials_json or credentials_file", ErrInvalidConfig, ErrNoCredentials)
		}
		if c.SpreadsheetID == "" && c.SpreadsheetName == "" {
			return fmt.Errorf("%w: spreadsheet_id or spreadsheet_name must be set", ErrInvalidConfig)
		}
	case RowStoreMemory:
	default:
		return fmt.Errorf("%w: unknown row_store %q", ErrInvalidConfig, c.RowStore)
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("%w: time_zone: %w", ErrInvalidConfig, err)
	}
	if !i18n.Supported(c.Locale) {
		return fmt.Errorf("%w: unknown locale %q", ErrInvalidConfig, c.Locale)
	}
	return nil
}

// Credentials returns the service-account key, preferring the inline JSON.
func (c *Config) Credentials() ([]byte, error) {
	if c.CredentialsJSON != "" {
		return []byte(c.CredentialsJSON), nil
	}
	if c.CredentialsFile == "" {
		return nil, ErrNoCredentials
	}
	b, err := os.ReadFile(c.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadCredential, err)
	}
	return b, nil
}
