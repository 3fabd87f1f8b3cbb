package repository

import (
	"time"

	"github.com/okian/presion/pkg/logger"
	"google.golang.org/api/option"
)

// Option applies a configuration option to the SheetsStore.
type Option func(*SheetsStore)

// WithSpreadsheetID addresses the spreadsheet directly, skipping the Drive lookup.
func WithSpreadsheetID(id string) Option {
	return func(s *SheetsStore) {
		if id != "" {
			s.spreadsheetID = id
		}
	}
}

// WithSpreadsheetName sets the title looked up through Drive.
func WithSpreadsheetName(name string) Option {
	return func(s *SheetsStore) {
		if name != "" {
			s.spreadsheetName = name
		}
	}
}

// WithTimeout bounds every API call. Zero keeps the transport default.
func WithTimeout(d time.Duration) Option {
	return func(s *SheetsStore) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithLogger sets a custom logger for the store.
func WithLogger(l logger.Logger) Option {
	return func(s *SheetsStore) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClientOptions passes options to the Sheets and Drive clients, e.g.
// the service credential from CredentialsOption.
func WithClientOptions(opts ...option.ClientOption) Option {
	return func(s *SheetsStore) {
		s.clientOpts = append(s.clientOpts, opts...)
	}
}
