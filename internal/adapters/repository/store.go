// Package repository implements the Row Store: an append-only table of
// blood-pressure records kept in a Google spreadsheet, plus an in-memory
// variant for tests and local runs.
package repository

import (
	"context"

	"github.com/okian/presion/internal/domain/model"
)

// Store provides append and full-read access to the records.
type Store interface {
	// Append adds one record at the end of the table.
	Append(ctx context.Context, r model.Record) error

	// All returns every record in the order the backend yields them.
	// Any undecodable row fails the whole read with a *ParseError.
	All(ctx context.Context) ([]model.Record, error)
}
