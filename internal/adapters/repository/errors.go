package repository

import (
	"errors"
	"fmt"
)

// Sentinel kinds for row store errors.
var (
	ErrAppend              = errors.New("append row failed")
	ErrFetch               = errors.New("fetch rows failed")
	ErrParse               = errors.New("decode rows failed")
	ErrSpreadsheetNotFound = errors.New("spreadsheet not found")
	ErrNoWorksheet         = errors.New("spreadsheet has no worksheet")
	ErrCredentials         = errors.New("invalid service credential")
)

// ParseError reports a row that cannot be turned into a Record. Row is the
// 1-based sheet row (the header is row 1); it is 0 for header problems.
type ParseError struct {
	Row    int
	Column string
	Value  any
	Err    error
}

func (e *ParseError) Error() string {
	if e.Row == 0 {
		return fmt.Sprintf("%s: column %q: %v", ErrParse, e.Column, e.Err)
	}
	return fmt.Sprintf("%s: row %d column %q value %v: %v", ErrParse, e.Row, e.Column, e.Value, e.Err)
}

// Is lets callers match ErrParse with errors.Is.
func (e *ParseError) Is(target error) bool { return target == ErrParse }

func (e *ParseError) Unwrap() error { return e.Err }

func wrapKind(kind, err error) error {
	return fmt.Errorf("%w: %w", kind, err)
}
