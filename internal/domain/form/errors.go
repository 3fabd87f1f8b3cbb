package form

import (
	"errors"
	"strings"
)

// Sentinel kinds for form errors.
var (
	ErrIncomplete = errors.New("all values are required")
	ErrNoStore    = errors.New("form controller needs a row store")
)

// ValidationError lists the fields that were left unset or zero.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return ErrIncomplete.Error() + ": missing " + strings.Join(e.Missing, ", ")
}

// Unwrap lets callers match ErrIncomplete with errors.Is.
func (e *ValidationError) Unwrap() error { return ErrIncomplete }
