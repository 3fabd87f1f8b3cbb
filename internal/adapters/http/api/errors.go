package api

import (
	"errors"
	"fmt"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest = errors.New("bad request")
	ErrValidation = errors.New("validation failed")
	ErrRowStore   = errors.New("row store unavailable")
)

// NewKind reports kind at op.
func NewKind(op string, kind error) error {
	return fmt.Errorf("%s: %w", op, kind)
}

// WrapKind reports kind at op with err as the cause. Both stay visible to
// errors.Is.
func WrapKind(op string, kind, err error) error {
	return fmt.Errorf("%s: %w: %w", op, kind, err)
}

// Wrap annotates err with op.
func Wrap(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}
