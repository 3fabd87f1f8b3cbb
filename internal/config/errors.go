package config

import (
	"errors"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrInvalidConfig  = errors.New("invalid config")
	ErrLoadConfig     = errors.New("load config failed")
	ErrNoCredentials  = errors.New("service credential is required")
	ErrReadCredential = errors.New("read service credential")
)
