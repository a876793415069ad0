package repository

import "errors"

// Sentinel kinds for storage errors.
var (
	ErrUnavailable       = errors.New("storage unavailable")
	ErrUnsupportedDriver = errors.New("unsupported storage driver")
	ErrInvalidKey        = errors.New("invalid storage key")
)
