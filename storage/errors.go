package storage

import "errors"

// Common storage errors.
var (
	// ErrNotFound is returned when a store file or a record is not found.
	ErrNotFound = errors.New("not found")
)
