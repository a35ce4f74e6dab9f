package storage

import "errors"

var (
	// ErrNotFound is returned when a row lookup by key matches nothing.
	ErrNotFound = errors.New("storage: row not found")
	// ErrDuplicate is returned when an insert violates a unique constraint.
	ErrDuplicate = errors.New("storage: duplicate key")
)
