package storage

import "errors"

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrOverlap is returned when a planning write would overlap another
	// planning of the same family.
	ErrOverlap = errors.New("planning overlaps an existing planning")
)
