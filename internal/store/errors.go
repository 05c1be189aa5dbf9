package store

import "errors"

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("not found")
	// ErrSetTooSmall is returned for a set with fewer than two distinct blueprints.
	ErrSetTooSmall = errors.New("a set needs at least two distinct blueprints")
	// ErrSetName is returned for a set whose name is shorter than three characters.
	ErrSetName = errors.New("set name must be at least three characters")
	// ErrSchemaMismatch indicates the database was migrated by a newer build.
	ErrSchemaMismatch = errors.New("schema version mismatch")
)
