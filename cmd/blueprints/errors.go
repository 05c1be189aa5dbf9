package main

import (
	"errors"

	"blueprints/internal/reconcile"
	"blueprints/internal/store"
)

// kindError is implemented by errors that classify themselves.
type kindError interface {
	ErrorKind() string
}

// errorKind names the failure class of err for exit reporting.
func errorKind(err error) string {
	var classified kindError
	switch {
	case errors.As(err, &classified):
		return classified.ErrorKind()
	case errors.Is(err, store.ErrNotFound):
		return "lookup"
	case errors.Is(err, store.ErrSetTooSmall), errors.Is(err, store.ErrSetName):
		return "set"
	case errors.Is(err, store.ErrSchemaMismatch):
		return "schema"
	case errors.Is(err, reconcile.ErrMissingRoot), errors.Is(err, reconcile.ErrEmptyTree):
		return "tree"
	default:
		return "internal"
	}
}
