package logging

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// Standardized attribute keys.
const (
	FieldComponent = "component"
	FieldRunID     = "run_id"
	FieldSeries    = "series"
	FieldNumber    = "blueprint_number"
	FieldPath      = "path"
)

func String(key, value string) slog.Attr { return slog.String(key, value) }

func Int(key string, value int) slog.Attr { return slog.Int(key, value) }

func Int64(key string, value int64) slog.Attr { return slog.Int64(key, value) }

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}
	return slog.Any("error", err)
}

// NewNop returns a logger that discards everything.
func NewNop() *slog.Logger {
	return slog.New(NoopHandler{})
}

// NewComponentLogger creates a logger with a standardized component attribute.
// If logger is nil, a no-op logger is used as the base.
func NewComponentLogger(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	return logger.With(String(FieldComponent, component))
}

// WithRunID tags every record with a fresh run identifier so log lines from
// one CI invocation can be grouped. The identifier is returned for reporting.
func WithRunID(logger *slog.Logger) (*slog.Logger, string) {
	if logger == nil {
		logger = NewNop()
	}
	id := uuid.NewString()
	return logger.With(String(FieldRunID, id)), id
}

// NoopHandler discards all log output.
type NoopHandler struct{}

func (NoopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (NoopHandler) Handle(context.Context, slog.Record) error { return nil }
func (h NoopHandler) WithAttrs([]slog.Attr) slog.Handler      { return h }
func (h NoopHandler) WithGroup(string) slog.Handler           { return h }
