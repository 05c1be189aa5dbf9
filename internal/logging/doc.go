// Package logging assembles structured slog loggers used across the blueprint
// tooling.
//
// It owns the configurable console/JSON handlers and centralizes level and
// output plumbing. Console output is a single line per record with the
// component pulled to the front; level labels are coloured only when writing
// to a terminal. The package also provides a no-op logger for tests and wiring
// code that cannot fail, and run identifiers for grouping CI output.
package logging
