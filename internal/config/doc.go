// Package config loads, normalizes, and validates blueprint tooling
// configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// BLUEPRINTS_DIR and BLUEPRINTS_DATABASE so CI jobs can point the tooling at a
// checkout without writing a config file.
//
// Always obtain settings through this package so downstream code receives
// absolute paths and clear validation errors.
package config
