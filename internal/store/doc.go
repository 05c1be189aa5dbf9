// Package store persists series, blueprints, and sets in SQLite.
//
// A Store owns the database handle; all reads and writes go through a Tx so
// that a blueprint is either created completely or not at all. The schema is
// built from the ordered migrations embedded in the binary and recorded in
// schema_migrations.
package store
