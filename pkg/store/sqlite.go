package store

import (
	_ "modernc.org/sqlite"
)

// NewSQLite creates a SQLite-based store.
// Use ":memory:" for an in-memory database (useful for testing).
func NewSQLite(path string) (*SQLStore, error) {
	// SQLite has a single writer, and a ":memory:" database exists only
	// on the connection that created it.
	return openSQL("sqlite", path, sqliteDialect, 1)
}
