// Package store persists lint runs: documents, where they were found and
// the diagnostics reported for them.
package store

import (
	"fmt"
	"strings"

	"github.com/praetorian-inc/lintel/pkg/types"
)

// Store provides persistence for lint results.
// This interface abstracts the underlying storage implementation,
// allowing for different backends (memory, SQLite, PostgreSQL).
type Store interface {
	// AddDocument records that a document was linted under configID.
	AddDocument(id types.DocumentID, size int64, configID string) error

	// DocumentLinted checks if a document was already linted under configID.
	DocumentLinted(id types.DocumentID, configID string) (bool, error)

	// AddProvenance associates provenance with a document.
	AddProvenance(id types.DocumentID, prov types.Provenance) error

	// GetProvenance returns every recorded location of a document.
	GetProvenance(id types.DocumentID) ([]types.Provenance, error)

	// AddDiagnostic stores a diagnostic, deduplicated by structural ID and path.
	AddDiagnostic(d *types.Diagnostic) error

	// GetDiagnostics retrieves all diagnostics sorted by path and position.
	GetDiagnostics() ([]*types.Diagnostic, error)

	// GetDocumentDiagnostics retrieves the diagnostics of one document.
	GetDocumentDiagnostics(id types.DocumentID) ([]*types.Diagnostic, error)

	// Close closes the database connection.
	Close() error
}

// Config for store initialization.
type Config struct {
	// Path is the database file path or a postgres:// connection string.
	// Use ":memory:" for an in-memory store (useful for testing).
	Path string
}

// New creates a store for cfg.Path:
// ":memory:" returns a MemoryStore, postgres:// and postgresql:// URLs a
// PostgreSQL store, anything else a SQLite database file.
func New(cfg Config) (Store, error) {
	switch {
	case cfg.Path == "":
		return nil, fmt.Errorf("path is required")
	case cfg.Path == ":memory:":
		return NewMemory(), nil
	case IsPostgresDSN(cfg.Path):
		return NewPostgres(cfg.Path)
	default:
		return NewSQLite(cfg.Path)
	}
}

// IsPostgresDSN reports whether path is a PostgreSQL connection URL.
func IsPostgresDSN(path string) bool {
	return strings.HasPrefix(path, "postgres://") || strings.HasPrefix(path, "postgresql://")
}
