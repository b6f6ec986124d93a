package store

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
)

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// dialect captures the differences between the SQL backends.
type dialect struct {
	name   string
	serial string // auto-increment primary key column type
	dollar bool   // $1 placeholders instead of ?
}

var (
	sqliteDialect   = dialect{name: "sqlite", serial: "INTEGER PRIMARY KEY AUTOINCREMENT"}
	postgresDialect = dialect{name: "postgres", serial: "BIGSERIAL PRIMARY KEY", dollar: true}
)

// rebind rewrites ? placeholders for the dialect.
func (d dialect) rebind(query string) string {
	if !d.dollar {
		return query
	}
	var b strings.Builder
	n := 0
	for _, c := range query {
		if c == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(c)
	}
	return b.String()
}

// CreateSchema creates the database schema if it doesn't exist.
func CreateSchema(db *sql.DB, d dialect) error {
	// Create schema_version table
	if err := createSchemaVersionTable(db, d); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	// Create main tables
	if err := createDocumentsTable(db); err != nil {
		return fmt.Errorf("creating documents table: %w", err)
	}

	if err := createDiagnosticsTable(db, d); err != nil {
		return fmt.Errorf("creating diagnostics table: %w", err)
	}

	if err := createProvenanceTable(db, d); err != nil {
		return fmt.Errorf("creating provenance table: %w", err)
	}

	return nil
}

func createSchemaVersionTable(db *sql.DB, d dialect) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER NOT NULL
		)
	`)
	if err != nil {
		return err
	}

	// Insert version if table is empty
	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM schema_version").Scan(&count)
	if err != nil {
		return err
	}

	if count == 0 {
		_, err = db.Exec(d.rebind("INSERT INTO schema_version (version) VALUES (?)"), SchemaVersion)
		return err
	}

	return nil
}

func createDocumentsTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS documents (
			id TEXT NOT NULL,
			config_id TEXT NOT NULL,
			size BIGINT NOT NULL,
			PRIMARY KEY (id, config_id)
		)
	`)
	return err
}

func createDiagnosticsTable(db *sql.DB, d dialect) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS diagnostics (
			id ` + d.serial + `,
			structural_id TEXT NOT NULL,
			document_id TEXT NOT NULL,
			path TEXT NOT NULL,
			rule_id TEXT NOT NULL,
			severity TEXT NOT NULL,
			message TEXT NOT NULL,
			attribute TEXT NOT NULL,
			token TEXT NOT NULL,
			offset_start BIGINT NOT NULL,
			offset_end BIGINT NOT NULL,
			start_line INTEGER NOT NULL,
			start_column INTEGER NOT NULL,
			end_line INTEGER NOT NULL,
			end_column INTEGER NOT NULL,
			UNIQUE(structural_id, path)
		)
	`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_diagnostics_document_id ON diagnostics(document_id)
	`)
	return err
}

func createProvenanceTable(db *sql.DB, d dialect) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS provenance (
			id ` + d.serial + `,
			document_id TEXT NOT NULL,
			type TEXT NOT NULL,
			path TEXT NOT NULL DEFAULT '',
			repo_path TEXT NOT NULL DEFAULT '',
			commit_hash TEXT NOT NULL DEFAULT '',
			UNIQUE(document_id, type, path, repo_path, commit_hash)
		)
	`)
	if err != nil {
		return err
	}

	// Create index for efficient provenance lookup by document_id
	_, err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_provenance_document_id ON provenance(document_id)
	`)
	return err
}
