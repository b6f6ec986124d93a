package store

import (
	"database/sql"
	"fmt"

	"github.com/praetorian-inc/lintel/pkg/types"
)

// SQLStore implements Store on database/sql. The SQLite and PostgreSQL
// backends differ only in driver and dialect.
type SQLStore struct {
	db      *sql.DB
	dialect dialect
}

func openSQL(driver, dsn string, d dialect, maxOpenConns int) (*SQLStore, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if maxOpenConns > 0 {
		db.SetMaxOpenConns(maxOpenConns)
	}

	// Initialize schema
	if err := CreateSchema(db, d); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &SQLStore{db: db, dialect: d}, nil
}

func (s *SQLStore) exec(query string, args ...any) (sql.Result, error) {
	return s.db.Exec(s.dialect.rebind(query), args...)
}

func (s *SQLStore) query(query string, args ...any) (*sql.Rows, error) {
	return s.db.Query(s.dialect.rebind(query), args...)
}

// AddDocument records a linted document.
func (s *SQLStore) AddDocument(id types.DocumentID, size int64, configID string) error {
	_, err := s.exec(`
		INSERT INTO documents (id, config_id, size) VALUES (?, ?, ?)
		ON CONFLICT DO NOTHING
	`, id.Hex(), configID, size)
	if err != nil {
		return fmt.Errorf("inserting document: %w", err)
	}
	return nil
}

// DocumentLinted checks if a document was linted under configID.
func (s *SQLStore) DocumentLinted(id types.DocumentID, configID string) (bool, error) {
	var count int
	err := s.db.QueryRow(s.dialect.rebind("SELECT COUNT(*) FROM documents WHERE id = ? AND config_id = ?"),
		id.Hex(), configID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking document existence: %w", err)
	}
	return count > 0, nil
}

// AddProvenance associates provenance with a document.
func (s *SQLStore) AddProvenance(id types.DocumentID, prov types.Provenance) error {
	rec := toProvenanceRecord(prov)
	_, err := s.exec(`
		INSERT INTO provenance (document_id, type, path, repo_path, commit_hash)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING
	`, id.Hex(), rec.kind, rec.path, rec.repoPath, rec.commitHash)
	if err != nil {
		return fmt.Errorf("inserting provenance: %w", err)
	}
	return nil
}

// GetProvenance returns the recorded locations of a document.
func (s *SQLStore) GetProvenance(id types.DocumentID) ([]types.Provenance, error) {
	rows, err := s.query(`
		SELECT type, path, repo_path, commit_hash
		FROM provenance
		WHERE document_id = ?
		ORDER BY id
	`, id.Hex())
	if err != nil {
		return nil, fmt.Errorf("querying provenance: %w", err)
	}
	defer rows.Close()

	var out []types.Provenance
	for rows.Next() {
		var rec provenanceRecord
		if err := rows.Scan(&rec.kind, &rec.path, &rec.repoPath, &rec.commitHash); err != nil {
			return nil, fmt.Errorf("scanning provenance: %w", err)
		}
		prov, err := rec.provenance()
		if err != nil {
			return nil, err
		}
		out = append(out, prov)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating provenance: %w", err)
	}
	return out, nil
}

// AddDiagnostic stores a diagnostic (deduplicated).
func (s *SQLStore) AddDiagnostic(d *types.Diagnostic) error {
	loc := d.Location
	_, err := s.exec(`
		INSERT INTO diagnostics (
			structural_id, document_id, path, rule_id, severity, message, attribute, token,
			offset_start, offset_end, start_line, start_column, end_line, end_column
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING
	`,
		d.StructuralID,
		d.DocumentID.Hex(),
		d.Path,
		d.RuleID,
		string(d.Severity),
		d.Message,
		d.Attribute,
		d.Token,
		loc.Offset.Start,
		loc.Offset.End,
		loc.Source.Start.Line,
		loc.Source.Start.Column,
		loc.Source.End.Line,
		loc.Source.End.Column,
	)
	if err != nil {
		return fmt.Errorf("inserting diagnostic: %w", err)
	}
	return nil
}

const selectDiagnostics = `
	SELECT structural_id, document_id, path, rule_id, severity, message, attribute, token,
		offset_start, offset_end, start_line, start_column, end_line, end_column
	FROM diagnostics
`

// GetDiagnostics retrieves all diagnostics.
func (s *SQLStore) GetDiagnostics() ([]*types.Diagnostic, error) {
	rows, err := s.query(selectDiagnostics + " ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("querying diagnostics: %w", err)
	}
	return scanDiagnostics(rows)
}

// GetDocumentDiagnostics retrieves the diagnostics of one document.
func (s *SQLStore) GetDocumentDiagnostics(id types.DocumentID) ([]*types.Diagnostic, error) {
	rows, err := s.query(selectDiagnostics+" WHERE document_id = ? ORDER BY id", id.Hex())
	if err != nil {
		return nil, fmt.Errorf("querying diagnostics: %w", err)
	}
	return scanDiagnostics(rows)
}

func scanDiagnostics(rows *sql.Rows) ([]*types.Diagnostic, error) {
	defer rows.Close()

	var diags []*types.Diagnostic
	for rows.Next() {
		var d types.Diagnostic
		var severity string
		loc := &d.Location
		err := rows.Scan(
			&d.StructuralID,
			&d.DocumentID,
			&d.Path,
			&d.RuleID,
			&severity,
			&d.Message,
			&d.Attribute,
			&d.Token,
			&loc.Offset.Start,
			&loc.Offset.End,
			&loc.Source.Start.Line,
			&loc.Source.Start.Column,
			&loc.Source.End.Line,
			&loc.Source.End.Column,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning diagnostic: %w", err)
		}
		d.Severity = types.Severity(severity)
		diags = append(diags, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating diagnostics: %w", err)
	}

	types.SortDiagnostics(diags)
	return diags, nil
}

// Close closes the database connection.
func (s *SQLStore) Close() error {
	return s.db.Close()
}
