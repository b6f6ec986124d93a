package store

import (
	"sync"

	"github.com/praetorian-inc/lintel/pkg/types"
)

// MemoryStore implements Store using in-memory data structures.
type MemoryStore struct {
	mu          sync.RWMutex
	documents   map[documentKey]int64                   // size, keyed by document and config
	provenance  map[types.DocumentID][]types.Provenance // keyed by DocumentID
	diagnostics []*types.Diagnostic                     // insertion order
	seen        map[diagnosticKey]bool                  // dedup of diagnostics
}

type documentKey struct {
	id       types.DocumentID
	configID string
}

type diagnosticKey struct {
	structuralID string
	path         string
}

// NewMemory creates a new in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{
		documents:  make(map[documentKey]int64),
		provenance: make(map[types.DocumentID][]types.Provenance),
		seen:       make(map[diagnosticKey]bool),
	}
}

// AddDocument records a linted document.
func (m *MemoryStore) AddDocument(id types.DocumentID, size int64, configID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.documents[documentKey{id, configID}] = size
	return nil
}

// DocumentLinted checks if a document was linted under configID.
func (m *MemoryStore) DocumentLinted(id types.DocumentID, configID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.documents[documentKey{id, configID}]
	return ok, nil
}

// AddProvenance associates provenance with a document. Duplicates are ignored.
func (m *MemoryStore) AddProvenance(id types.DocumentID, prov types.Provenance) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec := toProvenanceRecord(prov)
	for _, p := range m.provenance[id] {
		if toProvenanceRecord(p) == rec {
			return nil
		}
	}
	m.provenance[id] = append(m.provenance[id], prov)
	return nil
}

// GetProvenance returns the recorded locations of a document.
func (m *MemoryStore) GetProvenance(id types.DocumentID) ([]types.Provenance, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return append([]types.Provenance(nil), m.provenance[id]...), nil
}

// AddDiagnostic stores a diagnostic (deduplicated).
func (m *MemoryStore) AddDiagnostic(d *types.Diagnostic) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := diagnosticKey{structuralID: d.StructuralID, path: d.Path}
	if m.seen[key] {
		return nil
	}
	m.seen[key] = true
	m.diagnostics = append(m.diagnostics, d)
	return nil
}

// GetDiagnostics retrieves all diagnostics.
func (m *MemoryStore) GetDiagnostics() ([]*types.Diagnostic, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := append([]*types.Diagnostic(nil), m.diagnostics...)
	types.SortDiagnostics(out)
	return out, nil
}

// GetDocumentDiagnostics retrieves the diagnostics of one document.
func (m *MemoryStore) GetDocumentDiagnostics(id types.DocumentID) ([]*types.Diagnostic, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*types.Diagnostic
	for _, d := range m.diagnostics {
		if d.DocumentID == id {
			out = append(out, d)
		}
	}
	types.SortDiagnostics(out)
	return out, nil
}

// Close is a no-op for the memory store.
func (m *MemoryStore) Close() error {
	return nil
}
