package serve

import (
	"encoding/json"

	"github.com/praetorian-inc/lintel/pkg/types"
)

// Request represents an incoming NDJSON request
type Request struct {
	Type    string          `json:"type"` // "lint" | "lint_batch" | "configure" | "close"
	Payload json.RawMessage `json:"payload"`
}

// LintPayload is the payload for "lint" requests
type LintPayload struct {
	Content string `json:"content"`
	Source  string `json:"source"`
}

// LintBatchPayload is the payload for "lint_batch" requests
type LintBatchPayload struct {
	Items []LintPayload `json:"items"`
}

// ConfigurePayload is the payload for "configure" requests. Rules uses the
// same forms as the rules section of a config file.
type ConfigurePayload struct {
	Rules json.RawMessage `json:"rules"`
}

// Response represents an outgoing NDJSON response
type Response struct {
	Success bool            `json:"success"`
	Type    string          `json:"type"` // "ready" | "lint" | "lint_batch" | "configure" | "error"
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// ReadyData is the data field for "ready" responses
type ReadyData struct {
	Version string   `json:"version"`
	Rules   []string `json:"rules"`
}

// LintResult is the data field for "lint" responses
type LintResult struct {
	Source      string              `json:"source"`
	DocumentID  types.DocumentID    `json:"document_id"`
	Diagnostics []*types.Diagnostic `json:"diagnostics"`
}

// BatchLintResult is the data field for "lint_batch" responses
type BatchLintResult struct {
	Results []LintResult `json:"results"`
	Total   int          `json:"total"`
}

// ConfigureResult is the data field for "configure" responses
type ConfigureResult struct {
	Rules   []string          `json:"rules"`
	Skipped map[string]string `json:"skipped,omitempty"`
}
