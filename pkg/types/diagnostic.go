package types

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"sort"
)

// Diagnostic is one reported rule violation.
type Diagnostic struct {
	RuleID       string     `json:"rule_id"` // e.g., "id-class-value"
	Severity     Severity   `json:"severity"`
	Message      string     `json:"message"`
	Location     Location   `json:"location"`
	Attribute    string     `json:"attribute,omitempty"` // attribute the token came from
	Token        string     `json:"token,omitempty"`     // offending text
	Path         string     `json:"path,omitempty"`
	DocumentID   DocumentID `json:"document_id"`
	StructuralID string     `json:"structural_id,omitempty"`
}

// Line returns the 1-based start line.
func (d *Diagnostic) Line() int { return d.Location.Source.Start.Line }

// Column returns the 1-based start column.
func (d *Diagnostic) Column() int { return d.Location.Source.Start.Column }

// String formats the diagnostic as "path:line:col severity message [rule]".
func (d *Diagnostic) String() string {
	return fmt.Sprintf("%s:%d:%d %s %s [%s]",
		d.Path, d.Line(), d.Column(), d.Severity, d.Message, d.RuleID)
}

// ComputeStructuralID computes a content-based unique ID.
// Format: SHA-1(rule_id + '\0' + document_id + '\0' + start + '\0' + token)
func (d *Diagnostic) ComputeStructuralID() string {
	h := sha1.New()

	h.Write([]byte(d.RuleID))
	h.Write([]byte{0})

	h.Write(d.DocumentID[:])
	h.Write([]byte{0})

	h.Write([]byte(fmt.Sprintf("%d", d.Location.Offset.Start)))
	h.Write([]byte{0})

	h.Write([]byte(d.Token))

	return hex.EncodeToString(h.Sum(nil))
}

// SortDiagnostics orders diagnostics by path, then document position, then
// rule ID. The sort is stable so equal positions keep emission order.
func SortDiagnostics(diags []*Diagnostic) {
	sort.SliceStable(diags, func(i, j int) bool {
		a, b := diags[i], diags[j]
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		if a.Location.Source.Start != b.Location.Source.Start {
			return a.Location.Source.Start.Before(b.Location.Source.Start)
		}
		return a.RuleID < b.RuleID
	})
}

// CountBySeverity tallies diagnostics per severity.
func CountBySeverity(diags []*Diagnostic) map[Severity]int {
	counts := make(map[Severity]int)
	for _, d := range diags {
		counts[d.Severity]++
	}
	return counts
}
