package types

import (
	"fmt"
	"strings"
)

// Severity classifies a diagnostic as advisory or blocking.
type Severity string

const (
	// SeverityWarning is advisory; it never fails a lint run.
	SeverityWarning Severity = "warning"
	// SeverityError is blocking.
	SeverityError Severity = "error"
)

// String returns the lowercase severity name.
func (s Severity) String() string {
	return string(s)
}

// ParseSeverity accepts the spellings used in lint configs:
// "warn", "warning", "error" (case-insensitive).
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "warn", "warning":
		return SeverityWarning, nil
	case "error", "err":
		return SeverityError, nil
	default:
		return "", fmt.Errorf("unknown severity %q (valid: warn, warning, error)", s)
	}
}
