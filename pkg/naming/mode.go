package naming

import "strings"

// Mode is the naming convention a policy enforces.
type Mode int

const (
	// Underline requires lowercase words joined by '_' (the default).
	Underline Mode = iota
	// Dash requires lowercase words joined by '-'.
	Dash
	// Hump requires lower camelCase.
	Hump
	// Pattern requires a full match of a configured regular expression.
	Pattern
)

// String returns the configuration spelling of the mode.
func (m Mode) String() string {
	switch m {
	case Underline:
		return "underline"
	case Dash:
		return "dash"
	case Hump:
		return "hump"
	case Pattern:
		return "pattern"
	default:
		return "unknown"
	}
}

// ParseMode maps a configured mode string to a built-in mode. Unrecognized
// strings fall back to Underline with ok=false so callers can report them.
func ParseMode(s string) (mode Mode, ok bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "underline":
		return Underline, true
	case "dash":
		return Dash, true
	case "hump":
		return Hump, true
	default:
		return Underline, false
	}
}
