package rule

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/praetorian-inc/lintel/pkg/types"
	"gopkg.in/yaml.v3"
)

// ErrInvalidSeverity is returned for severities other than off/warn/error.
var ErrInvalidSeverity = errors.New("invalid severity")

// Setting is the configured state of one rule before the rule resolves it.
type Setting struct {
	Enabled  bool
	Severity types.Severity
	// Mode carries the string option form, e.g. ["error", "dash"].
	Mode string
	// Options carries the mapping option form, e.g. ["warn", {mode: dash}].
	Options map[string]any
}

// Enable returns an enabled setting with the given severity and no options.
func Enable(sev types.Severity) Setting {
	return Setting{Enabled: true, Severity: sev}
}

// Option returns the option value stored under key.
func (s Setting) Option(key string) (any, bool) {
	v, ok := s.Options[key]
	return v, ok
}

// UnmarshalYAML accepts the shapes lint configs use for a rule:
//   - off | false | 0               disabled
//   - warn | error | true | 1 | 2   enabled with that severity
//   - [severity]                    same as the scalar form
//   - [severity, "dash"]            severity plus a mode string
//   - [severity, {mode: dash}]      severity plus an options mapping
//   - {severity: error, mode: dash} flat mapping, every other key is an option
func (s *Setting) UnmarshalYAML(value *yaml.Node) error {
	*s = Setting{}
	switch value.Kind {
	case yaml.ScalarNode:
		return s.setSeverity(value.Value)

	case yaml.SequenceNode:
		if len(value.Content) == 0 || len(value.Content) > 2 {
			return fmt.Errorf("rule setting at line %d: expected [severity] or [severity, options], got %d elements",
				value.Line, len(value.Content))
		}
		if value.Content[0].Kind != yaml.ScalarNode {
			return fmt.Errorf("rule setting at line %d: severity must be a scalar", value.Line)
		}
		if err := s.setSeverity(value.Content[0].Value); err != nil {
			return err
		}
		if len(value.Content) == 2 {
			return s.setOptions(value.Content[1])
		}
		return nil

	case yaml.MappingNode:
		var m map[string]any
		if err := value.Decode(&m); err != nil {
			return fmt.Errorf("invalid rule setting: %w", err)
		}
		sev := "warn"
		if raw, ok := m["severity"]; ok {
			sev = fmt.Sprint(raw)
			delete(m, "severity")
		}
		if err := s.setSeverity(sev); err != nil {
			return err
		}
		if nested, ok := m["options"].(map[string]any); ok {
			delete(m, "options")
			for k, v := range nested {
				m[k] = v
			}
		}
		if len(m) > 0 {
			s.Options = m
		}
		return nil
	}

	return fmt.Errorf("rule setting must be a scalar, sequence or mapping, got %v", value.Kind)
}

// MarshalYAML writes the setting in its sequence form.
func (s Setting) MarshalYAML() (any, error) {
	if !s.Enabled {
		return "off", nil
	}
	switch {
	case s.Options != nil:
		return []any{string(s.Severity), s.Options}, nil
	case s.Mode != "":
		return []any{string(s.Severity), s.Mode}, nil
	default:
		return string(s.Severity), nil
	}
}

func (s *Setting) setSeverity(raw string) error {
	v := strings.ToLower(strings.TrimSpace(raw))
	switch v {
	case "off", "false", "0", "none":
		s.Enabled = false
		return nil
	case "true", "on":
		s.Enabled = true
		s.Severity = types.SeverityWarning
		return nil
	}
	if n, err := strconv.Atoi(v); err == nil {
		switch n {
		case 1:
			s.Enabled, s.Severity = true, types.SeverityWarning
			return nil
		case 2:
			s.Enabled, s.Severity = true, types.SeverityError
			return nil
		}
		return fmt.Errorf("%w: %d", ErrInvalidSeverity, n)
	}

	sev, err := types.ParseSeverity(v)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidSeverity, raw)
	}
	s.Enabled = true
	s.Severity = sev
	return nil
}

func (s *Setting) setOptions(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		s.Mode = node.Value
		return nil
	case yaml.MappingNode:
		var m map[string]any
		if err := node.Decode(&m); err != nil {
			return fmt.Errorf("invalid rule options: %w", err)
		}
		s.Options = m
		return nil
	}
	return fmt.Errorf("rule options at line %d must be a string or a mapping", node.Line)
}

// ParseInline parses the command-line form "severity[,option]". The option
// is a mode name, or a pattern when it is written as a /regex/ literal.
func ParseInline(inline string) (Setting, error) {
	var s Setting
	sev, opt, hasOpt := strings.Cut(inline, ",")
	if err := s.setSeverity(sev); err != nil {
		return Setting{}, err
	}
	if !hasOpt {
		return s, nil
	}
	opt = strings.TrimSpace(opt)
	if strings.HasPrefix(opt, "/") {
		s.Options = map[string]any{"regId": opt}
	} else {
		s.Mode = opt
	}
	return s, nil
}
