// Package naming evaluates id and class tokens against a naming convention.
//
// A Policy is resolved once from configuration and is immutable afterwards,
// so one Policy may be shared by any number of concurrent lint runs.
package naming

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dlclark/regexp2"
)

// ErrInvalidPattern is returned when a Pattern policy cannot be compiled.
var ErrInvalidPattern = errors.New("invalid naming pattern")

// PatternTimeout bounds a single custom pattern evaluation.
const PatternTimeout = 2 * time.Second

var builtinPatterns = map[Mode]*regexp.Regexp{
	Underline: regexp.MustCompile(`^[a-z0-9]+(_[a-z0-9]+)*$`),
	Dash:      regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`),
	Hump:      regexp.MustCompile(`^[a-z][a-zA-Z0-9]*$`),
}

var defaultMessages = map[Mode]string{
	Underline: "The id and class attribute values must be in lowercase and split by an underscore.",
	Dash:      "The id and class attribute values must be in lowercase and split by a dash.",
	Hump:      "The id and class attribute values must meet the camelCase style.",
	Pattern:   "The id and class attribute values must match the pattern %s.",
}

// Policy is a resolved naming convention.
type Policy struct {
	mode    Mode
	builtin *regexp.Regexp
	pattern *regexp2.Regexp
	source  string
	message string
}

// New returns the policy for a built-in mode. Pattern has no built-in
// expression, so it (and any unknown value) resolves to Underline; use
// NewPattern for custom expressions.
func New(mode Mode) *Policy {
	re, ok := builtinPatterns[mode]
	if !ok {
		mode = Underline
		re = builtinPatterns[Underline]
	}
	return &Policy{
		mode:    mode,
		builtin: re,
		source:  re.String(),
		message: defaultMessages[mode],
	}
}

// NewPattern compiles a custom expression. The expression may be plain
// ("^_[a-z]+$") or a JavaScript literal ("/^_[a-z]+$/i"). Tokens must match
// it in full whether or not the expression carries its own anchors.
func NewPattern(expr string) (*Policy, error) {
	body, opts, err := parseLiteral(expr)
	if err != nil {
		return nil, err
	}
	if body == "" {
		return nil, fmt.Errorf("%w: empty expression", ErrInvalidPattern)
	}

	anchored := "^(?:" + body + ")$"
	// ECMAScript first so literals copied from JS configs keep their meaning,
	// then the default syntax for constructs ECMAScript mode rejects.
	re, err := regexp2.Compile(anchored, opts|regexp2.ECMAScript)
	if err != nil {
		re, err = regexp2.Compile(anchored, opts)
		if err != nil {
			return nil, fmt.Errorf("%w %q: %v", ErrInvalidPattern, expr, err)
		}
	}
	re.MatchTimeout = PatternTimeout

	return &Policy{
		mode:    Pattern,
		pattern: re,
		source:  expr,
		message: fmt.Sprintf(defaultMessages[Pattern], expr),
	}, nil
}

// NewPolicy resolves a mode, an optional pattern and an optional message
// override into a Policy. The pattern is only consulted for Pattern mode.
func NewPolicy(mode Mode, pattern, message string) (*Policy, error) {
	if mode != Pattern {
		return New(mode).WithMessage(message), nil
	}
	p, err := NewPattern(pattern)
	if err != nil {
		return nil, err
	}
	return p.WithMessage(message), nil
}

// WithMessage returns a copy of p reporting msg instead of the default
// message. An empty msg keeps the current one.
func (p *Policy) WithMessage(msg string) *Policy {
	if msg == "" {
		return p
	}
	cp := *p
	cp.message = msg
	return &cp
}

// Mode returns the enforced convention.
func (p *Policy) Mode() Mode { return p.mode }

// Message returns the text reported for violations.
func (p *Policy) Message() string { return p.message }

// Expression returns the expression the policy checks against.
func (p *Policy) Expression() string { return p.source }

// Evaluate reports whether token conforms to the policy.
func (p *Policy) Evaluate(token string) bool {
	if p.mode != Pattern {
		return p.builtin.MatchString(token)
	}

	m, err := p.pattern.FindStringMatch(token)
	if err != nil || m == nil {
		// A timed-out evaluation cannot confirm a full match.
		return false
	}
	return m.Index == 0 && m.Length == utf8.RuneCountInString(token)
}

// parseLiteral splits a JavaScript regex literal into body and options.
// Anything not shaped like /body/flags is returned unchanged.
func parseLiteral(expr string) (string, regexp2.RegexOptions, error) {
	if len(expr) < 2 || expr[0] != '/' {
		return expr, regexp2.None, nil
	}
	end := strings.LastIndexByte(expr, '/')
	if end == 0 {
		return expr, regexp2.None, nil
	}

	opts := regexp2.None
	for _, f := range expr[end+1:] {
		switch f {
		case 'i':
			opts |= regexp2.IgnoreCase
		case 'm':
			opts |= regexp2.Multiline
		case 's':
			opts |= regexp2.Singleline
		case 'g', 'u', 'y':
			// no effect on a full-token test
		default:
			return "", 0, fmt.Errorf("%w %q: unknown flag %q", ErrInvalidPattern, expr, f)
		}
	}
	return expr[1:end], opts, nil
}
