// Package idclassvalue implements the id-class-value rule: every id value
// and every class token must follow the configured naming convention.
package idclassvalue

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/praetorian-inc/lintel/pkg/htmltok"
	"github.com/praetorian-inc/lintel/pkg/naming"
	"github.com/praetorian-inc/lintel/pkg/rule"
	"github.com/praetorian-inc/lintel/pkg/tokens"
	"github.com/praetorian-inc/lintel/pkg/types"
)

// ID is the rule identifier used in configs and diagnostics.
const ID = "id-class-value"

// Option keys understood in the mapping form of the rule setting.
const (
	optMode    = "mode"
	optRegID   = "regId"
	optPattern = "pattern"
	optMessage = "message"
)

// Info describes the rule.
var Info = types.Rule{
	ID:          ID,
	Name:        "ID and class value naming",
	Description: "The id and class attribute values must meet the specified naming rules.",
	References:  []string{"https://htmlhint.com/rules/id-class-value/"},
	Categories:  []string{"naming", "style"},
	Keywords:    []string{"id", "class"},
}

func init() {
	rule.Register(rule.Definition{
		Info: Info,
		DefaultSetting: rule.Setting{
			Enabled:  true,
			Severity: types.SeverityWarning,
			Options:  map[string]any{optMode: naming.Underline.String()},
		},
		New: func(setting rule.Setting, logger *slog.Logger) (rule.Rule, error) {
			return New(setting, logger)
		},
	})
}

// Rule checks id and class values against one naming policy.
type Rule struct {
	severity types.Severity
	policy   *naming.Policy
	logger   *slog.Logger
}

// New resolves setting into a ready rule. A nil logger uses slog.Default().
func New(setting rule.Setting, logger *slog.Logger) (*Rule, error) {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Rule{logger: logger}
	if err := r.Configure(setting); err != nil {
		return nil, err
	}
	return r, nil
}

// Configure resolves the severity and naming policy from setting. Unknown
// mode strings and unknown option keys fall back to Underline with a
// warning; an invalid pattern is returned as an error wrapping
// naming.ErrInvalidPattern.
func (r *Rule) Configure(setting rule.Setting) error {
	if r.logger == nil {
		r.logger = slog.Default()
	}
	sev := setting.Severity
	if sev == "" {
		sev = types.SeverityWarning
	}

	mode := naming.Underline
	var pattern, message string

	if setting.Mode != "" {
		mode = r.parseMode(setting.Mode)
	}

	keys := make([]string, 0, len(setting.Options))
	for k := range setting.Options {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		v := setting.Options[k]
		switch k {
		case optMode:
			mode = r.parseMode(fmt.Sprint(v))
		case optRegID, optPattern:
			s, ok := v.(string)
			if !ok || s == "" {
				return fmt.Errorf("%s: option %s: %w: expected a non-empty string, got %T", ID, k, naming.ErrInvalidPattern, v)
			}
			pattern = s
		case optMessage:
			message = fmt.Sprint(v)
		default:
			r.logger.Warn("ignoring unknown rule option",
				"rule", ID,
				"option", k,
				"fallback", naming.Underline.String())
		}
	}
	if pattern != "" {
		mode = naming.Pattern
	}

	policy, err := naming.NewPolicy(mode, pattern, message)
	if err != nil {
		return fmt.Errorf("%s: %w", ID, err)
	}

	r.severity = sev
	r.policy = policy
	r.logger.Debug("rule configured",
		"rule", ID,
		"severity", sev,
		"mode", policy.Mode().String(),
		"expression", policy.Expression())
	return nil
}

func (r *Rule) parseMode(s string) naming.Mode {
	m, ok := naming.ParseMode(s)
	if !ok {
		r.logger.Warn("unknown naming mode, using default",
			"rule", ID,
			"mode", s,
			"fallback", m.String())
	}
	return m
}

// ID implements rule.Rule.
func (r *Rule) ID() string { return ID }

// Info implements rule.Rule.
func (r *Rule) Info() types.Rule { return Info }

// Severity returns the configured severity.
func (r *Rule) Severity() types.Severity { return r.severity }

// Policy returns the resolved naming policy.
func (r *Rule) Policy() *naming.Policy { return r.policy }

// Check reports one diagnostic per violating token, in document order,
// then attribute order, then token order.
func (r *Rule) Check(doc *htmltok.Document) []*types.Diagnostic {
	var diags []*types.Diagnostic
	doc.Attributes(func(_ *types.Element, attr *types.AttributeOccurrence) {
		var toks []tokens.Token
		if strings.EqualFold(attr.Name, "id") {
			toks = tokens.Whole(attr.RawValue)
		} else {
			toks = tokens.Split(attr.RawValue)
		}
		for _, tok := range toks {
			if r.policy.Evaluate(tok.Text) {
				continue
			}
			diags = append(diags, r.diagnostic(doc, attr, tok))
		}
	}, "id", "class")
	return diags
}

func (r *Rule) diagnostic(doc *htmltok.Document, attr *types.AttributeOccurrence, tok tokens.Token) *types.Diagnostic {
	line, col := position(attr, tok)
	endLine, endCol := tokens.Resolve(line, col, tok.Text, utf8.RuneCountInString(tok.Text))

	start := attr.ValueOffset + tok.ByteOffset
	if !attr.HasValue {
		start = attr.Offset
	}

	d := &types.Diagnostic{
		RuleID:   ID,
		Severity: r.severity,
		Message:  r.policy.Message(),
		Location: types.Location{
			Offset: types.OffsetSpan{
				Start: int64(start),
				End:   int64(start + len(tok.Text)),
			},
			Source: types.SourceSpan{
				Start: types.SourcePoint{Line: line, Column: col},
				End:   types.SourcePoint{Line: endLine, Column: endCol},
			},
		},
		Attribute:  strings.ToLower(attr.Name),
		Token:      tok.Text,
		Path:       doc.Path,
		DocumentID: doc.ID,
	}
	d.StructuralID = d.ComputeStructuralID()
	return d
}

// position reports where a token is located. A token with no newline before
// it inside the value is reported at the attribute anchor plus its character
// offset, so its column is relative to the anchor rather than the token's
// own column in the source line (for <div id="x" class="a B">, B is 1:14).
// Once a newline precedes the token, the anchor line no longer applies and
// the token is resolved from the first value character, giving its true
// line and column.
func position(attr *types.AttributeOccurrence, tok tokens.Token) (int, int) {
	if attr.HasValue && strings.ContainsRune(attr.RawValue[:tok.ByteOffset], '\n') {
		return tokens.Resolve(attr.ValueLine, attr.ValueColumn, attr.RawValue, tok.Offset)
	}
	return tokens.Resolve(attr.Line, attr.Column, attr.RawValue, tok.Offset)
}
