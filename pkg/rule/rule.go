// Package rule defines lint rules, their registry and their configuration.
package rule

import (
	"log/slog"

	"github.com/praetorian-inc/lintel/pkg/htmltok"
	"github.com/praetorian-inc/lintel/pkg/types"
)

// Rule is a configured lint rule. Implementations are immutable once
// returned by a Definition, so one Rule may check many documents
// concurrently.
type Rule interface {
	ID() string
	Info() types.Rule
	Check(doc *htmltok.Document) []*types.Diagnostic
}

// Definition describes a rule and builds configured instances of it.
type Definition struct {
	Info types.Rule

	// DefaultSetting applies when the configuration does not mention the rule.
	DefaultSetting Setting

	// New resolves setting into a ready-to-run rule. Configuration errors
	// (an invalid pattern, say) are returned here and never surface while
	// checking documents.
	New func(setting Setting, logger *slog.Logger) (Rule, error)
}

// ID returns the rule ID.
func (d Definition) ID() string { return d.Info.ID }
