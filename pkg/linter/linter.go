// Package linter runs the configured rules over HTML documents.
package linter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sort"
	"sync"

	"github.com/praetorian-inc/lintel/pkg/htmltok"
	"github.com/praetorian-inc/lintel/pkg/prefilter"
	"github.com/praetorian-inc/lintel/pkg/rule"
	"github.com/praetorian-inc/lintel/pkg/types"
	"golang.org/x/sync/errgroup"

	// built-in rules
	_ "github.com/praetorian-inc/lintel/pkg/rules/idclassvalue"
)

// ErrLintFailed is returned by callers that treat error-severity
// diagnostics as a failed run.
var ErrLintFailed = errors.New("lint failed")

// Config for engine initialization.
type Config struct {
	// Rules maps rule IDs to settings. Registered rules missing here use
	// their default setting.
	Rules map[string]rule.Setting

	// Filter selects rules by ID pattern.
	Filter rule.FilterConfig

	// Workers bounds LintAll parallelism (0 = runtime.NumCPU()).
	Workers int

	// MaxDiagnosticsPerDocument truncates per-document output (0 = unlimited).
	MaxDiagnosticsPerDocument int

	Logger *slog.Logger
}

// Input is one document queued for LintAll.
type Input struct {
	Path       string
	Content    []byte
	Provenance types.Provenance
}

// Result is the outcome of linting one Input.
type Result struct {
	Input       Input
	DocumentID  types.DocumentID
	Diagnostics []*types.Diagnostic
}

// Engine holds the rules resolved for one run. It is immutable after New
// and safe for concurrent use.
type Engine struct {
	rules     []rule.Rule
	prefilter *prefilter.Prefilter
	skipped   map[string]error
	workers   int
	maxDiags  int
	logger    *slog.Logger
}

// New resolves every enabled rule once. A rule whose setting cannot be
// resolved is skipped and logged; linting continues with the others.
func New(cfg Config) (*Engine, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if err := rule.ValidateConfig(&rule.Config{Rules: cfg.Rules}, rule.KnownIDs()); err != nil {
		return nil, err
	}

	defs, err := rule.Filter(rule.All(), cfg.Filter)
	if err != nil {
		return nil, fmt.Errorf("filtering rules: %w", err)
	}

	e := &Engine{
		skipped:  make(map[string]error),
		workers:  cfg.Workers,
		maxDiags: cfg.MaxDiagnosticsPerDocument,
		logger:   logger,
	}
	if e.workers <= 0 {
		e.workers = runtime.NumCPU()
	}

	for _, def := range defs {
		setting, ok := cfg.Rules[def.ID()]
		if !ok {
			setting = def.DefaultSetting
		}
		if !setting.Enabled {
			logger.Debug("rule disabled", "rule", def.ID())
			continue
		}
		r, err := def.New(setting, logger)
		if err != nil {
			logger.Error("skipping rule", "rule", def.ID(), "error", err)
			e.skipped[def.ID()] = err
			continue
		}
		e.rules = append(e.rules, r)
	}

	e.prefilter = prefilter.New(e.rules)
	logger.Debug("engine ready", "rules", len(e.rules), "skipped", len(e.skipped))
	return e, nil
}

// Rules returns the active rules.
func (e *Engine) Rules() []rule.Rule {
	return e.rules
}

// Skipped returns the configuration error of every rule that was skipped.
func (e *Engine) Skipped() map[string]error {
	return e.skipped
}

// LintDocument runs the active rules over a parsed document and returns
// the diagnostics in document order.
func (e *Engine) LintDocument(doc *htmltok.Document) []*types.Diagnostic {
	var diags []*types.Diagnostic
	for _, r := range e.prefilter.Filter(doc.Content) {
		diags = append(diags, r.Check(doc)...)
	}
	types.SortDiagnostics(diags)
	if e.maxDiags > 0 && len(diags) > e.maxDiags {
		e.logger.Warn("truncating diagnostics", "path", doc.Path, "total", len(diags), "limit", e.maxDiags)
		diags = diags[:e.maxDiags]
	}
	return diags
}

// Lint parses content and lints it.
func (e *Engine) Lint(path string, content []byte) ([]*types.Diagnostic, error) {
	doc, err := htmltok.Parse(path, content)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return e.LintDocument(doc), nil
}

// LintAll lints inputs in parallel and hands every result to sink. Results
// reach the sink in completion order; a sink error cancels the run.
func (e *Engine) LintAll(ctx context.Context, inputs []Input, sink Sink) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	var mu sync.Mutex
	for _, in := range inputs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := e.lintInput(in)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			return sink.Emit(res)
		})
	}
	return g.Wait()
}

func (e *Engine) lintInput(in Input) (*Result, error) {
	path := in.Path
	if path == "" && in.Provenance != nil {
		path = in.Provenance.Path()
	}
	doc, err := htmltok.Parse(path, in.Content)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &Result{
		Input:       in,
		DocumentID:  doc.ID,
		Diagnostics: e.LintDocument(doc),
	}, nil
}

// HasErrors reports whether any diagnostic has error severity.
func HasErrors(diags []*types.Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == types.SeverityError {
			return true
		}
	}
	return false
}

// RuleIDs returns the IDs of the active rules, sorted.
func (e *Engine) RuleIDs() []string {
	ids := make([]string, 0, len(e.rules))
	for _, r := range e.rules {
		ids = append(ids, r.ID())
	}
	sort.Strings(ids)
	return ids
}
