// Package lintel lints HTML id and class attribute values against a naming
// convention.
//
// # Basic Usage
//
// Create a linter with the built-in configuration and lint content:
//
//	l, err := lintel.NewLinter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	diags, err := l.LintString("index.html", `<div id="aaaBBB" class="ccc-ddd">`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, d := range diags {
//	    fmt.Println(d)
//	}
//
// # Choosing a Convention
//
// Rule settings take the same forms as the rules section of .lintel.yml:
//
//	l, err := lintel.NewLinter(
//	    lintel.WithRuleSetting("id-class-value", lintel.Setting{
//	        Enabled:  true,
//	        Severity: lintel.SeverityError,
//	        Mode:     "dash",
//	    }),
//	)
package lintel

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/praetorian-inc/lintel/pkg/linter"
	"github.com/praetorian-inc/lintel/pkg/rule"
	"github.com/praetorian-inc/lintel/pkg/types"
)

// Re-export commonly used types for convenience.
// Users can import just "github.com/praetorian-inc/lintel" without subpackages.
type (
	// Diagnostic is one reported naming violation.
	Diagnostic = types.Diagnostic

	// Severity classifies a diagnostic.
	Severity = types.Severity

	// Setting is the configured state of one rule.
	Setting = rule.Setting

	// Config is a lint configuration file.
	Config = rule.Config

	// Location describes where a diagnostic was found within content.
	Location = types.Location
)

// Re-export severity constants.
const (
	SeverityWarning = types.SeverityWarning
	SeverityError   = types.SeverityError
)

// Linter lints HTML documents. It is safe for concurrent use.
type Linter struct {
	engine *linter.Engine
	config *linterConfig
}

// linterConfig holds linter configuration.
type linterConfig struct {
	config     *rule.Config
	configPath string
	overrides  map[string]rule.Setting
	filter     rule.FilterConfig
	maxDiags   int
	logger     *slog.Logger
}

// Option configures a Linter.
type Option func(*linterConfig)

// WithConfig uses cfg instead of the built-in configuration.
func WithConfig(cfg *Config) Option {
	return func(c *linterConfig) {
		c.config = cfg
	}
}

// WithConfigFile merges the configuration file at path over the built-in one.
func WithConfigFile(path string) Option {
	return func(c *linterConfig) {
		c.configPath = path
	}
}

// WithRuleSetting overrides the setting of one rule.
func WithRuleSetting(ruleID string, s Setting) Option {
	return func(c *linterConfig) {
		c.overrides[ruleID] = s
	}
}

// WithRuleFilter keeps only rules whose IDs match an include pattern and no
// exclude pattern.
func WithRuleFilter(include, exclude []string) Option {
	return func(c *linterConfig) {
		c.filter = rule.FilterConfig{Include: include, Exclude: exclude}
	}
}

// WithMaxDiagnostics truncates the diagnostics reported per document.
func WithMaxDiagnostics(n int) Option {
	return func(c *linterConfig) {
		c.maxDiags = n
	}
}

// WithLogger sets the logger used for configuration warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(c *linterConfig) {
		c.logger = logger
	}
}

// NewLinter creates a new Linter with the given options.
//
// By default, the linter uses the built-in configuration: id-class-value
// enabled as a warning with the underline convention.
func NewLinter(opts ...Option) (*Linter, error) {
	config := &linterConfig{
		overrides: make(map[string]rule.Setting),
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		opt(config)
	}

	cfg := config.config
	if cfg == nil {
		loader := rule.NewLoader(config.logger)
		var err error
		if config.configPath != "" {
			cfg, err = loader.Resolve(config.configPath, "")
		} else {
			cfg, err = loader.LoadBuiltinConfig()
		}
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	}
	cfg = cfg.Merge(&rule.Config{Rules: config.overrides})

	engine, err := linter.New(linter.Config{
		Rules:                     cfg.Rules,
		Filter:                    config.filter,
		MaxDiagnosticsPerDocument: config.maxDiags,
		Logger:                    config.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating linter: %w", err)
	}

	return &Linter{engine: engine, config: config}, nil
}

// LintString lints HTML content reported under path.
func (l *Linter) LintString(path, content string) ([]*Diagnostic, error) {
	return l.LintBytes(path, []byte(content))
}

// LintBytes lints raw HTML bytes reported under path.
func (l *Linter) LintBytes(path string, content []byte) ([]*Diagnostic, error) {
	return l.engine.Lint(path, content)
}

// LintFile reads and lints a file.
func (l *Linter) LintFile(path string) ([]*Diagnostic, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	return l.LintBytes(path, content)
}

// Rules returns the IDs of the active rules.
func (l *Linter) Rules() []string {
	return l.engine.RuleIDs()
}

// SkippedRules returns the configuration error of every rule that could
// not be resolved and was left out.
func (l *Linter) SkippedRules() map[string]error {
	return l.engine.Skipped()
}

// HasErrors reports whether any diagnostic has error severity.
func HasErrors(diags []*Diagnostic) bool {
	return linter.HasErrors(diags)
}

// ParseConfig parses YAML or JSON configuration merged over the built-in
// one. Use it with WithConfig.
func ParseConfig(data []byte) (*Config, error) {
	loader := rule.NewLoader(nil)
	base, err := loader.LoadBuiltinConfig()
	if err != nil {
		return nil, err
	}
	cfg, err := loader.LoadConfig(data)
	if err != nil {
		return nil, err
	}
	return base.Merge(cfg), nil
}

// LoadConfigFile loads a configuration file merged over the built-in one.
// Use it with WithConfig.
func LoadConfigFile(path string) (*Config, error) {
	return rule.NewLoader(nil).Resolve(path, "")
}
