package main

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/praetorian-inc/lintel/pkg/enum"
	"github.com/praetorian-inc/lintel/pkg/linter"
	"github.com/praetorian-inc/lintel/pkg/rule"
	"github.com/praetorian-inc/lintel/pkg/store"
	"github.com/praetorian-inc/lintel/pkg/types"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	lintConfigPath     string
	lintRulesInclude   string
	lintRulesExclude   string
	lintRuleOverrides  []string
	lintOutputPath     string
	lintOutputFormat   string
	lintColor          string
	lintGit            bool
	lintMaxFileSize    int64
	lintIncludeHidden  bool
	lintIncremental    bool
	lintMaxDiagnostics int
)

var lintCmd = &cobra.Command{
	Use:   "lint <target>",
	Short: "Lint HTML id and class values",
	Long:  "Lint a file, directory, or git repository against the configured naming rules",
	Args:  cobra.ExactArgs(1),
	RunE:  runLint,
}

func init() {
	lintCmd.Flags().StringVar(&lintConfigPath, "config", "", "Path to config file (default: .lintel.yml in the target directory)")
	lintCmd.Flags().StringVar(&lintRulesInclude, "rules-include", "", "Include rules matching regex pattern (comma-separated)")
	lintCmd.Flags().StringVar(&lintRulesExclude, "rules-exclude", "", "Exclude rules matching regex pattern (comma-separated)")
	lintCmd.Flags().StringArrayVar(&lintRuleOverrides, "rule", nil, "Override a rule setting, e.g. id-class-value=error,dash (repeatable)")
	lintCmd.Flags().StringVar(&lintOutputPath, "output", "lintel.db", "Output database path or postgres:// URL (:memory: to skip persistence)")
	lintCmd.Flags().StringVar(&lintOutputFormat, "format", "human", "Output format: human, json, sarif")
	lintCmd.Flags().StringVar(&lintColor, "color", "auto", "Color output: auto, always, never")
	lintCmd.Flags().BoolVar(&lintGit, "git", false, "Treat target as git repository (lint the HEAD tree)")
	lintCmd.Flags().Int64Var(&lintMaxFileSize, "max-file-size", 10*1024*1024, "Maximum file size to lint (bytes)")
	lintCmd.Flags().BoolVar(&lintIncludeHidden, "include-hidden", false, "Include hidden files and directories")
	lintCmd.Flags().BoolVar(&lintIncremental, "incremental", false, "Skip documents already linted with the same configuration")
	lintCmd.Flags().IntVar(&lintMaxDiagnostics, "max-diagnostics", 0, "Maximum diagnostics per document (0 = unlimited)")
}

func runLint(cmd *cobra.Command, args []string) error {
	logger := newLogger(cmd.ErrOrStderr())
	target := args[0]

	// Validate target exists
	info, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("target does not exist: %s", target)
	}
	configDir := target
	if !info.IsDir() {
		configDir = filepath.Dir(target)
	}

	cfg, err := loadLintConfig(configDir, logger)
	if err != nil {
		return err
	}

	filter := rule.FilterConfig{
		Include: rule.ParsePatterns(lintRulesInclude),
		Exclude: rule.ParsePatterns(lintRulesExclude),
	}
	engine, err := linter.New(linter.Config{
		Rules:                     cfg.Rules,
		Filter:                    filter,
		MaxDiagnosticsPerDocument: lintMaxDiagnostics,
		Logger:                    logger,
	})
	if err != nil {
		return fmt.Errorf("creating linter: %w", err)
	}

	configID, err := computeConfigID(cfg, filter)
	if err != nil {
		return err
	}

	// Create store
	s, err := store.New(store.Config{
		Path: lintOutputPath,
	})
	if err != nil {
		return fmt.Errorf("creating store: %w", err)
	}
	defer s.Close()

	if lintIncremental && lintOutputPath == ":memory:" {
		logger.Warn("incremental mode has no effect with an in-memory store")
	}

	enumerator := createEnumerator(target, cfg, logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// Phase 1: collect documents, reusing stored results in incremental mode
	var (
		mu      sync.Mutex
		inputs  []linter.Input
		reused  []*types.Diagnostic
		skipped int
	)
	err = enumerator.Enumerate(ctx, func(content []byte, id types.DocumentID, prov types.Provenance) error {
		mu.Lock()
		defer mu.Unlock()

		if lintIncremental {
			prior, ok, err := previousDiagnostics(s, id, configID, prov)
			if err != nil {
				return err
			}
			if ok {
				skipped++
				reused = append(reused, prior...)
				return nil
			}
		}
		inputs = append(inputs, linter.Input{Path: prov.Path(), Content: content, Provenance: prov})
		return nil
	})
	if err != nil {
		return fmt.Errorf("enumerating %s: %w", target, err)
	}

	// Phase 2: lint and persist
	var diags []*types.Diagnostic
	sink := linter.SinkFunc(func(res *linter.Result) error {
		if err := storeResult(s, res, configID); err != nil {
			return err
		}
		diags = append(diags, res.Diagnostics...)
		return nil
	})
	if err := engine.LintAll(ctx, inputs, sink); err != nil {
		return fmt.Errorf("linting: %w", err)
	}
	diags = append(diags, reused...)
	types.SortDiagnostics(diags)

	// Output results (to stderr when using json/sarif format to keep stdout pure JSON)
	summary := cmd.OutOrStdout()
	if lintOutputFormat == "json" || lintOutputFormat == "sarif" {
		summary = cmd.ErrOrStderr()
	}
	printSummary(summary, len(inputs)+skipped, skipped, len(diags))

	if err := writeDiagnostics(cmd.OutOrStdout(), lintOutputFormat, lintColor, activeRules(engine), diags); err != nil {
		return err
	}

	if linter.HasErrors(diags) {
		return linter.ErrLintFailed
	}
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

// loadLintConfig resolves the config file and applies --rule overrides.
func loadLintConfig(dir string, logger *slog.Logger) (*rule.Config, error) {
	cfg, err := rule.NewLoader(logger).Resolve(lintConfigPath, dir)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	overrides, err := parseRuleOverrides(lintRuleOverrides)
	if err != nil {
		return nil, err
	}
	return cfg.Merge(&rule.Config{Rules: overrides}), nil
}

// parseRuleOverrides parses repeated "rule-id=severity[,option]" flags.
func parseRuleOverrides(flags []string) (map[string]rule.Setting, error) {
	overrides := make(map[string]rule.Setting, len(flags))
	for _, raw := range flags {
		id, value, ok := strings.Cut(raw, "=")
		id = strings.TrimSpace(id)
		if !ok || id == "" {
			return nil, fmt.Errorf("--rule %q: expected rule-id=severity[,option]", raw)
		}
		setting, err := rule.ParseInline(value)
		if err != nil {
			return nil, fmt.Errorf("--rule %q: %w", raw, err)
		}
		overrides[id] = setting
	}
	return overrides, nil
}

// computeConfigID fingerprints everything that changes lint output, so
// incremental runs only reuse results produced under the same settings.
func computeConfigID(cfg *rule.Config, filter rule.FilterConfig) (string, error) {
	data, err := yaml.Marshal(cfg.Rules)
	if err != nil {
		return "", fmt.Errorf("fingerprinting config: %w", err)
	}
	h := sha1.New()
	h.Write(data)
	fmt.Fprintf(h, "\x00%s\x00%s\x00%d\x00%s",
		strings.Join(filter.Include, ","), strings.Join(filter.Exclude, ","), lintMaxDiagnostics, version)
	return hex.EncodeToString(h.Sum(nil)), nil
}

func createEnumerator(target string, cfg *rule.Config, logger *slog.Logger) enum.Enumerator {
	config := enum.Config{
		Root:           target,
		Include:        cfg.Include,
		Ignore:         cfg.Ignore,
		IncludeHidden:  lintIncludeHidden,
		MaxFileSize:    lintMaxFileSize,
		FollowSymlinks: false,
		Logger:         logger,
	}

	if lintGit {
		return enum.NewGitEnumerator(config)
	}
	return enum.NewFilesystemEnumerator(config)
}

// previousDiagnostics returns the stored diagnostics of a document already
// linted under configID, re-pointed at prov's path.
func previousDiagnostics(s store.Store, id types.DocumentID, configID string, prov types.Provenance) ([]*types.Diagnostic, bool, error) {
	linted, err := s.DocumentLinted(id, configID)
	if err != nil {
		return nil, false, fmt.Errorf("checking document: %w", err)
	}
	if !linted {
		return nil, false, nil
	}

	stored, err := s.GetDocumentDiagnostics(id)
	if err != nil {
		return nil, false, fmt.Errorf("retrieving diagnostics: %w", err)
	}
	if err := s.AddProvenance(id, prov); err != nil {
		return nil, false, fmt.Errorf("storing provenance: %w", err)
	}

	// the same content may have been linted at another path
	seen := make(map[string]bool)
	var out []*types.Diagnostic
	for _, d := range stored {
		if seen[d.StructuralID] {
			continue
		}
		seen[d.StructuralID] = true
		c := *d
		c.Path = prov.Path()
		if err := s.AddDiagnostic(&c); err != nil {
			return nil, false, fmt.Errorf("storing diagnostic: %w", err)
		}
		out = append(out, &c)
	}
	return out, true, nil
}

// storeResult persists one linted document. The document is recorded last
// so an interrupted run never marks it linted without its diagnostics.
func storeResult(s store.Store, res *linter.Result, configID string) error {
	if res.Input.Provenance != nil {
		if err := s.AddProvenance(res.DocumentID, res.Input.Provenance); err != nil {
			return fmt.Errorf("storing provenance: %w", err)
		}
	}
	for _, d := range res.Diagnostics {
		if err := s.AddDiagnostic(d); err != nil {
			return fmt.Errorf("storing diagnostic: %w", err)
		}
	}
	if err := s.AddDocument(res.DocumentID, int64(len(res.Input.Content)), configID); err != nil {
		return fmt.Errorf("storing document: %w", err)
	}
	return nil
}

func printSummary(w io.Writer, documents, skipped, problems int) {
	if lintIncremental {
		fmt.Fprintf(w, "Lint complete: %d documents, %d problems (%d documents skipped)\n", documents, problems, skipped)
	} else {
		fmt.Fprintf(w, "Lint complete: %d documents, %d problems\n", documents, problems)
	}
	if lintOutputPath != ":memory:" {
		fmt.Fprintf(w, "Results stored in: %s\n", lintOutputPath)
	}
}
