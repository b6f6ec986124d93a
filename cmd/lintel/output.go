package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/praetorian-inc/lintel/pkg/linter"
	"github.com/praetorian-inc/lintel/pkg/rule"
	"github.com/praetorian-inc/lintel/pkg/sarif"
	"github.com/praetorian-inc/lintel/pkg/types"
	"golang.org/x/term"
)

// ruleEntry pairs rule metadata with the severity it reports at.
type ruleEntry struct {
	info     types.Rule
	severity types.Severity
}

// activeRules lists the rules an engine runs with their configured severity.
func activeRules(engine *linter.Engine) []ruleEntry {
	var out []ruleEntry
	for _, r := range engine.Rules() {
		sev := types.SeverityWarning
		if s, ok := r.(interface{ Severity() types.Severity }); ok {
			sev = s.Severity()
		}
		out = append(out, ruleEntry{info: r.Info(), severity: sev})
	}
	return out
}

// registeredRules lists every registered rule with its default severity.
func registeredRules() []ruleEntry {
	var out []ruleEntry
	for _, def := range rule.All() {
		sev := def.DefaultSetting.Severity
		if sev == "" {
			sev = types.SeverityWarning
		}
		out = append(out, ruleEntry{info: def.Info, severity: sev})
	}
	return out
}

// styles holds color formatters for human output
type styles struct {
	path     *color.Color
	position *color.Color
	errorSev *color.Color
	warnSev  *color.Color
	token    *color.Color
	ruleID   *color.Color
	summary  *color.Color
}

func newStyles(enabled bool) *styles {
	s := &styles{
		path:     color.New(color.Bold, color.Underline),
		position: color.New(color.Faint),
		errorSev: color.New(color.FgRed),
		warnSev:  color.New(color.FgYellow),
		token:    color.New(color.Bold, color.FgHiWhite),
		ruleID:   color.New(color.FgHiBlue),
		summary:  color.New(color.Bold),
	}

	for _, c := range []*color.Color{s.path, s.position, s.errorSev, s.warnSev, s.token, s.ruleID, s.summary} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return s
}

func (s *styles) severity(sev types.Severity) *color.Color {
	if sev == types.SeverityError {
		return s.errorSev
	}
	return s.warnSev
}

// colorEnabled resolves a --color value. "auto" colors only terminals and
// honors NO_COLOR.
func colorEnabled(mode string, w io.Writer) (bool, error) {
	switch mode {
	case "always":
		return true, nil
	case "never":
		return false, nil
	case "auto", "":
		f, ok := w.(*os.File)
		if !ok || os.Getenv("NO_COLOR") != "" {
			return false, nil
		}
		return term.IsTerminal(int(f.Fd())), nil
	default:
		return false, fmt.Errorf("unknown color mode: %s", mode)
	}
}

// writeDiagnostics renders diags in the requested format.
func writeDiagnostics(w io.Writer, format, colorMode string, rules []ruleEntry, diags []*types.Diagnostic) error {
	switch format {
	case "json":
		return outputJSON(w, diags)
	case "sarif":
		return outputSARIF(w, rules, diags)
	case "human":
		enabled, err := colorEnabled(colorMode, w)
		if err != nil {
			return err
		}
		return outputHuman(w, newStyles(enabled), diags)
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}

func outputJSON(w io.Writer, diags []*types.Diagnostic) error {
	if diags == nil {
		diags = []*types.Diagnostic{}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(diags)
}

// outputSARIF writes diagnostics as a SARIF 2.1.0 log
func outputSARIF(w io.Writer, rules []ruleEntry, diags []*types.Diagnostic) error {
	report := sarif.NewReport(version)
	for _, r := range rules {
		report.AddRule(r.info, r.severity)
	}
	for _, d := range diags {
		report.AddResult(d)
	}

	jsonBytes, err := report.ToJSON()
	if err != nil {
		return fmt.Errorf("serializing SARIF: %w", err)
	}
	if _, err := w.Write(append(jsonBytes, '\n')); err != nil {
		return fmt.Errorf("writing SARIF output: %w", err)
	}
	return nil
}

// outputHuman groups diagnostics by path:
//
//	site/index.html
//	  1:5      warning  The id and class ...  id-class-value
//	           id: aaaBBB
func outputHuman(w io.Writer, s *styles, diags []*types.Diagnostic) error {
	if len(diags) == 0 {
		fmt.Fprintf(w, "No problems found.\n")
		return nil
	}

	sorted := make([]*types.Diagnostic, len(diags))
	copy(sorted, diags)
	types.SortDiagnostics(sorted)

	path := ""
	for i, d := range sorted {
		if i == 0 || d.Path != path {
			if i > 0 {
				fmt.Fprintln(w)
			}
			path = d.Path
			fmt.Fprintln(w, s.path.Sprint(displayPath(path)))
		}
		pos := fmt.Sprintf("%d:%d", d.Line(), d.Column())
		fmt.Fprintf(w, "  %s %s  %s  %s\n",
			s.position.Sprintf("%-8s", pos),
			s.severity(d.Severity).Sprintf("%-7s", d.Severity),
			d.Message,
			s.ruleID.Sprint(d.RuleID))
		if d.Attribute != "" {
			fmt.Fprintf(w, "  %8s %s: %s\n", "", d.Attribute, s.token.Sprintf("%q", d.Token))
		}
	}

	counts := types.CountBySeverity(diags)
	fmt.Fprintf(w, "\n%s\n", s.summary.Sprintf("%d problems (%d errors, %d warnings)",
		len(diags), counts[types.SeverityError], counts[types.SeverityWarning]))
	return nil
}

func displayPath(path string) string {
	if path == "" {
		return "<input>"
	}
	return path
}
