package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/praetorian-inc/lintel/pkg/linter"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleHTML = `<div id="aaaBBB" class="ccc-ddd"></div>`

// resetLintFlags restores the lint flag defaults, pointing output at an
// in-memory store.
func resetLintFlags() {
	lintConfigPath = ""
	lintRulesInclude = ""
	lintRulesExclude = ""
	lintRuleOverrides = nil
	lintOutputPath = ":memory:"
	lintOutputFormat = "json"
	lintColor = "never"
	lintGit = false
	lintMaxFileSize = 10 * 1024 * 1024
	lintIncludeHidden = false
	lintIncremental = false
	lintMaxDiagnostics = 0
}

func writeSite(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(dir, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return dir
}

// runLintCommand runs lint against target and returns stdout and stderr.
func runLintCommand(t *testing.T, target string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err := runLint(cmd, []string{target})
	return out.String(), errOut.String(), err
}

func decodeDiagnostics(t *testing.T, output string) []map[string]any {
	t.Helper()
	var diags []map[string]any
	require.NoError(t, json.Unmarshal([]byte(output), &diags), output)
	return diags
}

func TestRunLint_JSON(t *testing.T) {
	resetLintFlags()
	dir := writeSite(t, map[string]string{
		"index.html": sampleHTML,
		"README.md":  sampleHTML,
	})

	out, errOut, err := runLintCommand(t, dir)
	require.NoError(t, err)

	diags := decodeDiagnostics(t, out)
	require.Len(t, diags, 2)
	assert.Equal(t, "aaaBBB", diags[0]["token"])
	assert.Equal(t, "id", diags[0]["attribute"])
	assert.Equal(t, "ccc-ddd", diags[1]["token"])
	assert.Equal(t, "warning", diags[1]["severity"])
	assert.Equal(t, filepath.Join(dir, "index.html"), diags[0]["path"])

	assert.Contains(t, errOut, "Lint complete: 1 documents, 2 problems")
}

func TestRunLint_Human(t *testing.T) {
	resetLintFlags()
	lintOutputFormat = "human"
	dir := writeSite(t, map[string]string{"index.html": sampleHTML})

	out, _, err := runLintCommand(t, dir)
	require.NoError(t, err)

	assert.Contains(t, out, "Lint complete: 1 documents, 2 problems")
	assert.Contains(t, out, filepath.Join(dir, "index.html"))
	assert.Contains(t, out, "1:5")
	assert.Contains(t, out, "1:17")
	assert.Contains(t, out, `id: "aaaBBB"`)
	assert.Contains(t, out, "2 problems (0 errors, 2 warnings)")
	assert.NotContains(t, out, "\x1b[", "color must be off with --color never")
}

func TestRunLint_Clean(t *testing.T) {
	resetLintFlags()
	lintOutputFormat = "human"
	dir := writeSite(t, map[string]string{"index.html": `<div id="main_nav" class="nav_item"></div>`})

	out, _, err := runLintCommand(t, dir)
	require.NoError(t, err)
	assert.Contains(t, out, "No problems found.")
}

func TestRunLint_RuleOverrideFails(t *testing.T) {
	resetLintFlags()
	lintRuleOverrides = []string{"id-class-value=error,dash"}
	dir := writeSite(t, map[string]string{"index.html": sampleHTML})

	out, _, err := runLintCommand(t, dir)
	require.ErrorIs(t, err, linter.ErrLintFailed)

	diags := decodeDiagnostics(t, out)
	require.Len(t, diags, 1)
	assert.Equal(t, "aaaBBB", diags[0]["token"])
	assert.Equal(t, "error", diags[0]["severity"])
}

func TestRunLint_ProjectConfig(t *testing.T) {
	resetLintFlags()
	dir := writeSite(t, map[string]string{
		"index.html":  sampleHTML,
		".lintel.yml": "rules:\n  id-class-value: [warn, hump]\n",
	})

	out, _, err := runLintCommand(t, dir)
	require.NoError(t, err)

	diags := decodeDiagnostics(t, out)
	require.Len(t, diags, 1)
	assert.Equal(t, "ccc-ddd", diags[0]["token"])
}

func TestRunLint_ExplicitConfig(t *testing.T) {
	resetLintFlags()
	dir := writeSite(t, map[string]string{"index.html": sampleHTML})
	cfgDir := writeSite(t, map[string]string{
		"lint.yml": "rules:\n  id-class-value: [warn, {regId: \"/^[a-z]+$/\"}]\n",
	})
	lintConfigPath = filepath.Join(cfgDir, "lint.yml")

	out, _, err := runLintCommand(t, dir)
	require.NoError(t, err)

	diags := decodeDiagnostics(t, out)
	require.Len(t, diags, 2)
	assert.Contains(t, diags[0]["message"], "/^[a-z]+$/")
}

func TestRunLint_RulesExclude(t *testing.T) {
	resetLintFlags()
	lintRulesExclude = "id-class"
	dir := writeSite(t, map[string]string{"index.html": sampleHTML})

	out, _, err := runLintCommand(t, dir)
	require.NoError(t, err)
	assert.Empty(t, decodeDiagnostics(t, out))
}

func TestRunLint_SingleFile(t *testing.T) {
	resetLintFlags()
	dir := writeSite(t, map[string]string{"page.xhtml": sampleHTML})

	// a named file bypasses the include globs
	out, _, err := runLintCommand(t, filepath.Join(dir, "page.xhtml"))
	require.NoError(t, err)
	assert.Len(t, decodeDiagnostics(t, out), 2)
}

func TestRunLint_SARIF(t *testing.T) {
	resetLintFlags()
	lintOutputFormat = "sarif"
	dir := writeSite(t, map[string]string{"index.html": sampleHTML})

	out, _, err := runLintCommand(t, dir)
	require.NoError(t, err)

	var report struct {
		Version string `json:"version"`
		Runs    []struct {
			Tool struct {
				Driver struct {
					Name  string `json:"name"`
					Rules []struct {
						ID string `json:"id"`
					} `json:"rules"`
				} `json:"driver"`
			} `json:"tool"`
			Results []struct {
				RuleID string `json:"ruleId"`
				Level  string `json:"level"`
			} `json:"results"`
		} `json:"runs"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, "2.1.0", report.Version)
	require.Len(t, report.Runs, 1)
	assert.Equal(t, "lintel", report.Runs[0].Tool.Driver.Name)
	require.Len(t, report.Runs[0].Tool.Driver.Rules, 1)
	assert.Equal(t, "id-class-value", report.Runs[0].Tool.Driver.Rules[0].ID)
	require.Len(t, report.Runs[0].Results, 2)
	assert.Equal(t, "warning", report.Runs[0].Results[0].Level)
}

func TestRunLint_Incremental(t *testing.T) {
	resetLintFlags()
	dir := writeSite(t, map[string]string{
		"index.html":      sampleHTML,
		"copy/index.html": sampleHTML,
	})
	lintOutputPath = filepath.Join(t.TempDir(), "lintel.db")
	lintIncremental = true

	out, errOut, err := runLintCommand(t, dir)
	require.NoError(t, err)
	first := decodeDiagnostics(t, out)
	require.Len(t, first, 4)
	assert.Contains(t, errOut, "(0 documents skipped)")
	assert.Contains(t, errOut, "Results stored in: "+lintOutputPath)

	out, errOut, err = runLintCommand(t, dir)
	require.NoError(t, err)
	assert.Contains(t, errOut, "Lint complete: 2 documents, 4 problems (2 documents skipped)")
	second := decodeDiagnostics(t, out)
	assert.Equal(t, first, second)

	// a changed rule setting invalidates stored results
	lintRuleOverrides = []string{"id-class-value=warn,dash"}
	out, errOut, err = runLintCommand(t, dir)
	require.NoError(t, err)
	assert.Contains(t, errOut, "(0 documents skipped)")
	assert.Len(t, decodeDiagnostics(t, out), 2)
}

func TestRunLint_Git(t *testing.T) {
	resetLintFlags()
	dir := writeSite(t, map[string]string{"index.html": sampleHTML})

	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("index.html")
	require.NoError(t, err)
	_, err = wt.Commit("Initial commit", &git.CommitOptions{
		Author: &object.Signature{Name: "Test User", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(t, err)

	// uncommitted content is not linted
	require.NoError(t, os.WriteFile(filepath.Join(dir, "draft.html"), []byte(sampleHTML), 0644))

	lintGit = true
	out, _, err := runLintCommand(t, dir)
	require.NoError(t, err)

	diags := decodeDiagnostics(t, out)
	require.Len(t, diags, 2)
	assert.Equal(t, "index.html", diags[0]["path"])
}

func TestRunLint_Errors(t *testing.T) {
	tests := []struct {
		name  string
		setup func()
	}{
		{name: "unknown format", setup: func() { lintOutputFormat = "xml" }},
		{name: "unknown rule", setup: func() { lintRuleOverrides = []string{"no-such-rule=error"} }},
		{name: "malformed rule flag", setup: func() { lintRuleOverrides = []string{"error"} }},
		{name: "invalid severity", setup: func() { lintRuleOverrides = []string{"id-class-value=fatal"} }},
		{name: "invalid rule filter", setup: func() { lintRulesInclude = "[" }},
		{name: "missing config", setup: func() { lintConfigPath = "/nonexistent/lintel.yml" }},
	}

	dir := writeSite(t, map[string]string{"index.html": sampleHTML})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetLintFlags()
			tt.setup()
			_, _, err := runLintCommand(t, dir)
			assert.Error(t, err)
			assert.NotErrorIs(t, err, linter.ErrLintFailed)
		})
	}
}

func TestRunLintInvalidTarget(t *testing.T) {
	resetLintFlags()
	_, _, err := runLintCommand(t, "/nonexistent/path")
	assert.Error(t, err, "should error on nonexistent target")
}

func TestParseRuleOverrides(t *testing.T) {
	overrides, err := parseRuleOverrides([]string{"id-class-value=error,/^x+$/"})
	require.NoError(t, err)
	s := overrides["id-class-value"]
	assert.True(t, s.Enabled)
	assert.Equal(t, "error", string(s.Severity))
	assert.Equal(t, "/^x+$/", s.Options["regId"])

	overrides, err = parseRuleOverrides([]string{"id-class-value=off"})
	require.NoError(t, err)
	assert.False(t, overrides["id-class-value"].Enabled)

	_, err = parseRuleOverrides([]string{"=warn"})
	assert.Error(t, err)
}
