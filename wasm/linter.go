//go:build wasm

package main

import (
	"encoding/json"
	"sync"
	"syscall/js"

	"github.com/praetorian-inc/lintel"
	"github.com/praetorian-inc/lintel/pkg/rule"
)

var (
	linters   = make(map[int]*lintel.Linter)
	lintersMu sync.RWMutex
	nextID    int
)

// LintItem is one document of a batch request.
type LintItem struct {
	Source  string `json:"source"`
	Content string `json:"content"`
}

// LintResult holds the diagnostics of one document.
type LintResult struct {
	Source      string               `json:"source"`
	Diagnostics []*lintel.Diagnostic `json:"diagnostics"`
}

// BatchLintResult holds the results of a batch request.
type BatchLintResult struct {
	Results []LintResult `json:"results"`
	Total   int          `json:"total"`
}

// newLinter creates a linter from a YAML or JSON config ("" or "builtin"
// selects the built-in configuration).
// JS: LintelNewLinter(configText) -> {handle} or {error}
func newLinter(this js.Value, args []js.Value) interface{} {
	var opts []lintel.Option
	if len(args) > 0 {
		if text := args[0].String(); text != "" && text != "builtin" {
			cfg, err := lintel.ParseConfig([]byte(text))
			if err != nil {
				return map[string]interface{}{"error": "invalid config: " + err.Error()}
			}
			opts = append(opts, lintel.WithConfig(cfg))
		}
	}

	l, err := lintel.NewLinter(opts...)
	if err != nil {
		return map[string]interface{}{"error": "failed to create linter: " + err.Error()}
	}

	lintersMu.Lock()
	id := nextID
	nextID++
	linters[id] = l
	lintersMu.Unlock()

	return map[string]interface{}{"handle": id}
}

func lookup(handle int) (*lintel.Linter, bool) {
	lintersMu.RLock()
	defer lintersMu.RUnlock()
	l, ok := linters[handle]
	return l, ok
}

func lintItem(l *lintel.Linter, item LintItem) (LintResult, error) {
	diags, err := l.LintString(item.Source, item.Content)
	if err != nil {
		return LintResult{}, err
	}
	if diags == nil {
		diags = []*lintel.Diagnostic{}
	}
	return LintResult{Source: item.Source, Diagnostics: diags}, nil
}

// lint lints a single document.
// JS: LintelLint(handle, content, source) -> JSON result or {error}
func lint(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return map[string]interface{}{"error": "handle and content arguments required"}
	}

	item := LintItem{Content: args[1].String()}
	if len(args) > 2 {
		item.Source = args[2].String()
	}

	l, ok := lookup(args[0].Int())
	if !ok {
		return map[string]interface{}{"error": "invalid linter handle"}
	}

	result, err := lintItem(l, item)
	if err != nil {
		return map[string]interface{}{"error": "lint failed: " + err.Error()}
	}

	jsonBytes, err := json.Marshal(result)
	if err != nil {
		return map[string]interface{}{"error": "failed to marshal results: " + err.Error()}
	}
	return string(jsonBytes)
}

// lintBatch lints several documents.
// JS: LintelLintBatch(handle, itemsJSON) -> JSON results or {error}
func lintBatch(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return map[string]interface{}{"error": "handle and itemsJSON arguments required"}
	}

	l, ok := lookup(args[0].Int())
	if !ok {
		return map[string]interface{}{"error": "invalid linter handle"}
	}

	var items []LintItem
	if err := json.Unmarshal([]byte(args[1].String()), &items); err != nil {
		return map[string]interface{}{"error": "failed to parse items JSON: " + err.Error()}
	}

	batch := BatchLintResult{Results: make([]LintResult, 0, len(items))}
	for _, item := range items {
		result, err := lintItem(l, item)
		if err != nil {
			return map[string]interface{}{"error": "lint failed: " + err.Error()}
		}
		batch.Results = append(batch.Results, result)
		batch.Total += len(result.Diagnostics)
	}

	jsonBytes, err := json.Marshal(batch)
	if err != nil {
		return map[string]interface{}{"error": "failed to marshal results: " + err.Error()}
	}
	return string(jsonBytes)
}

// closeLinter releases a linter handle.
// JS: LintelCloseLinter(handle)
func closeLinter(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return map[string]interface{}{"error": "handle argument required"}
	}

	handle := args[0].Int()

	lintersMu.Lock()
	_, ok := linters[handle]
	delete(linters, handle)
	lintersMu.Unlock()

	if !ok {
		return map[string]interface{}{"error": "invalid linter handle"}
	}
	return nil
}

// ruleInfo is the JSON form of a registered rule.
type ruleInfo struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	References  []string `json:"references,omitempty"`
}

// getRules returns the registered rules as JSON.
// JS: LintelGetRules() -> JSON rules array
func getRules(this js.Value, args []js.Value) interface{} {
	var rules []ruleInfo
	for _, def := range rule.All() {
		rules = append(rules, ruleInfo{
			ID:          def.Info.ID,
			Name:        def.Info.Name,
			Description: def.Info.Description,
			References:  def.Info.References,
		})
	}

	jsonBytes, err := json.Marshal(rules)
	if err != nil {
		return map[string]interface{}{"error": "failed to marshal rules: " + err.Error()}
	}
	return string(jsonBytes)
}
