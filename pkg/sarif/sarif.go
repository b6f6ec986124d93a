// Package sarif renders diagnostics as a SARIF 2.1.0 log.
package sarif

import (
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/praetorian-inc/lintel/pkg/types"
)

// SARIF 2.1.0 constants
const (
	SchemaURI = "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json"
	Version   = "2.1.0"
	ToolName  = "lintel"
)

// Report is the top-level SARIF report structure
type Report struct {
	Schema  string `json:"$schema"`
	Version string `json:"version"`
	Runs    []Run  `json:"runs"`
}

// Run represents a single invocation of the tool
type Run struct {
	Tool    Tool     `json:"tool"`
	Results []Result `json:"results"`
}

// Tool describes the analysis tool
type Tool struct {
	Driver Driver `json:"driver"`
}

// Driver contains tool metadata
type Driver struct {
	Name           string `json:"name"`
	Version        string `json:"version"`
	InformationURI string `json:"informationUri,omitempty"`
	Rules          []Rule `json:"rules,omitempty"`
}

// Rule represents a lint rule
type Rule struct {
	ID                   string           `json:"id"`
	Name                 string           `json:"name"`
	ShortDescription     ShortDescription `json:"shortDescription"`
	HelpURI              string           `json:"helpUri,omitempty"`
	DefaultConfiguration *Configuration   `json:"defaultConfiguration,omitempty"`
	Properties           *RuleProperties  `json:"properties,omitempty"`
}

// RuleProperties carries the rule's categories as SARIF tags
type RuleProperties struct {
	Tags []string `json:"tags,omitempty"`
}

// Configuration carries a rule's default level
type Configuration struct {
	Level string `json:"level"`
}

// ShortDescription contains rule description text
type ShortDescription struct {
	Text string `json:"text"`
}

// Result represents a single diagnostic
type Result struct {
	RuleID              string            `json:"ruleId"`
	Level               string            `json:"level"`
	Message             Message           `json:"message"`
	Locations           []Location        `json:"locations"`
	PartialFingerprints map[string]string `json:"partialFingerprints,omitempty"`
}

// Message contains the result message
type Message struct {
	Text string `json:"text"`
}

// Location describes where a result was found
type Location struct {
	PhysicalLocation PhysicalLocation `json:"physicalLocation"`
}

// PhysicalLocation specifies file location
type PhysicalLocation struct {
	ArtifactLocation ArtifactLocation `json:"artifactLocation"`
	Region           Region           `json:"region"`
}

// ArtifactLocation identifies the file
type ArtifactLocation struct {
	URI string `json:"uri"`
}

// Region specifies the line/column range
type Region struct {
	StartLine   int      `json:"startLine"`
	StartColumn int      `json:"startColumn"`
	EndLine     int      `json:"endLine"`
	EndColumn   int      `json:"endColumn"`
	Snippet     *Snippet `json:"snippet,omitempty"`
}

// Snippet contains the offending token
type Snippet struct {
	Text string `json:"text"`
}

// NewReport creates a new SARIF report with initialized structure
func NewReport(toolVersion string) *Report {
	return &Report{
		Schema:  SchemaURI,
		Version: Version,
		Runs: []Run{
			{
				Tool: Tool{
					Driver: Driver{
						Name:           ToolName,
						Version:        toolVersion,
						InformationURI: "https://github.com/praetorian-inc/lintel",
						Rules:          []Rule{},
					},
				},
				Results: []Result{},
			},
		},
	}
}

// AddRule adds a lint rule to the report
func (r *Report) AddRule(rule types.Rule, defaultSeverity types.Severity) {
	sarifRule := Rule{
		ID:   rule.ID,
		Name: rule.Name,
		ShortDescription: ShortDescription{
			Text: rule.Description,
		},
	}

	// Add first reference as helpUri if available
	if len(rule.References) > 0 {
		sarifRule.HelpURI = rule.References[0]
	}

	if len(rule.Categories) > 0 {
		sarifRule.Properties = &RuleProperties{Tags: rule.Categories}
	}

	if defaultSeverity != "" {
		sarifRule.DefaultConfiguration = &Configuration{Level: Level(defaultSeverity)}
	}

	r.Runs[0].Tool.Driver.Rules = append(r.Runs[0].Tool.Driver.Rules, sarifRule)
}

// AddResult adds a diagnostic to the report
func (r *Report) AddResult(d *types.Diagnostic) {
	region := Region{
		StartLine:   d.Location.Source.Start.Line,
		StartColumn: d.Location.Source.Start.Column,
		EndLine:     d.Location.Source.End.Line,
		EndColumn:   d.Location.Source.End.Column,
	}

	if d.Token != "" {
		region.Snippet = &Snippet{
			Text: d.Token,
		}
	}

	result := Result{
		RuleID: d.RuleID,
		Level:  Level(d.Severity),
		Message: Message{
			Text: d.Message,
		},
		Locations: []Location{
			{
				PhysicalLocation: PhysicalLocation{
					ArtifactLocation: ArtifactLocation{
						URI: formatFileURI(d.Path),
					},
					Region: region,
				},
			},
		},
	}
	if d.StructuralID != "" {
		result.PartialFingerprints = map[string]string{"lintel/v1": d.StructuralID}
	}

	r.Runs[0].Results = append(r.Runs[0].Results, result)
}

// Level maps a severity to a SARIF result level.
func Level(sev types.Severity) string {
	switch sev {
	case types.SeverityError:
		return "error"
	case types.SeverityWarning:
		return "warning"
	default:
		return "note"
	}
}

// ToJSON serializes the report to JSON bytes
func (r *Report) ToJSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// formatFileURI converts a file path to SARIF URI format
// Absolute paths get file:// prefix, relative paths stay as-is
func formatFileURI(path string) string {
	if filepath.IsAbs(path) {
		// Normalize path separators for URI format
		path = filepath.ToSlash(path)
		// Ensure path starts with /
		if !strings.HasPrefix(path, "/") {
			path = "/" + path
		}
		return "file://" + path
	}
	// Relative paths stay as-is
	return filepath.ToSlash(path)
}
