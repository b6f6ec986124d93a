package sarif

import (
	"encoding/json"
	"testing"

	"github.com/praetorian-inc/lintel/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReport(t *testing.T) {
	report := NewReport("1.2.3")

	assert.Equal(t, SchemaURI, report.Schema)
	assert.Equal(t, Version, report.Version)
	assert.Len(t, report.Runs, 1)
	assert.Equal(t, ToolName, report.Runs[0].Tool.Driver.Name)
	assert.Equal(t, "1.2.3", report.Runs[0].Tool.Driver.Version)
}

func TestAddRule(t *testing.T) {
	report := NewReport("dev")

	report.AddRule(types.Rule{
		ID:          "id-class-value",
		Name:        "ID and class value naming",
		Description: "The id and class attribute values must meet the specified naming rules.",
		References:  []string{"https://htmlhint.com/rules/id-class-value/"},
		Categories:  []string{"naming", "style"},
	}, types.SeverityError)

	require.Len(t, report.Runs[0].Tool.Driver.Rules, 1)
	rule := report.Runs[0].Tool.Driver.Rules[0]
	assert.Equal(t, "id-class-value", rule.ID)
	assert.Equal(t, "https://htmlhint.com/rules/id-class-value/", rule.HelpURI)
	require.NotNil(t, rule.DefaultConfiguration)
	assert.Equal(t, "error", rule.DefaultConfiguration.Level)
	require.NotNil(t, rule.Properties)
	assert.Equal(t, []string{"naming", "style"}, rule.Properties.Tags)
}

func TestAddResult(t *testing.T) {
	report := NewReport("dev")

	d := &types.Diagnostic{
		RuleID:   "id-class-value",
		Severity: types.SeverityWarning,
		Message:  "The id and class attribute values must be in lowercase and split by an underscore.",
		Location: types.Location{
			Offset: types.OffsetSpan{Start: 9, End: 15},
			Source: types.SourceSpan{
				Start: types.SourcePoint{Line: 1, Column: 5},
				End:   types.SourcePoint{Line: 1, Column: 11},
			},
		},
		Token: "aaaBBB",
		Path:  "site/index.html",
	}
	d.StructuralID = d.ComputeStructuralID()
	report.AddResult(d)

	require.Len(t, report.Runs[0].Results, 1)
	result := report.Runs[0].Results[0]
	assert.Equal(t, "id-class-value", result.RuleID)
	assert.Equal(t, "warning", result.Level)
	assert.Equal(t, d.Message, result.Message.Text)
	assert.Equal(t, d.StructuralID, result.PartialFingerprints["lintel/v1"])

	loc := result.Locations[0].PhysicalLocation
	assert.Equal(t, "site/index.html", loc.ArtifactLocation.URI)
	assert.Equal(t, 1, loc.Region.StartLine)
	assert.Equal(t, 5, loc.Region.StartColumn)
	assert.Equal(t, 11, loc.Region.EndColumn)
	require.NotNil(t, loc.Region.Snippet)
	assert.Equal(t, "aaaBBB", loc.Region.Snippet.Text)
}

func TestAddResult_EmptyTokenHasNoSnippet(t *testing.T) {
	report := NewReport("dev")
	report.AddResult(&types.Diagnostic{RuleID: "id-class-value", Severity: types.SeverityError, Path: "/abs/a.html"})

	result := report.Runs[0].Results[0]
	assert.Equal(t, "error", result.Level)
	assert.Nil(t, result.Locations[0].PhysicalLocation.Region.Snippet)
	assert.Equal(t, "file:///abs/a.html", result.Locations[0].PhysicalLocation.ArtifactLocation.URI)
}

func TestLevel(t *testing.T) {
	assert.Equal(t, "error", Level(types.SeverityError))
	assert.Equal(t, "warning", Level(types.SeverityWarning))
	assert.Equal(t, "note", Level(""))
}

func TestToJSON(t *testing.T) {
	report := NewReport("dev")
	report.AddResult(&types.Diagnostic{RuleID: "id-class-value", Severity: types.SeverityWarning, Path: "a.html", Token: "X"})

	data, err := report.ToJSON()
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "2.1.0", decoded["version"])
	assert.Contains(t, string(data), `"$schema"`)
	assert.Contains(t, string(data), `"ruleId": "id-class-value"`)
}

func TestFormatFileURI(t *testing.T) {
	assert.Equal(t, "file:///tmp/a.html", formatFileURI("/tmp/a.html"))
	assert.Equal(t, "site/a.html", formatFileURI("site/a.html"))
}
