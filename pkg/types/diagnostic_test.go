package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func diagAt(path string, line, col int, rule string) *Diagnostic {
	return &Diagnostic{
		RuleID: rule,
		Path:   path,
		Location: Location{
			Source: SourceSpan{Start: SourcePoint{Line: line, Column: col}},
		},
	}
}

func TestSortDiagnostics(t *testing.T) {
	diags := []*Diagnostic{
		diagAt("b.html", 1, 1, "id-class-value"),
		diagAt("a.html", 2, 3, "id-class-value"),
		diagAt("a.html", 1, 17, "id-class-value"),
		diagAt("a.html", 1, 5, "id-class-value"),
	}

	SortDiagnostics(diags)

	got := make([]string, 0, len(diags))
	for _, d := range diags {
		got = append(got, d.Path+":"+d.Location.Source.Start.String())
	}
	assert.Equal(t, []string{"a.html:1:5", "a.html:1:17", "a.html:2:3", "b.html:1:1"}, got)
}

func TestDiagnostic_ComputeStructuralID(t *testing.T) {
	doc := ComputeDocumentID([]byte(`<div id="aaaBBB">`))
	a := &Diagnostic{RuleID: "id-class-value", DocumentID: doc, Token: "aaaBBB"}
	a.Location.Offset.Start = 4
	b := *a

	assert.Len(t, a.ComputeStructuralID(), 40)
	assert.Equal(t, a.ComputeStructuralID(), b.ComputeStructuralID())

	b.Location.Offset.Start = 5
	assert.NotEqual(t, a.ComputeStructuralID(), b.ComputeStructuralID())
}

func TestDiagnostic_String(t *testing.T) {
	d := diagAt("index.html", 1, 17, "id-class-value")
	d.Severity = SeverityWarning
	d.Message = "bad class"

	assert.Equal(t, "index.html:1:17 warning bad class [id-class-value]", d.String())
	assert.Equal(t, 1, d.Line())
	assert.Equal(t, 17, d.Column())
}

func TestCountBySeverity(t *testing.T) {
	diags := []*Diagnostic{
		{Severity: SeverityError},
		{Severity: SeverityWarning},
		{Severity: SeverityError},
	}
	counts := CountBySeverity(diags)
	assert.Equal(t, 2, counts[SeverityError])
	assert.Equal(t, 1, counts[SeverityWarning])
}

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		in      string
		want    Severity
		wantErr bool
	}{
		{in: "warn", want: SeverityWarning},
		{in: "Warning", want: SeverityWarning},
		{in: "error", want: SeverityError},
		{in: " ERROR ", want: SeverityError},
		{in: "fatal", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSeverity(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDocumentID_RoundTrip(t *testing.T) {
	id := ComputeDocumentID([]byte("hello"))
	// git hash-object of "hello" without trailing newline
	assert.Equal(t, "b6fc4c620b67d95f953a5c1c1230aaab5db5a1b0", id.Hex())

	parsed, err := ParseDocumentID(id.Hex())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)

	var scanned DocumentID
	require.NoError(t, scanned.Scan([]byte(id.Hex())))
	assert.Equal(t, id, scanned)

	_, err = ParseDocumentID("abc")
	assert.Error(t, err)
	assert.True(t, DocumentID{}.IsZero())
}
