package rule

import (
	"testing"

	"github.com/praetorian-inc/lintel/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func decodeSetting(t *testing.T, src string) (Setting, error) {
	t.Helper()
	var s Setting
	err := yaml.Unmarshal([]byte(src), &s)
	return s, err
}

func TestSetting_UnmarshalYAML(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want Setting
	}{
		{
			name: "scalar warn",
			src:  `warn`,
			want: Setting{Enabled: true, Severity: types.SeverityWarning},
		},
		{
			name: "scalar off",
			src:  `off`,
			want: Setting{},
		},
		{
			name: "bool false",
			src:  `false`,
			want: Setting{},
		},
		{
			name: "numeric error",
			src:  `2`,
			want: Setting{Enabled: true, Severity: types.SeverityError},
		},
		{
			name: "sequence with mode string",
			src:  `[error, dash]`,
			want: Setting{Enabled: true, Severity: types.SeverityError, Mode: "dash"},
		},
		{
			name: "sequence with options mapping",
			src:  `[warn, {mode: underline}]`,
			want: Setting{Enabled: true, Severity: types.SeverityWarning, Options: map[string]any{"mode": "underline"}},
		},
		{
			name: "misspelled key is kept verbatim",
			src:  `[error, {mdoe: dash}]`,
			want: Setting{Enabled: true, Severity: types.SeverityError, Options: map[string]any{"mdoe": "dash"}},
		},
		{
			name: "pattern with message",
			src: `
- error
- regId: '/^_[a-z\d]+(-[a-z\d]+)*$/'
  message: Id and class value must meet regexp
`,
			want: Setting{Enabled: true, Severity: types.SeverityError, Options: map[string]any{
				"regId":   `/^_[a-z\d]+(-[a-z\d]+)*$/`,
				"message": "Id and class value must meet regexp",
			}},
		},
		{
			name: "flat mapping",
			src:  `{severity: error, mode: hump}`,
			want: Setting{Enabled: true, Severity: types.SeverityError, Options: map[string]any{"mode": "hump"}},
		},
		{
			name: "mapping with nested options and default severity",
			src:  `{options: {mode: dash}}`,
			want: Setting{Enabled: true, Severity: types.SeverityWarning, Options: map[string]any{"mode": "dash"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeSetting(t, tt.src)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSetting_UnmarshalYAML_Errors(t *testing.T) {
	for _, src := range []string{`fatal`, `[]`, `[error, dash, extra]`, `[[error], dash]`, `[error, [dash]]`, `7`} {
		_, err := decodeSetting(t, src)
		assert.Error(t, err, src)
	}

	_, err := decodeSetting(t, `fatal`)
	assert.ErrorIs(t, err, ErrInvalidSeverity)
}

func TestSetting_MarshalYAML(t *testing.T) {
	out, err := yaml.Marshal(Setting{Enabled: true, Severity: types.SeverityError, Mode: "dash"})
	require.NoError(t, err)

	back, err := decodeSetting(t, string(out))
	require.NoError(t, err)
	assert.Equal(t, "dash", back.Mode)
	assert.Equal(t, types.SeverityError, back.Severity)

	out, err = yaml.Marshal(Setting{})
	require.NoError(t, err)
	assert.Equal(t, "\"off\"\n", string(out))
}

func TestParseInline(t *testing.T) {
	s, err := ParseInline("error,dash")
	require.NoError(t, err)
	assert.Equal(t, Setting{Enabled: true, Severity: types.SeverityError, Mode: "dash"}, s)

	s, err = ParseInline("warn,/^_[a-z]+,x$/")
	require.NoError(t, err)
	assert.Equal(t, "/^_[a-z]+,x$/", s.Options["regId"])

	s, err = ParseInline("off")
	require.NoError(t, err)
	assert.False(t, s.Enabled)

	_, err = ParseInline("loud,dash")
	assert.ErrorIs(t, err, ErrInvalidSeverity)
}
