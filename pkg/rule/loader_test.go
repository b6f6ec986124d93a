package rule

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/praetorian-inc/lintel/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoader_LoadBuiltinConfig(t *testing.T) {
	cfg, err := NewLoader(nil).LoadBuiltinConfig()
	require.NoError(t, err)

	s, ok := cfg.Rules["id-class-value"]
	require.True(t, ok)
	assert.True(t, s.Enabled)
	assert.Equal(t, types.SeverityWarning, s.Severity)
	assert.Equal(t, "underline", s.Options["mode"])
	assert.Contains(t, cfg.Include, "**/*.html")
}

func TestLoader_LoadConfig(t *testing.T) {
	cfg, err := NewLoader(nil).LoadConfig([]byte(`
rules:
  id-class-value: [error, hump]
ignore: ["dist/**"]
`))
	require.NoError(t, err)
	assert.Equal(t, "hump", cfg.Rules["id-class-value"].Mode)
	assert.Equal(t, []string{"dist/**"}, cfg.Ignore)
}

func TestLoader_LoadConfig_JSON(t *testing.T) {
	cfg, err := NewLoader(nil).LoadConfig([]byte(`{"rules": {"id-class-value": ["error", {"mode": "dash"}]}}`))
	require.NoError(t, err)
	assert.Equal(t, "dash", cfg.Rules["id-class-value"].Options["mode"])
}

func TestLoader_LoadConfig_Invalid(t *testing.T) {
	_, err := NewLoader(nil).LoadConfig([]byte("rules: [unclosed"))
	assert.Error(t, err)

	_, err = NewLoader(nil).LoadConfig([]byte("rules:\n  id-class-value: loud\n"))
	assert.ErrorIs(t, err, ErrInvalidSeverity)
}

func TestLoader_Resolve(t *testing.T) {
	dir := t.TempDir()
	l := NewLoader(nil)

	// no project file: defaults only
	cfg, err := l.Resolve("", dir)
	require.NoError(t, err)
	assert.Equal(t, types.SeverityWarning, cfg.Rules["id-class-value"].Severity)

	// project file discovered in dir overrides per rule
	err = os.WriteFile(filepath.Join(dir, DefaultConfigFile), []byte("rules:\n  id-class-value: [error, dash]\n"), 0644)
	require.NoError(t, err)
	cfg, err = l.Resolve("", dir)
	require.NoError(t, err)
	assert.Equal(t, types.SeverityError, cfg.Rules["id-class-value"].Severity)
	assert.Equal(t, "dash", cfg.Rules["id-class-value"].Mode)
	assert.Contains(t, cfg.Include, "**/*.html", "include is inherited when the project leaves it unset")

	// explicit path that does not exist is an error
	_, err = l.Resolve(filepath.Join(dir, "missing.yml"), dir)
	assert.Error(t, err)
}

func TestLoaderWithFS(t *testing.T) {
	fsys := fstest.MapFS{
		defaultConfigPath: {Data: []byte("rules:\n  id-class-value: off\n")},
	}
	cfg, err := NewLoaderWithFS(fsys, nil).LoadBuiltinConfig()
	require.NoError(t, err)
	assert.False(t, cfg.Rules["id-class-value"].Enabled)
}

func TestConfig_Merge(t *testing.T) {
	base := &Config{
		Rules:   map[string]Setting{"a": Enable(types.SeverityWarning), "b": Enable(types.SeverityWarning)},
		Include: []string{"**/*.html"},
	}
	merged := base.Merge(&Config{Rules: map[string]Setting{"b": {}}, Ignore: []string{"x/**"}})

	assert.True(t, merged.Rules["a"].Enabled)
	assert.False(t, merged.Rules["b"].Enabled)
	assert.Equal(t, []string{"x/**"}, merged.Ignore)
	assert.True(t, base.Rules["b"].Enabled, "merge must not mutate the receiver")
}

func TestValidateConfig(t *testing.T) {
	cfg := &Config{Rules: map[string]Setting{"id-class-value": {}, "no-such-rule": {}}}

	err := ValidateConfig(cfg, map[string]bool{"id-class-value": true})
	assert.ErrorIs(t, err, ErrUnknownRule)
	assert.Contains(t, err.Error(), "no-such-rule")

	assert.NoError(t, ValidateConfig(cfg, nil))
	assert.Error(t, ValidateConfig(nil, nil))
}
