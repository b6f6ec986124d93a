package rule

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the project configuration file looked up by Discover.
const DefaultConfigFile = ".lintel.yml"

// Config is a lint configuration file.
type Config struct {
	Rules   map[string]Setting `yaml:"rules"`
	Include []string           `yaml:"include,omitempty"`
	Ignore  []string           `yaml:"ignore,omitempty"`
}

// Merge returns a copy of c with other applied on top: rule settings are
// replaced per rule, include and ignore lists are replaced when set.
func (c *Config) Merge(other *Config) *Config {
	out := &Config{
		Rules:   make(map[string]Setting, len(c.Rules)),
		Include: c.Include,
		Ignore:  c.Ignore,
	}
	for id, s := range c.Rules {
		out.Rules[id] = s
	}
	if other == nil {
		return out
	}
	for id, s := range other.Rules {
		out.Rules[id] = s
	}
	if len(other.Include) > 0 {
		out.Include = other.Include
	}
	if len(other.Ignore) > 0 {
		out.Ignore = other.Ignore
	}
	return out
}

// Loader handles loading lint configuration from YAML.
type Loader struct {
	fs     fs.FS // embedded filesystem for the built-in configuration
	logger *slog.Logger
}

// NewLoader creates a loader with the built-in configuration.
func NewLoader(logger *slog.Logger) *Loader {
	return NewLoaderWithFS(builtinConfigFS, logger)
}

// NewLoaderWithFS creates a loader with a custom filesystem.
func NewLoaderWithFS(fsys fs.FS, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{fs: fsys, logger: logger}
}

// LoadConfig parses configuration from YAML bytes. JSON is accepted too.
func (l *Loader) LoadConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if cfg.Rules == nil {
		cfg.Rules = make(map[string]Setting)
	}
	return &cfg, nil
}

// LoadConfigFile loads configuration from a file path.
func (l *Loader) LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	cfg, err := l.LoadConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	l.logger.Debug("loaded config", slog.String("path", path), slog.Int("rules", len(cfg.Rules)))
	return cfg, nil
}

// LoadBuiltinConfig loads the embedded default configuration.
func (l *Loader) LoadBuiltinConfig() (*Config, error) {
	data, err := fs.ReadFile(l.fs, defaultConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", defaultConfigPath, err)
	}
	return l.LoadConfig(data)
}

// Resolve returns the built-in configuration merged with the file at path.
// An empty path looks for DefaultConfigFile in dir; a missing file there is
// not an error.
func (l *Loader) Resolve(path, dir string) (*Config, error) {
	base, err := l.LoadBuiltinConfig()
	if err != nil {
		return nil, err
	}

	if path == "" {
		candidate := filepath.Join(dir, DefaultConfigFile)
		if _, statErr := os.Stat(candidate); statErr != nil {
			if errors.Is(statErr, fs.ErrNotExist) {
				l.logger.Debug("no project config, using defaults", slog.String("dir", dir))
				return base, nil
			}
			return nil, fmt.Errorf("checking %s: %w", candidate, statErr)
		}
		path = candidate
	}

	project, err := l.LoadConfigFile(path)
	if err != nil {
		return nil, err
	}
	return base.Merge(project), nil
}
