package rule

import (
	"fmt"
	"regexp"
	"strings"
)

// FilterConfig specifies include and exclude patterns for rule filtering.
type FilterConfig struct {
	Include []string // Regex patterns - only matching rules included
	Exclude []string // Regex patterns - matching rules excluded
}

// ParsePatterns splits a comma-separated string into individual patterns.
// Patterns are trimmed of whitespace.
func ParsePatterns(patterns string) []string {
	if patterns == "" {
		return []string{}
	}

	parts := strings.Split(patterns, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// Filter applies include and exclude patterns to anything with a rule ID.
// Include is applied first, then exclude. Empty include means "include all".
// Returns error if any pattern is invalid regex.
func Filter[R interface{ ID() string }](rules []R, config FilterConfig) ([]R, error) {
	include, err := compileAll(config.Include)
	if err != nil {
		return nil, err
	}
	exclude, err := compileAll(config.Exclude)
	if err != nil {
		return nil, err
	}

	result := make([]R, 0, len(rules))
	for _, r := range rules {
		if len(include) > 0 && !matchesAny(r.ID(), include) {
			continue
		}
		if matchesAny(r.ID(), exclude) {
			continue
		}
		result = append(result, r)
	}
	return result, nil
}

// =============================================================================
// HELPERS
// =============================================================================

func compileAll(patterns []string) ([]*regexp.Regexp, error) {
	var out []*regexp.Regexp
	for _, pattern := range patterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid regex pattern %q: %w", pattern, err)
		}
		out = append(out, re)
	}
	return out, nil
}

func matchesAny(ruleID string, regexes []*regexp.Regexp) bool {
	for _, re := range regexes {
		if re.MatchString(ruleID) {
			return true
		}
	}
	return false
}
