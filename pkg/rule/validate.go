package rule

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownRule is returned when a configuration names an unregistered rule.
var ErrUnknownRule = errors.New("unknown rule")

// ValidateConfig checks that every configured rule is known.
// knownRuleIDs is usually KnownIDs(); nil skips the check.
func ValidateConfig(cfg *Config, knownRuleIDs map[string]bool) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if knownRuleIDs == nil {
		return nil
	}

	var unknown []string
	for id := range cfg.Rules {
		if !knownRuleIDs[id] {
			unknown = append(unknown, id)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return fmt.Errorf("%w: %v", ErrUnknownRule, unknown)
	}
	return nil
}
