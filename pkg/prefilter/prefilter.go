// Package prefilter skips rules whose keywords never occur in a document.
package prefilter

import (
	"bytes"
	"strings"
	"sync"

	"github.com/cloudflare/ahocorasick"
	"github.com/praetorian-inc/lintel/pkg/rule"
)

// Prefilter uses Aho-Corasick for efficient keyword matching.
type Prefilter struct {
	mu             sync.Mutex // ahocorasick.Matcher.Match mutates internal state
	matcher        *ahocorasick.Matcher
	rules          []rule.Rule
	keywords       []string         // lowercased keyword at each index
	keywordRules   map[string][]int // keyword -> indexes of rules needing it
	noKeywordRules []int            // rules without keywords (always checked)
}

// New creates a prefilter from rules. Keywords match case-insensitively,
// since HTML attribute names are case-insensitive.
func New(rules []rule.Rule) *Prefilter {
	pf := &Prefilter{
		rules:        rules,
		keywordRules: make(map[string][]int),
	}

	keywordSet := make(map[string]bool)
	for i, r := range rules {
		kws := r.Info().Keywords
		if len(kws) == 0 {
			pf.noKeywordRules = append(pf.noKeywordRules, i)
			continue
		}
		for _, kw := range kws {
			kw = strings.ToLower(kw)
			if !keywordSet[kw] {
				keywordSet[kw] = true
				pf.keywords = append(pf.keywords, kw)
			}
			pf.keywordRules[kw] = append(pf.keywordRules[kw], i)
		}
	}

	if len(pf.keywords) > 0 {
		pf.matcher = ahocorasick.NewStringMatcher(pf.keywords)
	}

	return pf
}

// Filter returns the rules that might report on content, in the order they
// were given: rules without keywords and rules with at least one keyword
// present.
func (pf *Prefilter) Filter(content []byte) []rule.Rule {
	selected := make([]bool, len(pf.rules))
	for _, i := range pf.noKeywordRules {
		selected[i] = true
	}

	if pf.matcher != nil {
		lower := bytes.ToLower(content)
		pf.mu.Lock()
		hits := pf.matcher.Match(lower)
		pf.mu.Unlock()

		for _, hit := range hits {
			for _, i := range pf.keywordRules[pf.keywords[hit]] {
				selected[i] = true
			}
		}
	}

	result := make([]rule.Rule, 0, len(pf.rules))
	for i, ok := range selected {
		if ok {
			result = append(result, pf.rules[i])
		}
	}
	return result
}
