package prefilter

import (
	"sync"
	"testing"

	"github.com/praetorian-inc/lintel/pkg/htmltok"
	"github.com/praetorian-inc/lintel/pkg/rule"
	"github.com/praetorian-inc/lintel/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRule struct {
	id       string
	keywords []string
}

func (s stubRule) ID() string { return s.id }

func (s stubRule) Info() types.Rule { return types.Rule{ID: s.id, Keywords: s.keywords} }

func (s stubRule) Check(*htmltok.Document) []*types.Diagnostic { return nil }

func ids(rules []rule.Rule) []string {
	out := make([]string, 0, len(rules))
	for _, r := range rules {
		out = append(out, r.ID())
	}
	return out
}

func TestPrefilter_RulesWithMatchingKeywords(t *testing.T) {
	pf := New([]rule.Rule{
		stubRule{id: "id-class-value", keywords: []string{"id", "class"}},
		stubRule{id: "alt-require", keywords: []string{"<img"}},
	})

	filtered := pf.Filter([]byte(`<div class="a"></div>`))

	require.Len(t, filtered, 1)
	assert.Equal(t, "id-class-value", filtered[0].ID())
}

func TestPrefilter_RulesWithoutKeywords(t *testing.T) {
	pf := New([]rule.Rule{
		stubRule{id: "rule1"},
		stubRule{id: "rule2"},
	})

	filtered := pf.Filter([]byte("plain text"))

	assert.Equal(t, []string{"rule1", "rule2"}, ids(filtered))
}

func TestPrefilter_RulesWithNonMatchingKeywords(t *testing.T) {
	pf := New([]rule.Rule{
		stubRule{id: "id-class-value", keywords: []string{"id=", "class="}},
	})

	assert.Empty(t, pf.Filter([]byte("<p>no attributes</p>")))
}

func TestPrefilter_CaseInsensitive(t *testing.T) {
	pf := New([]rule.Rule{
		stubRule{id: "id-class-value", keywords: []string{"class"}},
	})

	assert.Len(t, pf.Filter([]byte(`<DIV CLASS="x">`)), 1)
}

func TestPrefilter_PreservesOrderAndDeduplicates(t *testing.T) {
	pf := New([]rule.Rule{
		stubRule{id: "a", keywords: []string{"class"}},
		stubRule{id: "b"},
		stubRule{id: "c", keywords: []string{"id", "class"}},
	})

	filtered := pf.Filter([]byte(`<div id="x" class="y">`))

	assert.Equal(t, []string{"a", "b", "c"}, ids(filtered))
}

func TestPrefilter_Empty(t *testing.T) {
	pf := New(nil)
	assert.Empty(t, pf.Filter([]byte("<div>")))
}

func TestPrefilter_Concurrent(t *testing.T) {
	pf := New([]rule.Rule{
		stubRule{id: "id-class-value", keywords: []string{"id", "class"}},
	})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				assert.Len(t, pf.Filter([]byte(`<a class="x">`)), 1)
			} else {
				assert.Empty(t, pf.Filter([]byte(`<a href="x">`)))
			}
		}(i)
	}
	wg.Wait()
}
