package enum

import (
	"context"
	"sync"

	"github.com/praetorian-inc/lintel/pkg/types"
)

// CombinedEnumerator runs multiple enumerators sequentially and yields each
// (path, content) pair at most once, so overlapping targets such as
// "site/" and "site/index.html" are linted once.
type CombinedEnumerator struct {
	enumerators []Enumerator
}

// NewCombinedEnumerator creates a CombinedEnumerator that wraps the provided
// enumerators. They are run in order.
func NewCombinedEnumerator(enumerators ...Enumerator) *CombinedEnumerator {
	return &CombinedEnumerator{enumerators: enumerators}
}

type seenKey struct {
	kind string
	path string
	id   types.DocumentID
}

// Enumerate runs each child enumerator in sequence, passing unseen
// documents to callback.
func (c *CombinedEnumerator) Enumerate(ctx context.Context, callback Callback) error {
	var mu sync.Mutex
	seen := make(map[seenKey]bool)

	for _, e := range c.enumerators {
		err := e.Enumerate(ctx, func(content []byte, id types.DocumentID, prov types.Provenance) error {
			key := seenKey{kind: prov.Kind(), path: cleanPath(prov.Path()), id: id}
			mu.Lock()
			if seen[key] {
				mu.Unlock()
				return nil
			}
			seen[key] = true
			mu.Unlock()

			return callback(content, id, prov)
		})
		if err != nil {
			return err
		}
	}
	return nil
}
