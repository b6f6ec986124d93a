package rule

import (
	"fmt"
	"sort"
	"sync"
)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Definition)
)

// Register adds a rule definition. It panics on a duplicate ID, which can
// only happen through a programming error in an init function.
func Register(def Definition) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, dup := registry[def.ID()]; dup {
		panic(fmt.Sprintf("rule %s registered twice", def.ID()))
	}
	registry[def.ID()] = def
}

// All returns every registered definition sorted by ID.
func All() []Definition {
	registryMu.RLock()
	defer registryMu.RUnlock()

	defs := make([]Definition, 0, len(registry))
	for _, d := range registry {
		defs = append(defs, d)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].ID() < defs[j].ID() })
	return defs
}

// ByID returns the definition registered under id.
func ByID(id string) (Definition, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	d, ok := registry[id]
	return d, ok
}

// KnownIDs returns the set of registered rule IDs.
func KnownIDs() map[string]bool {
	registryMu.RLock()
	defer registryMu.RUnlock()

	ids := make(map[string]bool, len(registry))
	for id := range registry {
		ids[id] = true
	}
	return ids
}
