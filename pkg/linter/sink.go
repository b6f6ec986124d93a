package linter

import (
	"sync"

	"github.com/praetorian-inc/lintel/pkg/types"
)

// Sink receives lint results.
type Sink interface {
	Emit(res *Result) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(res *Result) error

// Emit calls f(res).
func (f SinkFunc) Emit(res *Result) error { return f(res) }

// Collector is a Sink that keeps every diagnostic in memory.
type Collector struct {
	mu      sync.Mutex
	results []*Result
}

// Emit implements Sink.
func (c *Collector) Emit(res *Result) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results = append(c.results, res)
	return nil
}

// Results returns the collected results.
func (c *Collector) Results() []*Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*Result(nil), c.results...)
}

// Diagnostics returns every collected diagnostic sorted by path and position.
func (c *Collector) Diagnostics() []*types.Diagnostic {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []*types.Diagnostic
	for _, r := range c.results {
		out = append(out, r.Diagnostics...)
	}
	types.SortDiagnostics(out)
	return out
}
