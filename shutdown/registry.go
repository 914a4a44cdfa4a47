// Package shutdown provides graceful shutdown coordination: an ordered
// cleanup registry, in-flight operation tracking, signal handling with
// force-on-second-signal, and a sweep for orphaned staging files.
package shutdown

import (
	"context"
	"sort"
	"sync"

	"ricedoctor/core"
)

// entry holds a registered shutdown function with metadata.
type entry struct {
	name     string
	fn       core.ShutdownFunc
	priority int // lower = earlier execution
}

// Registry maintains an ordered collection of shutdown functions.
// Registration after Shutdown has run is a no-op.
type Registry struct {
	mu      sync.Mutex
	entries []entry
	closed  bool
}

// NewRegistry creates a Registry ready to accept registrations.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a shutdown function. Lower priority values execute earlier.
//
// Typical priority ranges:
//   - 0-9: flush logs and metrics
//   - 10-19: stop accepting requests, close listeners
//   - 20-29: stop background workers
//   - 30-39: release model and backend resources
//   - 40+: final cleanup (staging sweep)
func (r *Registry) Register(name string, priority int, fn core.ShutdownFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	r.entries = append(r.entries, entry{name: name, fn: fn, priority: priority})
}

// Shutdown executes all registered functions in priority order. Every
// function runs even when earlier ones fail; errors are collected and
// returned. The registry is closed afterwards, so Shutdown is one-shot.
func (r *Registry) Shutdown(ctx context.Context) []error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	sorted := make([]entry, len(r.entries))
	copy(sorted, r.entries)
	r.mu.Unlock()

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].priority < sorted[j].priority
	})

	var errs []error
	for _, e := range sorted {
		if err := e.fn(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// Names returns the registered handler names in execution order.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	sorted := make([]entry, len(r.entries))
	copy(sorted, r.entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].priority < sorted[j].priority
	})

	names := make([]string, len(sorted))
	for i, e := range sorted {
		names[i] = e.name
	}
	return names
}

// Count returns the number of registered shutdown functions.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
