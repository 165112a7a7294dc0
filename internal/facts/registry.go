package facts

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/driftless-hq/driftless-sub001/internal/apierr"
)

// Collector runs one collector kind against its configuration, returning a
// flat map of fact values.
type Collector func(ctx context.Context, cfg CollectorConfig) (map[string]interface{}, error)

// Registry maps a collector-kind string to a Collector function, mirroring
// task.Registry structurally (spec.md §4.3 "Mirrors §4.1 structurally").
type Registry struct {
	mu         sync.RWMutex
	collectors map[string]Collector
}

// NewRegistry returns an empty facts registry.
func NewRegistry() *Registry {
	return &Registry{collectors: make(map[string]Collector)}
}

// Register inserts or replaces the collector for kind.
func (r *Registry) Register(kind string, c Collector) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.collectors[kind] = c
}

// Kinds returns every registered collector kind, sorted.
func (r *Registry) Kinds() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.collectors))
	for k := range r.collectors {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Collect dispatches cfg to its registered kind's collector. Collecting an
// unregistered kind fails with a Validation error.
func (r *Registry) Collect(ctx context.Context, cfg CollectorConfig) (map[string]interface{}, error) {
	r.mu.RLock()
	c, ok := r.collectors[cfg.Type]
	r.mu.RUnlock()
	if !ok {
		return nil, apierr.Validation("facts.registry", cfg.Type, fmt.Sprintf("unknown collector kind %q", cfg.Type))
	}
	return c(ctx, cfg)
}
