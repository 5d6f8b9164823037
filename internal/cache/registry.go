package cache

import (
	"maps"
	"slices"
	"sync"
)

// StoreStats is the introspection view of one namespace.
type StoreStats struct {
	Namespace string `json:"namespace"`
	Size      int    `json:"size"`
}

// Registry holds one Store per namespace for the lifetime of the process.
type Registry struct {
	opt        Options
	newMetrics MetricsFactory

	mu     sync.Mutex
	stores map[string]*Store
}

// NewRegistry creates an empty registry. Every store it creates gets opt, with Metrics
// taken from newMetrics (when non-nil).
func NewRegistry(opt Options, newMetrics MetricsFactory) *Registry {
	return &Registry{
		opt:        opt,
		newMetrics: newMetrics,
		stores:     make(map[string]*Store),
	}
}

// Store returns the store for namespace, creating and registering it on first use.
func (r *Registry) Store(namespace string) *Store {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.stores[namespace]; ok {
		return s
	}
	opt := r.opt
	if r.newMetrics != nil {
		opt.Metrics = r.newMetrics(namespace)
	}
	s := NewStore(namespace, opt)
	r.stores[namespace] = s
	return s
}

// Namespaces returns the registered namespaces, sorted.
func (r *Registry) Namespaces() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Sorted(maps.Keys(r.stores))
}

// AllStats reports the size of every registered namespace.
func (r *Registry) AllStats() map[string]StoreStats {
	stats := make(map[string]StoreStats)
	for _, s := range r.snapshot() {
		stats[s.namespace] = StoreStats{Namespace: s.namespace, Size: s.Len()}
	}
	return stats
}

// ClearAll empties every store and returns the total number of entries removed.
func (r *Registry) ClearAll() int {
	var removed int
	for _, s := range r.snapshot() {
		removed += s.Clear()
	}
	return removed
}

// Destroy stops every store's sweep and clears them. The registry is empty afterwards.
func (r *Registry) Destroy() {
	r.mu.Lock()
	stores := r.stores
	r.stores = make(map[string]*Store)
	r.mu.Unlock()

	for _, s := range stores {
		s.Destroy()
	}
}

func (r *Registry) snapshot() []*Store {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Collect(maps.Values(r.stores))
}
