package dispatch

import "sync"

// Registry maps platform identifiers to adapters. It is safe for concurrent
// use; registration normally happens once at startup.
type Registry struct {
	mu       sync.RWMutex
	adapters map[string]Adapter
}

// NewRegistry creates an empty adapter registry.
func NewRegistry() *Registry {
	return &Registry{adapters: make(map[string]Adapter)}
}

// Register installs an adapter for a platform, replacing any previous one.
func (r *Registry) Register(platform string, adapter Adapter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.adapters[platform] = adapter
}

// Adapter looks up the adapter for a platform.
func (r *Registry) Adapter(platform string) (Adapter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	adapter, ok := r.adapters[platform]
	return adapter, ok
}
