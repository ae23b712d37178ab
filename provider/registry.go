package provider

import (
	"fmt"
	"maps"
	"slices"
	"sync"
)

// Registry holds the factories of one backend family (transcription, llm)
// keyed by the name used in configuration.
type Registry[T Provider] struct {
	mu        sync.RWMutex
	factories map[string]Factory[T]
}

// NewRegistry creates an empty registry.
func NewRegistry[T Provider]() *Registry[T] {
	return &Registry[T]{factories: map[string]Factory[T]{}}
}

// RegisterFactory binds name to factory. Backends call it from init, so a
// later registration under the same name wins.
func (r *Registry[T]) RegisterFactory(name string, factory Factory[T]) {
	r.mu.Lock()
	r.factories[name] = factory
	r.mu.Unlock()
}

// Create builds the backend registered under name from its settings map.
func (r *Registry[T]) Create(name string, cfg map[string]any) (T, error) {
	r.mu.RLock()
	factory, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		var zero T
		return zero, fmt.Errorf("unknown backend %q, registered: %v", name, r.List())
	}
	return factory(cfg)
}

// List returns the registered names, sorted.
func (r *Registry[T]) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.factories))
}
