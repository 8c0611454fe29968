package blueprint

import (
	"fmt"
	"sort"
	"sync"
)

// Factory builds a module's blueprint. It is called once per Load.
type Factory func() (*Blueprint, error)

// Registry maps module names to blueprint factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register associates name with f. Registering a name twice is an error.
func (r *Registry) Register(name string, f Factory) error {
	if name == "" {
		return fmt.Errorf("blueprint name cannot be empty")
	}
	if f == nil {
		return fmt.Errorf("blueprint %q: factory is nil", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("blueprint %q already registered", name)
	}
	r.factories[name] = f
	return nil
}

// MustRegister is like Register but panics on error. Intended for init().
func (r *Registry) MustRegister(name string, f Factory) {
	if err := r.Register(name, f); err != nil {
		panic(err)
	}
}

// Lookup returns the factory registered under name.
func (r *Registry) Lookup(name string) (Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.factories[name]
	return f, ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Unregister removes name from the registry.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.factories, name)
}

var defaultRegistry = NewRegistry()

// DefaultRegistry returns the process-wide registry used by Register and Load.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// Register adds f to the default registry.
func Register(name string, f Factory) error {
	return defaultRegistry.Register(name, f)
}

// MustRegister adds f to the default registry and panics on error.
func MustRegister(name string, f Factory) {
	defaultRegistry.MustRegister(name, f)
}
