package provider

import (
	"fmt"
	"sort"
	"sync"
)

// Factory creates a new Client from the given configuration.
// Each provider registers its own factory function.
type Factory func(cfg Config) (Client, error)

// Registry maps provider names to factories.
// The zero value is not usable; create one with NewRegistry.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a provider factory.
// Panics if a provider with the same name is already registered.
func (r *Registry) Register(name string, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		panic(fmt.Sprintf("provider %q already registered", name))
	}
	r.factories[name] = factory
}

// New creates a Client using the named provider.
// Returns an error wrapping ErrUnknownProvider if the provider is not registered.
func (r *Registry) New(name string, cfg Config) (Client, error) {
	r.mu.RLock()
	factory, ok := r.factories[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s (available: %v)", ErrUnknownProvider, name, r.Available())
	}
	if cfg.Provider == "" {
		cfg.Provider = name
	}
	return factory(cfg)
}

// Available returns the registered names, sorted.
func (r *Registry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsRegistered checks if a provider is registered.
func (r *Registry) IsRegistered(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.factories[name]
	return ok
}

// Unregister removes a provider.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.factories, name)
}

var defaultRegistry = NewRegistry()

// Register adds a provider factory to the default registry.
// Providers call this in their init() function.
//
//	func init() {
//	    provider.Register("openai", func(cfg provider.Config) (provider.Client, error) {
//	        return NewClient(cfg)
//	    })
//	}
func Register(name string, factory Factory) {
	defaultRegistry.Register(name, factory)
}

// New creates a Client from the default registry.
func New(name string, cfg Config) (Client, error) {
	return defaultRegistry.New(name, cfg)
}

// FromConfig creates a Client for cfg.Provider from the default registry.
func FromConfig(cfg Config) (Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return defaultRegistry.New(cfg.Provider, cfg)
}

// Available returns the names registered in the default registry.
func Available() []string {
	return defaultRegistry.Available()
}

// IsRegistered checks the default registry.
func IsRegistered(name string) bool {
	return defaultRegistry.IsRegistered(name)
}

// Unregister removes a provider from the default registry.
// This is primarily useful for testing.
func Unregister(name string) {
	defaultRegistry.Unregister(name)
}
