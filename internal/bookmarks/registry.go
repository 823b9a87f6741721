package bookmarks

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrUnknownProvider is returned when no provider is registered under a name
var ErrUnknownProvider = errors.New("unknown provider")

// Registry manages all link providers
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
	configs   map[string]ProviderConfig
}

// NewRegistry creates a new provider registry
func NewRegistry() *Registry {
	return &Registry{
		providers: make(map[string]Provider),
		configs:   make(map[string]ProviderConfig),
	}
}

// Register adds a provider to the registry
func (r *Registry) Register(provider Provider) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := provider.Name()
	if _, exists := r.providers[name]; exists {
		return fmt.Errorf("provider %s already registered", name)
	}

	r.providers[name] = provider
	return nil
}

// GetEnabled returns all enabled providers sorted by name. A provider
// configured with Enabled false stays out even when it could serve links.
func (r *Registry) GetEnabled() []Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var enabled []Provider
	for name, provider := range r.providers {
		if config, ok := r.configs[name]; ok && !config.Enabled {
			continue
		}
		if provider.IsEnabled() {
			enabled = append(enabled, provider)
		}
	}
	sort.Slice(enabled, func(i, j int) bool {
		return enabled[i].Name() < enabled[j].Name()
	})
	return enabled
}

// List returns all registered provider names
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var names []string
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the provider registered under name
func (r *Registry) Lookup(name string) (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lookup(name)
}

func (r *Registry) lookup(name string) (Provider, error) {
	provider, exists := r.providers[name]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, name)
	}
	return provider, nil
}

// LookupAs returns the provider registered under name as its concrete type
func LookupAs[T Provider](r *Registry, name string) (T, error) {
	var zero T
	provider, err := r.Lookup(name)
	if err != nil {
		return zero, err
	}
	typed, ok := provider.(T)
	if !ok {
		return zero, fmt.Errorf("provider %s is a %T, not a %T", name, provider, zero)
	}
	return typed, nil
}

// Configure applies configuration to a provider
func (r *Registry) Configure(name string, config ProviderConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	provider, err := r.lookup(name)
	if err != nil {
		return err
	}

	if err := provider.Configure(config.Settings); err != nil {
		return fmt.Errorf("failed to configure provider %s: %w", name, err)
	}

	r.configs[name] = config
	return nil
}
