package sites

import (
	"fmt"
	"strings"
	"sync"
)

// Builder creates an Adapter for a site definition.
type Builder func(site Site) (Adapter, error)

// AdapterRegistry resolves the adapter implementation for a site definition.
type AdapterRegistry interface {
	Register(typ string, builder Builder)
	AdapterFor(site Site) (Adapter, error)
}

type adapterRegistry struct {
	mu       sync.RWMutex
	builders map[string]Builder
}

// NewAdapterRegistry returns a registry with optional pre-registered builders keyed by site type.
func NewAdapterRegistry(builders map[string]Builder) AdapterRegistry {
	r := &adapterRegistry{builders: make(map[string]Builder)}
	for typ, b := range builders {
		r.Register(typ, b)
	}
	return r
}

// Register associates a builder with a site type.
func (r *adapterRegistry) Register(typ string, builder Builder) {
	if typ = strings.ToLower(strings.TrimSpace(typ)); typ == "" || builder == nil {
		return
	}

	r.mu.Lock()
	r.builders[typ] = builder
	r.mu.Unlock()
}

// AdapterFor sanitizes the site and builds the adapter registered for its type.
func (r *adapterRegistry) AdapterFor(site Site) (Adapter, error) {
	site = sanitizeSite(site)
	if err := validateSite(site); err != nil {
		return nil, err
	}

	r.mu.RLock()
	builder := r.builders[site.Type]
	r.mu.RUnlock()

	if builder == nil {
		return nil, fmt.Errorf("no adapter registered for site %q (type %q)", site.ID, site.Type)
	}
	return builder(site)
}

// DefaultAdapterRegistry wires up the known site variants.
func DefaultAdapterRegistry() AdapterRegistry {
	return NewAdapterRegistry(map[string]Builder{
		TypeDailyArchive:    newDailyAdapter,
		TypeCategoryArchive: newCategoryAdapter,
	})
}
