package registry

import (
	"sync"

	"github.com/specialistvlad/bridgeloader/internal/component"
)

// Registry holds every merged component for a single application instance.
type Registry struct {
	mu sync.RWMutex

	index   map[string]*component.Descriptor
	primary map[string]struct{}
	ordered []*component.Descriptor
	origins map[*component.Descriptor]component.Origin
	loaded  map[component.Origin]bool

	aliases map[string][]string
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		index:   make(map[string]*component.Descriptor),
		primary: make(map[string]struct{}),
		origins: make(map[*component.Descriptor]component.Origin),
		loaded:  make(map[component.Origin]bool),
		aliases: make(map[string][]string),
	}
}

// Lookup resolves a primary or provided identity.
func (r *Registry) Lookup(id string) (*component.Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.index[id]
	return d, ok
}

// IsLoaded reports whether id resolves to a component.
func (r *Registry) IsLoaded(id string) bool {
	_, ok := r.Lookup(id)
	return ok
}

// All returns the components in registration order.
func (r *Registry) All() []*component.Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]*component.Descriptor(nil), r.ordered...)
}

// Len returns the number of registered components.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.ordered)
}

// OriginLoaded reports whether the given origin has been merged.
func (r *Registry) OriginLoaded(origin component.Origin) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.loaded[origin]
}

// OriginOf returns the origin the component resolved by id was merged from.
func (r *Registry) OriginOf(id string) (component.Origin, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.index[id]
	if !ok {
		return "", false
	}
	return r.origins[d], true
}
