package mapping

import (
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Descriptor memo lifetimes. Entries not queried within the expiration are
// dropped by the cleanup janitor.
const (
	DescriptorCacheExpiration      = 10 * time.Minute
	DescriptorCacheCleanupInterval = 30 * time.Minute
)

// Resolver answers mapping queries against the runtime namespace.
type Resolver struct {
	table   *Table
	runtime string

	// descriptors memoises MapDescriptor results keyed by namespace and descriptor.
	descriptors *gocache.Cache
}

// NewResolver binds table to runtime, which must be one of its namespaces.
func NewResolver(table *Table, runtime string) (*Resolver, error) {
	return newResolver(table, runtime, DescriptorCacheExpiration, DescriptorCacheCleanupInterval)
}

func newResolver(table *Table, runtime string, expiration, cleanupInterval time.Duration) (*Resolver, error) {
	if !table.Has(runtime) {
		return nil, fmt.Errorf("runtime namespace %w: %q (declared: %v)", ErrUnknownNamespace, runtime, table.namespaces)
	}
	return &Resolver{
		table:       table,
		runtime:     runtime,
		descriptors: gocache.New(expiration, cleanupInterval),
	}, nil
}

// Table returns the table backing the resolver.
func (r *Resolver) Table() *Table { return r.table }

// Namespaces returns every namespace the resolver can translate from.
func (r *Resolver) Namespaces() []string { return r.table.Namespaces() }

// RuntimeNamespace returns the namespace the host runs in.
func (r *Resolver) RuntimeNamespace() string { return r.runtime }

// MapClassName translates a class name from namespace into the runtime
// namespace. Both binary and internal names are accepted; the result is a
// binary name.
func (r *Resolver) MapClassName(namespace, className string) (string, error) {
	m, err := r.table.Map(namespace, r.runtime)
	if err != nil {
		return "", err
	}
	return ToBinaryName(m.RemapClass(ToInternalName(className))), nil
}

// UnmapClassName translates a runtime class name into targetNamespace.
func (r *Resolver) UnmapClassName(targetNamespace, className string) (string, error) {
	m, err := r.table.Map(r.runtime, targetNamespace)
	if err != nil {
		return "", err
	}
	return ToBinaryName(m.RemapClass(ToInternalName(className))), nil
}

// MapFieldName translates a field of owner. An owner without a table entry
// yields name unchanged.
func (r *Resolver) MapFieldName(namespace, owner, name, descriptor string) (string, error) {
	m, err := r.table.Map(namespace, r.runtime)
	if err != nil {
		return "", err
	}
	cls, ok := m.Class(ToInternalName(owner))
	if !ok {
		return name, nil
	}
	return cls.RemapField(name), nil
}

// MapMethodName translates a method of owner identified by name and
// descriptor, both in namespace. An owner without a table entry yields name
// unchanged.
func (r *Resolver) MapMethodName(namespace, owner, name, descriptor string) (string, error) {
	m, err := r.table.Map(namespace, r.runtime)
	if err != nil {
		return "", err
	}
	cls, ok := m.Class(ToInternalName(owner))
	if !ok {
		return name, nil
	}
	return cls.RemapMethod(name, descriptor), nil
}

// MapDescriptor rewrites every class reference in a field or method descriptor.
func (r *Resolver) MapDescriptor(namespace, descriptor string) (string, error) {
	key := namespace + "\x00" + descriptor
	if v, ok := r.descriptors.Get(key); ok {
		return v.(string), nil
	}
	m, err := r.table.Map(namespace, r.runtime)
	if err != nil {
		return "", err
	}
	out := m.RemapDescriptor(descriptor)
	r.descriptors.SetDefault(key, out)
	return out, nil
}
