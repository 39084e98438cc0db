package entrypoint

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/specialistvlad/bridgeloader/internal/component"
	"github.com/specialistvlad/bridgeloader/internal/ctxlog"
	"github.com/specialistvlad/bridgeloader/internal/handlers"
)

// Initializer is the target type of the initialization entrypoints run by the
// CLI.
type Initializer interface {
	OnInitialize(ctx context.Context) error
}

type instanceKey struct {
	component string
	adapter   string
	value     string
}

// instance is created on first use and shared by every declaration of the
// same value by the same component.
type instance struct {
	component *component.Descriptor
	adapter   Adapter
	value     string

	once    sync.Once
	created atomic.Bool
	v       any
	err     error
}

func (in *instance) get() (any, error) {
	in.once.Do(func() {
		defer func() {
			if r := recover(); r != nil {
				in.err = fmt.Errorf("%w while creating %q: %v", ErrPanic, in.value, r)
			}
		}()
		in.v, in.err = in.adapter.Create(in.component, in.value)
		if in.err == nil {
			in.created.Store(true)
		}
	})
	return in.v, in.err
}

type entry struct {
	component *component.Descriptor
	decl      component.Entrypoint
	inst      *instance
}

// Dispatcher holds the resolved entrypoint declarations of every component.
// It is safe for concurrent use once built.
type Dispatcher struct {
	entries     map[string][]*entry
	byComponent map[string][]*instance
}

// New builds a Dispatcher from components in registration order. It fails
// when a language adapter cannot be set up or a declaration names an adapter
// that does not exist.
func New(ctx context.Context, components []*component.Descriptor, symbols *handlers.Handlers) (*Dispatcher, error) {
	logger := ctxlog.FromContext(ctx)

	adapters, err := setupAdapters(components, symbols)
	if err != nil {
		return nil, err
	}

	d := &Dispatcher{
		entries:     make(map[string][]*entry),
		byComponent: make(map[string][]*instance),
	}
	instances := make(map[instanceKey]*instance)

	for _, c := range components {
		for _, key := range c.EntrypointKeys() {
			for _, decl := range c.Entrypoints[key] {
				adapterKey := decl.Adapter
				if adapterKey == "" {
					adapterKey = DefaultAdapter
				}
				a, ok := adapters[adapterKey]
				if !ok {
					return nil, fmt.Errorf("failed to setup component %s (%s): %w: %q", c.DisplayName(), c.Source, ErrUnknownAdapter, adapterKey)
				}

				ik := instanceKey{component: c.ID, adapter: adapterKey, value: decl.Value}
				inst, ok := instances[ik]
				if !ok {
					inst = &instance{component: c, adapter: a, value: decl.Value}
					instances[ik] = inst
					d.byComponent[c.ID] = append(d.byComponent[c.ID], inst)
				}
				d.entries[key] = append(d.entries[key], &entry{component: c, decl: decl, inst: inst})
			}
		}
	}

	logger.Debug("Entrypoints set up.", "keys", len(d.entries), "adapters", len(adapters))
	return d, nil
}

// HasEntrypoints reports whether any component declares key.
func (d *Dispatcher) HasEntrypoints(key string) bool {
	return len(d.entries[key]) > 0
}

// Keys returns every declared key, sorted.
func (d *Dispatcher) Keys() []string {
	return sortedKeys(d.entries)
}

// Instances returns the instances created so far for a component.
func (d *Dispatcher) Instances(componentID string) []any {
	var out []any
	for _, in := range d.byComponent[componentID] {
		if in.created.Load() {
			out = append(out, in.v)
		}
	}
	return out
}

// Container pairs a resolved entrypoint with the component that declared it.
type Container[T any] struct {
	Entrypoint T
	Provider   *component.Descriptor
	Definition string
}

// Containers resolves every target of key that is a T. Targets of other types
// are skipped; targets that cannot be created are reported together.
func Containers[T any](ctx context.Context, d *Dispatcher, key string) ([]Container[T], error) {
	var (
		out      []Container[T]
		failures []Failure
	)
	d.each(ctx, key, func(e *entry, v any) {
		if t, ok := v.(T); ok {
			out = append(out, Container[T]{Entrypoint: t, Provider: e.component, Definition: e.decl.Value})
		}
	}, &failures)
	if len(failures) > 0 {
		return out, &DispatchError{Key: key, Failures: failures}
	}
	return out, nil
}

// Entrypoints is Containers without the provider information.
func Entrypoints[T any](ctx context.Context, d *Dispatcher, key string) ([]T, error) {
	containers, err := Containers[T](ctx, d, key)
	out := make([]T, len(containers))
	for i, c := range containers {
		out[i] = c.Entrypoint
	}
	return out, err
}

// Invoke calls fn once for every target of key that is a T, in component
// registration order. A failing target does not stop the pass; all failures
// are returned together as a *DispatchError.
func Invoke[T any](ctx context.Context, d *Dispatcher, key string, fn func(T) error) error {
	logger := ctxlog.FromContext(ctx)
	if !d.HasEntrypoints(key) {
		logger.Debug("No subscribers for entrypoint.", "key", key)
		return nil
	}
	logger.Debug("Iterating over entrypoint.", "key", key)

	var failures []Failure
	d.each(ctx, key, func(e *entry, v any) {
		t, ok := v.(T)
		if !ok {
			logger.Debug("Entrypoint target has another type, skipping.", "key", key, "component", e.component.ID, "value", e.decl.Value, "type", fmt.Sprintf("%T", v))
			return
		}
		if err := call(fn, t); err != nil {
			logger.Warn("Entrypoint failed.", "key", key, "component", e.component.ID, "error", err)
			failures = append(failures, Failure{ComponentID: e.component.ID, Value: e.decl.Value, Err: err})
		}
	}, &failures)

	if len(failures) > 0 {
		return &DispatchError{Key: key, Failures: failures}
	}
	return nil
}

// each resolves every target of key and hands the created ones to visit.
// Creation failures are appended to failures.
func (d *Dispatcher) each(ctx context.Context, key string, visit func(*entry, any), failures *[]Failure) {
	for _, e := range d.entries[key] {
		v, err := e.inst.get()
		if err != nil {
			ctxlog.FromContext(ctx).Warn("Could not create entrypoint.", "key", key, "component", e.component.ID, "value", e.decl.Value, "error", err)
			*failures = append(*failures, Failure{ComponentID: e.component.ID, Value: e.decl.Value, Err: err})
			continue
		}
		visit(e, v)
	}
}

func call[T any](fn func(T) error, t T) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrPanic, r)
		}
	}()
	return fn(t)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
