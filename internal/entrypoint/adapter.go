package entrypoint

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/bridgeloader/internal/component"
	"github.com/specialistvlad/bridgeloader/internal/handlers"
)

// DefaultAdapter is the adapter key used by declarations that name none.
const DefaultAdapter = "default"

var (
	ErrUnknownSymbol    = errors.New("unknown symbol")
	ErrUnknownAdapter   = errors.New("unknown language adapter")
	ErrDuplicateAdapter = errors.New("duplicate language adapter")
)

// Adapter creates the instance behind a declared entrypoint value.
type Adapter interface {
	Create(c *component.Descriptor, value string) (any, error)
}

// AdapterFunc lets an ordinary function act as an Adapter.
type AdapterFunc func(c *component.Descriptor, value string) (any, error)

func (f AdapterFunc) Create(c *component.Descriptor, value string) (any, error) {
	return f(c, value)
}

// SymbolAdapter resolves values against a handlers table.
type SymbolAdapter struct {
	Symbols *handlers.Handlers
}

func (a SymbolAdapter) Create(c *component.Descriptor, value string) (any, error) {
	h, ok := a.Symbols.Lookup(value)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSymbol, value)
	}
	return h.New(c)
}

// setupAdapters registers the default adapter followed by every adapter the
// components declare. Adapter keys are global; a key may be declared once.
func setupAdapters(components []*component.Descriptor, symbols *handlers.Handlers) (map[string]Adapter, error) {
	adapters := map[string]Adapter{DefaultAdapter: SymbolAdapter{Symbols: symbols}}
	owners := map[string]string{DefaultAdapter: "builtin"}

	for _, c := range components {
		for _, key := range sortedKeys(c.LanguageAdapters) {
			symbol := c.LanguageAdapters[key]
			if owner, dup := owners[key]; dup {
				return nil, fmt.Errorf("%w: %q declared by %q, already provided by %q", ErrDuplicateAdapter, key, c.ID, owner)
			}
			h, ok := symbols.Lookup(symbol)
			if !ok {
				return nil, fmt.Errorf("failed to instantiate language adapter %q of %q: %w: %q", key, c.ID, ErrUnknownSymbol, symbol)
			}
			v, err := construct(h, c)
			if err != nil {
				return nil, fmt.Errorf("failed to instantiate language adapter %q of %q: %w", key, c.ID, err)
			}
			a, ok := v.(Adapter)
			if !ok {
				return nil, fmt.Errorf("language adapter %q of %q: symbol %q is a %T, not an Adapter", key, c.ID, symbol, v)
			}
			adapters[key] = a
			owners[key] = c.ID
		}
	}
	return adapters, nil
}

// construct runs a symbol constructor, reporting a panic as ErrPanic.
func construct(h *handlers.RegisteredHandler, c *component.Descriptor) (v any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrPanic, r)
		}
	}()
	return h.New(c)
}
