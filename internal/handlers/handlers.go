// Package handlers holds the compiled-in symbols that entrypoint and language
// adapter declarations resolve against. It is the Go replacement for loading
// an implementation by class name: modules register constructors under the
// names their manifests use.
package handlers

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/specialistvlad/bridgeloader/internal/component"
)

// Module is implemented by every compiled-in module that contributes symbols.
type Module interface {
	Register(h *Handlers)
}

// Handlers holds all the registered symbols.
type Handlers struct {
	all map[string]*RegisteredHandler
}

// New creates and initializes a new Handlers instance.
func New() *Handlers {
	return &Handlers{
		all: make(map[string]*RegisteredHandler),
	}
}

// RegisteredHandler holds the constructor for one symbol.
type RegisteredHandler struct {
	// New builds the instance for the component that references the symbol.
	// It is called at most once per component.
	New func(owner *component.Descriptor) (any, error)
}

// Value wraps an already constructed instance as a RegisteredHandler. Every
// component referencing the symbol shares v.
func Value(v any) *RegisteredHandler {
	return &RegisteredHandler{New: func(*component.Descriptor) (any, error) { return v, nil }}
}

// RegisterHandler registers a symbol under name. Registering the same name
// twice is a programming error and panics.
func (h *Handlers) RegisterHandler(name string, handler *RegisteredHandler) {
	if _, exists := h.all[name]; exists {
		panic(fmt.Sprintf("handler with name '%s' already registered", name))
	}
	if handler == nil || handler.New == nil {
		panic(fmt.Sprintf("handler '%s' has no constructor", name))
	}
	slog.Debug("Registering handler.", "name", name)
	h.all[name] = handler
}

// Lookup returns the symbol registered under name.
func (h *Handlers) Lookup(name string) (*RegisteredHandler, bool) {
	handler, ok := h.all[name]
	return handler, ok
}

// Names returns the registered symbol names, sorted.
func (h *Handlers) Names() []string {
	names := make([]string, 0, len(h.all))
	for name := range h.all {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
