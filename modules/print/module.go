package print

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/specialistvlad/bridgeloader/internal/component"
	"github.com/specialistvlad/bridgeloader/internal/ctxlog"
	"github.com/specialistvlad/bridgeloader/internal/handlers"
)

// Symbol is the name components use to reference the announcer.
const Symbol = "print.Announcer"

// Module implements the handlers.Module interface for this package.
type Module struct {
	Out io.Writer
}

// Announcer reports the initialization of the component that declared it.
type Announcer struct {
	owner *component.Descriptor
	out   io.Writer
}

// OnInitialize writes "<id> initialized" to the configured writer.
func (a *Announcer) OnInitialize(ctx context.Context) error {
	ctxlog.FromContext(ctx).Info("Printing initialization", "component", a.owner.ID)
	_, err := fmt.Fprintf(a.out, "%s initialized\n", a.owner.ID)
	return err
}

// Register registers the announcer symbol.
func (m *Module) Register(h *handlers.Handlers) {
	out := m.Out
	if out == nil {
		out = os.Stdout
	}
	h.RegisterHandler(Symbol, &handlers.RegisteredHandler{
		New: func(owner *component.Descriptor) (any, error) {
			return &Announcer{owner: owner, out: out}, nil
		},
	})
}
