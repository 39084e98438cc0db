package config

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/bridgeloader/internal/component"
)

// DefaultSourceNamespace is the namespace derived names are computed from when
// the configuration does not name one.
const DefaultSourceNamespace = "srg"

var ErrInvalidConfig = errors.New("invalid configuration")

// Model is the unified, format-agnostic representation of the loader
// configuration.
type Model struct {
	Mappings *Mappings
	// Origins lists the discovery feeds in merge order.
	Origins []*Origin
	// Aliases feeds the registry's alias table.
	Aliases map[string][]string
}

// Mappings configures the mapping resource and the namespaces it is queried in.
type Mappings struct {
	// Resource is the path of the TSRG mapping resource.
	Resource string
	// Names is the optional path of a two-namespace TSRG table used as the
	// host's name derivation function.
	Names            string
	SourceNamespace  string
	RuntimeNamespace string
	// AlreadyMapped tolerates a missing Resource.
	AlreadyMapped bool
}

// Origin is one discovery feed.
type Origin struct {
	Origin component.Origin
	Path   string
}

// Defaults returns a model with no origins and no derivation.
func Defaults() *Model {
	return &Model{
		Mappings: &Mappings{
			SourceNamespace:  DefaultSourceNamespace,
			RuntimeNamespace: DefaultSourceNamespace,
		},
		Aliases: map[string][]string{},
	}
}

// Validate checks the cross-field rules of the model.
func (m *Model) Validate() error {
	if m.Mappings == nil {
		return fmt.Errorf("%w: missing mappings", ErrInvalidConfig)
	}
	if m.Mappings.SourceNamespace == "" || m.Mappings.RuntimeNamespace == "" {
		return fmt.Errorf("%w: source and runtime namespaces must not be empty", ErrInvalidConfig)
	}
	seen := make(map[component.Origin]bool, len(m.Origins))
	for _, o := range m.Origins {
		if seen[o.Origin] {
			return fmt.Errorf("%w: origin %q configured twice", ErrInvalidConfig, o.Origin)
		}
		seen[o.Origin] = true
		if o.Path == "" {
			return fmt.Errorf("%w: origin %q has no path", ErrInvalidConfig, o.Origin)
		}
	}
	return nil
}
