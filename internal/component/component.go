// Package component defines the descriptor of a loadable unit as handed to the
// registry by the discovery feeds of either ecosystem.
package component

import (
	"sort"
	"strings"
)

// Origin names the discovery feed a component came from.
type Origin string

const (
	// OriginGuest is the ecosystem components were written against.
	OriginGuest Origin = "guest"
	// OriginHost is the ecosystem of the host that runs them.
	OriginHost Origin = "host"
)

// ParseOrigin maps a configuration spelling onto an Origin.
func ParseOrigin(s string) (Origin, bool) {
	switch Origin(strings.ToLower(strings.TrimSpace(s))) {
	case OriginGuest:
		return OriginGuest, true
	case OriginHost:
		return OriginHost, true
	default:
		return "", false
	}
}

// Entrypoint is one invocation target declared for an extension-point key.
// Value is resolved by the named language adapter; an empty Adapter selects
// the default one.
type Entrypoint struct {
	Adapter string
	Value   string
}

// Descriptor is the already-parsed metadata of one component. It is not
// modified after being handed to the registry.
type Descriptor struct {
	ID          string
	Origin      Origin
	Name        string
	Version     string
	Description string
	// Source is where the descriptor was read from, used in error messages.
	Source string

	// Provides lists alternate identities in declaration order.
	Provides []string
	// Entrypoints maps an extension-point key to its targets in declaration order.
	Entrypoints map[string][]Entrypoint
	// LanguageAdapters maps an adapter key to the symbol implementing it.
	LanguageAdapters map[string]string
}

// EntrypointKeys returns the declared extension-point keys, sorted.
func (d *Descriptor) EntrypointKeys() []string {
	keys := make([]string, 0, len(d.Entrypoints))
	for k := range d.Entrypoints {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// DisplayName returns Name, or the ID when no name was declared.
func (d *Descriptor) DisplayName() string {
	if d.Name != "" {
		return d.Name
	}
	return d.ID
}
