// Package registry owns the canonical set of loaded components.
//
// Components arrive from two independent discovery feeds, one per origin, and
// are merged into a single index keyed by identity. A component's primary
// identity must be unique across both origins; its alternate ("provides")
// identities are best-effort guesses and the first component to claim one
// keeps it.
//
// The registry is populated during startup and only read afterwards. Merging
// an origin twice is a no-op, and components are never removed.
//
// A separate alias table records extra identities for external callers. It is
// never consulted when resolving identities through Lookup.
package registry
