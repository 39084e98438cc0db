// Package mapping translates class, field, method and package names between
// the naming schemes ("namespaces") a component may have been compiled
// against and the namespace the host actually runs in.
//
// # Core Concepts
//
//   - Table: an immutable set of entities, each carrying one name per declared
//     namespace. Indexes for every namespace are built once, at construction,
//     so lookups from any namespace are plain map reads.
//
//   - Mapping: a pairwise view (from, to) over a Table. It is a small value and
//     costs nothing to create.
//
//   - Build: appends one derived namespace to a Table by applying a host
//     supplied DeriveFunc to the names of a fixed source namespace.
//
//   - Resolver: the query front-end bound to the runtime namespace. It accepts
//     binary (dotted) or internal (slashed) class names and never fails on
//     symbols it does not know; those are assumed to be in runtime form already.
//
//   - Provider: owns the backing mapping resource and builds the Resolver at
//     most once, on first use.
package mapping
