// Package discovery reads the component manifests of both ecosystems and turns
// them into component descriptors, in deterministic path order.
//
// Guest components ship a JSON manifest named "*.mod.json". Host components
// ship a TOML "mods.toml" that may describe several components.
package discovery
