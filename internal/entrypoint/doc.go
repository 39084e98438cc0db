// Package entrypoint resolves the targets components declare for named
// extension points and invokes them.
//
// Declarations are turned into instances by language adapters. The default
// adapter resolves values against the compiled-in handlers table; components
// may contribute further adapters of their own. Instances are created lazily,
// once per component and declared value, and shared across keys.
//
// Invoke never stops at the first failing target. Every failure is recorded
// against the component that declared the target and reported once, as a
// *DispatchError, after all targets have run.
package entrypoint
