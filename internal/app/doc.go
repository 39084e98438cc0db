// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the startup sequence that turns a loader
// configuration into a populated registry, an entrypoint dispatcher and a
// lazily loaded mapping provider, decoupled from any specific entrypoint like
// a CLI.
//
// App replaces process-wide state: everything that needs registry or mapping
// access receives the App (or the parts it hands out) explicitly.
package app
