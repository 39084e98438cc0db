// Package cli is responsible for parsing command-line arguments, validating
// user input, and handling process-level concerns like exit codes. It wires
// cobra commands to an app.App built from flags, environment variables
// (BRIDGELOADER_*) and the HCL loader configuration.
package cli
