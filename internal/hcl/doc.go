// Package hcl provides the concrete HCL implementation of the configuration
// Loader defined in the `config` package. It is responsible for file parsing,
// HCL-to-model translation, and CTY-to-Go conversion of free-form attributes.
package hcl
