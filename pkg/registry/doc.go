// Package registry models API packages and their dependencies, and loads
// them from package set files, package manifests or a running registry.
//
// # Sources
//
// [LoadFile] reads a package set in JSON, YAML or TOML, or a single
// manifest. [Load] additionally accepts a directory, which is scanned for
// manifests. [Client] lists packages from the registry HTTP API, following
// page tokens.
//
// # Layout input
//
// [Nodes] converts packages into input for the layered layout engine.
// Dependency version constraints are not interpreted; packages are keyed
// by name only.
//
//	pkgs, warnings, err := registry.Load("services/")
//	layout := layered.Compute(registry.Nodes(pkgs), layered.DefaultConfig)
package registry
