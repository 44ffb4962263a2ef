package registry

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/pkgtopo/pkg/errors"
)

// Format identifies a package set encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// ManifestNames are the file names recognised as package manifests.
var ManifestNames = []string{"pkgtopo.yaml", "pkgtopo.yml"}

// IsManifest reports whether path names a package manifest.
func IsManifest(path string) bool {
	return slices.Contains(ManifestNames, filepath.Base(path))
}

// FormatFromPath infers the encoding from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported package set file %q (want .json, .yaml, .yml or .toml)", path)
}

type packageSet struct {
	Packages []Package `json:"packages" yaml:"packages" toml:"packages"`
}

// Parse decodes a package set. The document is either an object with a
// "packages" list or, for JSON and YAML, a bare list of packages.
// No validation is performed.
func Parse(data []byte, format Format) ([]Package, error) {
	var set packageSet
	switch format {
	case FormatJSON:
		trimmed := bytes.TrimSpace(data)
		var err error
		if len(trimmed) > 0 && trimmed[0] == '[' {
			err = json.Unmarshal(trimmed, &set.Packages)
		} else {
			err = json.Unmarshal(trimmed, &set)
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode JSON package set")
		}
	case FormatYAML:
		var doc yaml.Node
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode YAML package set")
		}
		if len(doc.Content) == 0 {
			return nil, nil
		}
		var err error
		if root := doc.Content[0]; root.Kind == yaml.SequenceNode {
			err = root.Decode(&set.Packages)
		} else {
			err = root.Decode(&set)
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode YAML package set")
		}
	case FormatTOML:
		if _, err := toml.Decode(string(data), &set); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode TOML package set")
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q", format)
	}
	return set.Packages, nil
}

// =============================================================================
// Manifests
// =============================================================================

// Manifest is the per-package file authors keep next to their schema.
type Manifest struct {
	Name         string            `yaml:"name"`
	Namespace    string            `yaml:"namespace,omitempty"`
	Kind         string            `yaml:"kind"`
	Version      string            `yaml:"version,omitempty"`
	Schema       string            `yaml:"schema,omitempty"`
	Dependencies []ManifestDep     `yaml:"dependencies,omitempty"`
	Metadata     map[string]string `yaml:"metadata,omitempty"`
}

// ManifestDep is a dependency entry in a [Manifest].
type ManifestDep struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version,omitempty"`
}

// Package converts the manifest into a [Package].
func (m Manifest) Package() Package {
	p := Package{
		Name:      m.Name,
		Namespace: m.Namespace,
		Kind:      m.Kind,
		Version:   m.Version,
		Schema:    m.Schema,
		Metadata:  m.Metadata,
	}
	for _, d := range m.Dependencies {
		p.Dependencies = append(p.Dependencies, Dependency{PackageName: d.Name, VersionConstraint: d.Version})
	}
	return p
}

// ParseManifest decodes a single YAML manifest.
func ParseManifest(data []byte) (Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Manifest{}, errors.Wrap(errors.ErrCodeInvalidManifest, err, "decode manifest")
	}
	if m.Name == "" {
		return Manifest{}, errors.New(errors.ErrCodeInvalidManifest, "manifest has no name")
	}
	return m, nil
}

// =============================================================================
// Loading
// =============================================================================

// LoadFile reads and validates a package set file or a single manifest.
// Duplicate package names keep the first occurrence; each dropped duplicate
// is reported as a warning.
func LoadFile(path string) ([]Package, []string, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, nil, err
	}

	var pkgs []Package
	if IsManifest(path) {
		m, err := ParseManifest(data)
		if err != nil {
			return nil, nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "%s", path)
		}
		pkgs = []Package{m.Package()}
	} else {
		format, err := FormatFromPath(path)
		if err != nil {
			return nil, nil, err
		}
		if pkgs, err = Parse(data, format); err != nil {
			return nil, nil, errors.Wrap(errors.GetCode(err), err, "%s", path)
		}
	}
	return Normalize(pkgs)
}

// Load reads packages from a file or, when path is a directory, from every
// manifest found beneath it in lexical order.
func Load(path string) ([]Package, []string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, nil, statError(path, err)
	}
	if !info.IsDir() {
		return LoadFile(path)
	}

	manifests, err := FindManifests(path)
	if err != nil {
		return nil, nil, err
	}
	if len(manifests) == 0 {
		return nil, nil, errors.New(errors.ErrCodeFileNotFound, "no manifests (%s) under %s", strings.Join(ManifestNames, ", "), path)
	}

	pkgs := make([]Package, 0, len(manifests))
	for _, file := range manifests {
		data, err := readFile(file)
		if err != nil {
			return nil, nil, err
		}
		m, err := ParseManifest(data)
		if err != nil {
			return nil, nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "%s", file)
		}
		pkgs = append(pkgs, m.Package())
	}
	return Normalize(pkgs)
}

// FindManifests walks dir and returns manifest paths in lexical order.
// Hidden directories and node_modules are skipped.
func FindManifests(dir string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != dir && (strings.HasPrefix(name, ".") || name == "node_modules") {
				return filepath.SkipDir
			}
			return nil
		}
		if IsManifest(path) {
			out = append(out, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "scan %s", dir)
	}
	return out, nil
}

// Normalize validates package names, drops duplicate names (keeping the
// first) and sanitizes kinds and dependencies. Only an invalid package name
// is an error; everything else is reported as a warning.
func Normalize(pkgs []Package) ([]Package, []string, error) {
	seen := make(map[string]bool, len(pkgs))
	out := make([]Package, 0, len(pkgs))
	var warnings []string
	for i, p := range pkgs {
		if err := p.Validate(); err != nil {
			return nil, nil, errors.Wrap(errors.ErrCodeInvalidPackage, err, "package #%d", i+1)
		}
		if seen[p.Name] {
			warnings = append(warnings, fmt.Sprintf("duplicate package %q ignored", p.Name))
			continue
		}
		seen[p.Name] = true
		p, dropped := p.Sanitize()
		warnings = append(warnings, dropped...)
		out = append(out, p)
	}
	return out, warnings, nil
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, statError(path, err)
	}
	return data, nil
}

func statError(path string, err error) error {
	if os.IsNotExist(err) {
		return errors.Wrap(errors.ErrCodeFileNotFound, err, "%s not found", path)
	}
	return errors.Wrap(errors.ErrCodeInvalidPath, err, "read %s", path)
}
