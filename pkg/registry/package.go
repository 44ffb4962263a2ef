package registry

import (
	"fmt"
	"strings"
	"time"

	"github.com/matzehuels/pkgtopo/pkg/errors"
	"github.com/matzehuels/pkgtopo/pkg/layered"
)

// Package is a versioned package as published to the registry.
type Package struct {
	ID           string            `json:"id,omitempty" bson:"id,omitempty" yaml:"id,omitempty" toml:"id,omitempty"`
	Name         string            `json:"name" bson:"name" yaml:"name" toml:"name"`
	Namespace    string            `json:"namespace,omitempty" bson:"namespace,omitempty" yaml:"namespace,omitempty" toml:"namespace,omitempty"`
	Kind         string            `json:"kind" bson:"kind" yaml:"kind" toml:"kind"`
	Version      string            `json:"version,omitempty" bson:"version,omitempty" yaml:"version,omitempty" toml:"version,omitempty"`
	Schema       string            `json:"schema,omitempty" bson:"schema,omitempty" yaml:"schema,omitempty" toml:"schema,omitempty"`
	Dependencies []Dependency      `json:"dependencies,omitempty" bson:"dependencies,omitempty" yaml:"dependencies,omitempty" toml:"dependencies,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty" bson:"metadata,omitempty" yaml:"metadata,omitempty" toml:"metadata,omitempty"`
	CreatedAt    time.Time         `json:"createdAt,omitzero" bson:"created_at,omitempty" yaml:"createdAt,omitempty" toml:"createdAt,omitempty"`
	UpdatedAt    time.Time         `json:"updatedAt,omitzero" bson:"updated_at,omitempty" yaml:"updatedAt,omitempty" toml:"updatedAt,omitempty"`
	Yanked       bool              `json:"yanked,omitempty" bson:"yanked,omitempty" yaml:"yanked,omitempty" toml:"yanked,omitempty"`
}

// Dependency references another package by name with a version constraint.
type Dependency struct {
	PackageName       string `json:"packageName" bson:"package_name" yaml:"packageName" toml:"packageName"`
	VersionConstraint string `json:"versionConstraint,omitempty" bson:"version_constraint,omitempty" yaml:"versionConstraint,omitempty" toml:"versionConstraint,omitempty"`
}

// DependencyNames returns the names of p's dependencies in declaration order.
func (p Package) DependencyNames() []string {
	if len(p.Dependencies) == 0 {
		return nil
	}
	names := make([]string, len(p.Dependencies))
	for i, d := range p.Dependencies {
		names[i] = d.PackageName
	}
	return names
}

// Validate checks the package's own name. Kind and dependency names are
// not validated here; see [Package.Sanitize].
func (p Package) Validate() error {
	return errors.ValidatePackageName(p.Name)
}

// Sanitize returns p with malformed optional fields removed: a kind that
// fails [errors.ValidateKind] is cleared and dependencies with empty or
// invalid names are dropped. Each removal is described by a warning.
func (p Package) Sanitize() (Package, []string) {
	var warnings []string
	if p.Kind != "" {
		if err := errors.ValidateKind(p.Kind); err != nil {
			warnings = append(warnings, fmt.Sprintf("package %q: kind ignored: %s", p.Name, errors.UserMessage(err)))
			p.Kind = ""
		}
	}

	deps := p.Dependencies[:0:0]
	for _, d := range p.Dependencies {
		if err := errors.ValidatePackageName(d.PackageName); err != nil {
			warnings = append(warnings, fmt.Sprintf("package %q: dependency %q dropped: %s", p.Name, d.PackageName, errors.UserMessage(err)))
			continue
		}
		deps = append(deps, d)
	}
	if len(deps) != len(p.Dependencies) {
		p.Dependencies = deps
	}
	return p, warnings
}

// Nodes converts packages into layout engine input, preserving order.
func Nodes(pkgs []Package) []layered.Node[Package] {
	out := make([]layered.Node[Package], len(pkgs))
	for i, p := range pkgs {
		out[i] = layered.Node[Package]{Name: p.Name, Deps: p.DependencyNames(), Payload: p}
	}
	return out
}

// =============================================================================
// Filtering
// =============================================================================

// Filter selects packages. Empty fields match everything.
type Filter struct {
	Namespace     string `json:"namespace,omitempty"`
	Kind          string `json:"kind,omitempty"`
	NamePrefix    string `json:"name_prefix,omitempty"`
	IncludeYanked bool   `json:"include_yanked,omitempty"`
}

// Match reports whether p passes the filter.
func (f Filter) Match(p Package) bool {
	switch {
	case f.Namespace != "" && p.Namespace != f.Namespace:
		return false
	case f.Kind != "" && p.Kind != f.Kind:
		return false
	case f.NamePrefix != "" && !strings.HasPrefix(p.Name, f.NamePrefix):
		return false
	case p.Yanked && !f.IncludeYanked:
		return false
	}
	return true
}

// Apply returns the packages matching f, in order.
func (f Filter) Apply(pkgs []Package) []Package {
	out := make([]Package, 0, len(pkgs))
	for _, p := range pkgs {
		if f.Match(p) {
			out = append(out, p)
		}
	}
	return out
}

// ExcludeYanked drops yanked packages.
func ExcludeYanked(pkgs []Package) []Package {
	return Filter{}.Apply(pkgs)
}

// =============================================================================
// Kind colours
// =============================================================================

// DefaultKindColor is used for kinds without a dedicated colour.
const DefaultKindColor = "#9ca3af"

var kindColors = map[string]string{
	"graphql":         "#ec4899",
	"rest":            "#22c55e",
	"openapi":         "#22c55e",
	"openapi-service": "#22c55e",
	"grpc":            "#a855f7",
	"protobuf":        "#a855f7",
	"composite":       "#f97316",
	"workflow-engine": "#f97316",
}

// KindColor returns the hex colour used to draw packages of the given kind.
func KindColor(kind string) string {
	if c, ok := kindColors[strings.ToLower(kind)]; ok {
		return c
	}
	return DefaultKindColor
}
