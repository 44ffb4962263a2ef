// Package pipeline provides the load → layout → render pipeline of pkgtopo.
//
// The same [Runner] backs the CLI and the HTTP server, so both produce
// identical layouts and artifacts for identical package sets.
//
// # Stages
//
//  1. Load: read a package set from a file or directory, a registry, a
//     snapshot, or inline packages, then filter it
//  2. Layout: assign layers and positions with [layered.Compute]
//  3. Render: produce JSON, SVG, DOT or PNG artifacts
//
// Layouts and artifacts are cached by content hash. Two package sets that
// serialize identically share cache entries regardless of their source.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Source:  pipeline.SourceFile,
//	    Path:    "packages.yaml",
//	    Formats: []render.Format{render.FormatSVG},
//	})
//	if err != nil {
//	    return err
//	}
//	svg := result.Artifacts[render.FormatSVG]
package pipeline

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pkgtopo/pkg/cache"
	"github.com/matzehuels/pkgtopo/pkg/errors"
	"github.com/matzehuels/pkgtopo/pkg/graph"
	"github.com/matzehuels/pkgtopo/pkg/layered"
	"github.com/matzehuels/pkgtopo/pkg/registry"
	"github.com/matzehuels/pkgtopo/pkg/render"
)

// =============================================================================
// Default Values
// =============================================================================

// Package set sources.
const (
	SourceFile     = "file"
	SourceRegistry = "registry"
	SourceSnapshot = "snapshot"
	SourceInline   = "inline"
)

// DefaultRegistryURL is the registry used when none is configured.
const DefaultRegistryURL = "http://localhost:8081"

// DefaultFormat is rendered when no format is requested.
const DefaultFormat = render.FormatJSON

var validSources = map[string]bool{
	SourceFile:     true,
	SourceRegistry: true,
	SourceSnapshot: true,
	SourceInline:   true,
}

// =============================================================================
// Options
// =============================================================================

// Options configures one pipeline run. It doubles as the JSON request body
// of the HTTP API.
type Options struct {
	// Load options
	Source        string             `json:"source"`
	Path          string             `json:"path,omitempty"`
	RegistryURL   string             `json:"registry_url,omitempty"`
	Snapshot      string             `json:"snapshot,omitempty"` // snapshot ID or name
	Packages      []registry.Package `json:"packages,omitempty"`
	Namespace     string             `json:"namespace,omitempty"`
	Kind          string             `json:"kind,omitempty"`
	NamePrefix    string             `json:"name_prefix,omitempty"`
	IncludeYanked bool               `json:"include_yanked,omitempty"`
	Refresh       bool               `json:"refresh,omitempty"`

	// Layout options
	Compact bool `json:"compact,omitempty"`

	// Render options
	Formats   []render.Format `json:"formats,omitempty"`
	Highlight []string        `json:"highlight,omitempty"`
	Detailed  bool            `json:"detailed,omitempty"`
	Title     string          `json:"title,omitempty"`

	// Runtime options (not serialized)
	Token  string      `json:"-"`
	Logger *log.Logger `json:"-"`

	// Progress, if set, receives a short message as each stage begins.
	Progress func(message string) `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Packages is the filtered package set that was laid out.
	Packages []registry.Package

	// SetHash is the content hash of Packages.
	SetHash string

	Layout    graph.Layout
	Artifacts map[render.Format][]byte

	// Warnings are non-fatal load problems, such as duplicate names.
	Warnings []string

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	PackageCount int
	EdgeCount    int
	LayerCount   int
	LoadTime     time.Duration
	LayoutTime   time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LoadHit   bool // registry listing came from cache
	LayoutHit bool
	RenderHit bool // every artifact came from cache
}

// =============================================================================
// Validation
// =============================================================================

// ValidateSource checks that source names a known package set source.
func ValidateSource(source string) error {
	if !validSources[source] {
		return errors.New(errors.ErrCodeInvalidInput,
			"invalid source: %q (must be one of: file, registry, snapshot, inline)", source)
	}
	return nil
}

// ValidateAndSetDefaults checks required fields and applies defaults for the
// full pipeline. Calling it again is a no-op.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks the load options and fills in the source when it
// can be inferred.
func (o *Options) ValidateForLoad() error {
	if o.Source == "" {
		o.Source = o.inferSource()
	}
	if err := ValidateSource(o.Source); err != nil {
		return err
	}

	switch o.Source {
	case SourceFile:
		if o.Path == "" {
			return errors.New(errors.ErrCodeInvalidPath, "path is required for source %q", o.Source)
		}
	case SourceRegistry:
		if o.RegistryURL == "" {
			o.RegistryURL = DefaultRegistryURL
		}
		if err := errors.ValidateURL(o.RegistryURL); err != nil {
			return err
		}
	case SourceSnapshot:
		if o.Snapshot == "" {
			return errors.New(errors.ErrCodeInvalidInput, "snapshot id or name is required")
		}
	}
	return nil
}

// ValidateForRender checks formats and applies the default format.
func (o *Options) ValidateForRender() error {
	if len(o.Formats) == 0 {
		o.Formats = []render.Format{DefaultFormat}
	}
	for i, f := range o.Formats {
		parsed, err := render.ParseFormat(string(f))
		if err != nil {
			return err
		}
		o.Formats[i] = parsed
	}
	return nil
}

func (o *Options) inferSource() string {
	switch {
	case len(o.Packages) > 0:
		return SourceInline
	case o.Snapshot != "":
		return SourceSnapshot
	case o.Path != "":
		return SourceFile
	case o.RegistryURL != "":
		return SourceRegistry
	}
	return ""
}

// Filter returns the package filter described by the options.
func (o *Options) Filter() registry.Filter {
	return registry.Filter{
		Namespace:     o.Namespace,
		Kind:          o.Kind,
		NamePrefix:    o.NamePrefix,
		IncludeYanked: o.IncludeYanked,
	}
}

// Config returns the layout configuration for the options.
func (o *Options) Config() layered.Config {
	if o.Compact {
		return layered.CompactConfig
	}
	return layered.DefaultConfig
}

// RenderOptions returns the renderer options.
func (o *Options) RenderOptions() render.Options {
	return render.Options{
		Highlight: o.Highlight,
		Detailed:  o.Detailed,
		Title:     o.Title,
	}
}

// LayoutKeyOpts returns the layout cache key options.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{Config: o.Config()}
}

// ArtifactKeyOpts returns the artifact cache key options for one format.
func (o *Options) ArtifactKeyOpts(f render.Format) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:    string(f),
		Highlight: o.Highlight,
		Detailed:  o.Detailed,
		Title:     o.Title,
	}
}

// RegistryKeyOpts returns the cache key options for a registry listing.
func (o *Options) RegistryKeyOpts() cache.RegistryKeyOpts {
	return cache.RegistryKeyOpts{
		Namespace:  o.Namespace,
		Kind:       o.Kind,
		NamePrefix: o.NamePrefix,
		Token:      o.Token,
	}
}
