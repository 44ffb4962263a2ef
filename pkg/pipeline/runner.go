package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pkgtopo/pkg/cache"
	"github.com/matzehuels/pkgtopo/pkg/graph"
	"github.com/matzehuels/pkgtopo/pkg/observability"
	"github.com/matzehuels/pkgtopo/pkg/registry"
	"github.com/matzehuels/pkgtopo/pkg/render"
	"github.com/matzehuels/pkgtopo/pkg/store"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner keeps no per-run state, so one Runner may serve concurrent
// runs with different options. Store is only needed for the snapshot
// source.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Store  store.Store
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// WithStore sets the snapshot store and returns the runner.
func (r *Runner) WithStore(s store.Store) *Runner {
	r.Store = s
	return r
}

// Execute runs the complete load → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)
	hooks := observability.Pipeline()

	result := &Result{}

	// Stage 1: Load
	hooks.OnLoadStart(ctx, opts.Source)
	loadStart := time.Now()
	pkgs, warnings, loadHit, err := r.LoadWithCacheInfo(ctx, opts)
	result.Stats.LoadTime = time.Since(loadStart)
	hooks.OnLoadComplete(ctx, opts.Source, len(pkgs), result.Stats.LoadTime, err)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Packages = pkgs
	result.Warnings = warnings
	result.Stats.PackageCount = len(pkgs)
	result.CacheInfo.LoadHit = loadHit

	r.Logger.Info("loaded packages",
		"source", opts.Source,
		"packages", len(pkgs),
		"duration", result.Stats.LoadTime)

	// Stage 2: Layout
	opts.progress("Laying out %d packages...", len(pkgs))
	layoutStart := time.Now()
	layout, setHash, layoutHit, err := r.LayoutWithCacheInfo(ctx, pkgs, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = layout
	result.SetHash = setHash
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.EdgeCount = len(layout.Edges)
	result.Stats.LayerCount = len(layout.Rows)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"nodes", len(layout.Nodes),
		"layers", result.Stats.LayerCount,
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	opts.progress("Rendering %d layers...", result.Stats.LayerCount)
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, layout, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// LayoutWithCacheInfo lays out pkgs, consulting the cache first. It also
// returns the package set hash and whether the layout was a cache hit.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, pkgs []registry.Package, opts Options) (graph.Layout, string, bool, error) {
	setHash, err := store.SetHash(pkgs)
	if err != nil {
		return graph.Layout{}, "", false, err
	}
	key := r.Keyer.LayoutKey(setHash, opts.LayoutKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if cached, err := graph.UnmarshalLayout(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				return cached, setHash, true, nil
			}
			// unreadable entries are recomputed and overwritten
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, len(pkgs))
	start := time.Now()
	layout := ComputeLayout(pkgs, opts.Config())
	hooks.OnLayoutComplete(ctx, len(layout.Nodes), len(layout.Rows), time.Since(start))

	if data, err := graph.MarshalLayout(layout); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.TTLLayout); err == nil {
			observability.Cache().OnCacheSet(ctx, "layout", len(data))
		}
	}
	return layout, setHash, false, nil
}

// Layout is a convenience wrapper that discards the hash and cache hit info.
func (r *Runner) Layout(ctx context.Context, pkgs []registry.Package, opts Options) (graph.Layout, error) {
	layout, _, _, err := r.LayoutWithCacheInfo(ctx, pkgs, opts)
	return layout, err
}

// RenderWithCacheInfo renders every format in opts.Formats with caching.
// The bool is true when all artifacts came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, layout graph.Layout, opts Options) (map[render.Format][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	layoutData, err := graph.MarshalLayout(layout)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)

	artifacts := make(map[render.Format][]byte, len(opts.Formats))
	if !opts.Refresh {
		for _, f := range opts.Formats {
			key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(f))
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil || !hit {
				observability.Cache().OnCacheMiss(ctx, "artifact")
				break
			}
			observability.Cache().OnCacheHit(ctx, "artifact")
			artifacts[f] = data
		}
		if len(artifacts) == len(opts.Formats) {
			return artifacts, true, nil
		}
	}

	names := make([]string, len(opts.Formats))
	for i, f := range opts.Formats {
		names[i] = string(f)
	}
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, names)
	start := time.Now()
	rendered, err := RenderLayout(ctx, layout, opts.Formats, opts.RenderOptions())
	hooks.OnRenderComplete(ctx, names, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for f, data := range rendered {
		key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(f))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}
	return rendered, false, nil
}

// Render is a convenience wrapper that discards the cache hit info.
func (r *Runner) Render(ctx context.Context, layout graph.Layout, opts Options) (map[render.Format][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, layout, opts)
	return artifacts, err
}

// Close releases resources held by the runner.
func (r *Runner) Close() error {
	var err error
	if r.Cache != nil {
		err = r.Cache.Close()
	}
	if r.Store != nil {
		if serr := r.Store.Close(); err == nil {
			err = serr
		}
	}
	return err
}

func (o Options) progress(format string, args ...any) {
	if o.Progress != nil {
		o.Progress(fmt.Sprintf(format, args...))
	}
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
}
