package pipeline

import (
	"context"
	"encoding/json"
	stderrors "errors"

	"github.com/matzehuels/pkgtopo/pkg/cache"
	"github.com/matzehuels/pkgtopo/pkg/errors"
	"github.com/matzehuels/pkgtopo/pkg/observability"
	"github.com/matzehuels/pkgtopo/pkg/registry"
	"github.com/matzehuels/pkgtopo/pkg/store"
)

// =============================================================================
// Loading
// =============================================================================

// loaded is the raw outcome of the load stage, before filtering.
type loaded struct {
	packages []registry.Package
	warnings []string
	cacheHit bool
}

// LoadWithCacheInfo reads the package set named by opts, normalizes and
// filters it. The returned bool reports whether a registry listing came
// from the cache.
func (r *Runner) LoadWithCacheInfo(ctx context.Context, opts Options) ([]registry.Package, []string, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLoad(); err != nil {
		return nil, nil, false, err
	}

	var (
		res loaded
		err error
	)
	switch opts.Source {
	case SourceFile:
		res.packages, res.warnings, err = registry.Load(opts.Path)
	case SourceInline:
		res.packages, res.warnings, err = registry.Normalize(opts.Packages)
	case SourceRegistry:
		res, err = r.loadRegistry(ctx, opts)
	case SourceSnapshot:
		res, err = r.loadSnapshot(ctx, opts)
	}
	if err != nil {
		return nil, nil, false, err
	}

	for _, w := range res.warnings {
		opts.Logger.Warn(w)
	}
	return opts.Filter().Apply(res.packages), res.warnings, res.cacheHit, nil
}

// Load is LoadWithCacheInfo without the warnings and cache information.
func (r *Runner) Load(ctx context.Context, opts Options) ([]registry.Package, error) {
	pkgs, _, _, err := r.LoadWithCacheInfo(ctx, opts)
	return pkgs, err
}

// loadRegistry lists every package from the registry. Listings are cached
// for [cache.TTLRegistry] unless opts.Refresh is set.
func (r *Runner) loadRegistry(ctx context.Context, opts Options) (loaded, error) {
	client, err := registry.NewClient(opts.RegistryURL, registry.WithToken(opts.Token))
	if err != nil {
		return loaded{}, err
	}
	key := r.Keyer.RegistryKey(client.BaseURL(), opts.RegistryKeyOpts())

	if !opts.Refresh {
		if pkgs, ok := r.cachedListing(ctx, key); ok {
			return normalized(pkgs, true)
		}
	}

	// The registry filters server-side; the local filter is applied again
	// after normalization.
	pkgs, err := client.ListAll(ctx, registry.ListRequest{
		Namespace:  opts.Namespace,
		Kind:       opts.Kind,
		NamePrefix: opts.NamePrefix,
	})
	if err != nil {
		return loaded{}, err
	}

	if data, err := json.Marshal(pkgs); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.TTLRegistry); err == nil {
			observability.Cache().OnCacheSet(ctx, "registry", len(data))
		}
	}
	return normalized(pkgs, false)
}

func (r *Runner) cachedListing(ctx context.Context, key string) ([]registry.Package, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, "registry")
		return nil, false
	}
	var pkgs []registry.Package
	if err := json.Unmarshal(data, &pkgs); err != nil {
		observability.Cache().OnCacheMiss(ctx, "registry")
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, "registry")
	return pkgs, true
}

// loadSnapshot resolves opts.Snapshot as an ID first, then as a name.
func (r *Runner) loadSnapshot(ctx context.Context, opts Options) (loaded, error) {
	if r.Store == nil {
		return loaded{}, errors.New(errors.ErrCodeUnsupported, "no snapshot store configured")
	}

	var (
		snap *store.Snapshot
		err  error
	)
	if store.ValidateID(opts.Snapshot) == nil {
		snap, err = r.Store.Get(ctx, opts.Snapshot)
	} else {
		snap, err = r.Store.Latest(ctx, opts.Snapshot)
	}
	if stderrors.Is(err, store.ErrNotFound) {
		return loaded{}, errors.Wrap(errors.ErrCodeNotFound, err, "snapshot %q", opts.Snapshot)
	}
	if err != nil {
		return loaded{}, err
	}
	return normalized(snap.Packages, false)
}

func normalized(pkgs []registry.Package, hit bool) (loaded, error) {
	out, warnings, err := registry.Normalize(pkgs)
	if err != nil {
		return loaded{}, err
	}
	return loaded{packages: out, warnings: warnings, cacheHit: hit}, nil
}
