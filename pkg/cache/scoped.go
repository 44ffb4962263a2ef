package cache

// ScopedKeyer wraps a Keyer with a prefix, so that several deployments or
// environments can share one cache backend without colliding.
//
//	staging := NewScopedKeyer(NewDefaultKeyer(), "staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// LayoutKey generates a prefixed key for layout caching.
func (k *ScopedKeyer) LayoutKey(setHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(setHash, opts)
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}

// RegistryKey generates a prefixed key for registry listings.
func (k *ScopedKeyer) RegistryKey(baseURL string, opts RegistryKeyOpts) string {
	return k.prefix + k.inner.RegistryKey(baseURL, opts)
}
