package cache

import (
	"slices"

	"github.com/matzehuels/pkgtopo/pkg/layered"
)

// Keyer builds cache keys for each kind of cached value.
type Keyer interface {
	// LayoutKey identifies the serialized layout of a package set.
	LayoutKey(setHash string, opts LayoutKeyOpts) string
	// ArtifactKey identifies one rendered artifact of a layout.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
	// RegistryKey identifies a registry listing.
	RegistryKey(baseURL string, opts RegistryKeyOpts) string
}

// LayoutKeyOpts are the layout inputs besides the package set.
type LayoutKeyOpts struct {
	Config layered.Config `json:"config"`
}

// ArtifactKeyOpts are the render inputs besides the layout.
type ArtifactKeyOpts struct {
	Format    string   `json:"format"`
	Highlight []string `json:"highlight,omitempty"`
	Detailed  bool     `json:"detailed,omitempty"`
	Title     string   `json:"title,omitempty"`
}

// RegistryKeyOpts are the query parameters of a registry listing.
type RegistryKeyOpts struct {
	Namespace  string `json:"namespace,omitempty"`
	Kind       string `json:"kind,omitempty"`
	NamePrefix string `json:"name_prefix,omitempty"`
	Token      string `json:"token,omitempty"`
}

// DefaultKeyer hashes every input into the key.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey returns "layout:<sha256>".
func (DefaultKeyer) LayoutKey(setHash string, opts LayoutKeyOpts) string {
	opts.Config = opts.Config.OrDefault()
	return hashKey("layout", setHash, opts)
}

// ArtifactKey returns "artifact:<sha256>". Highlight order does not matter.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	opts.Highlight = slices.Sorted(slices.Values(opts.Highlight))
	opts.Highlight = slices.Compact(opts.Highlight)
	return hashKey("artifact", layoutHash, opts)
}

// RegistryKey returns "registry:<sha256>". The token is hashed so that
// listings visible to different credentials are not shared.
func (DefaultKeyer) RegistryKey(baseURL string, opts RegistryKeyOpts) string {
	if opts.Token != "" {
		opts.Token = Hash([]byte(opts.Token))
	}
	return hashKey("registry", baseURL, opts)
}
