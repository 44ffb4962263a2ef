// Package config loads pkgtopo settings.
//
// Values are layered in increasing priority: built-in defaults, the TOML
// file at $XDG_CONFIG_HOME/pkgtopo/config.toml, PKGTOPO_* environment
// variables and finally command-line flags, which the CLI applies on top
// of the returned Config.
//
//	[registry]
//	url = "https://registry.internal"
//
//	[cache]
//	redis_addr = "localhost:6379"
//
//	[store]
//	mongo_uri = "mongodb://localhost:27017"
package config

import (
	stderrors "errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/pkgtopo/pkg/errors"
)

const appName = "pkgtopo"

// Environment variables read by [Load].
const (
	EnvRegistryURL = "PKGTOPO_REGISTRY_URL"
	EnvToken       = "PKGTOPO_TOKEN"
	EnvRedisAddr   = "PKGTOPO_REDIS_ADDR"
	EnvMongoURI    = "PKGTOPO_MONGO_URI"
	EnvServerAddr  = "PKGTOPO_ADDR"
	EnvNoCache     = "PKGTOPO_NO_CACHE"
)

// Defaults.
const (
	DefaultRegistryURL = "http://localhost:8081"
	DefaultServerAddr  = ":8080"
	DefaultDatabase    = "pkgtopo"
)

// Config holds every setting pkgtopo reads from file or environment.
type Config struct {
	Registry RegistryConfig `toml:"registry"`
	Cache    CacheConfig    `toml:"cache"`
	Store    StoreConfig    `toml:"store"`
	Server   ServerConfig   `toml:"server"`
	Layout   LayoutConfig   `toml:"layout"`
}

type RegistryConfig struct {
	URL   string `toml:"url"`
	Token string `toml:"token,omitempty"`
}

type CacheConfig struct {
	// Dir overrides the file cache directory.
	Dir      string `toml:"dir,omitempty"`
	Disabled bool   `toml:"disabled,omitempty"`
	// RedisAddr selects the Redis cache; host:port or a redis:// URL.
	RedisAddr string `toml:"redis_addr,omitempty"`
}

type StoreConfig struct {
	// Dir overrides the file snapshot store directory.
	Dir      string `toml:"dir,omitempty"`
	MongoURI string `toml:"mongo_uri,omitempty"`
	Database string `toml:"database,omitempty"`
}

type ServerConfig struct {
	Addr string `toml:"addr"`
}

type LayoutConfig struct {
	Compact bool `toml:"compact,omitempty"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Registry: RegistryConfig{URL: DefaultRegistryURL},
		Store:    StoreConfig{Database: DefaultDatabase},
		Server:   ServerConfig{Addr: DefaultServerAddr},
	}
}

// Dir returns the configuration directory ($XDG_CONFIG_HOME/pkgtopo or
// ~/.config/pkgtopo).
func Dir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// CacheDir returns the cache directory ($XDG_CACHE_HOME/pkgtopo or
// ~/.cache/pkgtopo), unless the config overrides it.
func (c Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// DefaultPath returns the path of the default config file.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the config file at path and applies environment overrides.
// An empty path means [DefaultPath], which may be absent; an explicit path
// must exist.
func Load(path string) (Config, error) {
	return load(path, os.LookupEnv)
}

func load(path string, lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return applyEnv(cfg, lookup)
		}
		path = p
	}

	meta, err := toml.DecodeFile(path, &cfg)
	switch {
	case err == nil:
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			return Config{}, errors.New(errors.ErrCodeInvalidInput, "%s: unknown key %q", path, undecoded[0].String())
		}
	case stderrors.Is(err, fs.ErrNotExist) && !explicit:
	case stderrors.Is(err, fs.ErrNotExist):
		return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
	default:
		return Config{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config %s", path)
	}
	return applyEnv(cfg, lookup)
}

func applyEnv(cfg Config, lookup func(string) (string, bool)) (Config, error) {
	set := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	set(EnvRegistryURL, &cfg.Registry.URL)
	set(EnvToken, &cfg.Registry.Token)
	set(EnvRedisAddr, &cfg.Cache.RedisAddr)
	set(EnvMongoURI, &cfg.Store.MongoURI)
	set(EnvServerAddr, &cfg.Server.Addr)

	if v, ok := lookup(EnvNoCache); ok && v != "" {
		disabled, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "%s", EnvNoCache)
		}
		cfg.Cache.Disabled = disabled
	}
	return cfg, cfg.Validate()
}

// Validate checks the values that have a fixed shape.
func (c Config) Validate() error {
	if err := errors.ValidateURL(c.Registry.URL); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "registry.url")
	}
	if c.Server.Addr == "" {
		return errors.New(errors.ErrCodeInvalidInput, "server.addr cannot be empty")
	}
	return nil
}

// Redacted returns a copy safe for display.
func (c Config) Redacted() Config {
	if c.Registry.Token != "" {
		c.Registry.Token = "********"
	}
	return c
}

// Encode writes c as TOML.
func (c Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}
