package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/pkgtopo/pkg/errors"
)

func env(vars map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := vars[k]
		return v, ok
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := load("", env(nil))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg != Default() {
		t.Errorf("cfg = %+v, want defaults", cfg)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
[registry]
url = "https://registry.example.com"
token = "from-file"

[cache]
redis_addr = "redis:6379"

[store]
mongo_uri = "mongodb://mongo:27017"

[layout]
compact = true
`)

	cfg, err := load(path, env(nil))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Registry.URL != "https://registry.example.com" || cfg.Registry.Token != "from-file" {
		t.Errorf("Registry = %+v", cfg.Registry)
	}
	if cfg.Cache.RedisAddr != "redis:6379" || cfg.Store.MongoURI != "mongodb://mongo:27017" {
		t.Errorf("Cache = %+v, Store = %+v", cfg.Cache, cfg.Store)
	}
	if !cfg.Layout.Compact {
		t.Error("Layout.Compact should be true")
	}
	// Unset keys keep their defaults.
	if cfg.Server.Addr != DefaultServerAddr || cfg.Store.Database != DefaultDatabase {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
[registry]
url = "https://registry.example.com"
`)

	cfg, err := load(path, env(map[string]string{
		EnvRegistryURL: "http://override:9000",
		EnvToken:       " secret ",
		EnvMongoURI:    "mongodb://env",
		EnvNoCache:     "true",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Registry.URL != "http://override:9000" {
		t.Errorf("Registry.URL = %q", cfg.Registry.URL)
	}
	if cfg.Registry.Token != "secret" {
		t.Errorf("Registry.Token = %q", cfg.Registry.Token)
	}
	if cfg.Store.MongoURI != "mongodb://env" || !cfg.Cache.Disabled {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		path func(t *testing.T) string
		env  map[string]string
		code errors.Code
	}{
		{
			name: "missing explicit file",
			path: func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.toml") },
			code: errors.ErrCodeFileNotFound,
		},
		{
			name: "syntax error",
			path: func(t *testing.T) string { return writeConfig(t, "[registry\nurl = 1") },
			code: errors.ErrCodeInvalidInput,
		},
		{
			name: "unknown key",
			path: func(t *testing.T) string { return writeConfig(t, "[registry]\nendpoint = \"x\"\n") },
			code: errors.ErrCodeInvalidInput,
		},
		{
			name: "bad registry url",
			path: func(t *testing.T) string { return writeConfig(t, "[registry]\nurl = \"ftp://x\"\n") },
			code: errors.ErrCodeInvalidInput,
		},
		{
			name: "bad no-cache value",
			path: func(t *testing.T) string { return writeConfig(t, "") },
			env:  map[string]string{EnvNoCache: "sometimes"},
			code: errors.ErrCodeInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := load(tt.path(t), env(tt.env))
			if !errors.Is(err, tt.code) {
				t.Errorf("got %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestDirs(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/cfg")
	t.Setenv("XDG_CACHE_HOME", "/tmp/cache")

	if dir, _ := Dir(); dir != filepath.Join("/tmp/cfg", "pkgtopo") {
		t.Errorf("Dir() = %q", dir)
	}
	if p, _ := DefaultPath(); p != filepath.Join("/tmp/cfg", "pkgtopo", "config.toml") {
		t.Errorf("DefaultPath() = %q", p)
	}
	if dir, _ := Default().CacheDir(); dir != filepath.Join("/tmp/cache", "pkgtopo") {
		t.Errorf("CacheDir() = %q", dir)
	}

	cfg := Default()
	cfg.Cache.Dir = "/var/cache/topo"
	if dir, _ := cfg.CacheDir(); dir != "/var/cache/topo" {
		t.Errorf("CacheDir() override = %q", dir)
	}
}

func TestRedactedEncode(t *testing.T) {
	cfg := Default()
	cfg.Registry.Token = "secret"

	var buf bytes.Buffer
	if err := cfg.Redacted().Encode(&buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if strings.Contains(out, "secret") {
		t.Errorf("token leaked:\n%s", out)
	}
	if !strings.Contains(out, `url = "http://localhost:8081"`) {
		t.Errorf("missing registry url:\n%s", out)
	}
	if cfg.Registry.Token != "secret" {
		t.Error("Redacted modified the receiver")
	}
}
