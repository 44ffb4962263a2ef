package cache

import (
	"context"
	"os"
	"testing"
	"time"
)

// Set PKGTOPO_TEST_REDIS to a Redis address to run against a live server.
func TestRedisCache(t *testing.T) {
	addr := os.Getenv("PKGTOPO_TEST_REDIS")
	if addr == "" {
		t.Skip("PKGTOPO_TEST_REDIS not set")
	}
	ctx := context.Background()
	c, err := NewRedisCache(ctx, addr)
	if err != nil {
		t.Fatalf("NewRedisCache: %v", err)
	}
	defer c.Close()

	key := "pkgtopo-test:" + time.Now().Format(time.RFC3339Nano)
	if _, hit, err := c.Get(ctx, key); hit || err != nil {
		t.Fatalf("Get before Set: hit %v err %v", hit, err)
	}
	if err := c.Set(ctx, key, []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if data, hit, err := c.Get(ctx, key); !hit || err != nil || string(data) != "v" {
		t.Fatalf("Get: %q hit %v err %v", data, hit, err)
	}
	if err := c.Delete(ctx, key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
}

func TestRedisOptions(t *testing.T) {
	tests := []struct {
		in       string
		wantAddr string
		wantDB   int
		wantErr  bool
	}{
		{"localhost:6379", "localhost:6379", 0, false},
		{"redis://cache:6380/2", "cache:6380", 2, false},
		{"", "", 0, true},
		{"redis://cache:6379/notadb", "", 0, true},
	}
	for _, tt := range tests {
		opts, err := redisOptions(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("redisOptions(%q) error = %v", tt.in, err)
			continue
		}
		if err == nil && (opts.Addr != tt.wantAddr || opts.DB != tt.wantDB) {
			t.Errorf("redisOptions(%q) = %s db %d", tt.in, opts.Addr, opts.DB)
		}
	}
}
