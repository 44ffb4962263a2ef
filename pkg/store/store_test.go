package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	pkgerrors "github.com/matzehuels/pkgtopo/pkg/errors"
	"github.com/matzehuels/pkgtopo/pkg/registry"
)

func testPackages() []registry.Package {
	return []registry.Package{
		{Name: "gateway", Kind: "graphql", Dependencies: []registry.Dependency{{PackageName: "users"}}},
		{Name: "users", Kind: "openapi", Version: "1.0.0"},
	}
}

func mustSnapshot(t *testing.T, name string, pkgs []registry.Package, at time.Time) *Snapshot {
	t.Helper()
	s, err := NewSnapshot(name, pkgs)
	if err != nil {
		t.Fatalf("NewSnapshot: %v", err)
	}
	s.CreatedAt = at
	return s
}

// testStore runs the behaviour every Store implementation must share.
func testStore(t *testing.T, s Store) {
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	first := mustSnapshot(t, "prod", testPackages(), base)
	second := mustSnapshot(t, "prod", testPackages()[:1], base.Add(time.Hour))
	other := mustSnapshot(t, "staging", nil, base.Add(30*time.Minute))

	for _, snap := range []*Snapshot{first, second, other} {
		if err := s.Save(ctx, snap); err != nil {
			t.Fatalf("Save(%s): %v", snap.Name, err)
		}
	}
	if err := s.Save(ctx, first); err == nil {
		t.Error("saving the same ID twice should fail")
	}

	got, err := s.Get(ctx, first.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "prod" || len(got.Packages) != 2 || got.Hash != first.Hash || !got.CreatedAt.Equal(base) {
		t.Errorf("Get() = %+v", got)
	}
	if got.Packages[0].Dependencies[0].PackageName != "users" {
		t.Errorf("dependencies not preserved: %+v", got.Packages[0])
	}

	latest, err := s.Latest(ctx, "prod")
	if err != nil || latest.ID != second.ID {
		t.Errorf("Latest(prod) = %v, %v; want %s", latest, err, second.ID)
	}
	if _, err := s.Latest(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Latest(nope) error = %v, want ErrNotFound", err)
	}

	all, err := s.List(ctx, "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	wantOrder := []string{second.ID, other.ID, first.ID}
	if len(all) != 3 {
		t.Fatalf("List() returned %d summaries, want 3", len(all))
	}
	for i, id := range wantOrder {
		if all[i].ID != id {
			t.Errorf("List()[%d] = %s, want %s", i, all[i].ID, id)
		}
	}
	if all[0].PackageCount != 1 || all[1].PackageCount != 0 {
		t.Errorf("package counts = %d, %d", all[0].PackageCount, all[1].PackageCount)
	}

	prod, _ := s.List(ctx, "prod")
	if len(prod) != 2 {
		t.Errorf("List(prod) returned %d, want 2", len(prod))
	}

	if err := s.Delete(ctx, second.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, second.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after Delete error = %v", err)
	}
	if err := s.Delete(ctx, second.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete error = %v", err)
	}
	if latest, _ := s.Latest(ctx, "prod"); latest == nil || latest.ID != first.ID {
		t.Errorf("Latest after delete = %v, want %s", latest, first.ID)
	}
}

func TestMemoryStore(t *testing.T) {
	testStore(t, NewMemoryStore())
}

func TestFileStore(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	testStore(t, s)
}

func TestFileStoreSkipsJunk(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	_ = os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0o600)
	_ = os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o600)

	list, err := s.List(context.Background(), "")
	if err != nil || len(list) != 0 {
		t.Errorf("List() = %v, %v", list, err)
	}
	if _, err := s.Get(context.Background(), "../etc/passwd"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get with a non-UUID id should be not found, got %v", err)
	}
	if s.Path() != dir {
		t.Errorf("Path() = %s", s.Path())
	}
}

func TestMemoryStoreIsolation(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	snap := mustSnapshot(t, "prod", testPackages(), time.Now())
	if err := s.Save(ctx, snap); err != nil {
		t.Fatal(err)
	}
	snap.Packages[0].Name = "mutated"

	got, _ := s.Get(ctx, snap.ID)
	if got.Packages[0].Name != "gateway" {
		t.Error("store should not share the caller's package slice")
	}
}

// Set PKGTOPO_TEST_MONGO to a MongoDB URI to run against a live server.
func TestMongoStore(t *testing.T) {
	uri := os.Getenv("PKGTOPO_TEST_MONGO")
	if uri == "" {
		t.Skip("PKGTOPO_TEST_MONGO not set")
	}
	ctx := context.Background()
	db := "pkgtopo_test_" + time.Now().Format("20060102150405")
	s, err := NewMongoStore(ctx, uri, db)
	if err != nil {
		t.Fatalf("NewMongoStore: %v", err)
	}
	defer func() {
		_ = s.coll.Database().Drop(ctx)
		_ = s.Close()
	}()
	testStore(t, s)
}

func TestNewSnapshot(t *testing.T) {
	pkgs := testPackages()
	a, err := NewSnapshot("prod", pkgs)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := NewSnapshot("prod", pkgs)

	if a.ID == b.ID {
		t.Error("IDs should be unique")
	}
	if a.Hash != b.Hash || len(a.Hash) != 64 {
		t.Errorf("hash should be the content hash: %s %s", a.Hash, b.Hash)
	}
	if ValidateID(a.ID) != nil {
		t.Errorf("ID %s is not a UUID", a.ID)
	}
	if a.PackageCount != 2 {
		t.Errorf("PackageCount = %d", a.PackageCount)
	}

	empty, _ := NewSnapshot("empty", nil)
	hash, _ := SetHash([]registry.Package{})
	if empty.Hash != hash {
		t.Error("nil and empty package sets should hash alike")
	}
}

func TestValidateName(t *testing.T) {
	for name, ok := range map[string]bool{
		"prod":        true,
		"release-4.2": true,
		"team_a":      true,
		"":            false,
		"  ":          false,
		"a/b":         false,
		"has space":   false,
	} {
		err := ValidateName(name)
		if (err == nil) != ok {
			t.Errorf("ValidateName(%q) = %v", name, err)
		}
		if err != nil && !pkgerrors.Is(err, pkgerrors.ErrCodeInvalidInput) {
			t.Errorf("ValidateName(%q) code = %s", name, pkgerrors.GetCode(err))
		}
	}
}
