// Package store persists named, immutable package snapshots.
//
// A snapshot freezes a package set under a name ("prod", "release-42") so
// that its layout can be recomputed or rendered later, independently of
// what the registry serves by then. Saving under an existing name adds a
// new snapshot; [Store.Latest] returns the newest one.
//
// Implementations:
//   - [MemoryStore]: in-process, for tests and the server default
//   - [FileStore]: JSON files in the user config directory, for the CLI
//   - [MongoStore]: a MongoDB collection, for shared deployments
//
// # Usage
//
//	snap, err := store.NewSnapshot("prod", pkgs)
//	if err != nil {
//	    return err
//	}
//	if err := s.Save(ctx, snap); err != nil {
//	    return err
//	}
//	latest, err := s.Latest(ctx, "prod")
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/matzehuels/pkgtopo/pkg/cache"
	pkgerrors "github.com/matzehuels/pkgtopo/pkg/errors"
	"github.com/matzehuels/pkgtopo/pkg/registry"
)

// ErrNotFound is returned when a snapshot does not exist.
var ErrNotFound = errors.New("snapshot not found")

// maxNameLength bounds snapshot names.
const maxNameLength = 128

// Snapshot is a frozen package set.
type Snapshot struct {
	ID           string             `json:"id" bson:"_id"`
	Name         string             `json:"name" bson:"name"`
	Packages     []registry.Package `json:"packages" bson:"packages"`
	PackageCount int                `json:"package_count" bson:"package_count"`
	Hash         string             `json:"hash" bson:"hash"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
}

// Summary describes a snapshot without its packages.
type Summary struct {
	ID           string    `json:"id" bson:"_id"`
	Name         string    `json:"name" bson:"name"`
	PackageCount int       `json:"package_count" bson:"package_count"`
	Hash         string    `json:"hash" bson:"hash"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
}

// Summary returns the snapshot's metadata.
func (s *Snapshot) Summary() Summary {
	return Summary{
		ID:           s.ID,
		Name:         s.Name,
		PackageCount: s.PackageCount,
		Hash:         s.Hash,
		CreatedAt:    s.CreatedAt,
	}
}

// NewSnapshot creates a snapshot with a fresh ID, the current time and the
// content hash of pkgs. The package slice is copied.
func NewSnapshot(name string, pkgs []registry.Package) (*Snapshot, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	pkgs = append([]registry.Package{}, pkgs...)
	hash, err := SetHash(pkgs)
	if err != nil {
		return nil, err
	}
	return &Snapshot{
		ID:           uuid.NewString(),
		Name:         name,
		Packages:     pkgs,
		PackageCount: len(pkgs),
		Hash:         hash,
		CreatedAt:    time.Now().UTC().Truncate(time.Millisecond),
	}, nil
}

// SetHash is the content hash of a package set, as used for cache keys.
func SetHash(pkgs []registry.Package) (string, error) {
	if pkgs == nil {
		pkgs = []registry.Package{}
	}
	return cache.HashJSON(pkgs)
}

// ValidateName checks a snapshot name: non-empty, at most 128 characters,
// letters, digits, '.', '-' and '_' only.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return pkgerrors.New(pkgerrors.ErrCodeInvalidInput, "snapshot name cannot be empty")
	}
	if len(name) > maxNameLength {
		return pkgerrors.New(pkgerrors.ErrCodeInvalidInput, "snapshot name too long (max %d characters)", maxNameLength)
	}
	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '.' && r != '-' && r != '_' {
			return pkgerrors.New(pkgerrors.ErrCodeInvalidInput, "snapshot name %q contains invalid character %q", name, r)
		}
	}
	return nil
}

// ValidateID checks that id is a UUID.
func ValidateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return pkgerrors.Wrap(pkgerrors.ErrCodeInvalidInput, err, "invalid snapshot id %q", id)
	}
	return nil
}

// Store is the interface for snapshot storage backends.
type Store interface {
	// Save stores a new snapshot. Saving an existing ID fails.
	Save(ctx context.Context, s *Snapshot) error

	// Get retrieves a snapshot by ID, or ErrNotFound.
	Get(ctx context.Context, id string) (*Snapshot, error)

	// Latest returns the newest snapshot with the given name, or ErrNotFound.
	Latest(ctx context.Context, name string) (*Snapshot, error)

	// List returns summaries, newest first. An empty name lists all.
	List(ctx context.Context, name string) ([]Summary, error)

	// Delete removes a snapshot by ID, or returns ErrNotFound.
	Delete(ctx context.Context, id string) error

	Close() error
}

func checkSave(s *Snapshot) error {
	if s == nil {
		return pkgerrors.New(pkgerrors.ErrCodeInvalidInput, "snapshot is nil")
	}
	if err := ValidateID(s.ID); err != nil {
		return err
	}
	return ValidateName(s.Name)
}

func errDuplicate(id string) error {
	return pkgerrors.New(pkgerrors.ErrCodeInvalidInput, "snapshot %s already exists", id)
}

func notFound(what string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, what)
}

// newer orders summaries newest first, breaking ties by ID.
func newer(a, b Summary) int {
	if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
		return c
	}
	return strings.Compare(a.ID, b.ID)
}
