package store

import (
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"time"

	"voxelworld/internal/world"
)

// Backend names a storage implementation.
type Backend string

const (
	BackendFile   Backend = "file"
	BackendBadger Backend = "badger"
	BackendMemory Backend = "memory"
)

// MetaFileName is the metadata document at the root of a file store.
const MetaFileName = "world_meta.json"

var ErrUnknownBackend = errors.New("store: unknown backend")

// Store is a world.ChunkStore that owns resources.
type Store interface {
	world.ChunkStore
	// ChunkCoords lists every persisted chunk ordered by X then Z.
	ChunkCoords() ([]world.ChunkCoord, error)
	Close() error
}

// Options configures Open.
type Options struct {
	Backend Backend
	// Root is the storage directory; ignored by the memory backend.
	Root     string
	Compress bool
}

// Open creates the store selected by opts.Backend.
func Open(opts Options) (Store, error) {
	switch opts.Backend {
	case BackendFile, "":
		return NewFileStore(opts.Root, opts.Compress)
	case BackendBadger:
		return OpenBadgerStore(filepath.Join(opts.Root, "db"), opts.Compress)
	case BackendMemory:
		return NewMemoryStore(opts.Compress), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}
}

// metaDoc mirrors world.Meta but makes the seed mandatory on decode.
type metaDoc struct {
	Seed          *int64    `json:"seed"`
	WorldID       string    `json:"world_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	FormatVersion int       `json:"format_version,omitempty"`
}

func encodeMeta(m world.Meta) ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("store: encode meta: %w", err)
	}
	return data, nil
}

func decodeMeta(data []byte) (world.Meta, error) {
	var doc metaDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return world.Meta{}, fmt.Errorf("store: decode meta: %w", err)
	}
	if doc.Seed == nil {
		return world.Meta{}, errors.New("store: meta has no seed")
	}
	return world.Meta{
		Seed:          *doc.Seed,
		WorldID:       doc.WorldID,
		CreatedAt:     doc.CreatedAt,
		FormatVersion: doc.FormatVersion,
	}, nil
}

func sortCoords(coords []world.ChunkCoord) {
	slices.SortFunc(coords, func(a, b world.ChunkCoord) int {
		if c := cmp.Compare(a.X, b.X); c != 0 {
			return c
		}
		return cmp.Compare(a.Z, b.Z)
	})
}
