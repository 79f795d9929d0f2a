package world

import (
	"fmt"
	"log"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"voxelworld/internal/profiling"
)

// MetaFormatVersion is written into fresh world metadata.
const MetaFormatVersion = 1

// Meta is the world-level record persisted next to the chunk data.
type Meta struct {
	Seed          int64     `json:"seed"`
	WorldID       string    `json:"world_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	FormatVersion int       `json:"format_version,omitempty"`
}

// ChunkStore persists chunk contents and world metadata. LoadChunk and
// LoadMeta report false for both missing and undecodable data. Persistent
// stores set undecodable metadata aside before reporting false, since the
// caller will write fresh metadata in its place.
// Implementations must be safe for concurrent use: the streamer loads
// while the owner saves.
type ChunkStore interface {
	SaveChunk(c *Chunk) error
	LoadChunk(cx, cz int) (*Chunk, bool)
	SaveMeta(m Meta) error
	LoadMeta() (Meta, bool)
}

// Options configures NewWorld.
type Options struct {
	// Store may be nil, in which case nothing is persisted.
	Store ChunkStore
	// Seed is used when the store holds no metadata and HasSeed is set.
	// Otherwise a random seed is chosen.
	Seed    int64
	HasSeed bool
	// Settings overrides the default terrain shape.
	Settings *GenSettings
	// Generator replaces the noise generator entirely, e.g. a FlatGenerator.
	Generator TerrainGenerator
}

// World is the resident chunk cache. It lazily loads or generates chunks and
// tracks which ones differ from storage. World is not safe for concurrent use;
// one owner goroutine drives it.
type World struct {
	store ChunkStore
	gen   TerrainGenerator
	meta  Meta

	chunks   map[ChunkCoord]*Chunk
	dirty    map[ChunkCoord]struct{}
	modCount uint64 // Increases on any chunk add/remove
	// epochs holds the modCount of the last install or eviction per
	// coordinate, so results computed before either can be recognized.
	epochs map[ChunkCoord]uint64
}

// NewWorld opens a world. Seed resolution: stored metadata wins, then
// opts.Seed, then a random seed. A freshly chosen seed is persisted at once.
func NewWorld(opts Options) (*World, error) {
	var (
		meta Meta
		ok   bool
	)
	if opts.Store != nil {
		meta, ok = opts.Store.LoadMeta()
	}
	if !ok {
		seed := opts.Seed
		if !opts.HasSeed {
			seed = rand.Int64()
		}
		meta = Meta{
			Seed:          seed,
			WorldID:       uuid.NewString(),
			CreatedAt:     time.Now().UTC(),
			FormatVersion: MetaFormatVersion,
		}
		if opts.Store != nil {
			if err := opts.Store.SaveMeta(meta); err != nil {
				return nil, fmt.Errorf("save world meta: %w", err)
			}
		}
	}

	gen := opts.Generator
	if gen == nil {
		settings := DefaultGenSettings()
		if opts.Settings != nil {
			settings = *opts.Settings
		}
		g, err := NewGeneratorWithSettings(meta.Seed, settings)
		if err != nil {
			return nil, err
		}
		gen = g
	}

	return &World{
		store:  opts.Store,
		gen:    gen,
		meta:   meta,
		chunks: make(map[ChunkCoord]*Chunk),
		dirty:  make(map[ChunkCoord]struct{}),
		epochs: make(map[ChunkCoord]uint64),
	}, nil
}

// Seed returns the world seed. It never changes after NewWorld.
func (w *World) Seed() int64 {
	return w.meta.Seed
}

// Meta returns the world metadata.
func (w *World) Meta() Meta {
	return w.meta
}

// GetChunk returns the resident chunk at (cx, cz), loading it from the store
// or generating it when absent. Generated chunks start dirty.
func (w *World) GetChunk(cx, cz int) *Chunk {
	coord := ChunkCoord{X: cx, Z: cz}
	if c, ok := w.chunks[coord]; ok {
		return c
	}
	defer profiling.Track("world.GetChunk")()

	if w.store != nil {
		if c, ok := w.store.LoadChunk(cx, cz); ok && c != nil {
			w.install(coord, c)
			return c
		}
	}

	c := w.gen.Generate(cx, cz)
	w.install(coord, c)
	w.dirty[coord] = struct{}{}
	return c
}

func (w *World) install(coord ChunkCoord, c *Chunk) {
	c.X, c.Z = coord.X, coord.Z
	w.chunks[coord] = c
	w.modCount++
	w.epochs[coord] = w.modCount
}

// ChunkEpoch returns a value that changes whenever the chunk at (cx, cz) is
// installed or evicted. Zero means neither has happened yet.
func (w *World) ChunkEpoch(cx, cz int) uint64 {
	return w.epochs[ChunkCoord{X: cx, Z: cz}]
}

// AddChunk installs a chunk produced elsewhere, typically by the streamer.
// A resident chunk always wins; generated chunks are marked dirty.
// Returns whether c was installed.
func (w *World) AddChunk(c *Chunk, generated bool) bool {
	if c == nil {
		return false
	}
	return w.addChunkSince(c, generated, w.ChunkEpoch(c.X, c.Z))
}

// addChunkSince is AddChunk for a chunk produced from the state observed at
// epoch. If the coordinate was installed or evicted since, c is stale (its
// store read predates a flush) and is dropped.
func (w *World) addChunkSince(c *Chunk, generated bool, epoch uint64) bool {
	coord := c.Coord()
	if _, ok := w.chunks[coord]; ok {
		return false
	}
	if w.epochs[coord] != epoch {
		return false
	}
	w.install(coord, c)
	if generated {
		w.dirty[coord] = struct{}{}
	}
	return true
}

// GetBlockAt returns the block at world coordinates. y outside the column
// returns air without touching the cache.
func (w *World) GetBlockAt(x, y, z int) BlockType {
	if y < 0 || y >= ChunkSizeY {
		return BlockTypeAir
	}
	coord, lx, lz := Resolve(x, z)
	return w.GetChunk(coord.X, coord.Z).GetBlock(lx, y, lz)
}

// PeekBlockAt is GetBlockAt restricted to resident chunks. It never loads or
// generates; ok is false when the owning chunk is not resident.
func (w *World) PeekBlockAt(x, y, z int) (BlockType, bool) {
	if y < 0 || y >= ChunkSizeY {
		return BlockTypeAir, true
	}
	coord, lx, lz := Resolve(x, z)
	c, ok := w.chunks[coord]
	if !ok {
		return BlockTypeAir, false
	}
	return c.GetBlock(lx, y, lz), true
}

// BlockLookup resolves world coordinates to a block, reporting false when
// the answer is unknown.
type BlockLookup func(x, y, z int) (BlockType, bool)

// NeighborLookup returns a lookup over resident chunks only, suitable for
// cross-chunk face culling.
func (w *World) NeighborLookup() BlockLookup {
	return w.PeekBlockAt
}

// SetBlockAt writes b at world coordinates. It returns the affected chunk and
// true when the voxel actually changed; writing the current value or an
// out-of-range y is a no-op.
func (w *World) SetBlockAt(x, y, z int, b BlockType) (ChunkCoord, bool) {
	if y < 0 || y >= ChunkSizeY {
		return ChunkCoord{}, false
	}
	coord, lx, lz := Resolve(x, z)
	c := w.GetChunk(coord.X, coord.Z)
	if c.GetBlock(lx, y, lz) == b {
		return ChunkCoord{}, false
	}
	c.SetBlock(lx, y, lz, b)
	w.dirty[coord] = struct{}{}
	return coord, true
}

// IsChunkLoaded reports whether (cx, cz) is resident.
func (w *World) IsChunkLoaded(cx, cz int) bool {
	_, ok := w.chunks[ChunkCoord{X: cx, Z: cz}]
	return ok
}

// LoadedChunks returns the resident coordinates ordered by X then Z.
func (w *World) LoadedChunks() []ChunkCoord {
	out := make([]ChunkCoord, 0, len(w.chunks))
	for coord := range w.chunks {
		out = append(out, coord)
	}
	sortCoords(out)
	return out
}

// ChunksInRadius returns resident chunks within radius (in chunks) of
// (cx, cz), ordered by coordinate.
func (w *World) ChunksInRadius(cx, cz, radius int) []*Chunk {
	defer profiling.Track("world.ChunksInRadius")()
	center := ChunkCoord{X: cx, Z: cz}
	var coords []ChunkCoord
	for dx := -radius; dx <= radius; dx++ {
		for dz := -radius; dz <= radius; dz++ {
			coord := ChunkCoord{X: cx + dx, Z: cz + dz}
			if distSq(coord, center) > radius*radius {
				continue
			}
			if _, ok := w.chunks[coord]; ok {
				coords = append(coords, coord)
			}
		}
	}
	sortCoords(coords)
	out := make([]*Chunk, len(coords))
	for i, coord := range coords {
		out[i] = w.chunks[coord]
	}
	return out
}

// ModCount returns a counter bumped whenever a chunk is added or evicted.
func (w *World) ModCount() uint64 {
	return w.modCount
}

// HasDirtyChunks reports whether any resident chunk awaits persistence.
func (w *World) HasDirtyChunks() bool {
	return len(w.dirty) > 0
}

// DirtyChunks returns the dirty coordinates ordered by X then Z.
func (w *World) DirtyChunks() []ChunkCoord {
	out := make([]ChunkCoord, 0, len(w.dirty))
	for coord := range w.dirty {
		out = append(out, coord)
	}
	sortCoords(out)
	return out
}

// SaveDirtyChunks drains the dirty set and persists every resident chunk in
// it. A chunk that fails to save is logged and stays dirty for the next
// flush. Returns the number of chunks written. Without a store the dirty set
// is simply cleared.
func (w *World) SaveDirtyChunks() int {
	if len(w.dirty) == 0 {
		return 0
	}
	if w.store == nil {
		clear(w.dirty)
		return 0
	}
	defer profiling.Track("world.SaveDirtyChunks")()

	pending := w.DirtyChunks()
	clear(w.dirty)

	saved := 0
	for _, coord := range pending {
		c, ok := w.chunks[coord]
		if !ok {
			continue
		}
		if err := w.store.SaveChunk(c); err != nil {
			log.Printf("failed to save chunk %v: %v", coord, err)
			w.dirty[coord] = struct{}{}
			continue
		}
		saved++
	}
	return saved
}

// SaveMeta persists the world metadata. It does not depend on any chunk
// being loaded and is a no-op without a store.
func (w *World) SaveMeta() error {
	if w.store == nil {
		return nil
	}
	if err := w.store.SaveMeta(w.meta); err != nil {
		return fmt.Errorf("save world meta: %w", err)
	}
	return nil
}

// EvictFarChunks removes resident chunks farther than radius (in chunks)
// from (cx, cz). Dirty chunks are saved first; a chunk whose save fails
// stays resident and dirty. Returns the number of evicted chunks.
func (w *World) EvictFarChunks(cx, cz, radius int) int {
	defer profiling.Track("world.EvictFarChunks")()
	center := ChunkCoord{X: cx, Z: cz}
	removed := 0
	for _, coord := range w.LoadedChunks() {
		if distSq(coord, center) <= radius*radius {
			continue
		}
		if _, dirty := w.dirty[coord]; dirty && w.store != nil {
			if err := w.store.SaveChunk(w.chunks[coord]); err != nil {
				log.Printf("keeping chunk %v resident, save failed: %v", coord, err)
				continue
			}
		}
		delete(w.dirty, coord)
		delete(w.chunks, coord)
		w.modCount++
		w.epochs[coord] = w.modCount
		removed++
	}
	return removed
}
