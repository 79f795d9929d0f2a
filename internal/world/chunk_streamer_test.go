package world

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingGenerator records how often each chunk was generated and can hold
// workers until released.
type countingGenerator struct {
	inner TerrainGenerator
	gate  chan struct{}

	mu    sync.Mutex
	calls map[ChunkCoord]int
}

func newCountingGenerator(gated bool) *countingGenerator {
	g := &countingGenerator{inner: NewFlatGenerator(8), calls: make(map[ChunkCoord]int)}
	if gated {
		g.gate = make(chan struct{})
	}
	return g
}

func (g *countingGenerator) HeightAt(x, z int) int  { return g.inner.HeightAt(x, z) }
func (g *countingGenerator) PopulateChunk(c *Chunk) { g.inner.PopulateChunk(c) }

func (g *countingGenerator) Generate(cx, cz int) *Chunk {
	if g.gate != nil {
		<-g.gate
	}
	g.mu.Lock()
	g.calls[ChunkCoord{X: cx, Z: cz}]++
	g.mu.Unlock()
	return g.inner.Generate(cx, cz)
}

func (g *countingGenerator) count(coord ChunkCoord) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls[coord]
}

func drainCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestStreamerDedupesPendingRequests(t *testing.T) {
	gen := newCountingGenerator(true)
	w, err := NewWorld(Options{Generator: gen})
	require.NoError(t, err)
	cs := NewChunkStreamer(w, StreamerOptions{Workers: 2})
	defer cs.Close()

	coord := ChunkCoord{X: 1, Z: 2}
	assert.True(t, cs.Request(coord))
	assert.False(t, cs.Request(coord), "second request while pending must be rejected")
	assert.True(t, cs.IsPending(coord))
	assert.Equal(t, 1, cs.Pending())

	close(gen.gate)
	n, err := cs.DrainAll(drainCtx(t))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, gen.count(coord))
	assert.True(t, w.IsChunkLoaded(1, 2))
	assert.Contains(t, w.DirtyChunks(), coord)

	assert.False(t, cs.Request(coord), "resident chunks are not requested again")
	assert.Zero(t, cs.Pending())
}

func TestStreamerRequestAround(t *testing.T) {
	gen := newCountingGenerator(false)
	w, err := NewWorld(Options{Generator: gen})
	require.NoError(t, err)
	cs := NewChunkStreamer(w, StreamerOptions{Workers: 4})
	defer cs.Close()

	queued := cs.RequestAround(0, 0, 2)
	assert.Equal(t, 25, queued)
	assert.Zero(t, cs.RequestAround(0, 0, 2), "everything is already pending")

	n, err := cs.DrainAll(drainCtx(t))
	require.NoError(t, err)
	assert.Equal(t, 25, n)
	assert.Len(t, w.LoadedChunks(), 25)
	for _, coord := range w.LoadedChunks() {
		assert.Equal(t, 1, gen.count(coord), "chunk %v generated more than once", coord)
	}
}

func TestStreamerPendingCap(t *testing.T) {
	gen := newCountingGenerator(true)
	w, err := NewWorld(Options{Generator: gen})
	require.NoError(t, err)
	cs := NewChunkStreamer(w, StreamerOptions{Workers: 1, MaxPending: 3})

	assert.Equal(t, 3, cs.RequestAround(0, 0, 3))
	assert.Equal(t, 3, cs.Pending())
	assert.False(t, cs.Request(ChunkCoord{X: 9, Z: 9}))

	close(gen.gate)
	_, err = cs.DrainAll(drainCtx(t))
	require.NoError(t, err)
	cs.Close()
	assert.False(t, cs.Request(ChunkCoord{X: 9, Z: 9}), "closed streamer accepts no work")
}

func TestStreamerLoadsFromStore(t *testing.T) {
	store := newFakeStore()
	stored := NewChunk(-4, 7)
	stored.SetBlock(1, 1, 1, BlockTypeChest)
	require.NoError(t, store.SaveChunk(stored))

	gen := newCountingGenerator(false)
	w, err := NewWorld(Options{Store: store, Generator: gen})
	require.NoError(t, err)
	cs := NewChunkStreamer(w, StreamerOptions{})
	defer cs.Close()

	require.True(t, cs.Request(ChunkCoord{X: -4, Z: 7}))
	_, err = cs.DrainAll(drainCtx(t))
	require.NoError(t, err)

	assert.Equal(t, BlockTypeChest, w.GetChunk(-4, 7).GetBlock(1, 1, 1))
	assert.Zero(t, gen.count(ChunkCoord{X: -4, Z: 7}))
	assert.False(t, w.HasDirtyChunks())
}

func TestStreamerResidentChunkWins(t *testing.T) {
	gen := newCountingGenerator(true)
	w, err := NewWorld(Options{Generator: NewFlatGenerator(3)})
	require.NoError(t, err)
	w.gen = gen
	cs := NewChunkStreamer(w, StreamerOptions{Workers: 1})
	defer cs.Close()

	coord := ChunkCoord{X: 0, Z: 0}
	require.True(t, cs.Request(coord))

	// the owner loads the chunk synchronously while the worker is held
	w.gen = NewFlatGenerator(3)
	resident := w.GetChunk(0, 0)
	close(gen.gate)

	n, err := cs.DrainAll(drainCtx(t))
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Same(t, resident, w.GetChunk(0, 0))
}

func TestStreamerDropsResultOlderThanEviction(t *testing.T) {
	store := newFakeStore()
	gen := newCountingGenerator(true)
	w, err := NewWorld(Options{Store: store, Generator: NewFlatGenerator(8)})
	require.NoError(t, err)
	w.gen = gen
	cs := NewChunkStreamer(w, StreamerOptions{Workers: 1})
	defer cs.Close()

	coord := ChunkCoord{X: 0, Z: 0}
	require.True(t, cs.Request(coord))

	// while the worker is held the owner edits the chunk, flushes and evicts it
	w.gen = NewFlatGenerator(8)
	_, changed := w.SetBlockAt(1, 5, 1, BlockTypeGlass)
	require.True(t, changed)
	require.Equal(t, 1, w.EvictFarChunks(10, 10, 0))
	require.False(t, w.IsChunkLoaded(0, 0))

	close(gen.gate)
	n, err := cs.DrainAll(drainCtx(t))
	require.NoError(t, err)
	assert.Zero(t, n, "a result requested before the eviction must not be installed")
	assert.False(t, cs.IsPending(coord))
	assert.False(t, w.IsChunkLoaded(0, 0))
	assert.Zero(t, w.SaveDirtyChunks())

	stored, ok := store.LoadChunk(0, 0)
	require.True(t, ok)
	assert.Equal(t, BlockTypeGlass, stored.GetBlock(1, 5, 1))

	// a fresh request picks up the flushed edit
	require.True(t, cs.Request(coord))
	n, err = cs.DrainAll(drainCtx(t))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, BlockTypeGlass, w.GetBlockAt(1, 5, 1))
}

func TestChunkEpochAdvances(t *testing.T) {
	w, err := NewWorld(Options{Generator: NewFlatGenerator(2)})
	require.NoError(t, err)

	assert.Zero(t, w.ChunkEpoch(3, 3))
	w.GetChunk(3, 3)
	loaded := w.ChunkEpoch(3, 3)
	assert.NotZero(t, loaded)
	w.EvictFarChunks(0, 0, 0)
	assert.Greater(t, w.ChunkEpoch(3, 3), loaded)

	stale := NewChunk(3, 3)
	assert.False(t, w.addChunkSince(stale, true, loaded))
	assert.True(t, w.AddChunk(stale, true))
}
