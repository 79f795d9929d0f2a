package world

import (
	"context"
	"runtime"
	"sync"

	"github.com/alitto/pond/v2"

	"voxelworld/internal/profiling"
)

// ChunkResult is a chunk finished off the owner goroutine.
type ChunkResult struct {
	Chunk     *Chunk
	Generated bool
	// Epoch is the World's chunk epoch when the request was made.
	Epoch uint64
}

// StreamerOptions tunes a ChunkStreamer. Zero values pick defaults.
type StreamerOptions struct {
	Workers        int
	MaxPending     int
	MaxJobsPerCall int
}

// ChunkStreamer loads or generates chunks on a worker pool and hands them
// back to the World's owner through Drain. Workers touch only the store and
// the generator, never the World itself.
//
// A coordinate stays pending from Request until its chunk is installed, so
// a chunk is never produced twice while a request is outstanding. A result
// is dropped if the owner installed or evicted its coordinate after the
// request, since it may predate a flushed edit.
type ChunkStreamer struct {
	world *World
	store ChunkStore
	gen   TerrainGenerator

	pool    pond.Pool
	results chan ChunkResult

	pending    map[ChunkCoord]struct{}
	pendingMu  sync.Mutex
	maxPending int
	closed     bool

	maxJobsPerCall int
}

// NewChunkStreamer creates a streamer feeding w.
func NewChunkStreamer(w *World, opts StreamerOptions) *ChunkStreamer {
	workers := opts.Workers
	if workers <= 0 {
		workers = max(runtime.NumCPU(), 1)
	}
	maxPending := opts.MaxPending
	if maxPending <= 0 {
		maxPending = 1024
	}
	maxJobs := opts.MaxJobsPerCall
	if maxJobs <= 0 {
		maxJobs = maxPending
	}
	return &ChunkStreamer{
		world: w,
		store: w.store,
		gen:   w.gen,
		pool:  pond.NewPool(workers),
		// every pending coordinate owns at most one buffered result, so
		// workers never block on send
		results:        make(chan ChunkResult, maxPending),
		pending:        make(map[ChunkCoord]struct{}),
		maxPending:     maxPending,
		maxJobsPerCall: maxJobs,
	}
}

// Close stops the worker pool after in-flight jobs finish. Finished results
// stay available to Drain.
func (cs *ChunkStreamer) Close() {
	cs.pendingMu.Lock()
	if cs.closed {
		cs.pendingMu.Unlock()
		return
	}
	cs.closed = true
	cs.pendingMu.Unlock()
	cs.pool.StopAndWait()
}

// Pending returns the number of requested but not yet installed chunks.
func (cs *ChunkStreamer) Pending() int {
	cs.pendingMu.Lock()
	defer cs.pendingMu.Unlock()
	return len(cs.pending)
}

// IsPending reports whether coord has an outstanding request.
func (cs *ChunkStreamer) IsPending(coord ChunkCoord) bool {
	cs.pendingMu.Lock()
	defer cs.pendingMu.Unlock()
	_, ok := cs.pending[coord]
	return ok
}

// Request queues coord for background loading. It returns false when the
// chunk is already resident, already pending, the pending cap is reached,
// or the streamer is closed. Call from the World's owner goroutine.
func (cs *ChunkStreamer) Request(coord ChunkCoord) bool {
	if cs.world.IsChunkLoaded(coord.X, coord.Z) {
		return false
	}

	cs.pendingMu.Lock()
	if cs.closed {
		cs.pendingMu.Unlock()
		return false
	}
	if _, ok := cs.pending[coord]; ok {
		cs.pendingMu.Unlock()
		return false
	}
	if len(cs.pending) >= cs.maxPending {
		cs.pendingMu.Unlock()
		return false
	}
	cs.pending[coord] = struct{}{}
	cs.pendingMu.Unlock()

	epoch := cs.world.ChunkEpoch(coord.X, coord.Z)
	cs.pool.Submit(func() {
		r := cs.produce(coord)
		r.Epoch = epoch
		cs.results <- r
	})
	return true
}

func (cs *ChunkStreamer) produce(coord ChunkCoord) ChunkResult {
	defer profiling.Track("world.StreamChunk")()
	if cs.store != nil {
		if c, ok := cs.store.LoadChunk(coord.X, coord.Z); ok && c != nil {
			c.X, c.Z = coord.X, coord.Z
			return ChunkResult{Chunk: c}
		}
	}
	return ChunkResult{Chunk: cs.gen.Generate(coord.X, coord.Z), Generated: true}
}

// RequestAround queues chunks within radius of (cx, cz) in an outward
// spiral so the nearest chunks are produced first. Returns the number of
// newly queued chunks.
func (cs *ChunkStreamer) RequestAround(cx, cz, radius int) int {
	defer profiling.Track("world.RequestAround")()
	jobsPushed := 0
	push := func(x, z int) bool {
		if cs.Request(ChunkCoord{X: x, Z: z}) {
			jobsPushed++
		}
		return jobsPushed < cs.maxJobsPerCall
	}

	if !push(cx, cz) {
		return jobsPushed
	}
	for r := 1; r <= radius; r++ {
		x0, x1 := cx-r, cx+r
		z0, z1 := cz-r, cz+r

		for xk := x0; xk <= x1; xk++ {
			if !push(xk, z0) {
				return jobsPushed
			}
		}
		for zk := z0 + 1; zk <= z1-1; zk++ {
			if !push(x1, zk) {
				return jobsPushed
			}
		}
		for xk := x1; xk >= x0; xk-- {
			if !push(xk, z1) {
				return jobsPushed
			}
		}
		for zk := z1 - 1; zk >= z0+1; zk-- {
			if !push(x0, zk) {
				return jobsPushed
			}
		}
	}
	return jobsPushed
}

// Drain installs every finished chunk without blocking and returns how many
// were installed. Call from the World's owner goroutine.
func (cs *ChunkStreamer) Drain() int {
	installed := 0
	for {
		select {
		case r := <-cs.results:
			if cs.install(r) {
				installed++
			}
		default:
			return installed
		}
	}
}

// DrainAll blocks until every pending chunk is installed or ctx ends.
func (cs *ChunkStreamer) DrainAll(ctx context.Context) (int, error) {
	installed := 0
	for cs.Pending() > 0 {
		select {
		case r := <-cs.results:
			if cs.install(r) {
				installed++
			}
		case <-ctx.Done():
			return installed, ctx.Err()
		}
	}
	return installed, nil
}

func (cs *ChunkStreamer) install(r ChunkResult) bool {
	coord := r.Chunk.Coord()
	ok := cs.world.addChunkSince(r.Chunk, r.Generated, r.Epoch)
	cs.pendingMu.Lock()
	delete(cs.pending, coord)
	cs.pendingMu.Unlock()
	return ok
}
