package meshing

import (
	"context"
	"errors"
	"sync"

	"voxelworld/internal/world"
)

var ErrPoolClosed = errors.New("meshing: pool is shut down")

// MeshJob represents a meshing job request. Chunk and Neighbors are read
// by a worker goroutine, so submit clones rather than World-owned chunks.
type MeshJob struct {
	Chunk *world.Chunk
	// Neighbors, when set, enable culling across lateral chunk borders.
	Neighbors []*world.Chunk
	// Result channel - will be sent the result when done
	ResultChan chan MeshResult
}

// MeshResult contains the result of a meshing operation
type MeshResult struct {
	Coord    world.ChunkCoord
	Vertices []Vertex
	Indices  []uint32
	Error    error
}

// Faces returns the number of emitted quads.
func (r MeshResult) Faces() int {
	return len(r.Indices) / 6
}

// WorkerPool manages goroutines for mesh generation
type WorkerPool struct {
	jobQueue chan MeshJob
	workers  int
	resolver UVResolver
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// NewWorkerPool creates a new mesh worker pool
func NewWorkerPool(workers int, queueSize int, resolver UVResolver) *WorkerPool {
	ctx, cancel := context.WithCancel(context.Background())
	workers = max(workers, 1)

	pool := &WorkerPool{
		jobQueue: make(chan MeshJob, queueSize),
		workers:  workers,
		resolver: resolver,
		ctx:      ctx,
		cancel:   cancel,
	}

	for range workers {
		pool.wg.Add(1)
		go pool.worker()
	}

	return pool
}

// SubmitJob submits a mesh generation job to the pool
// Returns true if job was submitted successfully, false if queue is full
func (p *WorkerPool) SubmitJob(job MeshJob) bool {
	if p.ctx.Err() != nil {
		return false
	}
	select {
	case p.jobQueue <- job:
		return true
	default:
		return false // Queue is full
	}
}

// SubmitJobBlocking submits a job and blocks until it's queued or the
// pool shuts down.
func (p *WorkerPool) SubmitJobBlocking(job MeshJob) error {
	if p.ctx.Err() != nil {
		return ErrPoolClosed
	}
	select {
	case p.jobQueue <- job:
		return nil
	case <-p.ctx.Done():
		return ErrPoolClosed
	}
}

func (p *WorkerPool) worker() {
	defer p.wg.Done()

	for {
		select {
		case job := <-p.jobQueue:
			result := p.process(job)
			select {
			case job.ResultChan <- result:
			case <-p.ctx.Done():
				return
			}

		case <-p.ctx.Done():
			return
		}
	}
}

func (p *WorkerPool) process(job MeshJob) MeshResult {
	if job.Chunk == nil {
		return MeshResult{Error: errors.New("meshing: job without chunk")}
	}
	var lookup world.BlockLookup
	if len(job.Neighbors) > 0 {
		lookup = LookupFromChunks(job.Neighbors...)
	}
	vertices, indices := BuildMeshWithNeighbors(job.Chunk, p.resolver, lookup)
	return MeshResult{
		Coord:    job.Chunk.Coord(),
		Vertices: vertices,
		Indices:  indices,
	}
}

// Shutdown stops the workers and waits for them. Queued jobs that have not
// started are dropped.
func (p *WorkerPool) Shutdown() {
	p.cancel()
	p.wg.Wait()
}

// GetQueueLength returns the current number of jobs in the queue
func (p *WorkerPool) GetQueueLength() int {
	return len(p.jobQueue)
}
