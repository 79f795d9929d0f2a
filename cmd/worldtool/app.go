package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"voxelworld/internal/config"
	"voxelworld/internal/meshing"
	"voxelworld/internal/store"
	"voxelworld/internal/world"
	"voxelworld/internal/worldmap"
)

// app owns the world and everything bound to its lifetime.
type app struct {
	cfg   *config.Config
	store store.Store
	world *world.World
}

func openApp(cfg *config.Config) (*app, error) {
	st, err := store.Open(cfg.StoreOptions())
	if err != nil {
		return nil, err
	}

	opts := cfg.Generation.WorldOptions()
	opts.Store = st
	opts.Seed, opts.HasSeed = cfg.SeedValue()

	w, err := world.NewWorld(opts)
	if err != nil {
		_ = st.Close()
		return nil, err
	}
	meta := w.Meta()
	log.Printf("world %s seed=%d backend=%s dir=%s", meta.WorldID, meta.Seed, cfg.Storage.Backend, cfg.World.Dir)
	return &app{cfg: cfg, store: st, world: w}, nil
}

// shutdown flushes dirty chunks and closes the store.
func (a *app) shutdown() {
	if n := a.world.SaveDirtyChunks(); n > 0 {
		log.Printf("flushed %d chunks", n)
	}
	if err := a.world.SaveMeta(); err != nil {
		log.Printf("save world meta: %v", err)
	}
	if err := a.store.Close(); err != nil {
		log.Printf("close store: %v", err)
	}
}

// pregen streams every chunk within radius of (cx, cz) and persists them.
func (a *app) pregen(cx, cz, radius int) error {
	streamer := world.NewChunkStreamer(a.world, world.StreamerOptions{
		Workers:    a.cfg.Streaming.Workers,
		MaxPending: a.cfg.Streaming.MaxPending,
	})
	defer streamer.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	// RequestAround stops at the pending cap, so work in batches.
	var queued, installed, saved int
	for {
		n := streamer.RequestAround(cx, cz, radius)
		if n == 0 {
			break
		}
		queued += n
		got, err := streamer.DrainAll(ctx)
		installed += got
		if err != nil {
			return err
		}
		saved += a.world.SaveDirtyChunks()
	}
	if a.world.HasDirtyChunks() {
		return fmt.Errorf("pregen: %d chunks could not be saved", len(a.world.DirtyChunks()))
	}
	evicted := a.world.EvictFarChunks(cx, cz, a.cfg.World.EvictRadius)
	log.Printf("pregen: queued=%d installed=%d saved=%d evicted=%d resident=%d", queued, installed, saved, evicted, len(a.world.LoadedChunks()))
	return nil
}

// meshStats meshes every chunk within radius on the mesh worker pool and
// logs the totals.
func (a *app) meshStats(cx, cz, radius int) error {
	stats, err := buildMeshes(a.world, cx, cz, radius, a.cfg.Meshing)
	if err != nil {
		return err
	}
	evicted := a.world.EvictFarChunks(cx, cz, a.cfg.World.EvictRadius)
	log.Printf("mesh: chunks=%d faces=%d vertices=%d empty=%d evicted=%d", stats.Chunks, stats.Faces, stats.Vertices, stats.Empty, evicted)
	return nil
}

type meshStats struct {
	Chunks   int
	Faces    int
	Vertices int
	Empty    int
}

func buildMeshes(w *world.World, cx, cz, radius int, cfg config.MeshingConfig) (meshStats, error) {
	var stats meshStats
	pool := meshing.NewWorkerPool(cfg.Workers, cfg.QueueSize, meshing.NewGridAtlas(cfg.TileSize))
	defer pool.Shutdown()

	// Load the ring around the area too so border faces can be culled.
	for z := cz - radius - 1; z <= cz+radius+1; z++ {
		for x := cx - radius - 1; x <= cx+radius+1; x++ {
			w.GetChunk(x, z)
		}
	}

	results := make(chan meshing.MeshResult, (2*radius+1)*(2*radius+1))
	submitted := 0
	for z := cz - radius; z <= cz+radius; z++ {
		for x := cx - radius; x <= cx+radius; x++ {
			job := meshing.MeshJob{Chunk: w.GetChunk(x, z).Clone(), ResultChan: results}
			for _, d := range [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
				job.Neighbors = append(job.Neighbors, w.GetChunk(x+d[0], z+d[1]).Clone())
			}
			if err := pool.SubmitJobBlocking(job); err != nil {
				return stats, err
			}
			submitted++
		}
	}

	var errs []error
	for range submitted {
		r := <-results
		if r.Error != nil {
			errs = append(errs, r.Error)
			continue
		}
		stats.Chunks++
		stats.Faces += r.Faces()
		stats.Vertices += len(r.Vertices)
		if len(r.Indices) == 0 {
			stats.Empty++
		}
	}
	if len(errs) > 0 {
		return stats, fmt.Errorf("mesh: %d jobs failed: %w", len(errs), errs[0])
	}
	return stats, nil
}

func (a *app) renderMap(cx, cz, radius int, out string, scale int) error {
	img, err := worldmap.RenderWorld(a.world, cx, cz, radius, worldmap.Options{
		Scale: scale,
		Shade: true,
		Label: fmt.Sprintf("seed %d", a.world.Seed()),
	})
	if err != nil {
		return err
	}
	if err := worldmap.SavePNG(out, img); err != nil {
		return err
	}
	log.Printf("map: wrote %s (%dx%d)", out, img.Bounds().Dx(), img.Bounds().Dy())
	return nil
}

func (a *app) info(out io.Writer) error {
	coords, err := a.store.ChunkCoords()
	if err != nil {
		return fmt.Errorf("list chunks: %w", err)
	}
	meta := a.world.Meta()
	fmt.Fprintf(out, "world:    %s\n", meta.WorldID)
	fmt.Fprintf(out, "seed:     %d\n", meta.Seed)
	fmt.Fprintf(out, "created:  %s\n", meta.CreatedAt.Format(time.RFC3339))
	fmt.Fprintf(out, "format:   %d\n", meta.FormatVersion)
	fmt.Fprintf(out, "blocks:   %d ids\n", len(world.Definitions()))
	fmt.Fprintf(out, "stored:   %d chunks\n", len(coords))
	if len(coords) > 0 {
		lo, hi := coords[0], coords[0]
		for _, c := range coords[1:] {
			lo.X, hi.X = min(lo.X, c.X), max(hi.X, c.X)
			lo.Z, hi.Z = min(lo.Z, c.Z), max(hi.Z, c.Z)
		}
		fmt.Fprintf(out, "extent:   (%d,%d) .. (%d,%d)\n", lo.X, lo.Z, hi.X, hi.Z)
	}
	return nil
}
