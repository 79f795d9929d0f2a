package store

import (
	"sync"

	"voxelworld/internal/world"
)

// MemoryStore holds encoded chunks in a map. Nothing survives the process;
// it backs tests and throwaway worlds.
type MemoryStore struct {
	mu       sync.RWMutex
	chunks   map[world.ChunkCoord][]byte
	meta     []byte
	compress bool
}

func NewMemoryStore(compress bool) *MemoryStore {
	return &MemoryStore{
		chunks:   make(map[world.ChunkCoord][]byte),
		compress: compress,
	}
}

func (s *MemoryStore) SaveChunk(c *world.Chunk) error {
	data, err := EncodeChunk(c, s.compress)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.chunks[c.Coord()] = data
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) LoadChunk(cx, cz int) (*world.Chunk, bool) {
	s.mu.RLock()
	data, ok := s.chunks[world.ChunkCoord{X: cx, Z: cz}]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	c, err := decodeAt(data, cx, cz)
	if err != nil {
		return nil, false
	}
	return c, true
}

func (s *MemoryStore) SaveMeta(m world.Meta) error {
	data, err := encodeMeta(m)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.meta = data
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) LoadMeta() (world.Meta, bool) {
	s.mu.RLock()
	data := s.meta
	s.mu.RUnlock()
	if data == nil {
		return world.Meta{}, false
	}
	m, err := decodeMeta(data)
	if err != nil {
		return world.Meta{}, false
	}
	return m, true
}

func (s *MemoryStore) ChunkCoords() ([]world.ChunkCoord, error) {
	s.mu.RLock()
	out := make([]world.ChunkCoord, 0, len(s.chunks))
	for coord := range s.chunks {
		out = append(out, coord)
	}
	s.mu.RUnlock()
	sortCoords(out)
	return out, nil
}

// Put stores raw bytes for a chunk, bypassing the encoder.
func (s *MemoryStore) Put(cx, cz int, data []byte) {
	s.mu.Lock()
	s.chunks[world.ChunkCoord{X: cx, Z: cz}] = data
	s.mu.Unlock()
}

func (s *MemoryStore) Close() error {
	return nil
}
