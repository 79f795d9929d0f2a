package store

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"time"

	"voxelworld/internal/world"
)

// FileStore keeps one file per chunk under <root>/chunks and the metadata
// document at <root>/world_meta.json. Writes go through a temp file and a
// rename so readers never observe a partial chunk.
type FileStore struct {
	root     string
	compress bool
}

// NewFileStore creates the directory layout under root.
func NewFileStore(root string, compress bool) (*FileStore, error) {
	if root == "" {
		return nil, errors.New("store: file store needs a root directory")
	}
	if err := os.MkdirAll(filepath.Join(root, "chunks"), 0o755); err != nil {
		return nil, fmt.Errorf("store: create chunk dir: %w", err)
	}
	return &FileStore{root: root, compress: compress}, nil
}

// Root returns the storage root.
func (s *FileStore) Root() string {
	return s.root
}

// ChunkPath returns the file holding chunk (cx, cz).
func (s *FileStore) ChunkPath(cx, cz int) string {
	return filepath.Join(s.root, "chunks", fmt.Sprintf("chunk_%d_%d.bin", cx, cz))
}

func (s *FileStore) metaPath() string {
	return filepath.Join(s.root, MetaFileName)
}

func (s *FileStore) SaveChunk(c *world.Chunk) error {
	data, err := EncodeChunk(c, s.compress)
	if err != nil {
		return err
	}
	if err := writeFileAtomic(s.ChunkPath(c.X, c.Z), data); err != nil {
		return fmt.Errorf("store: save chunk (%d,%d): %w", c.X, c.Z, err)
	}
	return nil
}

// LoadChunk reads chunk (cx, cz). Missing and corrupt files both report
// false; corrupt ones are logged.
func (s *FileStore) LoadChunk(cx, cz int) (*world.Chunk, bool) {
	path := s.ChunkPath(cx, cz)
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Printf("store: read %s: %v", path, err)
		}
		return nil, false
	}
	c, err := decodeAt(data, cx, cz)
	if err != nil {
		log.Printf("store: ignoring unreadable chunk %s: %v", path, err)
		return nil, false
	}
	return c, true
}

func (s *FileStore) SaveMeta(m world.Meta) error {
	data, err := encodeMeta(m)
	if err != nil {
		return err
	}
	if err := writeFileAtomic(s.metaPath(), data); err != nil {
		return fmt.Errorf("store: save meta: %w", err)
	}
	return nil
}

func (s *FileStore) LoadMeta() (world.Meta, bool) {
	data, err := os.ReadFile(s.metaPath())
	if err != nil {
		return world.Meta{}, false
	}
	m, err := decodeMeta(data)
	if err != nil {
		backup := s.metaPath() + ".corrupt-" + time.Now().UTC().Format("20060102T150405")
		if rerr := os.Rename(s.metaPath(), backup); rerr != nil {
			log.Printf("store: ignoring %s: %v (backup failed: %v)", s.metaPath(), err, rerr)
		} else {
			log.Printf("store: ignoring %s: %v, kept as %s", s.metaPath(), err, backup)
		}
		return world.Meta{}, false
	}
	return m, true
}

// CorruptMetaFiles lists meta documents set aside by LoadMeta.
func (s *FileStore) CorruptMetaFiles() ([]string, error) {
	return filepath.Glob(s.metaPath() + ".corrupt-*")
}

// ChunkCoords lists chunks by file name; names that do not parse are skipped.
func (s *FileStore) ChunkCoords() ([]world.ChunkCoord, error) {
	entries, err := os.ReadDir(filepath.Join(s.root, "chunks"))
	if err != nil {
		return nil, fmt.Errorf("store: list chunks: %w", err)
	}
	var out []world.ChunkCoord
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		var cx, cz int
		if n, _ := fmt.Sscanf(e.Name(), "chunk_%d_%d.bin", &cx, &cz); n != 2 {
			continue
		}
		out = append(out, world.ChunkCoord{X: cx, Z: cz})
	}
	sortCoords(out)
	return out, nil
}

func (s *FileStore) Close() error {
	return nil
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
