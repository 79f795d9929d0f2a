package store

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/dgraph-io/badger/v3"

	"voxelworld/internal/world"
)

const (
	chunkKeyPrefix = "chunk:"
	metaKey        = "meta"
	corruptMetaKey = "meta.corrupt"
)

var errStoreClosed = errors.New("store: closed")

// BadgerStore keeps chunks in a BadgerDB under chunk:<cx>:<cz> and the
// metadata document under meta. Values use the same encodings as FileStore.
type BadgerStore struct {
	db       *badger.DB
	compress bool

	mu      sync.RWMutex
	isReady bool
}

// OpenBadgerStore opens or creates a database in dir.
func OpenBadgerStore(dir string, compress bool) (*BadgerStore, error) {
	return NewBadgerStore(badger.DefaultOptions(dir), compress)
}

// NewBadgerStore opens a database with explicit options, e.g. in-memory.
func NewBadgerStore(opts badger.Options, compress bool) (*BadgerStore, error) {
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("store: open badger: %w", err)
	}
	return &BadgerStore{db: db, compress: compress, isReady: true}, nil
}

func chunkKey(cx, cz int) []byte {
	return []byte(fmt.Sprintf("%s%d:%d", chunkKeyPrefix, cx, cz))
}

func (s *BadgerStore) put(key, value []byte) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.isReady {
		return errStoreClosed
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, value)
	})
}

// get returns a copy of the value, or nil when the key is absent.
func (s *BadgerStore) get(key []byte) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.isReady {
		return nil, errStoreClosed
	}
	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	return data, err
}

func (s *BadgerStore) SaveChunk(c *world.Chunk) error {
	data, err := EncodeChunk(c, s.compress)
	if err != nil {
		return err
	}
	if err := s.put(chunkKey(c.X, c.Z), data); err != nil {
		return fmt.Errorf("store: save chunk (%d,%d): %w", c.X, c.Z, err)
	}
	return nil
}

func (s *BadgerStore) LoadChunk(cx, cz int) (*world.Chunk, bool) {
	data, err := s.get(chunkKey(cx, cz))
	if err != nil {
		log.Printf("store: read chunk (%d,%d): %v", cx, cz, err)
		return nil, false
	}
	if data == nil {
		return nil, false
	}
	c, err := decodeAt(data, cx, cz)
	if err != nil {
		log.Printf("store: ignoring unreadable chunk (%d,%d): %v", cx, cz, err)
		return nil, false
	}
	return c, true
}

func (s *BadgerStore) SaveMeta(m world.Meta) error {
	data, err := encodeMeta(m)
	if err != nil {
		return err
	}
	if err := s.put([]byte(metaKey), data); err != nil {
		return fmt.Errorf("store: save meta: %w", err)
	}
	return nil
}

func (s *BadgerStore) LoadMeta() (world.Meta, bool) {
	data, err := s.get([]byte(metaKey))
	if err != nil || data == nil {
		return world.Meta{}, false
	}
	m, err := decodeMeta(data)
	if err != nil {
		if perr := s.put([]byte(corruptMetaKey), data); perr != nil {
			log.Printf("store: ignoring meta: %v (backup failed: %v)", err, perr)
		} else {
			log.Printf("store: ignoring meta: %v, kept under %s", err, corruptMetaKey)
		}
		return world.Meta{}, false
	}
	return m, true
}

// ChunkCoords scans the chunk key prefix.
func (s *BadgerStore) ChunkCoords() ([]world.ChunkCoord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.isReady {
		return nil, errStoreClosed
	}
	var out []world.ChunkCoord
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(chunkKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			var cx, cz int
			if n, _ := fmt.Sscanf(string(it.Item().Key()), chunkKeyPrefix+"%d:%d", &cx, &cz); n != 2 {
				continue
			}
			out = append(out, world.ChunkCoord{X: cx, Z: cz})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("store: list chunks: %w", err)
	}
	sortCoords(out)
	return out, nil
}

// Close closes the database. Later calls fail with a closed-store error.
func (s *BadgerStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isReady {
		return nil
	}
	s.isReady = false
	return s.db.Close()
}
