// Package store persists chunks and world metadata.
//
// Every backend shares one chunk encoding: a fixed little-endian header
// followed by the flat voxel array as uint16 block ids, optionally zstd
// compressed.
package store

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/klauspost/compress/zstd"

	"voxelworld/internal/world"
)

const (
	chunkMagic    = "VXCK"
	codecVersion  = 1
	headerSize    = 16
	rawBlocksSize = world.ChunkVolume * 2

	flagCompressed uint16 = 1 << 0
)

var (
	ErrBadMagic   = errors.New("store: bad chunk magic")
	ErrBadVersion = errors.New("store: unsupported chunk version")
	ErrBadLength  = errors.New("store: bad chunk payload length")
)

var (
	encoder *zstd.Encoder
	decoder *zstd.Decoder
)

func init() {
	var err error
	// EncodeAll and DecodeAll are safe for concurrent use on shared instances
	encoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		panic(fmt.Sprintf("store: zstd encoder: %v", err))
	}
	decoder, err = zstd.NewReader(nil, zstd.WithDecoderMaxMemory(rawBlocksSize*2))
	if err != nil {
		panic(fmt.Sprintf("store: zstd decoder: %v", err))
	}
}

// Header is the fixed prefix of an encoded chunk.
type Header struct {
	Version uint16
	Flags   uint16
	X, Z    int32
}

// Compressed reports whether the payload is zstd compressed.
func (h Header) Compressed() bool {
	return h.Flags&flagCompressed != 0
}

// EncodeChunk serializes c. Block ids are written in flat index order.
func EncodeChunk(c *world.Chunk, compress bool) ([]byte, error) {
	raw := make([]byte, rawBlocksSize)
	for i, b := range c.Blocks() {
		binary.LittleEndian.PutUint16(raw[i*2:], world.EncodeBlock(b))
	}

	h := Header{Version: codecVersion, X: int32(c.X), Z: int32(c.Z)}
	payload := raw
	if compress {
		h.Flags |= flagCompressed
		payload = encoder.EncodeAll(raw, make([]byte, 0, len(raw)/8))
	}

	out := make([]byte, headerSize, headerSize+len(payload))
	putHeader(out, h)
	return append(out, payload...), nil
}

func putHeader(dst []byte, h Header) {
	copy(dst[0:4], chunkMagic)
	binary.LittleEndian.PutUint16(dst[4:6], h.Version)
	binary.LittleEndian.PutUint16(dst[6:8], h.Flags)
	binary.LittleEndian.PutUint32(dst[8:12], uint32(h.X))
	binary.LittleEndian.PutUint32(dst[12:16], uint32(h.Z))
}

// ReadHeader validates and parses the header of an encoded chunk.
func ReadHeader(data []byte) (Header, error) {
	if len(data) < headerSize {
		return Header{}, fmt.Errorf("%w: %d byte header", ErrBadLength, len(data))
	}
	if string(data[0:4]) != chunkMagic {
		return Header{}, ErrBadMagic
	}
	h := Header{
		Version: binary.LittleEndian.Uint16(data[4:6]),
		Flags:   binary.LittleEndian.Uint16(data[6:8]),
		X:       int32(binary.LittleEndian.Uint32(data[8:12])),
		Z:       int32(binary.LittleEndian.Uint32(data[12:16])),
	}
	if h.Version != codecVersion {
		return Header{}, fmt.Errorf("%w: %d", ErrBadVersion, h.Version)
	}
	return h, nil
}

// DecodeChunk parses an encoded chunk. Unknown block ids decode to air.
func DecodeChunk(data []byte) (*world.Chunk, error) {
	h, err := ReadHeader(data)
	if err != nil {
		return nil, err
	}
	payload := data[headerSize:]
	if h.Compressed() {
		payload, err = decoder.DecodeAll(payload, make([]byte, 0, rawBlocksSize))
		if err != nil {
			return nil, fmt.Errorf("store: decompress chunk (%d,%d): %w", h.X, h.Z, err)
		}
	}
	if len(payload) != rawBlocksSize {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrBadLength, len(payload), rawBlocksSize)
	}

	blocks := make([]world.BlockType, world.ChunkVolume)
	for i := range blocks {
		blocks[i] = world.DecodeBlock(binary.LittleEndian.Uint16(payload[i*2:]))
	}
	return world.NewChunkFromBlocks(int(h.X), int(h.Z), blocks), nil
}

// decodeAt decodes data and checks it belongs to (cx, cz).
func decodeAt(data []byte, cx, cz int) (*world.Chunk, error) {
	c, err := DecodeChunk(data)
	if err != nil {
		return nil, err
	}
	if c.X != cx || c.Z != cz {
		return nil, fmt.Errorf("store: chunk header (%d,%d) stored under (%d,%d)", c.X, c.Z, cx, cz)
	}
	return c, nil
}
