package world

import (
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// Chunk dimensions
	ChunkSizeX = 16
	ChunkSizeY = 256
	ChunkSizeZ = 16

	ChunkVolume = ChunkSizeX * ChunkSizeY * ChunkSizeZ
)

// Chunk represents a 16x256x16 column of the world
type Chunk struct {
	X, Z   int
	blocks []BlockType
}

// NewChunk creates an all-air chunk at the specified chunk coordinates
func NewChunk(x, z int) *Chunk {
	return &Chunk{
		X:      x,
		Z:      z,
		blocks: make([]BlockType, ChunkVolume),
	}
}

// NewChunkFromBlocks wraps an existing voxel array. It returns nil when the
// slice does not hold exactly ChunkVolume entries.
func NewChunkFromBlocks(x, z int, blocks []BlockType) *Chunk {
	if len(blocks) != ChunkVolume {
		return nil
	}
	return &Chunk{X: x, Z: z, blocks: blocks}
}

// Index converts local coordinates to the flat array position
// (x fastest, then y, then z). Callers must bounds-check first.
func Index(x, y, z int) int {
	return x + y*ChunkSizeX + z*ChunkSizeX*ChunkSizeY
}

// InBounds reports whether local coordinates address a voxel of the chunk.
func InBounds(x, y, z int) bool {
	return x >= 0 && x < ChunkSizeX && y >= 0 && y < ChunkSizeY && z >= 0 && z < ChunkSizeZ
}

// Coord returns the chunk-space coordinate of c.
func (c *Chunk) Coord() ChunkCoord {
	return ChunkCoord{X: c.X, Z: c.Z}
}

// GetBlock returns the block type at the specified local coordinates
func (c *Chunk) GetBlock(x, y, z int) BlockType {
	if !InBounds(x, y, z) {
		return BlockTypeAir
	}
	return c.blocks[Index(x, y, z)]
}

// SetBlock sets the block type at the specified local coordinates
func (c *Chunk) SetBlock(x, y, z int, b BlockType) {
	if !InBounds(x, y, z) {
		return
	}
	c.blocks[Index(x, y, z)] = b
}

// IsAir checks if the block at the specified local coordinates is air
func (c *Chunk) IsAir(x, y, z int) bool {
	return c.GetBlock(x, y, z) == BlockTypeAir
}

// Blocks exposes the flat voxel array. Callers must not resize it.
func (c *Chunk) Blocks() []BlockType {
	return c.blocks
}

// Fill sets every voxel in [y0, y1) to b.
func (c *Chunk) Fill(y0, y1 int, b BlockType) {
	y0 = max(y0, 0)
	y1 = min(y1, ChunkSizeY)
	for z := range ChunkSizeZ {
		for y := y0; y < y1; y++ {
			for x := range ChunkSizeX {
				c.blocks[Index(x, y, z)] = b
			}
		}
	}
}

// SurfaceY returns the highest non-air y of a column, or -1 if empty.
func (c *Chunk) SurfaceY(x, z int) int {
	if !InBounds(x, 0, z) {
		return -1
	}
	for y := ChunkSizeY - 1; y >= 0; y-- {
		if !c.IsAir(x, y, z) {
			return y
		}
	}
	return -1
}

// Equal reports whether both chunks hold identical voxels.
func (c *Chunk) Equal(o *Chunk) bool {
	if o == nil || len(c.blocks) != len(o.blocks) {
		return false
	}
	for i, b := range c.blocks {
		if o.blocks[i] != b {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the chunk.
func (c *Chunk) Clone() *Chunk {
	blocks := make([]BlockType, len(c.blocks))
	copy(blocks, c.blocks)
	return &Chunk{X: c.X, Z: c.Z, blocks: blocks}
}

// WorldOrigin returns the world-space position of local voxel (0,0,0).
func (c *Chunk) WorldOrigin() mgl32.Vec3 {
	return mgl32.Vec3{float32(c.X * ChunkSizeX), 0, float32(c.Z * ChunkSizeZ)}
}

// CountNonAir returns the number of non-air voxels.
func (c *Chunk) CountNonAir() int {
	n := 0
	for _, b := range c.blocks {
		if b != BlockTypeAir {
			n++
		}
	}
	return n
}
