package world

import (
	"fmt"

	"voxelworld/internal/profiling"
)

// TerrainGenerator defines the interface for terrain generation strategies.
type TerrainGenerator interface {
	// HeightAt returns the column height h: the surface block sits at h-1.
	HeightAt(worldX, worldZ int) int
	// PopulateChunk overwrites every voxel of c.
	PopulateChunk(c *Chunk)
	// Generate returns a freshly populated chunk at chunk coordinates (cx, cz).
	Generate(cx, cz int) *Chunk
}

// OreBand assigns an ore when the ore noise exceeds Threshold and
// MinY < y < MaxY. DeepBlock replaces Block below the deep threshold.
type OreBand struct {
	Threshold float64
	MinY      int
	MaxY      int
	Block     BlockType
	DeepBlock BlockType
}

// GenSettings parameterizes the height field and column layering.
type GenSettings struct {
	Noise NoiseKind

	BaseHeight float64
	BaseRange  float64
	Base       OctaveSettings

	HillAmplitude float64
	Hills         OctaveSettings

	ValleyAmplitude float64
	Valleys         OctaveSettings

	SeaLevel       int
	DeepThreshold  int
	MountainHeight int
	BeachHeight    int

	OreFrequency float64
	MaxOreDepth  int
	// Ores are tested in order and the first match wins, so list the
	// rarest band first.
	Ores []OreBand
}

// DefaultOres returns the standard ore table, rarest first.
func DefaultOres() []OreBand {
	return []OreBand{
		{Threshold: 0.80, MinY: 1, MaxY: 20, Block: BlockTypeDiamondOre, DeepBlock: BlockTypeDeepslateDiamondOre},
		{Threshold: 0.75, MinY: 0, MaxY: 32, Block: BlockTypeGoldOre, DeepBlock: BlockTypeDeepslateGoldOre},
		{Threshold: 0.70, MinY: 0, MaxY: 64, Block: BlockTypeIronOre, DeepBlock: BlockTypeDeepslateIronOre},
		{Threshold: 0.60, MinY: 0, MaxY: 128, Block: BlockTypeCoalOre, DeepBlock: BlockTypeDeepslateCoalOre},
	}
}

// DefaultGenSettings returns the standard terrain shape: a 40..120 base band
// with hills added and valleys carved out, sea level at 63.
func DefaultGenSettings() GenSettings {
	return GenSettings{
		Noise:           NoisePerlin,
		BaseHeight:      40,
		BaseRange:       80,
		Base:            OctaveSettings{Octaves: 6, Persistence: 0.5, Frequency: 0.005, Lacunarity: 2},
		HillAmplitude:   20,
		Hills:           OctaveSettings{Octaves: 3, Persistence: 0.7, Frequency: 0.02, Lacunarity: 2},
		ValleyAmplitude: 15,
		Valleys:         OctaveSettings{Octaves: 2, Persistence: 0.8, Frequency: 0.01, Lacunarity: 2},
		SeaLevel:        63,
		DeepThreshold:   16,
		MountainHeight:  90,
		BeachHeight:     65,
		OreFrequency:    0.1,
		MaxOreDepth:     ChunkSizeY - 1,
		Ores:            DefaultOres(),
	}
}

// Generator is the standard layered-noise terrain generator.
type Generator struct {
	seed     int64
	settings GenSettings
	noise    Noise
}

// NewGenerator creates a generator with default settings.
func NewGenerator(seed int64) *Generator {
	return newGenerator(seed, DefaultGenSettings(), NewPerlinNoise(seed))
}

// NewGeneratorWithSettings creates a generator with custom settings.
func NewGeneratorWithSettings(seed int64, s GenSettings) (*Generator, error) {
	n, err := NewNoise(s.Noise, seed)
	if err != nil {
		return nil, fmt.Errorf("terrain generator: %w", err)
	}
	return newGenerator(seed, s, n), nil
}

func newGenerator(seed int64, s GenSettings, n Noise) *Generator {
	if s.MaxOreDepth <= 0 || s.MaxOreDepth > ChunkSizeY-1 {
		s.MaxOreDepth = ChunkSizeY - 1
	}
	return &Generator{seed: seed, settings: s, noise: n}
}

// Generate builds chunk (cx, cz) for seed with default settings. Same inputs
// always give identical voxels.
func Generate(seed int64, cx, cz int) *Chunk {
	return NewGenerator(seed).Generate(cx, cz)
}

// Seed returns the generator seed.
func (g *Generator) Seed() int64 {
	return g.seed
}

// Settings returns a copy of the generator settings.
func (g *Generator) Settings() GenSettings {
	return g.settings
}

// HeightAt computes the column height at world X,Z, clamped to [1, 255].
func (g *Generator) HeightAt(worldX, worldZ int) int {
	s := &g.settings
	x, z := float64(worldX), float64(worldZ)

	base := s.BaseHeight + octaveNoise2D(g.noise, x, z, s.Base)*s.BaseRange
	hills := octaveNoise2D(g.noise, x, z, s.Hills) * s.HillAmplitude
	valleys := octaveNoise2D(g.noise, x, z, s.Valleys) * s.ValleyAmplitude

	return int(clamp(base+hills-valleys, 1, ChunkSizeY-1))
}

// Generate returns a new populated chunk.
func (g *Generator) Generate(cx, cz int) *Chunk {
	c := NewChunk(cx, cz)
	g.PopulateChunk(c)
	return c
}

// PopulateChunk fills every column of c from the height field, then
// places ores.
func (g *Generator) PopulateChunk(c *Chunk) {
	defer profiling.Track("world.PopulateChunk")()
	for lz := range ChunkSizeZ {
		for lx := range ChunkSizeX {
			worldX := c.X*ChunkSizeX + lx
			worldZ := c.Z*ChunkSizeZ + lz
			h := g.HeightAt(worldX, worldZ)
			g.fillColumn(c, lx, lz, h)
			g.placeOres(c, lx, lz, worldX, worldZ, h)
		}
	}
}

func (g *Generator) fillColumn(c *Chunk, lx, lz, h int) {
	s := &g.settings
	surface := g.surfaceBlock(h)
	for y := range ChunkSizeY {
		var b BlockType
		switch {
		case y == 0:
			b = BlockTypeBedrock
		case y < h-3:
			if y < s.DeepThreshold {
				b = BlockTypeDeepslate
			} else {
				b = BlockTypeStone
			}
		case y < h-1:
			b = BlockTypeDirt
		case y < h:
			b = surface
		case y < s.SeaLevel:
			b = BlockTypeWater
		default:
			b = BlockTypeAir
		}
		c.blocks[Index(lx, y, lz)] = b
	}
}

func (g *Generator) surfaceBlock(h int) BlockType {
	switch {
	case h > g.settings.MountainHeight:
		return BlockTypeStone
	case h < g.settings.BeachHeight:
		return BlockTypeSand
	default:
		return BlockTypeGrass
	}
}

func (g *Generator) placeOres(c *Chunk, lx, lz, worldX, worldZ, h int) {
	s := &g.settings
	if len(s.Ores) == 0 {
		return
	}
	f := s.OreFrequency
	top := min(h, s.MaxOreDepth)
	for y := 1; y < top; y++ {
		n := g.noise.Noise3D(float64(worldX)*f, float64(y)*f, float64(worldZ)*f)
		for _, ore := range s.Ores {
			if n > ore.Threshold && y > ore.MinY && y < ore.MaxY {
				if y < s.DeepThreshold {
					c.blocks[Index(lx, y, lz)] = ore.DeepBlock
				} else {
					c.blocks[Index(lx, y, lz)] = ore.Block
				}
				break
			}
		}
	}
}

// FlatGenerator produces a flat world of fixed height, used by tools and tests.
type FlatGenerator struct {
	Height int
}

// NewFlatGenerator creates a new flat generator with the specified height.
func NewFlatGenerator(height int) *FlatGenerator {
	return &FlatGenerator{Height: height}
}

// HeightAt returns the fixed height.
func (g *FlatGenerator) HeightAt(worldX, worldZ int) int {
	return g.Height
}

// PopulateChunk lays bedrock at y=0, dirt up to Height and grass on top.
func (g *FlatGenerator) PopulateChunk(c *Chunk) {
	top := min(g.Height, ChunkSizeY-1)
	c.Fill(0, ChunkSizeY, BlockTypeAir)
	c.Fill(0, 1, BlockTypeBedrock)
	if top > 0 {
		c.Fill(1, top, BlockTypeDirt)
		c.Fill(top, top+1, BlockTypeGrass)
	}
}

// Generate returns a new flat chunk.
func (g *FlatGenerator) Generate(cx, cz int) *Chunk {
	c := NewChunk(cx, cz)
	g.PopulateChunk(c)
	return c
}
