package world

import (
	"fmt"
	"math"

	"github.com/aquilax/go-perlin"
)

// NoiseKind selects the noise primitive backing terrain generation.
type NoiseKind string

const (
	NoisePerlin NoiseKind = "perlin"
	NoiseValue  NoiseKind = "value"
)

// Noise is a seeded, deterministic scalar field. Both methods return values
// in roughly [-1, 1] and must be safe for concurrent use.
type Noise interface {
	Noise2D(x, z float64) float64
	Noise3D(x, y, z float64) float64
}

// NewNoise builds the primitive named by kind.
func NewNoise(kind NoiseKind, seed int64) (Noise, error) {
	switch kind {
	case NoisePerlin, "":
		return NewPerlinNoise(seed), nil
	case NoiseValue:
		return NewValueNoise(seed), nil
	default:
		return nil, fmt.Errorf("unknown noise kind %q", kind)
	}
}

// go-perlin's single octave peaks near ±0.7 in 2D and ±0.67 in 3D. The
// scales stretch both to roughly ±1 so thresholds tuned for [-1, 1] noise
// stay reachable; results are clamped.
const (
	perlin2DScale = math.Sqrt2
	perlin3DScale = 1.5
)

type perlinNoise struct {
	p *perlin.Perlin
}

// NewPerlinNoise returns single-octave gradient noise. Octave stacking is
// done by the generator so every layer shares one permutation table.
func NewPerlinNoise(seed int64) Noise {
	return &perlinNoise{p: perlin.NewPerlin(2, 2, 1, seed)}
}

func (n *perlinNoise) Noise2D(x, z float64) float64 {
	return clamp(n.p.Noise2D(x, z)*perlin2DScale, -1, 1)
}

func (n *perlinNoise) Noise3D(x, y, z float64) float64 {
	return clamp(n.p.Noise3D(x, y, z)*perlin3DScale, -1, 1)
}

type valueNoise struct {
	seed int64
}

// NewValueNoise returns hashed lattice value noise. It needs no tables and
// is cheaper than Perlin, at the cost of blockier features.
func NewValueNoise(seed int64) Noise {
	return valueNoise{seed: seed}
}

func (n valueNoise) Noise2D(x, z float64) float64 {
	return valueNoise2D(x, z, n.seed)*2 - 1
}

func (n valueNoise) Noise3D(x, y, z float64) float64 {
	return valueNoise3D(x, y, z, n.seed)*2 - 1
}

// OctaveSettings describes one fractal noise layer.
type OctaveSettings struct {
	Octaves     int     `yaml:"octaves"`
	Persistence float64 `yaml:"persistence"`
	Frequency   float64 `yaml:"frequency"`
	Lacunarity  float64 `yaml:"lacunarity"`
}

// octaveNoise2D sums octaves of n and normalizes the result into [0,1].
func octaveNoise2D(n Noise, x, z float64, o OctaveSettings) float64 {
	lacunarity := o.Lacunarity
	if lacunarity == 0 {
		lacunarity = 2
	}
	amplitude := 1.0
	frequency := o.Frequency
	sum := 0.0
	norm := 0.0
	for range o.Octaves {
		sum += n.Noise2D(x*frequency, z*frequency) * amplitude
		norm += amplitude
		amplitude *= o.Persistence
		frequency *= lacunarity
	}
	if norm == 0 {
		return 0
	}
	return clamp((sum/norm+1)/2, 0, 1)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Hashed value noise on an integer lattice, smoothed with a quintic fade.

func fade(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

func lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

func hash2(x int64, z int64, seed int64) uint64 {
	// SplitMix64 style integer hash, stable across runs for same inputs
	v := uint64(x) + (uint64(z) << 1) + uint64(seed)*0x9E3779B97F4A7C15
	v += 0x9E3779B97F4A7C15
	v = (v ^ (v >> 30)) * 0xBF58476D1CE4E5B9
	v = (v ^ (v >> 27)) * 0x94D049BB133111EB
	v = v ^ (v >> 31)
	return v
}

func hash3(x, y, z int64, seed int64) uint64 {
	v := uint64(x)*0x9E3779B97F4A7C15 + uint64(y)*0x517CC1B727220A95 + uint64(z)*0x6C62272E07BB0142 + uint64(seed)
	v += 0x9E3779B97F4A7C15
	v = (v ^ (v >> 30)) * 0xBF58476D1CE4E5B9
	v = (v ^ (v >> 27)) * 0x94D049BB133111EB
	v = v ^ (v >> 31)
	return v
}

// latticeValue maps a hash to [0,1].
func latticeValue(h uint64) float64 {
	return float64(h&0xFFFFFFFF) / float64(0xFFFFFFFF)
}

func valueNoise2D(x float64, z float64, seed int64) float64 {
	x0 := math.Floor(x)
	z0 := math.Floor(z)
	ix, iz := int64(x0), int64(z0)

	fx := fade(x - x0)
	fz := fade(z - z0)

	v00 := latticeValue(hash2(ix, iz, seed))
	v10 := latticeValue(hash2(ix+1, iz, seed))
	v01 := latticeValue(hash2(ix, iz+1, seed))
	v11 := latticeValue(hash2(ix+1, iz+1, seed))

	return lerp(lerp(v00, v10, fx), lerp(v01, v11, fx), fz)
}

func valueNoise3D(x, y, z float64, seed int64) float64 {
	x0 := math.Floor(x)
	y0 := math.Floor(y)
	z0 := math.Floor(z)
	ix, iy, iz := int64(x0), int64(y0), int64(z0)

	fx := fade(x - x0)
	fy := fade(y - y0)
	fz := fade(z - z0)

	v000 := latticeValue(hash3(ix, iy, iz, seed))
	v100 := latticeValue(hash3(ix+1, iy, iz, seed))
	v010 := latticeValue(hash3(ix, iy+1, iz, seed))
	v110 := latticeValue(hash3(ix+1, iy+1, iz, seed))
	v001 := latticeValue(hash3(ix, iy, iz+1, seed))
	v101 := latticeValue(hash3(ix+1, iy, iz+1, seed))
	v011 := latticeValue(hash3(ix, iy+1, iz+1, seed))
	v111 := latticeValue(hash3(ix+1, iy+1, iz+1, seed))

	// X, then Y, then Z
	i00 := lerp(v000, v100, fx)
	i10 := lerp(v010, v110, fx)
	i01 := lerp(v001, v101, fx)
	i11 := lerp(v011, v111, fx)

	return lerp(lerp(i00, i10, fy), lerp(i01, i11, fy), fz)
}
