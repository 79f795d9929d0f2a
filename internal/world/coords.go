package world

import (
	"fmt"
	"sort"
)

// ChunkCoord addresses a chunk column in chunk space.
type ChunkCoord struct {
	X, Z int
}

func (c ChunkCoord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Z)
}

// floorDiv divides rounding toward negative infinity.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// mod is the Euclidean remainder, always in [0, b) for b > 0.
func mod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}

// Resolve maps world X/Z to the owning chunk and the local column inside it.
// World -1 lands in chunk -1 at local 15.
func Resolve(worldX, worldZ int) (coord ChunkCoord, localX, localZ int) {
	coord = ChunkCoord{X: floorDiv(worldX, ChunkSizeX), Z: floorDiv(worldZ, ChunkSizeZ)}
	return coord, mod(worldX, ChunkSizeX), mod(worldZ, ChunkSizeZ)
}

// BoundaryNeighbors returns the lateral chunks that share a face with the
// voxel column at world (x, z). Interior columns have none. Render layers use
// it together with the edited chunk to decide which meshes to rebuild.
func BoundaryNeighbors(worldX, worldZ int) []ChunkCoord {
	c, lx, lz := Resolve(worldX, worldZ)
	var out []ChunkCoord
	if lx == 0 {
		out = append(out, ChunkCoord{X: c.X - 1, Z: c.Z})
	}
	if lx == ChunkSizeX-1 {
		out = append(out, ChunkCoord{X: c.X + 1, Z: c.Z})
	}
	if lz == 0 {
		out = append(out, ChunkCoord{X: c.X, Z: c.Z - 1})
	}
	if lz == ChunkSizeZ-1 {
		out = append(out, ChunkCoord{X: c.X, Z: c.Z + 1})
	}
	return out
}

// sortCoords orders coordinates by X then Z.
func sortCoords(coords []ChunkCoord) {
	sort.Slice(coords, func(i, j int) bool {
		if coords[i].X != coords[j].X {
			return coords[i].X < coords[j].X
		}
		return coords[i].Z < coords[j].Z
	})
}

func distSq(a, b ChunkCoord) int {
	dx := a.X - b.X
	dz := a.Z - b.Z
	return dx*dx + dz*dz
}
