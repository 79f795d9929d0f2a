package meshing

import (
	"github.com/go-gl/mathgl/mgl32"

	"voxelworld/internal/profiling"
	"voxelworld/internal/world"
)

// Vertex is one corner of an emitted face.
type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	Color    mgl32.Vec3
	UV       mgl32.Vec2
}

// UVRect is an atlas sub-region in normalized texture coordinates.
// V grows downward, so VMin is the top edge of the tile.
type UVRect struct {
	UMin, VMin, UMax, VMax float32
}

// UVResolver maps a block face to its atlas tile. TexelSize reports the
// size of one atlas pixel in UV units.
type UVResolver interface {
	UV(b world.BlockType, face world.BlockFace) UVRect
	TexelSize() (u, v float32)
}

// faceCorners lists the unit-cube corners of each face, counter-clockwise
// when seen from outside the block.
var faceCorners = [6][4]mgl32.Vec3{
	world.FaceTop:    {{0, 1, 0}, {0, 1, 1}, {1, 1, 1}, {1, 1, 0}},
	world.FaceBottom: {{0, 0, 0}, {1, 0, 0}, {1, 0, 1}, {0, 0, 1}},
	world.FaceNorth:  {{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1}},
	world.FaceSouth:  {{0, 0, 0}, {0, 1, 0}, {1, 1, 0}, {1, 0, 0}},
	world.FaceEast:   {{1, 0, 0}, {1, 1, 0}, {1, 1, 1}, {1, 0, 1}},
	world.FaceWest:   {{0, 0, 0}, {0, 0, 1}, {0, 1, 1}, {0, 1, 0}},
}

// faceIndices are the two triangles of a quad relative to its first vertex.
var faceIndices = [6]uint32{0, 1, 2, 0, 2, 3}

// cornerUV returns the tile weights (0 or 1 on each axis) of a face corner.
// Side tiles are upright with u running left to right as seen from outside.
func cornerUV(face world.BlockFace, c mgl32.Vec3) (u, v float32) {
	switch face {
	case world.FaceTop:
		return c.X(), c.Z()
	case world.FaceBottom:
		return c.X(), 1 - c.Z()
	case world.FaceNorth:
		return c.X(), 1 - c.Y()
	case world.FaceSouth:
		return 1 - c.X(), 1 - c.Y()
	case world.FaceEast:
		return 1 - c.Z(), 1 - c.Y()
	default: // west
		return c.Z(), 1 - c.Y()
	}
}

// insetRect shrinks r by half a texel on every edge.
func insetRect(r UVRect, texelU, texelV float32) UVRect {
	du, dv := texelU/2, texelV/2
	return UVRect{UMin: r.UMin + du, VMin: r.VMin + dv, UMax: r.UMax - du, VMax: r.VMax - dv}
}

// BuildMesh emits one quad per visible face of every solid voxel in c.
// Faces on the chunk boundary are always visible. An empty result means
// there is nothing to draw.
func BuildMesh(c *world.Chunk, resolver UVResolver) ([]Vertex, []uint32) {
	return BuildMeshWithNeighbors(c, resolver, nil)
}

// BuildMeshWithNeighbors is BuildMesh that consults lookup for faces on the
// chunk's lateral boundary. Faces stay visible when lookup is nil or cannot
// answer for the neighbor position.
func BuildMeshWithNeighbors(c *world.Chunk, resolver UVResolver, lookup world.BlockLookup) ([]Vertex, []uint32) {
	defer profiling.Track("meshing.BuildMesh")()

	texelU, texelV := resolver.TexelSize()
	origin := c.WorldOrigin()
	baseX, baseZ := c.X*world.ChunkSizeX, c.Z*world.ChunkSizeZ

	var vertices []Vertex
	var indices []uint32

	for z := range world.ChunkSizeZ {
		for y := range world.ChunkSizeY {
			for x := range world.ChunkSizeX {
				b := c.GetBlock(x, y, z)
				if !b.IsSolid() {
					continue
				}
				pos := origin.Add(mgl32.Vec3{float32(x), float32(y), float32(z)})
				color := b.BaseColor()

				for _, face := range world.AllFaces {
					dx, dy, dz := face.Offset()
					nx, ny, nz := x+dx, y+dy, z+dz
					if world.InBounds(nx, ny, nz) {
						if c.GetBlock(nx, ny, nz).IsSolid() {
							continue
						}
					} else if lookup != nil && ny >= 0 && ny < world.ChunkSizeY {
						if nb, ok := lookup(baseX+nx, ny, baseZ+nz); ok && nb.IsSolid() {
							continue
						}
					}

					rect := insetRect(resolver.UV(b, face), texelU, texelV)
					normal := face.Normal()
					start := uint32(len(vertices))
					for _, corner := range faceCorners[face] {
						wu, wv := cornerUV(face, corner)
						vertices = append(vertices, Vertex{
							Position: pos.Add(corner),
							Normal:   normal,
							Color:    color,
							UV: mgl32.Vec2{
								rect.UMin + wu*(rect.UMax-rect.UMin),
								rect.VMin + wv*(rect.VMax-rect.VMin),
							},
						})
					}
					for _, i := range faceIndices {
						indices = append(indices, start+i)
					}
				}
			}
		}
	}
	return vertices, indices
}

// LookupFromChunks answers block queries from the given chunks only. Pass
// clones when the lookup is used off the World's owner goroutine.
func LookupFromChunks(chunks ...*world.Chunk) world.BlockLookup {
	byCoord := make(map[world.ChunkCoord]*world.Chunk, len(chunks))
	for _, ch := range chunks {
		if ch != nil {
			byCoord[ch.Coord()] = ch
		}
	}
	return func(x, y, z int) (world.BlockType, bool) {
		coord, lx, lz := world.Resolve(x, z)
		ch, ok := byCoord[coord]
		if !ok {
			return world.BlockTypeAir, false
		}
		return ch.GetBlock(lx, y, lz), true
	}
}
