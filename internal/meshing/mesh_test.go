package meshing

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voxelworld/internal/world"
)

func testAtlas() *GridAtlas {
	return NewGridAtlas(16)
}

func TestEmptyChunkMesh(t *testing.T) {
	verts, idx := BuildMesh(world.NewChunk(0, 0), testAtlas())
	assert.Empty(t, verts)
	assert.Empty(t, idx)
}

func TestSingleBlockMesh(t *testing.T) {
	c := world.NewChunk(0, 0)
	c.SetBlock(8, 100, 8, world.BlockTypeStone)

	verts, idx := BuildMesh(c, testAtlas())
	assert.Len(t, verts, 24)
	assert.Len(t, idx, 36)
}

func TestEnclosedBlockEmitsNoFaces(t *testing.T) {
	c := world.NewChunk(0, 0)
	for x := 7; x <= 9; x++ {
		for y := 99; y <= 101; y++ {
			for z := 7; z <= 9; z++ {
				c.SetBlock(x, y, z, world.BlockTypeStone)
			}
		}
	}

	verts, idx := BuildMesh(c, testAtlas())
	// only the 3x3 outer surface on each side of the cube remains
	require.Len(t, idx, 6*9*6)
	require.Len(t, verts, 6*9*4)

	center := mgl32.Vec3{8.5, 100.5, 8.5}
	for i := 0; i < len(verts); i += 4 {
		var sum mgl32.Vec3
		for _, v := range verts[i : i+4] {
			sum = sum.Add(v.Position)
		}
		faceCenter := sum.Mul(0.25)
		assert.Greater(t, faceCenter.Sub(center).Len(), float32(1.0), "face at %v belongs to an enclosed voxel", faceCenter)
	}
}

func TestTwoBlocksTouching(t *testing.T) {
	c := world.NewChunk(0, 0)
	c.SetBlock(0, 10, 0, world.BlockTypeGrass)
	c.SetBlock(1, 10, 0, world.BlockTypeGrass)

	_, idx := BuildMesh(c, testAtlas())
	// the shared face is culled on both sides
	assert.Len(t, idx, 10*6)
}

func TestNonSolidNeighborsExposeFaces(t *testing.T) {
	c := world.NewChunk(0, 0)
	c.SetBlock(5, 50, 5, world.BlockTypeStone)
	c.SetBlock(5, 51, 5, world.BlockTypeWater)
	c.SetBlock(6, 50, 5, world.BlockTypeGlass)

	_, idx := BuildMesh(c, testAtlas())
	// stone: 5 faces (east hidden by glass, top exposed to water); glass: 5 faces
	assert.Len(t, idx, 10*6)
}

func TestChunkBoundaryFacesVisible(t *testing.T) {
	c := world.NewChunk(0, 0)
	c.SetBlock(world.ChunkSizeX-1, 64, 0, world.BlockTypeStone)
	neighbor := world.NewChunk(1, 0)
	neighbor.SetBlock(0, 64, 0, world.BlockTypeStone)

	_, idx := BuildMesh(c, testAtlas())
	assert.Len(t, idx, 36, "boundary faces are visible without a lookup")

	_, idx = BuildMeshWithNeighbors(c, testAtlas(), LookupFromChunks(neighbor))
	assert.Len(t, idx, 30, "east face is hidden by the neighbor chunk")

	_, idx = BuildMeshWithNeighbors(c, testAtlas(), LookupFromChunks(world.NewChunk(5, 5)))
	assert.Len(t, idx, 36, "unknown neighbors keep faces visible")
}

func TestNegativeChunkBoundaryLookup(t *testing.T) {
	c := world.NewChunk(-1, -1)
	c.SetBlock(0, 64, 0, world.BlockTypeStone)
	west := world.NewChunk(-2, -1)
	west.SetBlock(world.ChunkSizeX-1, 64, 0, world.BlockTypeStone)
	south := world.NewChunk(-1, -2)
	south.SetBlock(0, 64, world.ChunkSizeZ-1, world.BlockTypeStone)

	_, idx := BuildMeshWithNeighbors(c, testAtlas(), LookupFromChunks(west, south))
	assert.Len(t, idx, 4*6)
}

func TestColumnEndsAlwaysVisible(t *testing.T) {
	c := world.NewChunk(0, 0)
	c.SetBlock(3, 0, 3, world.BlockTypeBedrock)
	c.SetBlock(4, world.ChunkSizeY-1, 4, world.BlockTypeStone)

	all := func(x, y, z int) (world.BlockType, bool) { return world.BlockTypeStone, true }
	verts, idx := BuildMeshWithNeighbors(c, testAtlas(), all)
	assert.Len(t, idx, 12*6)
	assert.Len(t, verts, 12*4)
}

func TestVertexAttributes(t *testing.T) {
	c := world.NewChunk(-1, 2)
	c.SetBlock(0, 0, 0, world.BlockTypeGrass)

	verts, idx := BuildMesh(c, testAtlas())
	require.Len(t, verts, 24)

	minPos := verts[0].Position
	for _, v := range verts {
		for i := range 3 {
			minPos[i] = min(minPos[i], v.Position[i])
		}
		assert.Equal(t, world.BlockTypeGrass.BaseColor(), v.Color)
	}
	assert.Equal(t, mgl32.Vec3{-16, 0, 32}, minPos)

	// faces come out in a fixed order, each with its own normal
	for f, face := range world.AllFaces {
		for _, v := range verts[f*4 : f*4+4] {
			assert.Equal(t, face.Normal(), v.Normal, "face %v", face)
		}
	}

	// indices reference the face's own four vertices
	for q := 0; q < len(idx); q += 6 {
		base := uint32(q / 6 * 4)
		assert.Equal(t, []uint32{base, base + 1, base + 2, base, base + 2, base + 3}, idx[q:q+6])
	}
}

func TestWindingMatchesNormals(t *testing.T) {
	c := world.NewChunk(0, 0)
	c.SetBlock(1, 1, 1, world.BlockTypeStone)
	verts, idx := BuildMesh(c, testAtlas())

	for tri := 0; tri < len(idx); tri += 3 {
		a := verts[idx[tri]].Position
		b := verts[idx[tri+1]].Position
		cc := verts[idx[tri+2]].Position
		n := b.Sub(a).Cross(cc.Sub(a)).Normalize()
		assert.True(t, n.ApproxEqual(verts[idx[tri]].Normal), "triangle %d winds against its normal: %v", tri/3, n)
	}
}

func TestUVInsetAndCornerOrder(t *testing.T) {
	atlas := testAtlas()
	c := world.NewChunk(0, 0)
	c.SetBlock(2, 2, 2, world.BlockTypeGrass)
	verts, _ := BuildMesh(c, atlas)

	texU, texV := atlas.TexelSize()
	for f, face := range world.AllFaces {
		rect := atlas.UV(world.BlockTypeGrass, face)
		inset := UVRect{rect.UMin + texU/2, rect.VMin + texV/2, rect.UMax - texU/2, rect.VMax - texV/2}

		seen := map[mgl32.Vec2]bool{}
		for _, v := range verts[f*4 : f*4+4] {
			assert.InDelta(t, 0, min(abs32(v.UV[0]-inset.UMin), abs32(v.UV[0]-inset.UMax)), 1e-6)
			assert.InDelta(t, 0, min(abs32(v.UV[1]-inset.VMin), abs32(v.UV[1]-inset.VMax)), 1e-6)
			seen[v.UV] = true

			// side tiles are upright: the block's upper edge maps to the tile's top
			if face != world.FaceTop && face != world.FaceBottom {
				local := v.Position.Sub(mgl32.Vec3{2, 2, 2})
				if local.Y() == 1 {
					assert.InDelta(t, inset.VMin, v.UV[1], 1e-6)
				} else {
					assert.InDelta(t, inset.VMax, v.UV[1], 1e-6)
				}
			}
		}
		assert.Len(t, seen, 4, "face %v must use four distinct tile corners", face)
	}
}

func abs32(f float32) float32 {
	if f < 0 {
		return -f
	}
	return f
}

func BenchmarkBuildMesh_Terrain(b *testing.B) {
	c := world.Generate(12345, 0, 0)
	atlas := testAtlas()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = BuildMesh(c, atlas)
	}
}

func BenchmarkBuildMesh_FullSurface(b *testing.B) {
	c := world.NewChunk(0, 0)
	for x := 0; x < world.ChunkSizeX; x++ {
		for z := 0; z < world.ChunkSizeZ; z++ {
			c.SetBlock(x, world.ChunkSizeY-1, z, world.BlockTypeGrass)
		}
	}
	atlas := testAtlas()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = BuildMesh(c, atlas)
	}
}
