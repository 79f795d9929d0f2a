package meshing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voxelworld/internal/world"
)

func TestGridAtlasLayout(t *testing.T) {
	a := NewGridAtlas(16)
	w, h := a.Size()
	// 21 tiles, six per row
	assert.Equal(t, 96, w)
	assert.Equal(t, 64, h)

	x, y := a.TileOrigin(TextureCobblestone)
	assert.Equal(t, 16, x)
	assert.Equal(t, 16, y)

	r := a.Rect(TextureCobblestone)
	assert.InDelta(t, 16.0/96, r.UMin, 1e-6)
	assert.InDelta(t, 16.0/64, r.VMin, 1e-6)
	assert.InDelta(t, 32.0/96, r.UMax, 1e-6)
	assert.InDelta(t, 32.0/64, r.VMax, 1e-6)

	tu, tv := a.TexelSize()
	assert.InDelta(t, 1.0/96, tu, 1e-9)
	assert.InDelta(t, 1.0/64, tv, 1e-9)
}

func TestGridAtlasTilesDoNotOverlap(t *testing.T) {
	a := NewGridAtlas(8)
	seen := map[[2]int]TextureKey{}
	for _, k := range TextureKeys() {
		x, y := a.TileOrigin(k)
		prev, dup := seen[[2]int{x, y}]
		require.False(t, dup, "%v overlaps %v", k, prev)
		seen[[2]int{x, y}] = k
	}
	assert.Len(t, seen, len(textureNames))
}

func TestTextureKeyFor(t *testing.T) {
	cases := []struct {
		block world.BlockType
		face  world.BlockFace
		want  TextureKey
	}{
		{world.BlockTypeGrass, world.FaceTop, TextureGrassTop},
		{world.BlockTypeGrass, world.FaceBottom, TextureDirt},
		{world.BlockTypeGrass, world.FaceEast, TextureGrassSide},
		{world.BlockTypePodzol, world.FaceTop, TextureDirt},
		{world.BlockTypeTuff, world.FaceNorth, TextureDeepslate},
		{world.BlockTypeBricks, world.FaceNorth, TextureCobblestone},
		{world.BlockTypeDarkOakLog, world.FaceTop, TextureOakLog},
		{world.BlockTypeDeepslateGoldOre, world.FaceWest, TextureDeepslateGoldOre},
		{world.BlockTypeObsidian, world.FaceTop, TextureStone},
		{world.BlockType(9999), world.FaceTop, TextureStone},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, TextureKeyFor(tc.block, tc.face), "%v/%v", tc.block, tc.face)
	}
	assert.Equal(t, "grass_top", TextureGrassTop.String())
	assert.Equal(t, "water", TextureWater.String())
}

func TestWorkerPoolBuildsMeshes(t *testing.T) {
	pool := NewWorkerPool(2, 8, testAtlas())
	defer pool.Shutdown()

	c := world.NewChunk(3, -1)
	c.SetBlock(world.ChunkSizeX-1, 10, 4, world.BlockTypeStone)
	neighbor := world.NewChunk(4, -1)
	neighbor.SetBlock(0, 10, 4, world.BlockTypeStone)

	results := make(chan MeshResult, 2)
	require.True(t, pool.SubmitJob(MeshJob{Chunk: c, ResultChan: results}))
	require.NoError(t, pool.SubmitJobBlocking(MeshJob{Chunk: c, Neighbors: []*world.Chunk{neighbor}, ResultChan: results}))

	faces := map[int]bool{}
	for range 2 {
		select {
		case r := <-results:
			require.NoError(t, r.Error)
			assert.Equal(t, world.ChunkCoord{X: 3, Z: -1}, r.Coord)
			assert.Len(t, r.Vertices, r.Faces()*4)
			faces[r.Faces()] = true
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for mesh result")
		}
	}
	assert.Equal(t, map[int]bool{6: true, 5: true}, faces)
}

func TestWorkerPoolShutdown(t *testing.T) {
	pool := NewWorkerPool(1, 1, testAtlas())
	pool.Shutdown()

	assert.False(t, pool.SubmitJob(MeshJob{Chunk: world.NewChunk(0, 0)}))
	assert.ErrorIs(t, pool.SubmitJobBlocking(MeshJob{Chunk: world.NewChunk(0, 0)}), ErrPoolClosed)
	assert.Zero(t, pool.GetQueueLength())
}
