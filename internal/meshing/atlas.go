package meshing

import (
	"voxelworld/internal/world"
)

// TextureKey names one tile of the block atlas.
type TextureKey int

const (
	TextureGrassTop TextureKey = iota
	TextureGrassSide
	TextureDirt
	TextureStone
	TextureDeepslate
	TextureBedrock
	TextureSand
	TextureCobblestone
	TextureOakPlanks
	TextureOakLog
	TextureOakLeaves
	TextureGlass
	TextureCoalOre
	TextureIronOre
	TextureGoldOre
	TextureDiamondOre
	TextureDeepslateCoalOre
	TextureDeepslateIronOre
	TextureDeepslateGoldOre
	TextureDeepslateDiamondOre
	TextureWater

	textureKeyCount
)

var textureNames = [textureKeyCount]string{
	"grass_top", "grass_side", "dirt", "stone", "deepslate", "bedrock", "sand",
	"cobblestone", "oak_planks", "oak_log", "oak_leaves", "glass",
	"coal_ore", "iron_ore", "gold_ore", "diamond_ore",
	"deepslate_coal_ore", "deepslate_iron_ore", "deepslate_gold_ore", "deepslate_diamond_ore",
	"water",
}

func (k TextureKey) String() string {
	if k < 0 || k >= textureKeyCount {
		return "unknown"
	}
	return textureNames[k]
}

// TextureKeys returns every tile in atlas order.
func TextureKeys() []TextureKey {
	keys := make([]TextureKey, textureKeyCount)
	for i := range keys {
		keys[i] = TextureKey(i)
	}
	return keys
}

// TextureKeyFor picks the tile drawn on one face of a block. Blocks without
// their own tile share the closest one; anything else falls back to stone.
func TextureKeyFor(b world.BlockType, face world.BlockFace) TextureKey {
	switch b {
	case world.BlockTypeGrass:
		switch face {
		case world.FaceTop:
			return TextureGrassTop
		case world.FaceBottom:
			return TextureDirt
		default:
			return TextureGrassSide
		}
	case world.BlockTypeDirt, world.BlockTypeCoarseDirt, world.BlockTypeRootedDirt, world.BlockTypePodzol:
		return TextureDirt
	case world.BlockTypeStone, world.BlockTypeGranite, world.BlockTypeDiorite, world.BlockTypeAndesite:
		return TextureStone
	case world.BlockTypeDeepslate, world.BlockTypeCalcite, world.BlockTypeTuff:
		return TextureDeepslate
	case world.BlockTypeBedrock:
		return TextureBedrock
	case world.BlockTypeSand, world.BlockTypeRedSand:
		return TextureSand
	case world.BlockTypeCobblestone, world.BlockTypeMossyCobblestone, world.BlockTypeStoneBricks,
		world.BlockTypeSmoothStone, world.BlockTypeSandstone, world.BlockTypeRedSandstone, world.BlockTypeBricks:
		return TextureCobblestone
	case world.BlockTypeOakPlanks, world.BlockTypeSprucePlanks, world.BlockTypeBirchPlanks:
		return TextureOakPlanks
	case world.BlockTypeOakLog, world.BlockTypeSpruceLog, world.BlockTypeBirchLog,
		world.BlockTypeJungleLog, world.BlockTypeAcaciaLog, world.BlockTypeDarkOakLog:
		return TextureOakLog
	case world.BlockTypeOakLeaves:
		return TextureOakLeaves
	case world.BlockTypeGlass, world.BlockTypeWhiteStainedGlass:
		return TextureGlass
	case world.BlockTypeWater:
		return TextureWater
	case world.BlockTypeCoalOre:
		return TextureCoalOre
	case world.BlockTypeIronOre:
		return TextureIronOre
	case world.BlockTypeGoldOre:
		return TextureGoldOre
	case world.BlockTypeDiamondOre:
		return TextureDiamondOre
	case world.BlockTypeDeepslateCoalOre:
		return TextureDeepslateCoalOre
	case world.BlockTypeDeepslateIronOre:
		return TextureDeepslateIronOre
	case world.BlockTypeDeepslateGoldOre:
		return TextureDeepslateGoldOre
	case world.BlockTypeDeepslateDiamondOre:
		return TextureDeepslateDiamondOre
	default:
		return TextureStone
	}
}

// GridAtlas lays tiles out row by row on a fixed grid, at most six per row.
// It only computes coordinates; pixels belong to the renderer.
type GridAtlas struct {
	tileSize int
	columns  int
	rows     int
}

// NewGridAtlas returns the layout for square tiles of tileSize pixels.
func NewGridAtlas(tileSize int) *GridAtlas {
	count := int(textureKeyCount)
	columns := max(min(count, 6), 1)
	rows := (count + columns - 1) / columns
	return &GridAtlas{tileSize: max(tileSize, 1), columns: columns, rows: rows}
}

// Size returns the atlas dimensions in pixels.
func (a *GridAtlas) Size() (width, height int) {
	return a.columns * a.tileSize, a.rows * a.tileSize
}

// TileOrigin returns the pixel position of a tile's top-left corner.
func (a *GridAtlas) TileOrigin(k TextureKey) (x, y int) {
	if k < 0 || k >= textureKeyCount {
		k = TextureStone
	}
	i := int(k)
	return (i % a.columns) * a.tileSize, (i / a.columns) * a.tileSize
}

// Rect returns the full UV rectangle of a tile.
func (a *GridAtlas) Rect(k TextureKey) UVRect {
	w, h := a.Size()
	x, y := a.TileOrigin(k)
	return UVRect{
		UMin: float32(x) / float32(w),
		VMin: float32(y) / float32(h),
		UMax: float32(x+a.tileSize) / float32(w),
		VMax: float32(y+a.tileSize) / float32(h),
	}
}

func (a *GridAtlas) UV(b world.BlockType, face world.BlockFace) UVRect {
	return a.Rect(TextureKeyFor(b, face))
}

func (a *GridAtlas) TexelSize() (u, v float32) {
	w, h := a.Size()
	return 1 / float32(w), 1 / float32(h)
}
