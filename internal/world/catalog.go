package world

import (
	"github.com/go-gl/mathgl/mgl32"
)

// BlockDefinition defines the properties of a block type
type BlockDefinition struct {
	ID            BlockType
	Name          string
	IsSolid       bool
	IsTransparent bool
	IsLiquid      bool
	Hardness      float32
	Color         mgl32.Vec3
}

var (
	defaultColor = mgl32.Vec3{0.7, 0.7, 0.7}

	// indexed by raw id; every defined id fits in a byte
	catalog [256]*BlockDefinition
)

func lookup(b BlockType) *BlockDefinition {
	if int(b) >= len(catalog) {
		return nil
	}
	return catalog[b]
}

// Definitions returns every registered block ordered by id.
func Definitions() []*BlockDefinition {
	defs := make([]*BlockDefinition, 0, 80)
	for _, def := range catalog {
		if def != nil {
			defs = append(defs, def)
		}
	}
	return defs
}

func registerBlock(def *BlockDefinition) {
	if catalog[def.ID] != nil {
		panic("world: duplicate block id " + def.Name)
	}
	catalog[def.ID] = def
}

// solid registers an opaque, solid block.
func solid(id BlockType, name string, hardness float32, color mgl32.Vec3) {
	registerBlock(&BlockDefinition{ID: id, Name: name, IsSolid: true, Hardness: hardness, Color: color})
}

func init() {
	registerBlock(&BlockDefinition{ID: BlockTypeAir, Name: "air", IsTransparent: true})
	registerBlock(&BlockDefinition{ID: BlockTypeCaveAir, Name: "cave_air", IsTransparent: true})
	registerBlock(&BlockDefinition{ID: BlockTypeVoidAir, Name: "void_air", IsTransparent: true})

	solid(BlockTypeGrass, "grass_block", 0.6, mgl32.Vec3{0.35, 0.65, 0.25})
	solid(BlockTypeDirt, "dirt", 0.5, mgl32.Vec3{0.55, 0.35, 0.2})
	solid(BlockTypeCoarseDirt, "coarse_dirt", 0.5, mgl32.Vec3{0.55, 0.35, 0.2})
	solid(BlockTypePodzol, "podzol", 0.5, defaultColor)
	solid(BlockTypeMycelium, "mycelium", 1.0, defaultColor)
	solid(BlockTypeRootedDirt, "rooted_dirt", 1.0, defaultColor)
	solid(BlockTypeMud, "mud", 1.0, defaultColor)
	solid(BlockTypeClay, "clay", 1.0, defaultColor)
	solid(BlockTypeSand, "sand", 0.5, mgl32.Vec3{0.9, 0.85, 0.6})
	solid(BlockTypeRedSand, "red_sand", 0.5, mgl32.Vec3{0.8, 0.5, 0.3})
	solid(BlockTypeGravel, "gravel", 0.6, defaultColor)
	solid(BlockTypeStone, "stone", 1.5, mgl32.Vec3{0.5, 0.5, 0.5})
	solid(BlockTypeGranite, "granite", 1.5, mgl32.Vec3{0.6, 0.4, 0.35})
	solid(BlockTypeDiorite, "diorite", 1.5, mgl32.Vec3{0.85, 0.85, 0.85})
	solid(BlockTypeAndesite, "andesite", 1.5, mgl32.Vec3{0.55, 0.55, 0.55})
	solid(BlockTypeDeepslate, "deepslate", 3.0, mgl32.Vec3{0.3, 0.3, 0.35})
	solid(BlockTypeCalcite, "calcite", 1.0, defaultColor)
	solid(BlockTypeTuff, "tuff", 1.0, defaultColor)
	solid(BlockTypeDripstoneBlock, "dripstone_block", 1.0, defaultColor)

	solid(BlockTypeCoalOre, "coal_ore", 3.0, mgl32.Vec3{0.4, 0.4, 0.4})
	solid(BlockTypeDeepslateCoalOre, "deepslate_coal_ore", 1.0, defaultColor)
	solid(BlockTypeIronOre, "iron_ore", 3.0, mgl32.Vec3{0.65, 0.6, 0.55})
	solid(BlockTypeDeepslateIronOre, "deepslate_iron_ore", 1.0, defaultColor)
	solid(BlockTypeCopperOre, "copper_ore", 1.0, defaultColor)
	solid(BlockTypeDeepslateCopperOre, "deepslate_copper_ore", 1.0, defaultColor)
	solid(BlockTypeGoldOre, "gold_ore", 3.0, mgl32.Vec3{0.9, 0.8, 0.3})
	solid(BlockTypeDeepslateGoldOre, "deepslate_gold_ore", 1.0, defaultColor)
	solid(BlockTypeRedstoneOre, "redstone_ore", 1.0, defaultColor)
	solid(BlockTypeDeepslateRedstoneOre, "deepslate_redstone_ore", 1.0, defaultColor)
	solid(BlockTypeEmeraldOre, "emerald_ore", 3.0, mgl32.Vec3{0.3, 0.8, 0.4})
	solid(BlockTypeDeepslateEmeraldOre, "deepslate_emerald_ore", 1.0, defaultColor)
	solid(BlockTypeLapisOre, "lapis_ore", 1.0, defaultColor)
	solid(BlockTypeDeepslateLapisOre, "deepslate_lapis_ore", 1.0, defaultColor)
	solid(BlockTypeDiamondOre, "diamond_ore", 3.0, mgl32.Vec3{0.4, 0.7, 0.8})
	solid(BlockTypeDeepslateDiamondOre, "deepslate_diamond_ore", 1.0, defaultColor)

	solid(BlockTypeCobblestone, "cobblestone", 2.0, mgl32.Vec3{0.45, 0.45, 0.45})
	solid(BlockTypeMossyCobblestone, "mossy_cobblestone", 2.0, defaultColor)
	solid(BlockTypeStoneBricks, "stone_bricks", 1.5, mgl32.Vec3{0.5, 0.5, 0.5})
	solid(BlockTypeSmoothStone, "smooth_stone", 1.0, defaultColor)
	solid(BlockTypeSandstone, "sandstone", 0.8, mgl32.Vec3{0.85, 0.8, 0.6})
	solid(BlockTypeRedSandstone, "red_sandstone", 0.8, mgl32.Vec3{0.75, 0.45, 0.3})
	solid(BlockTypeBricks, "bricks", 2.0, mgl32.Vec3{0.6, 0.3, 0.2})

	solid(BlockTypeOakLog, "oak_log", 2.0, mgl32.Vec3{0.4, 0.3, 0.2})
	solid(BlockTypeSpruceLog, "spruce_log", 2.0, mgl32.Vec3{0.3, 0.25, 0.2})
	solid(BlockTypeBirchLog, "birch_log", 2.0, mgl32.Vec3{0.85, 0.85, 0.8})
	solid(BlockTypeJungleLog, "jungle_log", 2.0, defaultColor)
	solid(BlockTypeAcaciaLog, "acacia_log", 2.0, defaultColor)
	solid(BlockTypeDarkOakLog, "dark_oak_log", 2.0, defaultColor)
	registerBlock(&BlockDefinition{
		ID:            BlockTypeOakLeaves,
		Name:          "oak_leaves",
		IsSolid:       true,
		IsTransparent: true,
		Hardness:      0.2,
		Color:         mgl32.Vec3{0.2, 0.6, 0.2},
	})
	solid(BlockTypeOakPlanks, "oak_planks", 2.0, mgl32.Vec3{0.65, 0.5, 0.3})
	solid(BlockTypeSprucePlanks, "spruce_planks", 2.0, mgl32.Vec3{0.45, 0.35, 0.25})
	solid(BlockTypeBirchPlanks, "birch_planks", 2.0, mgl32.Vec3{0.75, 0.7, 0.55})

	// Glass is solid for culling purposes but see-through
	registerBlock(&BlockDefinition{
		ID:            BlockTypeGlass,
		Name:          "glass",
		IsSolid:       true,
		IsTransparent: true,
		Hardness:      0.3,
		Color:         mgl32.Vec3{0.85, 0.95, 1.0},
	})
	registerBlock(&BlockDefinition{
		ID:            BlockTypeWhiteStainedGlass,
		Name:          "white_stained_glass",
		IsSolid:       true,
		IsTransparent: true,
		Hardness:      0.3,
		Color:         mgl32.Vec3{0.95, 0.95, 1.0},
	})

	solid(BlockTypeNetherrack, "netherrack", 0.4, mgl32.Vec3{0.6, 0.25, 0.25})
	solid(BlockTypeNetherBricks, "nether_bricks", 2.0, mgl32.Vec3{0.3, 0.15, 0.2})
	solid(BlockTypeSoulSand, "soul_sand", 0.5, mgl32.Vec3{0.35, 0.3, 0.25})
	solid(BlockTypeObsidian, "obsidian", 50.0, mgl32.Vec3{0.05, 0.05, 0.15})
	solid(BlockTypeBedrock, "bedrock", HardnessUnbreakable, mgl32.Vec3{0.2, 0.2, 0.2})

	registerBlock(&BlockDefinition{
		ID:            BlockTypeWater,
		Name:          "water",
		IsTransparent: true,
		IsLiquid:      true,
		Hardness:      1.0,
		Color:         mgl32.Vec3{0.1, 0.3, 0.8},
	})
	// Lava counts as solid
	registerBlock(&BlockDefinition{
		ID:            BlockTypeLava,
		Name:          "lava",
		IsSolid:       true,
		IsTransparent: true,
		IsLiquid:      true,
		Hardness:      1.0,
		Color:         mgl32.Vec3{0.9, 0.4, 0.1},
	})

	solid(BlockTypeCraftingTable, "crafting_table", 2.5, mgl32.Vec3{0.6, 0.45, 0.3})
	solid(BlockTypeFurnace, "furnace", 3.5, mgl32.Vec3{0.4, 0.4, 0.4})
	solid(BlockTypeChest, "chest", 2.5, mgl32.Vec3{0.55, 0.4, 0.25})
}
