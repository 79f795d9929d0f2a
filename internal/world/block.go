package world

import (
	"github.com/go-gl/mathgl/mgl32"
)

// BlockType is the persisted identifier of a block kind. Values are fixed
// forever: chunk files store them verbatim, so never renumber or reuse one.
type BlockType uint16

const (
	BlockTypeAir     BlockType = 0
	BlockTypeCaveAir BlockType = 1
	BlockTypeVoidAir BlockType = 2

	BlockTypeGrass          BlockType = 3
	BlockTypeDirt           BlockType = 4
	BlockTypeCoarseDirt     BlockType = 5
	BlockTypePodzol         BlockType = 6
	BlockTypeMycelium       BlockType = 7
	BlockTypeRootedDirt     BlockType = 8
	BlockTypeMud            BlockType = 9
	BlockTypeClay           BlockType = 10
	BlockTypeSand           BlockType = 11
	BlockTypeRedSand        BlockType = 12
	BlockTypeGravel         BlockType = 13
	BlockTypeStone          BlockType = 14
	BlockTypeGranite        BlockType = 15
	BlockTypeDiorite        BlockType = 16
	BlockTypeAndesite       BlockType = 17
	BlockTypeDeepslate      BlockType = 18
	BlockTypeCalcite        BlockType = 19
	BlockTypeTuff           BlockType = 20
	BlockTypeDripstoneBlock BlockType = 21

	BlockTypeCoalOre              BlockType = 81
	BlockTypeDeepslateCoalOre     BlockType = 82
	BlockTypeIronOre              BlockType = 83
	BlockTypeDeepslateIronOre     BlockType = 84
	BlockTypeCopperOre            BlockType = 85
	BlockTypeDeepslateCopperOre   BlockType = 86
	BlockTypeGoldOre              BlockType = 87
	BlockTypeDeepslateGoldOre     BlockType = 88
	BlockTypeRedstoneOre          BlockType = 89
	BlockTypeDeepslateRedstoneOre BlockType = 90
	BlockTypeEmeraldOre           BlockType = 91
	BlockTypeDeepslateEmeraldOre  BlockType = 92
	BlockTypeLapisOre             BlockType = 93
	BlockTypeDeepslateLapisOre    BlockType = 94
	BlockTypeDiamondOre           BlockType = 95
	BlockTypeDeepslateDiamondOre  BlockType = 96

	BlockTypeCobblestone      BlockType = 100
	BlockTypeMossyCobblestone BlockType = 101
	BlockTypeStoneBricks      BlockType = 102
	BlockTypeSmoothStone      BlockType = 106
	BlockTypeSandstone        BlockType = 109
	BlockTypeRedSandstone     BlockType = 112
	BlockTypeBricks           BlockType = 115

	BlockTypeOakLog       BlockType = 118
	BlockTypeSpruceLog    BlockType = 119
	BlockTypeBirchLog     BlockType = 120
	BlockTypeJungleLog    BlockType = 121
	BlockTypeAcaciaLog    BlockType = 122
	BlockTypeDarkOakLog   BlockType = 123
	BlockTypeOakLeaves    BlockType = 126
	BlockTypeOakPlanks    BlockType = 134
	BlockTypeSprucePlanks BlockType = 135
	BlockTypeBirchPlanks  BlockType = 136

	BlockTypeGlass             BlockType = 182
	BlockTypeWhiteStainedGlass BlockType = 183

	BlockTypeNetherrack   BlockType = 216
	BlockTypeNetherBricks BlockType = 217
	BlockTypeSoulSand     BlockType = 222
	BlockTypeObsidian     BlockType = 235
	BlockTypeBedrock      BlockType = 236

	BlockTypeWater BlockType = 237
	BlockTypeLava  BlockType = 238

	BlockTypeCraftingTable BlockType = 239
	BlockTypeFurnace       BlockType = 240
	BlockTypeChest         BlockType = 241
)

// HardnessUnbreakable marks blocks that can never be mined.
const HardnessUnbreakable float32 = -1

// DecodeBlock maps a raw persisted value to a block. Anything outside the
// catalog decodes to air so old or foreign chunk data still loads.
func DecodeBlock(raw uint16) BlockType {
	b := BlockType(raw)
	if !b.Known() {
		return BlockTypeAir
	}
	return b
}

// EncodeBlock returns the stable persisted value of b.
func EncodeBlock(b BlockType) uint16 {
	return uint16(b)
}

// Known reports whether b is part of the catalog.
func (b BlockType) Known() bool {
	return lookup(b) != nil
}

func (b BlockType) Name() string {
	if def := lookup(b); def != nil {
		return def.Name
	}
	return "unknown"
}

func (b BlockType) String() string {
	return b.Name()
}

func (b BlockType) IsSolid() bool {
	def := lookup(b)
	return def != nil && def.IsSolid
}

func (b BlockType) IsTransparent() bool {
	def := lookup(b)
	return def == nil || def.IsTransparent
}

func (b BlockType) IsLiquid() bool {
	def := lookup(b)
	return def != nil && def.IsLiquid
}

// Hardness is the mining cost of b; HardnessUnbreakable for bedrock.
func (b BlockType) Hardness() float32 {
	if def := lookup(b); def != nil {
		return def.Hardness
	}
	return 0
}

// Breakable reports whether b can be mined at all.
func (b BlockType) Breakable() bool {
	return b.Hardness() >= 0
}

// BaseColor returns the RGB tint of b in [0,1].
func (b BlockType) BaseColor() mgl32.Vec3 {
	if def := lookup(b); def != nil {
		return def.Color
	}
	return mgl32.Vec3{}
}

// BlockFace identifies a face of a block
type BlockFace int

const (
	FaceNorth  BlockFace = iota // +Z
	FaceSouth                   // -Z
	FaceEast                    // +X
	FaceWest                    // -X
	FaceTop                     // +Y
	FaceBottom                  // -Y
)

// AllFaces lists every face in mesh emission order.
var AllFaces = [6]BlockFace{FaceTop, FaceBottom, FaceNorth, FaceSouth, FaceEast, FaceWest}

var faceOffsets = [6][3]int{
	FaceNorth:  {0, 0, 1},
	FaceSouth:  {0, 0, -1},
	FaceEast:   {1, 0, 0},
	FaceWest:   {-1, 0, 0},
	FaceTop:    {0, 1, 0},
	FaceBottom: {0, -1, 0},
}

// Offset returns the neighbor step for the face direction.
func (f BlockFace) Offset() (dx, dy, dz int) {
	o := faceOffsets[f]
	return o[0], o[1], o[2]
}

// Normal returns the outward unit normal of the face.
func (f BlockFace) Normal() mgl32.Vec3 {
	o := faceOffsets[f]
	return mgl32.Vec3{float32(o[0]), float32(o[1]), float32(o[2])}
}

func (f BlockFace) String() string {
	switch f {
	case FaceNorth:
		return "north"
	case FaceSouth:
		return "south"
	case FaceEast:
		return "east"
	case FaceWest:
		return "west"
	case FaceTop:
		return "top"
	case FaceBottom:
		return "bottom"
	default:
		return "unknown"
	}
}
