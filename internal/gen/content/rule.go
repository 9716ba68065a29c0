// Package content turns declarative placement rules into concrete component
// spawns. Everything here is pure: a spawn list is a function of
// (definition, position, rotation, seed, faction) and nothing else.
package content

import "blockforge.dev/internal/gen/blocks"

// Zone names a region of a block's footprint that the calculator maps to a
// position formula.
type Zone string

const (
	ZoneCenter     Zone = "center"
	ZoneEdgeNorth  Zone = "edge_north"
	ZoneEdgeSouth  Zone = "edge_south"
	ZoneEdgeEast   Zone = "edge_east"
	ZoneEdgeWest   Zone = "edge_west"
	ZoneCornerNW   Zone = "corner_nw"
	ZoneCornerNE   Zone = "corner_ne"
	ZoneCornerSW   Zone = "corner_sw"
	ZoneCornerSE   Zone = "corner_se"
	ZonePerimeter  Zone = "perimeter"
	ZoneInterior   Zone = "interior"
	ZoneScattered  Zone = "scattered"
	ZoneWallNorth  Zone = "wall_north"
	ZoneWallSouth  Zone = "wall_south"
	ZoneWallEast   Zone = "wall_east"
	ZoneWallWest   Zone = "wall_west"
	ZoneRoof       Zone = "roof"
)

// ValidZone reports whether z is a known placement zone.
func ValidZone(z Zone) bool {
	switch z {
	case ZoneCenter, ZoneEdgeNorth, ZoneEdgeSouth, ZoneEdgeEast, ZoneEdgeWest,
		ZoneCornerNW, ZoneCornerNE, ZoneCornerSW, ZoneCornerSE,
		ZonePerimeter, ZoneInterior, ZoneScattered,
		ZoneWallNorth, ZoneWallSouth, ZoneWallEast, ZoneWallWest, ZoneRoof:
		return true
	}
	return false
}

// RotationMode decides how a spawn's rotation is resolved.
type RotationMode string

const (
	RotFixed      RotationMode = "fixed"
	RotRandom     RotationMode = "random"
	RotFaceCenter RotationMode = "face_center"
	RotFaceOut    RotationMode = "face_out"
)

// ValidRotationMode reports whether m is a known rotation mode.
func ValidRotationMode(m RotationMode) bool {
	switch m {
	case RotFixed, RotRandom, RotFaceCenter, RotFaceOut:
		return true
	}
	return false
}

// Rule is one declarative placement directive.
//
// Probability is a pointer so "unset" and "explicitly 1" stay distinct: a set
// probability consumes one RNG draw even when it always passes, and that draw
// is part of the reproducible sequence.
type Rule struct {
	Component       string            `json:"component"`
	Count           [2]int            `json:"count"`
	Placement       Zone              `json:"placement"`
	Props           map[string]any    `json:"props,omitempty"`
	Probability     *float64          `json:"probability,omitempty"`
	FactionRequired blocks.Faction    `json:"faction_required,omitempty"`
	FactionExcluded []blocks.Faction  `json:"faction_excluded,omitempty"`
	TagsRequired    []string          `json:"tags_required,omitempty"`
	Spacing         float64           `json:"spacing,omitempty"` // 0 means default 1
	YOffset         float64           `json:"y_offset,omitempty"`
	Rotation        RotationMode      `json:"rotation,omitempty"` // "" means fixed
}

// Structure names the structural pieces of a block's content.
type Structure struct {
	Floor string   `json:"floor,omitempty"`
	Walls []string `json:"walls,omitempty"`
	Roof  string   `json:"roof,omitempty"`
}

// FactionVariant is an additive overlay applied when the effective faction
// matches. Variants only ever add rules, they never replace base ones.
type FactionVariant struct {
	Props       []Rule `json:"props,omitempty"`
	Decoration  []Rule `json:"decoration,omitempty"`
	ColorScheme string `json:"color_scheme,omitempty"`
}

// Definition binds a block category (optionally one specific block type) to
// its structure and ordered rule lists.
type Definition struct {
	Category        blocks.Category                    `json:"category"`
	BlockTypeID     string                             `json:"block_type_id,omitempty"`
	Structure       Structure                          `json:"structure"`
	Props           []Rule                             `json:"props,omitempty"`
	Decoration      []Rule                             `json:"decoration,omitempty"`
	Lighting        []Rule                             `json:"lighting,omitempty"`
	FactionVariants map[blocks.Faction]*FactionVariant `json:"faction_variants,omitempty"`
}
