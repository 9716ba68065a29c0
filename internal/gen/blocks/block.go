// Package blocks holds the static block catalog model: block definitions with
// their snap points, placed block instances, and deterministic pool selection.
package blocks

import "blockforge.dev/internal/gen/grid"

// Category groups block definitions into selection pools and keys the
// content-rule lookup.
type Category string

const (
	CatShelter Category = "rtb_shelter"
	CatWalkway Category = "rtb_walkway"
	CatGarden  Category = "rtb_garden"
	CatLanding Category = "rtb_landing"
	CatMarket  Category = "rtb_market"
)

// Faction is a thematic affinity tag. It can add extra content rules and
// color variants to a block, never remove base ones.
type Faction string

const (
	FactionNone    Faction = ""
	FactionKurenai Faction = "kurenai"
	FactionAoi     Faction = "aoi"
	FactionRonin   Faction = "ronin"
)

// Dimensions is a block's footprint and height in world units.
type Dimensions struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Depth  float64 `json:"depth"`
}

// Definition is one entry of the block catalog. Definitions are built once at
// catalog load and never mutated; instances reference them, they never own
// them.
type Definition struct {
	TypeID     string      `json:"type_id"`
	Name       string      `json:"name"`
	Category   Category    `json:"category"`
	Faction    Faction     `json:"faction,omitempty"`
	GridSize   [2]int      `json:"grid_size"`
	Dims       Dimensions  `json:"dimensions"`
	SnapPoints []SnapPoint `json:"snap_points,omitempty"`
	DebugColor string      `json:"debug_color,omitempty"`
	Tags       []string    `json:"tags,omitempty"`
}

// HasTag reports whether the definition carries the given tag.
func (d *Definition) HasTag(tag string) bool {
	for _, t := range d.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Instance is a block placed in the world. Connections is filled in as
// neighbors snap to it and maps this instance's snap point IDs to the
// neighbor's instance ID.
type Instance struct {
	ID              string            `json:"id"`
	Def             *Definition       `json:"-"`
	TypeID          string            `json:"type_id"`
	Position        grid.Vec3         `json:"position"`
	Rotation        int               `json:"rotation"` // degrees, one of 0/90/180/270
	Connections     map[string]string `json:"connections,omitempty"`
	Seed            int64             `json:"seed"`
	FactionOverride Faction           `json:"faction_override,omitempty"`
}

// EffectiveFaction is the instance override when set, else the definition's.
func (in *Instance) EffectiveFaction() Faction {
	if in.FactionOverride != FactionNone {
		return in.FactionOverride
	}
	return in.Def.Faction
}
