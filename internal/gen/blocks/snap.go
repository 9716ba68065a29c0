package blocks

import (
	"math"

	"blockforge.dev/internal/gen/grid"
)

// SnapType classifies a connection interface on a block edge or surface.
type SnapType string

const (
	SnapFloorEdge   SnapType = "floor_edge"
	SnapWallDoorway SnapType = "wall_doorway"
	SnapRampTop     SnapType = "ramp_top"
	SnapRampBottom  SnapType = "ramp_bottom"
	SnapConnector   SnapType = "connector"
	SnapWaterEdge   SnapType = "water_edge"
)

// ValidSnapType reports whether t is a known snap type.
func ValidSnapType(t SnapType) bool {
	switch t {
	case SnapFloorEdge, SnapWallDoorway, SnapRampTop, SnapRampBottom, SnapConnector, SnapWaterEdge:
		return true
	}
	return false
}

// Direction is a snap point's facing.
type Direction string

const (
	DirNorth Direction = "north"
	DirSouth Direction = "south"
	DirEast  Direction = "east"
	DirWest  Direction = "west"
	DirUp    Direction = "up"
	DirDown  Direction = "down"
)

// ValidDirection reports whether d is a known direction.
func ValidDirection(d Direction) bool {
	_, ok := opposite[d]
	return ok
}

var opposite = map[Direction]Direction{
	DirNorth: DirSouth,
	DirSouth: DirNorth,
	DirEast:  DirWest,
	DirWest:  DirEast,
	DirUp:    DirDown,
	DirDown:  DirUp,
}

// Opposite returns the inverse facing of d.
func Opposite(d Direction) Direction {
	return opposite[d]
}

// SnapPoint is a declared connection interface on a block. Identity is
// (owning instance, ID); the definition owns its snap points exclusively.
type SnapPoint struct {
	ID       string    `json:"id"`
	Type     SnapType  `json:"type"`
	Dir      Direction `json:"direction"`
	LocalPos grid.Vec3 `json:"local_position"`
	Width    float64   `json:"width"`
	Height   float64   `json:"height,omitempty"`
	Required bool      `json:"required,omitempty"`
	Tags     []string  `json:"tags,omitempty"`
}

// snapTargets lists, per source snap type, the snap types it may connect to.
// The table is directional: a's allowed targets need not include a from b's
// side, so CanConnect is not symmetric (ramp_top accepts floor_edge, but
// floor_edge does not accept ramp_top).
var snapTargets = map[SnapType][]SnapType{
	SnapFloorEdge:   {SnapFloorEdge, SnapConnector},
	SnapWallDoorway: {SnapWallDoorway, SnapConnector},
	SnapRampTop:     {SnapFloorEdge},
	SnapRampBottom:  {SnapFloorEdge},
	SnapConnector:   {SnapFloorEdge, SnapWallDoorway, SnapConnector},
	SnapWaterEdge:   {SnapWaterEdge, SnapConnector},
}

// CanConnect reports whether a may connect to b: facings must be exact
// opposites, b's type must be an allowed target of a's type, and the widths
// must match within tolerance.
func CanConnect(a, b SnapPoint, tolerance float64) bool {
	if opposite[a.Dir] != b.Dir {
		return false
	}
	ok := false
	for _, t := range snapTargets[a.Type] {
		if t == b.Type {
			ok = true
			break
		}
	}
	if !ok {
		return false
	}
	return math.Abs(a.Width-b.Width) <= tolerance
}
