// Package grid maps integer lattice cells to world space. Blocks sit on the
// lattice; everything inside a block works in continuous block-local space
// and never goes through this package.
package grid

import "math"

// UnitSize is the world-space edge length of one lattice cell.
const UnitSize = 8.0

// Vec3 is a world-space position.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// DistXZ returns the horizontal distance between two positions.
func (v Vec3) DistXZ(o Vec3) float64 {
	dx := v.X - o.X
	dz := v.Z - o.Z
	return math.Sqrt(dx*dx + dz*dz)
}

// Cell is an integer lattice coordinate.
type Cell struct {
	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z"`
}

// ToWorld returns the world-space origin of a cell.
func ToWorld(c Cell) Vec3 {
	return Vec3{
		X: float64(c.X) * UnitSize,
		Y: float64(c.Y) * UnitSize,
		Z: float64(c.Z) * UnitSize,
	}
}

// ToCell returns the cell containing a world position, flooring toward
// negative infinity on every axis.
func ToCell(v Vec3) Cell {
	return Cell{
		X: int(math.Floor(v.X / UnitSize)),
		Y: int(math.Floor(v.Y / UnitSize)),
		Z: int(math.Floor(v.Z / UnitSize)),
	}
}
