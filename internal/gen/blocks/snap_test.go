package blocks

import (
	"testing"

	"blockforge.dev/internal/gen/grid"
)

func snap(id string, t SnapType, d Direction, w float64) SnapPoint {
	return SnapPoint{ID: id, Type: t, Dir: d, LocalPos: grid.Vec3{}, Width: w}
}

func TestCanConnectBasics(t *testing.T) {
	a := snap("a", SnapFloorEdge, DirNorth, 4)
	b := snap("b", SnapFloorEdge, DirSouth, 4)
	if !CanConnect(a, b, 0.5) {
		t.Fatal("opposed floor edges of equal width must connect")
	}

	// Same facing never connects.
	c := snap("c", SnapFloorEdge, DirNorth, 4)
	if CanConnect(a, c, 0.5) {
		t.Fatal("same-direction snaps must not connect")
	}

	// Width outside tolerance.
	wide := snap("w", SnapFloorEdge, DirSouth, 6)
	if CanConnect(a, wide, 0.5) {
		t.Fatal("width mismatch beyond tolerance must not connect")
	}
	if !CanConnect(a, wide, 2) {
		t.Fatal("width mismatch within tolerance must connect")
	}
}

func TestCanConnectVertical(t *testing.T) {
	top := snap("t", SnapConnector, DirUp, 2)
	bottom := snap("b", SnapConnector, DirDown, 2)
	if !CanConnect(top, bottom, 0.1) {
		t.Fatal("up/down connectors must connect")
	}
}

func TestCanConnectIsDirectional(t *testing.T) {
	// ramp_top accepts floor_edge, but floor_edge does not accept ramp_top:
	// the predicate is intentionally asymmetric.
	ramp := snap("r", SnapRampTop, DirNorth, 4)
	floor := snap("f", SnapFloorEdge, DirSouth, 4)
	if !CanConnect(ramp, floor, 0.5) {
		t.Fatal("ramp_top -> floor_edge must connect")
	}
	if CanConnect(floor, ramp, 0.5) {
		t.Fatal("floor_edge -> ramp_top must not connect")
	}
}

func TestWaterEdgeCompat(t *testing.T) {
	w := snap("w", SnapWaterEdge, DirEast, 8)
	if CanConnect(w, snap("f", SnapFloorEdge, DirWest, 8), 0.5) {
		t.Fatal("water_edge must not accept floor_edge")
	}
	if !CanConnect(w, snap("c", SnapConnector, DirWest, 8), 0.5) {
		t.Fatal("water_edge must accept connector")
	}
}

func TestValidators(t *testing.T) {
	if !ValidSnapType(SnapWallDoorway) || ValidSnapType("portal") {
		t.Fatal("ValidSnapType")
	}
	if !ValidDirection(DirUp) || ValidDirection("inward") {
		t.Fatal("ValidDirection")
	}
	if Opposite(DirEast) != DirWest || Opposite(DirDown) != DirUp {
		t.Fatal("Opposite")
	}
}
