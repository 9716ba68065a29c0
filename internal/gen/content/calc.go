package content

import (
	"blockforge.dev/internal/gen/blocks"
	"blockforge.dev/internal/gen/grid"
	"blockforge.dev/internal/gen/rng"
)

const (
	// placeAttempts caps spacing retries. The spacing constraint is soft:
	// once the cap is hit the candidate is accepted regardless.
	placeAttempts = 10

	defaultSpacing = 1.0
	edgeMargin     = 0.5
	interiorMargin = 1.0
	cornerInset    = 1.0
	cornerJitter   = 1.5
)

// SpawnPositions turns one rule into 0..N world positions inside a block.
// The result is a pure function of (rule, dims, blockPos, seed); positions
// come back in acceptance order and there are never more than Count[1].
func SpawnPositions(rule Rule, dims blocks.Dimensions, blockPos grid.Vec3, seed int64) []grid.Vec3 {
	src := rng.New(seed)

	count := src.IntBetween(rule.Count[0], rule.Count[1])
	if count <= 0 {
		return nil
	}
	// One gate draw for the whole rule, not per instance.
	if rule.Probability != nil && src.Next() > *rule.Probability {
		return nil
	}

	spacing := rule.Spacing
	if spacing <= 0 {
		spacing = defaultSpacing
	}

	out := make([]grid.Vec3, 0, count)
	for i := 0; i < count; i++ {
		pos := worldPos(src, rule, dims, blockPos, i)
		if len(out) > 0 {
			for attempt := 0; attempt < placeAttempts && tooClose(pos, out, spacing); attempt++ {
				pos = worldPos(src, rule, dims, blockPos, i)
			}
		}
		out = append(out, pos)
	}
	return out
}

func tooClose(pos grid.Vec3, accepted []grid.Vec3, spacing float64) bool {
	for _, a := range accepted {
		if pos.DistXZ(a) < spacing {
			return true
		}
	}
	return false
}

func worldPos(src *rng.Source, rule Rule, dims blocks.Dimensions, blockPos grid.Vec3, index int) grid.Vec3 {
	x, z := zoneOffset(src, rule.Placement, dims, index)
	return grid.Vec3{
		X: blockPos.X + x,
		Y: blockPos.Y + rule.YOffset,
		Z: blockPos.Z + z,
	}
}

// zoneOffset produces a block-local (x, z) offset for a placement zone.
// Block-local space is centered on the block: x spans [-w/2, w/2], z spans
// [-d/2, d/2], north is -z, east is +x. Offsets are world-aligned; block
// rotation is deliberately not applied here.
func zoneOffset(src *rng.Source, zone Zone, dims blocks.Dimensions, index int) (x, z float64) {
	halfW := dims.Width / 2
	halfD := dims.Depth / 2

	switch zone {
	case ZoneCenter:
		// Drift grows with the instance index. Not pinned to the literal
		// center; kept for output compatibility.
		x = (src.Next() - 0.5) * 2 * float64(index)
		z = (src.Next() - 0.5) * 2 * float64(index)

	case ZoneEdgeNorth:
		x = spanUniform(src, dims.Width, edgeMargin)
		z = -halfD + edgeMargin
	case ZoneEdgeSouth:
		x = spanUniform(src, dims.Width, edgeMargin)
		z = halfD - edgeMargin
	case ZoneEdgeEast:
		x = halfW - edgeMargin
		z = spanUniform(src, dims.Depth, edgeMargin)
	case ZoneEdgeWest:
		x = -halfW + edgeMargin
		z = spanUniform(src, dims.Depth, edgeMargin)

	case ZoneCornerNW:
		x = -halfW + cornerInset + src.Next()*cornerJitter
		z = -halfD + cornerInset + src.Next()*cornerJitter
	case ZoneCornerNE:
		x = halfW - cornerInset - src.Next()*cornerJitter
		z = -halfD + cornerInset + src.Next()*cornerJitter
	case ZoneCornerSW:
		x = -halfW + cornerInset + src.Next()*cornerJitter
		z = halfD - cornerInset - src.Next()*cornerJitter
	case ZoneCornerSE:
		x = halfW - cornerInset - src.Next()*cornerJitter
		z = halfD - cornerInset - src.Next()*cornerJitter

	case ZonePerimeter:
		switch src.IntBetween(0, 3) {
		case 0: // north
			x = spanUniform(src, dims.Width, edgeMargin)
			z = -halfD + edgeMargin
		case 1: // south
			x = spanUniform(src, dims.Width, edgeMargin)
			z = halfD - edgeMargin
		case 2: // east
			x = halfW - edgeMargin
			z = spanUniform(src, dims.Depth, edgeMargin)
		default: // west
			x = -halfW + edgeMargin
			z = spanUniform(src, dims.Depth, edgeMargin)
		}

	case ZoneRoof:
		x = -halfW + src.Next()*dims.Width
		z = -halfD + src.Next()*dims.Depth

	default:
		// interior, scattered, and every wall_* zone. Wall zones are not yet
		// constrained to their wall surface; they intentionally share the
		// interior formula until wall mounting is specified.
		x = spanUniform(src, dims.Width, interiorMargin)
		z = spanUniform(src, dims.Depth, interiorMargin)
	}
	return x, z
}

// spanUniform draws uniformly over a centered span minus a margin on each end.
func spanUniform(src *rng.Source, span, margin float64) float64 {
	return -span/2 + margin + src.Next()*(span-2*margin)
}
