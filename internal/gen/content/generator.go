package content

import (
	"math"

	"blockforge.dev/internal/gen/blocks"
	"blockforge.dev/internal/gen/grid"
	"blockforge.dev/internal/gen/rng"
)

// Spawn is one fully resolved placement instruction: what to instantiate,
// where, facing which way, with which derived seed. Immutable once produced.
type Spawn struct {
	Component string         `json:"component"`
	Position  grid.Vec3      `json:"position"`
	Rotation  float64        `json:"rotation"` // radians
	Props     map[string]any `json:"props,omitempty"`
	Seed      int64          `json:"seed"`
}

// Generator resolves content definitions and emits spawn lists. It only ever
// reads the catalog, so one Generator may serve concurrent callers.
type Generator struct {
	catalog *Catalog
}

// NewGenerator returns a generator reading from the given catalog.
func NewGenerator(c *Catalog) *Generator {
	return &Generator{catalog: c}
}

// Generate produces the full spawn list for one block placement.
//
// Rule lists run in fixed order (props, decoration, lighting, then the
// faction variant's props and decoration). Each rule's calculator seed is the
// call seed plus the number of spawns already emitted, so later rules depend
// on how much everything before them produced; rotation and per-spawn seeds
// come from a single generator-local stream seeded with the call seed. Both
// couplings are part of the reproducibility contract.
func (g *Generator) Generate(def *blocks.Definition, blockPos grid.Vec3, blockRot float64, seed int64, factionOverride blocks.Faction) []Spawn {
	cd := g.catalog.ContentFor(def)
	if cd == nil {
		return nil
	}

	faction := factionOverride
	if faction == blocks.FactionNone {
		faction = def.Faction
	}

	local := rng.New(seed)
	var out []Spawn

	runRules := func(rules []Rule) {
		for _, rule := range rules {
			if skipRule(rule, def, faction) {
				continue
			}
			positions := SpawnPositions(rule, def.Dims, blockPos, seed+int64(len(out)))
			for _, pos := range positions {
				out = append(out, Spawn{
					Component: rule.Component,
					Position:  pos,
					Rotation:  resolveRotation(rule.Rotation, blockRot, blockPos, pos, local),
					Props:     copyProps(rule.Props),
					Seed:      int64(local.IntBetween(0, math.MaxInt32)),
				})
			}
		}
	}

	runRules(cd.Props)
	runRules(cd.Decoration)
	runRules(cd.Lighting)

	// Faction overlays are strictly additive.
	if variant, ok := cd.FactionVariants[faction]; ok && variant != nil {
		runRules(variant.Props)
		runRules(variant.Decoration)
	}
	return out
}

func skipRule(rule Rule, def *blocks.Definition, faction blocks.Faction) bool {
	if rule.FactionRequired != blocks.FactionNone && rule.FactionRequired != faction {
		return true
	}
	for _, f := range rule.FactionExcluded {
		if f == faction {
			return true
		}
	}
	for _, tag := range rule.TagsRequired {
		if !def.HasTag(tag) {
			return true
		}
	}
	return false
}

func resolveRotation(mode RotationMode, blockRot float64, blockPos, pos grid.Vec3, local *rng.Source) float64 {
	switch mode {
	case RotRandom:
		return float64(local.IntBetween(0, 359)) * math.Pi / 180
	case RotFaceCenter:
		return math.Atan2(blockPos.Z-pos.Z, blockPos.X-pos.X)
	case RotFaceOut:
		return -math.Atan2(blockPos.Z-pos.Z, blockPos.X-pos.X)
	default: // RotFixed and unset
		return blockRot
	}
}

func copyProps(props map[string]any) map[string]any {
	if props == nil {
		return nil
	}
	out := make(map[string]any, len(props))
	for k, v := range props {
		out[k] = v
	}
	return out
}
