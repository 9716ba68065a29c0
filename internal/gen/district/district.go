// Package district assembles a rooftop district: a rectangular lattice of
// blocks chosen deterministically per cell, snapped to their neighbors, and
// populated through the content generator. Rebuilding with the same config
// and seed reproduces the district byte for byte.
package district

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"sort"

	"blockforge.dev/internal/gen/blocks"
	"blockforge.dev/internal/gen/catalogs"
	"blockforge.dev/internal/gen/content"
	"blockforge.dev/internal/gen/grid"
	"blockforge.dev/internal/gen/mathx"
	"blockforge.dev/internal/gen/tuning"
)

// Config describes one district to assemble.
type Config struct {
	ID      string         `json:"id"`
	Seed    int64          `json:"seed"`
	Width   int            `json:"width"` // lattice cells along x
	Depth   int            `json:"depth"` // lattice cells along z
	Faction blocks.Faction `json:"faction,omitempty"`
}

// District is one assembled result. Blocks come in row-major cell order;
// Spawns concatenate each block's generation output in the same order.
type District struct {
	ID      string             `json:"id"`
	Seed    int64              `json:"seed"`
	Width   int                `json:"width"`
	Depth   int                `json:"depth"`
	Faction blocks.Faction     `json:"faction,omitempty"`
	Blocks  []*blocks.Instance `json:"blocks"`
	Spawns  []content.Spawn    `json:"spawns"`
	// SpawnCounts[i] is how many entries of Spawns belong to Blocks[i].
	SpawnCounts []int  `json:"spawn_counts"`
	Digest      string `json:"digest"`
}

// Assembler builds districts from loaded catalogs. It only reads its inputs,
// so one Assembler may serve concurrent callers.
type Assembler struct {
	cats *catalogs.Catalogs
	gen  *content.Generator
	tune tuning.Tuning

	// category pick table, sorted for a stable weighted order
	weighted []weightedCat
}

type weightedCat struct {
	cat    blocks.Category
	weight int
}

// New returns an assembler over the given catalogs and tuning.
func New(cats *catalogs.Catalogs, tune tuning.Tuning) *Assembler {
	a := &Assembler{
		cats: cats,
		gen:  content.NewGenerator(cats.Content.Catalog),
		tune: tune,
	}
	names := make([]string, 0, len(tune.CategoryWeights))
	for name, w := range tune.CategoryWeights {
		if w > 0 {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for _, name := range names {
		a.weighted = append(a.weighted, weightedCat{cat: blocks.Category(name), weight: tune.CategoryWeights[name]})
	}
	return a
}

// Assemble builds one district. It fails only on invalid config; cells whose
// category has no block pool are left empty, never fatal.
func (a *Assembler) Assemble(cfg Config) (*District, error) {
	if cfg.Width <= 0 || cfg.Depth <= 0 {
		return nil, fmt.Errorf("district %q: non-positive size %dx%d", cfg.ID, cfg.Width, cfg.Depth)
	}
	if cfg.Width > a.tune.MaxDistrictWidth || cfg.Depth > a.tune.MaxDistrictDepth {
		return nil, fmt.Errorf("district %q: size %dx%d exceeds limit %dx%d",
			cfg.ID, cfg.Width, cfg.Depth, a.tune.MaxDistrictWidth, a.tune.MaxDistrictDepth)
	}
	if len(a.weighted) == 0 {
		return nil, fmt.Errorf("district %q: no category weights configured", cfg.ID)
	}

	d := &District{
		ID:      cfg.ID,
		Seed:    cfg.Seed,
		Width:   cfg.Width,
		Depth:   cfg.Depth,
		Faction: cfg.Faction,
	}

	// Row-major placement; every per-cell decision hangs off (seed, gx, gz).
	cells := make(map[[2]int]*blocks.Instance, cfg.Width*cfg.Depth)
	for gz := 0; gz < cfg.Depth; gz++ {
		for gx := 0; gx < cfg.Width; gx++ {
			def := a.selectBlock(cfg.Seed, gx, gz)
			if def == nil {
				continue
			}
			in := &blocks.Instance{
				ID:              fmt.Sprintf("blk_%d_%d", gx, gz),
				Def:             def,
				TypeID:          def.TypeID,
				Position:        grid.ToWorld(grid.Cell{X: gx, Z: gz}),
				Rotation:        int(mathx.Hash2(cfg.Seed+1, gx, gz)%4) * 90,
				Connections:     map[string]string{},
				Seed:            blocks.LocationSeed(cfg.Seed, gx, gz),
				FactionOverride: cfg.Faction,
			}
			cells[[2]int{gx, gz}] = in
			d.Blocks = append(d.Blocks, in)
		}
	}

	// Snap neighbors along +x and +z so every adjacent pair is visited once.
	for gz := 0; gz < cfg.Depth; gz++ {
		for gx := 0; gx < cfg.Width; gx++ {
			in := cells[[2]int{gx, gz}]
			if in == nil {
				continue
			}
			if east := cells[[2]int{gx + 1, gz}]; east != nil {
				a.connect(in, east, blocks.DirEast)
			}
			if south := cells[[2]int{gx, gz + 1}]; south != nil {
				a.connect(in, south, blocks.DirSouth)
			}
		}
	}

	for _, in := range d.Blocks {
		rot := float64(in.Rotation) * math.Pi / 180
		spawns := a.gen.Generate(in.Def, in.Position, rot, in.Seed, in.FactionOverride)
		d.Spawns = append(d.Spawns, spawns...)
		d.SpawnCounts = append(d.SpawnCounts, len(spawns))
	}

	d.Digest = spawnDigest(d.Spawns)
	return d, nil
}

// selectBlock picks a category by weighted cell hash, then a definition from
// that category's pool. A category without a pool yields an empty cell.
func (a *Assembler) selectBlock(seed int64, gx, gz int) *blocks.Definition {
	total := 0
	for _, wc := range a.weighted {
		total += wc.weight
	}
	roll := int(mathx.Hash2(seed, gx, gz) % uint64(total))
	var cat blocks.Category
	for _, wc := range a.weighted {
		if roll < wc.weight {
			cat = wc.cat
			break
		}
		roll -= wc.weight
	}
	return blocks.SelectFromPool(a.cats.Blocks.Pools[cat], seed, gx, gz)
}

// connect records the first compatible snap pair between two neighbors, on
// both instances. dir is the facing from a toward b, before rotation.
func (a *Assembler) connect(ia, ib *blocks.Instance, dir blocks.Direction) {
	back := blocks.Opposite(dir)
	for _, sa := range ia.Def.SnapPoints {
		if rotateDir(sa.Dir, ia.Rotation) != dir {
			continue
		}
		for _, sb := range ib.Def.SnapPoints {
			if rotateDir(sb.Dir, ib.Rotation) != back {
				continue
			}
			rsa, rsb := sa, sb
			rsa.Dir = rotateDir(sa.Dir, ia.Rotation)
			rsb.Dir = rotateDir(sb.Dir, ib.Rotation)
			if !blocks.CanConnect(rsa, rsb, a.tune.SnapTolerance) {
				continue
			}
			ia.Connections[sa.ID] = ib.ID
			ib.Connections[sb.ID] = ia.ID
			return
		}
	}
}

var clockwise = map[blocks.Direction]blocks.Direction{
	blocks.DirNorth: blocks.DirEast,
	blocks.DirEast:  blocks.DirSouth,
	blocks.DirSouth: blocks.DirWest,
	blocks.DirWest:  blocks.DirNorth,
	blocks.DirUp:    blocks.DirUp,
	blocks.DirDown:  blocks.DirDown,
}

func rotateDir(d blocks.Direction, degrees int) blocks.Direction {
	for i := 0; i < mathx.Mod(degrees, 360)/90; i++ {
		d = clockwise[d]
	}
	return d
}

// spawnDigest hashes the canonical JSON of a spawn list. Two districts with
// equal digests have byte-identical spawn output.
func spawnDigest(spawns []content.Spawn) string {
	b, _ := json.Marshal(spawns)
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
