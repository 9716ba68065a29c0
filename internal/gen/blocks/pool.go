package blocks

import "blockforge.dev/internal/gen/rng"

// Spatial decorrelation multipliers. Changing them, or the order of a pool,
// changes every world generated from an existing seed.
const (
	poolHashX = 73856093
	poolHashZ = 19349663
)

// LocationSeed folds a lattice cell into the world seed. The same
// (seed, gx, gz) always yields the same location seed.
func LocationSeed(seed int64, gx, gz int) int64 {
	return seed ^ (int64(gx) * poolHashX) ^ (int64(gz) * poolHashZ)
}

// SelectFromPool deterministically picks one definition from a pool for the
// given lattice cell. Pool order is part of the determinism contract:
// reordering the pool changes the selection.
func SelectFromPool(pool []*Definition, seed int64, gx, gz int) *Definition {
	if len(pool) == 0 {
		return nil
	}
	src := rng.New(LocationSeed(seed, gx, gz))
	return rng.Pick(src, pool)
}
