// Package rng is the only randomness source in the generation pipeline.
// It is a plain 32-bit linear congruential generator: the same seed always
// yields the same sequence, on every platform. That reproducibility (not
// statistical quality) is the contract everything downstream relies on.
package rng

// Numerical Recipes LCG constants.
const (
	lcgMul = 1664525
	lcgAdd = 1013904223
)

// Source is a deterministic random stream. Methods mutate only the
// receiver's own state; two Sources never share state.
type Source struct {
	state uint32
}

// New returns a Source seeded with the low 32 bits of seed.
func New(seed int64) *Source {
	return &Source{state: uint32(seed)}
}

// Next steps the generator and returns a value in [0, 1).
func (s *Source) Next() float64 {
	s.state = s.state*lcgMul + lcgAdd
	return float64(s.state) / (1 << 32)
}

// IntBetween returns an integer in the closed range [min, max].
// It always consumes exactly one draw, even for a degenerate range
// (max < min returns min), so callers stay sequence-stable.
func (s *Source) IntBetween(min, max int) int {
	v := s.Next()
	span := max - min + 1
	if span <= 0 {
		return min
	}
	return min + int(v*float64(span))
}

// Pick returns a uniformly chosen element. An empty slice is a programmer
// error and panics.
func Pick[T any](s *Source, items []T) T {
	return items[s.IntBetween(0, len(items)-1)]
}

// Shuffle returns a new shuffled slice; the input is left untouched.
func Shuffle[T any](s *Source, items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	for i := len(out) - 1; i > 0; i-- {
		j := s.IntBetween(0, i)
		out[i], out[j] = out[j], out[i]
	}
	return out
}
