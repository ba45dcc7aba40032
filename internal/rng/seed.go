// Package rng provides the seeded random source injected into the
// simulation so spawn and behaviour sequences can be replayed.
package rng

// Source implements a Mulberry32 seeded pseudo-random number generator.
// Produces deterministic sequences for reproducible runs.
type Source struct {
	state       uint32
	initialSeed uint32
}

// New creates a new seeded random source.
func New(seed uint32) *Source {
	return &Source{
		state:       seed,
		initialSeed: seed,
	}
}

// Seed returns the seed the source was created or last reseeded with.
func (r *Source) Seed() uint32 {
	return r.initialSeed
}

// SetSeed sets a new seed and resets the generator state.
func (r *Source) SetSeed(seed uint32) {
	r.state = seed
	r.initialSeed = seed
}

// Float64 returns the next number in [0, 1).
func (r *Source) Float64() float64 {
	r.state += 0x6D2B79F5
	t := r.state
	t = (t ^ (t >> 15)) * (t | 1)
	t ^= t + (t^(t>>7))*(t|61)
	return float64(t^(t>>14)) / 4294967296.0
}

// Intn returns an integer in [0, n). n must be positive.
func (r *Source) Intn(n int) int {
	return int(r.Float64() * float64(n))
}

// Range returns a float in [min, max).
func (r *Source) Range(min, max float64) float64 {
	return r.Float64()*(max-min) + min
}

// Centered returns a float in [-span/2, span/2), the (rand-0.5)*span idiom.
func (r *Source) Centered(span float64) float64 {
	return (r.Float64() - 0.5) * span
}

// Chance reports true with probability p.
func (r *Source) Chance(p float64) bool {
	return r.Float64() < p
}
