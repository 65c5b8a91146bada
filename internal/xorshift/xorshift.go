// Package xorshift provides the small deterministic generator used to build
// magic numbers and Zobrist keys.
package xorshift

// DefaultSeed is used whenever a zero seed is supplied; xorshift never
// leaves the all-zero state.
const DefaultSeed uint64 = 0x98F107A2BEEF1234

// Rand is an xorshift64* generator. It is not safe for concurrent use.
type Rand struct {
	state uint64
}

// New returns a generator seeded with seed.
func New(seed uint64) *Rand {
	if seed == 0 {
		seed = DefaultSeed
	}
	return &Rand{state: seed}
}

// Uint64 returns the next value.
func (r *Rand) Uint64() uint64 {
	r.state ^= r.state >> 12
	r.state ^= r.state << 25
	r.state ^= r.state >> 27
	return r.state * 0x2545F4914F6CDD1D
}

// Sparse returns a value with roughly an eighth of its bits set, the shape
// that makes good magic multipliers.
func (r *Rand) Sparse() uint64 {
	return r.Uint64() & r.Uint64() & r.Uint64()
}
