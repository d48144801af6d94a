// Package randutil derives deterministic generators from a seed.
package randutil

import rand "math/rand/v2"

const (
	goldenRatio64 = 0x9e3779b97f4a7c15
)

// New returns a *rand.Rand seeded deterministically from the provided int64.
// Every game session shuffles from its own generator so that a seeded server
// replays identical deals.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

// Derive returns a seed for the n-th child of seed. Children of the same parent
// never share a stream.
func Derive(seed int64, n uint64) int64 {
	return int64(mix(uint64(seed) ^ mix(n*goldenRatio64+1)))
}

// Source hands out child generators derived from one parent seed.
// It is not safe for concurrent use.
type Source struct {
	seed int64
	next uint64
}

// NewSource creates a child generator source for seed
func NewSource(seed int64) *Source {
	return &Source{seed: seed}
}

// Seed returns the parent seed
func (s *Source) Seed() int64 {
	return s.seed
}

// Next returns the next child generator
func (s *Source) Next() *rand.Rand {
	s.next++
	return New(Derive(s.seed, s.next))
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
