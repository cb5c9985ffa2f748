package engine

import "math/rand/v2"

// Source supplies the uniform draws used by sampled search.
// Tests can inject a scripted sequence.
type Source interface {
	IntN(n int) int
}

// NewSource returns a seeded PCG source. Equal seeds give equal move streams.
func NewSource(seed uint64) Source {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
