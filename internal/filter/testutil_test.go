package filter_test

import "math/rand"

// deterministicRNG returns a fixed-seed RNG so test assertions are
// reproducible across runs.
func deterministicRNG() *rand.Rand {
	return rand.New(rand.NewSource(42))
}
