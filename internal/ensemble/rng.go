package ensemble

import "math/rand"

// deriveSeed mixes a master seed and a stream id (here, the chain index)
// into an independent 64-bit seed using a SplitMix64-style avalanche
// mix, so that per-chain RNGs are reproducible from one master seed
// regardless of which goroutine a chain is dispatched to (spec §5's
// determinism note: "full determinism requires per-chain seeds derived
// from a master seed, not a shared RNG").
func deriveSeed(master int64, stream uint64) int64 {
	x := uint64(master) ^ (stream + 0x9e3779b97f4a7c15)
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	x ^= x >> 31

	return int64(x)
}

// chainRNG returns the dedicated *rand.Rand for chain index i under
// masterSeed.
func chainRNG(masterSeed int64, i int) *rand.Rand {
	return rand.New(rand.NewSource(deriveSeed(masterSeed, uint64(i))))
}
