package game

import (
	"math/rand/v2"
	"time"
)

// NewRNG returns a PCG generator. A zero seed draws one from the clock so
// only explicitly seeded sessions are reproducible.
func NewRNG(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Shuffle permutes targets in place.
func Shuffle(rng *rand.Rand, targets []Target) {
	rng.Shuffle(len(targets), func(i, j int) {
		targets[i], targets[j] = targets[j], targets[i]
	})
}
