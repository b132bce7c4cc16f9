package util

import "math/rand"

// RNG struct encapsulates the random number generator and seed.
type RNG struct {
	rand *rand.Rand
	seed int64
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)), // nolint gosec
		seed: seed,
	}
}

// GenerateSortedKeys generates num strictly increasing int64 keys with
// random gaps of at most maxGap between neighbors.
func (r *RNG) GenerateSortedKeys(num int, maxGap int64) []int64 {
	keys := make([]int64, num)
	next := int64(0)
	for i := range keys {
		keys[i] = next
		next += 1 + r.rand.Int63n(maxGap)
	}

	return keys
}

// GenerateValues generates num random float64 values in [0, 1).
func (r *RNG) GenerateValues(num int) []float64 {
	values := make([]float64, num)
	for i := range values {
		values[i] = r.rand.Float64()
	}

	return values
}
