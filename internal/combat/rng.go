package combat

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
)

// RandomSource supplies the rolls used by the resolver and policies.
// *math/rand.Rand satisfies it; tests inject scripted sources.
type RandomSource interface {
	// Intn returns a uniform integer in [0, n).
	Intn(n int) int
}

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// NewRand returns a generator for one battle. A zero seed draws a fresh one.
func NewRand(seed int64) (*rand.Rand, error) {
	if seed == 0 {
		s, err := NewSeed()
		if err != nil {
			return nil, err
		}
		seed = s
	}
	return rand.New(rand.NewSource(seed)), nil
}

// roll returns a uniform integer in [1, sides].
func roll(rng RandomSource, sides int) int {
	return rng.Intn(sides) + 1
}
