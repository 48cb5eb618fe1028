package common

import (
	"math/rand"
	"time"
)

// Rand is the source of randomness for font and size selection.
// *rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
}

// NewRand returns a generator seeded from seed. Generators are not safe for
// concurrent use; give each session its own.
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// NewTimeRand returns a generator seeded from the current time
func NewTimeRand() *rand.Rand {
	return NewRand(time.Now().UnixNano())
}

// IntRange returns a uniform integer in [lo, hi]
func IntRange(rng Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.Intn(hi-lo+1)
}
