// Package random provides the uniform integer source used for dice draws.
package random

import (
	"math/rand/v2"
	"sync"
)

// Source draws uniformly distributed die faces. Implementations must be safe
// for concurrent use; sides is always positive.
type Source interface {
	// Roll returns a value in [1, sides].
	Roll(sides int64) int64
}

// Locked is a seeded PCG generator guarded by a mutex.
type Locked struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New creates a Locked source. The same seed yields the same draws.
func New(seed uint64) *Locked {
	return &Locked{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Roll returns a value in [1, sides].
func (l *Locked) Roll(sides int64) int64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.rng.Int64N(sides) + 1
}
