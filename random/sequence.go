package random

import "sync"

// Sequence replays a fixed list of values, starting over when exhausted.
// Each value is folded into [1, sides] so draws stay in range whatever die
// is being rolled; values already in range come back unchanged.
type Sequence struct {
	mu     sync.Mutex
	values []int64
	next   int
}

// NewSequence creates a Sequence. With no values every roll is 1.
func NewSequence(values ...int64) *Sequence {
	return &Sequence{values: append([]int64(nil), values...)}
}

// Roll returns the next value of the sequence folded into [1, sides].
func (s *Sequence) Roll(sides int64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.values) == 0 {
		return 1
	}

	v := s.values[s.next]
	s.next = (s.next + 1) % len(s.values)

	folded := (v - 1) % sides
	if folded < 0 {
		folded += sides
	}

	return folded + 1
}

// Reset rewinds the sequence to its first value.
func (s *Sequence) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.next = 0
}
