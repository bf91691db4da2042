package leach

import "math/rand/v2"

// Source supplies uniform draws in [0,1). *rand.Rand from math/rand/v2
// satisfies it.
type Source interface {
	Float64() float64
}

// NewSource returns a deterministic source for the given seed.
func NewSource(seed uint64) Source {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// globalSource draws from the process-wide generator, which is safe for
// concurrent use.
type globalSource struct{}

func (globalSource) Float64() float64 { return rand.Float64() }

// SliceSource replays a fixed sequence of draws, cycling when exhausted.
// It is intended for tests and reproducing reported runs.
type SliceSource struct {
	Draws []float64
	next  int
}

func (s *SliceSource) Float64() float64 {
	if len(s.Draws) == 0 {
		return 0
	}
	v := s.Draws[s.next%len(s.Draws)]
	s.next++
	return v
}
