package testutil

import (
	"math/rand"

	"github.com/rs/zerolog"
)

// NewTestRNG creates a deterministic random number generator for tests
func NewTestRNG(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// NopLogger returns a no-op logger for tests
func NopLogger() zerolog.Logger {
	return zerolog.Nop()
}

// FixedRand returns the same draw forever.
type FixedRand float64

func (f FixedRand) Float64() float64 { return float64(f) }

// SequenceRand replays draws in order and then repeats the last one.
type SequenceRand struct {
	Draws []float64
	i     int
}

func NewSequenceRand(draws ...float64) *SequenceRand {
	return &SequenceRand{Draws: draws}
}

func (s *SequenceRand) Float64() float64 {
	if len(s.Draws) == 0 {
		return 0
	}
	d := s.Draws[min(s.i, len(s.Draws)-1)]
	s.i++
	return d
}
