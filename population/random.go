package population

import (
	"errors"
	"math/rand/v2"
)

// ErrProbabilityRange indicates a probability parameter outside [0, 1].
var ErrProbabilityRange = errors.New("population: probability must be in [0, 1]")

// RandomSource produces uniform floats for probability gates. Operators
// outside the core (mutation, crossover, selection) consume it; the engine
// treats it as opaque.
type RandomSource interface {
	// Float64 returns a uniform value in [0, 1).
	Float64() float64
}

// DefaultRandomSource seeds a PCG-backed source.
func DefaultRandomSource(seed1, seed2 uint64) RandomSource {
	return rand.New(rand.NewPCG(seed1, seed2))
}

// Probability is a validated probability parameter.
type Probability float64

// NewProbability validates p against [0, 1].
func NewProbability(p float64) (Probability, error) {
	if p < 0 || p > 1 {
		return 0, ErrProbabilityRange
	}

	return Probability(p), nil
}

// Gate reports whether a draw from src passes the probability.
func (p Probability) Gate(src RandomSource) bool { return src.Float64() < float64(p) }
