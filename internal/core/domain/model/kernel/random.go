package kernel

import "math/rand/v2"

// RandomSource is the randomness the domain depends on: PIN characters,
// demand base levels, the weather stand-in and prediction confidence.
// *rand.Rand from math/rand/v2 satisfies it, so tests pass a seeded generator
// and assert exact outputs.
type RandomSource interface {
	Float64() float64
	IntN(n int) int
}

// NewSeededRandomSource returns a deterministic source for tests and replays.
func NewSeededRandomSource(seed uint64) RandomSource {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)) //nolint:gosec // deterministic by intent
}

// DefaultRandomSource returns the process-wide ChaCha8 generator of math/rand/v2.
// It is safe for concurrent use.
func DefaultRandomSource() RandomSource {
	return globalSource{}
}

// Uniform draws a float64 from [lo, hi).
func Uniform(r RandomSource, lo, hi float64) float64 {
	return lo + r.Float64()*(hi-lo)
}

type globalSource struct{}

func (globalSource) Float64() float64 { return rand.Float64() } //nolint:gosec // ChaCha8 backed

func (globalSource) IntN(n int) int { return rand.IntN(n) } //nolint:gosec // ChaCha8 backed
