// Package rng provides the seeded, reproducible random stream shared
// by expression evaluation and distribution sampling, plus the
// distribution-family samplers that read from it.
package rng

import "time"

// lcgMultiplier and lcgIncrement are the classic Numerical-Recipes
// 32-bit LCG constants: state' = state*a + c (mod 2^32).
const (
	lcgMultiplier uint32 = 1664525
	lcgIncrement  uint32 = 1013904223
)

// LCG is a 32-bit linear congruential generator. It is not safe for
// concurrent use by multiple goroutines against the same instance —
// the parallel Monte Carlo driver gives each worker its own LCG,
// derived deterministically from the run seed via DeriveSeed.
type LCG struct {
	state uint32
}

// NewLCG seeds a generator. A nil seed falls back to a wall-clock seed
// — used for non-reproducible ad-hoc runs; anything that needs
// reproducibility must pass an explicit seed.
func NewLCG(seed *uint64) *LCG {
	var s uint32
	if seed != nil {
		s = uint32(*seed)
	} else {
		s = uint32(time.Now().UnixNano())
	}
	if s == 0 {
		s = 1 // a zero state would stick at c/(1-a) mod 2^32; avoid degenerate stream
	}
	return &LCG{state: s}
}

// Float64 returns the next value in [0,1) and advances the state.
func (g *LCG) Float64() float64 {
	g.state = g.state*lcgMultiplier + lcgIncrement
	return float64(g.state) / 4294967296.0 // 2^32
}

// DeriveSeed produces a deterministic per-worker seed from a base seed
// and worker index, so a parallel Monte Carlo run reproduces the exact
// same per-worker streams (and therefore the same raw samples) on
// every run with the same (seed, worker count) — the derivation adds a
// Knuth multiplicative hash of the worker index to the base seed and
// then takes two LCG steps, so it needs no extra dependency.
func DeriveSeed(base uint64, workerIndex int) uint64 {
	s := uint32(base) + uint32(workerIndex)*2654435761 // Knuth multiplicative hash constant
	s = s*lcgMultiplier + lcgIncrement
	s = s*lcgMultiplier + lcgIncrement
	return uint64(s)
}
