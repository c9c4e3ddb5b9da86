package scenarioforge

import (
	"github.com/scenarioforge/core/model"
	"github.com/scenarioforge/core/rng"
)

// DistributionConfig configures a sampler: type plus named parameters
// (and, for "discrete", the value/probability pairs).
type DistributionConfig = model.DistributionConfig

// RNG is the seeded, reproducible uniform [0,1) stream shared by
// expression evaluation and distribution sampling within one run.
type RNG = rng.LCG

// SetSeed builds a fresh RNG from an explicit seed. A nil seed draws
// from wall-clock time; nothing that needs reproducibility should
// pass nil.
func SetSeed(seed *uint64) *RNG {
	return rng.NewLCG(seed)
}

// DeriveSeed produces a deterministic per-worker seed from a base seed
// and worker index, used by the parallel Monte Carlo driver so every
// worker's stream reproduces identically across runs.
func DeriveSeed(base uint64, workerIndex int) uint64 {
	return rng.DeriveSeed(base, workerIndex)
}

// SampleDistribution draws one value from cfg using draw as the
// shared uniform [0,1) source. An unrecognized cfg.Type falls back to
// a uniform [0,1) draw and reports shouldWarn=true on every call for
// that type tag.
func SampleDistribution(cfg *DistributionConfig, draw func() float64) (value float64, shouldWarn bool, err error) {
	return rng.Sample(cfg, draw)
}
