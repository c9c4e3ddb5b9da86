package scenarioforge

import (
	"github.com/scenarioforge/core/model"
	"github.com/scenarioforge/core/risk"
)

// RiskMetrics is descriptive statistics and tail measures computed
// over one sample vector: mean/median/std/variance/skewness/kurtosis,
// an eight-point quantile table, VaR at the 95/99/99.9 tails, and CVaR
// at the 95/99 tails.
type RiskMetrics = model.RiskMetrics

// ComputeRiskMetrics reduces a raw sample vector (as produced by
// RunMonteCarlo's per-(node,key) buffers) to its RiskMetrics. An empty
// vector returns the documented min=+Inf/max=-Inf/NaN-elsewhere
// default rather than panicking.
func ComputeRiskMetrics(samples []float64) RiskMetrics {
	return risk.Compute(samples)
}
