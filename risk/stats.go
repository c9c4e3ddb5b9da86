// Package risk computes RiskMetrics from a Monte Carlo sample buffer:
// central moments, quantiles, VaR, and CVaR, per spec §4.6.
package risk

import (
	"math"
	"sort"

	"github.com/scenarioforge/core/model"
)

// Compute builds the full RiskMetrics for samples. An empty slice
// yields the spec's documented defaults rather than an error: min=+Inf,
// max=-Inf, everything else NaN.
func Compute(samples []float64) model.RiskMetrics {
	n := len(samples)
	if n == 0 {
		return model.RiskMetrics{
			Mean: math.NaN(), Median: math.NaN(), StandardDeviation: math.NaN(),
			Variance: math.NaN(), Skewness: math.NaN(), Kurtosis: math.NaN(),
			Min: math.Inf(1), Max: math.Inf(-1),
			Quantiles: map[string]float64{}, VaR: map[string]float64{}, CVaR: map[string]float64{},
		}
	}

	sorted := append([]float64(nil), samples...)
	sort.Float64s(sorted)

	mean := meanOf(samples)
	variance := populationVariance(samples, mean)
	std := math.Sqrt(variance)
	skew := skewness(samples, mean, std)
	kurt := kurtosis(samples, mean, std)

	quantiles := map[string]float64{}
	for _, p := range []float64{5, 10, 25, 50, 75, 90, 95, 99} {
		quantiles[quantileKey(p)] = percentileSorted(sorted, p)
	}

	return model.RiskMetrics{
		Mean:              mean,
		Median:            percentileSorted(sorted, 50),
		StandardDeviation: std,
		Variance:          variance,
		Skewness:          skew,
		Kurtosis:          kurt,
		Min:               sorted[0],
		Max:               sorted[n-1],
		Quantiles:         quantiles,
		VaR:               valueAtRisk(sorted),
		CVaR:              conditionalValueAtRisk(sorted),
	}
}

func quantileKey(p float64) string {
	switch p {
	case 5:
		return "p5"
	case 10:
		return "p10"
	case 25:
		return "p25"
	case 50:
		return "p50"
	case 75:
		return "p75"
	case 90:
		return "p90"
	case 95:
		return "p95"
	case 99:
		return "p99"
	default:
		return "p"
	}
}

func meanOf(xs []float64) float64 {
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func populationVariance(xs []float64, mean float64) float64 {
	sum := 0.0
	for _, x := range xs {
		d := x - mean
		sum += d * d
	}
	return sum / float64(len(xs))
}

// skewness is the third standardized moment.
func skewness(xs []float64, mean, std float64) float64 {
	if std == 0 {
		return 0
	}
	n := float64(len(xs))
	sum := 0.0
	for _, x := range xs {
		z := (x - mean) / std
		sum += z * z * z
	}
	return sum / n
}

// kurtosis is the fourth standardized moment (not excess kurtosis).
func kurtosis(xs []float64, mean, std float64) float64 {
	if std == 0 {
		return 0
	}
	n := float64(len(xs))
	sum := 0.0
	for _, x := range xs {
		z := (x - mean) / std
		sum += z * z * z * z
	}
	return sum / n
}

