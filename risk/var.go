package risk

import "math"

// valueAtRisk reports loss quantiles: VaR(95) is the 5th-percentile
// outcome, i.e. the threshold that 95% of draws exceed. sorted must
// already be ascending and non-empty.
func valueAtRisk(sorted []float64) map[string]float64 {
	return map[string]float64{
		"95":   percentileSorted(sorted, 5),
		"99":   percentileSorted(sorted, 1),
		"99.9": percentileSorted(sorted, 0.1),
	}
}

// conditionalValueAtRisk (expected shortfall) averages every draw at or
// below the matching VaR threshold — the mean loss given that the loss
// exceeds VaR.
func conditionalValueAtRisk(sorted []float64) map[string]float64 {
	vars := valueAtRisk(sorted)
	return map[string]float64{
		"95": tailMean(sorted, vars["95"]),
		"99": tailMean(sorted, vars["99"]),
	}
}

func tailMean(sorted []float64, threshold float64) float64 {
	sum := 0.0
	count := 0
	for _, x := range sorted {
		if x <= threshold {
			sum += x
			count++
		}
	}
	if count == 0 {
		return math.NaN()
	}
	return sum / float64(count)
}
