package feedback

import (
	"math"

	"github.com/scenarioforge/core/model"
)

// checkConvergence reports whether the last windowSize history entries
// satisfy metric within tolerance, per spec §4.8.
func checkConvergence(metric model.ConvergenceMetric, history []model.HistoryEntry, windowSize int, tolerance float64) bool {
	window := windowValues(history, windowSize)
	if len(window) == 0 || (windowSize > 0 && len(window) < windowSize) {
		return false
	}

	switch metric {
	case model.ConvergenceAbsolute:
		mean := meanOf(window)
		for _, v := range window {
			if math.Abs(v-mean) > tolerance {
				return false
			}
		}
		return true

	case model.ConvergenceRelative:
		mean := meanOf(window)
		if mean == 0 {
			for _, v := range window {
				if v != 0 {
					return false
				}
			}
			return true
		}
		for _, v := range window {
			if math.Abs(v-mean)/math.Abs(mean) > tolerance {
				return false
			}
		}
		return true

	case model.ConvergenceOscillation:
		if len(window) < 2 {
			return true
		}
		diffs := make([]float64, len(window)-1)
		for i := 1; i < len(window); i++ {
			diffs[i-1] = window[i] - window[i-1]
		}
		signChanges := 0
		for i := 1; i < len(diffs); i++ {
			if (diffs[i] > 0 && diffs[i-1] < 0) || (diffs[i] < 0 && diffs[i-1] > 0) {
				signChanges++
			}
		}
		return signChanges <= 1 && math.Abs(window[len(window)-1]-window[0]) <= tolerance

	default:
		return false
	}
}

func meanOf(xs []float64) float64 {
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}
