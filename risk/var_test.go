package risk

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValueAtRisk_ReturnsAllThreeConfidenceLevels(t *testing.T) {
	sorted := make([]float64, 1000)
	for i := range sorted {
		sorted[i] = float64(i + 1)
	}
	vars := valueAtRisk(sorted)
	assert.Len(t, vars, 3)
	_, ok95 := vars["95"]
	_, ok99 := vars["99"]
	_, ok999 := vars["99.9"]
	assert.True(t, ok95)
	assert.True(t, ok99)
	assert.True(t, ok999)
}

func TestTailMean_AveragesOnlyValuesAtOrBelowThreshold(t *testing.T) {
	sorted := []float64{1, 2, 3, 4, 5}
	assert.Equal(t, 1.5, tailMean(sorted, 2))
}

func TestTailMean_NoValuesBelowThresholdIsNaN(t *testing.T) {
	sorted := []float64{10, 20, 30}
	assert.True(t, math.IsNaN(tailMean(sorted, -5)))
}

func TestConditionalValueAtRisk_NeverExceedsMatchingVaR(t *testing.T) {
	sorted := make([]float64, 500)
	for i := range sorted {
		sorted[i] = float64(i + 1)
	}
	vars := valueAtRisk(sorted)
	cvars := conditionalValueAtRisk(sorted)
	assert.LessOrEqual(t, cvars["95"], vars["95"])
	assert.LessOrEqual(t, cvars["99"], vars["99"])
}
