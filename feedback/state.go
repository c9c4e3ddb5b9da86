// Package feedback implements the feedback-loop engine: per-loop
// state tracking, the six value transforms, convergence detection, and
// the per-iteration injection/update protocol described in spec §4.8.
package feedback

import (
	"time"

	"github.com/scenarioforge/core/model"
)

// NewStates initializes one FeedbackState per enabled loop in g, with
// current_value = loop.initial_value, matching spec §4.8's "States are
// initialized once per run for every enabled loop".
func NewStates(g *model.Graph) map[string]*model.FeedbackState {
	states := make(map[string]*model.FeedbackState)
	for _, loop := range g.FeedbackLoops {
		if !loop.Enabled {
			continue
		}
		states[loop.ID] = &model.FeedbackState{
			LoopID:       loop.ID,
			CurrentValue: loop.InitialValue,
		}
	}
	return states
}

// pushHistory appends an entry, bounding the slice to loop.StateHistory
// (0 or negative means unbounded).
func pushHistory(state *model.FeedbackState, loop *model.FeedbackLoop, iteration int, value float64, delta *float64) {
	state.History = append(state.History, model.HistoryEntry{
		Iteration: iteration,
		Value:     value,
		Delta:     delta,
		Timestamp: time.Now(),
	})
	if loop.StateHistory > 0 && len(state.History) > loop.StateHistory {
		state.History = state.History[len(state.History)-loop.StateHistory:]
	}
}

// windowValues returns the last n values from history (or all of them
// if history is shorter).
func windowValues(history []model.HistoryEntry, n int) []float64 {
	if n <= 0 || n > len(history) {
		n = len(history)
	}
	start := len(history) - n
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = history[start+i].Value
	}
	return out
}
