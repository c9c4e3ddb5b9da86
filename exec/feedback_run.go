package exec

import (
	"github.com/scenarioforge/core/expr"
	"github.com/scenarioforge/core/feedback"
	"github.com/scenarioforge/core/kernel"
	"github.com/scenarioforge/core/model"
	"github.com/scenarioforge/core/rng"
)

// FeedbackRunOptions configures ExecuteWithFeedback.
type FeedbackRunOptions struct {
	MaxIterations int
	Tolerance     float64
	Seed          *uint64
}

// FeedbackRunResult is one deterministic-with-feedback run's outcome:
// the final pass's Result plus every loop's convergence history.
type FeedbackRunResult struct {
	*Result
	IterationsRun    int
	Converged        bool
	FeedbackHistories map[string][]model.HistoryEntry
}

// ExecuteWithFeedback repeatedly runs the deterministic pipeline,
// injecting and updating feedback state between passes, until every
// enabled loop with convergence enabled converges or opts.MaxIterations
// is reached (spec §4.8's "Loop-only execution helper").
func ExecuteWithFeedback(g *model.Graph, globalParams map[string]any, registry *kernel.Registry, opts FeedbackRunOptions) *FeedbackRunResult {
	maxIter := opts.MaxIterations
	if maxIter < 1 {
		maxIter = 1
	}

	states := feedback.NewStates(g)
	rc := NewRunContext(g, registry, rng.NewLCG(opts.Seed), globalParams)

	var last *Result
	converged := false
	iterationsRun := 0

	for i := 0; i < maxIter; i++ {
		rc.Iteration = float64(i)
		rc.Time = float64(i)
		rc.Injections = feedback.ComputeInjections(g, states)

		res := ExecuteWithContext(rc)
		last = res
		iterationsRun++
		if !res.Success {
			break
		}

		lookup := func(nodeID, portName string) (expr.Value, bool) {
			return res.OutputsByNode.get(nodeID, portName)
		}
		evalCtx := &expr.ExpressionContext{Params: rc.GlobalParams, RNG: rc.RNG, Time: rc.Time, Iteration: rc.Iteration}
		if err := feedback.ApplyUpdates(g, states, lookup, i, evalCtx); err != nil {
			last = &Result{Success: false, Error: err.Error(), OutputsByNode: res.OutputsByNode, ExecutionTimeMs: res.ExecutionTimeMs}
			break
		}

		if feedback.AllConverged(g, states) {
			converged = true
			break
		}
	}

	histories := make(map[string][]model.HistoryEntry, len(states))
	for loopID, state := range states {
		histories[loopID] = state.History
	}

	return &FeedbackRunResult{
		Result:            last,
		IterationsRun:     iterationsRun,
		Converged:         converged,
		FeedbackHistories: histories,
	}
}
