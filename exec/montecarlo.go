package exec

import (
	"context"
	"math"
	"time"

	"github.com/scenarioforge/core/expr"
	"github.com/scenarioforge/core/kernel"
	"github.com/scenarioforge/core/model"
	"github.com/scenarioforge/core/risk"
	"github.com/scenarioforge/core/rng"
)

// ProgressFn reports Monte Carlo progress: percentComplete in [0,100],
// iterationsDone so far, and an estimate of remaining wall-clock time.
type ProgressFn func(percentComplete float64, iterationsDone int, estimatedMsRemaining float64)

// MonteCarloResult is the outcome of a full Monte Carlo run.
type MonteCarloResult struct {
	Success         bool
	Cancelled       bool
	IterationsDone  int
	IterationsFailed int
	Raw             map[string]map[string][]float64
	Aggregated      map[string]map[string]model.RiskMetrics
	ExecutionTimeMs float64
}

// RunMonteCarlo drives cfg.Iterations deterministic passes over g, each
// with $iteration advanced and a shared RNG carried across iterations,
// collecting numeric OUTPUT values into per-(node,key) sample buffers
// and reducing them to RiskMetrics once the loop ends.
//
// A failing iteration (kernel error) is recorded and skipped rather
// than aborting the run — a handful of bad draws shouldn't sink an
// otherwise-informative sweep.
func RunMonteCarlo(ctx context.Context, g *model.Graph, cfg model.SimulationConfig, globalParams map[string]any, registry *kernel.Registry, progress ProgressFn) *MonteCarloResult {
	start := time.Now()
	rc := NewRunContext(g, registry, rng.NewLCG(cfg.Seed), globalParams)

	n := cfg.Iterations
	if n <= 0 {
		return &MonteCarloResult{Success: true, Raw: map[string]map[string][]float64{}, Aggregated: map[string]map[string]model.RiskMetrics{}, ExecutionTimeMs: msSince(start)}
	}

	wantNode := func(string) bool { return true }
	if len(cfg.OutputNodeIDs) > 0 {
		allowed := make(map[string]bool, len(cfg.OutputNodeIDs))
		for _, id := range cfg.OutputNodeIDs {
			allowed[id] = true
		}
		wantNode = func(id string) bool { return allowed[id] }
	}

	reportEvery := int(math.Ceil(float64(n) / 100))
	if reportEvery < 1 {
		reportEvery = 1
	}
	if reportEvery > 100 {
		reportEvery = 100
	}

	raw := make(map[string]map[string][]float64)
	done := 0
	failed := 0

	for i := 0; i < n; i++ {
		select {
		case <-ctx.Done():
			return &MonteCarloResult{
				Cancelled: true, IterationsDone: done, IterationsFailed: failed,
				Raw: raw, Aggregated: aggregate(raw), ExecutionTimeMs: msSince(start),
			}
		default:
		}

		rc.Iteration = float64(i)
		res := ExecuteWithContext(rc)
		done++

		if !res.Success {
			failed++
		} else {
			for _, on := range res.OutputNodes {
				if !wantNode(on.NodeID) {
					continue
				}
				for key, v := range on.Outputs {
					if v.Kind() != expr.KindNumber {
						continue
					}
					bucket := raw[on.NodeID]
					if bucket == nil {
						bucket = make(map[string][]float64)
						raw[on.NodeID] = bucket
					}
					bucket[key] = append(bucket[key], v.ToNumber())
				}
			}
		}

		if progress != nil && ((i+1)%reportEvery == 0 || i == n-1) {
			elapsed := time.Since(start)
			pct := float64(i+1) / float64(n) * 100
			perIter := elapsed.Seconds() / float64(i+1)
			remaining := perIter * float64(n-i-1) * 1000
			progress(pct, i+1, remaining)
		}
	}

	return &MonteCarloResult{
		Success:          true,
		IterationsDone:   done,
		IterationsFailed: failed,
		Raw:              raw,
		Aggregated:       aggregate(raw),
		ExecutionTimeMs:  msSince(start),
	}
}

func aggregate(raw map[string]map[string][]float64) map[string]map[string]model.RiskMetrics {
	out := make(map[string]map[string]model.RiskMetrics, len(raw))
	for nodeID, byKey := range raw {
		m := make(map[string]model.RiskMetrics, len(byKey))
		for key, samples := range byKey {
			m[key] = risk.Compute(samples)
		}
		out[nodeID] = m
	}
	return out
}
