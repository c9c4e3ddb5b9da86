package exec

import (
	"context"
	"math"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/scenarioforge/core/expr"
	"github.com/scenarioforge/core/kernel"
	"github.com/scenarioforge/core/model"
	"github.com/scenarioforge/core/risk"
	"github.com/scenarioforge/core/rng"
)

// CanParallelize reports whether every node in g resolves to a pure
// kernel — the precondition for RunMonteCarloParallel, since a worker
// stripe gives each goroutine its own RunContext and RNG but nodes
// still share the *Registry and *model.Graph.
func CanParallelize(g *model.Graph, registry *kernel.Registry) bool {
	for i := range g.Nodes {
		if !registry.IsPure(&g.Nodes[i]) {
			return false
		}
	}
	return true
}

// RunMonteCarloParallel splits [0,N) into workers stripes, each
// executed by its own goroutine against an independently-seeded RNG
// derived from cfg.Seed via rng.DeriveSeed, then merges the per-worker
// sample slices back into iteration order before aggregating. Falls
// back to the sequential driver when the graph isn't provably safe to
// fan out (see CanParallelize).
func RunMonteCarloParallel(ctx context.Context, g *model.Graph, cfg model.SimulationConfig, globalParams map[string]any, registry *kernel.Registry, workers int, progress ProgressFn) *MonteCarloResult {
	start := time.Now()

	if workers < 1 {
		workers = 1
	}
	if !CanParallelize(g, registry) || workers == 1 {
		return RunMonteCarlo(ctx, g, cfg, globalParams, registry, progress)
	}

	n := cfg.Iterations
	if n <= 0 {
		return &MonteCarloResult{Success: true, Raw: map[string]map[string][]float64{}, Aggregated: map[string]map[string]model.RiskMetrics{}, ExecutionTimeMs: msSince(start)}
	}
	if workers > n {
		workers = n
	}

	var baseSeed uint64
	if cfg.Seed != nil {
		baseSeed = *cfg.Seed
	} else {
		baseSeed = uint64(time.Now().UnixNano())
	}

	wantNode := func(string) bool { return true }
	if len(cfg.OutputNodeIDs) > 0 {
		allowed := make(map[string]bool, len(cfg.OutputNodeIDs))
		for _, id := range cfg.OutputNodeIDs {
			allowed[id] = true
		}
		wantNode = func(id string) bool { return allowed[id] }
	}

	type stripeResult struct {
		startIdx int
		samples  map[string]map[string][]float64 // per-iteration-local order
		failed   int
	}

	stripes := splitStripes(n, workers)
	results := make([]stripeResult, len(stripes))

	var doneCount int64
	reportEvery := int(math.Ceil(float64(n) / 100))
	if reportEvery < 1 {
		reportEvery = 1
	}
	if reportEvery > 100 {
		reportEvery = 100
	}

	grp, gctx := errgroup.WithContext(ctx)
	for w, stripe := range stripes {
		w, stripe := w, stripe
		grp.Go(func() error {
			seed := rng.DeriveSeed(baseSeed, w)
			rc := NewRunContext(g, registry, rng.NewLCG(&seed), globalParams)

			local := make(map[string]map[string][]float64)
			failed := 0
			for i := stripe.lo; i < stripe.hi; i++ {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}

				rc.Iteration = float64(i)
				res := ExecuteWithContext(rc)
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
							bucket := local[on.NodeID]
							if bucket == nil {
								bucket = make(map[string][]float64)
								local[on.NodeID] = bucket
							}
							bucket[key] = append(bucket[key], v.ToNumber())
						}
					}
				}

				doneCount++
				if progress != nil && (int(doneCount)%reportEvery == 0 || int(doneCount) == n) {
					elapsed := time.Since(start)
					pct := float64(doneCount) / float64(n) * 100
					perIter := elapsed.Seconds() / float64(doneCount)
					remaining := perIter * float64(int64(n)-doneCount) * 1000
					progress(pct, int(doneCount), remaining)
				}
			}
			results[w] = stripeResult{startIdx: stripe.lo, samples: local, failed: failed}
			return nil
		})
	}

	if err := grp.Wait(); err != nil {
		return &MonteCarloResult{
			Cancelled: true, IterationsDone: int(doneCount),
			Raw: map[string]map[string][]float64{}, Aggregated: map[string]map[string]model.RiskMetrics{},
			ExecutionTimeMs: msSince(start),
		}
	}

	sort.Slice(results, func(i, j int) bool { return results[i].startIdx < results[j].startIdx })

	raw := make(map[string]map[string][]float64)
	failed := 0
	for _, r := range results {
		failed += r.failed
		for nodeID, byKey := range r.samples {
			bucket := raw[nodeID]
			if bucket == nil {
				bucket = make(map[string][]float64)
				raw[nodeID] = bucket
			}
			for key, vals := range byKey {
				bucket[key] = append(bucket[key], vals...)
			}
		}
	}

	return &MonteCarloResult{
		Success:          true,
		IterationsDone:   n,
		IterationsFailed: failed,
		Raw:              raw,
		Aggregated:       aggregate(raw),
		ExecutionTimeMs:  msSince(start),
	}
}

type stripe struct{ lo, hi int }

// splitStripes divides [0,n) into `workers` contiguous, near-equal
// ranges so per-worker RNG streams stay deterministic regardless of
// scheduling order.
func splitStripes(n, workers int) []stripe {
	base := n / workers
	rem := n % workers
	out := make([]stripe, workers)
	cursor := 0
	for w := 0; w < workers; w++ {
		size := base
		if w < rem {
			size++
		}
		out[w] = stripe{lo: cursor, hi: cursor + size}
		cursor += size
	}
	return out
}
