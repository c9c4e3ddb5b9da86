package scenarioforge

import (
	"context"

	"github.com/scenarioforge/core/exec"
	"github.com/scenarioforge/core/feedback"
	"github.com/scenarioforge/core/kernel"
	"github.com/scenarioforge/core/model"
)

// Result is the outcome of one deterministic pass.
type Result = exec.Result

// OutputNode is one OUTPUT node's captured result within a Result.
type OutputNode = exec.OutputNode

// Execute runs one deterministic pass over g. A nil seed draws from
// wall-clock time; callers that need reproducibility must pass an
// explicit seed.
func Execute(g *Graph, globalParams map[string]any, registry *kernel.Registry, seed *uint64) *Result {
	return exec.Execute(g, globalParams, registry, seed)
}

// FeedbackRunOptions configures ExecuteWithFeedback.
type FeedbackRunOptions = exec.FeedbackRunOptions

// FeedbackRunResult is a feedback-enabled run's outcome: the final
// pass's Result plus every loop's convergence history.
type FeedbackRunResult = exec.FeedbackRunResult

// ExecuteWithFeedback repeatedly runs the deterministic pipeline,
// injecting and updating feedback state between passes, until every
// enabled loop with convergence enabled converges or opts.MaxIterations
// is reached.
func ExecuteWithFeedback(g *Graph, globalParams map[string]any, registry *kernel.Registry, opts FeedbackRunOptions) *FeedbackRunResult {
	return exec.ExecuteWithFeedback(g, globalParams, registry, opts)
}

// FeedbackHistoryEntry is one recorded update of a feedback loop's
// current value.
type FeedbackHistoryEntry = model.HistoryEntry

// ProgressFn reports Monte Carlo progress: percentComplete in
// [0,100], iterationsDone so far, and an estimate of remaining
// wall-clock time.
type ProgressFn = exec.ProgressFn

// MonteCarloResult is the outcome of a full Monte Carlo run.
type MonteCarloResult = exec.MonteCarloResult

// SimulationConfig parameterizes a Monte Carlo or sensitivity run.
type SimulationConfig = model.SimulationConfig

// RunMonteCarlo drives cfg.Iterations deterministic passes over g,
// collecting numeric OUTPUT values into per-(node, output key) sample
// buffers, one sample per successful iteration, and reducing them to
// risk metrics.
func RunMonteCarlo(ctx context.Context, g *Graph, cfg SimulationConfig, globalParams map[string]any, registry *kernel.Registry, progress ProgressFn) *MonteCarloResult {
	return exec.RunMonteCarlo(ctx, g, cfg, globalParams, registry, progress)
}

// CanParallelize reports whether every node in g resolves to a pure
// kernel, the precondition for RunMonteCarloParallel.
func CanParallelize(g *Graph, registry *kernel.Registry) bool {
	return exec.CanParallelize(g, registry)
}

// RunMonteCarloParallel is RunMonteCarlo fanned out across workers
// goroutines, each with an independently-derived RNG stream. Falls
// back to the sequential driver when CanParallelize is false or
// workers is 1.
func RunMonteCarloParallel(ctx context.Context, g *Graph, cfg SimulationConfig, globalParams map[string]any, registry *kernel.Registry, workers int, progress ProgressFn) *MonteCarloResult {
	return exec.RunMonteCarloParallel(ctx, g, cfg, globalParams, registry, workers, progress)
}

// SensitivityConfig describes a one-variable sweep.
type SensitivityConfig = exec.SensitivityConfig

// SensitivityDataPoint is one (input, output) sample from a sweep.
type SensitivityDataPoint = exec.DataPoint

// SensitivityResult is the fitted line over a sweep's data points.
type SensitivityResult = exec.SensitivityResult

// RunSensitivity sweeps cfg.ParameterField on cfg.ParameterNodeID's
// Data over cfg.Steps points in [cfg.Lo,cfg.Hi], re-running the
// deterministic pipeline per point and fitting a line through the
// resulting (input, output) pairs.
func RunSensitivity(g *Graph, globalParams map[string]any, registry *kernel.Registry, seed *uint64, cfg SensitivityConfig) *SensitivityResult {
	return exec.RunSensitivity(g, globalParams, registry, seed, cfg)
}

// ProgressStreamer mirrors Monte Carlo progress over a caller-supplied
// websocket connection.
type ProgressStreamer = exec.ProgressStreamer

// NewProgressStreamer wraps an already-established websocket
// connection for progress reporting.
var NewProgressStreamer = exec.NewProgressStreamer

// FeedbackLoopsConverged reports whether every enabled loop with
// convergence enabled has converged, given the states produced by one
// ExecuteWithFeedback run's internals. Exposed for callers building
// their own iteration loop around ExecuteWithContext rather than
// using ExecuteWithFeedback directly.
func FeedbackLoopsConverged(g *Graph, states map[string]*model.FeedbackState) bool {
	return feedback.AllConverged(g, states)
}
