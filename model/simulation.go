package model

// SimulationMode selects the executor entry point run_monte_carlo vs.
// a one-shot deterministic execution vs. a sensitivity sweep.
type SimulationMode string

const (
	ModeDeterministic SimulationMode = "deterministic"
	ModeMonteCarlo    SimulationMode = "monte_carlo"
	ModeSensitivity   SimulationMode = "sensitivity"
)

// TimeConfig is an extension point for time-stepped triggers; the core
// does not read StepSeconds (the time_step trigger fires every
// iteration, like the iteration trigger).
type TimeConfig struct {
	StepSeconds float64 `json:"stepSeconds,omitempty" yaml:"stepSeconds,omitempty"`
}

// SimulationConfig parameterizes a run of the executor.
type SimulationConfig struct {
	GraphID              string         `json:"graphId" yaml:"graphId"`
	Mode                 SimulationMode `json:"mode" yaml:"mode"`
	Iterations           int            `json:"iterations" yaml:"iterations"`
	Seed                 *uint64        `json:"seed,omitempty" yaml:"seed,omitempty"`
	Time                 *TimeConfig    `json:"time,omitempty" yaml:"time,omitempty"`
	MaxExecutionTimeMs    int64          `json:"maxExecutionTimeMs,omitempty" yaml:"maxExecutionTimeMs,omitempty"`
	Parallelism          int            `json:"parallelism,omitempty" yaml:"parallelism,omitempty"`
	OutputNodeIDs        []string       `json:"outputNodeIds,omitempty" yaml:"outputNodeIds,omitempty"`
	CaptureIntermediates bool           `json:"captureIntermediates,omitempty" yaml:"captureIntermediates,omitempty"`
	Convergence          *ConvergenceConfig `json:"convergence,omitempty" yaml:"convergence,omitempty"`
	// ExitOnGlobalConvergence records whether a run may stop early once
	// every enabled feedback loop has converged (§4.8 policy).
	// RunMonteCarlo and RunMonteCarloParallel do not read it and do not
	// stop early on convergence.
	ExitOnGlobalConvergence bool `json:"exitOnGlobalConvergence,omitempty" yaml:"exitOnGlobalConvergence,omitempty"`
}

// RiskMetrics is descriptive statistics and tail measures computed
// over one sample vector.
type RiskMetrics struct {
	Mean              float64            `json:"mean" yaml:"mean"`
	Median            float64            `json:"median" yaml:"median"`
	StandardDeviation float64            `json:"standardDeviation" yaml:"standardDeviation"`
	Variance          float64            `json:"variance" yaml:"variance"`
	Skewness          float64            `json:"skewness" yaml:"skewness"`
	Kurtosis          float64            `json:"kurtosis" yaml:"kurtosis"`
	Min               float64            `json:"min" yaml:"min"`
	Max               float64            `json:"max" yaml:"max"`
	Quantiles         map[string]float64 `json:"quantiles" yaml:"quantiles"`
	VaR               map[string]float64 `json:"var" yaml:"var"`
	CVaR              map[string]float64 `json:"cvar" yaml:"cvar"`
}
