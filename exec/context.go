// Package exec implements graph execution: a single deterministic
// pass, the Monte Carlo driver (sequential and parallel), sensitivity
// sweeps, and the feedback-enabled run.
package exec

import (
	"github.com/scenarioforge/core/expr"
	"github.com/scenarioforge/core/kernel"
	"github.com/scenarioforge/core/model"
)

// OutputBuffer holds every node's resolved output ports, keyed by
// (node_id, port_name), for the duration of one run.
type OutputBuffer map[string]map[string]expr.Value

func newOutputBuffer() OutputBuffer { return make(OutputBuffer) }

func (b OutputBuffer) set(nodeID, portName string, v expr.Value) {
	if b[nodeID] == nil {
		b[nodeID] = make(map[string]expr.Value)
	}
	b[nodeID][portName] = v
}

func (b OutputBuffer) get(nodeID, portName string) (expr.Value, bool) {
	m, ok := b[nodeID]
	if !ok {
		return expr.Null(), false
	}
	v, ok := m[portName]
	return v, ok
}

// RunContext bundles the graph, its node index, the kernel registry,
// and the RNG shared by this run's distribution draws and random()
// calls, per the reproducibility contract (spec §4.5).
type RunContext struct {
	Graph    *model.Graph
	Registry *kernel.Registry
	RNG      expr.RandomSource
	NodeByID map[string]*model.Node

	GlobalParams expr.Value
	Iteration    float64
	Time         float64

	// Injections overlays node_id -> port_name -> value onto the
	// gathered inputs before a kernel runs, overriding or populating
	// that port — how the feedback engine threads its per-iteration
	// injected values into the pass (spec §4.8 step 1).
	Injections map[string]map[string]expr.Value

	// Hierarchical fields. Parent, Root, Depth and Path are set only
	// when this run is a subgraph child; no driver in this module sets
	// Graphs, Feedback or FeedbackHistory.
	Parent          expr.Value
	Root            expr.Value
	Depth           float64
	Path            expr.Value
	Graphs          expr.Value
	Feedback        expr.Value
	FeedbackHistory expr.Value
}

// NewRunContext indexes g's nodes and wraps registry/rng into a fresh
// run-scoped context with empty hierarchical fields.
func NewRunContext(g *model.Graph, registry *kernel.Registry, rngSrc expr.RandomSource, globalParams map[string]any) *RunContext {
	idx := make(map[string]*model.Node, len(g.Nodes))
	for i := range g.Nodes {
		idx[g.Nodes[i].NodeID] = &g.Nodes[i]
	}
	return &RunContext{
		Graph:        g,
		Registry:     registry,
		RNG:          rngSrc,
		NodeByID:     idx,
		GlobalParams: expr.FromAny(globalParams),
	}
}

// Result is the outcome of one deterministic pass.
type Result struct {
	Success         bool
	Error           string
	FailingNodeID   string
	OutputsByNode   OutputBuffer
	OutputNodes     []OutputNode
	ExecutionTimeMs float64
}

// OutputNode is one OUTPUT node's captured result.
type OutputNode struct {
	NodeID   string
	NodeName string
	Outputs  map[string]expr.Value
}
