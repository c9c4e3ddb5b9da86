package subgraph

import (
	"encoding/json"
	"fmt"

	"github.com/scenarioforge/core/exec"
	"github.com/scenarioforge/core/expr"
	"github.com/scenarioforge/core/kernel"
	"github.com/scenarioforge/core/model"
)

// MaxRecursionDepth bounds how deep a chain of SUBGRAPH nodes may
// nest before Run refuses with ErrCodeRecursionTooDeep (spec §4.7
// default of 100; a host may lower or raise it before running).
var MaxRecursionDepth = 100

// kernelRegistry and defs are package-level because kernel.Fn's
// signature has no room for extra arguments; both are wired when a
// host calls Configure (directly, or through the root scenarioforge
// package's ConfigureSubgraphs or NewEngine).
var (
	kernelRegistry *kernel.Registry
	defs           Registry = NewInMemoryRegistry()
)

// Configure installs the shared kernel registry (used to recurse into
// the child graph) and the subgraph definition registry (used to
// resolve subgraph_id). Call once during setup, before any SUBGRAPH
// node is scheduled.
func Configure(kr *kernel.Registry, sr Registry) {
	kernelRegistry = kr
	if sr != nil {
		defs = sr
	}
}

func init() {
	kernel.SubgraphRunnerFn = runSubgraphNode
}

// runSubgraphNode is installed as kernel.SubgraphRunnerFn and is what
// the executor actually invokes when it schedules a SUBGRAPH node.
func runSubgraphNode(node *model.Node, inputs map[string]expr.Value, ctx *expr.ExpressionContext) (map[string]expr.Value, error) {
	if kernelRegistry == nil {
		return nil, model.NewNodeError(model.ErrCodeSubgraphUnresolved, node.NodeID, "subgraph engine not configured: call subgraph.Configure", nil)
	}

	cfg, err := decodeNodeConfig(node.Data)
	if err != nil {
		return nil, model.NewNodeError(model.ErrCodeInvalidInput, node.NodeID, "invalid subgraph node config", err)
	}

	def, ok := defs.Get(cfg.SubgraphID, cfg.Version)
	if !ok || def.Graph == nil {
		return nil, model.NewNodeError(model.ErrCodeSubgraphUnresolved, node.NodeID, fmt.Sprintf("subgraph %q not found in registry", cfg.SubgraphID), nil)
	}

	if ctx.Depth+1 > float64(MaxRecursionDepth) {
		return nil, model.NewNodeError(model.ErrCodeRecursionTooDeep, node.NodeID, fmt.Sprintf("subgraph recursion exceeded max depth %d", MaxRecursionDepth), nil)
	}

	inherited := mergeParams(ctx.Params, cfg.InstanceParams)
	child := childContext(ctx, cfg.SubgraphID, ctx.Outputs, inherited)

	overrides := mapInputs(cfg, def, inputs)
	childGraph := withDataOverrides(def.Graph, overrides)

	rc := &exec.RunContext{
		Graph:           childGraph,
		Registry:        kernelRegistry,
		RNG:             ctx.RNG,
		NodeByID:        indexNodes(childGraph),
		GlobalParams:    inherited,
		Iteration:       ctx.Iteration,
		Time:            ctx.Time,
		Parent:          child.Parent,
		Root:            child.Root,
		Depth:           child.Depth,
		Path:            child.Path,
		Graphs:          ctx.Graphs,
		Feedback:        ctx.Feedback,
		FeedbackHistory: ctx.FeedbackHistory,
	}

	res := exec.ExecuteWithContext(rc)
	if !res.Success {
		if def.BubbleErrors {
			return nil, model.NewNodeError(model.ErrCodeKernelFailure, node.NodeID, "subgraph "+cfg.SubgraphID+" failed: "+res.Error, nil)
		}
		return map[string]expr.Value{"error": expr.String(res.Error)}, nil
	}

	return mapOutputs(cfg, def, res.OutputsByNode), nil
}

func indexNodes(g *model.Graph) map[string]*model.Node {
	idx := make(map[string]*model.Node, len(g.Nodes))
	for i := range g.Nodes {
		idx[g.Nodes[i].NodeID] = &g.Nodes[i]
	}
	return idx
}

// withDataOverrides returns a shallow copy of def with the mapped
// external inputs seeded into each target node's Data under "value",
// the key both CONSTANT and PARAMETER kernels read — so a mapped input
// feeding a PARAMETER-typed exposed port behaves exactly as if it had
// been authored with that value directly.
func withDataOverrides(g *model.Graph, overrides map[string]map[string]expr.Value) *model.Graph {
	if len(overrides) == 0 {
		return g
	}
	out := *g
	out.Nodes = make([]model.Node, len(g.Nodes))
	copy(out.Nodes, g.Nodes)
	for i := range out.Nodes {
		ov, ok := overrides[out.Nodes[i].NodeID]
		if !ok {
			continue
		}
		data := make(map[string]any, len(out.Nodes[i].Data)+1)
		for k, v := range out.Nodes[i].Data {
			data[k] = v
		}
		// A node may be targeted by exactly one exposed input port in
		// practice; if more map to it, the last one (map iteration,
		// deliberately unordered) wins rather than silently picking one —
		// callers should not design overlapping exposures.
		for _, v := range ov {
			data["value"] = v.ToAny()
		}
		out.Nodes[i].Data = data
	}
	return &out
}

// decodeNodeConfig converts node.Data to a typed SubgraphNodeConfig via
// a JSON round-trip, the same technique the teacher uses for node
// compute-function config.
func decodeNodeConfig(data map[string]any) (*model.SubgraphNodeConfig, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	var cfg model.SubgraphNodeConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
