package exec

import (
	"sort"
	"time"

	"github.com/scenarioforge/core/expr"
	"github.com/scenarioforge/core/graph"
	"github.com/scenarioforge/core/kernel"
	"github.com/scenarioforge/core/model"
	"github.com/scenarioforge/core/rng"
)

// Execute runs one deterministic pass over g. A nil seed draws from
// wall-clock time — callers that need reproducibility must pass an
// explicit seed (or use RunContext/ExecuteWithContext directly with
// their own installed RNG, as the Monte Carlo driver does per
// iteration).
func Execute(g *model.Graph, globalParams map[string]any, registry *kernel.Registry, seed *uint64) *Result {
	rc := NewRunContext(g, registry, rng.NewLCG(seed), globalParams)
	return ExecuteWithContext(rc)
}

// ExecuteWithContext runs one deterministic pass using a caller-built
// RunContext — this is the entry point the Monte Carlo, sensitivity,
// and subgraph drivers call directly so they can install their own
// RNG and hierarchical fields.
func ExecuteWithContext(rc *RunContext) *Result {
	start := time.Now()

	if errs, _ := graph.Validate(rc.Graph); len(errs) > 0 {
		return &Result{Success: false, Error: errs[0].Message, ExecutionTimeMs: msSince(start)}
	}

	order, ok := graph.TopologicalSort(rc.Graph)
	if !ok {
		return &Result{Success: false, Error: "graph contains a non-FEEDBACK cycle", ExecutionTimeMs: msSince(start)}
	}

	buffer := newOutputBuffer()
	ectx := &expr.ExpressionContext{
		Params:          rc.GlobalParams,
		Nodes:           nodeIndex(rc.NodeByID),
		Time:            rc.Time,
		Iteration:       rc.Iteration,
		RNG:             rc.RNG,
		Parent:          rc.Parent,
		Root:            rc.Root,
		Depth:           rc.Depth,
		Path:            rc.Path,
		Graphs:          rc.Graphs,
		Feedback:        rc.Feedback,
		FeedbackHistory: rc.FeedbackHistory,
		Outputs:         expr.Object(map[string]expr.Value{}),
	}
	outputsSoFar := make(map[string]expr.Value)

	for _, nodeID := range order {
		node := rc.NodeByID[nodeID]

		fn, ok := rc.Registry.Lookup(node)
		if !ok {
			return &Result{
				Success: false, Error: "no kernel registered for node type '" + string(node.Type) + "'",
				FailingNodeID: nodeID, OutputsByNode: buffer, ExecutionTimeMs: msSince(start),
			}
		}

		inputs := gatherInputs(rc.Graph, rc.NodeByID, buffer, node)
		if overlay, ok := rc.Injections[node.NodeID]; ok {
			for portName, v := range overlay {
				inputs[portName] = v
			}
		}

		nodeCtx := ectx.Clone()
		nodeCtx.Node = expr.Object(map[string]expr.Value{
			"id":   expr.String(node.NodeID),
			"name": expr.String(node.Name),
			"type": expr.String(string(node.Type)),
		})
		nodeCtx.Inputs = expr.Object(inputs)

		outputs, err := fn(node, inputs, nodeCtx)
		if err != nil {
			return &Result{
				Success: false, Error: err.Error(), FailingNodeID: nodeID,
				OutputsByNode: buffer, ExecutionTimeMs: msSince(start),
			}
		}
		for portName, v := range outputs {
			buffer.set(node.NodeID, portName, v)
		}
		snapshot := make(map[string]expr.Value, len(outputsSoFar)+1)
		for k, v := range outputsSoFar {
			snapshot[k] = v
		}
		snapshot[node.NodeID] = expr.Object(outputs)
		outputsSoFar = snapshot
		ectx.Outputs = expr.Object(snapshot)
	}

	outputNodes := make([]OutputNode, 0)
	for _, nodeID := range order {
		node := rc.NodeByID[nodeID]
		if node.Type != model.NodeTypeOutput {
			continue
		}
		outputNodes = append(outputNodes, OutputNode{
			NodeID:   node.NodeID,
			NodeName: node.Name,
			Outputs:  buffer[node.NodeID],
		})
	}

	return &Result{
		Success:         true,
		OutputsByNode:   buffer,
		OutputNodes:     outputNodes,
		ExecutionTimeMs: msSince(start),
	}
}

// gatherInputs resolves every DATA_FLOW/DEPENDENCY/CONDITIONAL edge
// incoming to node's input ports against the output buffer, applying
// the fan-in policy: a `multiple` port receives the array of upstream
// values in edge-creation order; otherwise the last edge (by
// creation order) wins.
func gatherInputs(g *model.Graph, nodeByID map[string]*model.Node, buffer OutputBuffer, node *model.Node) map[string]expr.Value {
	type incoming struct {
		edge  model.Edge
		value expr.Value
	}
	byPort := make(map[string][]incoming)

	for _, e := range g.Edges {
		if !e.Type.ParticipatesInOrdering() {
			continue
		}
		if e.Target.NodeID != node.NodeID {
			continue
		}
		srcNode, ok := nodeByID[e.Source.NodeID]
		if !ok {
			continue
		}
		srcPort, ok := srcNode.OutputPort(e.Source.PortID)
		if !ok {
			continue
		}
		v, ok := buffer.get(e.Source.NodeID, srcPort.Name)
		if !ok {
			v = expr.Null()
		}
		byPort[e.Target.PortID] = append(byPort[e.Target.PortID], incoming{edge: e, value: v})
	}

	inputs := make(map[string]expr.Value, len(node.InputPorts))
	for _, p := range node.InputPorts {
		edges := byPort[p.PortID]
		if len(edges) == 0 {
			inputs[p.Name] = expr.FromAny(p.DefaultValue)
			continue
		}
		sort.Slice(edges, func(i, j int) bool { return edges[i].edge.CreatedAt < edges[j].edge.CreatedAt })
		if p.Multiple {
			items := make([]expr.Value, len(edges))
			for i, e := range edges {
				items[i] = e.value
			}
			inputs[p.Name] = expr.Array(items)
		} else {
			inputs[p.Name] = edges[len(edges)-1].value
		}
	}
	return inputs
}

// nodeIndex builds the static `$nodes` lookup table — node_id to its
// {id, name, type} descriptor — available to every expression in the
// run regardless of execution order.
func nodeIndex(nodeByID map[string]*model.Node) expr.Value {
	fields := make(map[string]expr.Value, len(nodeByID))
	for id, n := range nodeByID {
		fields[id] = expr.Object(map[string]expr.Value{
			"id":   expr.String(n.NodeID),
			"name": expr.String(n.Name),
			"type": expr.String(string(n.Type)),
		})
	}
	return expr.Object(fields)
}

func msSince(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000.0
}
