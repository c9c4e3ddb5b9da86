package feedback

import (
	"strings"

	"github.com/scenarioforge/core/expr"
	"github.com/scenarioforge/core/model"
)

// OutputLookup reads a node's already-computed output port value by
// port name — exec.OutputBuffer satisfies this without feedback
// needing to import exec (which would cycle, since exec imports
// feedback for ExecuteWithFeedback).
type OutputLookup func(nodeID, portName string) (expr.Value, bool)

// ComputeInjections builds the node_id -> port_name -> value overlay
// the executor merges into $inputs before running the pass (spec
// §4.8 step 1). A loop whose history hasn't reached its configured
// delay yet injects InitialValue; otherwise it injects CurrentValue.
func ComputeInjections(g *model.Graph, states map[string]*model.FeedbackState) map[string]map[string]expr.Value {
	out := make(map[string]map[string]expr.Value)
	for _, loop := range g.FeedbackLoops {
		if !loop.Enabled {
			continue
		}
		state := states[loop.ID]
		if state == nil {
			continue
		}

		value := loop.InitialValue
		if len(state.History) >= loop.Delay {
			value = state.CurrentValue
		}

		node, _, ok := g.NodeByID(loop.Target.NodeID)
		if !ok {
			continue
		}
		port, ok := node.InputPort(loop.Target.PortID)
		if !ok {
			continue
		}

		if out[node.NodeID] == nil {
			out[node.NodeID] = make(map[string]expr.Value)
		}
		out[node.NodeID][port.Name] = injectedValue(loop.Target.Field, value)
	}
	return out
}

func injectedValue(field string, value float64) expr.Value {
	if field == "" {
		return expr.Number(value)
	}
	return expr.Object(map[string]expr.Value{field: expr.Number(value)})
}

// ApplyUpdates runs step 3-5 of spec §4.8's per-iteration protocol
// after a pass completes: for every enabled loop whose trigger fires,
// read the source port (optionally drilling into Field), transform it,
// push history, update CurrentValue, and check convergence.
func ApplyUpdates(g *model.Graph, states map[string]*model.FeedbackState, lookup OutputLookup, iteration int, evalCtx *expr.ExpressionContext) error {
	for i := range g.FeedbackLoops {
		loop := &g.FeedbackLoops[i]
		if !loop.Enabled {
			continue
		}
		state := states[loop.ID]
		if state == nil {
			continue
		}

		x, ok := readSource(g, loop, lookup)
		if !ok {
			continue
		}

		if !triggerFires(loop, state, x) {
			continue
		}

		var prevPtr *float64
		if len(state.History) > 0 {
			prev := state.History[len(state.History)-1].Value
			d := x - prev
			prevPtr = &d
		}

		newValue, err := applyTransform(loop, state, x, evalCtx)
		if err != nil {
			return model.NewDomainError(model.ErrCodeKernelFailure, "feedback custom transform failed for loop "+loop.ID, err)
		}

		pushHistory(state, loop, iteration, newValue, prevPtr)
		state.CurrentValue = newValue

		if loop.Convergence.Enabled && !state.Converged {
			if checkConvergence(loop.Convergence.Metric, state.History, loop.Convergence.WindowSize, loop.Convergence.Tolerance) {
				state.Converged = true
				it := iteration
				state.ConvergenceIteration = &it
			}
		}
	}
	return nil
}

func readSource(g *model.Graph, loop *model.FeedbackLoop, lookup OutputLookup) (float64, bool) {
	node, _, ok := g.NodeByID(loop.Source.NodeID)
	if !ok {
		return 0, false
	}
	port, ok := node.OutputPort(loop.Source.PortID)
	if !ok {
		return 0, false
	}
	v, ok := lookup(node.NodeID, port.Name)
	if !ok {
		return 0, false
	}
	if loop.Source.Field != "" {
		v = fieldOf(v, loop.Source.Field)
	}
	return v.ToNumber(), true
}

// fieldOf resolves a dotted field path within an object value.
func fieldOf(v expr.Value, path string) expr.Value {
	cur := v
	for _, part := range strings.Split(path, ".") {
		if cur.Kind() != expr.KindObject {
			return expr.Null()
		}
		next, ok := cur.Fields()[part]
		if !ok {
			return expr.Null()
		}
		cur = next
	}
	return cur
}

func triggerFires(loop *model.FeedbackLoop, state *model.FeedbackState, latest float64) bool {
	switch loop.Trigger {
	case model.TriggerConvergence:
		return !state.Converged
	case model.TriggerThreshold:
		if len(state.History) == 0 {
			return false
		}
		prev := state.History[len(state.History)-1].Value
		return crossedThreshold(prev, latest, loop.TransformConfig.Threshold, loop.TransformConfig.Direction)
	case model.TriggerIteration, model.TriggerTimeStep, model.TriggerSchedule:
		return true
	default:
		return true
	}
}

func crossedThreshold(prev, latest, threshold float64, dir model.ThresholdDirection) bool {
	rising := prev < threshold && latest >= threshold
	falling := prev > threshold && latest <= threshold
	switch dir {
	case model.DirectionRising:
		return rising
	case model.DirectionFalling:
		return falling
	default:
		return rising || falling
	}
}

// AllConverged reports whether every enabled loop with convergence
// enabled has converged — the "global convergence" signal (spec §4.8
// step 5) that ExecuteWithFeedback stops on. The Monte Carlo drivers
// do not call it, and SimulationConfig.ExitOnGlobalConvergence is not
// read.
func AllConverged(g *model.Graph, states map[string]*model.FeedbackState) bool {
	any := false
	for _, loop := range g.FeedbackLoops {
		if !loop.Enabled || !loop.Convergence.Enabled {
			continue
		}
		any = true
		state := states[loop.ID]
		if state == nil || !state.Converged {
			return false
		}
	}
	return any
}
