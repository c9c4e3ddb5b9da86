package feedback

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/scenarioforge/core/expr"
	"github.com/scenarioforge/core/model"
)

func directLoop() model.FeedbackLoop {
	return model.FeedbackLoop{
		ID:           "loop1",
		Source:       model.FieldEndpoint{NodeID: "src", PortID: "outp"},
		Target:       model.FieldEndpoint{NodeID: "tgt", PortID: "inp"},
		Trigger:      model.TriggerIteration,
		Transform:    model.TransformDirect,
		InitialValue: 1,
		Enabled:      true,
		Convergence:  model.ConvergenceConfig{Enabled: true, Metric: model.ConvergenceAbsolute, Tolerance: 0.01, WindowSize: 2},
	}
}

func graphWithLoop(loop model.FeedbackLoop) *model.Graph {
	return &model.Graph{
		Nodes: []model.Node{
			{NodeID: "src", OutputPorts: []model.Port{{PortID: "outp", Name: "out"}}},
			{NodeID: "tgt", InputPorts: []model.Port{{PortID: "inp", Name: "in"}}},
		},
		FeedbackLoops: []model.FeedbackLoop{loop},
	}
}

func TestComputeInjections_BeforeDelayUsesInitialValue(t *testing.T) {
	loop := directLoop()
	loop.Delay = 2
	g := graphWithLoop(loop)
	states := NewStates(g)

	injections := ComputeInjections(g, states)
	assert.Equal(t, 1.0, injections["tgt"]["in"].ToNumber())
}

func TestComputeInjections_AfterDelayUsesCurrentValue(t *testing.T) {
	loop := directLoop()
	g := graphWithLoop(loop)
	states := NewStates(g)
	states["loop1"].CurrentValue = 42
	states["loop1"].History = []model.HistoryEntry{{Iteration: 0, Value: 42}}

	injections := ComputeInjections(g, states)
	assert.Equal(t, 42.0, injections["tgt"]["in"].ToNumber())
}

func TestComputeInjections_DisabledLoopProducesNothing(t *testing.T) {
	loop := directLoop()
	loop.Enabled = false
	g := graphWithLoop(loop)
	states := NewStates(g)

	injections := ComputeInjections(g, states)
	assert.Empty(t, injections)
}

func TestApplyUpdates_DirectTransformTracksSourceAndConverges(t *testing.T) {
	loop := directLoop()
	g := graphWithLoop(loop)
	states := NewStates(g)
	evalCtx := expr.NewContext(nil)

	lookup := func(nodeID, portName string) (expr.Value, bool) {
		return expr.Number(5), true
	}
	for i := 0; i < 3; i++ {
		err := ApplyUpdates(g, states, lookup, i, evalCtx)
		assert.NoError(t, err)
	}

	state := states["loop1"]
	assert.Equal(t, 5.0, state.CurrentValue)
	assert.True(t, state.Converged)
	assert.NotNil(t, state.ConvergenceIteration)
}

func TestApplyUpdates_MissingSourceSkipsLoop(t *testing.T) {
	loop := directLoop()
	g := graphWithLoop(loop)
	states := NewStates(g)
	evalCtx := expr.NewContext(nil)

	lookup := func(nodeID, portName string) (expr.Value, bool) { return expr.Null(), false }
	err := ApplyUpdates(g, states, lookup, 0, evalCtx)
	assert.NoError(t, err)
	assert.Empty(t, states["loop1"].History)
}

func TestAllConverged_FalseUntilEveryEnabledLoopConverges(t *testing.T) {
	loopA := directLoop()
	loopA.ID = "a"
	loopB := directLoop()
	loopB.ID = "b"
	g := &model.Graph{FeedbackLoops: []model.FeedbackLoop{loopA, loopB}}
	states := NewStates(g)

	assert.False(t, AllConverged(g, states))

	states["a"].Converged = true
	assert.False(t, AllConverged(g, states))

	states["b"].Converged = true
	assert.True(t, AllConverged(g, states))
}

func TestAllConverged_FalseWhenNoLoopHasConvergenceEnabled(t *testing.T) {
	loop := directLoop()
	loop.Convergence.Enabled = false
	g := graphWithLoop(loop)
	states := NewStates(g)
	assert.False(t, AllConverged(g, states))
}
