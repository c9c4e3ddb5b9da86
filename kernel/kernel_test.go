package kernel

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/scenarioforge/core/expr"
	"github.com/scenarioforge/core/model"
	"github.com/scenarioforge/core/rng"
)

func newTestContext() *expr.ExpressionContext {
	seed := uint64(1)
	return expr.NewContext(rng.NewLCG(&seed))
}

func TestConstantKernel_EmitsValueUnchanged(t *testing.T) {
	node := &model.Node{NodeID: "n1", Data: map[string]any{"value": 42.0}}
	out, err := ConstantKernel(node, nil, newTestContext())
	assert.NoError(t, err)
	assert.Equal(t, 42.0, out["output"].ToNumber())
}

func TestParameterKernel_FallsBackToDefault(t *testing.T) {
	node := &model.Node{NodeID: "n1", Data: map[string]any{"default": 7.0}}
	out, err := ParameterKernel(node, nil, newTestContext())
	assert.NoError(t, err)
	assert.Equal(t, 7.0, out["value"].ToNumber())
}

func TestParameterKernel_ValuePreferredOverDefault(t *testing.T) {
	node := &model.Node{NodeID: "n1", Data: map[string]any{"value": 1.0, "default": 7.0}}
	out, err := ParameterKernel(node, nil, newTestContext())
	assert.NoError(t, err)
	assert.Equal(t, 1.0, out["value"].ToNumber())
}

func TestTransformerKernel_EvaluatesExpressionAgainstInputs(t *testing.T) {
	node := &model.Node{NodeID: "n1", Data: map[string]any{"expression": "$inputs.a + $inputs.b"}}
	inputs := map[string]expr.Value{"a": expr.Number(2), "b": expr.Number(3)}
	out, err := TransformerKernel(node, inputs, newTestContext())
	assert.NoError(t, err)
	assert.Equal(t, 5.0, out["result"].ToNumber())
}

func TestTransformerKernel_ParseErrorBecomesNodeError(t *testing.T) {
	node := &model.Node{NodeID: "n1", Data: map[string]any{"expression": "1 +"}}
	_, err := TransformerKernel(node, nil, newTestContext())
	assert.Error(t, err)
}

func TestAggregatorKernel_SumInPortOrder(t *testing.T) {
	node := &model.Node{
		NodeID: "n1",
		Data:   map[string]any{"method": "sum"},
		InputPorts: []model.Port{
			{PortID: "p1", Name: "a"},
			{PortID: "p2", Name: "b"},
		},
	}
	inputs := map[string]expr.Value{"a": expr.Number(2), "b": expr.Number(3)}
	out, err := AggregatorKernel(node, inputs, newTestContext())
	assert.NoError(t, err)
	assert.Equal(t, 5.0, out["result"].ToNumber())
}

func TestAggregatorKernel_SkipsNullInputs(t *testing.T) {
	node := &model.Node{
		NodeID: "n1",
		Data:   map[string]any{"method": "count"},
		InputPorts: []model.Port{
			{PortID: "p1", Name: "a"},
			{PortID: "p2", Name: "b"},
		},
	}
	inputs := map[string]expr.Value{"a": expr.Number(2), "b": expr.Null()}
	out, err := AggregatorKernel(node, inputs, newTestContext())
	assert.NoError(t, err)
	assert.Equal(t, 1.0, out["result"].ToNumber())
}

func TestAggregatorKernel_UnknownMethodErrors(t *testing.T) {
	node := &model.Node{NodeID: "n1", Data: map[string]any{"method": "bogus"}}
	_, err := AggregatorKernel(node, nil, newTestContext())
	assert.Error(t, err)
}

func TestDecisionKernel_PicksBranchByCondition(t *testing.T) {
	node := &model.Node{
		NodeID: "n1",
		Data: map[string]any{
			"condition":  "$inputs.x > 0",
			"trueValue":  "positive",
			"falseValue": "non-positive",
		},
	}
	out, err := DecisionKernel(node, map[string]expr.Value{"x": expr.Number(1)}, newTestContext())
	assert.NoError(t, err)
	assert.Equal(t, "positive", out["result"].Str())

	out, err = DecisionKernel(node, map[string]expr.Value{"x": expr.Number(-1)}, newTestContext())
	assert.NoError(t, err)
	assert.Equal(t, "non-positive", out["result"].Str())
}

func TestConstraintKernel_ReportsViolationMagnitudeNotError(t *testing.T) {
	node := &model.Node{NodeID: "n1", Data: map[string]any{"min": 0.0, "max": 10.0}}
	out, err := ConstraintKernel(node, map[string]expr.Value{"value": expr.Number(15)}, newTestContext())
	assert.NoError(t, err)
	assert.False(t, out["satisfied"].ToBool())
	assert.Equal(t, 5.0, out["violation"].ToNumber())
}

func TestConstraintKernel_SatisfiedWithinBounds(t *testing.T) {
	node := &model.Node{NodeID: "n1", Data: map[string]any{"min": 0.0, "max": 10.0}}
	out, err := ConstraintKernel(node, map[string]expr.Value{"value": expr.Number(5)}, newTestContext())
	assert.NoError(t, err)
	assert.True(t, out["satisfied"].ToBool())
	assert.Equal(t, 0.0, out["violation"].ToNumber())
}

func TestOutputKernel_EmitsUnderLabel(t *testing.T) {
	node := &model.Node{NodeID: "n1", Data: map[string]any{"label": "total"}}
	out, err := OutputKernel(node, map[string]expr.Value{"value": expr.Number(9)}, newTestContext())
	assert.NoError(t, err)
	assert.Equal(t, 9.0, out["total"].ToNumber())
}

func TestOutputKernel_DefaultsLabelToResult(t *testing.T) {
	node := &model.Node{NodeID: "n1", Data: map[string]any{}}
	out, err := OutputKernel(node, map[string]expr.Value{"value": expr.Number(9)}, newTestContext())
	assert.NoError(t, err)
	assert.Equal(t, 9.0, out["result"].ToNumber())
}

func TestDistributionKernel_SamplesFromContextRNG(t *testing.T) {
	node := &model.Node{
		NodeID: "n1",
		Data:   map[string]any{"distributionType": "uniform", "min": 0.0, "max": 1.0},
	}
	out, err := DistributionKernel(node, nil, newTestContext())
	assert.NoError(t, err)
	v := out["sample"].ToNumber()
	assert.GreaterOrEqual(t, v, 0.0)
	assert.Less(t, v, 1.0)
}

func TestDistributionKernel_RequiresRNGInContext(t *testing.T) {
	node := &model.Node{NodeID: "n1", Data: map[string]any{"distributionType": "uniform"}}
	_, err := DistributionKernel(node, nil, expr.NewContext(nil))
	assert.Error(t, err)
}

func TestRegistry_LookupDispatchesByTypeThenComputeFunction(t *testing.T) {
	r := NewRegistry()

	fn, ok := r.Lookup(&model.Node{Type: model.NodeTypeConstant})
	assert.True(t, ok)
	assert.NotNil(t, fn)

	_, ok = r.Lookup(&model.Node{Type: "NOT_A_BUILTIN", ComputeFunction: "custom.thing"})
	assert.False(t, ok)

	r.Register("custom.thing", ConstantKernel, true)
	fn, ok = r.Lookup(&model.Node{Type: "NOT_A_BUILTIN", ComputeFunction: "custom.thing"})
	assert.True(t, ok)
	assert.NotNil(t, fn)
}

func TestRegistry_IsPureFailsClosedForUnknownNode(t *testing.T) {
	r := NewRegistry()
	assert.False(t, r.IsPure(&model.Node{Type: "NOT_A_BUILTIN"}))
	assert.True(t, r.IsPure(&model.Node{Type: model.NodeTypeConstant}))
	assert.False(t, r.IsPure(&model.Node{Type: model.NodeTypeSubgraph}))
}
