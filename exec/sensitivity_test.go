package exec

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/scenarioforge/core/graph"
	"github.com/scenarioforge/core/kernel"
	"github.com/scenarioforge/core/model"
)

// buildLinearGraph builds PARAMETER(x) -> TRANSFORMER(3*x + 1) -> OUTPUT,
// a perfectly linear response for sensitivity fitting.
func buildLinearGraph(t *testing.T) (*model.Graph, string, string) {
	t.Helper()
	g := graph.CreateGraph("linear", "")
	p := graph.AddNode(g, model.Node{
		Type:        model.NodeTypeParameter,
		Data:        map[string]any{"value": 0.0},
		OutputPorts: []model.Port{{PortID: "out", Name: "value", DataType: model.DataTypeNumber}},
	})
	tr := graph.AddNode(g, model.Node{
		Type:        model.NodeTypeTransformer,
		Data:        map[string]any{"expression": "3 * $inputs.x + 1"},
		InputPorts:  []model.Port{{PortID: "in", Name: "x", DataType: model.DataTypeNumber}},
		OutputPorts: []model.Port{{PortID: "out", Name: "result", DataType: model.DataTypeNumber}},
	})
	out := graph.AddNode(g, model.Node{
		Type:       model.NodeTypeOutput,
		Data:       map[string]any{"label": "y"},
		InputPorts: []model.Port{{PortID: "in", Name: "value", DataType: model.DataTypeNumber}},
	})
	_, err := graph.AddEdge(g, model.Edge{Source: model.Endpoint{NodeID: p.NodeID, PortID: "out"}, Target: model.Endpoint{NodeID: tr.NodeID, PortID: "in"}, Type: model.EdgeTypeDataFlow})
	assert.NoError(t, err)
	_, err = graph.AddEdge(g, model.Edge{Source: model.Endpoint{NodeID: tr.NodeID, PortID: "out"}, Target: model.Endpoint{NodeID: out.NodeID, PortID: "in"}, Type: model.EdgeTypeDataFlow})
	assert.NoError(t, err)
	return g, p.NodeID, out.NodeID
}

func TestRunSensitivity_RecoversKnownLinearSlope(t *testing.T) {
	g, paramID, outID := buildLinearGraph(t)
	registry := kernel.NewRegistry()
	seed := uint64(1)

	result := RunSensitivity(g, nil, registry, &seed, SensitivityConfig{
		ParameterNodeID: paramID,
		ParameterField:  "value",
		OutputNodeID:    outID,
		OutputKey:       "y",
		Lo:              0, Hi: 10, Steps: 11,
	})
	assert.True(t, result.Success)
	assert.InDelta(t, 3.0, result.Slope, 1e-9)
	assert.InDelta(t, 1.0, result.RSquared, 1e-9)
	assert.Len(t, result.DataPoints, 11)
}

func TestRunSensitivity_DoesNotMutateOriginalGraph(t *testing.T) {
	g, paramID, outID := buildLinearGraph(t)
	registry := kernel.NewRegistry()
	seed := uint64(1)

	RunSensitivity(g, nil, registry, &seed, SensitivityConfig{
		ParameterNodeID: paramID,
		ParameterField:  "value",
		OutputNodeID:    outID,
		OutputKey:       "y",
		Lo:              5, Hi: 50, Steps: 3,
	})

	node, _, _ := g.NodeByID(paramID)
	assert.Equal(t, 0.0, node.Data["value"])
}

func TestRunSensitivity_UnknownOutputKeyFails(t *testing.T) {
	g, paramID, outID := buildLinearGraph(t)
	registry := kernel.NewRegistry()
	seed := uint64(1)

	result := RunSensitivity(g, nil, registry, &seed, SensitivityConfig{
		ParameterNodeID: paramID,
		ParameterField:  "value",
		OutputNodeID:    outID,
		OutputKey:       "bogus",
		Lo:              0, Hi: 1, Steps: 2,
	})
	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Error)
}

func TestRunSensitivity_SingleStepUsesLowerBound(t *testing.T) {
	g, paramID, outID := buildLinearGraph(t)
	registry := kernel.NewRegistry()
	seed := uint64(1)

	result := RunSensitivity(g, nil, registry, &seed, SensitivityConfig{
		ParameterNodeID: paramID,
		ParameterField:  "value",
		OutputNodeID:    outID,
		OutputKey:       "y",
		Lo:              7, Hi: 20, Steps: 1,
	})
	assert.True(t, result.Success)
	assert.Len(t, result.DataPoints, 1)
	assert.Equal(t, 7.0, result.DataPoints[0].Input)
}
