package exec

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/scenarioforge/core/graph"
	"github.com/scenarioforge/core/kernel"
	"github.com/scenarioforge/core/model"
)

// buildChainGraph builds CONSTANT(5) -> TRANSFORMER($inputs.in * 2) -> OUTPUT,
// the S1 "simple deterministic chain" scenario.
func buildChainGraph(t *testing.T) *model.Graph {
	t.Helper()
	g := graph.CreateGraph("chain", "")
	c := graph.AddNode(g, model.Node{
		Type:        model.NodeTypeConstant,
		Name:        "const",
		Data:        map[string]any{"value": 5.0},
		OutputPorts: []model.Port{{PortID: "out", Name: "output", DataType: model.DataTypeNumber}},
	})
	tr := graph.AddNode(g, model.Node{
		Type:        model.NodeTypeTransformer,
		Name:        "double",
		Data:        map[string]any{"expression": "$inputs.in * 2"},
		InputPorts:  []model.Port{{PortID: "in", Name: "in", DataType: model.DataTypeNumber}},
		OutputPorts: []model.Port{{PortID: "out", Name: "result", DataType: model.DataTypeNumber}},
	})
	out := graph.AddNode(g, model.Node{
		Type:       model.NodeTypeOutput,
		Name:       "out",
		Data:       map[string]any{"label": "result"},
		InputPorts: []model.Port{{PortID: "in", Name: "value", DataType: model.DataTypeNumber}},
	})
	_, err := graph.AddEdge(g, model.Edge{Source: model.Endpoint{NodeID: c.NodeID, PortID: "out"}, Target: model.Endpoint{NodeID: tr.NodeID, PortID: "in"}, Type: model.EdgeTypeDataFlow})
	assert.NoError(t, err)
	_, err = graph.AddEdge(g, model.Edge{Source: model.Endpoint{NodeID: tr.NodeID, PortID: "out"}, Target: model.Endpoint{NodeID: out.NodeID, PortID: "in"}, Type: model.EdgeTypeDataFlow})
	assert.NoError(t, err)
	return g
}

func TestExecute_SimpleChainPropagatesValue(t *testing.T) {
	g := buildChainGraph(t)
	registry := kernel.NewRegistry()
	seed := uint64(1)

	result := Execute(g, nil, registry, &seed)
	assert.True(t, result.Success)
	assert.Len(t, result.OutputNodes, 1)
	assert.Equal(t, 10.0, result.OutputNodes[0].Outputs["result"].ToNumber())
}

func TestExecute_FailingNodeReportsID(t *testing.T) {
	g := graph.CreateGraph("bad", "")
	n := graph.AddNode(g, model.Node{
		Type: model.NodeTypeTransformer,
		Data: map[string]any{"expression": "1 +"},
	})
	registry := kernel.NewRegistry()
	seed := uint64(1)

	result := Execute(g, nil, registry, &seed)
	assert.False(t, result.Success)
	assert.Equal(t, n.NodeID, result.FailingNodeID)
}

func TestExecute_CyclicGraphFailsWithoutRunningAnyNode(t *testing.T) {
	g := graph.CreateGraph("cyclic", "")
	a := graph.AddNode(g, model.Node{
		Type:        model.NodeTypeTransformer,
		InputPorts:  []model.Port{{PortID: "in", Name: "in"}},
		OutputPorts: []model.Port{{PortID: "out", Name: "out"}},
		Data:        map[string]any{"expression": "$inputs.in"},
	})
	b := graph.AddNode(g, model.Node{
		Type:        model.NodeTypeTransformer,
		InputPorts:  []model.Port{{PortID: "in", Name: "in"}},
		OutputPorts: []model.Port{{PortID: "out", Name: "out"}},
		Data:        map[string]any{"expression": "$inputs.in"},
	})
	_, err := graph.AddEdge(g, model.Edge{Source: model.Endpoint{NodeID: a.NodeID, PortID: "out"}, Target: model.Endpoint{NodeID: b.NodeID, PortID: "in"}, Type: model.EdgeTypeDataFlow})
	assert.NoError(t, err)
	_, err = graph.AddEdge(g, model.Edge{Source: model.Endpoint{NodeID: b.NodeID, PortID: "out"}, Target: model.Endpoint{NodeID: a.NodeID, PortID: "in"}, Type: model.EdgeTypeDataFlow})
	assert.NoError(t, err)

	registry := kernel.NewRegistry()
	seed := uint64(1)
	result := Execute(g, nil, registry, &seed)
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "cycle")
}

func TestExecute_NonMultiplePortFanInKeepsLastEdgeByCreationOrder(t *testing.T) {
	g := graph.CreateGraph("fanin", "")
	a := graph.AddNode(g, model.Node{Type: model.NodeTypeConstant, Data: map[string]any{"value": 1.0}, OutputPorts: []model.Port{{PortID: "out", Name: "output"}}})
	b := graph.AddNode(g, model.Node{Type: model.NodeTypeConstant, Data: map[string]any{"value": 2.0}, OutputPorts: []model.Port{{PortID: "out", Name: "output"}}})
	sink := graph.AddNode(g, model.Node{
		Type:        model.NodeTypeTransformer,
		InputPorts:  []model.Port{{PortID: "in", Name: "in"}},
		OutputPorts: []model.Port{{PortID: "out", Name: "result"}},
		Data:        map[string]any{"expression": "$inputs.in"},
	})
	_, err := graph.AddEdge(g, model.Edge{Source: model.Endpoint{NodeID: a.NodeID, PortID: "out"}, Target: model.Endpoint{NodeID: sink.NodeID, PortID: "in"}, Type: model.EdgeTypeDataFlow})
	assert.NoError(t, err)
	_, err = graph.AddEdge(g, model.Edge{Source: model.Endpoint{NodeID: b.NodeID, PortID: "out"}, Target: model.Endpoint{NodeID: sink.NodeID, PortID: "in"}, Type: model.EdgeTypeDataFlow})
	assert.NoError(t, err)

	registry := kernel.NewRegistry()
	seed := uint64(1)
	result := Execute(g, nil, registry, &seed)
	assert.True(t, result.Success)
	assert.Equal(t, 2.0, result.OutputsByNode[sink.NodeID]["result"].ToNumber())
}
