package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/scenarioforge/core/model"
)

func linkedGraph(t *testing.T) (*model.Graph, []string) {
	t.Helper()
	g := CreateGraph("g", "")
	a := AddNode(g, sourceNode(""))
	b := AddNode(g, model.Node{
		Type:        model.NodeTypeTransformer,
		InputPorts:  []model.Port{{PortID: "in", Name: "in", DataType: model.DataTypeNumber}},
		OutputPorts: []model.Port{{PortID: "out", Name: "out", DataType: model.DataTypeNumber}},
	})
	c := AddNode(g, sinkNode(""))
	_, err := AddEdge(g, model.Edge{Source: model.Endpoint{NodeID: a.NodeID, PortID: "out"}, Target: model.Endpoint{NodeID: b.NodeID, PortID: "in"}, Type: model.EdgeTypeDataFlow})
	assert.NoError(t, err)
	_, err = AddEdge(g, model.Edge{Source: model.Endpoint{NodeID: b.NodeID, PortID: "out"}, Target: model.Endpoint{NodeID: c.NodeID, PortID: "in"}, Type: model.EdgeTypeDataFlow})
	assert.NoError(t, err)
	return g, []string{a.NodeID, b.NodeID, c.NodeID}
}

func TestTopologicalSort_OrdersALinearChain(t *testing.T) {
	g, ids := linkedGraph(t)
	order, ok := TopologicalSort(g)
	assert.True(t, ok)
	assert.Equal(t, ids, order)
}

func TestTopologicalSort_ReportsNonFeedbackCycle(t *testing.T) {
	g := CreateGraph("g", "")
	a := AddNode(g, model.Node{
		Type:        model.NodeTypeTransformer,
		InputPorts:  []model.Port{{PortID: "in", Name: "in"}},
		OutputPorts: []model.Port{{PortID: "out", Name: "out"}},
	})
	b := AddNode(g, model.Node{
		Type:        model.NodeTypeTransformer,
		InputPorts:  []model.Port{{PortID: "in", Name: "in"}},
		OutputPorts: []model.Port{{PortID: "out", Name: "out"}},
	})
	_, err := AddEdge(g, model.Edge{Source: model.Endpoint{NodeID: a.NodeID, PortID: "out"}, Target: model.Endpoint{NodeID: b.NodeID, PortID: "in"}, Type: model.EdgeTypeDataFlow})
	assert.NoError(t, err)
	_, err = AddEdge(g, model.Edge{Source: model.Endpoint{NodeID: b.NodeID, PortID: "out"}, Target: model.Endpoint{NodeID: a.NodeID, PortID: "in"}, Type: model.EdgeTypeDataFlow})
	assert.NoError(t, err)

	_, ok := TopologicalSort(g)
	assert.False(t, ok)
}

func TestTopologicalSort_FeedbackEdgeNeverBlocksOrdering(t *testing.T) {
	g := CreateGraph("g", "")
	a := AddNode(g, model.Node{
		Type:        model.NodeTypeTransformer,
		InputPorts:  []model.Port{{PortID: "in", Name: "in"}},
		OutputPorts: []model.Port{{PortID: "out", Name: "out"}},
	})
	b := AddNode(g, model.Node{
		Type:        model.NodeTypeTransformer,
		InputPorts:  []model.Port{{PortID: "in", Name: "in"}},
		OutputPorts: []model.Port{{PortID: "out", Name: "out"}},
	})
	_, err := AddEdge(g, model.Edge{Source: model.Endpoint{NodeID: a.NodeID, PortID: "out"}, Target: model.Endpoint{NodeID: b.NodeID, PortID: "in"}, Type: model.EdgeTypeDataFlow})
	assert.NoError(t, err)
	_, err = AddEdge(g, model.Edge{Source: model.Endpoint{NodeID: b.NodeID, PortID: "out"}, Target: model.Endpoint{NodeID: a.NodeID, PortID: "in"}, Type: model.EdgeTypeFeedback})
	assert.NoError(t, err)

	order, ok := TopologicalSort(g)
	assert.True(t, ok)
	assert.Equal(t, []string{a.NodeID, b.NodeID}, order)
}

func TestTopologicalSort_TiesBrokenByCreationOrder(t *testing.T) {
	g := CreateGraph("g", "")
	// Two independent source nodes with no edges between them: ready
	// order must reflect insertion order, not map iteration order.
	first := AddNode(g, sourceNode(""))
	second := AddNode(g, sourceNode(""))

	order, ok := TopologicalSort(g)
	assert.True(t, ok)
	assert.Equal(t, []string{first.NodeID, second.NodeID}, order)
}
