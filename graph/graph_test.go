package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/scenarioforge/core/model"
)

func sourceNode(id string) model.Node {
	return model.Node{
		NodeID:      id,
		Type:        model.NodeTypeConstant,
		OutputPorts: []model.Port{{PortID: "out", Name: "out", DataType: model.DataTypeNumber}},
	}
}

func sinkNode(id string) model.Node {
	return model.Node{
		NodeID:     id,
		Type:       model.NodeTypeOutput,
		InputPorts: []model.Port{{PortID: "in", Name: "in", DataType: model.DataTypeNumber}},
	}
}

func TestCreateGraph_StartsEmptyAndValid(t *testing.T) {
	g := CreateGraph("demo", "a demo graph")
	assert.NotEmpty(t, g.ID)
	assert.Equal(t, "demo", g.Name)
	assert.Empty(t, g.Nodes)
	assert.Empty(t, g.Edges)
}

func TestAddNode_AssignsIDAndSequence(t *testing.T) {
	g := CreateGraph("g", "")
	n := AddNode(g, model.Node{Type: model.NodeTypeConstant})
	assert.NotEmpty(t, n.NodeID)
	assert.Equal(t, int64(1), n.CreatedAt)

	n2 := AddNode(g, model.Node{Type: model.NodeTypeConstant})
	assert.Equal(t, int64(2), n2.CreatedAt)
	assert.NotEqual(t, n.NodeID, n2.NodeID)
}

func TestAddEdge_RejectsUnknownNode(t *testing.T) {
	g := CreateGraph("g", "")
	_, err := AddEdge(g, model.Edge{
		Source: model.Endpoint{NodeID: "missing", PortID: "out"},
		Target: model.Endpoint{NodeID: "missing2", PortID: "in"},
	})
	assert.Error(t, err)
}

func TestAddEdge_RejectsUnknownPort(t *testing.T) {
	g := CreateGraph("g", "")
	src := AddNode(g, sourceNode(""))
	dst := AddNode(g, sinkNode(""))
	_, err := AddEdge(g, model.Edge{
		Source: model.Endpoint{NodeID: src.NodeID, PortID: "bogus"},
		Target: model.Endpoint{NodeID: dst.NodeID, PortID: "in"},
	})
	assert.Error(t, err)
}

func TestAddEdge_SucceedsWithValidEndpoints(t *testing.T) {
	g := CreateGraph("g", "")
	src := AddNode(g, sourceNode(""))
	dst := AddNode(g, sinkNode(""))
	e, err := AddEdge(g, model.Edge{
		Source: model.Endpoint{NodeID: src.NodeID, PortID: "out"},
		Target: model.Endpoint{NodeID: dst.NodeID, PortID: "in"},
		Type:   model.EdgeTypeDataFlow,
	})
	assert.NoError(t, err)
	assert.NotEmpty(t, e.EdgeID)
	assert.Len(t, g.Edges, 1)
}

func TestUpdateNode_PreservesCreatedAt(t *testing.T) {
	g := CreateGraph("g", "")
	n := AddNode(g, sourceNode(""))
	updated := n
	updated.Name = "renamed"
	assert.NoError(t, UpdateNode(g, updated))
	stored, _, _ := g.NodeByID(n.NodeID)
	assert.Equal(t, "renamed", stored.Name)
	assert.Equal(t, n.CreatedAt, stored.CreatedAt)
}

func TestUpdateNode_MissingNodeErrors(t *testing.T) {
	g := CreateGraph("g", "")
	err := UpdateNode(g, model.Node{NodeID: "missing"})
	assert.Error(t, err)
}

func TestRemoveNode_AlsoRemovesIncidentEdges(t *testing.T) {
	g := CreateGraph("g", "")
	src := AddNode(g, sourceNode(""))
	dst := AddNode(g, sinkNode(""))
	_, err := AddEdge(g, model.Edge{
		Source: model.Endpoint{NodeID: src.NodeID, PortID: "out"},
		Target: model.Endpoint{NodeID: dst.NodeID, PortID: "in"},
	})
	assert.NoError(t, err)

	assert.NoError(t, RemoveNode(g, src.NodeID))
	assert.Len(t, g.Nodes, 1)
	assert.Empty(t, g.Edges)
}

func TestRemoveEdge_DeletesOnlyThatEdge(t *testing.T) {
	g := CreateGraph("g", "")
	src := AddNode(g, sourceNode(""))
	dst := AddNode(g, sinkNode(""))
	e, err := AddEdge(g, model.Edge{
		Source: model.Endpoint{NodeID: src.NodeID, PortID: "out"},
		Target: model.Endpoint{NodeID: dst.NodeID, PortID: "in"},
	})
	assert.NoError(t, err)
	assert.NoError(t, RemoveEdge(g, e.EdgeID))
	assert.Empty(t, g.Edges)
}
