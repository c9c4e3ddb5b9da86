package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/scenarioforge/core/model"
)

func TestValidate_CleanGraphHasNoIssues(t *testing.T) {
	g, _ := linkedGraph(t)
	errs, warnings := Validate(g)
	assert.Empty(t, errs)
	assert.Empty(t, warnings)
}

func TestValidate_DanglingEdgeEndpointIsAnError(t *testing.T) {
	g := CreateGraph("g", "")
	n := AddNode(g, sourceNode(""))
	g.Edges = append(g.Edges, model.Edge{
		EdgeID: "e1",
		Source: model.Endpoint{NodeID: n.NodeID, PortID: "out"},
		Target: model.Endpoint{NodeID: "does-not-exist", PortID: "in"},
	})
	errs, _ := Validate(g)
	assert.NotEmpty(t, errs)
}

func TestValidate_NonOutputDeadEndIsAWarning(t *testing.T) {
	g := CreateGraph("g", "")
	AddNode(g, sourceNode("")) // CONSTANT node with no outgoing edge
	_, warnings := Validate(g)
	assert.NotEmpty(t, warnings)
}

func TestValidate_MultipleEdgesIntoNonMultiplePortWarns(t *testing.T) {
	g := CreateGraph("g", "")
	a := AddNode(g, sourceNode(""))
	b := AddNode(g, sourceNode(""))
	dst := AddNode(g, sinkNode(""))
	_, err := AddEdge(g, model.Edge{Source: model.Endpoint{NodeID: a.NodeID, PortID: "out"}, Target: model.Endpoint{NodeID: dst.NodeID, PortID: "in"}})
	assert.NoError(t, err)
	_, err = AddEdge(g, model.Edge{Source: model.Endpoint{NodeID: b.NodeID, PortID: "out"}, Target: model.Endpoint{NodeID: dst.NodeID, PortID: "in"}})
	assert.NoError(t, err)

	_, warnings := Validate(g)
	found := false
	for _, w := range warnings {
		if w.NodeID == dst.NodeID {
			found = true
		}
	}
	assert.True(t, found)
}

func TestValidate_NonFeedbackCycleIsAnError(t *testing.T) {
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
	_, err := AddEdge(g, model.Edge{Source: model.Endpoint{NodeID: a.NodeID, PortID: "out"}, Target: model.Endpoint{NodeID: b.NodeID, PortID: "in"}})
	assert.NoError(t, err)
	_, err = AddEdge(g, model.Edge{Source: model.Endpoint{NodeID: b.NodeID, PortID: "out"}, Target: model.Endpoint{NodeID: a.NodeID, PortID: "in"}})
	assert.NoError(t, err)

	errs, _ := Validate(g)
	assert.NotEmpty(t, errs)
}

func TestValidate_SuspiciousExpressionWarns(t *testing.T) {
	g := CreateGraph("g", "")
	AddNode(g, model.Node{
		Type: model.NodeTypeTransformer,
		Data: map[string]any{"expression": "(1 + 2"},
	})
	_, warnings := Validate(g)
	assert.NotEmpty(t, warnings)
}
