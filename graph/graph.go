// Package graph implements the mutation and query primitives over a
// model.Graph: creation, node/edge CRUD, cloning, topological
// ordering, validation, and the JSON/YAML wire format.
package graph

import (
	"github.com/google/uuid"

	"github.com/scenarioforge/core/model"
)

// CreateGraph builds an empty, valid Graph shell.
func CreateGraph(name, description string) *model.Graph {
	return &model.Graph{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		Nodes:       []model.Node{},
		Edges:       []model.Edge{},
		Metadata:    map[string]any{},
		Params:      map[string]any{},
		Version:     1,
	}
}

// AddNode appends n to g, assigning an ID and CreatedAt sequence
// number if not already set. Returns the stored node (with its
// assigned fields) for the caller's convenience.
func AddNode(g *model.Graph, n model.Node) model.Node {
	if n.NodeID == "" {
		n.NodeID = uuid.NewString()
	}
	n.CreatedAt = g.NextSeq()
	g.Nodes = append(g.Nodes, n)
	return n
}

// AddEdge appends e to g after checking that both endpoints reference
// existing nodes and ports. It does not check for cycles — that is a
// property of the ordering, not of graph mutation.
func AddEdge(g *model.Graph, e model.Edge) (model.Edge, error) {
	if err := checkEndpoint(g, e.Source); err != nil {
		return e, err
	}
	if err := checkEndpoint(g, e.Target); err != nil {
		return e, err
	}
	if e.EdgeID == "" {
		e.EdgeID = uuid.NewString()
	}
	e.CreatedAt = g.NextSeq()
	g.Edges = append(g.Edges, e)
	return e, nil
}

func checkEndpoint(g *model.Graph, ep model.Endpoint) error {
	node, _, ok := g.NodeByID(ep.NodeID)
	if !ok {
		return model.NewDomainError(model.ErrCodeNotFound, "edge endpoint references unknown node '"+ep.NodeID+"'", nil)
	}
	if ep.PortID == "" {
		return nil
	}
	if _, ok := node.InputPort(ep.PortID); ok {
		return nil
	}
	if _, ok := node.OutputPort(ep.PortID); ok {
		return nil
	}
	return model.NewNodeError(model.ErrCodeNotFound, ep.NodeID, "port '"+ep.PortID+"' not found on node", nil)
}

// UpdateNode replaces the node with matching NodeID, preserving its
// CreatedAt sequence number (identity in ordering survives an update).
func UpdateNode(g *model.Graph, updated model.Node) error {
	_, idx, ok := g.NodeByID(updated.NodeID)
	if !ok {
		return model.NewNodeError(model.ErrCodeNotFound, updated.NodeID, "node not found", nil)
	}
	updated.CreatedAt = g.Nodes[idx].CreatedAt
	g.Nodes[idx] = updated
	return nil
}

// UpdateEdge replaces the edge with matching EdgeID, preserving its
// CreatedAt sequence number.
func UpdateEdge(g *model.Graph, updated model.Edge) error {
	_, idx, ok := g.EdgeByID(updated.EdgeID)
	if !ok {
		return model.NewDomainError(model.ErrCodeNotFound, "edge '"+updated.EdgeID+"' not found", nil)
	}
	updated.CreatedAt = g.Edges[idx].CreatedAt
	g.Edges[idx] = updated
	return nil
}

// RemoveNode deletes the node and every edge incident to it.
func RemoveNode(g *model.Graph, nodeID string) error {
	_, idx, ok := g.NodeByID(nodeID)
	if !ok {
		return model.NewNodeError(model.ErrCodeNotFound, nodeID, "node not found", nil)
	}
	g.Nodes = append(g.Nodes[:idx], g.Nodes[idx+1:]...)

	kept := g.Edges[:0:0]
	for _, e := range g.Edges {
		if e.Source.NodeID == nodeID || e.Target.NodeID == nodeID {
			continue
		}
		kept = append(kept, e)
	}
	g.Edges = kept
	return nil
}

// RemoveEdge deletes a single edge by ID.
func RemoveEdge(g *model.Graph, edgeID string) error {
	_, idx, ok := g.EdgeByID(edgeID)
	if !ok {
		return model.NewDomainError(model.ErrCodeNotFound, "edge '"+edgeID+"' not found", nil)
	}
	g.Edges = append(g.Edges[:idx], g.Edges[idx+1:]...)
	return nil
}
