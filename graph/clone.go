package graph

import (
	"github.com/google/uuid"

	"github.com/scenarioforge/core/model"
)

// CloneGraph deep-copies g, assigning fresh IDs to every node and edge
// while preserving topology (edges are rewritten to point at the new
// node IDs) and relative insertion order (CreatedAt sequence numbers
// are renumbered from zero in the clone's own namespace).
func CloneGraph(g *model.Graph) *model.Graph {
	idMap := make(map[string]string, len(g.Nodes))
	clone := &model.Graph{
		ID:          uuid.NewString(),
		Name:        g.Name,
		Description: g.Description,
		Nodes:       make([]model.Node, len(g.Nodes)),
		Edges:       make([]model.Edge, len(g.Edges)),
		Metadata:    cloneAnyMap(g.Metadata),
		Params:      cloneAnyMap(g.Params),
		Version:     g.Version,
	}

	for i, n := range g.Nodes {
		newID := uuid.NewString()
		idMap[n.NodeID] = newID
		cn := n
		cn.NodeID = newID
		cn.Data = cloneAnyMap(n.Data)
		cn.InputPorts = append([]model.Port(nil), n.InputPorts...)
		cn.OutputPorts = append([]model.Port(nil), n.OutputPorts...)
		cn.CreatedAt = clone.NextSeq()
		clone.Nodes[i] = cn
	}

	for i, e := range g.Edges {
		ce := e
		ce.EdgeID = uuid.NewString()
		ce.Source.NodeID = idMap[e.Source.NodeID]
		ce.Target.NodeID = idMap[e.Target.NodeID]
		ce.CreatedAt = clone.NextSeq()
		clone.Edges[i] = ce
	}

	if len(g.FeedbackLoops) > 0 {
		clone.FeedbackLoops = make([]model.FeedbackLoop, len(g.FeedbackLoops))
		for i, fl := range g.FeedbackLoops {
			cfl := fl
			cfl.ID = uuid.NewString()
			cfl.Source.NodeID = idMap[fl.Source.NodeID]
			cfl.Target.NodeID = idMap[fl.Target.NodeID]
			clone.FeedbackLoops[i] = cfl
		}
	}

	return clone
}

func cloneAnyMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneAnyValue(v)
	}
	return out
}

func cloneAnyValue(v any) any {
	switch x := v.(type) {
	case map[string]any:
		return cloneAnyMap(x)
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = cloneAnyValue(e)
		}
		return out
	default:
		return x
	}
}
