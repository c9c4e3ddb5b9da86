package graph

import (
	"fmt"

	"github.com/scenarioforge/core/model"
)

// Issue is a single validation finding. Errors block execution;
// warnings do not.
type Issue struct {
	Message string
	NodeID  string
	EdgeID  string
}

// Validate checks structural well-formedness: dangling edge
// endpoints, missing ports, and non-FEEDBACK cycles are errors;
// non-OUTPUT dead ends, mismatched edge data types, and suspicious
// expression syntax are warnings.
func Validate(g *model.Graph) (errors []Issue, warnings []Issue) {
	nodeByID := make(map[string]*model.Node, len(g.Nodes))
	for i := range g.Nodes {
		nodeByID[g.Nodes[i].NodeID] = &g.Nodes[i]
	}

	hasOutgoing := make(map[string]bool, len(g.Nodes))

	for i := range g.Edges {
		e := &g.Edges[i]
		src, srcOK := nodeByID[e.Source.NodeID]
		tgt, tgtOK := nodeByID[e.Target.NodeID]
		if !srcOK {
			errors = append(errors, Issue{Message: fmt.Sprintf("edge %s: source node '%s' does not exist", e.EdgeID, e.Source.NodeID), EdgeID: e.EdgeID})
			continue
		}
		if !tgtOK {
			errors = append(errors, Issue{Message: fmt.Sprintf("edge %s: target node '%s' does not exist", e.EdgeID, e.Target.NodeID), EdgeID: e.EdgeID})
			continue
		}
		hasOutgoing[e.Source.NodeID] = true

		outPort, outOK := src.OutputPort(e.Source.PortID)
		if !outOK {
			errors = append(errors, Issue{Message: fmt.Sprintf("edge %s: output port '%s' not found on node '%s'", e.EdgeID, e.Source.PortID, e.Source.NodeID), EdgeID: e.EdgeID, NodeID: e.Source.NodeID})
		}
		inPort, inOK := tgt.InputPort(e.Target.PortID)
		if !inOK {
			errors = append(errors, Issue{Message: fmt.Sprintf("edge %s: input port '%s' not found on node '%s'", e.EdgeID, e.Target.PortID, e.Target.NodeID), EdgeID: e.EdgeID, NodeID: e.Target.NodeID})
		}
		if outOK && inOK && !model.TypesCompatible(outPort.DataType, inPort.DataType) {
			warnings = append(warnings, Issue{Message: fmt.Sprintf("edge %s: data type mismatch ('%s' -> '%s')", e.EdgeID, outPort.DataType, inPort.DataType), EdgeID: e.EdgeID})
		}
	}

	if _, ok := TopologicalSort(g); !ok {
		errors = append(errors, Issue{Message: "graph contains a non-FEEDBACK cycle"})
	}

	fanIn := make(map[string]int)
	for _, e := range g.Edges {
		fanIn[e.Target.NodeID+"\x00"+e.Target.PortID]++
	}
	for i := range g.Nodes {
		n := &g.Nodes[i]
		if n.Type != model.NodeTypeOutput && !hasOutgoing[n.NodeID] {
			warnings = append(warnings, Issue{Message: fmt.Sprintf("node '%s' (%s) has no outgoing edge", n.NodeID, n.Name), NodeID: n.NodeID})
		}
		for _, p := range n.InputPorts {
			if p.Multiple {
				continue
			}
			if fanIn[n.NodeID+"\x00"+p.PortID] >= 2 {
				warnings = append(warnings, Issue{Message: fmt.Sprintf("node '%s' input port '%s' receives multiple edges but is not 'multiple'; last edge wins", n.NodeID, p.PortID), NodeID: n.NodeID})
			}
		}
		if expr, ok := n.Data["expression"].(string); ok && looksSuspicious(expr) {
			warnings = append(warnings, Issue{Message: fmt.Sprintf("node '%s' expression looks suspicious: %q", n.NodeID, expr), NodeID: n.NodeID})
		}
	}

	return errors, warnings
}

// looksSuspicious is a cheap heuristic, not a parse: an empty
// expression, or one with obviously unbalanced brackets, is flagged so
// the author notices before running — a real syntax error still
// surfaces properly from the TRANSFORMER kernel at execution time.
func looksSuspicious(expression string) bool {
	if expression == "" {
		return true
	}
	depth := 0
	for _, r := range expression {
		switch r {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
			if depth < 0 {
				return true
			}
		}
	}
	return depth != 0
}
