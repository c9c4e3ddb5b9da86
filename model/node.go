package model

// NodeType is the tag selecting a node's kernel. The core recognizes
// the fixed set below directly; any other tag is dispatched through
// the registered-kernel table keyed by type (falling back to
// ComputeFunction), matching the "pluggable kernel" contract.
type NodeType string

const (
	NodeTypeConstant     NodeType = "CONSTANT"
	NodeTypeParameter    NodeType = "PARAMETER"
	NodeTypeDistribution NodeType = "DISTRIBUTION"
	NodeTypeTransformer  NodeType = "TRANSFORMER"
	NodeTypeAggregator   NodeType = "AGGREGATOR"
	NodeTypeDecision     NodeType = "DECISION"
	NodeTypeConstraint   NodeType = "CONSTRAINT"
	NodeTypeOutput       NodeType = "OUTPUT"
	NodeTypeSubgraph     NodeType = "SUBGRAPH"
)

// VisualHints are opaque to the core — position, color, icon, tags —
// carried through unmodified for the editor to render.
type VisualHints struct {
	Position map[string]float64 `json:"position,omitempty" yaml:"position,omitempty"`
	Color    string             `json:"color,omitempty" yaml:"color,omitempty"`
	Icon     string             `json:"icon,omitempty" yaml:"icon,omitempty"`
	Tags     []string           `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// Node is a typed computation unit with input/output ports and a kernel.
type Node struct {
	NodeID          string         `json:"nodeId" yaml:"nodeId"`
	Type            NodeType       `json:"type" yaml:"type"`
	Name            string         `json:"name" yaml:"name"`
	Data            map[string]any `json:"data,omitempty" yaml:"data,omitempty"`
	InputPorts      []Port         `json:"inputPorts,omitempty" yaml:"inputPorts,omitempty"`
	OutputPorts     []Port         `json:"outputPorts,omitempty" yaml:"outputPorts,omitempty"`
	ComputeFunction string         `json:"computeFunction,omitempty" yaml:"computeFunction,omitempty"`
	Locked          bool           `json:"locked,omitempty" yaml:"locked,omitempty"`
	Visual          VisualHints    `json:"visual,omitempty" yaml:"visual,omitempty"`
	// CreatedAt is a monotonically assigned sequence number, not a
	// wall-clock timestamp: it only needs to total-order insertion for
	// the topological tie-break rule in graph.TopologicalSort.
	CreatedAt int64 `json:"createdAt" yaml:"createdAt"`
}

// InputPort looks up one of the node's declared input ports by PortID
// — the identifier an Endpoint references.
func (n *Node) InputPort(portID string) (Port, bool) {
	for _, p := range n.InputPorts {
		if p.PortID == portID {
			return p, true
		}
	}
	return Port{}, false
}

// OutputPort looks up one of the node's declared output ports by PortID.
func (n *Node) OutputPort(portID string) (Port, bool) {
	for _, p := range n.OutputPorts {
		if p.PortID == portID {
			return p, true
		}
	}
	return Port{}, false
}
