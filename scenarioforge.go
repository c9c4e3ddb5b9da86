// Package scenarioforge re-exports the core dataflow-graph engine's
// public surface — graph construction, validation, deterministic and
// Monte Carlo execution, sensitivity sweeps, and risk metrics — the
// way the teacher's mbflow.go re-exports executor and monitoring
// types as root-level aliases, so a caller imports one package for
// the common path and drops into subpackages (graph, exec, expr, rng,
// subgraph, feedback) only for advanced use.
package scenarioforge

import (
	"github.com/scenarioforge/core/graph"
	"github.com/scenarioforge/core/kernel"
	"github.com/scenarioforge/core/model"
)

// Graph, Node, Edge, Port and the node/edge/port type enums are the
// data model every other operation in this package works over.
type (
	Graph = model.Graph
	Node  = model.Node
	Edge  = model.Edge
	Port  = model.Port

	NodeType  = model.NodeType
	EdgeType  = model.EdgeType
	DataType  = model.DataType
	Endpoint  = model.Endpoint
)

const (
	NodeTypeConstant     = model.NodeTypeConstant
	NodeTypeParameter    = model.NodeTypeParameter
	NodeTypeDistribution = model.NodeTypeDistribution
	NodeTypeTransformer  = model.NodeTypeTransformer
	NodeTypeAggregator   = model.NodeTypeAggregator
	NodeTypeDecision     = model.NodeTypeDecision
	NodeTypeConstraint   = model.NodeTypeConstraint
	NodeTypeOutput       = model.NodeTypeOutput
	NodeTypeSubgraph     = model.NodeTypeSubgraph
)

const (
	EdgeTypeDataFlow    = model.EdgeTypeDataFlow
	EdgeTypeDependency  = model.EdgeTypeDependency
	EdgeTypeConditional = model.EdgeTypeConditional
	EdgeTypeFeedback    = model.EdgeTypeFeedback
	EdgeTypeTemporal    = model.EdgeTypeTemporal
)

// ValidationIssue is one Validate finding — an error (blocks
// execution) or a warning (does not).
type ValidationIssue = graph.Issue

// CreateGraph builds an empty, valid graph shell.
func CreateGraph(name, description string) *Graph {
	return graph.CreateGraph(name, description)
}

// AddNode appends n to g, assigning an ID and creation-order sequence
// number if n doesn't already carry one.
func AddNode(g *Graph, n Node) Node {
	return graph.AddNode(g, n)
}

// AddEdge appends e to g after checking both endpoints resolve to a
// real node and (if given) a real port on it.
func AddEdge(g *Graph, e Edge) (Edge, error) {
	return graph.AddEdge(g, e)
}

// UpdateNode replaces the node matching updated.NodeID in place.
func UpdateNode(g *Graph, updated Node) error {
	return graph.UpdateNode(g, updated)
}

// UpdateEdge replaces the edge matching updated.EdgeID in place.
func UpdateEdge(g *Graph, updated Edge) error {
	return graph.UpdateEdge(g, updated)
}

// RemoveNode deletes a node and every edge incident to it.
func RemoveNode(g *Graph, nodeID string) error {
	return graph.RemoveNode(g, nodeID)
}

// RemoveEdge deletes a single edge by ID.
func RemoveEdge(g *Graph, edgeID string) error {
	return graph.RemoveEdge(g, edgeID)
}

// CloneGraph deep-copies g with fresh node/edge IDs, preserving
// topology and relative creation order.
func CloneGraph(g *Graph) *Graph {
	return graph.CloneGraph(g)
}

// Validate checks structural well-formedness and returns blocking
// errors and non-blocking warnings separately.
func Validate(g *Graph) (errs []ValidationIssue, warnings []ValidationIssue) {
	return graph.Validate(g)
}

// TopologicalSort returns a deterministic execution order over the
// non-FEEDBACK subgraph, or ok=false on a cycle.
func TopologicalSort(g *Graph) (order []string, ok bool) {
	return graph.TopologicalSort(g)
}

// ExportJSON/ImportJSON/ExportYAML/ImportYAML serialize a graph to and
// from its wire envelope ({graph, exportedAt, formatVersion}).
func ExportJSON(g *Graph) ([]byte, error)   { return graph.ExportJSON(g) }
func ImportJSON(data []byte) (*Graph, error) { return graph.ImportJSON(data) }
func ExportYAML(g *Graph) ([]byte, error)   { return graph.ExportYAML(g) }
func ImportYAML(data []byte) (*Graph, error) { return graph.ImportYAML(data) }

// NewKernelRegistry builds a fresh registry pre-populated with the
// nine built-in node kernels; callers register custom kernels on it
// with RegisterKernel before running anything.
func NewKernelRegistry() *kernel.Registry {
	return kernel.NewRegistry()
}

// KernelFn is the signature every node kernel implements.
type KernelFn = kernel.Fn

// RegisterKernel installs a custom kernel under name on registry, for
// nodes whose Type or ComputeFunction resolves to it. pure must be
// true only if the kernel is a function of just its arguments plus
// the shared RNG — an impure custom kernel disables the parallel
// Monte Carlo driver for any graph that uses it.
func RegisterKernel(registry *kernel.Registry, name string, fn KernelFn, pure bool) {
	registry.Register(name, fn, pure)
}
