package scenarioforge

import (
	"github.com/scenarioforge/core/kernel"
	"github.com/scenarioforge/core/model"
	"github.com/scenarioforge/core/subgraph"
)

// SubgraphDefinition is a reusable graph plus its exposed input/output
// ports, registered under an ID (and optional version) that a SUBGRAPH
// node's node data references.
type SubgraphDefinition = model.SubgraphDefinition

// SubgraphRegistry resolves a subgraph_id (and version) to its
// SubgraphDefinition.
type SubgraphRegistry = subgraph.Registry

// NewSubgraphRegistry builds an empty, in-memory subgraph registry.
func NewSubgraphRegistry() *subgraph.InMemoryRegistry {
	return subgraph.NewInMemoryRegistry()
}

// ConfigureSubgraphs wires the kernel registry and subgraph definition
// registry a SUBGRAPH node needs to recurse into its child graph. Call
// once during setup, before executing any graph that may contain a
// SUBGRAPH node — NewEngine does this automatically.
func ConfigureSubgraphs(kernelRegistry *kernel.Registry, subgraphRegistry SubgraphRegistry) {
	subgraph.Configure(kernelRegistry, subgraphRegistry)
}

// SetMaxSubgraphRecursionDepth overrides the default nesting limit (100)
// a chain of SUBGRAPH nodes may reach before a run fails with
// ErrCodeRecursionTooDeep.
func SetMaxSubgraphRecursionDepth(depth int) {
	subgraph.MaxRecursionDepth = depth
}

// Engine bundles a kernel registry and a subgraph registry already
// wired together, so a caller who needs SUBGRAPH nodes doesn't have to
// remember the Configure call order.
type Engine struct {
	Kernels   *kernel.Registry
	Subgraphs *subgraph.InMemoryRegistry
}

// NewEngine builds a kernel registry with the nine built-ins, an empty
// subgraph registry, wires them together, and returns both so the
// caller can register custom kernels and subgraph definitions before
// running anything.
func NewEngine() *Engine {
	e := &Engine{
		Kernels:   kernel.NewRegistry(),
		Subgraphs: subgraph.NewInMemoryRegistry(),
	}
	subgraph.Configure(e.Kernels, e.Subgraphs)
	return e
}
