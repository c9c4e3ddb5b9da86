// Package kernel implements the pure per-node compute functions
// dispatched by the executor, plus the global registry that lets a
// host register custom kernels by name.
package kernel

import (
	"sync"

	"github.com/scenarioforge/core/expr"
	"github.com/scenarioforge/core/model"
)

// Fn is the shape every kernel implements: given the node (including
// its raw data map), its resolved input values, and the expression
// context for that invocation, produce the node's output port values.
type Fn func(node *model.Node, inputs map[string]expr.Value, ctx *expr.ExpressionContext) (map[string]expr.Value, error)

// Registry holds the dispatch table from node type (and, failing
// that, compute_function) to a Fn, plus a purity bit per name: an
// impure kernel (one whose result can depend on more than its
// arguments plus the shared RNG stream — e.g. a registered custom
// kernel that calls out to the host) disables the parallel Monte Carlo
// driver for any graph that uses it, per SPEC_FULL §4.5.1.
type Registry struct {
	mu      sync.RWMutex
	kernels map[string]Fn
	pure    map[string]bool
}

// SubgraphRunnerFn is set by the subgraph package's init() to break
// the import cycle: kernel cannot import subgraph (subgraph imports
// exec, which would otherwise need to import kernel and subgraph
// both), so SUBGRAPH dispatch goes through this hook instead of a
// direct call. It is nil until the subgraph package is imported
// somewhere in the program — the root scenarioforge package imports
// it unconditionally so the hook is always wired by the time a caller
// can reach it.
var SubgraphRunnerFn Fn

// NewRegistry builds a registry pre-populated with the nine built-in
// node kernels (spec §4.4); custom kernels are added with Register.
func NewRegistry() *Registry {
	r := &Registry{
		kernels: make(map[string]Fn),
		pure:    make(map[string]bool),
	}
	r.register(string(model.NodeTypeConstant), ConstantKernel, true)
	r.register(string(model.NodeTypeParameter), ParameterKernel, true)
	r.register(string(model.NodeTypeDistribution), DistributionKernel, true) // reads only the per-run RNG handed to it, never shared state
	r.register(string(model.NodeTypeTransformer), TransformerKernel, true)
	r.register(string(model.NodeTypeAggregator), AggregatorKernel, true)
	r.register(string(model.NodeTypeDecision), DecisionKernel, true)
	r.register(string(model.NodeTypeConstraint), ConstraintKernel, true)
	r.register(string(model.NodeTypeOutput), OutputKernel, true)
	r.register(string(model.NodeTypeSubgraph), subgraphDispatch, false)
	return r
}

func (r *Registry) register(name string, fn Fn, pure bool) {
	r.kernels[name] = fn
	r.pure[name] = pure
}

// Register installs a custom kernel under name, usable from a node
// whose type or compute_function matches it. pure must be false
// unless the kernel is provably a function of only its arguments and
// the executor's RNG.
func (r *Registry) Register(name string, fn Fn, pure bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.register(name, fn, pure)
}

// Lookup resolves a node to its kernel: dispatch is by node.Type
// first, then by node.ComputeFunction, matching spec §4.4's "dispatch
// is by type first, then by compute_function".
func (r *Registry) Lookup(node *model.Node) (Fn, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if fn, ok := r.kernels[string(node.Type)]; ok {
		return fn, true
	}
	if node.ComputeFunction != "" {
		if fn, ok := r.kernels[node.ComputeFunction]; ok {
			return fn, true
		}
	}
	return nil, false
}

// IsPure reports whether the kernel resolved for node is safe to run
// from multiple parallel Monte Carlo workers concurrently. An unknown
// name is treated as impure (fail closed).
func (r *Registry) IsPure(node *model.Node) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if _, ok := r.kernels[string(node.Type)]; ok {
		return r.pure[string(node.Type)]
	}
	if node.ComputeFunction != "" {
		if _, ok := r.kernels[node.ComputeFunction]; ok {
			return r.pure[node.ComputeFunction]
		}
	}
	return false
}

func subgraphDispatch(node *model.Node, inputs map[string]expr.Value, ctx *expr.ExpressionContext) (map[string]expr.Value, error) {
	if SubgraphRunnerFn == nil {
		return nil, model.NewDomainError(model.ErrCodeSubgraphUnresolved, "no subgraph runner installed", nil)
	}
	return SubgraphRunnerFn(node, inputs, ctx)
}
