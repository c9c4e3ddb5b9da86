package expr

// RandomSource is the minimal surface the `random()` builtin needs.
// rng.LCG satisfies it structurally, with no import from this package
// to rng — the evaluator never needs to know how the stream is seeded,
// only that iteration and kernel draws come from the same one.
type RandomSource interface {
	Float64() float64
}

// ExpressionContext is the set of `$`-prefixed bindings visible to an
// expression, cloned per iteration and treated as immutable by the
// evaluator. The hierarchical fields $parent, $root, $depth and $path
// are only populated when the executor is running inside a subgraph.
// $graphs, $feedback and $feedbackHistory are copied from the exec
// RunContext, which no driver in this module fills, so they are null
// unless a caller sets them.
type ExpressionContext struct {
	Node      Value
	Inputs    Value
	Params    Value
	Nodes     Value
	Time      float64
	Iteration float64

	// Outputs snapshots every node's output map computed so far in this
	// run, keyed by node_id. It is not a safelisted `$`-variable on its
	// own — it backs $parent.outputs for a child subgraph invocation
	// (spec §4.7's "parent.outputs_so_far").
	Outputs Value

	Parent          Value
	Root            Value
	Depth           float64
	Path            Value
	Graphs          Value
	Feedback        Value
	FeedbackHistory Value

	RNG RandomSource
}

// NewContext builds a root ExpressionContext for a top-level run.
func NewContext(rng RandomSource) *ExpressionContext {
	return &ExpressionContext{
		Inputs: Object(map[string]Value{}),
		Params: Object(map[string]Value{}),
		Nodes:  Object(map[string]Value{}),
		RNG:    rng,
	}
}

// Clone returns a shallow copy suitable for handing to the next
// iteration or a child node invocation; Value is immutable once built,
// so a shallow copy is enough to keep the evaluator from observing
// mutation of the parent's context.
func (c *ExpressionContext) Clone() *ExpressionContext {
	cp := *c
	return &cp
}

// lookupVariable resolves a `$name` reference against the fixed set
// described in spec §3/§4.1. Anything else is EvalUnknownVariable.
func (c *ExpressionContext) lookupVariable(name string) (Value, error) {
	switch name {
	case "node":
		return c.Node, nil
	case "inputs":
		return c.Inputs, nil
	case "params":
		return c.Params, nil
	case "nodes":
		return c.Nodes, nil
	case "time":
		return Number(c.Time), nil
	case "iteration":
		return Number(c.Iteration), nil
	case "parent":
		return c.Parent, nil
	case "root":
		return c.Root, nil
	case "depth":
		return Number(c.Depth), nil
	case "path":
		return c.Path, nil
	case "graphs":
		return c.Graphs, nil
	case "feedback":
		return c.Feedback, nil
	case "feedbackHistory":
		return c.FeedbackHistory, nil
	default:
		return Null(), newEvalError(EvalUnknownVariable, "unknown variable $%s", name)
	}
}
