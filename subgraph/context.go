package subgraph

import (
	"github.com/scenarioforge/core/expr"
)

// childContext builds the hierarchical ExpressionContext fields for a
// subgraph invocation: $depth increments, $path appends the subgraph
// id, $parent snapshots the parent's params and outputs-so-far, $root
// is carried through unchanged from the top of the hierarchy.
func childContext(parent *expr.ExpressionContext, subgraphID string, parentOutputsSoFar expr.Value, inheritedParams expr.Value) *expr.ExpressionContext {
	child := parent.Clone()

	path := []expr.Value{}
	if parent.Path.Kind() == expr.KindArray {
		path = append(path, parent.Path.Items()...)
	}
	path = append(path, expr.String(subgraphID))

	root := parent.Root
	if root.Kind() == expr.KindNull {
		root = expr.Object(map[string]expr.Value{
			"params": parent.Params,
		})
	}

	child.Parent = expr.Object(map[string]expr.Value{
		"params":  parent.Params,
		"outputs": parentOutputsSoFar,
	})
	child.Root = root
	child.Depth = parent.Depth + 1
	child.Path = expr.Array(path)
	child.Params = inheritedParams
	child.Iteration = parent.Iteration
	child.Time = parent.Time

	return child
}

// mergeParams overlays instanceParams on top of inheritedParams,
// matching spec §4.7's "inherited_params ∪ instance_params" (instance
// wins on key collision).
func mergeParams(inherited expr.Value, instance map[string]any) expr.Value {
	fields := make(map[string]expr.Value)
	if inherited.Kind() == expr.KindObject {
		for k, v := range inherited.Fields() {
			fields[k] = v
		}
	}
	for k, v := range instance {
		fields[k] = expr.FromAny(v)
	}
	return expr.Object(fields)
}
