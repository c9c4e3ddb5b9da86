package kernel

import (
	"github.com/scenarioforge/core/expr"
	"github.com/scenarioforge/core/model"
)

// OutputKernel takes a single "value" input and re-emits it under
// node_data.label (default "result"). OUTPUT nodes are what the
// executor collects as the run's user-visible result.
func OutputKernel(node *model.Node, inputs map[string]expr.Value, _ *expr.ExpressionContext) (map[string]expr.Value, error) {
	label := getString(node.Data, "label", "result")
	v, ok := inputs["value"]
	if !ok {
		v = expr.Null()
	}
	return map[string]expr.Value{label: v}, nil
}
