package kernel

import (
	"github.com/scenarioforge/core/expr"
	"github.com/scenarioforge/core/model"
)

// ParameterKernel emits node_data.value, falling back to node_data.default
// when value is unset. min/max/step/default are metadata the editor
// uses to constrain authoring; the kernel does not enforce them.
func ParameterKernel(node *model.Node, _ map[string]expr.Value, _ *expr.ExpressionContext) (map[string]expr.Value, error) {
	v, ok := node.Data["value"]
	if !ok || v == nil {
		v = node.Data["default"]
	}
	return map[string]expr.Value{
		"value": expr.FromAny(v),
	}, nil
}
