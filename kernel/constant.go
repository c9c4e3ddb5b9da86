package kernel

import (
	"github.com/scenarioforge/core/expr"
	"github.com/scenarioforge/core/model"
)

// ConstantKernel emits node_data.value unchanged. A CONSTANT node is a
// source: it ignores its inputs entirely.
func ConstantKernel(node *model.Node, _ map[string]expr.Value, _ *expr.ExpressionContext) (map[string]expr.Value, error) {
	return map[string]expr.Value{
		"output": expr.FromAny(node.Data["value"]),
	}, nil
}
