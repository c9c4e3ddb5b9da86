package kernel

import (
	"github.com/scenarioforge/core/expr"
	"github.com/scenarioforge/core/model"
)

// DecisionKernel evaluates node_data.condition against the resolved
// inputs and emits trueValue or falseValue, both from node_data.
func DecisionKernel(node *model.Node, inputs map[string]expr.Value, ctx *expr.ExpressionContext) (map[string]expr.Value, error) {
	source := getString(node.Data, "condition", "")
	ast, perr := expr.Parse(source)
	if perr != nil {
		return nil, model.NewNodeError(model.ErrCodeInvalidInput, node.NodeID, "decision condition parse error", perr)
	}

	childCtx := ctx.Clone()
	childCtx.Inputs = expr.Object(inputs)

	cond, err := expr.Evaluate(ast, childCtx)
	if err != nil {
		return nil, model.NewNodeError(model.ErrCodeInvalidInput, node.NodeID, "decision condition evaluation error", err)
	}

	if cond.ToBool() {
		return map[string]expr.Value{"result": expr.FromAny(node.Data["trueValue"])}, nil
	}
	return map[string]expr.Value{"result": expr.FromAny(node.Data["falseValue"])}, nil
}
