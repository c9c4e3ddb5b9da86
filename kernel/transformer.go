package kernel

import (
	"github.com/scenarioforge/core/expr"
	"github.com/scenarioforge/core/model"
)

// TransformerKernel evaluates node_data.expression with $inputs bound
// to this invocation's resolved input ports. A parse or evaluation
// error is returned to the caller, which fails the whole run with
// this node's id attached.
func TransformerKernel(node *model.Node, inputs map[string]expr.Value, ctx *expr.ExpressionContext) (map[string]expr.Value, error) {
	source := getString(node.Data, "expression", "")
	ast, perr := expr.Parse(source)
	if perr != nil {
		return nil, model.NewNodeError(model.ErrCodeInvalidInput, node.NodeID, "transformer expression parse error", perr)
	}

	childCtx := ctx.Clone()
	childCtx.Inputs = expr.Object(inputs)
	childCtx.Node = expr.Object(map[string]expr.Value{
		"id":   expr.String(node.NodeID),
		"name": expr.String(node.Name),
	})

	result, err := expr.Evaluate(ast, childCtx)
	if err != nil {
		return nil, model.NewNodeError(model.ErrCodeInvalidInput, node.NodeID, "transformer expression evaluation error", err)
	}
	return map[string]expr.Value{"result": result}, nil
}
