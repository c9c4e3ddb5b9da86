package kernel

import (
	"github.com/scenarioforge/core/expr"
	"github.com/scenarioforge/core/model"
)

// ConstraintKernel computes a value — from the single "value" input if
// present, otherwise by evaluating node_data.expression — and compares
// it against node_data.min/max. A breach is reported as a magnitude,
// not an error: a constraint violation is a data-plane signal, never a
// run failure.
func ConstraintKernel(node *model.Node, inputs map[string]expr.Value, ctx *expr.ExpressionContext) (map[string]expr.Value, error) {
	var value expr.Value

	if v, ok := inputs["value"]; ok {
		value = v
	} else {
		source := getString(node.Data, "expression", "")
		ast, perr := expr.Parse(source)
		if perr != nil {
			return nil, model.NewNodeError(model.ErrCodeInvalidInput, node.NodeID, "constraint expression parse error", perr)
		}
		childCtx := ctx.Clone()
		childCtx.Inputs = expr.Object(inputs)
		v, err := expr.Evaluate(ast, childCtx)
		if err != nil {
			return nil, model.NewNodeError(model.ErrCodeInvalidInput, node.NodeID, "constraint expression evaluation error", err)
		}
		value = v
	}

	n := value.ToNumber()
	violation := 0.0
	satisfied := true

	if minV, ok := node.Data["min"]; ok {
		if m, ok := toFloat(minV); ok && n < m {
			satisfied = false
			if breach := m - n; breach > violation {
				violation = breach
			}
		}
	}
	if maxV, ok := node.Data["max"]; ok {
		if m, ok := toFloat(maxV); ok && n > m {
			satisfied = false
			if breach := n - m; breach > violation {
				violation = breach
			}
		}
	}

	return map[string]expr.Value{
		"satisfied": expr.Bool(satisfied),
		"violation": expr.Number(violation),
		"value":     value,
	}, nil
}
