package kernel

import (
	"math"

	"github.com/scenarioforge/core/expr"
	"github.com/scenarioforge/core/model"
)

// AggregatorKernel reduces all non-null inputs, in port declaration
// order, using node_data.method.
func AggregatorKernel(node *model.Node, inputs map[string]expr.Value, _ *expr.ExpressionContext) (map[string]expr.Value, error) {
	method := getString(node.Data, "method", "sum")

	values := make([]expr.Value, 0, len(node.InputPorts))
	for _, p := range node.InputPorts {
		v, ok := inputs[p.Name]
		if !ok || v.IsNull() {
			continue
		}
		values = append(values, v)
	}

	result, err := reduce(method, values)
	if err != nil {
		return nil, model.NewNodeError(model.ErrCodeInvalidInput, node.NodeID, "aggregator reduction failed", err)
	}
	return map[string]expr.Value{"result": result}, nil
}

func reduce(method string, values []expr.Value) (expr.Value, error) {
	switch method {
	case "sum":
		sum := 0.0
		for _, v := range values {
			sum += v.ToNumber()
		}
		return expr.Number(sum), nil
	case "mean":
		if len(values) == 0 {
			return expr.Number(math.NaN()), nil
		}
		sum := 0.0
		for _, v := range values {
			sum += v.ToNumber()
		}
		return expr.Number(sum / float64(len(values))), nil
	case "min":
		if len(values) == 0 {
			return expr.Number(math.Inf(1)), nil
		}
		m := values[0].ToNumber()
		for _, v := range values[1:] {
			if n := v.ToNumber(); n < m {
				m = n
			}
		}
		return expr.Number(m), nil
	case "max":
		if len(values) == 0 {
			return expr.Number(math.Inf(-1)), nil
		}
		m := values[0].ToNumber()
		for _, v := range values[1:] {
			if n := v.ToNumber(); n > m {
				m = n
			}
		}
		return expr.Number(m), nil
	case "product":
		prod := 1.0
		for _, v := range values {
			prod *= v.ToNumber()
		}
		return expr.Number(prod), nil
	case "count":
		return expr.Number(float64(len(values))), nil
	case "first":
		if len(values) == 0 {
			return expr.Null(), nil
		}
		return values[0], nil
	case "last":
		if len(values) == 0 {
			return expr.Null(), nil
		}
		return values[len(values)-1], nil
	default:
		return expr.Null(), model.NewDomainError(model.ErrCodeInvalidInput, "unknown aggregator method '"+method+"'", nil)
	}
}
