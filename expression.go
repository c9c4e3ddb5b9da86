package scenarioforge

import (
	"github.com/scenarioforge/core/expr"
)

// Value is a dynamically-typed, immutable expression result: number,
// string, bool, null, array, or object.
type Value = expr.Value

// ExpressionContext is the set of `$`-prefixed bindings visible to an
// expression during evaluation.
type ExpressionContext = expr.ExpressionContext

// RandomSource is the minimal surface the evaluator's `random()`
// builtin needs; rng.LCG satisfies it.
type RandomSource = expr.RandomSource

// NewExpressionContext builds a root ExpressionContext for a
// standalone expression evaluation, outside of a graph run.
func NewExpressionContext(rng RandomSource) *ExpressionContext {
	return expr.NewContext(rng)
}

// ParseExpression parses src into an AST, or returns the first syntax
// error encountered.
func ParseExpression(src string) (expr.Node, error) {
	node, err := expr.Parse(src)
	if err != nil {
		return nil, err
	}
	return node, nil
}

// ValidateExpression reports whether src parses, without evaluating
// it — the editor's live syntax check.
func ValidateExpression(src string) error {
	return expr.Validate(src)
}

// EvaluateExpression parses and evaluates src in one step against ctx.
func EvaluateExpression(src string, ctx *ExpressionContext) (Value, error) {
	node, err := expr.Parse(src)
	if err != nil {
		return expr.Null(), err
	}
	return expr.Evaluate(node, ctx)
}

// Evaluate walks an already-parsed AST against ctx.
func Evaluate(node expr.Node, ctx *ExpressionContext) (Value, error) {
	return expr.Evaluate(node, ctx)
}

// Stringify renders a scalar Value the way the expression evaluator's
// concat builtin does.
func Stringify(v Value) string {
	return expr.Stringify(v)
}
