package expr

import "math"

// Evaluate walks an AST against ctx and returns the resulting Value, or
// the first EvalError encountered. There is no trampolining — expected
// expression depth never warrants it.
func Evaluate(node Node, ctx *ExpressionContext) (Value, error) {
	switch n := node.(type) {
	case Literal:
		return n.Value, nil

	case VariableRef:
		return ctx.lookupVariable(n.Name)

	case IdentifierRef:
		switch n.Name {
		case "PI":
			return Number(math.Pi), nil
		case "E":
			return Number(math.E), nil
		default:
			return Null(), newEvalError(EvalUnknownIdentifier, "unknown identifier '%s'", n.Name)
		}

	case UnaryOp:
		v, err := Evaluate(n.Operand, ctx)
		if err != nil {
			return Null(), err
		}
		switch n.Op {
		case "!":
			return Bool(!v.ToBool()), nil
		case "-":
			return Number(-v.ToNumber()), nil
		}
		return Null(), newEvalError(EvalTypeMismatch, "unknown unary operator '%s'", n.Op)

	case BinaryOp:
		return evalBinary(n, ctx)

	case Conditional:
		c, err := Evaluate(n.Cond, ctx)
		if err != nil {
			return Null(), err
		}
		if c.ToBool() {
			return Evaluate(n.Then, ctx)
		}
		return Evaluate(n.Else, ctx)

	case ArrayLit:
		items := make([]Value, len(n.Elements))
		for i, e := range n.Elements {
			v, err := Evaluate(e, ctx)
			if err != nil {
				return Null(), err
			}
			items[i] = v
		}
		return Array(items), nil

	case Member:
		target, err := Evaluate(n.Target, ctx)
		if err != nil {
			return Null(), err
		}
		if target.IsNull() {
			return Null(), nil
		}
		if target.Kind() != KindObject {
			return Null(), newEvalError(EvalTypeMismatch, "member access '.%s' on non-object", n.Name)
		}
		if v, ok := target.Fields()[n.Name]; ok {
			return v, nil
		}
		return Null(), nil

	case Index:
		target, err := Evaluate(n.Target, ctx)
		if err != nil {
			return Null(), err
		}
		if target.IsNull() {
			return Null(), nil
		}
		idxVal, err := Evaluate(n.Index, ctx)
		if err != nil {
			return Null(), err
		}
		switch target.Kind() {
		case KindArray:
			items := target.Items()
			f := math.Floor(idxVal.ToNumber())
			if f < 0 || int(f) >= len(items) {
				return Null(), nil
			}
			return items[int(f)], nil
		case KindObject:
			key := idxVal.Str()
			if idxVal.Kind() != KindString {
				return Null(), nil
			}
			if v, ok := target.Fields()[key]; ok {
				return v, nil
			}
			return Null(), nil
		default:
			return Null(), newEvalError(EvalTypeMismatch, "index access on non-indexable value")
		}

	case Call:
		return evalCall(n, ctx)
	}

	return Null(), newEvalError(EvalTypeMismatch, "unhandled node type")
}

func evalBinary(n BinaryOp, ctx *ExpressionContext) (Value, error) {
	// && and || short-circuit, so the right side evaluates lazily.
	if n.Op == "&&" {
		l, err := Evaluate(n.Left, ctx)
		if err != nil {
			return Null(), err
		}
		if !l.ToBool() {
			return Bool(false), nil
		}
		r, err := Evaluate(n.Right, ctx)
		if err != nil {
			return Null(), err
		}
		return Bool(r.ToBool()), nil
	}
	if n.Op == "||" {
		l, err := Evaluate(n.Left, ctx)
		if err != nil {
			return Null(), err
		}
		if l.ToBool() {
			return Bool(true), nil
		}
		r, err := Evaluate(n.Right, ctx)
		if err != nil {
			return Null(), err
		}
		return Bool(r.ToBool()), nil
	}

	l, err := Evaluate(n.Left, ctx)
	if err != nil {
		return Null(), err
	}
	r, err := Evaluate(n.Right, ctx)
	if err != nil {
		return Null(), err
	}

	switch n.Op {
	case "==":
		return Bool(l.Equal(r)), nil
	case "!=":
		return Bool(!l.Equal(r)), nil
	case "<":
		return Bool(l.ToNumber() < r.ToNumber()), nil
	case ">":
		return Bool(l.ToNumber() > r.ToNumber()), nil
	case "<=":
		return Bool(l.ToNumber() <= r.ToNumber()), nil
	case ">=":
		return Bool(l.ToNumber() >= r.ToNumber()), nil
	case "+":
		return Number(l.ToNumber() + r.ToNumber()), nil
	case "-":
		return Number(l.ToNumber() - r.ToNumber()), nil
	case "*":
		return Number(l.ToNumber() * r.ToNumber()), nil
	case "/":
		return Number(l.ToNumber() / r.ToNumber()), nil
	case "%":
		return Number(math.Mod(l.ToNumber(), r.ToNumber())), nil
	case "^":
		return Number(math.Pow(l.ToNumber(), r.ToNumber())), nil
	}
	return Null(), newEvalError(EvalTypeMismatch, "unknown binary operator '%s'", n.Op)
}

func evalCall(n Call, ctx *ExpressionContext) (Value, error) {
	fn, ok := builtins[n.Name]
	if !ok {
		return Null(), newEvalError(EvalUnknownFunction, "unknown function '%s'", n.Name)
	}
	args := make([]Value, len(n.Args))
	for i, a := range n.Args {
		v, err := Evaluate(a, ctx)
		if err != nil {
			return Null(), err
		}
		args[i] = v
	}
	return fn(ctx, args)
}
