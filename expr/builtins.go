package expr

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// builtinFn is the shape of every entry in the name→function table.
// Args have already been evaluated by evalCall; RNG access goes
// through ctx so `random()` shares the executor's installed stream.
type builtinFn func(ctx *ExpressionContext, args []Value) (Value, error)

// splat implements the "Array-taking functions accept either a single
// array argument or variadic scalars" rule: any Array argument is
// spliced in one level, scalars pass through unchanged.
func splat(args []Value) []Value {
	out := make([]Value, 0, len(args))
	for _, a := range args {
		if a.Kind() == KindArray {
			out = append(out, a.Items()...)
		} else {
			out = append(out, a)
		}
	}
	return out
}

func nums(args []Value) []float64 {
	out := make([]float64, len(args))
	for i, a := range args {
		out[i] = a.ToNumber()
	}
	return out
}

func arg(args []Value, i int) Value {
	if i < len(args) {
		return args[i]
	}
	return Null()
}

func errArity(name string) error {
	return newEvalError(EvalTypeMismatch, "%s: wrong number of arguments", name)
}

// roundHalfAwayFromZero rounds x to d decimal digits, ties rounding
// away from zero (not banker's rounding).
func roundHalfAwayFromZero(x float64, d int) float64 {
	mult := math.Pow(10, float64(d))
	scaled := x * mult
	if scaled >= 0 {
		return math.Floor(scaled+0.5) / mult
	}
	return math.Ceil(scaled-0.5) / mult
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func populationVariance(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	m := mean(xs)
	sum := 0.0
	for _, x := range xs {
		d := x - m
		sum += d * d
	}
	return sum / float64(len(xs))
}

func medianOf(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// percentileOf applies the linear-interpolation-between-order-statistics
// rule shared with risk metrics (spec §4.6) to an arbitrary p in [0,100].
func percentileOf(xs []float64, p float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	idx := (p / 100) * float64(n-1)
	lo := int(math.Floor(idx))
	hi := int(math.Ceil(idx))
	if lo < 0 {
		lo = 0
	}
	if hi >= n {
		hi = n - 1
	}
	frac := idx - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

var builtins = map[string]builtinFn{
	// Constants, callable as zero-arg functions.
	"PI": func(_ *ExpressionContext, _ []Value) (Value, error) { return Number(math.Pi), nil },
	"E":  func(_ *ExpressionContext, _ []Value) (Value, error) { return Number(math.E), nil },

	// Math
	"abs":   func(_ *ExpressionContext, a []Value) (Value, error) { return Number(math.Abs(arg(a, 0).ToNumber())), nil },
	"ceil":  func(_ *ExpressionContext, a []Value) (Value, error) { return Number(math.Ceil(arg(a, 0).ToNumber())), nil },
	"floor": func(_ *ExpressionContext, a []Value) (Value, error) { return Number(math.Floor(arg(a, 0).ToNumber())), nil },
	"round": func(_ *ExpressionContext, a []Value) (Value, error) {
		d := 0
		if len(a) > 1 {
			d = int(arg(a, 1).ToNumber())
		}
		return Number(roundHalfAwayFromZero(arg(a, 0).ToNumber(), d)), nil
	},
	"trunc": func(_ *ExpressionContext, a []Value) (Value, error) { return Number(math.Trunc(arg(a, 0).ToNumber())), nil },
	"sign":  func(_ *ExpressionContext, a []Value) (Value, error) {
		x := arg(a, 0).ToNumber()
		switch {
		case x > 0:
			return Number(1), nil
		case x < 0:
			return Number(-1), nil
		default:
			return Number(0), nil
		}
	},
	"sqrt": func(_ *ExpressionContext, a []Value) (Value, error) { return Number(math.Sqrt(arg(a, 0).ToNumber())), nil },
	"cbrt": func(_ *ExpressionContext, a []Value) (Value, error) { return Number(math.Cbrt(arg(a, 0).ToNumber())), nil },
	"pow": func(_ *ExpressionContext, a []Value) (Value, error) {
		return Number(math.Pow(arg(a, 0).ToNumber(), arg(a, 1).ToNumber())), nil
	},
	"exp":   func(_ *ExpressionContext, a []Value) (Value, error) { return Number(math.Exp(arg(a, 0).ToNumber())), nil },
	"log":   func(_ *ExpressionContext, a []Value) (Value, error) { return Number(math.Log(arg(a, 0).ToNumber())), nil },
	"log10": func(_ *ExpressionContext, a []Value) (Value, error) { return Number(math.Log10(arg(a, 0).ToNumber())), nil },
	"log2":  func(_ *ExpressionContext, a []Value) (Value, error) { return Number(math.Log2(arg(a, 0).ToNumber())), nil },
	"sin":   func(_ *ExpressionContext, a []Value) (Value, error) { return Number(math.Sin(arg(a, 0).ToNumber())), nil },
	"cos":   func(_ *ExpressionContext, a []Value) (Value, error) { return Number(math.Cos(arg(a, 0).ToNumber())), nil },
	"tan":   func(_ *ExpressionContext, a []Value) (Value, error) { return Number(math.Tan(arg(a, 0).ToNumber())), nil },
	"asin":  func(_ *ExpressionContext, a []Value) (Value, error) { return Number(math.Asin(arg(a, 0).ToNumber())), nil },
	"acos":  func(_ *ExpressionContext, a []Value) (Value, error) { return Number(math.Acos(arg(a, 0).ToNumber())), nil },
	"atan":  func(_ *ExpressionContext, a []Value) (Value, error) { return Number(math.Atan(arg(a, 0).ToNumber())), nil },
	"atan2": func(_ *ExpressionContext, a []Value) (Value, error) {
		return Number(math.Atan2(arg(a, 0).ToNumber(), arg(a, 1).ToNumber())), nil
	},
	"min": func(_ *ExpressionContext, a []Value) (Value, error) {
		xs := nums(splat(a))
		if len(xs) == 0 {
			return Number(math.Inf(1)), nil
		}
		m := xs[0]
		for _, x := range xs[1:] {
			if x < m {
				m = x
			}
		}
		return Number(m), nil
	},
	"max": func(_ *ExpressionContext, a []Value) (Value, error) {
		xs := nums(splat(a))
		if len(xs) == 0 {
			return Number(math.Inf(-1)), nil
		}
		m := xs[0]
		for _, x := range xs[1:] {
			if x > m {
				m = x
			}
		}
		return Number(m), nil
	},
	"clamp": func(_ *ExpressionContext, a []Value) (Value, error) {
		x, lo, hi := arg(a, 0).ToNumber(), arg(a, 1).ToNumber(), arg(a, 2).ToNumber()
		if x < lo {
			return Number(lo), nil
		}
		if x > hi {
			return Number(hi), nil
		}
		return Number(x), nil
	},

	// Stats
	"sum": func(_ *ExpressionContext, a []Value) (Value, error) {
		sum := 0.0
		for _, x := range nums(splat(a)) {
			sum += x
		}
		return Number(sum), nil
	},
	"mean": func(_ *ExpressionContext, a []Value) (Value, error) { return Number(mean(nums(splat(a)))), nil },
	"median": func(_ *ExpressionContext, a []Value) (Value, error) { return Number(medianOf(nums(splat(a)))), nil },
	"std": func(_ *ExpressionContext, a []Value) (Value, error) {
		return Number(math.Sqrt(populationVariance(nums(splat(a))))), nil
	},
	"variance": func(_ *ExpressionContext, a []Value) (Value, error) {
		return Number(populationVariance(nums(splat(a)))), nil
	},
	"percentile": func(_ *ExpressionContext, a []Value) (Value, error) {
		if len(a) < 2 {
			return Null(), errArity("percentile")
		}
		arr := a[0]
		if arr.Kind() != KindArray {
			return Null(), newEvalError(EvalTypeMismatch, "percentile: first argument must be an array")
		}
		p := a[1].ToNumber()
		return Number(percentileOf(nums(arr.Items()), p)), nil
	},
	"count": func(_ *ExpressionContext, a []Value) (Value, error) { return Number(float64(len(splat(a)))), nil },
	"product": func(_ *ExpressionContext, a []Value) (Value, error) {
		prod := 1.0
		for _, x := range nums(splat(a)) {
			prod *= x
		}
		return Number(prod), nil
	},

	// Array
	"length": func(_ *ExpressionContext, a []Value) (Value, error) {
		v := arg(a, 0)
		switch v.Kind() {
		case KindArray:
			return Number(float64(len(v.Items()))), nil
		case KindString:
			return Number(float64(len(v.Str()))), nil
		case KindObject:
			return Number(float64(len(v.Fields()))), nil
		default:
			return Number(0), nil
		}
	},
	"first": func(_ *ExpressionContext, a []Value) (Value, error) {
		items := arg(a, 0).Items()
		if len(items) == 0 {
			return Null(), nil
		}
		return items[0], nil
	},
	"last": func(_ *ExpressionContext, a []Value) (Value, error) {
		items := arg(a, 0).Items()
		if len(items) == 0 {
			return Null(), nil
		}
		return items[len(items)-1], nil
	},
	"slice": func(_ *ExpressionContext, a []Value) (Value, error) {
		items := arg(a, 0).Items()
		n := len(items)
		start := clampIndex(int(arg(a, 1).ToNumber()), n)
		end := n
		if len(a) > 2 {
			end = clampIndex(int(arg(a, 2).ToNumber()), n)
		}
		if start > end {
			start = end
		}
		out := make([]Value, end-start)
		copy(out, items[start:end])
		return Array(out), nil
	},
	"reverse": func(_ *ExpressionContext, a []Value) (Value, error) {
		items := arg(a, 0).Items()
		out := make([]Value, len(items))
		for i, v := range items {
			out[len(items)-1-i] = v
		}
		return Array(out), nil
	},
	"sort": func(_ *ExpressionContext, a []Value) (Value, error) {
		items := append([]Value(nil), arg(a, 0).Items()...)
		sort.Slice(items, func(i, j int) bool { return items[i].ToNumber() < items[j].ToNumber() })
		return Array(items), nil
	},
	"unique": func(_ *ExpressionContext, a []Value) (Value, error) {
		items := arg(a, 0).Items()
		out := make([]Value, 0, len(items))
		for _, v := range items {
			dup := false
			for _, seen := range out {
				if seen.Equal(v) {
					dup = true
					break
				}
			}
			if !dup {
				out = append(out, v)
			}
		}
		return Array(out), nil
	},
	"flatten": func(_ *ExpressionContext, a []Value) (Value, error) {
		items := arg(a, 0).Items()
		out := make([]Value, 0, len(items))
		for _, v := range items {
			if v.Kind() == KindArray {
				out = append(out, v.Items()...)
			} else {
				out = append(out, v)
			}
		}
		return Array(out), nil
	},
	"contains": func(_ *ExpressionContext, a []Value) (Value, error) {
		items := arg(a, 0).Items()
		needle := arg(a, 1)
		for _, v := range items {
			if v.Equal(needle) {
				return Bool(true), nil
			}
		}
		return Bool(false), nil
	},
	"indexOf": func(_ *ExpressionContext, a []Value) (Value, error) {
		items := arg(a, 0).Items()
		needle := arg(a, 1)
		for i, v := range items {
			if v.Equal(needle) {
				return Number(float64(i)), nil
			}
		}
		return Number(-1), nil
	},

	// Logical
	"if": func(_ *ExpressionContext, a []Value) (Value, error) {
		if arg(a, 0).ToBool() {
			return arg(a, 1), nil
		}
		return arg(a, 2), nil
	},
	"and": func(_ *ExpressionContext, a []Value) (Value, error) {
		for _, v := range a {
			if !v.ToBool() {
				return Bool(false), nil
			}
		}
		return Bool(true), nil
	},
	"or": func(_ *ExpressionContext, a []Value) (Value, error) {
		for _, v := range a {
			if v.ToBool() {
				return Bool(true), nil
			}
		}
		return Bool(false), nil
	},
	"not":      func(_ *ExpressionContext, a []Value) (Value, error) { return Bool(!arg(a, 0).ToBool()), nil },
	"isNull":   func(_ *ExpressionContext, a []Value) (Value, error) { return Bool(arg(a, 0).IsNull()), nil },
	"isNumber": func(_ *ExpressionContext, a []Value) (Value, error) { return Bool(arg(a, 0).Kind() == KindNumber), nil },
	"isString": func(_ *ExpressionContext, a []Value) (Value, error) { return Bool(arg(a, 0).Kind() == KindString), nil },
	"isArray":  func(_ *ExpressionContext, a []Value) (Value, error) { return Bool(arg(a, 0).Kind() == KindArray), nil },
	"coalesce": func(_ *ExpressionContext, a []Value) (Value, error) {
		for _, v := range a {
			if !v.IsNull() {
				return v, nil
			}
		}
		return Null(), nil
	},

	// String
	"concat": func(_ *ExpressionContext, a []Value) (Value, error) {
		var sb strings.Builder
		for _, v := range a {
			sb.WriteString(valueToString(v))
		}
		return String(sb.String()), nil
	},
	"upper": func(_ *ExpressionContext, a []Value) (Value, error) { return String(strings.ToUpper(arg(a, 0).Str())), nil },
	"lower": func(_ *ExpressionContext, a []Value) (Value, error) { return String(strings.ToLower(arg(a, 0).Str())), nil },
	"trim":  func(_ *ExpressionContext, a []Value) (Value, error) { return String(strings.TrimSpace(arg(a, 0).Str())), nil },
	"substring": func(_ *ExpressionContext, a []Value) (Value, error) {
		s := arg(a, 0).Str()
		n := len(s)
		start := clampIndex(int(arg(a, 1).ToNumber()), n)
		end := n
		if len(a) > 2 {
			end = clampIndex(int(arg(a, 2).ToNumber()), n)
		}
		if start > end {
			start = end
		}
		return String(s[start:end]), nil
	},
	"replace": func(_ *ExpressionContext, a []Value) (Value, error) {
		return String(strings.Replace(arg(a, 0).Str(), arg(a, 1).Str(), arg(a, 2).Str(), 1)), nil
	},
	"split": func(_ *ExpressionContext, a []Value) (Value, error) {
		parts := strings.Split(arg(a, 0).Str(), arg(a, 1).Str())
		out := make([]Value, len(parts))
		for i, p := range parts {
			out[i] = String(p)
		}
		return Array(out), nil
	},
	"startsWith": func(_ *ExpressionContext, a []Value) (Value, error) {
		return Bool(strings.HasPrefix(arg(a, 0).Str(), arg(a, 1).Str())), nil
	},
	"endsWith": func(_ *ExpressionContext, a []Value) (Value, error) {
		return Bool(strings.HasSuffix(arg(a, 0).Str(), arg(a, 1).Str())), nil
	},

	// Random
	"random": func(ctx *ExpressionContext, _ []Value) (Value, error) {
		if ctx.RNG == nil {
			return Null(), newEvalError(EvalTypeMismatch, "random(): no RNG installed in context")
		}
		return Number(ctx.RNG.Float64()), nil
	},
}

func clampIndex(i, n int) int {
	if i < 0 {
		i = n + i
	}
	if i < 0 {
		return 0
	}
	if i > n {
		return n
	}
	return i
}

// Stringify renders a scalar Value the way concat does, for callers
// outside the evaluator (e.g. the subgraph engine's concat
// aggregation). Arrays/objects have no defined string form and render
// as empty.
func Stringify(v Value) string {
	return valueToString(v)
}

// valueToString renders a scalar Value for concat; arrays/objects have
// no defined string form and render as empty.
func valueToString(v Value) string {
	switch v.Kind() {
	case KindString:
		return v.Str()
	case KindNull:
		return ""
	case KindBool:
		if v.BoolVal() {
			return "true"
		}
		return "false"
	case KindNumber:
		return formatNumber(v.Num())
	default:
		return ""
	}
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
