package expr

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// Kind discriminates the six value shapes the evaluator can produce.
type Kind int

const (
	KindNumber Kind = iota
	KindString
	KindBool
	KindNull
	KindArray
	KindObject
)

// Value is the closed value domain of the expression language: every
// literal, variable, and function result is one of these. Unlike the
// open `map[string]any` used at the node-data boundary, arithmetic and
// comparison on a Value is an exhaustive switch, not a type assertion.
type Value struct {
	kind Kind
	num  float64
	str  string
	b    bool
	arr  []Value
	obj  map[string]Value
}

func Number(f float64) Value          { return Value{kind: KindNumber, num: f} }
func String(s string) Value           { return Value{kind: KindString, str: s} }
func Bool(b bool) Value                { return Value{kind: KindBool, b: b} }
func Null() Value                     { return Value{kind: KindNull} }
func Array(items []Value) Value       { return Value{kind: KindArray, arr: items} }
func Object(fields map[string]Value) Value {
	return Value{kind: KindObject, obj: fields}
}

func (v Value) Kind() Kind                  { return v.kind }
func (v Value) IsNull() bool                { return v.kind == KindNull }
func (v Value) Num() float64                { return v.num }
func (v Value) Str() string                 { return v.str }
func (v Value) BoolVal() bool               { return v.b }
func (v Value) Items() []Value              { return v.arr }
func (v Value) Fields() map[string]Value    { return v.obj }

// ToNumber applies the numeric coercion used by arithmetic and compare
// operators: numbers pass through, booleans become 1/0, strings parse
// as a float (NaN on failure), null becomes 0, arrays/objects are NaN.
func (v Value) ToNumber() float64 {
	switch v.kind {
	case KindNumber:
		return v.num
	case KindBool:
		if v.b {
			return 1
		}
		return 0
	case KindString:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.str), 64)
		if err != nil {
			return math.NaN()
		}
		return f
	case KindNull:
		return 0
	default:
		return math.NaN()
	}
}

// ToBool applies the coercion used by && || ! and condition arguments.
func (v Value) ToBool() bool {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		return v.num != 0
	case KindString:
		return v.str != ""
	case KindNull:
		return false
	case KindArray:
		return len(v.arr) > 0
	case KindObject:
		return len(v.obj) > 0
	default:
		return false
	}
}

// Equal is strict identity: no coercion between kinds. Composite
// values compare structurally.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNumber:
		return v.num == o.num
	case KindString:
		return v.str == o.str
	case KindBool:
		return v.b == o.b
	case KindNull:
		return true
	case KindArray:
		if len(v.arr) != len(o.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equal(o.arr[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if len(v.obj) != len(o.obj) {
			return false
		}
		for k, vv := range v.obj {
			ov, ok := o.obj[k]
			if !ok || !vv.Equal(ov) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// FromAny lifts an open `any` (as decoded from JSON, YAML, or a node's
// data map) into the closed Value domain.
func FromAny(a any) Value {
	switch x := a.(type) {
	case nil:
		return Null()
	case Value:
		return x
	case bool:
		return Bool(x)
	case string:
		return String(x)
	case float64:
		return Number(x)
	case float32:
		return Number(float64(x))
	case int:
		return Number(float64(x))
	case int64:
		return Number(float64(x))
	case []any:
		items := make([]Value, len(x))
		for i, e := range x {
			items[i] = FromAny(e)
		}
		return Array(items)
	case []Value:
		return Array(x)
	case map[string]any:
		fields := make(map[string]Value, len(x))
		for k, e := range x {
			fields[k] = FromAny(e)
		}
		return Object(fields)
	case map[string]Value:
		return Object(x)
	default:
		return Null()
	}
}

// ToAny lowers a Value back to the open `any` domain, for JSON/YAML
// encoding and for handing a result back across the kernel boundary.
func (v Value) ToAny() any {
	switch v.kind {
	case KindNumber:
		return v.num
	case KindString:
		return v.str
	case KindBool:
		return v.b
	case KindNull:
		return nil
	case KindArray:
		out := make([]any, len(v.arr))
		for i, e := range v.arr {
			out[i] = e.ToAny()
		}
		return out
	case KindObject:
		out := make(map[string]any, len(v.obj))
		for k, e := range v.obj {
			out[k] = e.ToAny()
		}
		return out
	default:
		return nil
	}
}

// sortedKeys returns m's keys in sorted order, for deterministic
// iteration over an object independent of Go's randomized map order.
// No builtin in this package calls it.
func sortedKeys(m map[string]Value) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
