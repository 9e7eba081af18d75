package token

import (
	"encoding/json"
	"fmt"
	"maps"
	"math"
	"slices"
	"strconv"
)

// Kind enumerates the JSON-compatible value kinds a token may carry.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindList
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	default:
		return "unknown"
	}
}

// Value is an immutable JSON-compatible value: null, bool, number, string,
// list of values or an ordered Map. The zero Value is null.
// Numbers keep their literal text so integers survive a round trip exactly.
type Value struct {
	kind Kind
	b    bool
	s    string // string contents or number literal
	list []Value
	m    *Map
}

func Null() Value            { return Value{} }
func Bool(b bool) Value      { return Value{kind: KindBool, b: b} }
func String(s string) Value  { return Value{kind: KindString, s: s} }
func Int(n int64) Value      { return Value{kind: KindNumber, s: strconv.FormatInt(n, 10)} }
func Uint(n uint64) Value    { return Value{kind: KindNumber, s: strconv.FormatUint(n, 10)} }
func List(vs ...Value) Value { return Value{kind: KindList, list: slices.Clone(vs)} }

// Float returns a number value. NaN and infinities have no JSON form and
// become null.
func Float(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Null()
	}
	return Value{kind: KindNumber, s: strconv.FormatFloat(f, 'g', -1, 64)}
}

// Number wraps a JSON number literal. Invalid literals become null.
func Number(n json.Number) Value {
	if _, err := strconv.ParseFloat(string(n), 64); err != nil {
		return Null()
	}
	return Value{kind: KindNumber, s: string(n)}
}

// Object wraps a copy of m. A nil map yields an empty object.
func Object(m *Map) Value {
	if m == nil {
		return Value{kind: KindMap, m: NewMap()}
	}
	return Value{kind: KindMap, m: m.Clone()}
}

func (v Value) Kind() Kind   { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }

func (v Value) AsBool() (bool, bool) {
	return v.b, v.kind == KindBool
}

func (v Value) AsString() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.s, true
}

// AsInt reports the value as int64 only for integral number literals.
func (v Value) AsInt() (int64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	n, err := strconv.ParseInt(v.s, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func (v Value) AsFloat() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	f, err := strconv.ParseFloat(v.s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func (v Value) AsList() ([]Value, bool) {
	if v.kind != KindList {
		return nil, false
	}
	return slices.Clone(v.list), true
}

// AsMap returns a copy of the wrapped map.
func (v Value) AsMap() (*Map, bool) {
	if v.kind != KindMap {
		return nil, false
	}
	return v.m.Clone(), true
}

// Equal reports deep equality, including map key order.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == o.b
	case KindNumber, KindString:
		return v.s == o.s
	case KindList:
		return slices.EqualFunc(v.list, o.list, Value.Equal)
	case KindMap:
		return v.m.Equal(o.m)
	}
	return false
}

// Interface converts the value to plain Go types: nil, bool, json.Number,
// string, []any or map[string]any.
func (v Value) Interface() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		return json.Number(v.s)
	case KindString:
		return v.s
	case KindList:
		out := make([]any, len(v.list))
		for i, item := range v.list {
			out[i] = item.Interface()
		}
		return out
	case KindMap:
		return v.m.Interface()
	}
	return nil
}

// ValueOf converts common Go values into a Value. Plain Go maps have no order,
// so their keys are sorted.
func ValueOf(x any) (Value, error) {
	switch t := x.(type) {
	case nil:
		return Null(), nil
	case Value:
		return t, nil
	case *Map:
		return Object(t), nil
	case bool:
		return Bool(t), nil
	case string:
		return String(t), nil
	case json.Number:
		v := Number(t)
		if v.IsNull() {
			return Value{}, fmt.Errorf("%w: invalid number literal %q", ErrInvalidParameter, string(t))
		}
		return v, nil
	case int:
		return Int(int64(t)), nil
	case int8:
		return Int(int64(t)), nil
	case int16:
		return Int(int64(t)), nil
	case int32:
		return Int(int64(t)), nil
	case int64:
		return Int(t), nil
	case uint:
		return Uint(uint64(t)), nil
	case uint8:
		return Uint(uint64(t)), nil
	case uint16:
		return Uint(uint64(t)), nil
	case uint32:
		return Uint(uint64(t)), nil
	case uint64:
		return Uint(t), nil
	case float32:
		return floatOf(float64(t))
	case float64:
		return floatOf(t)
	case []Value:
		return List(t...), nil
	case []any:
		list := make([]Value, len(t))
		for i, item := range t {
			v, err := ValueOf(item)
			if err != nil {
				return Value{}, err
			}
			list[i] = v
		}
		return Value{kind: KindList, list: list}, nil
	case []string:
		list := make([]Value, len(t))
		for i, item := range t {
			list[i] = String(item)
		}
		return Value{kind: KindList, list: list}, nil
	case map[string]any:
		m, err := MapOf(t)
		if err != nil {
			return Value{}, err
		}
		return Value{kind: KindMap, m: m}, nil
	case map[string]string:
		m := NewMap()
		for _, k := range slices.Sorted(maps.Keys(t)) {
			m.Set(k, String(t[k]))
		}
		return Value{kind: KindMap, m: m}, nil
	}
	return Value{}, fmt.Errorf("%w: unsupported value type %T", ErrInvalidParameter, x)
}

func floatOf(f float64) (Value, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Value{}, fmt.Errorf("%w: %v has no JSON representation", ErrInvalidParameter, f)
	}
	return Float(f), nil
}
