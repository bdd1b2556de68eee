package report

import (
	"fmt"
	"strconv"
)

// Kind identifies the scalar type held by a [Value].
type Kind uint8

const (
	KindText Kind = iota
	KindInt
	KindFloat
	KindEnum
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindEnum:
		return "enum"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Value is an immutable scalar. The zero Value is the empty text.
type Value struct {
	kind Kind
	i    int64
	f    float64
	s    string
}

// Int returns an integer value.
func Int(v int64) Value { return Value{kind: KindInt, i: v} }

// Float returns a floating point value.
func Float(v float64) Value { return Value{kind: KindFloat, f: v} }

// Text returns a text value.
func Text(s string) Value { return Value{kind: KindText, s: s} }

// Enum returns a value for an enumerable. The textual form is captured
// immediately, so later changes to whatever backs e are not observed.
func Enum(e fmt.Stringer) Value { return Value{kind: KindEnum, s: e.String()} }

// Kind returns the scalar type of v.
func (v Value) Kind() Kind { return v.kind }

// Int64 returns the integer held by v and whether v is an integer.
func (v Value) Int64() (int64, bool) { return v.i, v.kind == KindInt }

// Float64 returns v as a float and whether v is numeric.
func (v Value) Float64() (float64, bool) {
	switch v.kind {
	case KindFloat:
		return v.f, true
	case KindInt:
		return float64(v.i), true
	}
	return 0, false
}

// IsNumeric reports whether v is an integer or a float.
func (v Value) IsNumeric() bool { return v.kind == KindInt || v.kind == KindFloat }

// String returns the textual form used in rendered output.
func (v Value) String() string {
	switch v.kind {
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	default:
		return v.s
	}
}

// Ptr returns a pointer to a copy of v, for optional fields such as bookmarks.
func (v Value) Ptr() *Value { return &v }

// Values converts a list of Go values into report values.
// Integers, floats, strings, Values and fmt.Stringers map onto their
// natural kinds; anything else becomes text via fmt.Sprint.
func Values(items ...any) []Value {
	out := make([]Value, len(items))
	for i, it := range items {
		out[i] = ValueOf(it)
	}
	return out
}

// ValueOf converts a single Go value; see [Values].
func ValueOf(x any) Value {
	switch v := x.(type) {
	case Value:
		return v
	case string:
		return Text(v)
	case int:
		return Int(int64(v))
	case int8:
		return Int(int64(v))
	case int16:
		return Int(int64(v))
	case int32:
		return Int(int64(v))
	case int64:
		return Int(v)
	case uint:
		return Int(int64(v))
	case uint8:
		return Int(int64(v))
	case uint16:
		return Int(int64(v))
	case uint32:
		return Int(int64(v))
	case float32:
		return Float(float64(v))
	case float64:
		return Float(v)
	case fmt.Stringer:
		return Enum(v)
	default:
		return Text(fmt.Sprint(v))
	}
}

// Strings returns the textual forms of vs.
func Strings(vs []Value) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = v.String()
	}
	return out
}
