package formula

import (
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the layout used to describe dates in stringified values.
const DateLayout = "2006-01-02 15:04:05 -0700"

// Kind indicates the kind of a [Value].
type Kind int

const (
	// KindNull is the absent value, e.g. a missing table cell.
	KindNull Kind = iota

	// KindNumber is a float64 number.
	KindNumber

	// KindString is a UTF-8 string.
	KindString

	// KindBoolean is true or false.
	KindBoolean

	// KindArray is an ordered list of values.
	KindArray

	// KindDictionary is an unordered map of string keys to values.
	KindDictionary

	// KindDate is a point in time.
	KindDate

	// KindError carries a failure as data.
	KindError
)

// String returns a string representation of the value kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"

	case KindNumber:
		return "number"

	case KindString:
		return "string"

	case KindBoolean:
		return "boolean"

	case KindArray:
		return "array"

	case KindDictionary:
		return "dictionary"

	case KindDate:
		return "date"

	case KindError:
		return "error"

	default:
		return "unknown"
	}
}

// Value is the tagged value produced by literals and evaluation.
// Exactly one payload field is meaningful, selected by the kind.
// The zero Value is null.
type Value struct {
	kind Kind
	num  float64
	str  string
	b    bool
	arr  []Value
	dict map[string]Value
	date time.Time
	err  *Error
}

// Null is the null value.
var Null = Value{}

// Number returns a number value.
func Number(n float64) Value { return Value{kind: KindNumber, num: n} }

// String returns a string value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBoolean, b: b} }

// Array returns an array value holding elems in order.
func Array(elems ...Value) Value {
	if elems == nil {
		elems = []Value{}
	}

	return Value{kind: KindArray, arr: elems}
}

// Dictionary returns a dictionary value. The map is not copied.
func Dictionary(m map[string]Value) Value {
	if m == nil {
		m = map[string]Value{}
	}

	return Value{kind: KindDictionary, dict: m}
}

// Date returns a date value.
func Date(t time.Time) Value { return Value{kind: KindDate, date: t} }

// ErrorValue returns a value carrying err.
func ErrorValue(err *Error) Value { return Value{kind: KindError, err: err} }

// Kind returns the kind of v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Number returns the number payload and whether v is a number.
func (v Value) Number() (float64, bool) { return v.num, v.kind == KindNumber }

// Str returns the string payload and whether v is a string.
func (v Value) Str() (string, bool) { return v.str, v.kind == KindString }

// Bool returns the boolean payload and whether v is a boolean.
func (v Value) Bool() (bool, bool) { return v.b, v.kind == KindBoolean }

// Array returns the elements and whether v is an array.
// The returned slice must not be modified.
func (v Value) Array() ([]Value, bool) { return v.arr, v.kind == KindArray }

// Dictionary returns the entries and whether v is a dictionary.
// The returned map must not be modified.
func (v Value) Dictionary() (map[string]Value, bool) {
	return v.dict, v.kind == KindDictionary
}

// Date returns the time payload and whether v is a date.
func (v Value) Date() (time.Time, bool) { return v.date, v.kind == KindDate }

// Err returns the error payload and whether v is an error value.
func (v Value) Err() (*Error, bool) { return v.err, v.kind == KindError }

// Equal reports whether a and b are structurally equal. Values of different
// kinds are never equal. Array order matters; dictionary key order does not.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}

	switch a.kind {
	case KindNull:
		return true

	case KindNumber:
		return a.num == b.num

	case KindString:
		return a.str == b.str

	case KindBoolean:
		return a.b == b.b

	case KindArray:
		return slices.EqualFunc(a.arr, b.arr, Equal)

	case KindDictionary:
		return maps.EqualFunc(a.dict, b.dict, Equal)

	case KindDate:
		return a.date.Equal(b.date)

	case KindError:
		return a.err.Tag() == b.err.Tag()

	default:
		return false
	}
}

// String returns the stringified form of v used by string concatenation:
// strings are raw, booleans are "true"/"false", arrays are bracketed and
// comma-joined, and errors render as their tag (see [Error.Tag]).
func (v Value) String() string {
	var sb strings.Builder

	v.writeTo(&sb)

	return sb.String()
}

func (v Value) writeTo(sb *strings.Builder) {
	switch v.kind {
	case KindNull:
		sb.WriteString("null")

	case KindNumber:
		sb.WriteString(FormatNumber(v.num))

	case KindString:
		sb.WriteString(v.str)

	case KindBoolean:
		sb.WriteString(strconv.FormatBool(v.b))

	case KindArray:
		sb.WriteByte('[')

		for i, e := range v.arr {
			if i > 0 {
				sb.WriteString(", ")
			}

			e.writeTo(sb)
		}

		sb.WriteByte(']')

	case KindDictionary:
		sb.WriteByte('{')

		for i, k := range slices.Sorted(maps.Keys(v.dict)) {
			if i > 0 {
				sb.WriteString(", ")
			}

			sb.WriteString(k)
			sb.WriteString(": ")
			v.dict[k].writeTo(sb)
		}

		sb.WriteByte('}')

	case KindDate:
		sb.WriteString(v.date.UTC().Format(DateLayout))

	case KindError:
		sb.WriteString(v.err.Tag())
	}
}

// FormatNumber formats n without a trailing fractional part when n is
// integral, e.g. 100 rather than 100.0.
func FormatNumber(n float64) string {
	switch {
	case math.IsInf(n, 1):
		return "Infinity"

	case math.IsInf(n, -1):
		return "-Infinity"

	case math.IsNaN(n):
		return "NaN"
	}

	return strconv.FormatFloat(n, 'f', -1, 64)
}

// Native converts v to plain Go values: nil, float64, string, bool, []any,
// map[string]any, time.Time, or the error tag string for error values.
func (v Value) Native() any {
	switch v.kind {
	case KindNumber:
		return v.num

	case KindString:
		return v.str

	case KindBoolean:
		return v.b

	case KindArray:
		out := make([]any, len(v.arr))
		for i, e := range v.arr {
			out[i] = e.Native()
		}

		return out

	case KindDictionary:
		out := make(map[string]any, len(v.dict))
		for k, e := range v.dict {
			out[k] = e.Native()
		}

		return out

	case KindDate:
		return v.date

	case KindError:
		return v.err.Tag()

	default:
		return nil
	}
}

// FromNative converts plain Go values into a Value. Unsupported types yield
// a type mismatch error.
func FromNative(x any) (Value, error) {
	switch t := x.(type) {
	case nil:
		return Null, nil

	case Value:
		return t, nil

	case bool:
		return Bool(t), nil

	case string:
		return String(t), nil

	case float64:
		return Number(t), nil

	case float32:
		return Number(float64(t)), nil

	case int:
		return Number(float64(t)), nil

	case int64:
		return Number(float64(t)), nil

	case int32:
		return Number(float64(t)), nil

	case uint64:
		return Number(float64(t)), nil

	case uint:
		return Number(float64(t)), nil

	case time.Time:
		return Date(t), nil

	case []any:
		out := make([]Value, len(t))

		for i, e := range t {
			ev, err := FromNative(e)
			if err != nil {
				return Null, err
			}

			out[i] = ev
		}

		return Array(out...), nil

	case map[string]any:
		out := make(map[string]Value, len(t))

		for k, e := range t {
			ev, err := FromNative(e)
			if err != nil {
				return Null, err
			}

			out[k] = ev
		}

		return Dictionary(out), nil

	default:
		return Null, TypeMismatch("native value", typeName(x))
	}
}
