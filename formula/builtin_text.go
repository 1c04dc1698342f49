package formula

import (
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

func fnConcat(args []Node, ctx Context, ev *Evaluator) (Value, error) {
	vals, err := evalArgs(args, ctx, ev)
	if err != nil {
		return Null, err
	}

	var sb strings.Builder

	for _, v := range vals {
		if v.kind != KindNull {
			sb.WriteString(v.String())
		}
	}

	return String(sb.String()), nil
}

func stringMap(name string, fn func(string) string) Func {
	return func(args []Node, ctx Context, ev *Evaluator) (Value, error) {
		if err := arity(name, args, 1, 1); err != nil {
			return Null, err
		}

		v, err := ev.Evaluate(args[0], ctx)
		if err != nil {
			return Null, err
		}

		if v.kind != KindString {
			return Null, InvalidArguments(name, "expected string, got "+v.kind.String())
		}

		return String(fn(v.str)), nil
	}
}

var (
	upper = strings.ToUpper
	lower = strings.ToLower
	trim  = strings.TrimSpace
)

// fnLength returns the rune count of a string or the element count of an
// array or dictionary.
func fnLength(args []Node, ctx Context, ev *Evaluator) (Value, error) {
	if err := arity("LENGTH", args, 1, 1); err != nil {
		return Null, err
	}

	v, err := ev.Evaluate(args[0], ctx)
	if err != nil {
		return Null, err
	}

	switch v.kind {
	case KindString:
		return Number(float64(utf8.RuneCountInString(v.str))), nil

	case KindArray:
		return Number(float64(len(v.arr))), nil

	case KindDictionary:
		return Number(float64(len(v.dict))), nil

	case KindNull:
		return Number(0), nil

	default:
		return Null, InvalidArguments("LENGTH", "expected string or array, got "+v.kind.String())
	}
}

func fnContains(args []Node, ctx Context, ev *Evaluator) (Value, error) {
	if err := arity("CONTAINS", args, 2, 2); err != nil {
		return Null, err
	}

	vals, err := evalArgs(args, ctx, ev)
	if err != nil {
		return Null, err
	}

	hay, needle := vals[0], vals[1]

	switch hay.kind {
	case KindString:
		if needle.kind != KindString {
			return Null, InvalidArguments("CONTAINS", "expected string needle, got "+needle.kind.String())
		}

		return Bool(strings.Contains(hay.str, needle.str)), nil

	case KindArray:
		for _, e := range hay.arr {
			if Equal(e, needle) {
				return Bool(true), nil
			}
		}

		return Bool(false), nil

	default:
		return Null, InvalidArguments("CONTAINS", "expected string or array, got "+hay.kind.String())
	}
}

// fnEmpty reports whether its argument is null, an empty string, or an
// empty array or dictionary.
func fnEmpty(args []Node, ctx Context, ev *Evaluator) (Value, error) {
	if err := arity("EMPTY", args, 1, 1); err != nil {
		return Null, err
	}

	v, err := ev.Evaluate(args[0], ctx)
	if err != nil {
		return Null, err
	}

	switch v.kind {
	case KindNull:
		return Bool(true), nil

	case KindString:
		return Bool(v.str == ""), nil

	case KindArray:
		return Bool(len(v.arr) == 0), nil

	case KindDictionary:
		return Bool(len(v.dict) == 0), nil

	default:
		return Bool(false), nil
	}
}

func fnToString(args []Node, ctx Context, ev *Evaluator) (Value, error) {
	if err := arity("TOSTRING", args, 1, 1); err != nil {
		return Null, err
	}

	v, err := ev.Evaluate(args[0], ctx)
	if err != nil {
		return Null, err
	}

	return String(v.String()), nil
}

func fnToNumber(args []Node, ctx Context, ev *Evaluator) (Value, error) {
	if err := arity("TONUMBER", args, 1, 1); err != nil {
		return Null, err
	}

	v, err := ev.Evaluate(args[0], ctx)
	if err != nil {
		return Null, err
	}

	switch v.kind {
	case KindNumber:
		return v, nil

	case KindBoolean:
		if v.b {
			return Number(1), nil
		}

		return Number(0), nil

	case KindString:
		n, perr := strconv.ParseFloat(strings.TrimSpace(v.str), 64)
		if perr != nil {
			return Null, InvalidArguments("TONUMBER", "cannot convert "+strconv.Quote(v.str))
		}

		return Number(n), nil

	default:
		return Null, InvalidArguments("TONUMBER", "cannot convert "+v.kind.String())
	}
}

func fnNow(args []Node, _ Context, ev *Evaluator) (Value, error) {
	if err := arity("NOW", args, 0, 0); err != nil {
		return Null, err
	}

	return Date(ev.Now()), nil
}

// dateLayouts are tried in order when DATE is given a string.
var dateLayouts = []string{time.RFC3339, time.DateTime, time.DateOnly}

// ParseDate parses s using the accepted date layouts.
func ParseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// fnDate builds a UTC date from DATE(year, month, day) or parses
// DATE("2006-01-02").
func fnDate(args []Node, ctx Context, ev *Evaluator) (Value, error) {
	if err := arity("DATE", args, 1, 3); err != nil {
		return Null, err
	}

	if len(args) == 1 {
		v, err := ev.Evaluate(args[0], ctx)
		if err != nil {
			return Null, err
		}

		switch v.kind {
		case KindDate:
			return v, nil

		case KindString:
			if t, ok := ParseDate(v.str); ok {
				return Date(t), nil
			}

			return Null, InvalidArguments("DATE", "cannot parse "+strconv.Quote(v.str))

		default:
			return Null, InvalidArguments("DATE", "expected string, got "+v.kind.String())
		}
	}

	if err := arity("DATE", args, 3, 3); err != nil {
		return Null, err
	}

	nums, err := numberArgs("DATE", args, ctx, ev)
	if err != nil {
		return Null, err
	}

	if len(nums) != 3 {
		return Null, InvalidArguments("DATE", "expected year, month and day")
	}

	return Date(time.Date(int(nums[0]), time.Month(nums[1]), int(nums[2]),
		0, 0, 0, 0, time.UTC)), nil
}

func datePart(name string, part func(time.Time) int) Func {
	return func(args []Node, ctx Context, ev *Evaluator) (Value, error) {
		if err := arity(name, args, 1, 1); err != nil {
			return Null, err
		}

		v, err := ev.Evaluate(args[0], ctx)
		if err != nil {
			return Null, err
		}

		t, ok := v.Date()
		if !ok {
			return Null, InvalidArguments(name, "expected date, got "+v.kind.String())
		}

		return Number(float64(part(t.UTC()))), nil
	}
}

func year(t time.Time) int  { return t.Year() }
func month(t time.Time) int { return int(t.Month()) }
func day(t time.Time) int   { return t.Day() }
