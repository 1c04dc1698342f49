package formula

import (
	"strconv"
)

// Builtins returns a new registry populated with the standard function
// library. Each call returns an independent registry, so callers may
// register or replace functions without affecting other evaluators.
func Builtins() *Registry {
	r := NewRegistry()

	for name, fn := range map[string]Func{
		// math
		"SUM":   fnSum,
		"AVG":   fnAvg,
		"MIN":   fnMin,
		"MAX":   fnMax,
		"COUNT": fnCount,
		"ROUND": fnRound,
		"CEIL":  unaryMath("CEIL", ceil),
		"FLOOR": unaryMath("FLOOR", floor),
		"ABS":   unaryMath("ABS", abs),
		"SQRT":  fnSqrt,
		"POW":   fnPow,
		"MOD":   fnMod,

		// logic
		"IF":      fnIf,
		"AND":     fnAnd,
		"OR":      fnOr,
		"NOT":     fnNot,
		"IFERROR": fnIfError,
		"ISERROR": fnIsError,

		// text
		"CONCAT":   fnConcat,
		"UPPER":    stringMap("UPPER", upper),
		"LOWER":    stringMap("LOWER", lower),
		"TRIM":     stringMap("TRIM", trim),
		"LENGTH":   fnLength,
		"CONTAINS": fnContains,
		"EMPTY":    fnEmpty,
		"TOSTRING": fnToString,
		"TONUMBER": fnToNumber,

		// date
		"NOW":   fnNow,
		"DATE":  fnDate,
		"YEAR":  datePart("YEAR", year),
		"MONTH": datePart("MONTH", month),
		"DAY":   datePart("DAY", day),

		// higher-order
		"MAP":     fnMap,
		"FILTER":  fnFilter,
		"REDUCE":  fnReduce,
		"FIND":    fnFind,
		"EVERY":   fnEvery,
		"SOME":    fnSome,
		"COUNTIF": fnCountIf,
		"FLAT":    fnFlat,
	} {
		r.Register(name, fn)
	}

	return r
}

// arity checks that the number of arguments lies in [lo, hi].
// A negative hi means no upper bound.
func arity(name string, args []Node, lo, hi int) error {
	n := len(args)

	switch {
	case n < lo || (hi >= 0 && n > hi):
		want := strconv.Itoa(lo)

		switch {
		case hi < 0:
			want = "at least " + want
		case hi != lo:
			want += " to " + strconv.Itoa(hi)
		}

		return InvalidArguments(name, "expects "+want+" arguments, got "+strconv.Itoa(n))

	default:
		return nil
	}
}

func evalArgs(args []Node, ctx Context, ev *Evaluator) ([]Value, error) {
	out := make([]Value, len(args))

	for i, a := range args {
		v, err := ev.Evaluate(a, ctx)
		if err != nil {
			return nil, err
		}

		out[i] = v
	}

	return out, nil
}

// flatten appends the leaves of vals to dst, descending into arrays and
// dropping nulls.
func flatten(dst []Value, vals ...Value) []Value {
	for _, v := range vals {
		switch v.kind {
		case KindNull:

		case KindArray:
			dst = flatten(dst, v.arr...)

		default:
			dst = append(dst, v)
		}
	}

	return dst
}

// numberArgs evaluates and flattens args, requiring every leaf to be a
// number.
func numberArgs(name string, args []Node, ctx Context, ev *Evaluator) ([]float64, error) {
	vals, err := evalArgs(args, ctx, ev)
	if err != nil {
		return nil, err
	}

	leaves := flatten(nil, vals...)
	nums := make([]float64, len(leaves))

	for i, v := range leaves {
		if e, ok := v.Err(); ok {
			return nil, e
		}

		if v.kind != KindNumber {
			return nil, InvalidArguments(name, "expected numbers, got "+v.kind.String())
		}

		nums[i] = v.num
	}

	return nums, nil
}

// numberArg evaluates a single argument that must be a number.
func numberArg(name string, arg Node, ctx Context, ev *Evaluator) (float64, error) {
	v, err := ev.Evaluate(arg, ctx)
	if err != nil {
		return 0, err
	}

	if v.kind != KindNumber {
		return 0, InvalidArguments(name, "expected number, got "+v.kind.String())
	}

	return v.num, nil
}

func fnIf(args []Node, ctx Context, ev *Evaluator) (Value, error) {
	if err := arity("IF", args, 2, 3); err != nil {
		return Null, err
	}

	cond, err := ev.Evaluate(args[0], ctx)
	if err != nil {
		return Null, err
	}

	if cond.kind != KindBoolean {
		return Null, InvalidArguments("IF", "condition must be boolean, got "+cond.kind.String())
	}

	switch {
	case cond.b:
		return ev.Evaluate(args[1], ctx)

	case len(args) == 3:
		return ev.Evaluate(args[2], ctx)

	default:
		return Null, nil
	}
}

// logical evaluates boolean arguments left to right, stopping at the first
// one equal to stop.
func logical(name string, stop bool) Func {
	return func(args []Node, ctx Context, ev *Evaluator) (Value, error) {
		if err := arity(name, args, 1, -1); err != nil {
			return Null, err
		}

		for _, a := range args {
			v, err := ev.Evaluate(a, ctx)
			if err != nil {
				return Null, err
			}

			if v.kind != KindBoolean {
				return Null, InvalidArguments(name, "expected boolean, got "+v.kind.String())
			}

			if v.b == stop {
				return Bool(stop), nil
			}
		}

		return Bool(!stop), nil
	}
}

var (
	fnAnd = logical("AND", false)
	fnOr  = logical("OR", true)
)

func fnNot(args []Node, ctx Context, ev *Evaluator) (Value, error) {
	if err := arity("NOT", args, 1, 1); err != nil {
		return Null, err
	}

	v, err := ev.Evaluate(args[0], ctx)
	if err != nil {
		return Null, err
	}

	if v.kind != KindBoolean {
		return Null, InvalidArguments("NOT", "expected boolean, got "+v.kind.String())
	}

	return Bool(!v.b), nil
}

func fnIfError(args []Node, ctx Context, ev *Evaluator) (Value, error) {
	if err := arity("IFERROR", args, 2, 2); err != nil {
		return Null, err
	}

	v, err := ev.Evaluate(args[0], ctx)
	if err != nil || v.kind == KindError {
		return ev.Evaluate(args[1], ctx)
	}

	return v, nil
}

func fnIsError(args []Node, ctx Context, ev *Evaluator) (Value, error) {
	if err := arity("ISERROR", args, 1, 1); err != nil {
		return Null, err
	}

	v, err := ev.Evaluate(args[0], ctx)

	return Bool(err != nil || v.kind == KindError), nil
}
