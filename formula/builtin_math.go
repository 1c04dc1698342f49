package formula

import "math"

func fnSum(args []Node, ctx Context, ev *Evaluator) (Value, error) {
	nums, err := numberArgs("SUM", args, ctx, ev)
	if err != nil {
		return Null, err
	}

	var sum float64
	for _, n := range nums {
		sum += n
	}

	return Number(sum), nil
}

func fnAvg(args []Node, ctx Context, ev *Evaluator) (Value, error) {
	nums, err := numberArgs("AVG", args, ctx, ev)
	if err != nil {
		return Null, err
	}

	if len(nums) == 0 {
		return Null, DivisionByZero()
	}

	var sum float64
	for _, n := range nums {
		sum += n
	}

	return Number(sum / float64(len(nums))), nil
}

func extremum(name string, better func(a, b float64) bool) Func {
	return func(args []Node, ctx Context, ev *Evaluator) (Value, error) {
		nums, err := numberArgs(name, args, ctx, ev)
		if err != nil {
			return Null, err
		}

		if len(nums) == 0 {
			return Null, InvalidArguments(name, "no values")
		}

		best := nums[0]
		for _, n := range nums[1:] {
			if better(n, best) {
				best = n
			}
		}

		return Number(best), nil
	}
}

var (
	fnMin = extremum("MIN", func(a, b float64) bool { return a < b })
	fnMax = extremum("MAX", func(a, b float64) bool { return a > b })
)

// fnCount counts the non-null leaves of its arguments, of any kind.
func fnCount(args []Node, ctx Context, ev *Evaluator) (Value, error) {
	vals, err := evalArgs(args, ctx, ev)
	if err != nil {
		return Null, err
	}

	return Number(float64(len(flatten(nil, vals...)))), nil
}

func fnRound(args []Node, ctx Context, ev *Evaluator) (Value, error) {
	if err := arity("ROUND", args, 1, 2); err != nil {
		return Null, err
	}

	x, err := numberArg("ROUND", args[0], ctx, ev)
	if err != nil {
		return Null, err
	}

	var digits float64

	if len(args) == 2 {
		if digits, err = numberArg("ROUND", args[1], ctx, ev); err != nil {
			return Null, err
		}
	}

	scale := math.Pow(10, math.Trunc(digits))

	return Number(math.Round(x*scale) / scale), nil
}

func unaryMath(name string, fn func(float64) float64) Func {
	return func(args []Node, ctx Context, ev *Evaluator) (Value, error) {
		if err := arity(name, args, 1, 1); err != nil {
			return Null, err
		}

		x, err := numberArg(name, args[0], ctx, ev)
		if err != nil {
			return Null, err
		}

		return Number(fn(x)), nil
	}
}

var (
	ceil  = math.Ceil
	floor = math.Floor
	abs   = math.Abs
)

func fnSqrt(args []Node, ctx Context, ev *Evaluator) (Value, error) {
	if err := arity("SQRT", args, 1, 1); err != nil {
		return Null, err
	}

	x, err := numberArg("SQRT", args[0], ctx, ev)
	if err != nil {
		return Null, err
	}

	if x < 0 {
		return Null, InvalidArguments("SQRT", "negative operand")
	}

	return Number(math.Sqrt(x)), nil
}

func fnPow(args []Node, ctx Context, ev *Evaluator) (Value, error) {
	if err := arity("POW", args, 2, 2); err != nil {
		return Null, err
	}

	x, err := numberArg("POW", args[0], ctx, ev)
	if err != nil {
		return Null, err
	}

	y, err := numberArg("POW", args[1], ctx, ev)
	if err != nil {
		return Null, err
	}

	return Number(math.Pow(x, y)), nil
}

func fnMod(args []Node, ctx Context, ev *Evaluator) (Value, error) {
	if err := arity("MOD", args, 2, 2); err != nil {
		return Null, err
	}

	x, err := numberArg("MOD", args[0], ctx, ev)
	if err != nil {
		return Null, err
	}

	y, err := numberArg("MOD", args[1], ctx, ev)
	if err != nil {
		return Null, err
	}

	if y == 0 {
		return Null, DivisionByZero()
	}

	return Number(math.Mod(x, y)), nil
}
