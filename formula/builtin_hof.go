package formula

// The higher-order functions take an array followed by a lambda. The lambda
// is invoked once per element with (element, index); REDUCE passes
// (accumulator, element, index).

func arrayAndLambda(
	name string,
	args []Node,
	ctx Context,
	ev *Evaluator,
) ([]Value, *Lambda, error) {
	v, err := ev.Evaluate(args[0], ctx)
	if err != nil {
		return nil, nil, err
	}

	var elems []Value

	switch v.kind {
	case KindArray:
		elems = v.arr

	case KindNull:

	default:
		return nil, nil, InvalidArguments(name, "expected array, got "+v.kind.String())
	}

	lam, ok := args[1].(*Lambda)
	if !ok {
		return nil, nil, InvalidArguments(name, "expected a lambda")
	}

	return elems, lam, nil
}

func predicate(name string, lam *Lambda, ctx Context, ev *Evaluator, e Value, i int) (bool, error) {
	v, err := ev.Call(lam, ctx, e, Number(float64(i)))
	if err != nil {
		return false, err
	}

	if v.kind != KindBoolean {
		return false, InvalidArguments(name, "lambda must return boolean, got "+v.kind.String())
	}

	return v.b, nil
}

func fnMap(args []Node, ctx Context, ev *Evaluator) (Value, error) {
	if err := arity("MAP", args, 2, 2); err != nil {
		return Null, err
	}

	elems, lam, err := arrayAndLambda("MAP", args, ctx, ev)
	if err != nil {
		return Null, err
	}

	out := make([]Value, len(elems))

	for i, e := range elems {
		if out[i], err = ev.Call(lam, ctx, e, Number(float64(i))); err != nil {
			return Null, err
		}
	}

	return Array(out...), nil
}

func fnFilter(args []Node, ctx Context, ev *Evaluator) (Value, error) {
	if err := arity("FILTER", args, 2, 2); err != nil {
		return Null, err
	}

	elems, lam, err := arrayAndLambda("FILTER", args, ctx, ev)
	if err != nil {
		return Null, err
	}

	out := []Value{}

	for i, e := range elems {
		keep, err := predicate("FILTER", lam, ctx, ev, e, i)
		if err != nil {
			return Null, err
		}

		if keep {
			out = append(out, e)
		}
	}

	return Array(out...), nil
}

func fnReduce(args []Node, ctx Context, ev *Evaluator) (Value, error) {
	if err := arity("REDUCE", args, 3, 3); err != nil {
		return Null, err
	}

	elems, lam, err := arrayAndLambda("REDUCE", args, ctx, ev)
	if err != nil {
		return Null, err
	}

	acc, err := ev.Evaluate(args[2], ctx)
	if err != nil {
		return Null, err
	}

	for i, e := range elems {
		if acc, err = ev.Call(lam, ctx, acc, e, Number(float64(i))); err != nil {
			return Null, err
		}
	}

	return acc, nil
}

func fnFind(args []Node, ctx Context, ev *Evaluator) (Value, error) {
	if err := arity("FIND", args, 2, 2); err != nil {
		return Null, err
	}

	elems, lam, err := arrayAndLambda("FIND", args, ctx, ev)
	if err != nil {
		return Null, err
	}

	for i, e := range elems {
		ok, err := predicate("FIND", lam, ctx, ev, e, i)
		if err != nil {
			return Null, err
		}

		if ok {
			return e, nil
		}
	}

	return Null, nil
}

// quantifier returns EVERY (want=false) or SOME (want=true): it stops at
// the first element whose predicate equals want.
func quantifier(name string, want bool) Func {
	return func(args []Node, ctx Context, ev *Evaluator) (Value, error) {
		if err := arity(name, args, 2, 2); err != nil {
			return Null, err
		}

		elems, lam, err := arrayAndLambda(name, args, ctx, ev)
		if err != nil {
			return Null, err
		}

		for i, e := range elems {
			ok, err := predicate(name, lam, ctx, ev, e, i)
			if err != nil {
				return Null, err
			}

			if ok == want {
				return Bool(want), nil
			}
		}

		return Bool(!want), nil
	}
}

var (
	fnEvery = quantifier("EVERY", false)
	fnSome  = quantifier("SOME", true)
)

func fnCountIf(args []Node, ctx Context, ev *Evaluator) (Value, error) {
	if err := arity("COUNTIF", args, 2, 2); err != nil {
		return Null, err
	}

	elems, lam, err := arrayAndLambda("COUNTIF", args, ctx, ev)
	if err != nil {
		return Null, err
	}

	n := 0

	for i, e := range elems {
		ok, err := predicate("COUNTIF", lam, ctx, ev, e, i)
		if err != nil {
			return Null, err
		}

		if ok {
			n++
		}
	}

	return Number(float64(n)), nil
}

// fnFlat concatenates its arguments into one array, flattening nested
// arrays and dropping nulls.
func fnFlat(args []Node, ctx Context, ev *Evaluator) (Value, error) {
	vals, err := evalArgs(args, ctx, ev)
	if err != nil {
		return Null, err
	}

	return Array(flatten(nil, vals...)...), nil
}
