package formula

import (
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/ardnew/formula/log"
)

// Evaluator walks parsed formulas against a [Context], dispatching calls
// through its [Registry]. An Evaluator holds no per-evaluation state and may
// be shared by any number of sequential evaluations.
type Evaluator struct {
	registry *Registry
	logger   log.Logger
	now      func() time.Time
}

// Option configures an [Evaluator].
type Option func(*Evaluator)

// WithRegistry sets the function registry. The default is a fresh
// [Builtins] registry.
func WithRegistry(r *Registry) Option {
	return func(ev *Evaluator) {
		ev.registry = r
	}
}

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(ev *Evaluator) {
		ev.logger = logger
	}
}

// WithClock sets the time source used by date functions such as NOW.
func WithClock(now func() time.Time) Option {
	return func(ev *Evaluator) {
		ev.now = now
	}
}

func applyDefaults(ev *Evaluator) {
	ev.now = time.Now
}

func applyOptions(ev *Evaluator, opts ...Option) {
	for _, opt := range opts {
		opt(ev)
	}
}

// NewEvaluator returns an evaluator configured by opts.
func NewEvaluator(opts ...Option) *Evaluator {
	ev := new(Evaluator)

	applyDefaults(ev)
	applyOptions(ev, opts...)

	if ev.registry == nil {
		ev.registry = Builtins()
	}

	return ev
}

// Registry returns the evaluator's function registry.
func (ev *Evaluator) Registry() *Registry { return ev.registry }

// Logger returns the evaluator's logger.
func (ev *Evaluator) Logger() log.Logger { return ev.logger }

// Now returns the current time from the evaluator's clock.
func (ev *Evaluator) Now() time.Time { return ev.now() }

// EvaluateString parses and evaluates source.
func (ev *Evaluator) EvaluateString(source string, ctx Context) (Value, error) {
	n, err := Parse(source)
	if err != nil {
		return Null, err
	}

	return ev.Evaluate(n, ctx)
}

// Evaluate computes the value of n in ctx. Every non-nil error is an
// *[Error]; the first failing operand aborts the enclosing node.
func (ev *Evaluator) Evaluate(n Node, ctx Context) (Value, error) {
	switch x := n.(type) {
	case *Literal:
		return x.Value, nil

	case *Reference:
		v, err := ctx.Resolve(x.Path)
		if err != nil {
			return Null, asError(err)
		}

		return v, nil

	case *Infix:
		left, err := ev.Evaluate(x.Left, ctx)
		if err != nil {
			return Null, err
		}

		right, err := ev.Evaluate(x.Right, ctx)
		if err != nil {
			return Null, err
		}

		return infix(x.Op, left, right)

	case *Prefix:
		operand, err := ev.Evaluate(x.Operand, ctx)
		if err != nil {
			return Null, err
		}

		return prefix(x.Op, operand)

	case *Call:
		return ev.call(x, ctx)

	case *ArrayLit:
		elems := make([]Value, len(x.Elements))

		for i, e := range x.Elements {
			v, err := ev.Evaluate(e, ctx)
			if err != nil {
				return Null, err
			}

			elems[i] = v
		}

		return Array(elems...), nil

	case *Lambda:
		return Null, UnknownError("lambda can only be passed to a function")

	default:
		return Null, UnknownError("unsupported expression " + typeName(n))
	}
}

func (ev *Evaluator) call(c *Call, ctx Context) (Value, error) {
	fn, ok := ev.registry.Lookup(c.Name)
	if !ok {
		return Null, UnknownError("unknown function " + c.Name)
	}

	v, err := fn(c.Args, ctx, ev)
	if err != nil {
		fe := asError(err)

		ev.logger.Trace(
			"function failed",
			slog.String("function", strings.ToUpper(c.Name)),
			slog.Int("args", len(c.Args)),
			slog.Any("error", fe),
		)

		return Null, fe
	}

	return v, nil
}

// Call evaluates the body of lam with its parameters bound to args in a
// context derived from ctx. A lambda may declare fewer parameters than
// args supplied; the surplus is ignored.
func (ev *Evaluator) Call(lam *Lambda, ctx Context, args ...Value) (Value, error) {
	if len(lam.Params) > len(args) {
		return Null, InvalidArguments("lambda",
			"expects "+strconv.Itoa(len(lam.Params))+" parameters, got "+
				strconv.Itoa(len(args)))
	}

	for i, name := range lam.Params {
		ctx = ctx.With(name, args[i])
	}

	return ev.Evaluate(lam.Body, ctx)
}

func infix(op string, l, r Value) (Value, error) {
	if op == "+" && (l.kind == KindString || r.kind == KindString) {
		return String(l.String() + r.String()), nil
	}

	switch op {
	case "==":
		return Bool(Equal(l, r)), nil

	case "!=":
		return Bool(!Equal(l, r)), nil
	}

	if e, ok := l.Err(); ok {
		return Null, e
	}

	if e, ok := r.Err(); ok {
		return Null, e
	}

	switch op {
	case "+", "-", "*", "/":
		a, b, err := numbers(l, r)
		if err != nil {
			return Null, err
		}

		switch op {
		case "+":
			return Number(a + b), nil

		case "-":
			return Number(a - b), nil

		case "*":
			return Number(a * b), nil

		default:
			if b == 0 {
				return Null, DivisionByZero()
			}

			return Number(a / b), nil
		}

	case ">", "<", ">=", "<=":
		return compare(op, l, r)

	case "&&", "||":
		if l.kind != KindBoolean {
			return Null, TypeMismatch(KindBoolean.String(), l.kind.String())
		}

		if r.kind != KindBoolean {
			return Null, TypeMismatch(KindBoolean.String(), r.kind.String())
		}

		if op == "&&" {
			return Bool(l.b && r.b), nil
		}

		return Bool(l.b || r.b), nil

	default:
		return Null, UnknownError("unknown operator " + op)
	}
}

func numbers(l, r Value) (float64, float64, error) {
	if l.kind != KindNumber {
		return 0, 0, TypeMismatch(KindNumber.String(), l.kind.String())
	}

	if r.kind != KindNumber {
		return 0, 0, TypeMismatch(KindNumber.String(), r.kind.String())
	}

	return l.num, r.num, nil
}

func compare(op string, l, r Value) (Value, error) {
	var c int

	switch {
	case l.kind == KindNumber && r.kind == KindNumber:
		switch {
		case l.num < r.num:
			c = -1
		case l.num > r.num:
			c = 1
		}

	case l.kind == KindString && r.kind == KindString:
		c = strings.Compare(l.str, r.str)

	case l.kind != KindNumber && l.kind != KindString:
		return Null, TypeMismatch("number or string", l.kind.String())

	default:
		return Null, TypeMismatch(l.kind.String(), r.kind.String())
	}

	switch op {
	case ">":
		return Bool(c > 0), nil

	case "<":
		return Bool(c < 0), nil

	case ">=":
		return Bool(c >= 0), nil

	default:
		return Bool(c <= 0), nil
	}
}

func prefix(op string, v Value) (Value, error) {
	if e, ok := v.Err(); ok {
		return Null, e
	}

	switch op {
	case "-":
		if v.kind != KindNumber {
			return Null, TypeMismatch(KindNumber.String(), v.kind.String())
		}

		return Number(-v.num), nil

	case "!":
		if v.kind != KindBoolean {
			return Null, TypeMismatch(KindBoolean.String(), v.kind.String())
		}

		return Bool(!v.b), nil

	default:
		return Null, UnknownError("unknown prefix operator " + op)
	}
}
