package formula

import (
	"errors"
	"testing"
)

func evalString(t *testing.T, source string, ctx Context) (Value, error) {
	t.Helper()

	if ctx == nil {
		ctx = NewDictionaryContext(nil)
	}

	return NewEvaluator().EvaluateString(source, ctx)
}

func TestEvaluate_Values(t *testing.T) {
	ctx := NewDictionaryContext(map[string]Value{
		"price":    Number(25),
		"quantity": Number(4),
		"name":     String("widget"),
		"bad":      ErrorValue(DivisionByZero()),
		"tags":     Array(String("a"), String("b")),
	})

	tests := []struct {
		input string
		want  Value
	}{
		{"1 + 2 * 3", Number(7)},
		{"(1 + 2) * 3", Number(9)},
		{"-5", Number(-5)},
		{"--5", Number(5)},
		{"10 / 4", Number(2.5)},
		{"10 - 4 - 3", Number(3)},
		{"1 == \"1\"", Bool(false)},
		{"1 != \"1\"", Bool(true)},
		{"[1, 2] == [1, 2]", Bool(true)},
		{"[1, 2] == [2, 1]", Bool(false)},
		{`"abc" < "abd"`, Bool(true)},
		{"3 >= 3", Bool(true)},
		{"true && !false", Bool(true)},
		{"false || false", Bool(false)},
		{`"" + true`, String("true")},
		{`"" + [1]`, String("[1]")},
		{`"" + bad`, String("#DIV/0!")},
		{`"n=" + 2.5`, String("n=2.5")},
		{`1 + "x"`, String("1x")},
		{`"" + tags`, String("[a, b]")},
		{"{price} * {quantity}", Number(100)},
		{`name + "!"`, String("widget!")},
		{"tags.1", String("b")},
		{"[price, quantity]", Array(Number(25), Number(4))},
		{"sum(1, 2)", Number(3)},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := evalString(t, tt.input, ctx)
			if err != nil {
				t.Fatalf("evaluate error: %v", err)
			}

			if !Equal(got, tt.want) {
				t.Errorf("expected %v (%v), got %v (%v)",
					tt.want, tt.want.Kind(), got, got.Kind())
			}
		})
	}
}

func TestEvaluate_Errors(t *testing.T) {
	ctx := NewDictionaryContext(map[string]Value{
		"bad": ErrorValue(DivisionByZero()),
	})

	tests := []struct {
		input string
		want  error
	}{
		{"10 / 0", ErrDivisionByZero},
		{`"a" - 1`, ErrTypeMismatch},
		{`1 * "a"`, ErrTypeMismatch},
		{`1 < "a"`, ErrTypeMismatch},
		{"true > false", ErrTypeMismatch},
		{"-true", ErrTypeMismatch},
		{"!1", ErrTypeMismatch},
		{"1 && true", ErrTypeMismatch},
		{"true || 1 / 0", ErrDivisionByZero},
		{"false && missing", ErrInvalidReference},
		{"[1, 1 / 0]", ErrDivisionByZero},
		{"1 + bad", ErrDivisionByZero},
		{"missing", ErrInvalidReference},
		{"MAP", ErrInvalidReference},
		{"NOPE(1)", ErrUnknown},
		{"1 +", ErrSyntax},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := evalString(t, tt.input, ctx)
			if err == nil {
				t.Fatalf("expected error, got %v", got)
			}

			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}

			var fe *Error
			if !errors.As(err, &fe) {
				t.Errorf("expected *Error, got %T", err)
			}
		})
	}
}

func TestEvaluate_CompareMismatch(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		actual   string
	}{
		{"[1] < [2]", "number or string", "array"},
		{"true > false", "number or string", "boolean"},
		{`1 < "a"`, "number", "string"},
		{`"a" >= 1`, "string", "number"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := evalString(t, tt.input, nil)

			var fe *Error
			if !errors.As(err, &fe) || fe.Kind != KindTypeMismatch {
				t.Fatalf("expected type mismatch, got %v", err)
			}

			if fe.Expected != tt.expected || fe.Actual != tt.actual {
				t.Errorf("expected (%s, %s), got (%s, %s)", tt.expected, tt.actual, fe.Expected, fe.Actual)
			}
		})
	}
}

func TestEvaluate_LambdaOutsideCall(t *testing.T) {
	lam := &Lambda{Params: []string{"x"}, Body: ref("x")}

	_, err := NewEvaluator().Evaluate(lam, NewDictionaryContext(nil))
	if !errors.Is(err, ErrUnknown) {
		t.Fatalf("expected unknown error, got %v", err)
	}
}

func TestEvaluate_UnknownPrefix(t *testing.T) {
	n := &Prefix{Op: "~", Operand: num(1)}

	_, err := NewEvaluator().Evaluate(n, NewDictionaryContext(nil))
	if !errors.Is(err, ErrUnknown) {
		t.Fatalf("expected unknown error, got %v", err)
	}
}

func TestEvaluate_ReferenceTracksContext(t *testing.T) {
	ctx := NewDictionaryContext(map[string]Value{
		"price":    Number(25),
		"quantity": Number(4),
	})

	n := mustParse(t, "{price} * {quantity}")
	ev := NewEvaluator()

	got, err := ev.Evaluate(n, ctx)
	if err != nil {
		t.Fatalf("evaluate error: %v", err)
	}

	if !Equal(got, Number(100)) {
		t.Fatalf("expected 100, got %v", got)
	}

	ctx.Set("price", Number(7))

	got, err = ev.Evaluate(n, ctx)
	if err != nil {
		t.Fatalf("evaluate error: %v", err)
	}

	if !Equal(got, Number(28)) {
		t.Errorf("expected 28, got %v", got)
	}
}

func TestEvaluate_MapScenario(t *testing.T) {
	got, err := evalString(t, "MAP([1,2], (x) → x * 2)", nil)
	if err != nil {
		t.Fatalf("evaluate error: %v", err)
	}

	if !Equal(got, Array(Number(2), Number(4))) {
		t.Errorf("expected [2, 4], got %v", got)
	}
}

func TestRegistry_Overwrite(t *testing.T) {
	reg := Builtins()
	reg.Register("sum", func([]Node, Context, *Evaluator) (Value, error) {
		return Number(42), nil
	})

	ev := NewEvaluator(WithRegistry(reg))

	got, err := ev.EvaluateString("SUM(1, 2)", NewDictionaryContext(nil))
	if err != nil {
		t.Fatalf("evaluate error: %v", err)
	}

	if !Equal(got, Number(42)) {
		t.Errorf("expected overriding SUM to return 42, got %v", got)
	}

	other, err := NewEvaluator().EvaluateString("SUM(1, 2)", NewDictionaryContext(nil))
	if err != nil {
		t.Fatalf("evaluate error: %v", err)
	}

	if !Equal(other, Number(3)) {
		t.Errorf("expected independent registry to keep SUM, got %v", other)
	}

	if _, ok := reg.Lookup("Sum"); !ok {
		t.Error("expected case-insensitive lookup")
	}
}

func TestErrorTags(t *testing.T) {
	tests := []struct {
		err  *Error
		want string
	}{
		{SyntaxError(0, "bad"), "#SYNTAX!(bad)"},
		{InvalidReference("a.b"), "#REF!(a.b)"},
		{TypeMismatch("number", "string"), "#TYPE!(number,string)"},
		{InvalidArguments("SUM", "no values"), "#ARGS!(SUM:no values)"},
		{DivisionByZero(), "#DIV/0!"},
		{CircularReference("A", "A -> B -> A"), "#CIRC!(A -> B -> A)"},
		{UnknownError("oops"), "#ERROR!(oops)"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.err.Tag(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}

			if got := ErrorValue(tt.err).String(); got != tt.want {
				t.Errorf("expected stringified %q, got %q", tt.want, got)
			}
		})
	}
}
