package formula

import (
	"errors"
	"testing"
	"time"
)

func TestBuiltins(t *testing.T) {
	ctx := NewDictionaryContext(map[string]Value{
		"items": Array(
			Dictionary(map[string]Value{"name": String("a"), "price": Number(50)}),
			Dictionary(map[string]Value{"name": String("b"), "price": Number(30)}),
			Dictionary(map[string]Value{"name": String("c"), "price": Number(50)}),
		),
		"empty": Array(),
		"when":  Date(time.Date(2024, time.March, 9, 0, 0, 0, 0, time.UTC)),
	})

	tests := []struct {
		input string
		want  Value
	}{
		{"SUM(1, 2, 3)", Number(6)},
		{"SUM([1, [2, 3]], 4)", Number(10)},
		{"SUM(items.price)", Number(130)},
		{"SUM()", Number(0)},
		{"AVG(2, 4)", Number(3)},
		{"MIN(items.price)", Number(30)},
		{"MAX(3, 9, 1)", Number(9)},
		{"COUNT(items.price)", Number(3)},
		{"COUNT(items.nope)", Number(0)},
		{"ROUND(1.234, 1)", Number(1.2)},
		{"ROUND(2.5)", Number(3)},
		{"CEIL(1.2)", Number(2)},
		{"FLOOR(-1.2)", Number(-2)},
		{"ABS(-4)", Number(4)},
		{"POW(2, 10)", Number(1024)},
		{"SQRT(16)", Number(4)},
		{"MOD(7, 3)", Number(1)},
		{`IF(1 < 2, "yes", "no")`, String("yes")},
		{`IF(1 < 2, "yes", 1 / 0)`, String("yes")},
		{"IF(false, 1)", Null},
		{"AND(true, 1 < 2)", Bool(true)},
		{"AND(false, missing)", Bool(false)},
		{"OR(false, true, missing)", Bool(true)},
		{"NOT(false)", Bool(true)},
		{"IFERROR(1 / 0, -1)", Number(-1)},
		{"IFERROR(4 / 2, -1)", Number(2)},
		{"ISERROR(missing)", Bool(true)},
		{"ISERROR(1)", Bool(false)},
		{`CONCAT("a", 1, true, [2])`, String("a1true[2]")},
		{`UPPER("abc")`, String("ABC")},
		{`LOWER("ABC")`, String("abc")},
		{`TRIM("  x ")`, String("x")},
		{`LENGTH("héllo")`, Number(5)},
		{"LENGTH(items)", Number(3)},
		{`CONTAINS("hello", "ell")`, Bool(true)},
		{"CONTAINS(items.price, 30)", Bool(true)},
		{"EMPTY(empty)", Bool(true)},
		{`EMPTY("")`, Bool(true)},
		{"EMPTY(items)", Bool(false)},
		{"TOSTRING(12)", String("12")},
		{`TONUMBER(" 1.5 ")`, Number(1.5)},
		{"TONUMBER(true)", Number(1)},
		{"YEAR(when)", Number(2024)},
		{"MONTH(when)", Number(3)},
		{"DAY(when)", Number(9)},
		{"DATE(2024, 3, 9) == when", Bool(true)},
		{`DATE("2024-03-09") == when`, Bool(true)},
		{"MAP(items, (row) -> row.price / 10)", Array(Number(5), Number(3), Number(5))},
		{"MAP([10, 20], (x, i) -> x + i)", Array(Number(10), Number(21))},
		{"FILTER([1, 2, 3, 4], x -> MOD(x, 2) == 0)", Array(Number(2), Number(4))},
		{"REDUCE([1, 2, 3], (acc, x) -> acc + x, 10)", Number(16)},
		{"FIND([1, 5, 9], x -> x > 4)", Number(5)},
		{"FIND([1], x -> x > 4)", Null},
		{"EVERY(items.price, p -> p > 10)", Bool(true)},
		{"SOME(items.price, p -> p > 40)", Bool(true)},
		{"SOME(empty, p -> p > 40)", Bool(false)},
		{"COUNTIF(items.price, p -> p == 50)", Number(2)},
		{"FLAT([1, [2, [3]]], 4)", Array(Number(1), Number(2), Number(3), Number(4))},
		{"MAP(MAP([1, 2], x -> x * 2), y -> y + 1)", Array(Number(3), Number(5))},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := evalString(t, tt.input, ctx)
			if err != nil {
				t.Fatalf("evaluate error: %v", err)
			}

			if !Equal(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestBuiltins_Errors(t *testing.T) {
	tests := []struct {
		input string
		want  error
	}{
		{`SUM(1, "a")`, ErrInvalidArguments},
		{"AVG()", ErrDivisionByZero},
		{"MIN()", ErrInvalidArguments},
		{"MOD(1, 0)", ErrDivisionByZero},
		{"SQRT(-1)", ErrInvalidArguments},
		{"ROUND()", ErrInvalidArguments},
		{`IF("x", 1, 2)`, ErrInvalidArguments},
		{"NOT(1)", ErrInvalidArguments},
		{"UPPER(1)", ErrInvalidArguments},
		{`TONUMBER("abc")`, ErrInvalidArguments},
		{"YEAR(1)", ErrInvalidArguments},
		{"MAP(1, x -> x)", ErrInvalidArguments},
		{"MAP([1], 2)", ErrInvalidArguments},
		{"MAP([1], (a, b, c) -> a)", ErrInvalidArguments},
		{"MAP([1, 0], x -> 1 / x)", ErrDivisionByZero},
		{"FILTER([1], x -> x)", ErrInvalidArguments},
		{"NOW(1)", ErrInvalidArguments},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := evalString(t, tt.input, nil)
			if err == nil {
				t.Fatalf("expected error, got %v", got)
			}

			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestBuiltins_Now(t *testing.T) {
	fixed := time.Date(2025, time.January, 2, 3, 4, 5, 0, time.UTC)
	ev := NewEvaluator(WithClock(func() time.Time { return fixed }))

	got, err := ev.EvaluateString("YEAR(NOW())", NewDictionaryContext(nil))
	if err != nil {
		t.Fatalf("evaluate error: %v", err)
	}

	if !Equal(got, Number(2025)) {
		t.Errorf("expected 2025, got %v", got)
	}
}
