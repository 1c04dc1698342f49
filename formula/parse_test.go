package formula

import (
	"errors"
	"testing"
)

func num(n float64) Node { return &Literal{Value: Number(n)} }
func str(s string) Node { return &Literal{Value: String(s)} }
func ref(path string) Node { return &Reference{Path: path} }
func op(o string, l, r Node) Node { return &Infix{Op: o, Left: l, Right: r} }

func mustParse(t *testing.T, source string) Node {
	t.Helper()

	n, err := Parse(source)
	if err != nil {
		t.Fatalf("parse %q: %v", source, err)
	}

	return n
}

func TestParse_Trees(t *testing.T) {
	tests := []struct {
		input string
		want  Node
	}{
		{"1 + 2 * 3", op("+", num(1), op("*", num(2), num(3)))},
		{"(1 + 2) * 3", op("*", op("+", num(1), num(2)), num(3))},
		{"10 - 4 - 3", op("-", op("-", num(10), num(4)), num(3))},
		{"-5", num(-5)},
		{"--5", &Prefix{Op: "-", Operand: num(-5)}},
		{"!true", &Prefix{Op: "!", Operand: &Literal{Value: Bool(true)}}},
		{
			"a || b && c == d",
			op("||", ref("a"), op("&&", ref("b"), op("==", ref("c"), ref("d")))),
		},
		{"1 < 2 == true", op("==", op("<", num(1), num(2)), &Literal{Value: Bool(true)})},
		{"{price} * {quantity}", op("*", ref("price"), ref("quantity"))},
		{"items.1.price", ref("items.1.price")},
		{"MAP", ref("MAP")},
		{`"a" + 1`, op("+", str("a"), num(1))},
		{"[]", &ArrayLit{Elements: []Node{}}},
		{"NOW()", &Call{Name: "NOW", Args: []Node{}}},
		{
			"MAP([1,2], (x) → x * 2)",
			&Call{Name: "MAP", Args: []Node{
				&ArrayLit{Elements: []Node{num(1), num(2)}},
				&Lambda{Params: []string{"x"}, Body: op("*", ref("x"), num(2))},
			}},
		},
		{
			"MAP([1,2], (x) -> x * 2)",
			&Call{Name: "MAP", Args: []Node{
				&ArrayLit{Elements: []Node{num(1), num(2)}},
				&Lambda{Params: []string{"x"}, Body: op("*", ref("x"), num(2))},
			}},
		},
		{
			"REDUCE(xs, (acc, x) -> acc + x, 0)",
			&Call{Name: "REDUCE", Args: []Node{
				ref("xs"),
				&Lambda{Params: []string{"acc", "x"}, Body: op("+", ref("acc"), ref("x"))},
				num(0),
			}},
		},
		{
			"FILTER(rows, r -> r.ok)",
			&Call{Name: "FILTER", Args: []Node{
				ref("rows"),
				&Lambda{Params: []string{"r"}, Body: ref("r.ok")},
			}},
		},
		{
			"SUM((a), (b + 1))",
			&Call{Name: "SUM", Args: []Node{ref("a"), op("+", ref("b"), num(1))}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := mustParse(t, tt.input)
			if !EqualNode(got, tt.want) {
				t.Errorf("expected %s, got %s", Format(tt.want), Format(got))
			}
		})
	}
}

func TestParse_Errors(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"(1 + 2",
		"[1, 2",
		"SUM(1, 2",
		"1 + 2)",
		"1 2",
		"1 + 2]",
		"== 1",
		", 1",
		")",
		"]",
		"SUM(,1)",
		"[,1]",
		"SUM(1+)",
		"[1+]",
		"SUM(1;2)",
		"[1, 2, ]",
		`["Yes", ]`,
		"SUM(1, )",
		"x -> 1",
		"(x) -> x",
		"1 +",
		"!",
		"items.sum(1)",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			n, err := Parse(input)
			if err == nil {
				t.Fatalf("expected syntax error, got %s", Format(n))
			}

			if n != nil {
				t.Errorf("expected no partial tree, got %s", Format(n))
			}

			if !errors.Is(err, ErrSyntax) {
				t.Errorf("expected syntax error, got %v", err)
			}
		})
	}
}

func TestParse_RoundTrip(t *testing.T) {
	inputs := []string{
		"1 + 2 * 3",
		"(1 + 2) * 3",
		"-5",
		"--5",
		"1 - -5",
		"- 5",
		"-(2 * 3)",
		"!(true && false) || TRUE",
		`"a\"b" + "\n\t\\"`,
		"{price} * {quantity}",
		"{unit price} + 1",
		"{true}",
		"SUM({items.price})",
		"MAP({rows}, (x) -> x*2)",
		"MAP([1,2], (x) → x * 2)",
		"REDUCE([1, 2, 3], (acc, x) -> acc + x, 0)",
		"FIND(items, row -> row.price > 40)",
		`IF({a} >= 10, "big", "small")`,
		"[[1, 2], [], NOW()]",
		"1.5 / 3 - 0.25",
		"a != b == c",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			first := mustParse(t, input)
			text := Format(first)

			second, err := Parse(text)
			if err != nil {
				t.Fatalf("reparse %q: %v", text, err)
			}

			if !EqualNode(first, second) {
				t.Errorf("round trip changed tree: %q -> %q -> %q",
					input, text, Format(second))
			}
		})
	}
}

func TestReferences(t *testing.T) {
	n := mustParse(t, "SUM(MAP({items}, (x) -> x.price * {rate})) + {rate} + base")

	got := References(n)
	want := []string{"items", "rate", "base"}

	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	for i := range want {
		if got[i] != want[i] {
			t.Errorf("reference %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}
