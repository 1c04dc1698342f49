package repl

import (
	"testing"

	"github.com/ardnew/formula/formula"
)

func TestDetectFunctionCall(t *testing.T) {
	tests := []struct {
		input string
		want  functionCall
	}{
		{"SUM(", functionCall{name: "SUM", inCall: true}},
		{"SUM(1, 2", functionCall{name: "SUM", argIndex: 1, inCall: true}},
		{"ROUND(AVG(1, 2), ", functionCall{name: "ROUND", argIndex: 1, inCall: true}},
		{"MAP(items, (r) -> r.", functionCall{name: "MAP", argIndex: 1, inCall: true}},
		{"REDUCE([1, 2], (a, b) -> a + b, ", functionCall{name: "REDUCE", argIndex: 2, inCall: true}},
		{`CONCAT("a, (b", `, functionCall{name: "CONCAT", argIndex: 1, inCall: true}},
		{"SUM([1, 2", functionCall{name: "SUM", inCall: true}},
		{"(1 + 2", functionCall{}},
		{"SUM(1)", functionCall{}},
		{"1 + 2", functionCall{}},
	}

	for _, tt := range tests {
		if got := detectFunctionCall(tt.input, len(tt.input)); got != tt.want {
			t.Errorf("%q: expected %+v, got %+v", tt.input, tt.want, got)
		}
	}
}

func TestSignatures_CoverBuiltins(t *testing.T) {
	for _, name := range formula.Builtins().Names() {
		if _, ok := signature(name); !ok {
			t.Errorf("no signature for %s", name)
		}
	}

	if params, ok := signature("round"); !ok || len(params) != 2 {
		t.Errorf("expected case-insensitive lookup, got %v", params)
	}
}
