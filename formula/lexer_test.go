package formula

import (
	"errors"
	"strings"
	"testing"
)

func kinds(tokens []Token) []TokenKind {
	out := make([]TokenKind, len(tokens))
	for i, t := range tokens {
		out[i] = t.Kind
	}

	return out
}

func TestTokenize_NegativeLiteralFolding(t *testing.T) {
	tests := []struct {
		name  string
		input string
		kinds []TokenKind
		texts []string
	}{
		{
			name:  "leading",
			input: "-5",
			kinds: []TokenKind{TokenNumber, TokenEOF},
			texts: []string{"-5", ""},
		},
		{
			name:  "double",
			input: "--5",
			kinds: []TokenKind{TokenOperator, TokenNumber, TokenEOF},
			texts: []string{"-", "-5", ""},
		},
		{
			name:  "after value",
			input: "3-5",
			kinds: []TokenKind{TokenNumber, TokenOperator, TokenNumber, TokenEOF},
			texts: []string{"3", "-", "5", ""},
		},
		{
			name:  "after identifier",
			input: "a -5",
			kinds: []TokenKind{TokenIdent, TokenOperator, TokenNumber, TokenEOF},
			texts: []string{"a", "-", "5", ""},
		},
		{
			name:  "after close paren",
			input: "(a)-1",
			kinds: []TokenKind{
				TokenLParen, TokenIdent, TokenRParen, TokenOperator, TokenNumber, TokenEOF,
			},
			texts: []string{"(", "a", ")", "-", "1", ""},
		},
		{
			name:  "after operator",
			input: "2 * -3",
			kinds: []TokenKind{TokenNumber, TokenOperator, TokenNumber, TokenEOF},
			texts: []string{"2", "*", "-3", ""},
		},
		{
			name:  "after comma and bracket",
			input: "[-1,-2]",
			kinds: []TokenKind{
				TokenLBracket, TokenNumber, TokenComma, TokenNumber, TokenRBracket, TokenEOF,
			},
			texts: []string{"[", "-1", ",", "-2", "]", ""},
		},
		{
			name:  "after arrow",
			input: "x -> -1",
			kinds: []TokenKind{TokenIdent, TokenArrow, TokenNumber, TokenEOF},
			texts: []string{"x", "->", "-1", ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := Tokenize(tt.input)
			if err != nil {
				t.Fatalf("tokenize error: %v", err)
			}

			got := kinds(tokens)
			if len(got) != len(tt.kinds) {
				t.Fatalf("expected %v, got %v", tt.kinds, got)
			}

			for i := range got {
				if got[i] != tt.kinds[i] {
					t.Errorf("token %d: expected %v, got %v", i, tt.kinds[i], got[i])
				}

				if tokens[i].Text != tt.texts[i] {
					t.Errorf("token %d: expected text %q, got %q", i, tt.texts[i], tokens[i].Text)
				}
			}
		})
	}
}

func TestTokenize_Literals(t *testing.T) {
	tokens, err := Tokenize(`3.25 "a\"b\\c\n" TRUE false items.1.price {unit price} → ->`)
	if err != nil {
		t.Fatalf("tokenize error: %v", err)
	}

	want := []TokenKind{
		TokenNumber, TokenString, TokenBoolean, TokenBoolean,
		TokenIdent, TokenReference, TokenArrow, TokenArrow, TokenEOF,
	}

	got := kinds(tokens)
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: expected %v, got %v", i, want[i], got[i])
		}
	}

	if n, _ := tokens[0].Value.Number(); n != 3.25 {
		t.Errorf("expected 3.25, got %v", n)
	}

	if s, _ := tokens[1].Value.Str(); s != "a\"b\\c\n" {
		t.Errorf("unexpected string payload %q", s)
	}

	if b, _ := tokens[2].Value.Bool(); !b {
		t.Error("expected TRUE to lex as true")
	}

	if tokens[4].Text != "items.1.price" {
		t.Errorf("expected dotted identifier, got %q", tokens[4].Text)
	}

	if tokens[5].Text != "unit price" {
		t.Errorf("expected braced path, got %q", tokens[5].Text)
	}

	if tokens[1].Pos != 5 {
		t.Errorf("expected string at offset 5, got %d", tokens[1].Pos)
	}
}

func TestTokenize_Operators(t *testing.T) {
	tokens, err := Tokenize("+ - * / == != > < >= <= && || !")
	if err != nil {
		t.Fatalf("tokenize error: %v", err)
	}

	want := []string{"+", "-", "*", "/", "==", "!=", ">", "<", ">=", "<=", "&&", "||", "!"}

	for i, op := range want {
		if tokens[i].Kind != TokenOperator || tokens[i].Text != op {
			t.Errorf("token %d: expected operator %q, got %v %q",
				i, op, tokens[i].Kind, tokens[i].Text)
		}
	}
}

func TestTokenize_Errors(t *testing.T) {
	tests := []struct {
		input   string
		mention string
	}{
		{"1.2.3", "1.2.3"},
		{"1.", "1."},
		{`"unterminated`, "unterminated string"},
		{`"bad \q escape"`, `\q`},
		{"1 %%% 2", "%%%"},
		{"1 =/= 2", "=/="},
		{"a = b", `"="`},
		{"a & b", `"&"`},
		{"@", "'@'"},
		{"#", "'#'"},
		{"$x", "'$'"},
		{"SUM(1;2)", "';'"},
		{"{price", "unterminated reference"},
		{"{ }", "empty reference"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens, err := Tokenize(tt.input)
			if err == nil {
				t.Fatalf("expected error, got tokens %v", tokens)
			}

			if !errors.Is(err, ErrSyntax) {
				t.Fatalf("expected syntax error, got %v", err)
			}

			if !strings.Contains(err.Error(), tt.mention) {
				t.Errorf("expected error to mention %q, got %q", tt.mention, err.Error())
			}
		})
	}
}
