package repl

import (
	"slices"
	"testing"
)

func TestWordBounds(t *testing.T) {
	tests := []struct {
		input  string
		cursor int
		word   string
		start  int
	}{
		{"SUM({pri", 8, "pri", 5},
		{"items.pr", 8, "pr", 6},
		{"1 + ", 4, "", 4},
		{"TRIM(x)", 6, "x", 5},
		{":he", 3, "he", 1},
	}

	for _, tt := range tests {
		word, start, _ := wordBounds(tt.input, tt.cursor)
		if word != tt.word || start != tt.start {
			t.Errorf("%q@%d: expected %q at %d, got %q at %d",
				tt.input, tt.cursor, tt.word, tt.start, word, start)
		}
	}
}

func TestParentPath(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"SUM({items.pr", "items"},
		{"a.b.c", "a.b"},
		{"1 + items.", "items"},
		{"price", ""},
		{"1 + pr", ""},
	}

	for _, tt := range tests {
		_, start, _ := wordBounds(tt.input, len(tt.input))
		if got := parentPath(tt.input, start); got != tt.want {
			t.Errorf("%q: expected %q, got %q", tt.input, tt.want, got)
		}
	}
}

func matchNames(c completion) []string {
	names := make([]string, len(c.matches))
	for i, m := range c.matches {
		names[i] = m.Str
	}

	return names
}

func TestComplete(t *testing.T) {
	s := invoiceSession(t)

	if got := matchNames(complete(s, "{items.", 7)); !slices.Equal(got, []string{"name", "price", "qty"}) {
		t.Errorf("expected every column after a dot, got %v", got)
	}

	if got := matchNames(complete(s, "subt", 4)); len(got) == 0 || got[0] != "subtotal" {
		t.Errorf("expected subtotal first, got %v", got)
	}

	if got := matchNames(complete(s, ":fu", 3)); !slices.Equal(got, []string{"functions"}) {
		t.Errorf("expected command completion, got %v", got)
	}

	if got := matchNames(complete(s, `"subt`, 5)); len(got) != 0 {
		t.Errorf("expected no completion inside a string, got %v", got)
	}

	if got := complete(s, "1 + ", 4); len(got.matches) != 0 {
		t.Errorf("expected no completion for an empty word, got %v", matchNames(got))
	}
}

func TestRenderCandidateBar(t *testing.T) {
	s := invoiceSession(t)

	c := complete(s, "SU", 2)
	if len(c.matches) == 0 {
		t.Fatal("expected matches")
	}

	if bar := renderCandidateBar(c.matches, -1, false, 80, s.IsFunction); bar == "" {
		t.Error("expected a rendered bar")
	}

	if bar := renderCandidateBar(nil, -1, false, 80, nil); bar != "" {
		t.Errorf("expected empty bar, got %q", bar)
	}
}
