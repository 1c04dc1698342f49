package formula

import (
	"errors"
	"testing"
)

func TestProgramCache(t *testing.T) {
	c := NewProgramCache()

	first, err := c.Parse("1 + 2")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	second, err := c.Parse("1 + 2")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	if first != second {
		t.Error("expected cached tree to be reused")
	}

	if _, err := c.Parse("1 +"); !errors.Is(err, ErrSyntax) {
		t.Fatalf("expected syntax error, got %v", err)
	}

	if _, err := c.Parse("1 +"); !errors.Is(err, ErrSyntax) {
		t.Fatalf("expected cached syntax error, got %v", err)
	}

	if got := c.Len(); got != 2 {
		t.Errorf("expected 2 entries, got %d", got)
	}

	c.Reset()

	if got := c.Len(); got != 0 {
		t.Errorf("expected empty cache after reset, got %d", got)
	}
}

func BenchmarkProgramCache_Parse(b *testing.B) {
	c := NewProgramCache()
	src := "SUM(MAP({items}, (x) -> x.price * x.quantity)) * (1 + {tax})"

	for b.Loop() {
		if _, err := c.Parse(src); err != nil {
			b.Fatal(err)
		}
	}
}
