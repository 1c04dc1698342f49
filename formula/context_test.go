package formula

import (
	"errors"
	"testing"
)

func TestBind_Shadowing(t *testing.T) {
	base := NewDictionaryContext(map[string]Value{
		"x": Number(1),
		"y": Number(2),
	})

	outer := base.With("x", Number(10))
	inner := outer.With("y", Number(20))

	check := func(ctx Context, path string, want float64) {
		t.Helper()

		v, err := ctx.Resolve(path)
		if err != nil {
			t.Fatalf("resolve %q: %v", path, err)
		}

		if n, _ := v.Number(); n != want {
			t.Errorf("resolve %q: expected %v, got %v", path, want, v)
		}
	}

	check(base, "x", 1)
	check(base, "y", 2)
	check(outer, "x", 10)
	check(outer, "y", 2)
	check(inner, "x", 10)
	check(inner, "y", 20)

	// rebinding in a sibling leaves the first derived context untouched
	_ = outer.With("x", Number(99))

	check(outer, "x", 10)
}

func TestBind_SubPaths(t *testing.T) {
	row := Dictionary(map[string]Value{
		"price": Number(30),
		"tags":  Array(String("a"), String("b")),
	})

	ctx := Bind(NewDictionaryContext(map[string]Value{"row": Number(0)}), "row", row)

	v, err := ctx.Resolve("row.price")
	if err != nil {
		t.Fatalf("resolve error: %v", err)
	}

	if !Equal(v, Number(30)) {
		t.Errorf("expected 30, got %v", v)
	}

	v, err = ctx.Resolve("row.tags.0")
	if err != nil {
		t.Fatalf("resolve error: %v", err)
	}

	if !Equal(v, String("a")) {
		t.Errorf("expected a, got %v", v)
	}

	if _, err := ctx.Resolve("row.missing"); !errors.Is(err, ErrInvalidReference) {
		t.Errorf("expected invalid reference, got %v", err)
	}

	// a name that merely shares a prefix is not bound
	if _, err := ctx.Resolve("rows"); !errors.Is(err, ErrInvalidReference) {
		t.Errorf("expected invalid reference, got %v", err)
	}
}

func TestWalk_ColumnProjection(t *testing.T) {
	rows := Array(
		Dictionary(map[string]Value{"price": Number(50)}),
		Dictionary(map[string]Value{"price": Number(30), "note": String("x")}),
		Dictionary(map[string]Value{"price": Number(50)}),
	)

	ctx := NewDictionaryContext(map[string]Value{"items": rows})

	tests := []struct {
		path string
		want Value
	}{
		{"items.price", Array(Number(50), Number(30), Number(50))},
		{"items.1.price", Number(30)},
		{"items.note", Array(Null, String("x"), Null)},
		{"items.nope", Array(Null, Null, Null)},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := ctx.Resolve(tt.path)
			if err != nil {
				t.Fatalf("resolve error: %v", err)
			}

			if !Equal(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}

	if _, err := ctx.Resolve("items.3.price"); !errors.Is(err, ErrInvalidReference) {
		t.Errorf("expected invalid reference for out-of-range row, got %v", err)
	}
}
