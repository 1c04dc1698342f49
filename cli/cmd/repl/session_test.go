package repl

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/ardnew/formula/document"
	"github.com/ardnew/formula/log"
)

func invoiceSession(t *testing.T) *Session {
	t.Helper()

	doc, err := document.Load(t.Context(), "../../../document/testdata/invoice.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	return NewSession(document.NewContext(doc), log.Logger{})
}

func TestSession_Exec(t *testing.T) {
	s := invoiceSession(t)

	tests := []struct {
		line string
		want string
	}{
		{"{total}", "125"},
		{"{customer}", `"ACME"`},
		{":set price=7", "invalidated subtotal, tax, total"},
		{"{total}", "35"},
		{`:set label="fixed"`, "ok"},
		{"{label}", `"fixed"`},
		{":set quantity=4", "invalidated subtotal, tax, total"},
		{"", ""},
	}

	for _, tt := range tests {
		r := s.Exec(tt.line)
		if r.Err != nil {
			t.Fatalf("exec %q: %v", tt.line, r.Err)
		}

		if r.Output != tt.want {
			t.Errorf("exec %q: expected %q, got %q", tt.line, tt.want, r.Output)
		}
	}
}

func TestSession_Commands(t *testing.T) {
	s := invoiceSession(t)

	if r := s.Exec(":quit"); !r.Quit {
		t.Error("expected :quit to quit")
	}

	if r := s.Exec(":clear"); !r.Clear {
		t.Error("expected :clear to clear")
	}

	if r := s.Exec(":bogus"); !errors.Is(r.Err, ErrUnknownCommand) {
		t.Errorf("expected unknown command, got %v", r.Err)
	}

	if r := s.Exec(":set price"); !errors.Is(r.Err, ErrUsage) {
		t.Errorf("expected usage error, got %v", r.Err)
	}

	if r := s.Exec(":set price=\"x\""); !errors.Is(r.Err, document.ErrInvalidValue) {
		t.Errorf("expected invalid value, got %v", r.Err)
	}

	r := s.Exec(":fields")
	if !strings.Contains(r.Output, "subtotal (formula) {price} * {quantity}") {
		t.Errorf("unexpected field listing:\n%s", r.Output)
	}

	if r := s.Exec(":functions"); !strings.Contains(r.Output, "REDUCE") {
		t.Errorf("expected function listing, got %q", r.Output)
	}
}

func TestSession_Variables(t *testing.T) {
	s := NewSession(nil, log.Logger{})

	if r := s.Exec(":set x=2"); r.Err != nil || r.Output != "x = 2" {
		t.Fatalf("unexpected set result %+v", r)
	}

	if r := s.Exec("{x} * 3"); r.Output != "6" {
		t.Errorf("expected 6, got %+v", r)
	}

	if r := s.Exec(":fields"); r.Output != "  x = 2" {
		t.Errorf("unexpected variable listing %q", r.Output)
	}

	if names := s.Names(); names[0] != "x" || !slices.Contains(names, "SUM") {
		t.Errorf("unexpected names %v", names)
	}
}

func TestSession_Children(t *testing.T) {
	s := invoiceSession(t)

	if got, want := s.Children("items"), []string{"name", "price", "qty"}; !slices.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	if got := s.Children("items.1"); !slices.Equal(got, []string{"name", "price"}) {
		t.Errorf("unexpected row keys %v", got)
	}

	if got := s.Children("nope"); got != nil {
		t.Errorf("expected no children, got %v", got)
	}
}
