package document

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestSearchPath(t *testing.T) {
	a, b, c := t.TempDir(), t.TempDir(), t.TempDir()

	list := b + string(os.PathListSeparator) + c
	got := SearchPath(list, a)

	for _, dir := range []string{a, b, c} {
		if !slices.Contains(got, dir) {
			t.Errorf("expected %s in search path %v", dir, got)
		}
	}

	if i, j := slices.Index(got, a), slices.Index(got, b); i > j {
		t.Errorf("expected explicit directories first, got %v", got)
	}
}

func TestLocate(t *testing.T) {
	dir := t.TempDir()

	data, err := os.ReadFile("testdata/cycle.json")
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "found.json"), data, 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	got, err := Locate("found.json", []string{"", t.TempDir(), dir})
	if err != nil {
		t.Fatalf("locate: %v", err)
	}

	if want := filepath.Join(dir, "found.json"); got != want {
		t.Errorf("expected %s, got %s", want, got)
	}

	if got, err := Locate("testdata/cycle.json", nil); err != nil || got != "testdata/cycle.json" {
		t.Errorf("expected relative path to be used as given, got %q %v", got, err)
	}

	if _, err := Locate("nope.json", []string{dir}); !errors.Is(err, ErrDocumentNotFound) {
		t.Errorf("expected not found, got %v", err)
	}

	doc, err := Open(t.Context(), "found.json", []string{dir})
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	if _, ok := doc.Field("A"); !ok {
		t.Error("expected field A in opened document")
	}
}
