package cli

import (
	"slices"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
)

type resolverCLI struct {
	Log struct {
		Level  string `default:"info"`
		Pretty bool   `default:"true" negatable:""`
	} `embed:"" prefix:"log-"`

	Path  []string
	Count int
	Ratio float64
}

func parseWithConfig(t *testing.T, src string, args ...string) resolverCLI {
	t.Helper()

	r, err := resolve(t.Context())(strings.NewReader(src))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	var c resolverCLI

	parser, err := kong.New(&c, kong.Resolvers(r), kong.Exit(func(int) {}))
	if err != nil {
		t.Fatalf("new parser: %v", err)
	}

	if _, err := parser.Parse(args); err != nil {
		t.Fatalf("parse: %v", err)
	}

	return c
}

func TestResolve_Nested(t *testing.T) {
	c := parseWithConfig(t, `
log:
  level: debug
  pretty: false
path: [a, b]
count: 3
ratio: 0.5
`)

	if c.Log.Level != "debug" || c.Log.Pretty {
		t.Errorf("unexpected log config %+v", c.Log)
	}

	if !slices.Equal(c.Path, []string{"a", "b"}) {
		t.Errorf("unexpected path %v", c.Path)
	}

	if c.Count != 3 || c.Ratio != 0.5 {
		t.Errorf("unexpected numbers %d %v", c.Count, c.Ratio)
	}
}

func TestResolve_UnderscoreKeys(t *testing.T) {
	c := parseWithConfig(t, "log_level: warn\n")

	if c.Log.Level != "warn" {
		t.Errorf("expected warn, got %q", c.Log.Level)
	}
}

func TestResolve_FlagsOverride(t *testing.T) {
	c := parseWithConfig(t, "log-level: warn\n", "--log-level=error")

	if c.Log.Level != "error" {
		t.Errorf("expected flag to win, got %q", c.Log.Level)
	}
}

func TestResolve_InvalidIgnored(t *testing.T) {
	c := parseWithConfig(t, "log: [unterminated\n")

	if c.Log.Level != "info" {
		t.Errorf("expected default level, got %q", c.Log.Level)
	}
}
