package cli

import (
	"bytes"
	"strings"
	"testing"
)

func TestRun(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "default command",
			args: []string{"1 + 2 * 3"},
			want: "7\n",
		},
		{
			name: "eval with vars",
			args: []string{"eval", "-v", "x=4", "{x} * 2"},
			want: "8\n",
		},
		{
			name: "document",
			args: []string{"eval", "-d", "../document/testdata/invoice.yaml", "{total}"},
			want: "125\n",
		},
		{
			name: "search path",
			args: []string{"-P", "../document/testdata", "resolve", "-d", "invoice.yaml", "subtotal"},
			want: "subtotal = 100\n",
		},
		{
			name: "parse",
			args: []string{"parse", "-o", "source", "1+2"},
			want: "(1 + 2)\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer

			if err := Run(t.Context(), &out, func(int) {}, tt.args...); err != nil {
				t.Fatalf("run: %v", err)
			}

			if out.String() != tt.want {
				t.Errorf("expected %q, got %q", tt.want, out.String())
			}
		})
	}
}

func TestRun_Errors(t *testing.T) {
	var out bytes.Buffer

	if err := Run(t.Context(), &out, func(int) {}, "eval", "1 +"); err == nil {
		t.Error("expected syntax error")
	}

	if err := Run(t.Context(), &out, func(int) {}, "check", "-d", "../document/testdata/cycle.json"); err == nil {
		t.Error("expected check failure")
	}
}

func TestRun_Version(t *testing.T) {
	var (
		out  bytes.Buffer
		code = -1
	)

	_ = Run(t.Context(), &out, func(c int) { code = c }, "--version")

	if code != 0 || !strings.Contains(out.String(), ".") {
		t.Errorf("expected version output and exit 0, got %d %q", code, out.String())
	}
}

func TestLogConfig_Scan(t *testing.T) {
	var f logConfig

	f.scan([]string{"--log-level", "debug", "--no-log-pretty", "--log-caller=true", "--log-format=text"})

	if f.Level != "debug" || f.Pretty || !f.Caller || f.Format != "text" {
		t.Errorf("unexpected scan result %+v", f)
	}

	var g logConfig

	g.scan([]string{"eval", "--", "--log-level", "error"})

	if g.Level != "" {
		t.Errorf("expected scan to stop at --, got %+v", g)
	}

	var h logConfig

	h.scan([]string{"--log-level", "loud", "--log-format=xml"})

	if h.Level != "" || h.Format != "" {
		t.Errorf("expected invalid values to be ignored, got %+v", h)
	}

	if err := h.Level.UnmarshalText([]byte("loud")); err == nil {
		t.Error("expected invalid level error")
	}

	if err := h.Format.UnmarshalText([]byte("TEXT")); err != nil || h.Format != "TEXT" {
		t.Errorf("expected case-insensitive format, got %q (%v)", h.Format, err)
	}
}
