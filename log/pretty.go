package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// palette holds the styles of the pretty handler. Styles are bound to a
// renderer for the handler's own writer, so colors are only emitted when that
// writer is a terminal.
type palette struct {
	key, str, num, yes, no, null, when lipgloss.Style

	trace, debug, info, warn, fail lipgloss.Style
}

func newPalette(w io.Writer) *palette {
	r := lipgloss.NewRenderer(w)
	fg := func(c string) lipgloss.Style {
		return r.NewStyle().Foreground(lipgloss.Color(c))
	}

	return &palette{
		key:   fg("8"),
		str:   fg("6"),
		num:   fg("3"),
		yes:   fg("2"),
		no:    fg("1"),
		null:  fg("8"),
		when:  fg("4"),
		trace: fg("5"),
		debug: fg("4"),
		info:  fg("2"),
		warn:  fg("3").Bold(true),
		fail:  fg("1").Bold(true),
	}
}

func (p *palette) level(l slog.Level) lipgloss.Style {
	switch {
	case l >= slog.LevelError:
		return p.fail
	case l >= slog.LevelWarn:
		return p.warn
	case l >= slog.LevelInfo:
		return p.info
	case l >= slog.LevelDebug:
		return p.debug
	default:
		return p.trace
	}
}

// prettyHandler writes records as colorized key=value pairs on one line
// ([FormatText]) or as an indented block with one attribute per line
// ([FormatJSON]).
type prettyHandler struct {
	mu    *sync.Mutex
	cfg   config
	style *palette

	// prefix qualifies attribute keys with the open groups; attrs holds the
	// rendered attributes added with WithAttrs.
	prefix string
	attrs  []string
}

func newPrettyHandler(cfg config) *prettyHandler {
	return &prettyHandler{
		mu:    &sync.Mutex{},
		cfg:   cfg,
		style: newPalette(cfg.output),
	}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.Level(h.cfg.level)
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	pieces := make([]string, 0, 4+len(h.attrs)+r.NumAttrs())

	if !r.Time.IsZero() {
		if ts := h.cfg.formatTime(r.Time); ts != "" {
			pieces = append(pieces, h.piece(slog.TimeKey, h.style.when.Render(ts)))
		}
	}

	pieces = append(pieces, h.piece(slog.LevelKey,
		h.style.level(r.Level).Render(strings.ToUpper(Level(r.Level).String()))))

	if h.cfg.caller && r.PC != 0 {
		frame, _ := runtime.CallersFrames([]uintptr{r.PC}).Next()
		pieces = append(pieces, h.piece(slog.SourceKey,
			h.style.str.Render(frame.File+":"+strconv.Itoa(frame.Line))))
	}

	pieces = append(pieces, h.piece(slog.MessageKey, h.style.str.Render(r.Message)))
	pieces = append(pieces, h.attrs...)

	r.Attrs(func(a slog.Attr) bool {
		pieces = h.appendAttr(pieces, h.prefix, a)

		return true
	})

	var out string
	if h.cfg.format == FormatJSON {
		out = "{\n  " + strings.Join(pieces, ",\n  ") + "\n}\n"
	} else {
		out = strings.Join(pieces, " ") + "\n"
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := io.WriteString(h.cfg.output, out)

	return err
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.attrs = slices.Clip(h.attrs)

	for _, a := range attrs {
		c.attrs = h.appendAttr(c.attrs, h.prefix, a)
	}

	return &c
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.prefix = h.prefix + name + "."

	return &c
}

func (h *prettyHandler) appendAttr(pieces []string, prefix string, a slog.Attr) []string {
	a.Value = a.Value.Resolve()

	if a.Equal(slog.Attr{}) {
		return pieces
	}

	if a.Value.Kind() == slog.KindGroup {
		if a.Key != "" {
			prefix += a.Key + "."
		}

		for _, ga := range a.Value.Group() {
			pieces = h.appendAttr(pieces, prefix, ga)
		}

		return pieces
	}

	return append(pieces, h.piece(prefix+a.Key, h.value(a.Value)))
}

func (h *prettyHandler) piece(key, value string) string {
	sep := "="
	if h.cfg.format == FormatJSON {
		sep = ": "
	}

	return h.style.key.Render(key) + sep + value
}

func (h *prettyHandler) value(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		return h.style.str.Render(v.String())

	case slog.KindInt64, slog.KindUint64, slog.KindFloat64:
		return h.style.num.Render(v.String())

	case slog.KindBool:
		if v.Bool() {
			return h.style.yes.Render("true")
		}

		return h.style.no.Render("false")

	case slog.KindDuration:
		return h.style.num.Render(v.Duration().String())

	case slog.KindTime:
		return h.style.when.Render(h.cfg.formatTime(v.Time()))

	default:
		if v.Any() == nil {
			return h.style.null.Render("null")
		}

		return h.style.str.Render(fmt.Sprint(v.Any()))
	}
}
