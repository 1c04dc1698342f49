package repl

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/ardnew/formula/document"
	"github.com/ardnew/formula/formula"
	"github.com/ardnew/formula/log"
)

// Result is the outcome of one line of REPL input.
type Result struct {
	Output string
	Err    error
	Quit   bool
	Clear  bool
}

// Session holds the evaluation state of a REPL. Formulas resolve against a
// document when one is loaded and against session variables otherwise.
type Session struct {
	doc    *document.Context
	ev     *formula.Evaluator
	vars   map[string]formula.Value
	scope  *formula.DictionaryContext
	logger log.Logger
}

// NewSession returns a session over doc, which may be nil.
func NewSession(doc *document.Context, logger log.Logger) *Session {
	s := &Session{
		doc:    doc,
		vars:   make(map[string]formula.Value),
		scope:  formula.NewDictionaryContext(nil),
		logger: logger,
	}

	if doc != nil {
		s.ev = doc.Evaluator()
	} else {
		s.ev = formula.NewEvaluator(formula.WithLogger(logger))
	}

	return s
}

// Exec runs one line of input. Lines starting with ':' are commands; any
// other line is evaluated as a formula.
func (s *Session) Exec(line string) Result {
	line = strings.TrimSpace(line)
	if line == "" {
		return Result{}
	}

	if cmd, ok := strings.CutPrefix(line, ":"); ok {
		return s.command(cmd)
	}

	v, err := s.evaluate(line)
	if err != nil {
		return Result{Err: err}
	}

	return Result{Output: display(v)}
}

func (s *Session) evaluate(src string) (formula.Value, error) {
	s.logger.Trace("repl eval", slog.String("formula", src))

	if s.doc != nil {
		return s.doc.Evaluate(src)
	}

	return s.ev.EvaluateString(src, s.scope)
}

func (s *Session) command(input string) Result {
	name, arg, _ := strings.Cut(strings.TrimSpace(input), " ")
	arg = strings.TrimSpace(arg)

	s.logger.Trace("repl command", slog.String("command", name), slog.String("arg", arg))

	switch name {
	case "q", "quit", "exit":
		return Result{Quit: true}

	case "h", "help":
		return Result{Output: helpMessage()}

	case "c", "clear":
		return Result{Clear: true}

	case "f", "fields":
		return Result{Output: s.fields()}

	case "fn", "functions":
		return Result{Output: strings.Join(s.ev.Registry().Names(), "  ")}

	case "s", "set":
		out, err := s.set(arg)

		return Result{Output: out, Err: err}

	default:
		return Result{Err: fmt.Errorf("%w: %s", ErrUnknownCommand, name)}
	}
}

// set handles ":set id=value". A formula field takes value as its new
// source; any other target takes the evaluated value.
func (s *Session) set(arg string) (string, error) {
	id, src, ok := strings.Cut(arg, "=")

	id = strings.TrimSpace(id)
	src = strings.TrimSpace(src)

	if !ok || id == "" || src == "" {
		return "", ErrUsage
	}

	if s.doc == nil {
		v, err := s.evaluate(src)
		if err != nil {
			return "", err
		}

		s.vars[id] = v
		s.scope.Set(id, v)

		return id + " = " + display(v), nil
	}

	var (
		removed []string
		err     error
	)

	if f, ok := s.doc.Document().Field(id); ok && f.Kind() == document.KindFormula {
		removed, err = s.doc.SetFormula(id, src)
	} else {
		var v formula.Value

		if v, err = s.evaluate(src); err != nil {
			return "", err
		}

		removed, err = s.doc.SetValue(id, v)
	}

	if err != nil {
		return "", err
	}

	if len(removed) == 0 {
		return "ok", nil
	}

	return "invalidated " + strings.Join(removed, ", "), nil
}

func (s *Session) fields() string {
	var b strings.Builder

	if s.doc == nil {
		for _, name := range slices.Sorted(maps.Keys(s.vars)) {
			fmt.Fprintf(&b, "  %s = %s\n", name, display(s.vars[name]))
		}

		return strings.TrimSuffix(b.String(), "\n")
	}

	for _, f := range s.doc.Document().Fields() {
		fmt.Fprintf(&b, "  %s (%s) %s\n", f.ID(), f.Kind(), preview(f))
	}

	return strings.TrimSuffix(b.String(), "\n")
}

// Names returns the top-level completion candidates: field identifiers or
// session variables, followed by function names.
func (s *Session) Names() []string {
	var names []string

	if s.doc != nil {
		names = s.doc.Document().IDs()
	} else {
		names = slices.Sorted(maps.Keys(s.vars))
	}

	return append(names, s.ev.Registry().Names()...)
}

// Children returns the keys reachable one step below parent. Arrays of
// dictionaries, such as collection rows, yield the union of their keys.
func (s *Session) Children(parent string) []string {
	var (
		v   formula.Value
		err error
	)

	if s.doc != nil {
		v, err = s.doc.Resolve(parent)
	} else {
		v, err = s.scope.Resolve(parent)
	}

	if err != nil {
		return nil
	}

	keys := map[string]struct{}{}

	if d, ok := v.Dictionary(); ok {
		for k := range d {
			keys[k] = struct{}{}
		}
	}

	if rows, ok := v.Array(); ok {
		for _, r := range rows {
			if d, ok := r.Dictionary(); ok {
				for k := range d {
					keys[k] = struct{}{}
				}
			}
		}
	}

	return slices.Sorted(maps.Keys(keys))
}

// IsFunction reports whether name is a registered function.
func (s *Session) IsFunction(name string) bool {
	_, ok := s.ev.Registry().Lookup(name)

	return ok
}

func display(v formula.Value) string {
	if str, ok := v.Str(); ok {
		return formula.Quote(str)
	}

	return v.String()
}

const previewWidth = 40

func preview(f document.Field) string {
	var p string

	switch x := f.(type) {
	case *document.FormulaField:
		p = x.Formula

	case *document.ScalarField:
		p = display(x.Value)

	case *document.OptionsField:
		p = display(x.FormulaValue())

	case *document.CollectionField:
		p = fmt.Sprintf("{ %d rows }", len(x.Rows))
	}

	if len(p) > previewWidth {
		return p[:previewWidth-3] + "..."
	}

	return p
}
