package cmd

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/expr-lang/expr"

	"github.com/ardnew/formula/formula"
	"github.com/ardnew/formula/log"
)

// Eval evaluates a formula, optionally against a document.
type Eval struct {
	Doc Document `embed:""`
	Out Output   `embed:""`

	Vars []string `help:"Bind NAME to VALUE; VALUE is read as a literal (quote strings)" name:"var" placeholder:"NAME=VALUE" sep:"none" short:"v"`
	Expr string   `arg:""                                                             help:"Formula to evaluate"`
}

// Run executes the eval command.
func (e *Eval) Run(ctx context.Context, out io.Writer) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	dc, err := e.Doc.open(ctx)
	if err != nil {
		return err
	}

	var (
		scope formula.Context
		ev    *formula.Evaluator
	)

	if dc != nil {
		scope, ev = dc, dc.Evaluator()
	} else {
		scope = formula.NewDictionaryContext(nil)
		ev = formula.NewEvaluator(formula.WithLogger(log.Default()))
	}

	for _, kv := range e.Vars {
		name, v, err := parseVar(kv)
		if err != nil {
			return err
		}

		scope = scope.With(name, v)
	}

	v, err := ev.EvaluateString(e.Expr, scope)
	if err != nil {
		return err
	}

	log.DebugContext(ctx, "evaluated",
		slog.String("formula", e.Expr),
		slog.String("kind", v.Kind().String()))

	return e.Out.write(ctx, out, v)
}

// parseVar splits NAME=VALUE. VALUE is read as an expr literal (numbers,
// quoted strings, booleans, arrays, maps); anything expr cannot evaluate is
// taken as a plain string.
func parseVar(s string) (string, formula.Value, error) {
	name, src, ok := strings.Cut(s, "=")

	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return "", formula.Null, ErrInvalidVar.With(slog.String("var", s))
	}

	x, err := expr.Eval(src, nil)
	if err != nil {
		return name, formula.String(src), nil
	}

	v, err := formula.FromNative(x)
	if err != nil {
		return name, formula.String(src), nil
	}

	return name, v, nil
}
