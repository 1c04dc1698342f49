package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/ardnew/formula/document"
	"github.com/ardnew/formula/formula"
)

// Check evaluates every formula field of a document and reports failures.
type Check struct {
	Doc Document `embed:""`

	Quiet bool `help:"Only print failing fields" short:"q"`
}

// Run executes the check command. It fails if any formula field fails.
func (c *Check) Run(ctx context.Context, out io.Writer) error {
	dc, err := c.Doc.open(ctx)
	if err != nil {
		return err
	}

	if dc == nil {
		return ErrNoDocument
	}

	var failed []string

	for _, f := range dc.Document().Fields() {
		if f.Kind() != document.KindFormula {
			continue
		}

		v, err := dc.Resolve(f.ID())
		if err != nil {
			failed = append(failed, f.ID())

			tag := err.Error()

			var fe *formula.Error
			if errors.As(err, &fe) {
				tag = fe.Tag()
			}

			if _, werr := fmt.Fprintf(out, "%s: %s\n", f.ID(), tag); werr != nil {
				return werr
			}

			continue
		}

		if !c.Quiet {
			if _, err := fmt.Fprintf(out, "%s = %s\n", f.ID(), v); err != nil {
				return err
			}
		}
	}

	if len(failed) > 0 {
		return ErrCheckFailed.With(slog.Any("fields", failed))
	}

	return nil
}
