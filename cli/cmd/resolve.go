package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/ardnew/formula/formula"
)

// Resolve prints the values of reference paths in a document.
type Resolve struct {
	Doc Document `embed:""`
	Out Output   `embed:""`

	Paths []string `arg:"" help:"Reference paths (field, field.0.column, field.column)" name:"path"`
}

// Run executes the resolve command.
func (r *Resolve) Run(ctx context.Context, out io.Writer) error {
	dc, err := r.Doc.open(ctx)
	if err != nil {
		return err
	}

	if dc == nil {
		return ErrNoDocument
	}

	values := make(map[string]formula.Value, len(r.Paths))

	for _, path := range r.Paths {
		v, err := dc.Resolve(path)
		if err != nil {
			return err
		}

		values[path] = v
	}

	if r.Out.Format != "text" {
		return r.Out.write(ctx, out, formula.Dictionary(values))
	}

	for _, path := range r.Paths {
		if _, err := fmt.Fprintf(out, "%s = %s\n", path, values[path]); err != nil {
			return err
		}
	}

	return nil
}
