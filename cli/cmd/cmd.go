package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/formula/document"
	"github.com/ardnew/formula/formula"
	"github.com/ardnew/formula/log"
)

type searchPathKey struct{}

// WithSearchPath returns a context carrying the directories searched for
// documents named on the command line.
func WithSearchPath(ctx context.Context, dirs []string) context.Context {
	return context.WithValue(ctx, searchPathKey{}, dirs)
}

func searchPathFrom(ctx context.Context) []string {
	dirs, _ := ctx.Value(searchPathKey{}).([]string)

	return dirs
}

// Document names the document a command evaluates against. It is embedded
// by every command that reads one.
type Document struct {
	Document string `help:"Document file (YAML or JSON), or '-' for stdin" short:"d" placeholder:"FILE"`
}

// open loads the document and returns a context over it. It returns nil
// when no document was named.
func (d Document) open(ctx context.Context) (*document.Context, error) {
	if d.Document == "" {
		return nil, nil
	}

	doc, err := document.Open(ctx, d.Document, searchPathFrom(ctx))
	if err != nil {
		return nil, err
	}

	log.DebugContext(ctx, "document loaded",
		slog.String("name", d.Document),
		slog.String("id", doc.ID),
		slog.Int("fields", len(doc.IDs())))

	return document.NewContext(doc, document.WithLogger(log.Default())), nil
}

// Output selects how a command prints values.
type Output struct {
	Format string `default:"text" enum:"text,json,yaml" help:"Output format (${enum})" short:"o"`
}

// write prints v in the selected format. Text output uses the formula
// rendering of values; JSON and YAML use their native form.
func (o Output) write(ctx context.Context, w io.Writer, v formula.Value) error {
	if o.Format == "text" || o.Format == "" {
		_, err := fmt.Fprintln(w, v)

		return err
	}

	return marshal(ctx, w, o.Format, v.Native())
}

func marshal(ctx context.Context, w io.Writer, format string, v any) error {
	var (
		data []byte
		err  error
	)

	switch format {
	case "json":
		data, err = json.MarshalIndent(v, "", "  ")
		if err != nil {
			return ErrJSONMarshal.Wrap(err)
		}

		data = append(data, '\n')

	case "yaml":
		data, err = yaml.MarshalContext(ctx, v, yaml.Indent(2))
		if err != nil {
			return ErrYAMLMarshal.Wrap(err)
		}

	default:
		return ErrUnknownFormat.With(slog.String("format", format))
	}

	_, err = w.Write(data)

	return err
}
