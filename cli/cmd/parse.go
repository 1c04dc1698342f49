package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ardnew/formula/formula"
)

// Parse parses a formula and prints its syntax tree.
type Parse struct {
	Format string `default:"tree" enum:"tree,source,json,yaml" help:"Output format (${enum})" short:"o"`

	Expr string `arg:"" help:"Formula to parse"`
}

// Run executes the parse command.
func (p *Parse) Run(ctx context.Context, out io.Writer) error {
	node, err := formula.Parse(p.Expr)
	if err != nil {
		return err
	}

	switch p.Format {
	case "source":
		_, err = fmt.Fprintln(out, formula.Format(node))

		return err

	case "json", "yaml":
		return marshal(ctx, out, p.Format, formula.ToMap(node))

	default:
		return writeTree(out, node, 0)
	}
}

// writeTree prints one node per line, children indented below their parent.
func writeTree(w io.Writer, n formula.Node, depth int) error {
	var (
		label    string
		children []formula.Node
	)

	switch x := n.(type) {
	case *formula.Literal:
		label = x.Value.Kind().String() + " " + formula.Format(x)

	case *formula.Reference:
		label = "reference " + x.Path

	case *formula.Infix:
		label, children = "infix "+x.Op, []formula.Node{x.Left, x.Right}

	case *formula.Prefix:
		label, children = "prefix "+x.Op, []formula.Node{x.Operand}

	case *formula.Call:
		label, children = "call "+x.Name, x.Args

	case *formula.ArrayLit:
		label, children = "array", x.Elements

	case *formula.Lambda:
		label, children = "lambda ("+strings.Join(x.Params, ", ")+")", []formula.Node{x.Body}
	}

	if _, err := fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", depth), label); err != nil {
		return err
	}

	for _, c := range children {
		if err := writeTree(w, c, depth+1); err != nil {
			return err
		}
	}

	return nil
}
