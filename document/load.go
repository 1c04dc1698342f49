package document

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/klauspost/readahead"

	"github.com/ardnew/formula/formula"
)

// rawDocument is the on-disk form. YAML is read directly; JSON is read as
// the YAML subset it is.
type rawDocument struct {
	ID     string     `yaml:"id"`
	Name   string     `yaml:"name"`
	Fields []rawField `yaml:"fields"`
}

type rawField struct {
	ID       string      `yaml:"id"`
	Type     string      `yaml:"type"`
	Value    any         `yaml:"value"`
	Formula  string      `yaml:"formula"`
	Options  []string    `yaml:"options"`
	Multiple bool        `yaml:"multiple"`
	Columns  []rawColumn `yaml:"columns"`
	Rows     []rawRow    `yaml:"rows"`
}

type rawColumn struct {
	ID   string `yaml:"id"`
	Type string `yaml:"type"`
}

type rawRow struct {
	ID    string         `yaml:"id"`
	Cells map[string]any `yaml:"cells"`
}

// Load reads a document from the file at path.
func Load(ctx context.Context, path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ErrReadDocument.Wrap(err).With(slog.String("path", path))
	}

	defer f.Close()

	return LoadReader(ctx, f)
}

// LoadReader reads a YAML or JSON document from r.
func LoadReader(ctx context.Context, r io.Reader) (*Document, error) {
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadDocument.Wrap(err)
	}

	return Decode(ctx, data)
}

// Decode parses a YAML or JSON document.
func Decode(ctx context.Context, data []byte) (*Document, error) {
	var raw rawDocument

	if err := yaml.UnmarshalContext(ctx, data, &raw); err != nil {
		return nil, ErrDecodeDocument.Wrap(err)
	}

	fields := make([]Field, 0, len(raw.Fields))

	for _, rf := range raw.Fields {
		f, err := rf.field()
		if err != nil {
			return nil, err
		}

		fields = append(fields, f)
	}

	return New(raw.ID, raw.Name, fields...)
}

func (rf rawField) field() (Field, error) {
	attr := slog.String("field", rf.ID)

	kind, ok := ParseKind(rf.Type)
	if !ok {
		return nil, ErrUnknownKind.With(attr, slog.String("kind", rf.Type))
	}

	switch kind {
	case KindFormula:
		return &FormulaField{FieldID: rf.ID, Formula: rf.Formula}, nil

	case KindOptions:
		f := &OptionsField{FieldID: rf.ID, Options: rf.Options, Multiple: rf.Multiple}

		v, err := formula.FromNative(rf.Value)
		if err != nil {
			return nil, ErrInvalidValue.Wrap(err).With(attr)
		}

		selected, serr := selection(f, v)
		if serr != nil {
			return nil, serr.With(attr)
		}

		f.Selected = selected

		return f, nil

	case KindCollection:
		f := &CollectionField{FieldID: rf.ID}

		for _, rc := range rf.Columns {
			ck, ok := ParseKind(rc.Type)
			if !ok || ck == KindCollection || ck == KindFormula {
				return nil, ErrUnknownKind.With(attr,
					slog.String("column", rc.ID), slog.String("kind", rc.Type))
			}

			f.Columns = append(f.Columns, Column{ID: rc.ID, Kind: ck})
		}

		for _, rr := range rf.Rows {
			row := Row{ID: rr.ID, Cells: make(map[string]formula.Value, len(rr.Cells))}

			for k, x := range rr.Cells {
				v, err := formula.FromNative(x)
				if err != nil {
					return nil, ErrInvalidValue.Wrap(err).With(attr, slog.String("column", k))
				}

				row.Cells[k] = v
			}

			if row.ID == "" {
				row.ID = f.nextRowID()
			}

			f.Rows = append(f.Rows, row)
		}

		return f, nil

	default:
		v, err := formula.FromNative(rf.Value)
		if err != nil {
			return nil, ErrInvalidValue.Wrap(err).With(attr)
		}

		return &ScalarField{FieldID: rf.ID, FieldKind: kind, Value: v}, nil
	}
}
