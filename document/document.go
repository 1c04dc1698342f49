package document

import (
	"log/slog"
	"slices"
	"strconv"

	"github.com/ardnew/formula/formula"
)

// Document is an ordered set of uniquely identified fields.
//
// The mutators validate their input and change the document in place. They
// do not touch any evaluation cache; callers holding a [Context] over the
// document use its wrappers (or call [Context.InvalidateCache]) instead.
type Document struct {
	ID   string
	Name string

	fields []Field
	index  map[string]int
}

// New returns a document holding fields, in order.
func New(id, name string, fields ...Field) (*Document, error) {
	d := &Document{ID: id, Name: name, index: make(map[string]int)}

	for _, f := range fields {
		if err := d.Add(f); err != nil {
			return nil, err
		}
	}

	return d, nil
}

// Add appends f after validating it.
func (d *Document) Add(f Field) error {
	if err := validate(f); err != nil {
		return err
	}

	if d.index == nil {
		d.index = make(map[string]int)
	}

	if _, dup := d.index[f.ID()]; dup {
		return ErrDuplicateField.With(slog.String("field", f.ID()))
	}

	d.index[f.ID()] = len(d.fields)
	d.fields = append(d.fields, f)

	return nil
}

func validate(f Field) error {
	if f.ID() == "" {
		return ErrMissingField
	}

	attr := slog.String("field", f.ID())

	switch x := f.(type) {
	case *ScalarField:
		switch x.FieldKind {
		case KindText, KindNumber, KindBoolean, KindDate, KindSignature:
		default:
			return ErrUnknownKind.With(attr, slog.String("kind", x.FieldKind.String()))
		}

		v, ok := coerce(x.FieldKind, x.Value)
		if !ok {
			return ErrInvalidValue.With(attr,
				slog.String("expected", x.FieldKind.String()),
				slog.String("actual", x.Value.Kind().String()))
		}

		x.Value = v

	case *OptionsField:
		for _, s := range x.Selected {
			if len(x.Options) > 0 && !slices.Contains(x.Options, s) {
				return ErrInvalidOption.With(attr, slog.String("value", s))
			}
		}

		if !x.Multiple && len(x.Selected) > 1 {
			return ErrInvalidValue.With(attr, slog.String("reason", "multiple selections"))
		}

	case *FormulaField:
		if x.Formula == "" {
			return ErrMissingFormula.With(attr)
		}

	case *CollectionField:
		seen := map[string]bool{}

		for _, c := range x.Columns {
			if c.ID == "" || seen[c.ID] {
				return ErrInvalidValue.With(attr, slog.String("column", c.ID))
			}

			seen[c.ID] = true
		}

		for i := range x.Rows {
			if err := x.validateRow(&x.Rows[i]); err != nil {
				return err
			}
		}

	default:
		return ErrUnknownKind.With(attr)
	}

	return nil
}

// validateRow checks cells against declared columns, coercing values. A
// collection without declared columns accepts any cell.
func (f *CollectionField) validateRow(r *Row) error {
	if len(f.Columns) == 0 {
		return nil
	}

	for key, v := range r.Cells {
		col, ok := f.Column(key)
		if !ok {
			return ErrUnknownColumn.With(
				slog.String("field", f.FieldID), slog.String("column", key))
		}

		cv, ok := coerce(col.Kind, v)
		if !ok {
			return ErrInvalidValue.With(
				slog.String("field", f.FieldID),
				slog.String("column", key),
				slog.String("expected", col.Kind.String()),
				slog.String("actual", v.Kind().String()))
		}

		r.Cells[key] = cv
	}

	return nil
}

// Field returns the field with the given identifier.
func (d *Document) Field(id string) (Field, bool) {
	i, ok := d.index[id]
	if !ok {
		return nil, false
	}

	return d.fields[i], true
}

// Fields returns the fields in document order.
func (d *Document) Fields() []Field {
	return slices.Clone(d.fields)
}

// IDs returns the field identifiers in document order.
func (d *Document) IDs() []string {
	ids := make([]string, len(d.fields))
	for i, f := range d.fields {
		ids[i] = f.ID()
	}

	return ids
}

func (d *Document) lookup(id string) (Field, error) {
	f, ok := d.Field(id)
	if !ok {
		return nil, ErrFieldNotFound.With(slog.String("field", id))
	}

	return f, nil
}

func (d *Document) collection(id string) (*CollectionField, error) {
	f, err := d.lookup(id)
	if err != nil {
		return nil, err
	}

	c, ok := f.(*CollectionField)
	if !ok {
		return nil, ErrNotCollection.With(slog.String("field", id))
	}

	return c, nil
}

// SetValue replaces the stored value of a scalar or options field.
func (d *Document) SetValue(id string, v formula.Value) error {
	f, err := d.lookup(id)
	if err != nil {
		return err
	}

	attr := slog.String("field", id)

	switch x := f.(type) {
	case *ScalarField:
		cv, ok := coerce(x.FieldKind, v)
		if !ok {
			return ErrInvalidValue.With(attr,
				slog.String("expected", x.FieldKind.String()),
				slog.String("actual", v.Kind().String()))
		}

		x.Value = cv

	case *OptionsField:
		selected, err := selection(x, v)
		if err != nil {
			return err.With(attr)
		}

		x.Selected = selected

	default:
		return ErrReadOnlyField.With(attr, slog.String("kind", f.Kind().String()))
	}

	return nil
}

func selection(f *OptionsField, v formula.Value) ([]string, *Error) {
	var picks []formula.Value

	switch {
	case v.IsNull():

	case f.Multiple:
		arr, ok := v.Array()
		if !ok {
			if _, isStr := v.Str(); !isStr {
				return nil, ErrInvalidValue.With(slog.String("actual", v.Kind().String()))
			}

			arr = []formula.Value{v}
		}

		picks = arr

	default:
		picks = []formula.Value{v}
	}

	out := make([]string, 0, len(picks))

	for _, p := range picks {
		s, ok := p.Str()
		if !ok {
			return nil, ErrInvalidValue.With(slog.String("actual", p.Kind().String()))
		}

		if len(f.Options) > 0 && !slices.Contains(f.Options, s) {
			return nil, ErrInvalidOption.With(slog.String("value", s))
		}

		out = append(out, s)
	}

	return out, nil
}

// SetFormula replaces the source of a formula field.
func (d *Document) SetFormula(id, source string) error {
	f, err := d.lookup(id)
	if err != nil {
		return err
	}

	ff, ok := f.(*FormulaField)
	if !ok {
		return ErrNotFormula.With(slog.String("field", id))
	}

	if source == "" {
		return ErrMissingFormula.With(slog.String("field", id))
	}

	ff.Formula = source

	return nil
}

// AddRow appends a row to a collection and returns its index. An empty row
// identifier is replaced by a generated one.
func (d *Document) AddRow(id string, row Row) (int, error) {
	c, err := d.collection(id)
	if err != nil {
		return 0, err
	}

	if row.Cells == nil {
		row.Cells = make(map[string]formula.Value)
	}

	if err := c.validateRow(&row); err != nil {
		return 0, err
	}

	if row.ID == "" {
		row.ID = c.nextRowID()
	}

	c.Rows = append(c.Rows, row)

	return len(c.Rows) - 1, nil
}

func (f *CollectionField) nextRowID() string {
	for n := len(f.Rows) + 1; ; n++ {
		id := "row" + strconv.Itoa(n)
		if !slices.ContainsFunc(f.Rows, func(r Row) bool { return r.ID == id }) {
			return id
		}
	}
}

// DeleteRow removes the row at index.
func (d *Document) DeleteRow(id string, index int) error {
	c, err := d.collection(id)
	if err != nil {
		return err
	}

	if index < 0 || index >= len(c.Rows) {
		return rowOutOfRange(id, index)
	}

	c.Rows = slices.Delete(c.Rows, index, index+1)

	return nil
}

// MoveRow moves the row at from so that it ends up at index to.
func (d *Document) MoveRow(id string, from, to int) error {
	c, err := d.collection(id)
	if err != nil {
		return err
	}

	if from < 0 || from >= len(c.Rows) {
		return rowOutOfRange(id, from)
	}

	if to < 0 || to >= len(c.Rows) {
		return rowOutOfRange(id, to)
	}

	row := c.Rows[from]
	c.Rows = slices.Insert(slices.Delete(c.Rows, from, from+1), to, row)

	return nil
}

// SetCell replaces one cell of a collection row. Setting null removes the
// cell.
func (d *Document) SetCell(id string, index int, column string, v formula.Value) error {
	c, err := d.collection(id)
	if err != nil {
		return err
	}

	if index < 0 || index >= len(c.Rows) {
		return rowOutOfRange(id, index)
	}

	row := &c.Rows[index]

	if v.IsNull() {
		delete(row.Cells, column)

		return nil
	}

	probe := Row{Cells: map[string]formula.Value{column: v}}
	if err := c.validateRow(&probe); err != nil {
		return err
	}

	if row.Cells == nil {
		row.Cells = make(map[string]formula.Value)
	}

	row.Cells[column] = probe.Cells[column]

	return nil
}

func rowOutOfRange(id string, index int) error {
	return ErrRowOutOfRange.With(slog.String("field", id), slog.Int("index", index))
}
