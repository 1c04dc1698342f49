package document

import (
	"slices"
	"strings"
	"time"

	"github.com/ardnew/formula/formula"
)

// Kind identifies the kind of a document field.
type Kind int

const (
	// KindText holds a string.
	KindText Kind = iota

	// KindNumber holds a number.
	KindNumber

	// KindBoolean holds true or false.
	KindBoolean

	// KindDate holds a point in time.
	KindDate

	// KindOptions holds one or more selections from a fixed list.
	KindOptions

	// KindSignature holds an opaque signature payload (e.g. a data URL).
	KindSignature

	// KindFormula computes its value from a formula.
	KindFormula

	// KindCollection holds a table of rows with declared columns.
	KindCollection
)

var kindNames = map[Kind]string{
	KindText:       "text",
	KindNumber:     "number",
	KindBoolean:    "boolean",
	KindDate:       "date",
	KindOptions:    "options",
	KindSignature:  "signature",
	KindFormula:    "formula",
	KindCollection: "collection",
}

// String returns a string representation of the field kind.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}

	return "unknown"
}

// ParseKind returns the kind named s, case-insensitively.
func ParseKind(s string) (Kind, bool) {
	s = strings.ToLower(strings.TrimSpace(s))

	for k, name := range kindNames {
		if name == s {
			return k, true
		}
	}

	return 0, false
}

// Field is a single named entry of a [Document].
type Field interface {
	ID() string
	Kind() Kind
}

// ScalarField is a text, number, boolean, date or signature field.
type ScalarField struct {
	FieldID   string
	FieldKind Kind
	Value     formula.Value
}

// OptionsField selects from a fixed list of options. A single-select field
// has a string value (or null); a multi-select field has an array of
// strings.
type OptionsField struct {
	FieldID  string
	Options  []string
	Multiple bool
	Selected []string
}

// FormulaField computes its value from Formula whenever it is resolved.
type FormulaField struct {
	FieldID string
	Formula string
}

// CollectionField is a table. Each row holds a value per column; a cell
// that was never set is absent rather than null.
type CollectionField struct {
	FieldID string
	Columns []Column
	Rows    []Row
}

// Column declares a collection column.
type Column struct {
	ID   string
	Kind Kind
}

// Row is a single collection row.
type Row struct {
	ID    string
	Cells map[string]formula.Value
}

func (f *ScalarField) ID() string     { return f.FieldID }
func (f *OptionsField) ID() string    { return f.FieldID }
func (f *FormulaField) ID() string    { return f.FieldID }
func (f *CollectionField) ID() string { return f.FieldID }

func (f *ScalarField) Kind() Kind     { return f.FieldKind }
func (f *OptionsField) Kind() Kind    { return KindOptions }
func (f *FormulaField) Kind() Kind    { return KindFormula }
func (f *CollectionField) Kind() Kind { return KindCollection }

// FormulaValue returns the selection as a formula value.
func (f *OptionsField) FormulaValue() formula.Value {
	if f.Multiple {
		out := make([]formula.Value, len(f.Selected))
		for i, s := range f.Selected {
			out[i] = formula.String(s)
		}

		return formula.Array(out...)
	}

	if len(f.Selected) == 0 {
		return formula.Null
	}

	return formula.String(f.Selected[0])
}

// FormulaValue returns the rows as an array of dictionaries keyed by
// column identifier.
func (f *CollectionField) FormulaValue() formula.Value {
	rows := make([]formula.Value, len(f.Rows))
	for i := range f.Rows {
		rows[i] = f.Rows[i].FormulaValue()
	}

	return formula.Array(rows...)
}

// FormulaValue returns the row's cells as a dictionary.
func (r Row) FormulaValue() formula.Value {
	cells := make(map[string]formula.Value, len(r.Cells))
	for k, v := range r.Cells {
		cells[k] = v
	}

	return formula.Dictionary(cells)
}

// Column returns the declared column with the given identifier.
func (f *CollectionField) Column(id string) (Column, bool) {
	i := slices.IndexFunc(f.Columns, func(c Column) bool { return c.ID == id })
	if i < 0 {
		return Column{}, false
	}

	return f.Columns[i], true
}

// coerce converts v to the representation stored for a field or column of
// kind k. Null is always accepted.
func coerce(k Kind, v formula.Value) (formula.Value, bool) {
	if v.IsNull() {
		return v, true
	}

	switch k {
	case KindText, KindSignature:
		_, ok := v.Str()

		return v, ok

	case KindNumber:
		_, ok := v.Number()

		return v, ok

	case KindBoolean:
		_, ok := v.Bool()

		return v, ok

	case KindDate:
		if _, ok := v.Date(); ok {
			return v, true
		}

		if s, ok := v.Str(); ok {
			if t, ok := formula.ParseDate(s); ok {
				return formula.Date(t), true
			}
		}

		if n, ok := v.Number(); ok {
			return formula.Date(time.UnixMilli(int64(n)).UTC()), true
		}

		return v, false

	default:
		return v, false
	}
}
