package formula

import (
	"maps"
	"strconv"
	"strings"
)

// Context resolves reference paths to values during evaluation.
//
// With returns a derived context in which name resolves to v, shadowing
// any permanent entry of the same name. The receiver is not modified, and
// bindings made on the derived context are not visible through it.
type Context interface {
	Resolve(path string) (Value, error)
	With(name string, v Value) Context
}

// DictionaryContext is a flat [Context] backed by a map of named values.
// Dotted paths walk into nested dictionaries and arrays (see [Walk]).
type DictionaryContext struct {
	values map[string]Value
}

// NewDictionaryContext returns a context over a copy of values.
func NewDictionaryContext(values map[string]Value) *DictionaryContext {
	return &DictionaryContext{values: maps.Clone(values)}
}

// Set assigns a permanent value.
func (d *DictionaryContext) Set(name string, v Value) {
	if d.values == nil {
		d.values = make(map[string]Value)
	}

	d.values[name] = v
}

// Resolve returns the value at path. A key containing dots matches exactly
// before the path is split into segments.
func (d *DictionaryContext) Resolve(path string) (Value, error) {
	if v, ok := d.values[path]; ok {
		return v, nil
	}

	head, rest, dotted := strings.Cut(path, ".")

	v, ok := d.values[head]
	if !ok {
		return Null, InvalidReference(path)
	}

	if !dotted {
		return v, nil
	}

	return Walk(v, rest, path)
}

// With implements [Context].
func (d *DictionaryContext) With(name string, v Value) Context {
	return Bind(d, name, v)
}

type binding struct {
	parent Context
	name   string
	value  Value
}

// Bind returns a context in which name (and any dotted sub-path of name)
// resolves against v, and every other path is delegated to parent.
// Nested bindings stack; the innermost binding of a name wins.
func Bind(parent Context, name string, v Value) Context {
	return &binding{parent: parent, name: name, value: v}
}

func (b *binding) Resolve(path string) (Value, error) {
	if path == b.name {
		return b.value, nil
	}

	if rest, ok := strings.CutPrefix(path, b.name+"."); ok {
		return Walk(b.value, rest, path)
	}

	return b.parent.Resolve(path)
}

func (b *binding) With(name string, v Value) Context {
	return Bind(b, name, v)
}

// Walk follows the dotted sub-path rest into v. Dictionary segments select
// a key, numeric segments index an array, and a non-numeric segment applied
// to an array projects that key from every element, yielding null where an
// element lacks it. full is the complete path reported in errors.
func Walk(v Value, rest, full string) (Value, error) {
	for seg := range strings.SplitSeq(rest, ".") {
		switch v.Kind() {
		case KindDictionary:
			next, ok := v.dict[seg]
			if !ok {
				return Null, InvalidReference(full)
			}

			v = next

		case KindArray:
			if i, err := strconv.Atoi(seg); err == nil {
				if i < 0 || i >= len(v.arr) {
					return Null, InvalidReference(full)
				}

				v = v.arr[i]

				continue
			}

			v = Column(v.arr, seg)

		default:
			return Null, InvalidReference(full)
		}
	}

	return v, nil
}

// Column returns key projected from each dictionary in rows. The result
// has one entry per row; rows that are not dictionaries or lack key
// contribute null.
func Column(rows []Value, key string) Value {
	out := make([]Value, len(rows))

	for i, row := range rows {
		if d, ok := row.Dictionary(); ok {
			out[i] = d[key]
		}
	}

	return Array(out...)
}
