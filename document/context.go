package document

import (
	"errors"
	"log/slog"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/edwingeng/deque"

	"github.com/ardnew/formula/formula"
	"github.com/ardnew/formula/log"
)

// Context resolves formula references against a [Document]. It implements
// [formula.Context].
//
// Formula fields are evaluated on demand against the same context and
// their results are cached together with the set of fields each one read.
// [Context.InvalidateCache] drops the entries for changed fields and for
// every entry that transitively read them; everything else stays cached.
//
// A Context is not safe for concurrent use. Callers must serialize
// mutation, invalidation and resolution.
type Context struct {
	doc      *Document
	ev       *formula.Evaluator
	programs *formula.ProgramCache
	logger   log.Logger

	cache      map[string]*entry
	dependents map[string]map[string]struct{}

	// resolving is the chain of formula fields being evaluated, outermost
	// first; reads collects the fields read by each of them.
	resolving []string
	reads     []map[string]struct{}
}

type entry struct {
	value formula.Value
	err   error
	reads []string
}

// Option configures a [Context].
type Option func(*Context)

// WithEvaluator sets the evaluator used for formula fields.
func WithEvaluator(ev *formula.Evaluator) Option {
	return func(c *Context) {
		c.ev = ev
	}
}

// WithProgramCache sets the cache of parsed formulas. A cache may be shared
// by contexts over different documents.
func WithProgramCache(pc *formula.ProgramCache) Option {
	return func(c *Context) {
		c.programs = pc
	}
}

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(c *Context) {
		c.logger = logger
	}
}

// NewContext returns a context over doc.
func NewContext(doc *Document, opts ...Option) *Context {
	c := &Context{
		doc:        doc,
		cache:      make(map[string]*entry),
		dependents: make(map[string]map[string]struct{}),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.ev == nil {
		c.ev = formula.NewEvaluator(formula.WithLogger(c.logger))
	}

	if c.programs == nil {
		c.programs = formula.NewProgramCache()
	}

	return c
}

// Document returns the underlying document.
func (c *Context) Document() *Document { return c.doc }

// Evaluator returns the evaluator used for formula fields.
func (c *Context) Evaluator() *formula.Evaluator { return c.ev }

// With implements [formula.Context].
func (c *Context) With(name string, v formula.Value) formula.Context {
	return formula.Bind(c, name, v)
}

// Evaluate parses and evaluates source against the document.
func (c *Context) Evaluate(source string) (formula.Value, error) {
	node, err := c.programs.Parse(source)
	if err != nil {
		return formula.Null, err
	}

	return c.ev.Evaluate(node, c)
}

// Resolve implements [formula.Context]. The first path segment names a
// field. For collections the remaining segments select a row by index
// (items.2), a cell (items.2.price), or a column across all rows
// (items.price); a column yields one entry per row with null where a row
// has no such cell.
func (c *Context) Resolve(path string) (formula.Value, error) {
	id, rest, dotted := strings.Cut(path, ".")

	if n := len(c.reads); n > 0 {
		c.reads[n-1][id] = struct{}{}
	}

	f, ok := c.doc.Field(id)
	if !ok {
		return formula.Null, formula.InvalidReference(path)
	}

	var v formula.Value

	switch x := f.(type) {
	case *FormulaField:
		var err error
		if v, err = c.evaluate(x); err != nil {
			return formula.Null, err
		}

	case *CollectionField:
		if dotted {
			return collectionPath(x, rest, path)
		}

		return x.FormulaValue(), nil

	case *OptionsField:
		v = x.FormulaValue()

	case *ScalarField:
		v = x.Value
	}

	if !dotted {
		return v, nil
	}

	return formula.Walk(v, rest, path)
}

func collectionPath(f *CollectionField, rest, path string) (formula.Value, error) {
	seg, rest, more := strings.Cut(rest, ".")

	i, err := strconv.Atoi(seg)
	if err != nil {
		rows, _ := f.FormulaValue().Array()

		col := formula.Column(rows, seg)
		if !more {
			return col, nil
		}

		return formula.Walk(col, rest, path)
	}

	if i < 0 || i >= len(f.Rows) {
		return formula.Null, formula.InvalidReference(path)
	}

	row := f.Rows[i]
	if !more {
		return row.FormulaValue(), nil
	}

	key, rest, more := strings.Cut(rest, ".")

	cell := row.Cells[key]
	if !more {
		return cell, nil
	}

	return formula.Walk(cell, rest, path)
}

// evaluate returns the cached result of a formula field, computing it if
// needed. Re-entering a field that is already being evaluated is a
// circular reference; such failures depend on where resolution entered
// the cycle, so they are never cached.
func (c *Context) evaluate(f *FormulaField) (formula.Value, error) {
	id := f.FieldID

	if e, ok := c.cache[id]; ok {
		c.logger.Trace("cache hit", slog.String("field", id))

		return e.value, e.err
	}

	if i := slices.Index(c.resolving, id); i >= 0 {
		chain := append(slices.Clone(c.resolving[i:]), id)
		err := formula.CircularReference(id, strings.Join(chain, " -> "))

		c.logger.Trace("circular reference",
			slog.String("field", id),
			slog.String("chain", err.Message))

		return formula.Null, err
	}

	c.resolving = append(c.resolving, id)
	c.reads = append(c.reads, map[string]struct{}{})

	var v formula.Value

	node, err := c.programs.Parse(f.Formula)
	if err == nil {
		v, err = c.ev.Evaluate(node, c)
	}

	reads := slices.Sorted(maps.Keys(c.reads[len(c.reads)-1]))

	c.resolving = c.resolving[:len(c.resolving)-1]
	c.reads = c.reads[:len(c.reads)-1]

	if errors.Is(err, formula.ErrCircularReference) {
		return formula.Null, err
	}

	c.cache[id] = &entry{value: v, err: err, reads: reads}

	for _, r := range reads {
		if c.dependents[r] == nil {
			c.dependents[r] = make(map[string]struct{})
		}

		c.dependents[r][id] = struct{}{}
	}

	c.logger.Trace("cache store",
		slog.String("field", id),
		slog.Any("reads", reads),
		slog.Bool("failed", err != nil))

	return v, err
}

// IsCached reports whether a result for the formula field id is cached.
func (c *Context) IsCached(id string) bool {
	_, ok := c.cache[id]

	return ok
}

// Reads returns the fields read by the cached evaluation of id, sorted.
func (c *Context) Reads(id string) []string {
	if e, ok := c.cache[id]; ok {
		return slices.Clone(e.reads)
	}

	return nil
}

// InvalidateCache removes the cache entries of the named fields and of
// every entry that transitively read any of them. It returns the
// identifiers of the removed entries, sorted.
func (c *Context) InvalidateCache(ids ...string) []string {
	var removed []string

	queue := deque.NewDeque()
	seen := make(map[string]bool)

	for _, id := range ids {
		queue.PushBack(id)
	}

	for queue.Len() != 0 {
		id := queue.PopFront().(string)
		if seen[id] {
			continue
		}

		seen[id] = true

		for _, dep := range slices.Sorted(maps.Keys(c.dependents[id])) {
			queue.PushBack(dep)
		}

		if c.drop(id) {
			removed = append(removed, id)
		}
	}

	slices.Sort(removed)

	c.logger.Trace("invalidate cache",
		slog.Any("changed", ids),
		slog.Any("removed", removed))

	return removed
}

// drop removes the cache entry for id and unlinks it from the dependents
// of the fields it read.
func (c *Context) drop(id string) bool {
	e, ok := c.cache[id]
	if !ok {
		return false
	}

	delete(c.cache, id)

	for _, r := range e.reads {
		delete(c.dependents[r], id)

		if len(c.dependents[r]) == 0 {
			delete(c.dependents, r)
		}
	}

	return true
}

// ClearCache removes every cache entry.
func (c *Context) ClearCache() {
	clear(c.cache)
	clear(c.dependents)
}

// SetValue sets a field value and invalidates its dependents.
func (c *Context) SetValue(id string, v formula.Value) ([]string, error) {
	if err := c.doc.SetValue(id, v); err != nil {
		return nil, err
	}

	return c.InvalidateCache(id), nil
}

// SetFormula replaces a formula and invalidates it and its dependents.
func (c *Context) SetFormula(id, source string) ([]string, error) {
	if err := c.doc.SetFormula(id, source); err != nil {
		return nil, err
	}

	return c.InvalidateCache(id), nil
}

// AddRow appends a row and invalidates dependents of the collection.
func (c *Context) AddRow(id string, row Row) (int, []string, error) {
	i, err := c.doc.AddRow(id, row)
	if err != nil {
		return 0, nil, err
	}

	return i, c.InvalidateCache(id), nil
}

// DeleteRow removes a row and invalidates dependents of the collection.
func (c *Context) DeleteRow(id string, index int) ([]string, error) {
	if err := c.doc.DeleteRow(id, index); err != nil {
		return nil, err
	}

	return c.InvalidateCache(id), nil
}

// MoveRow reorders a row and invalidates dependents of the collection.
func (c *Context) MoveRow(id string, from, to int) ([]string, error) {
	if err := c.doc.MoveRow(id, from, to); err != nil {
		return nil, err
	}

	return c.InvalidateCache(id), nil
}

// SetCell sets a cell and invalidates dependents of the collection.
func (c *Context) SetCell(id string, index int, column string, v formula.Value) ([]string, error) {
	if err := c.doc.SetCell(id, index, column, v); err != nil {
		return nil, err
	}

	return c.InvalidateCache(id), nil
}
