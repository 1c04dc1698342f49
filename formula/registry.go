package formula

import (
	"maps"
	"slices"
	"strings"
)

// Func implements a formula function. It receives its arguments unevaluated
// so it can decide when, and how often, to evaluate each of them.
type Func func(args []Node, ctx Context, ev *Evaluator) (Value, error)

// Registry maps case-insensitive function names to implementations.
// A Registry is not safe for concurrent registration.
type Registry struct {
	funcs map[string]Func
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{funcs: make(map[string]Func)}
}

// Register binds name to fn, replacing any earlier binding of that name.
func (r *Registry) Register(name string, fn Func) {
	r.funcs[strings.ToUpper(name)] = fn
}

// Lookup returns the function bound to name, if any.
func (r *Registry) Lookup(name string) (Func, bool) {
	if r == nil {
		return nil, false
	}

	fn, ok := r.funcs[strings.ToUpper(name)]

	return fn, ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}

	return slices.Sorted(maps.Keys(r.funcs))
}
