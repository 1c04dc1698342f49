package formula

import "slices"

// Node is a node of a parsed formula. The concrete types are [*Literal],
// [*Reference], [*Infix], [*Prefix], [*Call], [*ArrayLit] and [*Lambda].
// Trees are immutable once built.
type Node interface {
	node()
}

// Literal is a constant value.
type Literal struct {
	Value Value
}

// Reference is a dotted path resolved against a [Context].
type Reference struct {
	Path string
}

// Infix is a binary operation.
type Infix struct {
	Op          string
	Left, Right Node
}

// Prefix is a unary operation.
type Prefix struct {
	Op      string
	Operand Node
}

// Call invokes a registered function with unevaluated arguments.
type Call struct {
	Name string
	Args []Node
}

// ArrayLit is an array literal.
type ArrayLit struct {
	Elements []Node
}

// Lambda is an anonymous function, valid only as a call argument.
type Lambda struct {
	Params []string
	Body   Node
}

func (*Literal) node()   {}
func (*Reference) node() {}
func (*Infix) node()     {}
func (*Prefix) node()    {}
func (*Call) node()      {}
func (*ArrayLit) node()  {}
func (*Lambda) node()    {}

// EqualNode reports whether a and b are structurally identical trees.
func EqualNode(a, b Node) bool {
	switch x := a.(type) {
	case *Literal:
		y, ok := b.(*Literal)

		return ok && Equal(x.Value, y.Value)

	case *Reference:
		y, ok := b.(*Reference)

		return ok && x.Path == y.Path

	case *Infix:
		y, ok := b.(*Infix)

		return ok && x.Op == y.Op &&
			EqualNode(x.Left, y.Left) && EqualNode(x.Right, y.Right)

	case *Prefix:
		y, ok := b.(*Prefix)

		return ok && x.Op == y.Op && EqualNode(x.Operand, y.Operand)

	case *Call:
		y, ok := b.(*Call)

		return ok && x.Name == y.Name && slices.EqualFunc(x.Args, y.Args, EqualNode)

	case *ArrayLit:
		y, ok := b.(*ArrayLit)

		return ok && slices.EqualFunc(x.Elements, y.Elements, EqualNode)

	case *Lambda:
		y, ok := b.(*Lambda)

		return ok && slices.Equal(x.Params, y.Params) && EqualNode(x.Body, y.Body)

	default:
		return a == nil && b == nil
	}
}

// References returns the distinct reference paths read by n in the order
// first encountered. Lambda parameters and their sub-paths are excluded
// inside the lambda body.
func References(n Node) []string {
	var (
		out  []string
		seen = map[string]bool{}
	)

	var walk func(n Node, bound []string)

	walk = func(n Node, bound []string) {
		switch x := n.(type) {
		case *Reference:
			if isBound(x.Path, bound) || seen[x.Path] {
				return
			}

			seen[x.Path] = true
			out = append(out, x.Path)

		case *Infix:
			walk(x.Left, bound)
			walk(x.Right, bound)

		case *Prefix:
			walk(x.Operand, bound)

		case *Call:
			for _, a := range x.Args {
				walk(a, bound)
			}

		case *ArrayLit:
			for _, e := range x.Elements {
				walk(e, bound)
			}

		case *Lambda:
			walk(x.Body, append(slices.Clone(bound), x.Params...))
		}
	}

	walk(n, nil)

	return out
}

func isBound(path string, bound []string) bool {
	for _, name := range bound {
		if path == name || len(path) > len(name) &&
			path[:len(name)] == name && path[len(name)] == '.' {
			return true
		}
	}

	return false
}
