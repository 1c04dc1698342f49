// Package formula implements a small expression language for calculated
// fields.
//
// A formula such as
//
//	SUM({items.price}) * (1 + {tax_rate})
//
// is tokenized by [Tokenize], parsed into a [Node] tree by [Parse], and
// evaluated by an [Evaluator] against a [Context] that resolves reference
// paths. Results are [Value]s; every failure is an *[Error] classified by
// [ErrorKind] and can also travel as data inside a Value of [KindError].
//
// # Syntax
//
// Operators, from lowest to highest precedence:
//
//	||
//	&&
//	== !=
//	> < >= <=
//	+ -
//	* /
//	- !        (prefix)
//
// Primary expressions are numbers, "strings", true and false, references
// (bare dotted paths like items.1.price or braced paths like {unit price}),
// parenthesized groups, arrays [a, b], and calls NAME(a, b). A call argument
// may be a lambda, written (x, y) -> body or x -> body; the arrow may also
// be written →.
//
// Function names are case-insensitive and resolved through a [Registry].
// [Builtins] returns a registry holding the standard library, including the
// higher-order functions MAP, FILTER and REDUCE.
package formula
