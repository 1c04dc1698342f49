package formula

import (
	"strings"
	"unicode/utf8"
)

// Format renders n as canonical formula source. Infix operations are fully
// parenthesized and prefix operands are wrapped, so parsing the result
// yields a tree equal to n (see [EqualNode]) for any tree produced by
// [Parse].
func Format(n Node) string {
	var sb strings.Builder

	format(&sb, n)

	return sb.String()
}

func format(sb *strings.Builder, n Node) {
	switch x := n.(type) {
	case *Literal:
		formatLiteral(sb, x.Value)

	case *Reference:
		if bareSafe(x.Path) {
			sb.WriteString(x.Path)
		} else {
			sb.WriteByte('{')
			sb.WriteString(x.Path)
			sb.WriteByte('}')
		}

	case *Infix:
		sb.WriteByte('(')
		format(sb, x.Left)
		sb.WriteByte(' ')
		sb.WriteString(x.Op)
		sb.WriteByte(' ')
		format(sb, x.Right)
		sb.WriteByte(')')

	case *Prefix:
		sb.WriteString(x.Op)
		sb.WriteByte('(')
		format(sb, x.Operand)
		sb.WriteByte(')')

	case *Call:
		sb.WriteString(x.Name)
		sb.WriteByte('(')
		formatList(sb, x.Args)
		sb.WriteByte(')')

	case *ArrayLit:
		sb.WriteByte('[')
		formatList(sb, x.Elements)
		sb.WriteByte(']')

	case *Lambda:
		sb.WriteByte('(')
		sb.WriteString(strings.Join(x.Params, ", "))
		sb.WriteString(") -> ")
		format(sb, x.Body)
	}
}

func formatList(sb *strings.Builder, nodes []Node) {
	for i, n := range nodes {
		if i > 0 {
			sb.WriteString(", ")
		}

		format(sb, n)
	}
}

func formatLiteral(sb *strings.Builder, v Value) {
	switch v.Kind() {
	case KindString:
		sb.WriteString(Quote(v.str))

	case KindArray:
		sb.WriteByte('[')

		for i, e := range v.arr {
			if i > 0 {
				sb.WriteString(", ")
			}

			formatLiteral(sb, e)
		}

		sb.WriteByte(']')

	default:
		sb.WriteString(v.String())
	}
}

// Quote returns s as a double-quoted formula string literal.
func Quote(s string) string {
	var sb strings.Builder

	sb.Grow(len(s) + 2)
	sb.WriteByte('"')

	for i := range len(s) {
		switch c := s[i]; c {
		case '"', '\\':
			sb.WriteByte('\\')
			sb.WriteByte(c)

		case '\n':
			sb.WriteString(`\n`)

		case '\t':
			sb.WriteString(`\t`)

		case '\r':
			sb.WriteString(`\r`)

		default:
			sb.WriteByte(c)
		}
	}

	sb.WriteByte('"')

	return sb.String()
}

// bareSafe reports whether path lexes back as a single identifier token.
func bareSafe(path string) bool {
	if path == "" {
		return false
	}

	switch strings.ToLower(path) {
	case "true", "false":
		return false
	}

	r, _ := utf8.DecodeRuneInString(path)
	if !isIdentStart(r) {
		return false
	}

	for _, r := range path {
		if !isIdentRune(r) {
			return false
		}
	}

	return true
}
