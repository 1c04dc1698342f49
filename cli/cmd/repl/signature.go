package repl

import (
	"strings"
	"unicode/utf8"
)

// signatures lists the parameters of the builtin functions. A parameter
// prefixed with "..." accepts any number of arguments.
var signatures = map[string][]string{
	"SUM":   {"...values"},
	"AVG":   {"...values"},
	"MIN":   {"...values"},
	"MAX":   {"...values"},
	"COUNT": {"...values"},
	"ROUND": {"number", "digits"},
	"CEIL":  {"number"},
	"FLOOR": {"number"},
	"ABS":   {"number"},
	"SQRT":  {"number"},
	"POW":   {"base", "exponent"},
	"MOD":   {"dividend", "divisor"},

	"IF":      {"condition", "then", "else"},
	"AND":     {"...conditions"},
	"OR":      {"...conditions"},
	"NOT":     {"value"},
	"IFERROR": {"value", "fallback"},
	"ISERROR": {"value"},

	"CONCAT":   {"...values"},
	"UPPER":    {"text"},
	"LOWER":    {"text"},
	"TRIM":     {"text"},
	"LENGTH":   {"value"},
	"CONTAINS": {"haystack", "needle"},
	"EMPTY":    {"value"},
	"TOSTRING": {"value"},
	"TONUMBER": {"value"},

	"NOW":   {},
	"DATE":  {"year", "month", "day"},
	"YEAR":  {"date"},
	"MONTH": {"date"},
	"DAY":   {"date"},

	"MAP":     {"array", "(item, index) -> value"},
	"FILTER":  {"array", "(item, index) -> bool"},
	"REDUCE":  {"array", "(acc, item, index) -> value", "initial"},
	"FIND":    {"array", "(item, index) -> bool"},
	"EVERY":   {"array", "(item, index) -> bool"},
	"SOME":    {"array", "(item, index) -> bool"},
	"COUNTIF": {"array", "(item, index) -> bool"},
	"FLAT":    {"array"},
}

// signature returns the parameter names of the function called name.
func signature(name string) ([]string, bool) {
	params, ok := signatures[strings.ToUpper(name)]

	return params, ok
}

// functionCall describes the innermost call enclosing the cursor.
type functionCall struct {
	name     string
	argIndex int
	inCall   bool
}

// detectFunctionCall finds the innermost unclosed call before cursor and
// the index of the argument being typed. Parentheses, brackets, braces and
// commas inside string literals are ignored, as are parentheses that do not
// follow a function name (grouping and lambda parameter lists).
func detectFunctionCall(input string, cursor int) functionCall {
	if cursor > len(input) {
		cursor = len(input)
	}

	type frame struct {
		name string
		args int
	}

	var (
		stack  []frame
		quoted bool
	)

	for i := 0; i < cursor; i++ {
		c := input[i]

		if quoted {
			switch c {
			case '\\':
				i++
			case '"':
				quoted = false
			}

			continue
		}

		switch c {
		case '"':
			quoted = true

		case '(', '[', '{':
			name := ""
			if c == '(' {
				name = callee(input[:i])
			}

			stack = append(stack, frame{name: name})

		case ')', ']', '}':
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}

		case ',':
			if len(stack) > 0 {
				stack[len(stack)-1].args++
			}
		}
	}

	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i].name != "" {
			return functionCall{name: stack[i].name, argIndex: stack[i].args, inCall: true}
		}
	}

	return functionCall{}
}

// callee returns the identifier immediately before an opening paren.
func callee(prefix string) string {
	end := len(strings.TrimRight(prefix, " \t"))
	start := end

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(prefix[:start])
		if r != '_' && !isLetter(r) && !isDigit(r) {
			break
		}

		start -= size
	}

	name := prefix[start:end]
	if name == "" || isDigit(rune(name[0])) {
		return ""
	}

	return name
}

func isLetter(r rune) bool { return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' }

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

// renderSignatureHint renders the signature of name with the parameter at
// argIndex highlighted. A variadic parameter stays highlighted for every
// argument at or after its position.
func renderSignatureHint(name string, params []string, argIndex int) string {
	var b strings.Builder

	b.WriteString(signatureNameStyle.Render(strings.ToUpper(name)))
	b.WriteString(signatureStyle.Render("("))

	for i, param := range params {
		if i > 0 {
			b.WriteString(signatureStyle.Render(", "))
		}

		variadic := strings.HasPrefix(param, "...")

		if (variadic && argIndex >= i) || (!variadic && argIndex == i) {
			b.WriteString(currentParamStyle.Render(param))
		} else {
			b.WriteString(signatureStyle.Render(param))
		}
	}

	b.WriteString(signatureStyle.Render(")"))

	return b.String()
}
