package formula

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// TokenKind identifies the lexical class of a [Token].
type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenNumber
	TokenString
	TokenBoolean
	TokenIdent     // bare word: a reference path or a function name
	TokenReference // braced reference path, e.g. {items.price}
	TokenOperator
	TokenLParen
	TokenRParen
	TokenLBracket
	TokenRBracket
	TokenComma
	TokenArrow
)

var tokenKindNames = [...]string{
	TokenEOF:       "end of input",
	TokenNumber:    "number",
	TokenString:    "string",
	TokenBoolean:   "boolean",
	TokenIdent:     "identifier",
	TokenReference: "reference",
	TokenOperator:  "operator",
	TokenLParen:    "'('",
	TokenRParen:    "')'",
	TokenLBracket:  "'['",
	TokenRBracket:  "']'",
	TokenComma:     "','",
	TokenArrow:     "'->'",
}

// String returns a string representation of the token kind.
func (k TokenKind) String() string {
	if k >= 0 && int(k) < len(tokenKindNames) {
		return tokenKindNames[k]
	}

	return "unknown"
}

// Token is one lexical unit of a formula.
//
// Text holds the source text for operators and punctuation, the path for
// identifiers and references, and the decoded payload for strings. Value is
// set for number, string and boolean literals. Pos is the byte offset of the
// token in the source.
type Token struct {
	Kind  TokenKind
	Text  string
	Value Value
	Pos   int
}

// String returns a short description of the token for diagnostics.
func (t Token) String() string {
	switch t.Kind {
	case TokenEOF:
		return t.Kind.String()

	case TokenString:
		return strconv.Quote(t.Text)

	case TokenReference:
		return "{" + t.Text + "}"

	default:
		return t.Text
	}
}

const arrowRune = '→'

// operators recognized by the lexer, longest first.
var operators = []string{
	"==", "!=", ">=", "<=", "&&", "||",
	"+", "-", "*", "/", ">", "<", "!",
}

func isOperatorRune(r rune) bool {
	return strings.ContainsRune("+-*/=!<>&|%^~", r)
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentRune(r rune) bool {
	return r == '_' || r == '.' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

type lexer struct {
	src    string
	pos    int
	tokens []Token
}

// Tokenize scans source into tokens terminated by a single [TokenEOF].
// Any lexical error is returned as a syntax *Error and no tokens are
// returned.
func Tokenize(source string) ([]Token, error) {
	lx := &lexer{src: source}

	for {
		tok, err := lx.next()
		if err != nil {
			return nil, err
		}

		lx.tokens = append(lx.tokens, tok)

		if tok.Kind == TokenEOF {
			return lx.tokens, nil
		}
	}
}

// valueStart reports whether the next token begins a value, i.e. a '-'
// followed by a digit is the sign of a literal rather than an operator.
func (lx *lexer) valueStart() bool {
	if len(lx.tokens) == 0 {
		return true
	}

	switch lx.tokens[len(lx.tokens)-1].Kind {
	case TokenOperator, TokenLParen, TokenLBracket, TokenComma, TokenArrow:
		return true

	default:
		return false
	}
}

func (lx *lexer) skipSpace() {
	for lx.pos < len(lx.src) {
		r, size := utf8.DecodeRuneInString(lx.src[lx.pos:])
		if !unicode.IsSpace(r) {
			return
		}

		lx.pos += size
	}
}

func (lx *lexer) next() (Token, error) {
	lx.skipSpace()

	start := lx.pos
	if start >= len(lx.src) {
		return Token{Kind: TokenEOF, Pos: start}, nil
	}

	r, size := utf8.DecodeRuneInString(lx.src[start:])

	switch {
	case r == utf8.RuneError && size == 1:
		return Token{}, SyntaxError(start, "invalid UTF-8 encoding")

	case isDigit(lx.src[start]):
		return lx.number(start)

	case r == '-' && start+1 < len(lx.src) && isDigit(lx.src[start+1]) &&
		lx.valueStart():
		lx.pos++

		return lx.number(start)

	case r == '"':
		return lx.str(start)

	case r == '{':
		return lx.reference(start)

	case isIdentStart(r):
		return lx.ident(start), nil

	case r == arrowRune:
		lx.pos += size

		return Token{Kind: TokenArrow, Text: "->", Pos: start}, nil

	case strings.HasPrefix(lx.src[start:], "->"):
		lx.pos += 2

		return Token{Kind: TokenArrow, Text: "->", Pos: start}, nil

	case isOperatorRune(r):
		return lx.operator(start)
	}

	lx.pos += size

	switch r {
	case '(':
		return Token{Kind: TokenLParen, Text: "(", Pos: start}, nil

	case ')':
		return Token{Kind: TokenRParen, Text: ")", Pos: start}, nil

	case '[':
		return Token{Kind: TokenLBracket, Text: "[", Pos: start}, nil

	case ']':
		return Token{Kind: TokenRBracket, Text: "]", Pos: start}, nil

	case ',':
		return Token{Kind: TokenComma, Text: ",", Pos: start}, nil
	}

	return Token{}, SyntaxError(start, "unexpected character "+strconv.QuoteRune(r))
}

// number scans digits with at most one decimal point. The scan begins at
// lx.pos; start includes a leading sign if one was consumed.
func (lx *lexer) number(start int) (Token, error) {
	lx.digits()

	if lx.pos < len(lx.src) && lx.src[lx.pos] == '.' {
		lx.pos++

		if lx.digits() == 0 {
			return Token{}, SyntaxError(lx.pos, "malformed number "+
				strconv.Quote(lx.src[start:lx.pos]))
		}

		if lx.pos < len(lx.src) && lx.src[lx.pos] == '.' {
			lx.pos++
			lx.digits()

			return Token{}, SyntaxError(start, "malformed number "+
				strconv.Quote(lx.src[start:lx.pos]))
		}
	}

	text := lx.src[start:lx.pos]

	n, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return Token{}, SyntaxError(start, "malformed number "+strconv.Quote(text))
	}

	return Token{Kind: TokenNumber, Text: text, Value: Number(n), Pos: start}, nil
}

func (lx *lexer) digits() int {
	n := 0
	for lx.pos < len(lx.src) && isDigit(lx.src[lx.pos]) {
		lx.pos++
		n++
	}

	return n
}

func (lx *lexer) str(start int) (Token, error) {
	var sb strings.Builder

	lx.pos++ // opening quote

	for lx.pos < len(lx.src) {
		c := lx.src[lx.pos]

		switch c {
		case '"':
			lx.pos++
			s := sb.String()

			return Token{Kind: TokenString, Text: s, Value: String(s), Pos: start}, nil

		case '\\':
			if lx.pos+1 >= len(lx.src) {
				return Token{}, SyntaxError(start, "unterminated string")
			}

			switch e := lx.src[lx.pos+1]; e {
			case '"', '\\':
				sb.WriteByte(e)

			case 'n':
				sb.WriteByte('\n')

			case 't':
				sb.WriteByte('\t')

			case 'r':
				sb.WriteByte('\r')

			default:
				return Token{}, SyntaxError(lx.pos,
					"invalid escape sequence "+strconv.Quote(lx.src[lx.pos:lx.pos+2]))
			}

			lx.pos += 2

		default:
			sb.WriteByte(c)
			lx.pos++
		}
	}

	return Token{}, SyntaxError(start, "unterminated string")
}

func (lx *lexer) reference(start int) (Token, error) {
	end := strings.IndexByte(lx.src[start+1:], '}')
	if end < 0 {
		return Token{}, SyntaxError(start, "unterminated reference")
	}

	path := strings.TrimSpace(lx.src[start+1 : start+1+end])
	lx.pos = start + end + 2

	if path == "" {
		return Token{}, SyntaxError(start, "empty reference")
	}

	if strings.ContainsAny(path, "{\"") {
		return Token{}, SyntaxError(start, "invalid reference "+strconv.Quote(path))
	}

	return Token{Kind: TokenReference, Text: path, Pos: start}, nil
}

func (lx *lexer) ident(start int) Token {
	for lx.pos < len(lx.src) {
		r, size := utf8.DecodeRuneInString(lx.src[lx.pos:])
		if !isIdentRune(r) {
			break
		}

		lx.pos += size
	}

	text := lx.src[start:lx.pos]

	switch strings.ToLower(text) {
	case "true":
		return Token{Kind: TokenBoolean, Text: text, Value: Bool(true), Pos: start}

	case "false":
		return Token{Kind: TokenBoolean, Text: text, Value: Bool(false), Pos: start}
	}

	return Token{Kind: TokenIdent, Text: text, Pos: start}
}

// operator matches the longest known operator at start. If none matches,
// the whole run of operator characters is reported.
func (lx *lexer) operator(start int) (Token, error) {
	rest := lx.src[start:]

	for _, op := range operators {
		if strings.HasPrefix(rest, op) && !lx.invalidRun(start, op) {
			lx.pos += len(op)

			return Token{Kind: TokenOperator, Text: op, Pos: start}, nil
		}
	}

	end := start
	for end < len(lx.src) && isOperatorRune(rune(lx.src[end])) {
		end++
	}

	return Token{}, SyntaxError(start, "invalid operator "+strconv.Quote(lx.src[start:end]))
}

// invalidRun reports whether matching op at start would split a run that
// continues with a character no operator can begin with, such as "=/=" or
// "&&&" where the tail is itself meaningless.
func (lx *lexer) invalidRun(start int, op string) bool {
	end := start + len(op)
	if end >= len(lx.src) {
		return false
	}

	switch lx.src[end] {
	case '%', '^', '~', '=', '&', '|':
		return !lx.operatorAt(end)

	default:
		return false
	}
}

func (lx *lexer) operatorAt(pos int) bool {
	for _, op := range operators {
		if strings.HasPrefix(lx.src[pos:], op) {
			return true
		}
	}

	return false
}
