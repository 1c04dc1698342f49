package formula

import "strings"

// binaryLevels lists infix operators from lowest to highest precedence.
// All are left-associative.
var binaryLevels = [][]string{
	{"||"},
	{"&&"},
	{"==", "!="},
	{">", "<", ">=", "<="},
	{"+", "-"},
	{"*", "/"},
}

type parser struct {
	tokens []Token
	pos    int
}

// Parse tokenizes and parses source into a single expression tree. Parsing
// is all-or-nothing: on any error the returned node is nil and the error is
// a syntax *Error.
func Parse(source string) (Node, error) {
	tokens, err := Tokenize(source)
	if err != nil {
		return nil, err
	}

	return ParseTokens(tokens)
}

// ParseTokens parses a token stream produced by [Tokenize].
func ParseTokens(tokens []Token) (Node, error) {
	if len(tokens) == 0 || tokens[len(tokens)-1].Kind != TokenEOF {
		tokens = append(tokens, Token{Kind: TokenEOF})
	}

	p := &parser{tokens: tokens}

	if p.peek().Kind == TokenEOF {
		return nil, SyntaxError(p.peek().Pos, "empty formula")
	}

	n, err := p.expression()
	if err != nil {
		return nil, err
	}

	if t := p.peek(); t.Kind != TokenEOF {
		return nil, SyntaxError(t.Pos, "unexpected "+t.String()+" after expression")
	}

	return n, nil
}

func (p *parser) peek() Token { return p.peekAt(0) }

func (p *parser) peekAt(offset int) Token {
	if i := p.pos + offset; i < len(p.tokens) {
		return p.tokens[i]
	}

	return p.tokens[len(p.tokens)-1]
}

func (p *parser) advance() Token {
	t := p.peek()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}

	return t
}

func (p *parser) expect(kind TokenKind, context string) (Token, error) {
	t := p.peek()
	if t.Kind != kind {
		return t, SyntaxError(t.Pos,
			"expected "+kind.String()+" "+context+", found "+t.String())
	}

	return p.advance(), nil
}

func (p *parser) expression() (Node, error) {
	return p.binary(0)
}

func (p *parser) binary(level int) (Node, error) {
	if level == len(binaryLevels) {
		return p.unary()
	}

	left, err := p.binary(level + 1)
	if err != nil {
		return nil, err
	}

	for {
		t := p.peek()
		if t.Kind != TokenOperator || !hasOp(binaryLevels[level], t.Text) {
			return left, nil
		}

		p.advance()

		right, err := p.binary(level + 1)
		if err != nil {
			return nil, err
		}

		left = &Infix{Op: t.Text, Left: left, Right: right}
	}
}

func hasOp(ops []string, op string) bool {
	for _, o := range ops {
		if o == op {
			return true
		}
	}

	return false
}

func (p *parser) unary() (Node, error) {
	t := p.peek()
	if t.Kind == TokenOperator && (t.Text == "-" || t.Text == "!") {
		p.advance()

		operand, err := p.unary()
		if err != nil {
			return nil, err
		}

		return &Prefix{Op: t.Text, Operand: operand}, nil
	}

	return p.primary()
}

func (p *parser) primary() (Node, error) {
	t := p.peek()

	switch t.Kind {
	case TokenNumber, TokenString, TokenBoolean:
		p.advance()

		return &Literal{Value: t.Value}, nil

	case TokenReference:
		p.advance()

		return &Reference{Path: t.Text}, nil

	case TokenIdent:
		p.advance()

		if p.peek().Kind == TokenLParen {
			return p.call(t)
		}

		return &Reference{Path: t.Text}, nil

	case TokenLParen:
		p.advance()

		n, err := p.expression()
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(TokenRParen, "to close group"); err != nil {
			return nil, err
		}

		return n, nil

	case TokenLBracket:
		p.advance()

		elems, err := p.list(TokenRBracket, "array", p.expression)
		if err != nil {
			return nil, err
		}

		return &ArrayLit{Elements: elems}, nil

	case TokenEOF:
		return nil, SyntaxError(t.Pos, "unexpected end of formula, expected a value")

	default:
		return nil, SyntaxError(t.Pos, "unexpected "+t.String()+", expected a value")
	}
}

func (p *parser) call(name Token) (Node, error) {
	if strings.Contains(name.Text, ".") {
		return nil, SyntaxError(name.Pos, "invalid function name "+name.Text)
	}

	p.advance() // (

	args, err := p.list(TokenRParen, "call to "+name.Text, p.argument)
	if err != nil {
		return nil, err
	}

	return &Call{Name: name.Text, Args: args}, nil
}

// list parses comma-separated items up to and including the closing token.
// Leading and trailing commas are rejected.
func (p *parser) list(
	closer TokenKind,
	what string,
	item func() (Node, error),
) ([]Node, error) {
	items := []Node{}

	if p.peek().Kind == closer {
		p.advance()

		return items, nil
	}

	for {
		n, err := item()
		if err != nil {
			return nil, err
		}

		items = append(items, n)

		switch t := p.peek(); t.Kind {
		case closer:
			p.advance()

			return items, nil

		case TokenComma:
			p.advance()

			if c := p.peek(); c.Kind == closer {
				return nil, SyntaxError(c.Pos, "trailing ',' in "+what)
			}

		case TokenEOF:
			return nil, SyntaxError(t.Pos, "expected "+closer.String()+" to close "+what)

		default:
			return nil, SyntaxError(t.Pos,
				"expected ',' or "+closer.String()+" in "+what+", found "+t.String())
		}
	}
}

// argument parses a call argument, which may be a lambda.
func (p *parser) argument() (Node, error) {
	if params, ok := p.lambdaParams(); ok {
		body, err := p.expression()
		if err != nil {
			return nil, err
		}

		return &Lambda{Params: params, Body: body}, nil
	}

	return p.expression()
}

// lambdaParams consumes a lambda head "(a, b) ->" or "a ->" if one starts
// at the current token. Otherwise nothing is consumed.
func (p *parser) lambdaParams() ([]string, bool) {
	t := p.peek()

	if t.Kind == TokenIdent && p.peekAt(1).Kind == TokenArrow {
		if strings.Contains(t.Text, ".") {
			return nil, false
		}

		p.pos += 2

		return []string{t.Text}, true
	}

	if t.Kind != TokenLParen {
		return nil, false
	}

	var params []string

	i := 1
	if p.peekAt(i).Kind != TokenRParen {
		for {
			id := p.peekAt(i)
			if id.Kind != TokenIdent || strings.Contains(id.Text, ".") {
				return nil, false
			}

			params = append(params, id.Text)
			i++

			if p.peekAt(i).Kind != TokenComma {
				break
			}

			i++
		}
	}

	if p.peekAt(i).Kind != TokenRParen || p.peekAt(i+1).Kind != TokenArrow {
		return nil, false
	}

	p.pos += i + 2

	if params == nil {
		params = []string{}
	}

	return params, true
}
