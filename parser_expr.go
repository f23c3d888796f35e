package pseudo

import (
	"unicode/utf8"

	"github.com/soypat/go-pseudo/ast"
	"github.com/soypat/go-pseudo/token"
)

// MaxExpressionDepth is the deepest nesting of sub-expressions the expression
// parser accepts before failing with [ExpressionTooComplex].
const MaxExpressionDepth = 100

// ParseExpression parses toks as exactly one expression. The slice should end in
// [token.EOF]; a missing EOF is assumed after the last token. NewLine tokens are
// ignored. Every token before EOF must belong to the expression.
func ParseExpression(toks []TokenTuple) (ast.Expression, error) {
	var p exprParser
	p.reset(toks)
	return p.parseFull()
}

// exprParser is a precedence climbing parser over a token slice.
type exprParser struct {
	toks  []TokenTuple
	pos   int
	depth int
	// eof is returned past the end of toks.
	eof TokenTuple
}

func (p *exprParser) reset(toks []TokenTuple) {
	*p = exprParser{toks: toks}
	p.eof.Tok = token.EOF
	if n := len(toks); n > 0 {
		p.eof.Pos = toks[n-1].Pos
	}
	p.skipNewlines()
}

func (p *exprParser) current() TokenTuple {
	if p.pos >= len(p.toks) {
		return p.eof
	}
	return p.toks[p.pos]
}

func (p *exprParser) currentTokenIs(t token.Token) bool {
	return p.current().Tok == t
}

func (p *exprParser) nextToken() {
	if p.pos < len(p.toks) {
		p.pos++
	}
	p.skipNewlines()
}

func (p *exprParser) skipNewlines() {
	for p.pos < len(p.toks) && p.toks[p.pos].Tok == token.NewLine {
		p.pos++
	}
}

// expect consumes the current token if it is t and fails otherwise.
func (p *exprParser) expect(t token.Token) error {
	if !p.currentTokenIs(t) {
		return p.unexpected(`"` + t.String() + `"`)
	}
	p.nextToken()
	return nil
}

// unexpected reports the current token as not being what the parser expected.
func (p *exprParser) unexpected(expected string) error {
	cur := p.current()
	kind := UnexpectedToken
	if cur.Tok == token.EOF {
		kind = UnexpectedEndOfInput
	}
	return &ExprError{Kind: kind, Found: cur, Expected: expected, Pos: cur.Pos}
}

// enter guards recursion depth. Each successful call must be paired with leave.
func (p *exprParser) enter() error {
	p.depth++
	if p.depth > MaxExpressionDepth {
		cur := p.current()
		return &ExprError{Kind: ExpressionTooComplex, Found: cur, Pos: cur.Pos}
	}
	return nil
}

func (p *exprParser) leave() { p.depth-- }

func (p *exprParser) parseFull() (ast.Expression, error) {
	if p.currentTokenIs(token.EOF) {
		return nil, p.unexpected("expression")
	}
	expr, err := p.parseExpression(token.PrecOr)
	if err != nil {
		return nil, err
	}
	if !p.currentTokenIs(token.EOF) {
		return nil, p.unexpected("end of expression")
	}
	return expr, nil
}

// parseExpression parses binary operations whose precedence is at least minPrec.
func (p *exprParser) parseExpression(minPrec int) (ast.Expression, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		op := p.current().Tok
		prec := op.Precedence()
		if prec == token.PrecLowest || prec < minPrec {
			return left, nil
		}
		p.nextToken() // consume operator

		// Determine the minimum precedence for the right side
		nextMinPrec := prec
		if !op.IsRightAssociative() {
			nextMinPrec = prec + 1
		}
		right, err := p.parseExpression(nextMinPrec)
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{
			Op:       op,
			Left:     left,
			Right:    right,
			Position: left.Pos(),
		}
	}
}

func (p *exprParser) parseUnary() (ast.Expression, error) {
	cur := p.current()
	if !cur.Tok.IsUnaryOperator() {
		return p.parsePrimary()
	}
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()
	p.nextToken()
	operand, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return &ast.UnaryExpr{Op: cur.Tok, Operand: operand, Position: cur.Pos}, nil
}

func (p *exprParser) parsePrimary() (ast.Expression, error) {
	cur := p.current()
	switch cur.Tok {
	case token.IntLit:
		p.nextToken()
		v, err := ParseIntLiteral(cur.Lit)
		if err != nil {
			return nil, &LexError{Kind: InvalidNumberFormat, Text: cur.Lit, Detail: "value out of range", Pos: cur.Pos}
		}
		return &ast.IntegerLiteral{Value: v, Position: cur.Pos}, nil

	case token.RealLit:
		p.nextToken()
		v, err := ParseRealLiteral(cur.Lit)
		if err != nil {
			return nil, &LexError{Kind: InvalidNumberFormat, Text: cur.Lit, Detail: "value out of range", Pos: cur.Pos}
		}
		return &ast.RealLiteral{Value: v, Position: cur.Pos}, nil

	case token.StringLit:
		p.nextToken()
		return &ast.StringLiteral{Value: cur.Lit, Position: cur.Pos}, nil

	case token.CharLit:
		p.nextToken()
		r, _ := utf8.DecodeRuneInString(cur.Lit)
		return &ast.CharacterLiteral{Value: r, Position: cur.Pos}, nil

	case token.TRUE, token.FALSE:
		p.nextToken()
		return &ast.BooleanLiteral{Value: cur.Tok == token.TRUE, Position: cur.Pos}, nil

	case token.ARRAY:
		// array names a variable when indexed.
		if p.pos+1 >= len(p.toks) || p.toks[p.pos+1].Tok != token.LBracket {
			return nil, &ExprError{Kind: ExpectedPrimaryExpression, Found: cur, Pos: cur.Pos}
		}
		p.nextToken()
		return p.parsePostfix(&ast.Identifier{Name: cur.Lit, Position: cur.Pos})

	case token.Identifier:
		p.nextToken()
		if p.currentTokenIs(token.LParen) {
			call, err := p.parseCallArgs(cur)
			if err != nil {
				return nil, err
			}
			return p.parsePostfix(call)
		}
		return p.parsePostfix(&ast.Identifier{Name: cur.Lit, Position: cur.Pos})

	case token.LParen:
		p.nextToken()
		inner, err := p.parseExpression(token.PrecOr)
		if err != nil {
			return nil, err
		}
		if err := p.expect(token.RParen); err != nil {
			return nil, err
		}
		return p.parsePostfix(inner)

	case token.EOF:
		return nil, p.unexpected("expression")
	}
	return nil, &ExprError{Kind: ExpectedPrimaryExpression, Found: cur, Pos: cur.Pos}
}

// parseCallArgs parses the parenthesized argument list following the callee name.
func (p *exprParser) parseCallArgs(name TokenTuple) (*ast.FunctionCall, error) {
	call := &ast.FunctionCall{Name: name.Lit, Position: name.Pos}
	p.nextToken() // consume (
	if p.currentTokenIs(token.RParen) {
		p.nextToken()
		return call, nil
	}
	for {
		arg, err := p.parseExpression(token.PrecOr)
		if err != nil {
			return nil, err
		}
		call.Args = append(call.Args, arg)
		switch p.current().Tok {
		case token.Comma:
			p.nextToken()
		case token.RParen:
			p.nextToken()
			return call, nil
		default:
			return nil, p.unexpected(`"," or ")"`)
		}
	}
}

// parsePostfix applies any chain of [index] and .field to base, left to right.
func (p *exprParser) parsePostfix(base ast.Expression) (ast.Expression, error) {
	for {
		switch p.current().Tok {
		case token.LBracket:
			p.nextToken()
			index, err := p.parseExpression(token.PrecOr)
			if err != nil {
				return nil, err
			}
			if err := p.expect(token.RBracket); err != nil {
				return nil, err
			}
			base = &ast.ArrayAccess{Array: base, Index: index, Position: base.Pos()}

		case token.Dot:
			p.nextToken()
			field := p.current()
			if field.Tok != token.Identifier {
				if field.Tok == token.EOF {
					return nil, p.unexpected("field name")
				}
				return nil, &ExprError{Kind: ExpectedIdentifier, Found: field, Pos: field.Pos}
			}
			p.nextToken()
			base = &ast.FieldAccess{Object: base, Field: field.Lit, Position: base.Pos()}

		default:
			return base, nil
		}
	}
}
