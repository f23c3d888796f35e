package pseudo

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-stack/stack"

	"github.com/soypat/go-pseudo/ast"
	"github.com/soypat/go-pseudo/token"
)

// Parser limits.
const (
	// MaxTokens is the largest token stream ParseStatements accepts.
	MaxTokens = 100_000
	// MaxNestingDepth is the deepest nesting of block constructs.
	MaxNestingDepth = 100
	// MaxIdentifierLength is the longest identifier in runes.
	MaxIdentifierLength = 255
)

// Parser turns a token stream into statements. A Parser holds state for a single
// call and may be reused once the call returns. The zero value is ready to use.
type Parser struct {
	toks      []TokenTuple
	pos       int
	depth     int
	typeDepth int // nesting of array element types, bounded apart from blocks.
	// Trace attaches the parser call stack to returned errors.
	Trace bool
}

// Parse tokenizes and parses src.
func Parse(src string) ([]ast.Statement, error) {
	toks, err := Tokenize(src)
	if err != nil {
		return nil, err
	}
	return ParseStatements(toks)
}

// ParseProgram is like [Parse] but returns the statements as a program node.
func ParseProgram(src string) (*ast.Program, error) {
	stmts, err := Parse(src)
	if err != nil {
		return nil, err
	}
	return &ast.Program{Statements: stmts}, nil
}

// ParseStatements parses a token stream such as the one returned by [Tokenize].
// The first error terminates parsing.
func ParseStatements(toks []TokenTuple) ([]ast.Statement, error) {
	var p Parser
	return p.ParseStatements(toks)
}

// ParseStatements parses toks into top level statements. Whitespace and comment
// tokens are ignored and a missing trailing EOF is supplied.
func (p *Parser) ParseStatements(toks []TokenTuple) ([]ast.Statement, error) {
	if err := p.Reset(toks); err != nil {
		return nil, err
	}
	var stmts []ast.Statement
	for {
		p.skipSeparators()
		if p.currentTokenIs(token.EOF) {
			return stmts, nil
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
}

// Reset prepares the parser for toks and checks the input limits.
func (p *Parser) Reset(toks []TokenTuple) error {
	*p = Parser{
		toks:  p.toks[:0],
		Trace: p.Trace,
	}
	if len(toks) > MaxTokens {
		return p.fail(&StmtError{
			Kind:   InputTooLarge,
			Limit:  MaxTokens,
			Detail: strconv.Itoa(len(toks)),
			Pos:    toks[MaxTokens].Pos,
		})
	}
	for _, tt := range toks {
		if tt.Tok.IsTrivia() {
			continue
		}
		if tt.Tok == token.Identifier && utf8.RuneCountInString(tt.Lit) > MaxIdentifierLength {
			return p.fail(&StmtError{Kind: IdentifierTooLong, Found: tt, Limit: MaxIdentifierLength, Pos: tt.Pos})
		}
		p.toks = append(p.toks, tt)
		if tt.Tok == token.EOF {
			break
		}
	}
	if n := len(p.toks); n == 0 || p.toks[n-1].Tok != token.EOF {
		eof := TokenTuple{Tok: token.EOF, Pos: token.Position{Line: 1, Col: 1}}
		if n > 0 {
			eof.Pos = p.toks[n-1].Pos
		}
		p.toks = append(p.toks, eof)
	}
	return nil
}

//
// Helper methods
//

func (p *Parser) current() TokenTuple { return p.toks[p.pos] }

// peek returns the token n places after the current one, or the final EOF.
func (p *Parser) peek(n int) TokenTuple {
	if p.pos+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+n]
}

func (p *Parser) currentTokenIs(t token.Token) bool {
	return p.toks[p.pos].Tok == t
}

func (p *Parser) peekTokenIs(t token.Token) bool {
	return p.peek(1).Tok == t
}

func (p *Parser) nextToken() {
	if p.toks[p.pos].Tok != token.EOF {
		p.pos++
	}
}

// consumeIf consumes the current token if it matches t, otherwise does nothing.
func (p *Parser) consumeIf(t token.Token) bool {
	if p.currentTokenIs(t) {
		p.nextToken()
		return true
	}
	return false
}

// expect consumes the current token if it is t and fails otherwise.
func (p *Parser) expect(t token.Token) error {
	if !p.currentTokenIs(t) {
		cur := p.current()
		return p.fail(&StmtError{Kind: ExpectedToken, Found: cur, Expected: tokenNames([]token.Token{t}), Pos: cur.Pos})
	}
	p.nextToken()
	return nil
}

func (p *Parser) expectIdentifier() (TokenTuple, error) {
	cur := p.current()
	if cur.Tok != token.Identifier {
		return cur, p.fail(&StmtError{Kind: ExpectedIdentifier, Found: cur, Pos: cur.Pos})
	}
	p.nextToken()
	return cur, nil
}

func (p *Parser) skipSeparators() {
	for p.current().Tok.IsSeparator() {
		p.nextToken()
	}
}

// enterBlock counts one more level of nesting at the construct introduced by at.
// Each successful call must be paired with leaveBlock.
func (p *Parser) enterBlock(at TokenTuple) error {
	p.depth++
	if p.depth > MaxNestingDepth {
		return p.fail(&StmtError{Kind: NestingTooDeep, Found: at, Limit: MaxNestingDepth, Pos: at.Pos})
	}
	return nil
}

func (p *Parser) leaveBlock() { p.depth-- }

// fail finishes err, attaching the call stack when tracing.
func (p *Parser) fail(err *StmtError) error {
	if p.Trace {
		err.Stack = callStack(2)
	}
	return err
}

// callStack renders the call chain starting skip frames above its caller, innermost first.
func callStack(skip int) string {
	var b strings.Builder
	for _, c := range stack.Trace().TrimBelow(stack.Caller(skip)).TrimRuntime() {
		fmt.Fprintf(&b, "%n (%v)\n", c, c)
	}
	return b.String()
}

// wrapExprError converts an expression parser failure into a statement error that keeps its kind.
func (p *Parser) wrapExprError(err error) error {
	se := &StmtError{Err: err}
	var ee *ExprError
	var le *LexError
	switch {
	case errors.As(err, &ee):
		se.Kind, se.Found, se.Pos = ee.Kind, ee.Found, ee.Pos
	case errors.As(err, &le):
		se.Kind, se.Pos = le.Kind, le.Pos
	}
	return p.fail(se)
}

//
// Expression boundaries.
//

// expressionEnd returns the index of the token that ends the expression
// beginning at start. Keywords that introduce or close constructs, braces and
// an identifier followed by ← end an expression at any depth. Commas, unmatched
// closers and separators end it outside brackets. A separator after a binary
// operator or not continues the expression on the next line.
func (p *Parser) expressionEnd(start int) int {
	depth := 0
	last := token.Undefined
	for i := start; ; i++ {
		tok := p.toks[i].Tok
		switch {
		case tok == token.EOF:
			return i
		case tok.IsStatementKeyword(), tok.IsClauseKeyword(), tok.IsEnd(),
			tok == token.LBrace, tok == token.RBrace:
			return i
		case (tok == token.Identifier || tok == token.ARRAY) && i > start && p.toks[i+1].Tok == token.Assign:
			return i
		}
		if depth == 0 {
			switch {
			case tok == token.Comma, tok == token.RParen, tok == token.RBracket:
				return i
			case tok.IsSeparator() && !last.IsBinaryOperator() && last != token.NOT:
				return i
			}
		}
		switch tok {
		case token.LParen, token.LBracket:
			depth++
		case token.RParen, token.RBracket:
			depth--
		}
		if !tok.IsSeparator() {
			last = tok
		}
	}
}

// parseExpression parses the expression starting at the current token up to its boundary.
func (p *Parser) parseExpression() (ast.Expression, error) {
	start := p.pos
	end := p.expressionEnd(start)
	expr, err := p.parseExpressionRange(start, end)
	if err != nil {
		return nil, err
	}
	p.pos = end
	return expr, nil
}

// parseExpressionRange parses toks[start:end] as one expression. toks[end] is the boundary.
func (p *Parser) parseExpressionRange(start, end int) (ast.Expression, error) {
	boundary := p.toks[end]
	if start == end {
		err := &ExprError{Kind: ExpectedPrimaryExpression, Found: boundary, Pos: boundary.Pos}
		if boundary.Tok == token.EOF {
			err.Kind, err.Expected = UnexpectedEndOfInput, "expression"
		}
		return nil, p.wrapExprError(err)
	}
	sub := make([]TokenTuple, end-start+1)
	copy(sub, p.toks[start:end])
	sub[len(sub)-1] = TokenTuple{Tok: token.EOF, Pos: boundary.Pos}
	expr, err := ParseExpression(sub)
	if err != nil {
		var ee *ExprError
		if errors.As(err, &ee) && ee.Found.Tok == token.EOF && boundary.Tok != token.EOF {
			// Report the token that cut the expression short, not the synthetic EOF.
			cut := *ee
			cut.Found = boundary
			if cut.Kind == UnexpectedEndOfInput {
				cut.Kind = UnexpectedToken
			}
			err = &cut
		}
		return nil, p.wrapExprError(err)
	}
	return expr, nil
}

// closingBracket returns the index of the ] matching the [ at open, or -1.
func (p *Parser) closingBracket(open int) int {
	depth := 0
	for i := open; i < len(p.toks); i++ {
		tok := p.toks[i].Tok
		switch {
		case tok == token.LBracket, tok == token.LParen:
			depth++
		case tok == token.RBracket, tok == token.RParen:
			depth--
			if depth == 0 {
				if tok != token.RBracket {
					return -1
				}
				return i
			}
		case tok == token.EOF, tok.IsStatementKeyword(), tok.IsClauseKeyword(), tok.IsEnd():
			return -1
		}
	}
	return -1
}

//
// Statements.
//

func (p *Parser) parseStatement() (ast.Statement, error) {
	cur := p.current()
	switch cur.Tok {
	case token.IF:
		return p.parseIfStmt()
	case token.WHILE:
		return p.parseWhileStmt()
	case token.FOR:
		return p.parseForStmt()
	case token.VARIABLE:
		return p.parseVariableDecl()
	case token.CONSTANT:
		return p.parseConstantDecl()
	case token.FUNCTION:
		return p.parseFunctionDecl()
	case token.PROCEDURE:
		return p.parseProcedureDecl()
	case token.RETURN:
		return p.parseReturnStmt()
	case token.BREAK:
		p.nextToken()
		return &ast.BreakStmt{Position: cur.Pos}, nil
	case token.LBrace:
		return p.parseBlock()
	case token.Identifier, token.ARRAY:
		// The array keyword doubles as a variable name when assigned to or indexed.
		if p.peekTokenIs(token.Assign) {
			return p.parseVariableAssignment()
		}
		if p.peekTokenIs(token.LBracket) {
			closing := p.closingBracket(p.pos + 1)
			if closing > 0 && p.toks[closing+1].Tok == token.Assign {
				return p.parseArrayElementAssignment(closing)
			}
		}
	}
	if cur.Tok.IsEndOrElse() || cur.Tok.IsClauseKeyword() || cur.Tok == token.RBrace {
		return nil, p.fail(&StmtError{Kind: UnexpectedToken, Found: cur, Expected: []string{"statement"}, Pos: cur.Pos})
	}
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return &ast.ExpressionStmt{Expr: expr, Position: cur.Pos}, nil
}

// parseBody parses statements until the current token is one of terms, which
// is left unconsumed. Any other closing keyword or the end of input fails.
func (p *Parser) parseBody(terms ...token.Token) ([]ast.Statement, error) {
	var stmts []ast.Statement
	for {
		p.skipSeparators()
		cur := p.current()
		if slices.Contains(terms, cur.Tok) {
			return stmts, nil
		}
		if cur.Tok == token.EOF || cur.Tok.IsEndOrElse() || cur.Tok == token.RBrace {
			return nil, p.fail(&StmtError{Kind: ExpectedTokens, Found: cur, Expected: tokenNames(terms), Pos: cur.Pos})
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
}

func (p *Parser) parseIfStmt() (ast.Statement, error) {
	start := p.current()
	if err := p.enterBlock(start); err != nil {
		return nil, err
	}
	defer p.leaveBlock()
	p.nextToken() // consume if

	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.expect(token.THEN); err != nil {
		return nil, err
	}
	then, err := p.parseBody(token.ELIF, token.ELSE, token.ENDIF)
	if err != nil {
		return nil, err
	}
	stmt := &ast.IfStmt{Condition: cond, Then: then, Position: start.Pos}

	for p.currentTokenIs(token.ELIF) {
		clause := ast.ElseIfClause{Position: p.current().Pos}
		p.nextToken()
		clause.Condition, err = p.parseExpression()
		if err != nil {
			return nil, err
		}
		if err := p.expect(token.THEN); err != nil {
			return nil, err
		}
		clause.Body, err = p.parseBody(token.ELIF, token.ELSE, token.ENDIF)
		if err != nil {
			return nil, err
		}
		stmt.ElseIfs = append(stmt.ElseIfs, clause)
	}

	if p.currentTokenIs(token.ELSE) {
		stmt.Else = &ast.Block{Position: p.current().Pos}
		p.nextToken()
		stmt.Else.Statements, err = p.parseBody(token.ENDIF)
		if err != nil {
			return nil, err
		}
	}
	if err := p.expect(token.ENDIF); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (p *Parser) parseWhileStmt() (ast.Statement, error) {
	start := p.current()
	if err := p.enterBlock(start); err != nil {
		return nil, err
	}
	defer p.leaveBlock()
	p.nextToken() // consume while

	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.expect(token.DO); err != nil {
		return nil, err
	}
	body, err := p.parseBody(token.ENDWHILE)
	if err != nil {
		return nil, err
	}
	if err := p.expect(token.ENDWHILE); err != nil {
		return nil, err
	}
	return &ast.WhileStmt{Condition: cond, Body: body, Position: start.Pos}, nil
}

// parseForStmt parses both the counting and the for-each loop.
func (p *Parser) parseForStmt() (ast.Statement, error) {
	start := p.current()
	if err := p.enterBlock(start); err != nil {
		return nil, err
	}
	defer p.leaveBlock()
	p.nextToken() // consume for

	variable, err := p.expectIdentifier()
	if err != nil {
		return nil, err
	}

	var loop ast.ForStatement
	var body *[]ast.Statement
	switch cur := p.current(); cur.Tok {
	case token.Assign:
		p.nextToken()
		rf := &ast.RangeFor{Variable: variable.Lit, Position: start.Pos}
		if rf.Start, err = p.parseExpression(); err != nil {
			return nil, err
		}
		if err := p.expect(token.TO); err != nil {
			return nil, err
		}
		if rf.End, err = p.parseExpression(); err != nil {
			return nil, err
		}
		if p.consumeIf(token.STEP) {
			if rf.Step, err = p.parseExpression(); err != nil {
				return nil, err
			}
		}
		loop, body = rf, &rf.Body

	case token.IN:
		p.nextToken()
		fe := &ast.ForEach{Variable: variable.Lit, Position: start.Pos}
		if fe.Iterable, err = p.parseExpression(); err != nil {
			return nil, err
		}
		loop, body = fe, &fe.Body

	default:
		return nil, p.fail(&StmtError{Kind: ExpectedTokens, Found: cur, Expected: tokenNames([]token.Token{token.Assign, token.IN}), Pos: cur.Pos})
	}

	if err := p.expect(token.DO); err != nil {
		return nil, err
	}
	if *body, err = p.parseBody(token.ENDFOR); err != nil {
		return nil, err
	}
	if err := p.expect(token.ENDFOR); err != nil {
		return nil, err
	}
	return loop, nil
}

func (p *Parser) parseVariableAssignment() (ast.Statement, error) {
	name := p.current()
	p.nextToken() // identifier
	p.nextToken() // ←
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return &ast.VariableAssignment{Name: name.Lit, Value: value, Position: name.Pos}, nil
}

// parseArrayElementAssignment parses name[index] ← value where closing is the index of ].
func (p *Parser) parseArrayElementAssignment(closing int) (ast.Statement, error) {
	name := p.current()
	index, err := p.parseExpressionRange(p.pos+2, closing)
	if err != nil {
		return nil, err
	}
	p.pos = closing + 2 // past ] and ←
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return &ast.ArrayElementAssignment{
		Array:    &ast.Identifier{Name: name.Lit, Position: name.Pos},
		Index:    index,
		Value:    value,
		Position: name.Pos,
	}, nil
}

func (p *Parser) parseVariableDecl() (*ast.VariableDeclaration, error) {
	start := p.current()
	p.nextToken() // consume variable
	name, err := p.expectIdentifier()
	if err != nil {
		return nil, err
	}
	if err := p.expect(token.Colon); err != nil {
		return nil, err
	}
	typ, err := p.parseDataType()
	if err != nil {
		return nil, err
	}
	decl := &ast.VariableDeclaration{Name: name.Lit, Type: typ, Position: start.Pos}
	if p.consumeIf(token.Assign) {
		if decl.Init, err = p.parseExpression(); err != nil {
			return nil, err
		}
	}
	return decl, nil
}

func (p *Parser) parseConstantDecl() (ast.Statement, error) {
	start := p.current()
	p.nextToken() // consume constant
	name, err := p.expectIdentifier()
	if err != nil {
		return nil, err
	}
	if err := p.expect(token.Colon); err != nil {
		return nil, err
	}
	typ, err := p.parseDataType()
	if err != nil {
		return nil, err
	}
	if err := p.expect(token.Assign); err != nil {
		return nil, err
	}
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return &ast.ConstantDeclaration{Name: name.Lit, Type: typ, Value: value, Position: start.Pos}, nil
}

// parseDataType parses a type. An identifier that is not a type keyword names a record.
func (p *Parser) parseDataType() (ast.DataType, error) {
	cur := p.current()
	if basic := ast.BasicTypeOf(cur.Tok); basic != 0 {
		p.nextToken()
		return basic, nil
	}
	switch cur.Tok {
	case token.ARRAY:
		p.typeDepth++
		defer func() { p.typeDepth-- }()
		if p.typeDepth > MaxNestingDepth {
			return nil, p.fail(&StmtError{Kind: NestingTooDeep, Found: cur, Limit: MaxNestingDepth, Pos: cur.Pos})
		}
		p.nextToken()
		p.consumeIf(token.OF)
		next := p.current().Tok
		if !next.IsTypeKeyword() && next != token.Identifier {
			return &ast.ArrayType{Elem: ast.TypeInteger}, nil // array without element type.
		}
		elem, err := p.parseDataType()
		if err != nil {
			return nil, err
		}
		return &ast.ArrayType{Elem: elem}, nil

	case token.RECORD:
		p.nextToken()
		name, err := p.expectIdentifier()
		if err != nil {
			return nil, err
		}
		return &ast.RecordType{Name: name.Lit}, nil

	case token.Identifier:
		p.nextToken()
		return &ast.RecordType{Name: cur.Lit}, nil
	}
	return nil, p.fail(&StmtError{Kind: ExpectedDataType, Found: cur, Pos: cur.Pos})
}

// parseParameterList parses ( [name : T {, name : T}] ).
func (p *Parser) parseParameterList() ([]ast.Parameter, error) {
	if err := p.expect(token.LParen); err != nil {
		return nil, err
	}
	if p.consumeIf(token.RParen) {
		return nil, nil
	}
	var params []ast.Parameter
	for {
		name, err := p.expectIdentifier()
		if err != nil {
			return nil, err
		}
		if err := p.expect(token.Colon); err != nil {
			return nil, err
		}
		typ, err := p.parseDataType()
		if err != nil {
			return nil, err
		}
		params = append(params, ast.Parameter{Name: name.Lit, Type: typ})
		if p.consumeIf(token.RParen) {
			return params, nil
		}
		if !p.consumeIf(token.Comma) {
			cur := p.current()
			return nil, p.fail(&StmtError{Kind: ExpectedTokens, Found: cur, Expected: tokenNames([]token.Token{token.Comma, token.RParen}), Pos: cur.Pos})
		}
	}
}

// parseLocals parses the variable declarations leading a function or procedure body.
func (p *Parser) parseLocals() ([]*ast.VariableDeclaration, error) {
	var locals []*ast.VariableDeclaration
	for {
		p.skipSeparators()
		if !p.currentTokenIs(token.VARIABLE) {
			return locals, nil
		}
		decl, err := p.parseVariableDecl()
		if err != nil {
			return nil, err
		}
		locals = append(locals, decl)
	}
}

func (p *Parser) parseFunctionDecl() (ast.Statement, error) {
	start := p.current()
	if err := p.enterBlock(start); err != nil {
		return nil, err
	}
	defer p.leaveBlock()
	p.nextToken() // consume function

	name, err := p.expectIdentifier()
	if err != nil {
		return nil, err
	}
	fn := &ast.FunctionDeclaration{Name: name.Lit, Position: start.Pos}
	if fn.Params, err = p.parseParameterList(); err != nil {
		return nil, err
	}
	if p.consumeIf(token.Colon) {
		if fn.ReturnType, err = p.parseDataType(); err != nil {
			return nil, err
		}
	}
	if fn.Locals, err = p.parseLocals(); err != nil {
		return nil, err
	}
	if fn.Body, err = p.parseBody(token.ENDFUNCTION); err != nil {
		return nil, err
	}
	if err := p.expect(token.ENDFUNCTION); err != nil {
		return nil, err
	}
	return fn, nil
}

func (p *Parser) parseProcedureDecl() (ast.Statement, error) {
	start := p.current()
	if err := p.enterBlock(start); err != nil {
		return nil, err
	}
	defer p.leaveBlock()
	p.nextToken() // consume procedure

	name, err := p.expectIdentifier()
	if err != nil {
		return nil, err
	}
	proc := &ast.ProcedureDeclaration{Name: name.Lit, Position: start.Pos}
	if proc.Params, err = p.parseParameterList(); err != nil {
		return nil, err
	}
	if proc.Locals, err = p.parseLocals(); err != nil {
		return nil, err
	}
	if proc.Body, err = p.parseBody(token.ENDPROCEDURE); err != nil {
		return nil, err
	}
	if err := p.expect(token.ENDPROCEDURE); err != nil {
		return nil, err
	}
	return proc, nil
}

func (p *Parser) parseReturnStmt() (ast.Statement, error) {
	start := p.current()
	p.nextToken() // consume return
	stmt := &ast.ReturnStmt{Position: start.Pos}
	if p.expressionEnd(p.pos) == p.pos {
		return stmt, nil // bare return.
	}
	var err error
	if stmt.Value, err = p.parseExpression(); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (p *Parser) parseBlock() (ast.Statement, error) {
	start := p.current()
	if err := p.enterBlock(start); err != nil {
		return nil, err
	}
	defer p.leaveBlock()
	p.nextToken() // consume {

	body, err := p.parseBody(token.RBrace)
	if err != nil {
		return nil, err
	}
	if err := p.expect(token.RBrace); err != nil {
		return nil, err
	}
	return &ast.Block{Statements: body, Position: start.Pos}, nil
}
