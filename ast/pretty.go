package ast

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/soypat/go-pseudo/token"
)

// DefaultIndentWidth is the number of spaces per nesting level when
// PrettyConfig.IndentWidth is zero.
const DefaultIndentWidth = 4

// PrettyConfig controls the canonical source rendering of a tree.
// The zero value prints English keywords indented with four spaces.
type PrettyConfig struct {
	IndentWidth int
	UseTabs     bool
	// Japanese selects the primary Japanese keyword spellings.
	Japanese bool
}

// PrettyPrint generates canonical source code for node with the default configuration.
func PrettyPrint(node Node) string {
	return PrettyConfig{}.Sprint(node)
}

// Sprint returns the canonical source for node. Statements end in a newline,
// expressions do not.
func (cfg PrettyConfig) Sprint(node Node) string {
	var buf bytes.Buffer
	cfg.newPrinter(&buf).pp(node, 0)
	return buf.String()
}

// SprintStatements renders a statement list as a program.
func (cfg PrettyConfig) SprintStatements(stmts []Statement) string {
	return cfg.Sprint(&Program{Statements: stmts})
}

// SprintType returns the source spelling of a data type.
func (cfg PrettyConfig) SprintType(t DataType) string {
	var buf bytes.Buffer
	cfg.newPrinter(&buf).dataType(t)
	return buf.String()
}

// Fprint writes the canonical source for node to w.
func (cfg PrettyConfig) Fprint(w io.Writer, node Node) error {
	_, err := io.WriteString(w, cfg.Sprint(node))
	return err
}

func (cfg PrettyConfig) newPrinter(buf *bytes.Buffer) *prettyPrinter {
	p := &prettyPrinter{buf: buf, lang: token.English}
	if cfg.Japanese {
		p.lang = token.Japanese
	}
	switch {
	case cfg.UseTabs:
		p.unit = "\t"
	case cfg.IndentWidth > 0:
		p.unit = strings.Repeat(" ", cfg.IndentWidth)
	default:
		p.unit = strings.Repeat(" ", DefaultIndentWidth)
	}
	return p
}

type prettyPrinter struct {
	buf  *bytes.Buffer
	unit string
	lang token.Language
}

func (p *prettyPrinter) kw(tok token.Token) {
	p.buf.WriteString(tok.Spelling(p.lang))
}

// line writes the indentation for a new line.
func (p *prettyPrinter) line(indent int) {
	for i := 0; i < indent; i++ {
		p.buf.WriteString(p.unit)
	}
}

func (p *prettyPrinter) body(stmts []Statement, indent int) {
	for _, stmt := range stmts {
		p.pp(stmt, indent)
	}
}

// closing writes an end keyword on its own line.
func (p *prettyPrinter) closing(tok token.Token, indent int) {
	p.line(indent)
	p.kw(tok)
	p.buf.WriteByte('\n')
}

func (p *prettyPrinter) pp(node Node, indent int) {
	if node == nil {
		return
	}
	buf := p.buf

	switch n := node.(type) {
	case *Program:
		p.body(n.Statements, indent)

	case *IfStmt:
		p.line(indent)
		p.kw(token.IF)
		buf.WriteByte(' ')
		p.expr(n.Condition)
		buf.WriteByte(' ')
		p.kw(token.THEN)
		buf.WriteByte('\n')
		p.body(n.Then, indent+1)
		for _, clause := range n.ElseIfs {
			p.line(indent)
			p.kw(token.ELIF)
			buf.WriteByte(' ')
			p.expr(clause.Condition)
			buf.WriteByte(' ')
			p.kw(token.THEN)
			buf.WriteByte('\n')
			p.body(clause.Body, indent+1)
		}
		if n.Else != nil {
			p.line(indent)
			p.kw(token.ELSE)
			buf.WriteByte('\n')
			p.body(n.Else.Statements, indent+1)
		}
		p.closing(token.ENDIF, indent)

	case *WhileStmt:
		p.line(indent)
		p.kw(token.WHILE)
		buf.WriteByte(' ')
		p.expr(n.Condition)
		buf.WriteByte(' ')
		p.kw(token.DO)
		buf.WriteByte('\n')
		p.body(n.Body, indent+1)
		p.closing(token.ENDWHILE, indent)

	case *RangeFor:
		p.line(indent)
		p.kw(token.FOR)
		buf.WriteByte(' ')
		buf.WriteString(n.Variable)
		buf.WriteString(" ← ")
		p.expr(n.Start)
		buf.WriteByte(' ')
		p.kw(token.TO)
		buf.WriteByte(' ')
		p.expr(n.End)
		if n.Step != nil {
			buf.WriteByte(' ')
			p.kw(token.STEP)
			buf.WriteByte(' ')
			p.expr(n.Step)
		}
		buf.WriteByte(' ')
		p.kw(token.DO)
		buf.WriteByte('\n')
		p.body(n.Body, indent+1)
		p.closing(token.ENDFOR, indent)

	case *ForEach:
		p.line(indent)
		p.kw(token.FOR)
		buf.WriteByte(' ')
		buf.WriteString(n.Variable)
		buf.WriteByte(' ')
		p.kw(token.IN)
		buf.WriteByte(' ')
		p.expr(n.Iterable)
		buf.WriteByte(' ')
		p.kw(token.DO)
		buf.WriteByte('\n')
		p.body(n.Body, indent+1)
		p.closing(token.ENDFOR, indent)

	case *VariableAssignment:
		p.line(indent)
		buf.WriteString(n.Name)
		buf.WriteString(" ← ")
		p.expr(n.Value)
		buf.WriteByte('\n')

	case *ArrayElementAssignment:
		p.line(indent)
		p.postfixBase(n.Array)
		buf.WriteByte('[')
		p.expr(n.Index)
		buf.WriteString("] ← ")
		p.expr(n.Value)
		buf.WriteByte('\n')

	case *VariableDeclaration:
		p.line(indent)
		p.kw(token.VARIABLE)
		buf.WriteByte(' ')
		buf.WriteString(n.Name)
		buf.WriteString(": ")
		p.dataType(n.Type)
		if n.Init != nil {
			buf.WriteString(" ← ")
			p.expr(n.Init)
		}
		buf.WriteByte('\n')

	case *ConstantDeclaration:
		p.line(indent)
		p.kw(token.CONSTANT)
		buf.WriteByte(' ')
		buf.WriteString(n.Name)
		buf.WriteString(": ")
		p.dataType(n.Type)
		buf.WriteString(" ← ")
		p.expr(n.Value)
		buf.WriteByte('\n')

	case *FunctionDeclaration:
		p.line(indent)
		p.kw(token.FUNCTION)
		buf.WriteByte(' ')
		buf.WriteString(n.Name)
		p.params(n.Params)
		if n.ReturnType != nil {
			buf.WriteString(": ")
			p.dataType(n.ReturnType)
		}
		buf.WriteByte('\n')
		for _, local := range n.Locals {
			p.pp(local, indent+1)
		}
		p.body(n.Body, indent+1)
		p.closing(token.ENDFUNCTION, indent)

	case *ProcedureDeclaration:
		p.line(indent)
		p.kw(token.PROCEDURE)
		buf.WriteByte(' ')
		buf.WriteString(n.Name)
		p.params(n.Params)
		buf.WriteByte('\n')
		for _, local := range n.Locals {
			p.pp(local, indent+1)
		}
		p.body(n.Body, indent+1)
		p.closing(token.ENDPROCEDURE, indent)

	case *ReturnStmt:
		p.line(indent)
		p.kw(token.RETURN)
		if n.Value != nil {
			buf.WriteByte(' ')
			p.expr(n.Value)
		}
		buf.WriteByte('\n')

	case *BreakStmt:
		p.line(indent)
		p.kw(token.BREAK)
		buf.WriteByte('\n')

	case *ExpressionStmt:
		p.line(indent)
		p.expr(n.Expr)
		buf.WriteByte('\n')

	case *Block:
		p.line(indent)
		buf.WriteString("{\n")
		p.body(n.Statements, indent+1)
		p.line(indent)
		buf.WriteString("}\n")

	case Expression:
		p.expr(n)

	default:
		// For any unhandled nodes, just print their type
		fmt.Fprintf(buf, "[UNHANDLED: %T]\n", node)
	}
}

func (p *prettyPrinter) params(params []Parameter) {
	p.buf.WriteByte('(')
	for i, param := range params {
		if i > 0 {
			p.buf.WriteString(", ")
		}
		p.buf.WriteString(param.Name)
		p.buf.WriteString(": ")
		p.dataType(param.Type)
	}
	p.buf.WriteByte(')')
}

func (p *prettyPrinter) dataType(t DataType) {
	switch t := t.(type) {
	case BasicType:
		p.kw(t.Keyword())
	case *ArrayType:
		p.kw(token.ARRAY)
		p.buf.WriteByte(' ')
		p.kw(token.OF)
		p.buf.WriteByte(' ')
		if t.Elem == nil {
			p.kw(token.INTEGER)
		} else {
			p.dataType(t.Elem)
		}
	case *RecordType:
		p.kw(token.RECORD)
		p.buf.WriteByte(' ')
		p.buf.WriteString(t.Name)
	default:
		fmt.Fprintf(p.buf, "[UNHANDLED: %T]", t)
	}
}

func (p *prettyPrinter) expr(e Expression) {
	buf := p.buf
	switch n := e.(type) {
	case *Identifier:
		buf.WriteString(n.Name)
	case *IntegerLiteral:
		buf.WriteString(strconv.FormatInt(n.Value, 10))
	case *RealLiteral:
		buf.WriteString(FormatReal(n.Value))
	case *StringLiteral:
		buf.WriteString(QuoteString(n.Value))
	case *CharacterLiteral:
		buf.WriteString(QuoteCharacter(n.Value))
	case *BooleanLiteral:
		if n.Value {
			p.kw(token.TRUE)
		} else {
			p.kw(token.FALSE)
		}
	case *BinaryExpr:
		prec := n.Op.Precedence()
		p.operand(n.Left, prec, n.Op.IsRightAssociative())
		buf.WriteByte(' ')
		p.kw(n.Op)
		buf.WriteByte(' ')
		p.operand(n.Right, prec, !n.Op.IsRightAssociative())
	case *UnaryExpr:
		p.kw(n.Op)
		if n.Op == token.NOT {
			buf.WriteByte(' ')
		}
		if unaryNeedsParens(n.Op, n.Operand) {
			buf.WriteByte('(')
			p.expr(n.Operand)
			buf.WriteByte(')')
		} else {
			p.expr(n.Operand)
		}
	case *ArrayAccess:
		p.postfixBase(n.Array)
		buf.WriteByte('[')
		p.expr(n.Index)
		buf.WriteByte(']')
	case *FieldAccess:
		p.postfixBase(n.Object)
		buf.WriteByte('.')
		buf.WriteString(n.Field)
	case *FunctionCall:
		buf.WriteString(n.Name)
		buf.WriteByte('(')
		for i, arg := range n.Args {
			if i > 0 {
				buf.WriteString(", ")
			}
			p.expr(arg)
		}
		buf.WriteByte(')')
	case nil:
	default:
		fmt.Fprintf(buf, "[UNHANDLED: %T]", e)
	}
}

// operand prints a binary operand. A binary child is parenthesized when it binds
// looser than its parent, or equally tight on the side associativity does not group.
func (p *prettyPrinter) operand(child Expression, parentPrec int, ungroupedSide bool) {
	b, ok := child.(*BinaryExpr)
	needParens := ok && (b.Op.Precedence() < parentPrec || (b.Op.Precedence() == parentPrec && ungroupedSide))
	if needParens {
		p.buf.WriteByte('(')
		p.expr(child)
		p.buf.WriteByte(')')
		return
	}
	p.expr(child)
}

// postfixBase prints the operand of [index], .field access.
func (p *prettyPrinter) postfixBase(base Expression) {
	switch base.(type) {
	case *Identifier, *ArrayAccess, *FieldAccess, *FunctionCall:
		p.expr(base)
	default:
		p.buf.WriteByte('(')
		p.expr(base)
		p.buf.WriteByte(')')
	}
}

// unaryNeedsParens reports whether the operand of a prefix operator must be
// wrapped. A minus directly before a digit would lex as a signed literal.
func unaryNeedsParens(op token.Token, operand Expression) bool {
	switch operand.(type) {
	case *BinaryExpr:
		return true
	case *IntegerLiteral, *RealLiteral:
		return op == token.Minus
	}
	return false
}

// FormatReal formats v so that it always lexes as a real literal.
func FormatReal(v float64) string {
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEIN") { // Inf and NaN have no literal form.
		s += ".0"
	}
	return s
}

// QuoteString returns s as a double-quoted string literal.
func QuoteString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		writeEscaped(&b, r, '"')
	}
	b.WriteByte('"')
	return b.String()
}

// QuoteCharacter returns r as a single-quoted character literal.
func QuoteCharacter(r rune) string {
	var b strings.Builder
	b.WriteByte('\'')
	writeEscaped(&b, r, '\'')
	b.WriteByte('\'')
	return b.String()
}

func writeEscaped(b *strings.Builder, r, quote rune) {
	switch r {
	case quote, '\\':
		b.WriteByte('\\')
		b.WriteRune(r)
	case '\n':
		b.WriteString(`\n`)
	case '\t':
		b.WriteString(`\t`)
	case '\r':
		b.WriteString(`\r`)
	case 0:
		b.WriteString(`\0`)
	default:
		if unicode.IsControl(r) {
			b.WriteString(`\u{`)
			b.WriteString(strconv.FormatInt(int64(r), 16))
			b.WriteByte('}')
			return
		}
		b.WriteRune(r)
	}
}
