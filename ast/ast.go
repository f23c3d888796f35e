package ast

import (
	"github.com/soypat/go-pseudo/token"
)

// Node is implemented by every tree node. Trees are built once by the parser and
// never mutated; nodes hold no reference to their parent.
type Node interface {
	// Pos returns the position of the first token belonging to the node.
	Pos() token.Position
}

type Expression interface {
	Node
	expressionNode()
}

type Statement interface {
	Node
	statementNode()
}

// Literal is implemented by the constant expressions.
type Literal interface {
	Expression
	literalNode()
}

// Program is the root node of a parsed source file.
type Program struct {
	Statements []Statement
}

func (p *Program) Pos() token.Position {
	if len(p.Statements) == 0 {
		return token.Position{}
	}
	return p.Statements[0].Pos()
}

//
// Expressions.
//

// Identifier is a reference to a named variable, constant or callable.
type Identifier struct {
	Name     string
	Position token.Position
}

// IntegerLiteral is a constant such as 42, -5 or 0xFF.
type IntegerLiteral struct {
	Value    int64
	Position token.Position
}

// RealLiteral is a constant such as 3.14 or 1e-3.
type RealLiteral struct {
	Value    float64
	Position token.Position
}

// StringLiteral holds the decoded string value.
type StringLiteral struct {
	Value    string
	Position token.Position
}

// CharacterLiteral is a single quoted character such as 'a'.
type CharacterLiteral struct {
	Value    rune
	Position token.Position
}

type BooleanLiteral struct {
	Value    bool
	Position token.Position
}

// BinaryExpr is a binary operation such as a + b or x and y.
type BinaryExpr struct {
	Op       token.Token
	Left     Expression
	Right    Expression
	Position token.Position
}

// UnaryExpr is a prefix operation: -x or not x.
type UnaryExpr struct {
	Op       token.Token
	Operand  Expression
	Position token.Position
}

// ArrayAccess is an element read such as a[i]. Chains nest left to right.
type ArrayAccess struct {
	Array    Expression
	Index    Expression
	Position token.Position
}

// FieldAccess is a record field read such as p.x.
type FieldAccess struct {
	Object   Expression
	Field    string
	Position token.Position
}

// FunctionCall is a call of a named function or procedure.
type FunctionCall struct {
	Name     string
	Args     []Expression
	Position token.Position
}

func (e *Identifier) Pos() token.Position       { return e.Position }
func (e *IntegerLiteral) Pos() token.Position   { return e.Position }
func (e *RealLiteral) Pos() token.Position      { return e.Position }
func (e *StringLiteral) Pos() token.Position    { return e.Position }
func (e *CharacterLiteral) Pos() token.Position { return e.Position }
func (e *BooleanLiteral) Pos() token.Position   { return e.Position }
func (e *BinaryExpr) Pos() token.Position       { return e.Position }
func (e *UnaryExpr) Pos() token.Position        { return e.Position }
func (e *ArrayAccess) Pos() token.Position      { return e.Position }
func (e *FieldAccess) Pos() token.Position      { return e.Position }
func (e *FunctionCall) Pos() token.Position     { return e.Position }

func (*Identifier) expressionNode()       {}
func (*IntegerLiteral) expressionNode()   {}
func (*RealLiteral) expressionNode()      {}
func (*StringLiteral) expressionNode()    {}
func (*CharacterLiteral) expressionNode() {}
func (*BooleanLiteral) expressionNode()   {}
func (*BinaryExpr) expressionNode()       {}
func (*UnaryExpr) expressionNode()        {}
func (*ArrayAccess) expressionNode()      {}
func (*FieldAccess) expressionNode()      {}
func (*FunctionCall) expressionNode()     {}

func (*IntegerLiteral) literalNode()   {}
func (*RealLiteral) literalNode()      {}
func (*StringLiteral) literalNode()    {}
func (*CharacterLiteral) literalNode() {}
func (*BooleanLiteral) literalNode()   {}

//
// Data types.
//

// DataType is the declared type of a variable, constant, parameter or function result.
type DataType interface {
	dataType()
}

// BasicType is one of the built-in scalar types.
type BasicType int

const (
	TypeInteger BasicType = iota + 1
	TypeReal
	TypeCharacter
	TypeString
	TypeBoolean
)

// Keyword returns the token that spells t.
func (t BasicType) Keyword() token.Token {
	switch t {
	case TypeInteger:
		return token.INTEGER
	case TypeReal:
		return token.REAL
	case TypeCharacter:
		return token.CHARACTER
	case TypeString:
		return token.STRING
	case TypeBoolean:
		return token.BOOLEAN
	}
	return token.Undefined
}

func (t BasicType) String() string { return t.Keyword().String() }

// BasicTypeOf returns the basic type spelled by tok, or 0 if tok is not a scalar type keyword.
func BasicTypeOf(tok token.Token) BasicType {
	switch tok {
	case token.INTEGER:
		return TypeInteger
	case token.REAL:
		return TypeReal
	case token.CHARACTER:
		return TypeCharacter
	case token.STRING:
		return TypeString
	case token.BOOLEAN:
		return TypeBoolean
	}
	return 0
}

// ArrayType is an array of Elem.
type ArrayType struct {
	Elem DataType
}

// RecordType is a user-defined record referenced by name.
type RecordType struct {
	Name string
}

func (BasicType) dataType()   {}
func (*ArrayType) dataType()  {}
func (*RecordType) dataType() {}

//
// Statements.
//

// ElseIfClause is one elif branch of an IfStmt.
type ElseIfClause struct {
	Condition Expression
	Body      []Statement
	Position  token.Position
}

// IfStmt is if ... then ... [elif ...] [else ...] endif.
type IfStmt struct {
	Condition Expression
	Then      []Statement
	ElseIfs   []ElseIfClause
	// Else is nil when there is no else branch.
	Else     *Block
	Position token.Position
}

type WhileStmt struct {
	Condition Expression
	Body      []Statement
	Position  token.Position
}

// ForStatement is implemented by the two loop forms.
type ForStatement interface {
	Statement
	forNode()
}

// RangeFor is for v ← start to end [step s] do ... endfor.
type RangeFor struct {
	Variable string
	Start    Expression
	End      Expression
	Step     Expression // nil when absent.
	Body     []Statement
	Position token.Position
}

// ForEach is for v in iterable do ... endfor.
type ForEach struct {
	Variable string
	Iterable Expression
	Body     []Statement
	Position token.Position
}

// Assignment is implemented by the two assignment forms. Targets are limited
// to a plain variable or a single array element.
type Assignment interface {
	Statement
	assignmentNode()
}

// VariableAssignment is name ← value.
type VariableAssignment struct {
	Name     string
	Value    Expression
	Position token.Position
}

// ArrayElementAssignment is array[index] ← value.
type ArrayElementAssignment struct {
	Array    Expression
	Index    Expression
	Value    Expression
	Position token.Position
}

type VariableDeclaration struct {
	Name     string
	Type     DataType
	Init     Expression // nil when absent.
	Position token.Position
}

type ConstantDeclaration struct {
	Name     string
	Type     DataType
	Value    Expression
	Position token.Position
}

// Parameter is a typed function or procedure parameter.
type Parameter struct {
	Name string
	Type DataType
}

type FunctionDeclaration struct {
	Name       string
	Params     []Parameter
	ReturnType DataType // nil when absent.
	// Locals are the variable declarations leading the body.
	Locals   []*VariableDeclaration
	Body     []Statement
	Position token.Position
}

type ProcedureDeclaration struct {
	Name     string
	Params   []Parameter
	Locals   []*VariableDeclaration
	Body     []Statement
	Position token.Position
}

type ReturnStmt struct {
	Value    Expression // nil for a bare return.
	Position token.Position
}

// ExpressionStmt is an expression evaluated for its effect, usually a call.
type ExpressionStmt struct {
	Expr     Expression
	Position token.Position
}

type BreakStmt struct {
	Position token.Position
}

// Block is a braced statement list.
type Block struct {
	Statements []Statement
	Position   token.Position
}

func (s *IfStmt) Pos() token.Position                 { return s.Position }
func (s *WhileStmt) Pos() token.Position              { return s.Position }
func (s *RangeFor) Pos() token.Position               { return s.Position }
func (s *ForEach) Pos() token.Position                { return s.Position }
func (s *VariableAssignment) Pos() token.Position     { return s.Position }
func (s *ArrayElementAssignment) Pos() token.Position { return s.Position }
func (s *VariableDeclaration) Pos() token.Position    { return s.Position }
func (s *ConstantDeclaration) Pos() token.Position    { return s.Position }
func (s *FunctionDeclaration) Pos() token.Position    { return s.Position }
func (s *ProcedureDeclaration) Pos() token.Position   { return s.Position }
func (s *ReturnStmt) Pos() token.Position             { return s.Position }
func (s *ExpressionStmt) Pos() token.Position         { return s.Position }
func (s *BreakStmt) Pos() token.Position              { return s.Position }
func (s *Block) Pos() token.Position                  { return s.Position }

func (*IfStmt) statementNode()                 {}
func (*WhileStmt) statementNode()              {}
func (*RangeFor) statementNode()               {}
func (*ForEach) statementNode()                {}
func (*VariableAssignment) statementNode()     {}
func (*ArrayElementAssignment) statementNode() {}
func (*VariableDeclaration) statementNode()    {}
func (*ConstantDeclaration) statementNode()    {}
func (*FunctionDeclaration) statementNode()    {}
func (*ProcedureDeclaration) statementNode()   {}
func (*ReturnStmt) statementNode()             {}
func (*ExpressionStmt) statementNode()         {}
func (*BreakStmt) statementNode()              {}
func (*Block) statementNode()                  {}

func (*RangeFor) forNode() {}
func (*ForEach) forNode()  {}

func (*VariableAssignment) assignmentNode()     {}
func (*ArrayElementAssignment) assignmentNode() {}
