package ast

// A Visitor's Visit method is invoked for each node encountered by Walk.
// If the result visitor w is not nil, Walk visits each of the children
// of node with the visitor w, followed by a call of w.Visit(nil).
type Visitor interface {
	Visit(node Node) (w Visitor)
}

// Walk traverses an AST in depth-first order: It starts by calling
// v.Visit(node); node must not be nil. If the visitor w returned by
// v.Visit(node) is not nil, Walk is invoked recursively with visitor
// w for each of the non-nil children of node, followed by a call of
// w.Visit(nil).
//
// Children are visited in source order. The Locals of a function or
// procedure are visited before its Body.
func Walk(v Visitor, node Node) {
	if v = v.Visit(node); v == nil {
		return
	}

	switch n := node.(type) {
	case *Program:
		walkStmts(v, n.Statements)

	// Statements
	case *IfStmt:
		Walk(v, n.Condition)
		walkStmts(v, n.Then)
		for _, clause := range n.ElseIfs {
			Walk(v, clause.Condition)
			walkStmts(v, clause.Body)
		}
		if n.Else != nil {
			Walk(v, n.Else)
		}

	case *WhileStmt:
		Walk(v, n.Condition)
		walkStmts(v, n.Body)

	case *RangeFor:
		Walk(v, n.Start)
		Walk(v, n.End)
		if n.Step != nil {
			Walk(v, n.Step)
		}
		walkStmts(v, n.Body)

	case *ForEach:
		Walk(v, n.Iterable)
		walkStmts(v, n.Body)

	case *VariableAssignment:
		Walk(v, n.Value)

	case *ArrayElementAssignment:
		Walk(v, n.Array)
		Walk(v, n.Index)
		Walk(v, n.Value)

	case *VariableDeclaration:
		if n.Init != nil {
			Walk(v, n.Init)
		}

	case *ConstantDeclaration:
		Walk(v, n.Value)

	case *FunctionDeclaration:
		for _, local := range n.Locals {
			Walk(v, local)
		}
		walkStmts(v, n.Body)

	case *ProcedureDeclaration:
		for _, local := range n.Locals {
			Walk(v, local)
		}
		walkStmts(v, n.Body)

	case *ReturnStmt:
		if n.Value != nil {
			Walk(v, n.Value)
		}

	case *ExpressionStmt:
		Walk(v, n.Expr)

	case *Block:
		walkStmts(v, n.Statements)

	case *BreakStmt:
		// No children.

	// Expressions
	case *BinaryExpr:
		Walk(v, n.Left)
		Walk(v, n.Right)

	case *UnaryExpr:
		Walk(v, n.Operand)

	case *ArrayAccess:
		Walk(v, n.Array)
		Walk(v, n.Index)

	case *FieldAccess:
		Walk(v, n.Object)

	case *FunctionCall:
		for _, arg := range n.Args {
			Walk(v, arg)
		}

	case *Identifier, *IntegerLiteral, *RealLiteral, *StringLiteral,
		*CharacterLiteral, *BooleanLiteral:
		// Leaf nodes.
	}

	v.Visit(nil)
}

func walkStmts(v Visitor, stmts []Statement) {
	for _, stmt := range stmts {
		Walk(v, stmt)
	}
}

type inspector func(Node) bool

func (f inspector) Visit(node Node) Visitor {
	if f(node) {
		return f
	}
	return nil
}

// Inspect traverses an AST in depth-first order: It starts by calling
// f(node); node must not be nil. If f returns true, Inspect invokes f
// recursively for each of the non-nil children of node, followed by a
// call of f(nil).
func Inspect(node Node, f func(Node) bool) {
	Walk(inspector(f), node)
}
