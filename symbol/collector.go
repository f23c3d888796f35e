package symbol

import (
	"github.com/soypat/go-pseudo/ast"
)

// DeclarationCollector traverses an AST and hoists every function and procedure
// into the scope that encloses it, opening one scope per callable with its
// parameters defined. Variables are left to the [Resolver], which defines them
// in source order.
type DeclarationCollector struct {
	table *Table
}

// NewDeclarationCollector creates a collector that populates table.
func NewDeclarationCollector(table *Table) *DeclarationCollector {
	return &DeclarationCollector{table: table}
}

// Collect processes stmts as a program.
func (dc *DeclarationCollector) Collect(stmts []ast.Statement) {
	ast.Walk(dc, &ast.Program{Statements: stmts})
}

// Visit implements the ast.Visitor interface.
func (dc *DeclarationCollector) Visit(node ast.Node) ast.Visitor {
	switch n := node.(type) {
	case nil:
		return nil

	case *ast.FunctionDeclaration:
		sym := dc.defineCallable(n.Name, SymFunction, n, len(n.Params))
		sym.SetType(n.ReturnType)
		dc.enter(n, n.Params)
		return scopeCloser{dc, dc.table}

	case *ast.ProcedureDeclaration:
		dc.defineCallable(n.Name, SymProcedure, n, len(n.Params))
		dc.enter(n, n.Params)
		return scopeCloser{dc, dc.table}

	case ast.Expression:
		// Declarations never appear inside expressions.
		return nil
	}
	return dc
}

func (dc *DeclarationCollector) defineCallable(name string, kind SymbolKind, decl ast.Node, nparams int) *Symbol {
	sym := NewSymbol(name, kind)
	sym.SetArity(nparams, nparams)
	sym.SetDeclNode(decl)
	dc.table.CurrentScope().Define(sym)
	return sym
}

func (dc *DeclarationCollector) enter(decl ast.Node, params []ast.Parameter) {
	scope := dc.table.EnterScope(decl, ScopeProcedure)
	for _, param := range params {
		sym := NewSymbol(param.Name, SymParameter)
		sym.SetType(param.Type)
		sym.SetDeclNode(decl)
		scope.Define(sym)
	}
}

// scopeCloser wraps the visitor used for the children of a scope-opening node
// and leaves that scope once the children are done.
type scopeCloser struct {
	ast.Visitor
	table *Table
}

func (sc scopeCloser) Visit(node ast.Node) ast.Visitor {
	if node == nil {
		sc.table.ExitScope()
		return nil
	}
	return sc.Visitor.Visit(node)
}
