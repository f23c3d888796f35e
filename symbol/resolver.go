package symbol

import (
	"strconv"

	"github.com/soypat/go-pseudo"
	"github.com/soypat/go-pseudo/ast"
	"github.com/soypat/go-pseudo/token"
)

// Error is a semantic error found by the [Resolver].
type Error struct {
	Kind pseudo.ErrorKind
	Name string
	// Want describes the accepted argument counts of an arity error and
	// Got is the number of arguments passed.
	Want string
	Got  int
	Pos  token.Position
}

func (e *Error) Error() string {
	return e.Pos.String() + ": " + e.Diagnostic().Message
}

func (e *Error) Is(target error) bool { return target == e.Kind }

// Diagnostic implements [pseudo.Diagnoser].
func (e *Error) Diagnostic() pseudo.Diagnostic {
	fields := []pseudo.Field{{Key: "name", Value: strconv.Quote(e.Name)}}
	if e.Kind == pseudo.InvalidFunctionArity {
		fields = append(fields,
			pseudo.Field{Key: "expected", Value: e.Want},
			pseudo.Field{Key: "found", Value: strconv.Itoa(e.Got)},
		)
	}
	return pseudo.NewDiagnostic(e.Kind, e.Pos, fields...)
}

// Resolver walks statements in source order, defining variables as their
// declarations are reached and checking every use against the table.
// Function and procedure scopes must have been opened by a
// [DeclarationCollector] on the same statements.
type Resolver struct {
	table  *Table
	errors []error
}

// NewResolver creates a new resolver for the given symbol table.
func NewResolver(table *Table) *Resolver {
	return &Resolver{table: table}
}

// Resolve checks stmts and returns the errors found in source order.
func (r *Resolver) Resolve(stmts []ast.Statement) []error {
	r.errors = nil
	ast.Walk(r, &ast.Program{Statements: stmts})
	return r.errors
}

// Visit implements the ast.Visitor interface for traversing the AST.
func (r *Resolver) Visit(node ast.Node) ast.Visitor {
	switch n := node.(type) {
	case nil:
		return nil

	case *ast.FunctionDeclaration:
		return r.enterScopeForNode(n)

	case *ast.ProcedureDeclaration:
		return r.enterScopeForNode(n)

	case *ast.VariableDeclaration:
		// The initializer cannot see the variable it initializes.
		if n.Init != nil {
			ast.Walk(r, n.Init)
		}
		r.define(n.Name, SymVariable, n.Type, n, 0)
		return nil

	case *ast.ConstantDeclaration:
		ast.Walk(r, n.Value)
		r.define(n.Name, SymConstant, n.Type, n, 0)
		return nil

	case *ast.RangeFor:
		ast.Walk(r, n.Start)
		ast.Walk(r, n.End)
		if n.Step != nil {
			ast.Walk(r, n.Step)
		}
		r.defineLoopVariable(n.Variable, n)
		r.walkStmts(n.Body)
		return nil

	case *ast.ForEach:
		ast.Walk(r, n.Iterable)
		r.defineLoopVariable(n.Variable, n)
		r.walkStmts(n.Body)
		return nil

	case *ast.VariableAssignment:
		ast.Walk(r, n.Value)
		if sym := r.table.CurrentScope().Lookup(n.Name); sym != nil {
			sym.markUsed()
		} else if r.table.cfg.ImplicitDeclarations {
			r.define(n.Name, SymVariable, nil, n, FlagImplicit)
		} else {
			r.undeclared(n.Name, n.Position)
		}
		return nil

	case *ast.Identifier:
		r.resolveIdentifier(n)
		return nil

	case *ast.FunctionCall:
		r.resolveFunctionCall(n)
		return r // Continue to resolve arguments.
	}
	return r
}

func (r *Resolver) walkStmts(stmts []ast.Statement) {
	for _, stmt := range stmts {
		ast.Walk(r, stmt)
	}
}

// enterScopeForNode makes the scope opened by node current and returns the
// visitor that leaves it again.
func (r *Resolver) enterScopeForNode(node ast.Node) ast.Visitor {
	scope := r.table.ScopeOf(node)
	if scope == nil {
		// Not seen by the collector: resolve the body in a fresh scope.
		scope = r.table.EnterScope(node, ScopeProcedure)
	}
	r.table.currentScope = scope
	return scopeCloser{r, r.table}
}

func (r *Resolver) define(name string, kind SymbolKind, typ ast.DataType, decl ast.Node, flags Flags) {
	sym := NewSymbol(name, kind)
	sym.SetType(typ)
	sym.SetDeclNode(decl)
	sym.flags = flags
	r.table.CurrentScope().Define(sym)
}

// defineLoopVariable declares a loop variable unless the name is already
// visible, in which case the loop assigns to the existing variable.
func (r *Resolver) defineLoopVariable(name string, loop ast.Node) {
	if sym := r.table.CurrentScope().Lookup(name); sym != nil && !sym.IsCallable() {
		sym.markUsed()
		return
	}
	r.define(name, SymVariable, nil, loop, FlagImplicit)
}

// resolveIdentifier checks a name used as a value.
func (r *Resolver) resolveIdentifier(ident *ast.Identifier) {
	if sym := r.table.CurrentScope().Lookup(ident.Name); sym != nil {
		sym.markUsed()
		return
	}
	r.undeclared(ident.Name, ident.Position)
}

// resolveFunctionCall checks the callee and the argument count.
func (r *Resolver) resolveFunctionCall(call *ast.FunctionCall) {
	sym := r.table.CurrentScope().Lookup(call.Name)
	if sym == nil {
		r.undeclared(call.Name, call.Position)
		return
	}
	sym.markUsed()
	if !sym.IsCallable() || sym.flags.HasAny(FlagUndeclared) {
		// Calling a variable is left to type checking.
		return
	}
	if !sym.acceptsArgs(len(call.Args)) {
		r.errors = append(r.errors, &Error{
			Kind: pseudo.InvalidFunctionArity,
			Name: call.Name,
			Want: sym.arityString(),
			Got:  len(call.Args),
			Pos:  call.Position,
		})
	}
}

// undeclared reports name and defines a placeholder so that later uses in the
// same scope are not reported again.
func (r *Resolver) undeclared(name string, pos token.Position) {
	r.errors = append(r.errors, &Error{Kind: pseudo.UndeclaredVariable, Name: name, Pos: pos})
	r.define(name, SymUnknown, nil, nil, FlagUndeclared)
}
