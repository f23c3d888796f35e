// Package symbol provides a symbol table and name resolution for parsed
// pseudocode. It checks that every name is declared before use and that
// calls pass the right number of arguments. It does no type checking.
package symbol

import (
	"fmt"

	"github.com/soypat/go-pseudo/ast"
)

// Flags
type Flags uint64

const (
	// FlagImplicit marks symbols declared without a declaration statement:
	// loop variables and, when enabled, names first seen as assignment targets.
	FlagImplicit Flags = 1 << iota
	FlagUsed
	FlagBuiltin
	// FlagUndeclared marks placeholders defined after an undeclared use was
	// reported so that a name is reported once per scope.
	FlagUndeclared
)

func (f Flags) HasAny(hasBits Flags) bool { return f&hasBits != 0 }
func (f Flags) HasAll(hasBits Flags) bool { return f&hasBits == hasBits }
func (f Flags) With(mask Flags, setBits bool) Flags {
	if setBits {
		return f | mask
	} else {
		return f &^ mask
	}
}

// Symbol represents a declared entity (variable, constant, function, etc.)
type Symbol struct {
	name     string
	typ      ast.DataType // Declared type, nil for builtins and implicit symbols.
	kind     SymbolKind
	minArgs  int // Callables only.
	maxArgs  int // Callables only, negative means variadic.
	declNode ast.Node
	scope    *Scope
	flags    Flags
}

// NewSymbol creates a new symbol with the given name and kind
func NewSymbol(name string, kind SymbolKind) *Symbol {
	return &Symbol{
		name: name,
		kind: kind,
	}
}

// Name returns the symbol name
func (s *Symbol) Name() string {
	return s.name
}

// Type returns the declared type (nil if not declared with one)
func (s *Symbol) Type() ast.DataType {
	return s.typ
}

// Kind returns the symbol kind
func (s *Symbol) Kind() SymbolKind {
	return s.kind
}

// DeclNode returns the AST node where this symbol was declared
func (s *Symbol) DeclNode() ast.Node {
	return s.declNode
}

// Scope returns the scope where this symbol is defined
func (s *Symbol) Scope() *Scope {
	return s.scope
}

// Flags returns the symbol [Flags].
func (s *Symbol) Flags() Flags {
	return s.flags
}

// Arity returns the accepted argument counts of a callable. max is negative
// when any number of arguments at or above min is accepted.
func (s *Symbol) Arity() (min, max int) {
	return s.minArgs, s.maxArgs
}

// IsCallable reports whether the symbol may appear as the callee of a call.
func (s *Symbol) IsCallable() bool {
	return s.kind == SymFunction || s.kind == SymProcedure || s.kind == SymBuiltin
}

// SetType sets the declared type
func (s *Symbol) SetType(typ ast.DataType) {
	s.typ = typ
}

// SetArity sets the accepted argument counts of a callable.
func (s *Symbol) SetArity(min, max int) {
	s.minArgs, s.maxArgs = min, max
}

// SetDeclNode sets the declaration node
func (s *Symbol) SetDeclNode(node ast.Node) {
	s.declNode = node
}

// SetScope sets the scope (used during symbol table building)
func (s *Symbol) SetScope(scope *Scope) {
	s.scope = scope
}

func (s *Symbol) markUsed() {
	s.flags = s.flags.With(FlagUsed, true)
}

// acceptsArgs reports whether a call with n arguments matches the arity.
func (s *Symbol) acceptsArgs(n int) bool {
	return n >= s.minArgs && (s.maxArgs < 0 || n <= s.maxArgs)
}

// arityString describes the accepted argument counts for messages.
func (s *Symbol) arityString() string {
	switch {
	case s.maxArgs < 0:
		return fmt.Sprintf("at least %d", s.minArgs)
	case s.minArgs == s.maxArgs:
		return fmt.Sprint(s.minArgs)
	}
	return fmt.Sprintf("%d to %d", s.minArgs, s.maxArgs)
}

// SymbolKind classifies what kind of entity a symbol represents
type SymbolKind int

const (
	SymUnknown   SymbolKind = iota
	SymVariable             // Declared or implicit variable
	SymConstant             // constant declaration
	SymParameter            // Function or procedure parameter
	SymFunction             // Function (returns value)
	SymProcedure            // Procedure (no return value)
	SymBuiltin              // Predeclared callable
)

// String returns the string representation of SymbolKind
func (sk SymbolKind) String() string {
	switch sk {
	case SymVariable:
		return "Variable"
	case SymConstant:
		return "Constant"
	case SymParameter:
		return "Parameter"
	case SymFunction:
		return "Function"
	case SymProcedure:
		return "Procedure"
	case SymBuiltin:
		return "Builtin"
	default:
		return "Unknown"
	}
}

// Scope represents a lexical scope with symbol table
type Scope struct {
	parent    *Scope             // Parent scope (nil for global)
	children  []*Scope           // Nested scopes
	symbols   map[string]*Symbol // Names are case-sensitive.
	node      ast.Node           // Function or procedure declaration, nil for global.
	scopeType ScopeType
}

// Parent returns the parent scope (nil for global scope)
func (s *Scope) Parent() *Scope {
	return s.parent
}

// Children returns child scopes
func (s *Scope) Children() []*Scope {
	return s.children
}

// Node returns the declaration that opened the scope, nil for the global scope.
func (s *Scope) Node() ast.Node {
	return s.node
}

// ScopeType returns the type of this scope
func (s *Scope) Type() ScopeType {
	return s.scopeType
}

// Lookup searches for a symbol in this scope and parent scopes
func (s *Scope) Lookup(name string) *Symbol {
	for scope := s; scope != nil; scope = scope.parent {
		if sym, ok := scope.symbols[name]; ok {
			return sym
		}
	}
	return nil
}

// LookupLocal searches for a symbol only in this scope (not parent scopes)
func (s *Scope) LookupLocal(name string) *Symbol {
	return s.symbols[name]
}

// Symbols returns the symbol map for iteration. Callers must not modify it.
func (s *Scope) Symbols() map[string]*Symbol {
	return s.symbols
}

// Define adds a symbol to this scope. A symbol of the same name in this scope
// is replaced; redeclaration is allowed.
func (s *Scope) Define(sym *Symbol) {
	sym.SetScope(s)
	s.symbols[sym.Name()] = sym
}

// ScopeType identifies the type of scope
type ScopeType int

const (
	ScopeGlobal    ScopeType = iota // Top level statements and builtins.
	ScopeProcedure                  // Function or procedure body.
)

// String returns the string representation of ScopeType
func (st ScopeType) String() string {
	switch st {
	case ScopeGlobal:
		return "Global"
	case ScopeProcedure:
		return "Procedure"
	default:
		return "Unknown"
	}
}

// Table is the root of the scope hierarchy.
type Table struct {
	globalScope  *Scope
	currentScope *Scope // Current scope during analysis.
	cfg          Config
}

// NewTable creates a symbol table whose global scope holds the builtins of cfg.
func NewTable(cfg Config) *Table {
	st := &Table{cfg: cfg}
	st.globalScope = &Scope{
		symbols:   make(map[string]*Symbol),
		scopeType: ScopeGlobal,
	}
	for _, b := range cfg.builtins() {
		sym := NewSymbol(b.Name, SymBuiltin)
		sym.SetArity(b.MinArgs, b.MaxArgs)
		sym.flags = FlagBuiltin
		st.globalScope.Define(sym)
	}
	st.currentScope = st.globalScope
	return st
}

// GlobalScope returns the global scope
func (st *Table) GlobalScope() *Scope {
	return st.globalScope
}

// CurrentScope returns the current scope during analysis
func (st *Table) CurrentScope() *Scope {
	return st.currentScope
}

// Config returns the configuration the table was built with.
func (st *Table) Config() Config {
	return st.cfg
}

// EnterScope creates a new scope for node as child of the current scope.
func (st *Table) EnterScope(node ast.Node, scopeType ScopeType) *Scope {
	newScope := &Scope{
		parent:    st.currentScope,
		symbols:   make(map[string]*Symbol),
		node:      node,
		scopeType: scopeType,
	}
	st.currentScope.children = append(st.currentScope.children, newScope)
	st.currentScope = newScope
	return newScope
}

// ExitScope returns to parent scope
func (st *Table) ExitScope() {
	if st.currentScope.parent != nil {
		st.currentScope = st.currentScope.parent
	}
}

// ScopeOf returns the scope opened by node, or nil.
func (st *Table) ScopeOf(node ast.Node) *Scope {
	return findScopeForNode(st.globalScope, node)
}

// findScopeForNode recursively searches for a scope opened by node.
func findScopeForNode(scope *Scope, node ast.Node) *Scope {
	if scope.node == node {
		return scope
	}
	for _, child := range scope.children {
		if found := findScopeForNode(child, node); found != nil {
			return found
		}
	}
	return nil
}
