package symbol

import (
	"testing"

	"github.com/soypat/go-pseudo/ast"
)

// TestNewTable verifies that a new symbol table is initialized correctly
func TestNewTable(t *testing.T) {
	st := NewTable(Config{})

	if st.GlobalScope() == nil {
		t.Fatal("GlobalScope is nil")
	}
	if st.CurrentScope() != st.GlobalScope() {
		t.Error("CurrentScope should initially be GlobalScope")
	}
	if st.GlobalScope().Type() != ScopeGlobal {
		t.Errorf("GlobalScope type: expected %v, got %v", ScopeGlobal, st.GlobalScope().Type())
	}
	if st.GlobalScope().Parent() != nil {
		t.Error("GlobalScope should have nil parent")
	}

	print := st.GlobalScope().LookupLocal("print")
	if print == nil {
		t.Fatal("default builtins not loaded")
	}
	if print.Kind() != SymBuiltin || !print.Flags().HasAll(FlagBuiltin) {
		t.Errorf("print: got kind %v flags %b", print.Kind(), print.Flags())
	}
	if min, max := print.Arity(); min != 0 || max >= 0 {
		t.Errorf("print arity: got %d..%d", min, max)
	}
	if len(st.GlobalScope().Symbols()) != len(DefaultBuiltins) {
		t.Errorf("expected %d builtins, got %d", len(DefaultBuiltins), len(st.GlobalScope().Symbols()))
	}
}

func TestConfiguredBuiltins(t *testing.T) {
	st := NewTable(Config{Builtins: []Builtin{{Name: "say", MinArgs: 1, MaxArgs: 2}}})
	if st.GlobalScope().Lookup("print") != nil {
		t.Error("configured builtins should replace the defaults")
	}
	say := st.GlobalScope().Lookup("say")
	if say == nil {
		t.Fatal("say not defined")
	}
	for n, want := range []bool{false, true, true, false} {
		if got := say.acceptsArgs(n); got != want {
			t.Errorf("say with %d args: got %v, want %v", n, got, want)
		}
	}
	if got := say.arityString(); got != "1 to 2" {
		t.Errorf("arity string: got %q", got)
	}

	empty := NewTable(Config{Builtins: []Builtin{}})
	if len(empty.GlobalScope().Symbols()) != 0 {
		t.Error("empty builtin list should predeclare nothing")
	}
}

// TestEnterExitScope verifies scope nesting operations
func TestEnterExitScope(t *testing.T) {
	st := NewTable(Config{Builtins: []Builtin{}})
	global := st.GlobalScope()
	fn := &ast.FunctionDeclaration{Name: "f"}

	scope := st.EnterScope(fn, ScopeProcedure)
	if st.CurrentScope() != scope || scope.Parent() != global {
		t.Fatal("EnterScope did not nest under the global scope")
	}
	if scope.Node() != fn || scope.Type() != ScopeProcedure {
		t.Errorf("scope node or type not recorded")
	}
	if len(global.Children()) != 1 || global.Children()[0] != scope {
		t.Error("child scope not registered on parent")
	}
	if st.ScopeOf(fn) != scope {
		t.Error("ScopeOf did not find the function scope")
	}

	st.ExitScope()
	if st.CurrentScope() != global {
		t.Error("ExitScope did not return to the global scope")
	}
	st.ExitScope() // Exiting the global scope is a no-op.
	if st.CurrentScope() != global {
		t.Error("ExitScope left the global scope")
	}
}

func TestScopeLookup(t *testing.T) {
	st := NewTable(Config{Builtins: []Builtin{}})
	outer := NewSymbol("x", SymVariable)
	st.GlobalScope().Define(outer)
	inner := st.EnterScope(&ast.ProcedureDeclaration{Name: "p"}, ScopeProcedure)

	if inner.Lookup("x") != outer {
		t.Error("inner scope should see outer symbols")
	}
	if inner.LookupLocal("x") != nil {
		t.Error("LookupLocal should not search parents")
	}

	shadow := NewSymbol("x", SymParameter)
	inner.Define(shadow)
	if inner.Lookup("x") != shadow || shadow.Scope() != inner {
		t.Error("inner definition should shadow outer")
	}
	if inner.Lookup("X") != nil {
		t.Error("names are case-sensitive")
	}

	// Redefinition replaces.
	again := NewSymbol("x", SymConstant)
	inner.Define(again)
	if inner.LookupLocal("x") != again {
		t.Error("redefinition did not replace the symbol")
	}
}

func TestFlags(t *testing.T) {
	var f Flags
	f = f.With(FlagUsed|FlagImplicit, true)
	if !f.HasAll(FlagUsed|FlagImplicit) || f.HasAny(FlagBuiltin) {
		t.Errorf("unexpected flags %b", f)
	}
	f = f.With(FlagUsed, false)
	if f.HasAny(FlagUsed) || !f.HasAny(FlagImplicit) {
		t.Errorf("unexpected flags after clear %b", f)
	}
}

func TestKindStrings(t *testing.T) {
	for kind, want := range map[SymbolKind]string{
		SymVariable:  "Variable",
		SymConstant:  "Constant",
		SymParameter: "Parameter",
		SymFunction:  "Function",
		SymProcedure: "Procedure",
		SymBuiltin:   "Builtin",
		SymUnknown:   "Unknown",
	} {
		if got := kind.String(); got != want {
			t.Errorf("%d: got %q, want %q", kind, got, want)
		}
	}
	if ScopeProcedure.String() != "Procedure" || ScopeType(9).String() != "Unknown" {
		t.Error("scope type strings")
	}
}
