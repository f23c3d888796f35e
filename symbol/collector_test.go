package symbol

import (
	"testing"

	"github.com/soypat/go-pseudo"
	"github.com/soypat/go-pseudo/ast"
)

func collect(t *testing.T, src string) (*Table, []ast.Statement) {
	t.Helper()
	stmts, err := pseudo.Parse(src)
	if err != nil {
		t.Fatal(err)
	}
	table := NewTable(Config{})
	NewDeclarationCollector(table).Collect(stmts)
	return table, stmts
}

func TestCollectHoistsCallables(t *testing.T) {
	table, stmts := collect(t, `
print(f(1))
function f(n: integer): integer
    function inner(): boolean
        return true
    endfunction
    return n
endfunction
if ready then
    procedure g(a: string, b: array of real)
    endprocedure
endif
`)
	global := table.GlobalScope()
	if table.CurrentScope() != global {
		t.Fatal("collector did not return to the global scope")
	}

	f := global.LookupLocal("f")
	if f == nil || f.Kind() != SymFunction {
		t.Fatalf("f not hoisted: %v", f)
	}
	if min, max := f.Arity(); min != 1 || max != 1 {
		t.Errorf("f arity %d..%d", min, max)
	}
	if f.Type() != ast.TypeInteger {
		t.Errorf("f return type %v", f.Type())
	}
	if f.DeclNode() != stmts[1] {
		t.Error("f declaration node")
	}

	// Procedures inside control flow still belong to the enclosing callable scope.
	g := global.LookupLocal("g")
	if g == nil || g.Kind() != SymProcedure {
		t.Fatalf("g not hoisted: %v", g)
	}

	fScope := table.ScopeOf(stmts[1])
	if fScope == nil || fScope.Parent() != global {
		t.Fatal("f scope missing")
	}
	n := fScope.LookupLocal("n")
	if n == nil || n.Kind() != SymParameter || n.Type() != ast.TypeInteger {
		t.Errorf("parameter n: %v", n)
	}
	if fScope.LookupLocal("inner") == nil || global.LookupLocal("inner") != nil {
		t.Error("nested function should be defined in the function scope only")
	}
	if len(fScope.Children()) != 1 {
		t.Errorf("f should have one child scope, got %d", len(fScope.Children()))
	}

	gScope := table.ScopeOf(g.DeclNode())
	if gScope == nil {
		t.Fatal("g scope missing")
	}
	b := gScope.LookupLocal("b")
	if b == nil {
		t.Fatal("parameter b missing")
	}
	if _, ok := b.Type().(*ast.ArrayType); !ok {
		t.Errorf("b type %T", b.Type())
	}
}

func TestCollectIgnoresVariables(t *testing.T) {
	table, _ := collect(t, "variable x: integer\nconstant y: real ← 1.0\nfor i ← 1 to 2 do endfor")
	for _, name := range []string{"x", "y", "i"} {
		if table.GlobalScope().Lookup(name) != nil {
			t.Errorf("%s should be left to the resolver", name)
		}
	}
}
