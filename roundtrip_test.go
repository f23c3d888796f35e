package pseudo

import (
	"errors"
	"io/fs"
	"math/rand"
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"
	fuzz "github.com/google/gofuzz"
	"github.com/stretchr/testify/require"

	"github.com/soypat/go-pseudo/ast"
	"github.com/soypat/go-pseudo/token"
)

func TestRoundTripTestdata(t *testing.T) {
	entries, err := fs.ReadDir(testdatadir, "testdata")
	require.NoError(t, err)
	configs := []ast.PrettyConfig{
		{},
		{Japanese: true, IndentWidth: 2},
		{UseTabs: true},
	}
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, "valid_") {
			continue
		}
		src, err := fs.ReadFile(testdatadir, "testdata/"+name)
		require.NoError(t, err)
		for i, cfg := range configs {
			rt := RoundTripper{Config: cfg}
			res, err := rt.RoundTrip(string(src))
			if err != nil {
				t.Errorf("%s config %d: %v\nregenerated:\n%s", name, i, err, res.Source)
				continue
			}
			// Printing is a fixed point after the first pass.
			again, err := rt.RoundTrip(res.Source)
			require.NoError(t, err)
			if again.Source != res.Source {
				t.Errorf("%s config %d: second pass changed output:\n%s\nvs\n%s", name, i, res.Source, again.Source)
			}
		}
	}
}

func TestRoundTripCompareText(t *testing.T) {
	for i, tc := range []struct {
		src      string
		mismatch bool
	}{
		0: {src: "x ← 1 + 2"},
		1: {src: "もし x > 0 ならば\n  y ← 1\nもし終わり"},
		2: {src: "// comment\nwhile a do ; b ← c ; endwhile"},
		3: {src: "x ← (1 + 2)", mismatch: true},
		4: {src: "x ← 0xFF", mismatch: true},
		5: {src: "関数 f(a: 整数型)\n関数終わり"},
	} {
		rt := RoundTripper{CompareText: true}
		res, err := rt.RoundTrip(tc.src)
		if tc.mismatch {
			require.ErrorIs(t, err, SemanticMismatch, "case %d", i)
			var rte *RoundTripError
			require.ErrorAs(t, err, &rte)
			require.NotEmpty(t, rte.Diff, "case %d", i)
			require.Equal(t, res.Source, rte.Source)
			continue
		}
		require.NoError(t, err, "case %d: %s", i, res.Source)
	}

	// Without CompareText redundant parentheses are fine.
	_, err := RoundTrip("x ← (1 + 2)")
	require.NoError(t, err)
}

func TestRoundTripParseError(t *testing.T) {
	_, err := RoundTrip("endif")
	require.ErrorIs(t, err, UnexpectedToken)
	var rte *RoundTripError
	require.False(t, errors.As(err, &rte), "parse failure of the input must not be a round trip error")
}

func TestRoundTripError(t *testing.T) {
	_, inner := Parse("x ← ")
	require.Error(t, inner)
	err := error(&RoundTripError{Kind: ReparseFailure, Err: inner})
	require.ErrorIs(t, err, ReparseFailure)
	require.ErrorIs(t, err, UnexpectedEndOfInput)
	require.NotErrorIs(t, err, ASTMismatch)
	d, ok := Diagnose(err)
	require.True(t, ok)
	require.Equal(t, "unexpectedEndOfInput", d.Name)

	err = &RoundTripError{Kind: ASTMismatch, Diff: "-a\n+b"}
	d, ok = Diagnose(err)
	require.True(t, ok)
	require.Equal(t, "astMismatch", d.Name)
	require.Equal(t, PatternMessage, d.Pattern)
	v, _ := d.Field("diff")
	require.Equal(t, "-a\n+b", v)
	require.Contains(t, err.Error(), "different tree")
}

// TestRoundTripGenerated prints random trees and checks they parse back unchanged.
func TestRoundTripGenerated(t *testing.T) {
	const iterations = 400
	var prog ast.Program
	f := fuzz.New().RandSource(rand.NewSource(1)).NilChance(0).Funcs(
		func(p *ast.Program, c fuzz.Continue) {
			g := treeGen{c: c}
			p.Statements = g.statements(3, false)
		},
	)
	configs := []ast.PrettyConfig{{}, {Japanese: true}, {UseTabs: true}}
	for i := 0; i < iterations; i++ {
		f.Fuzz(&prog)
		cfg := configs[i%len(configs)]
		src := cfg.SprintStatements(prog.Statements)
		got, err := Parse(src)
		if err != nil {
			t.Fatalf("iteration %d: %v\nsource:\n%s\ntree:\n%s", i, err, src, spew.Sdump(prog.Statements))
		}
		if diff := ast.Diff(prog.Statements, got); diff != "" {
			t.Fatalf("iteration %d (-generated +reparsed):\n%s\nsource:\n%s", i, diff, src)
		}
		if _, err := (RoundTripper{Config: cfg}).RoundTrip(src); err != nil {
			t.Fatalf("iteration %d: %v", i, err)
		}
	}
}

// treeGen builds random trees limited to what the parser can produce: assignment
// targets are plain names, function bodies never start with a declaration and
// identifiers never collide with keywords.
type treeGen struct {
	c fuzz.Continue
}

var (
	genNames   = []string{"x", "y", "total", "n", "item", "合計", "値段"}
	genCallees = []string{"f", "g", "print", "計算"}
	genRecords = []string{"Point", "Node"}
	genBinary  = []token.Token{
		token.OR, token.AND, token.Equal, token.NotEqual, token.Less, token.LessEq,
		token.Greater, token.GreaterEq, token.Plus, token.Minus, token.Asterisk, token.Slash, token.Percent,
	}
)

func (g *treeGen) pick(s []string) string { return s[g.c.Intn(len(s))] }

func (g *treeGen) statements(depth int, inFunction bool) []ast.Statement {
	n := g.c.Intn(4)
	var stmts []ast.Statement
	for i := 0; i < n; i++ {
		stmts = append(stmts, g.statement(depth, inFunction && i == 0))
	}
	return stmts
}

// statement returns a random statement. leading excludes variable declarations,
// which would be read back as function locals.
func (g *treeGen) statement(depth int, leading bool) ast.Statement {
	choices := 8
	if depth > 0 {
		choices = 15
	}
	for {
		switch g.c.Intn(choices) {
		case 0:
			return &ast.VariableAssignment{Name: g.pick(genNames), Value: g.expr(3)}
		case 1:
			return &ast.ArrayElementAssignment{Array: &ast.Identifier{Name: g.pick(genNames)}, Index: g.expr(2), Value: g.expr(3)}
		case 2:
			if leading {
				continue
			}
			return g.varDecl()
		case 3:
			return &ast.ConstantDeclaration{Name: g.pick(genNames), Type: g.dataType(2), Value: g.expr(2)}
		case 4:
			ret := &ast.ReturnStmt{}
			if g.c.RandBool() {
				ret.Value = g.expr(3)
			}
			return ret
		case 5:
			return &ast.BreakStmt{}
		case 6:
			return &ast.ExpressionStmt{Expr: g.expr(3)}
		case 7:
			return &ast.ExpressionStmt{Expr: g.call(2)}
		case 8:
			s := &ast.IfStmt{Condition: g.expr(3), Then: g.statements(depth-1, false)}
			for i := g.c.Intn(3); i > 0; i-- {
				s.ElseIfs = append(s.ElseIfs, ast.ElseIfClause{Condition: g.expr(2), Body: g.statements(depth-1, false)})
			}
			if g.c.RandBool() {
				s.Else = &ast.Block{Statements: g.statements(depth-1, false)}
			}
			return s
		case 9:
			return &ast.WhileStmt{Condition: g.expr(3), Body: g.statements(depth-1, false)}
		case 10:
			s := &ast.RangeFor{Variable: g.pick(genNames), Start: g.expr(2), End: g.expr(2), Body: g.statements(depth-1, false)}
			if g.c.RandBool() {
				s.Step = g.expr(1)
			}
			return s
		case 11:
			return &ast.ForEach{Variable: g.pick(genNames), Iterable: g.expr(2), Body: g.statements(depth-1, false)}
		case 12:
			return &ast.Block{Statements: g.statements(depth-1, false)}
		case 13:
			fn := &ast.FunctionDeclaration{Name: g.pick(genCallees), Params: g.params(), Body: g.statements(depth-1, true)}
			if g.c.RandBool() {
				fn.ReturnType = g.dataType(2)
			}
			fn.Locals = g.locals()
			return fn
		case 14:
			return &ast.ProcedureDeclaration{Name: g.pick(genCallees), Params: g.params(), Locals: g.locals(), Body: g.statements(depth-1, true)}
		}
	}
}

func (g *treeGen) varDecl() *ast.VariableDeclaration {
	d := &ast.VariableDeclaration{Name: g.pick(genNames), Type: g.dataType(2)}
	if g.c.RandBool() {
		d.Init = g.expr(2)
	}
	return d
}

func (g *treeGen) locals() []*ast.VariableDeclaration {
	var locals []*ast.VariableDeclaration
	for i := g.c.Intn(3); i > 0; i-- {
		locals = append(locals, g.varDecl())
	}
	return locals
}

func (g *treeGen) params() []ast.Parameter {
	var params []ast.Parameter
	for i := g.c.Intn(3); i > 0; i-- {
		params = append(params, ast.Parameter{Name: g.pick(genNames), Type: g.dataType(2)})
	}
	return params
}

func (g *treeGen) dataType(depth int) ast.DataType {
	switch n := g.c.Intn(7); {
	case n < 5:
		return ast.BasicType(n + 1)
	case n == 5 && depth > 0:
		return &ast.ArrayType{Elem: g.dataType(depth - 1)}
	}
	return &ast.RecordType{Name: g.pick(genRecords)}
}

func (g *treeGen) expr(depth int) ast.Expression {
	if depth <= 0 {
		return g.leaf()
	}
	switch g.c.Intn(8) {
	case 0, 1:
		return &ast.BinaryExpr{Op: genBinary[g.c.Intn(len(genBinary))], Left: g.expr(depth - 1), Right: g.expr(depth - 1)}
	case 2:
		op := token.Minus
		if g.c.RandBool() {
			op = token.NOT
		}
		return &ast.UnaryExpr{Op: op, Operand: g.expr(depth - 1)}
	case 3:
		return &ast.ArrayAccess{Array: g.expr(depth - 1), Index: g.expr(depth - 1)}
	case 4:
		return &ast.FieldAccess{Object: g.expr(depth - 1), Field: g.pick(genNames)}
	case 5:
		return g.call(depth - 1)
	}
	return g.leaf()
}

func (g *treeGen) call(depth int) *ast.FunctionCall {
	call := &ast.FunctionCall{Name: g.pick(genCallees)}
	for i := g.c.Intn(3); i > 0; i-- {
		call.Args = append(call.Args, g.expr(depth))
	}
	return call
}

func (g *treeGen) leaf() ast.Expression {
	switch g.c.Intn(7) {
	case 0:
		return &ast.IntegerLiteral{Value: g.c.Int63n(2_000_001) - 1_000_000}
	case 1:
		v := g.c.Float64() * 1000
		if g.c.RandBool() {
			v = -v / 1e9
		}
		return &ast.RealLiteral{Value: v}
	case 2:
		var s string
		g.c.Fuzz(&s)
		return &ast.StringLiteral{Value: s}
	case 3:
		var s string
		for s == "" {
			g.c.Fuzz(&s)
		}
		r := []rune(s)[0]
		return &ast.CharacterLiteral{Value: r}
	case 4:
		return &ast.BooleanLiteral{Value: g.c.RandBool()}
	}
	return &ast.Identifier{Name: g.pick(genNames)}
}
