package ast

import (
	"bytes"
	"math"
	"testing"

	"github.com/soypat/go-pseudo/token"
)

func TestPrettyPrintStatements(t *testing.T) {
	for i, tc := range []struct {
		node Node
		want string
	}{
		{ // 0
			node: &VariableDeclaration{Name: "x", Type: TypeInteger, Init: intLit(5)},
			want: "variable x: integer ← 5\n",
		},
		{ // 1
			node: &ConstantDeclaration{Name: "PI", Type: TypeReal, Value: &RealLiteral{Value: 3.14}},
			want: "constant PI: real ← 3.14\n",
		},
		{ // 2
			node: &IfStmt{
				Condition: &BinaryExpr{Op: token.Greater, Left: ident("x"), Right: intLit(0)},
				Then:      []Statement{&VariableAssignment{Name: "y", Value: intLit(1)}},
				ElseIfs: []ElseIfClause{{
					Condition: &BinaryExpr{Op: token.Less, Left: ident("x"), Right: intLit(0)},
					Body:      []Statement{&VariableAssignment{Name: "y", Value: intLit(-1)}},
				}},
				Else: &Block{Statements: []Statement{&VariableAssignment{Name: "y", Value: intLit(0)}}},
			},
			want: "if x > 0 then\n    y ← 1\nelif x < 0 then\n    y ← -1\nelse\n    y ← 0\nendif\n",
		},
		{ // 3
			node: &RangeFor{Variable: "i", Start: intLit(1), End: ident("n"), Step: intLit(2), Body: []Statement{&BreakStmt{}}},
			want: "for i ← 1 to n step 2 do\n    break\nendfor\n",
		},
		{ // 4
			node: &ForEach{Variable: "c", Iterable: ident("s")},
			want: "for c in s do\nendfor\n",
		},
		{ // 5
			node: &WhileStmt{Condition: &UnaryExpr{Op: token.NOT, Operand: ident("done")}, Body: []Statement{
				&ArrayElementAssignment{Array: ident("a"), Index: ident("i"), Value: &StringLiteral{Value: "q\"\n"}},
			}},
			want: "while not done do\n    a[i] ← \"q\\\"\\n\"\nendwhile\n",
		},
		{ // 6
			node: &FunctionDeclaration{
				Name:       "sum",
				Params:     []Parameter{{Name: "xs", Type: &ArrayType{Elem: TypeInteger}}, {Name: "p", Type: &RecordType{Name: "Point"}}},
				ReturnType: TypeInteger,
				Locals:     []*VariableDeclaration{{Name: "acc", Type: TypeInteger, Init: intLit(0)}},
				Body:       []Statement{&ReturnStmt{Value: ident("acc")}},
			},
			want: "function sum(xs: array of integer, p: record Point): integer\n    variable acc: integer ← 0\n    return acc\nendfunction\n",
		},
		{ // 7
			node: &ProcedureDeclaration{Name: "greet", Body: []Statement{
				&ExpressionStmt{Expr: &FunctionCall{Name: "print", Args: []Expression{&StringLiteral{Value: "hi"}, &CharacterLiteral{Value: '\''}}}},
				&ReturnStmt{},
			}},
			want: "procedure greet()\n    print(\"hi\", '\\'')\n    return\nendprocedure\n",
		},
		{ // 8
			node: &Block{Statements: []Statement{&Block{}}},
			want: "{\n    {\n    }\n}\n",
		},
		{ // 9
			node: &IfStmt{Condition: &BooleanLiteral{Value: true}, Else: &Block{}},
			want: "if true then\nelse\nendif\n",
		},
	} {
		got := PrettyPrint(tc.node)
		if got != tc.want {
			t.Errorf("case %d: got\n%s\nwant\n%s", i, got, tc.want)
		}
	}
}

func TestPrettyPrintParentheses(t *testing.T) {
	bin := func(op token.Token, l, r Expression) *BinaryExpr { return &BinaryExpr{Op: op, Left: l, Right: r} }
	a, b, c := ident("a"), ident("b"), ident("c")
	for i, tc := range []struct {
		expr Expression
		want string
	}{
		{bin(token.Plus, a, bin(token.Asterisk, b, c)), "a + b * c"},
		{bin(token.Asterisk, bin(token.Plus, a, b), c), "(a + b) * c"},
		{bin(token.Minus, bin(token.Minus, a, b), c), "a - b - c"},
		{bin(token.Minus, a, bin(token.Minus, b, c)), "a - (b - c)"},
		{bin(token.OR, bin(token.AND, a, b), c), "a and b or c"},
		{bin(token.AND, bin(token.OR, a, b), c), "(a or b) and c"},
		{bin(token.Equal, bin(token.Plus, a, intLit(1)), b), "a + 1 = b"},
		{&UnaryExpr{Op: token.Minus, Operand: bin(token.Plus, a, b)}, "-(a + b)"},
		{&UnaryExpr{Op: token.Minus, Operand: intLit(5)}, "-(5)"},
		{&UnaryExpr{Op: token.Minus, Operand: a}, "-a"},
		{&UnaryExpr{Op: token.NOT, Operand: bin(token.AND, a, b)}, "not (a and b)"},
		{bin(token.Minus, a, intLit(-5)), "a - -5"},
		{&ArrayAccess{Array: &ArrayAccess{Array: a, Index: intLit(0)}, Index: intLit(1)}, "a[0][1]"},
		{&FieldAccess{Object: &FunctionCall{Name: "f"}, Field: "x"}, "f().x"},
		{&ArrayAccess{Array: bin(token.Plus, a, b), Index: intLit(0)}, "(a + b)[0]"},
		{&RealLiteral{Value: 100}, "100.0"},
		{&RealLiteral{Value: 1e21}, "1e+21"},
		{&StringLiteral{Value: "tab\there\x01"}, `"tab\there\u{1}"`},
	} {
		got := PrettyPrint(tc.expr)
		if got != tc.want {
			t.Errorf("case %d: got %q, want %q", i, got, tc.want)
		}
	}
}

func TestPrettyPrintJapanese(t *testing.T) {
	prog := &Program{Statements: []Statement{
		&VariableDeclaration{Name: "合計", Type: TypeInteger, Init: intLit(0)},
		&RangeFor{Variable: "i", Start: intLit(1), End: intLit(10), Body: []Statement{
			&IfStmt{
				Condition: &BinaryExpr{Op: token.AND, Left: ident("a"), Right: &BooleanLiteral{Value: false}},
				Then:      []Statement{&BreakStmt{}},
			},
		}},
	}}
	cfg := PrettyConfig{Japanese: true, IndentWidth: 2}
	want := "変数 合計: 整数型 ← 0\n" +
		"繰り返し i ← 1 まで 10 実行\n" +
		"  もし a かつ 偽 ならば\n" +
		"    抜ける\n" +
		"  もし終わり\n" +
		"繰り返し終わり\n"
	if got := cfg.Sprint(prog); got != want {
		t.Errorf("got\n%s\nwant\n%s", got, want)
	}
}

func TestSprintType(t *testing.T) {
	typ := &ArrayType{Elem: &ArrayType{Elem: &RecordType{Name: "Point"}}}
	if got := (PrettyConfig{}).SprintType(typ); got != "array of array of record Point" {
		t.Errorf("got %q", got)
	}
	if got := (PrettyConfig{Japanese: true}).SprintType(TypeString); got != "文字列型" {
		t.Errorf("got %q", got)
	}
}

func TestPrettyPrintTabs(t *testing.T) {
	cfg := PrettyConfig{UseTabs: true}
	var buf bytes.Buffer
	err := cfg.Fprint(&buf, &WhileStmt{Condition: ident("x"), Body: []Statement{&BreakStmt{}}})
	if err != nil {
		t.Fatal(err)
	}
	want := "while x do\n\tbreak\nendwhile\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestFormatReal(t *testing.T) {
	for _, tc := range []struct {
		v    float64
		want string
	}{
		{0, "0.0"},
		{0.5, "0.5"},
		{-2, "-2.0"},
		{1e-7, "1e-07"},
		{math.MaxFloat64, "1.7976931348623157e+308"},
	} {
		if got := FormatReal(tc.v); got != tc.want {
			t.Errorf("FormatReal(%v) = %q, want %q", tc.v, got, tc.want)
		}
	}
}
