package pseudo

import (
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/soypat/go-pseudo/ast"
	"github.com/soypat/go-pseudo/token"
)

// sexpr renders an expression fully parenthesized so tests can check tree shape.
func sexpr(e ast.Expression) string {
	switch e := e.(type) {
	case *ast.Identifier:
		return e.Name
	case *ast.IntegerLiteral:
		return strconv.FormatInt(e.Value, 10)
	case *ast.RealLiteral:
		return ast.FormatReal(e.Value)
	case *ast.StringLiteral:
		return strconv.Quote(e.Value)
	case *ast.CharacterLiteral:
		return strconv.QuoteRune(e.Value)
	case *ast.BooleanLiteral:
		return strconv.FormatBool(e.Value)
	case *ast.BinaryExpr:
		return "(" + e.Op.String() + " " + sexpr(e.Left) + " " + sexpr(e.Right) + ")"
	case *ast.UnaryExpr:
		return "(" + e.Op.String() + " " + sexpr(e.Operand) + ")"
	case *ast.ArrayAccess:
		return "(index " + sexpr(e.Array) + " " + sexpr(e.Index) + ")"
	case *ast.FieldAccess:
		return "(field " + sexpr(e.Object) + " " + e.Field + ")"
	case *ast.FunctionCall:
		s := "(call " + e.Name
		for _, arg := range e.Args {
			s += " " + sexpr(arg)
		}
		return s + ")"
	}
	return "?"
}

func parseExpr(t *testing.T, src string) (ast.Expression, error) {
	t.Helper()
	toks, err := Tokenize(src)
	require.NoError(t, err, src)
	return ParseExpression(toks)
}

// TestExpressionParsing verifies that the expression parser builds trees with
// proper operator precedence and associativity.
func TestExpressionParsing(t *testing.T) {
	for i, tc := range []struct {
		src  string
		want string
	}{
		0:  {"42", "42"},
		1:  {"1 + 2 * 3", "(+ 1 (* 2 3))"},
		2:  {"(1 + 2) * 3", "(* (+ 1 2) 3)"},
		3:  {"a - b - c", "(- (- a b) c)"},
		4:  {"a / b * c % d", "(% (* (/ a b) c) d)"},
		5:  {"a or b and c", "(or a (and b c))"},
		6:  {"not a = b", "(= (not a) b)"},
		7:  {"-x * 2", "(* (- x) 2)"},
		8:  {"a < b = true", "(= (< a b) true)"},
		9:  {"a-1", "(- a 1)"},
		10: {"f(-1, x)", "(call f -1 x)"},
		11: {"users[0].name", "(field (index users 0) name)"},
		12: {"obj.field1.field2", "(field (field obj field1) field2)"},
		13: {"m[i][j]", "(index (index m i) j)"},
		14: {"f(x).y[2]", "(index (field (call f x) y) 2)"},
		15: {"(a).b", "(field a b)"},
		16: {"a かつ b または 否定 c", "(or (and a b) (not c))"},
		17: {"x % 3 ≠ 0", "(≠ (% x 3) 0)"},
		18: {"a\n+ b", "(+ a b)"},
		19: {`'c' + "s"`, `(+ 'c' "s")`},
		20: {"0xFF + 0b1010 - 0o17", "(- (+ 255 10) 15)"},
		21: {"1_000.5e-2", "10.005"},
		22: {"f()", "(call f)"},
		23: {"x ≧ 1 and y ≦ 2", "(and (≧ x 1) (≦ y 2))"},
		24: {"- -5", "(- -5)"},
		25: {"array[i]", "(index array i)"},
		26: {"真 または 偽", "(or true false)"},
	} {
		expr, err := parseExpr(t, tc.src)
		if err != nil {
			t.Errorf("case %d %q: %v", i, tc.src, err)
			continue
		}
		if got := sexpr(expr); got != tc.want {
			t.Errorf("case %d %q: got %s, want %s", i, tc.src, got, tc.want)
		}
	}
}

func TestExpressionErrors(t *testing.T) {
	for i, tc := range []struct {
		src   string
		kind  ErrorKind
		found token.Token
	}{
		0:  {"", UnexpectedEndOfInput, token.EOF},
		1:  {"1 +", UnexpectedEndOfInput, token.EOF},
		2:  {"1 2", UnexpectedToken, token.IntLit},
		3:  {"f(1)(2)", UnexpectedToken, token.LParen},
		4:  {"5[0]", UnexpectedToken, token.LBracket},
		5:  {"a.(b)", ExpectedIdentifier, token.LParen},
		6:  {"*", ExpectedPrimaryExpression, token.Asterisk},
		7:  {"(1", UnexpectedEndOfInput, token.EOF},
		8:  {"f(1 2)", UnexpectedToken, token.IntLit},
		9:  {"a.", UnexpectedEndOfInput, token.EOF},
		10: {"array + 1", ExpectedPrimaryExpression, token.ARRAY},
		11: {"x)", UnexpectedToken, token.RParen},
	} {
		_, err := parseExpr(t, tc.src)
		if !errors.Is(err, tc.kind) {
			t.Errorf("case %d %q: want %v, got %v", i, tc.src, tc.kind, err)
			continue
		}
		var ee *ExprError
		require.True(t, errors.As(err, &ee), "case %d", i)
		if ee.Found.Tok != tc.found {
			t.Errorf("case %d %q: found %v, want %v", i, tc.src, ee.Found.Tok, tc.found)
		}
		if ee.Kind == UnexpectedEndOfInput && ee.Expected == "" {
			t.Errorf("case %d %q: end of input without expectation", i, tc.src)
		}
	}
}

func TestExpressionDepthGuard(t *testing.T) {
	shallow := strings.Repeat("(", 50) + "1" + strings.Repeat(")", 50)
	_, err := parseExpr(t, shallow)
	require.NoError(t, err)

	deep := strings.Repeat("(", 150) + "1" + strings.Repeat(")", 150)
	_, err = parseExpr(t, deep)
	require.ErrorIs(t, err, ExpressionTooComplex)

	_, err = parseExpr(t, strings.Repeat("not ", 150)+"x")
	require.ErrorIs(t, err, ExpressionTooComplex)

	// Long flat chains do not nest.
	_, err = parseExpr(t, "x"+strings.Repeat(" + x", 5000))
	require.NoError(t, err)
}

func TestExpressionPositions(t *testing.T) {
	expr, err := parseExpr(t, "foo + -bar[1]")
	require.NoError(t, err)
	bin := expr.(*ast.BinaryExpr)
	require.Equal(t, token.Position{Line: 1, Col: 1, Offset: 0}, bin.Pos())
	un := bin.Right.(*ast.UnaryExpr)
	require.Equal(t, 7, un.Pos().Col)
	access := un.Operand.(*ast.ArrayAccess)
	require.Equal(t, 8, access.Pos().Col)
}

func TestParseExpressionWithoutEOF(t *testing.T) {
	toks := []TokenTuple{
		{Tok: token.Identifier, Lit: "a", Pos: token.Position{Line: 1, Col: 1}},
		{Tok: token.Plus, Lit: "+", Pos: token.Position{Line: 1, Col: 3}},
	}
	_, err := ParseExpression(toks)
	var ee *ExprError
	require.ErrorAs(t, err, &ee)
	require.Equal(t, UnexpectedEndOfInput, ee.Kind)

	expr, err := ParseExpression(toks[:1])
	require.NoError(t, err)
	require.Equal(t, "a", sexpr(expr))
}
