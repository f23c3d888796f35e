package pseudo

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/soypat/go-pseudo/ast"
)

func TestREPL_Continuation(t *testing.T) {
	var r REPL
	stmts, done, err := r.Feed("")
	require.True(t, done)
	require.NoError(t, err)
	require.Nil(t, stmts)

	for _, line := range []string{"if x then", "    y ← 1", "else"} {
		_, done, err = r.Feed(line)
		require.NoError(t, err)
		require.False(t, done, line)
		require.True(t, r.Pending())
	}
	stmts, done, err = r.Feed("endif")
	require.NoError(t, err)
	require.True(t, done)
	require.False(t, r.Pending())
	require.Len(t, stmts, 1)
	ifs, ok := stmts[0].(*ast.IfStmt)
	require.True(t, ok)
	require.NotNil(t, ifs.Else)
	require.Len(t, ifs.Then, 1)
}

func TestREPL_BlankLineForcesParse(t *testing.T) {
	var r REPL
	_, done, _ := r.Feed("while a do")
	require.False(t, done)
	require.Equal(t, "while a do", r.Source())

	stmts, done, err := r.Feed("")
	require.True(t, done)
	require.Nil(t, stmts)
	require.ErrorIs(t, err, ExpectedTokens)
	require.Equal(t, "", r.Source())
}

func TestREPL_Errors(t *testing.T) {
	var r REPL
	_, done, err := r.Feed("endif")
	require.True(t, done)
	require.ErrorIs(t, err, UnexpectedToken)
	require.False(t, r.Pending())

	_, done, _ = r.Feed("/* comment")
	require.False(t, done)
	stmts, done, err := r.Feed("*/ x ← 1")
	require.NoError(t, err)
	require.True(t, done)
	require.Len(t, stmts, 1)
}

func TestIncomplete(t *testing.T) {
	for i, tc := range []struct {
		src  string
		want bool
	}{
		0: {"x ← (1 + 2", true},
		1: {"if x then", true},
		2: {"function f(a: integer): integer", true},
		3: {"/* open", true},
		4: {"x ← \"open", false},
		5: {"endif", false},
		6: {"x ← )", false},
	} {
		_, err := Parse(tc.src)
		require.Error(t, err, "case %d", i)
		require.Equal(t, tc.want, Incomplete(err), "case %d: %v", i, err)
	}
	require.False(t, Incomplete(nil))
}
