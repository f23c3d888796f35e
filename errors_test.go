package pseudo

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorMessages(t *testing.T) {
	for i, tc := range []struct {
		src  string
		want string
	}{
		0: {"x ← 1__0", `1:5: invalid underscore placement "1__0"`},
		1: {"x ← 1 2", `1:7: unexpected token number 2, expected end of expression`},
		2: {"if x do endif", `1:6: unexpected keyword "do", expected "then"`},
		3: {"while x do", `1:11: unexpected end of input, expected "endwhile"`},
		4: {"variable x: 5", `1:13: expected data type, found number 5`},
		5: {"x ← 'ab", `1:5: unterminated string "'ab": missing closing '`},
		6: {"x ← 1 +", `1:8: unexpected end of input, expected expression`},
	} {
		_, err := Parse(tc.src)
		require.Error(t, err, "case %d", i)
		require.Equal(t, tc.want, err.Error(), "case %d", i)
	}
}

func TestErrorChain(t *testing.T) {
	_, err := Parse("if (a + then endif")
	require.Error(t, err)

	var se *StmtError
	require.ErrorAs(t, err, &se)
	var ee *ExprError
	require.ErrorAs(t, err, &ee, "expression failures keep their expression error")
	require.Equal(t, se.Kind, ee.Kind)
	require.Equal(t, se.Pos, ee.Pos)
	require.ErrorIs(t, err, UnexpectedToken)
	require.NotErrorIs(t, err, UnexpectedEndOfInput)
	require.Equal(t, StageExpression, ee.Kind.Stage())

	// A lexical error inside a statement keeps its kind and position.
	_, err = Parse("x ← 0o9")
	var le *LexError
	require.ErrorAs(t, err, &le)
	require.ErrorIs(t, err, InvalidDigitForBase)
	require.Equal(t, 5, le.Pos.Col)
	require.False(t, errors.As(err, &se))
}

func TestStageString(t *testing.T) {
	for stage, want := range map[Stage]string{
		StageLexical:    "lexical",
		StageExpression: "expression",
		StageStatement:  "statement",
		StageSemantic:   "semantic",
		0:               "unknown",
	} {
		require.Equal(t, want, stage.String())
	}
	require.Equal(t, "nestingTooDeep", NestingTooDeep.Error())
}
