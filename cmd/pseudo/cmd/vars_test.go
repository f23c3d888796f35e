package cmd

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const varsSource = `constant N: integer ← 3
variable total: real ← 0.0
for i ← 1 to N do
    total ← total + scale(i)
endfor

function scale(k: integer): real
    variable unused: boolean
    return k * 0.5
endfunction
`

func TestVars(t *testing.T) {
	path := writeTemp(t, t.TempDir(), "v.pseudo", varsSource)

	out, _, err := run(t, "", "vars", path)
	require.NoError(t, err)
	require.Equal(t, ""+
		"global Constant(integer:N): decl="+path+":1:1 USED\n"+
		"global Variable(real:total): decl="+path+":2:1 USED\n"+
		"global Variable(-:i): decl="+path+":3:1 USED IMPLICIT\n"+
		"global Function(real:scale): decl="+path+":7:1 USED\n"+
		"function(scale) Parameter(integer:k): decl="+path+":7:1 USED\n"+
		"function(scale) Variable(boolean:unused): decl="+path+":8:5\n",
		out)

	out, _, err = run(t, "", "vars", "--kind", "variable", "--filter", "t", path)
	require.NoError(t, err)
	require.Equal(t, "global Variable(real:total): decl="+path+":2:1 USED\n", out)

	out, _, err = run(t, "", "vars", "--builtins", "--kind", "builtin", "--filter", "sqrt", path)
	require.NoError(t, err)
	require.Equal(t, "global Builtin(-:sqrt): decl=builtin\n", out)

	_, stderr, err := run(t, "if endif", "vars", "-")
	require.ErrorIs(t, err, errReported)
	require.Contains(t, stderr, "error[")
}
