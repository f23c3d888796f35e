package pseudo

import (
	"errors"
	"strings"

	"github.com/soypat/go-pseudo/ast"
	"github.com/soypat/go-pseudo/token"
)

// REPL gathers interactive input line by line until it holds a complete
// program. The zero value is ready to use.
type REPL struct {
	buf   strings.Builder
	lines int
}

// Feed appends line to the pending input and tries to parse it. While the
// input ends inside an open construct Feed returns done=false and keeps the
// input. A blank line forces the pending input to be parsed as is. Once done
// the pending input is cleared and stmts or err hold the outcome.
func (r *REPL) Feed(line string) (stmts []ast.Statement, done bool, err error) {
	blank := strings.TrimSpace(line) == ""
	if blank && r.lines == 0 {
		return nil, true, nil
	}
	if r.lines > 0 {
		r.buf.WriteByte('\n')
	}
	r.buf.WriteString(line)
	r.lines++

	stmts, err = Parse(r.buf.String())
	if err != nil && !blank && Incomplete(err) {
		return nil, false, nil
	}
	r.Reset()
	return stmts, true, err
}

// Pending reports whether a continuation line is expected.
func (r *REPL) Pending() bool { return r.lines > 0 }

// Source returns the pending input.
func (r *REPL) Source() string { return r.buf.String() }

// Reset drops the pending input.
func (r *REPL) Reset() {
	r.buf.Reset()
	r.lines = 0
}

// Incomplete reports whether err was caused by input that ended before an open
// construct was closed, so more input could make it valid.
func Incomplete(err error) bool {
	var ee *ExprError
	var se *StmtError
	switch {
	case errors.Is(err, UnterminatedComment):
		return true
	case errors.As(err, &ee):
		return ee.Found.Tok == token.EOF
	case errors.As(err, &se):
		return se.Found.Tok == token.EOF
	}
	return false
}
