package pseudo

import (
	"strconv"

	"github.com/soypat/go-pseudo/ast"
	"github.com/soypat/go-pseudo/token"
)

// RoundTripKind says which round-trip check failed. Like [ErrorKind] it is an
// error so errors.Is(err, pseudo.ASTMismatch) works on a *RoundTripError.
type RoundTripKind uint8

const (
	_ RoundTripKind = iota
	// ASTMismatch means the printed source parsed to a different tree.
	ASTMismatch
	// ReparseFailure means the printed source did not parse.
	ReparseFailure
	// SemanticMismatch means the original and printed sources differ textually
	// after whitespace, comments and keyword language are normalized. The check
	// is a heuristic and only runs when RoundTripper.CompareText is set.
	SemanticMismatch
)

func (k RoundTripKind) String() string {
	switch k {
	case ASTMismatch:
		return "astMismatch"
	case ReparseFailure:
		return "reparseFailure"
	case SemanticMismatch:
		return "semanticMismatch"
	}
	return "RoundTripKind(" + strconv.Itoa(int(k)) + ")"
}

func (k RoundTripKind) Error() string { return k.String() }

// RoundTripError is returned when printed source does not reproduce the tree
// it was printed from.
type RoundTripError struct {
	Kind RoundTripKind
	// Diff is the tree difference (-original +reparsed) for ASTMismatch or the
	// first differing token for SemanticMismatch.
	Diff string
	// Source is the regenerated source.
	Source string
	// Err is the parse error of Source for ReparseFailure.
	Err error
}

func (e *RoundTripError) Error() string {
	switch e.Kind {
	case ReparseFailure:
		return "round trip: regenerated source does not parse: " + e.Err.Error()
	case ASTMismatch:
		return "round trip: regenerated source parses to a different tree (-original +reparsed):\n" + e.Diff
	}
	return "round trip: " + e.Kind.String() + ": " + e.Diff
}

func (e *RoundTripError) Unwrap() error { return e.Err }

func (e *RoundTripError) Is(target error) bool { return target == e.Kind }

// Diagnostic reports the reparse error for ReparseFailure. The other kinds have no
// source position of their own.
func (e *RoundTripError) Diagnostic() Diagnostic {
	if d, ok := Diagnose(e.Err); ok {
		return d
	}
	d := Diagnostic{
		Name:    e.Kind.String(),
		Pattern: PatternMessage,
		Detail:  e.Diff,
	}
	switch e.Kind {
	case ASTMismatch:
		d.Message = "regenerated source parses to a different tree"
	case SemanticMismatch:
		d.Message = "regenerated source differs from the original"
	default:
		d.Message = "round trip failed"
	}
	if e.Diff != "" {
		d.Fields = []Field{{"diff", e.Diff}}
	}
	return d
}

// RoundTripResult holds the parsed tree and the source regenerated from it.
type RoundTripResult struct {
	Statements []ast.Statement
	Source     string
}

// RoundTripper checks that printing a parsed tree and parsing the output again
// yields the same tree. The zero value uses the default printer configuration.
type RoundTripper struct {
	Config ast.PrettyConfig
	// CompareText enables the SemanticMismatch check.
	CompareText bool
}

// RoundTrip parses src with the default configuration and checks the result.
func RoundTrip(src string) (RoundTripResult, error) {
	var rt RoundTripper
	return rt.RoundTrip(src)
}

// RoundTrip parses src, prints it and parses the printed source. A parse error of
// src is returned unchanged. Failures of the round trip itself are returned as
// *RoundTripError alongside the result.
func (rt RoundTripper) RoundTrip(src string) (RoundTripResult, error) {
	stmts, err := Parse(src)
	if err != nil {
		return RoundTripResult{}, err
	}
	res := RoundTripResult{Statements: stmts, Source: rt.Config.SprintStatements(stmts)}
	again, err := Parse(res.Source)
	if err != nil {
		return res, &RoundTripError{Kind: ReparseFailure, Source: res.Source, Err: err}
	}
	if diff := ast.Diff(stmts, again); diff != "" {
		return res, &RoundTripError{Kind: ASTMismatch, Source: res.Source, Diff: diff}
	}
	if rt.CompareText {
		if diff := textDiff(src, res.Source); diff != "" {
			return res, &RoundTripError{Kind: SemanticMismatch, Source: res.Source, Diff: diff}
		}
	}
	return res, nil
}

// textDiff compares the significant tokens of two sources and describes the first
// difference. Keywords match regardless of spelling language.
func textDiff(original, regenerated string) string {
	a, err := significantTokens(original)
	if err != nil {
		return err.Error()
	}
	b, err := significantTokens(regenerated)
	if err != nil {
		return err.Error()
	}
	for i := 0; i < len(a) || i < len(b); i++ {
		switch {
		case i >= len(a):
			return "regenerated source has extra " + b[i].describe() + " at " + b[i].Pos.String()
		case i >= len(b):
			return "regenerated source is missing " + a[i].describe() + " from " + a[i].Pos.String()
		case !sameLexeme(a[i], b[i]):
			return a[i].Pos.String() + ": " + a[i].describe() + " became " + b[i].describe() + " at " + b[i].Pos.String()
		}
	}
	return ""
}

func significantTokens(src string) ([]TokenTuple, error) {
	toks, err := Tokenize(src)
	if err != nil {
		return nil, err
	}
	out := toks[:0]
	for _, tt := range toks {
		switch tt.Tok {
		case token.NewLine, token.Semicolon, token.EOF:
			continue
		}
		out = append(out, tt)
	}
	return out, nil
}

func sameLexeme(a, b TokenTuple) bool {
	if a.Tok != b.Tok {
		return false
	}
	return a.Tok.IsKeyword() || a.Tok.IsOperator() || a.Tok.IsDelimiter() || a.Lit == b.Lit
}
