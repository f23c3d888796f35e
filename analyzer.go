package pseudo

import "github.com/soypat/go-pseudo/ast"

// Analyzer checks a parsed program beyond its syntax. Implementations receive
// the complete statement list of a successful parse.
type Analyzer interface {
	Analyze(stmts []ast.Statement) AnalysisResult
}

// AnalysisResult is the outcome of an [Analyzer] run. Errors should implement
// [Diagnoser] so they render like parse errors.
type AnalysisResult interface {
	IsSuccessful() bool
	Errors() []error
}

// Check parses src and runs every analyzer over the result. A parse error is
// returned alone; otherwise the analyzer errors are returned in analyzer order.
func Check(src string, analyzers ...Analyzer) ([]ast.Statement, []error) {
	stmts, err := Parse(src)
	if err != nil {
		return nil, []error{err}
	}
	var errs []error
	for _, a := range analyzers {
		if res := a.Analyze(stmts); !res.IsSuccessful() {
			errs = append(errs, res.Errors()...)
		}
	}
	return stmts, errs
}
