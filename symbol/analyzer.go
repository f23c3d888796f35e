package symbol

import (
	"github.com/soypat/go-pseudo"
	"github.com/soypat/go-pseudo/ast"
)

// Analyzer is the name resolution [pseudo.Analyzer].
type Analyzer struct {
	Config Config
}

var _ pseudo.Analyzer = Analyzer{}

// Analyze collects declarations, then resolves every name in stmts.
func (a Analyzer) Analyze(stmts []ast.Statement) pseudo.AnalysisResult {
	table := NewTable(a.Config)
	NewDeclarationCollector(table).Collect(stmts)
	errs := NewResolver(table).Resolve(stmts)
	return &Result{table: table, errs: errs}
}

// Result is returned by [Analyzer.Analyze].
type Result struct {
	table *Table
	errs  []error
}

func (res *Result) IsSuccessful() bool { return len(res.errs) == 0 }

// Errors returns the semantic errors in source order. Each is a *Error.
func (res *Result) Errors() []error { return res.errs }

// Table returns the populated symbol table.
func (res *Result) Table() *Table { return res.table }
