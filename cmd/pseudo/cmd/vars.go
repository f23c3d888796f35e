package cmd

import (
	"cmp"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/soypat/go-pseudo"
	"github.com/soypat/go-pseudo/ast"
	"github.com/soypat/go-pseudo/symbol"
)

type varsOptions struct {
	filter   string
	kind     string
	builtins bool
}

func newVarsCmd(o *rootOptions) *cobra.Command {
	var v varsOptions
	cmd := &cobra.Command{
		Use:   "vars FILE...",
		Short: "Print the declared names of files",
		Long: `Resolves the names of each FILE and prints one line per symbol:

  SCOPE KIND(type:name): decl=file:line:col [FLAGS]

Example output:

  global Variable(integer:total): decl=sort.pseudo:3:1 USED
  function(average) Parameter(array of real:xs): decl=sort.pseudo:9:1 USED`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			failed := false
			for _, path := range args {
				src, err := o.readSource(cmd, path)
				if err != nil {
					return err
				}
				stmts, err := pseudo.Parse(src)
				if err != nil {
					printError(cmd.ErrOrStderr(), err, path, src)
					failed = true
					continue
				}
				res := symbol.Analyzer{Config: o.cfg.Check}.Analyze(stmts).(*symbol.Result)
				v.printScope(cmd.OutOrStdout(), res.Table().GlobalScope(), path)
			}
			if failed {
				return errReported
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&v.filter, "filter", "", "only names containing this substring")
	cmd.Flags().StringVar(&v.kind, "kind", "", "only symbols of this kind (variable, constant, parameter, function, procedure)")
	cmd.Flags().BoolVar(&v.builtins, "builtins", false, "include predeclared callables")
	return cmd
}

func (v *varsOptions) printScope(w io.Writer, scope *symbol.Scope, file string) {
	syms := make([]*symbol.Symbol, 0, len(scope.Symbols()))
	for _, sym := range scope.Symbols() {
		syms = append(syms, sym)
	}
	slices.SortFunc(syms, func(a, b *symbol.Symbol) int {
		if c := cmp.Compare(declOffset(a), declOffset(b)); c != 0 {
			return c
		}
		return strings.Compare(a.Name(), b.Name())
	})

	name := scopeName(scope)
	for _, sym := range syms {
		if !v.selects(sym) {
			continue
		}
		fmt.Fprintf(w, "%s %s(%s:%s): decl=%s%s\n", name, sym.Kind(), typeName(sym.Type()), sym.Name(), declLocation(sym, file), flagNames(sym.Flags()))
	}
	for _, child := range scope.Children() {
		v.printScope(w, child, file)
	}
}

func (v *varsOptions) selects(sym *symbol.Symbol) bool {
	switch {
	case sym.Flags().HasAny(symbol.FlagBuiltin) && !v.builtins:
		return false
	case sym.Flags().HasAny(symbol.FlagUndeclared):
		return false
	case v.filter != "" && !strings.Contains(sym.Name(), v.filter):
		return false
	case v.kind != "" && !strings.EqualFold(sym.Kind().String(), v.kind):
		return false
	}
	return true
}

func scopeName(scope *symbol.Scope) string {
	switch n := scope.Node().(type) {
	case *ast.FunctionDeclaration:
		return "function(" + n.Name + ")"
	case *ast.ProcedureDeclaration:
		return "procedure(" + n.Name + ")"
	}
	return "global"
}

func typeName(t ast.DataType) string {
	if t == nil {
		return "-"
	}
	return ast.PrettyConfig{}.SprintType(t)
}

func declOffset(sym *symbol.Symbol) int {
	if sym.DeclNode() == nil {
		return -1
	}
	return sym.DeclNode().Pos().Offset
}

func declLocation(sym *symbol.Symbol, file string) string {
	if sym.DeclNode() == nil {
		return "builtin"
	}
	return file + ":" + sym.DeclNode().Pos().String()
}

func flagNames(f symbol.Flags) string {
	var b strings.Builder
	if f.HasAny(symbol.FlagUsed) {
		b.WriteString(" USED")
	}
	if f.HasAny(symbol.FlagImplicit) {
		b.WriteString(" IMPLICIT")
	}
	return b.String()
}
