package cmd

import (
	"errors"
	"fmt"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"github.com/soypat/go-pseudo"
	"github.com/soypat/go-pseudo/ast"
)

var dumpConfig = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
}

func newParseCmd(o *rootOptions) *cobra.Command {
	var format string
	var trace, positions bool
	cmd := &cobra.Command{
		Use:   "parse FILE",
		Short: "Print the syntax tree of a file",
		Long: `Parses FILE and prints its syntax tree. FILE "-" reads standard input.

Formats:
  tree  - indented field listing
  spew  - Go value dump

With --trace a failed parse also prints the parser call stack.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "tree" && format != "spew" {
				return fmt.Errorf("unknown format %q", format)
			}
			src, err := o.readSource(cmd, args[0])
			if err != nil {
				return err
			}
			p := pseudo.Parser{Trace: trace}
			toks, err := pseudo.Tokenize(src)
			if err == nil {
				var stmts []ast.Statement
				stmts, err = p.ParseStatements(toks)
				if err == nil {
					return printTree(cmd, format, positions, stmts)
				}
			}
			errw := cmd.ErrOrStderr()
			printError(errw, err, args[0], src)
			var se *pseudo.StmtError
			if errors.As(err, &se) && se.Stack != "" {
				fmt.Fprint(errw, "parser stack:\n", se.Stack)
			}
			return errReported
		},
	}
	cmd.Flags().StringVar(&format, "format", "tree", "output format (tree, spew)")
	cmd.Flags().BoolVar(&trace, "trace", false, "print the parser call stack on error")
	cmd.Flags().BoolVar(&positions, "positions", false, "include source positions in tree output")
	return cmd
}

func printTree(cmd *cobra.Command, format string, positions bool, stmts []ast.Statement) error {
	w := cmd.OutOrStdout()
	if format == "spew" {
		dumpConfig.Fdump(w, stmts)
		return nil
	}
	filter := ast.NoPositionFilter
	if positions {
		filter = ast.NotNilFilter
	}
	return ast.Fprint(w, &ast.Program{Statements: stmts}, filter)
}
