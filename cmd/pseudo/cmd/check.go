package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/soypat/go-pseudo"
	"github.com/soypat/go-pseudo/symbol"
)

func newCheckCmd(o *rootOptions) *cobra.Command {
	var implicit bool
	cmd := &cobra.Command{
		Use:   "check FILE...",
		Short: "Parse files and resolve their names",
		Long: `Parses each FILE and reports undeclared names and calls with the wrong
number of arguments. The exit status is 1 when any problem is found.

Predeclared callables can be replaced in the [check] section of the config:

  [[check.builtins]]
  name = "出力"
  min = 1
  max = -1`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			analyzer := symbol.Analyzer{Config: o.cfg.Check}
			if cmd.Flags().Changed("implicit") {
				analyzer.Config.ImplicitDeclarations = implicit
			}
			errw := cmd.ErrOrStderr()
			problems, files := 0, 0
			for _, path := range args {
				src, err := o.readSource(cmd, path)
				if err != nil {
					return err
				}
				_, errs := pseudo.Check(src, analyzer)
				o.log.Debug("checked", "file", path, "problems", len(errs))
				for _, err := range errs {
					printError(errw, err, path, src)
				}
				if len(errs) > 0 {
					problems += len(errs)
					files++
				}
			}
			if problems > 0 {
				fmt.Fprintf(errw, "%d problem(s) in %d file(s)\n", problems, files)
				return errReported
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&implicit, "implicit", false, "let assignments declare unknown variables")
	return cmd
}
