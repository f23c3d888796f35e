package cmd

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/soypat/go-pseudo"
	"github.com/soypat/go-pseudo/ast"
)

// fmtResult is the outcome of formatting one file.
type fmtResult struct {
	src       string
	formatted string
	err       error // parse error of src
}

func (r fmtResult) changed() bool { return r.err == nil && r.src != r.formatted }

func newFmtCmd(o *rootOptions) *cobra.Command {
	var write, list, japanese, tabs bool
	var indent int
	cmd := &cobra.Command{
		Use:   "fmt FILE...",
		Short: "Print files in canonical form",
		Long: `Parses each FILE and prints it in canonical form. Files are processed
concurrently and printed in argument order.

Examples:
  pseudo fmt sort.pseudo
  pseudo fmt -w --japanese *.pseudo
  pseudo fmt -l --indent 2 src/*.pseudo`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format := o.cfg.Format
			flags := cmd.Flags()
			if flags.Changed("japanese") {
				format.Japanese = japanese
			}
			if flags.Changed("tabs") {
				format.UseTabs = tabs
			}
			if flags.Changed("indent") {
				if indent <= 0 {
					return fmt.Errorf("invalid indent %d", indent)
				}
				format.IndentWidth = indent
			}
			if write && slices.Contains(args, "-") {
				return errors.New("cannot write result to standard input")
			}

			results := make([]fmtResult, len(args))
			var g errgroup.Group
			g.SetLimit(format.Workers)
			for i, path := range args {
				i, path := i, path
				g.Go(func() error {
					src, err := o.readSource(cmd, path)
					if err != nil {
						return err
					}
					results[i] = formatSource(src, format.Pretty())
					if write && results[i].changed() {
						if err := writeFile(path, results[i].formatted); err != nil {
							return err
						}
						o.log.Info("formatted", "file", path)
					}
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			failed := 0
			out, errw := cmd.OutOrStdout(), cmd.ErrOrStderr()
			for i, res := range results {
				switch {
				case res.err != nil:
					failed++
					printError(errw, res.err, args[i], res.src)
				case list:
					if res.changed() {
						fmt.Fprintln(out, args[i])
					}
				case !write:
					fmt.Fprint(out, res.formatted)
				}
			}
			if failed > 0 {
				return errReported
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&write, "write", "w", false, "write result to the source file instead of stdout")
	cmd.Flags().BoolVarP(&list, "list", "l", false, "list files whose formatting differs")
	cmd.Flags().BoolVar(&japanese, "japanese", false, "print Japanese keywords")
	cmd.Flags().BoolVar(&tabs, "tabs", false, "indent with tabs")
	cmd.Flags().IntVar(&indent, "indent", ast.DefaultIndentWidth, "spaces per indentation level")
	return cmd
}

func formatSource(src string, cfg ast.PrettyConfig) fmtResult {
	stmts, err := pseudo.Parse(src)
	if err != nil {
		return fmtResult{src: src, err: err}
	}
	return fmtResult{src: src, formatted: cfg.SprintStatements(stmts)}
}

func writeFile(path, content string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), info.Mode().Perm())
}
