package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/soypat/go-pseudo"
)

const (
	promptMain  = "pseudo> "
	promptCont  = "    ... "
	historyFile = ".pseudo_history"
)

// prompter reads one line of input. *liner.State implements it.
type prompter interface {
	Prompt(prompt string) (string, error)
}

func newReplCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Read statements interactively",
		Long: `Reads statements and prints them back in canonical form. Input that
ends inside an open construct continues on the next line. An empty line
ends the input early.

Commands:
  :ja    print Japanese keywords
  :en    print English keywords
  :quit  exit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ln := liner.NewLiner()
			defer ln.Close()
			ln.SetCtrlCAborts(true)

			home, _ := os.UserHomeDir()
			histPath := filepath.Join(home, historyFile)
			if f, err := os.Open(histPath); err == nil {
				_, _ = ln.ReadHistory(f)
				_ = f.Close()
			}
			defer func() {
				if f, err := os.Create(histPath); err == nil {
					_, _ = ln.WriteHistory(f)
					_ = f.Close()
				}
			}()
			return o.runREPL(ln, cmd.OutOrStdout(), cmd.ErrOrStderr(), ln.AppendHistory)
		},
	}
}

func (o *rootOptions) runREPL(in prompter, out, errw io.Writer, history func(string)) error {
	cfg := o.cfg.Format.Pretty()
	var r pseudo.REPL
	for {
		prompt := promptMain
		if r.Pending() {
			prompt = promptCont
		}
		line, err := in.Prompt(prompt)
		switch {
		case errors.Is(err, io.EOF):
			fmt.Fprintln(out)
			return nil
		case errors.Is(err, liner.ErrPromptAborted):
			r.Reset()
			continue
		case err != nil:
			return err
		}

		if !r.Pending() {
			switch strings.TrimSpace(line) {
			case ":quit", ":q":
				return nil
			case ":ja":
				cfg.Japanese = true
				continue
			case ":en":
				cfg.Japanese = false
				continue
			}
		}
		if strings.TrimSpace(line) != "" && history != nil {
			history(line)
		}

		src := line
		if r.Pending() {
			src = r.Source() + "\n" + line
		}
		stmts, done, err := r.Feed(line)
		if !done {
			continue
		}
		if err != nil {
			printError(errw, err, "<repl>", src)
			continue
		}
		fmt.Fprint(out, cfg.SprintStatements(stmts))
	}
}
