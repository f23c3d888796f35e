package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/soypat/go-pseudo"
)

// errReported is returned by commands whose failures were already printed.
var errReported = errors.New("errors reported")

// rootOptions is shared by every subcommand.
type rootOptions struct {
	cfgFile string
	verbose bool
	noColor bool

	cfg Config
	log *slog.Logger
}

// Execute runs the pseudo command line.
func Execute() error {
	root := newRootCmd()
	err := root.Execute()
	if err != nil && !errors.Is(err, errReported) {
		fmt.Fprintf(root.ErrOrStderr(), "pseudo: %v\n", err)
	}
	return err
}

func newRootCmd() *cobra.Command {
	o := &rootOptions{cfg: DefaultConfig()}
	root := &cobra.Command{
		Use:   "pseudo",
		Short: "Bilingual pseudocode toolkit",
		Long: `pseudo reads pseudocode written with English or Japanese keywords.

Commands:
  tokens     - print the token stream of a file
  parse      - print the syntax tree of a file
  fmt        - print files in canonical form
  check      - parse files and resolve their names
  roundtrip  - verify that printed files parse to the same tree
  repl       - read statements interactively
  grep       - search files, optionally skipping comments
  vars       - list the declared names of files`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return o.setup(cmd)
		},
	}
	root.PersistentFlags().StringVar(&o.cfgFile, "config", "", "config file (default: $PSEUDO_CONFIG, ./pseudo.toml or ./pseudo.yaml)")
	root.PersistentFlags().BoolVarP(&o.verbose, "verbose", "v", false, "verbose output")
	root.PersistentFlags().BoolVar(&o.noColor, "no-color", false, "disable colored diagnostics")

	root.AddCommand(
		newTokensCmd(o),
		newParseCmd(o),
		newFmtCmd(o),
		newCheckCmd(o),
		newRoundTripCmd(o),
		newReplCmd(o),
		newGrepCmd(o),
		newVarsCmd(o),
	)
	return root
}

func (o *rootOptions) setup(cmd *cobra.Command) error {
	level := slog.LevelInfo
	if o.verbose {
		level = slog.LevelDebug
	}
	o.log = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	if o.noColor {
		color.NoColor = true
	}

	path := o.cfgFile
	if path == "" {
		path = findConfig()
	}
	if path == "" {
		return nil
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		return err
	}
	o.cfg = *cfg
	o.log.Debug("config loaded", "path", path)
	return nil
}

// readSource reads a file, or standard input when path is "-".
func (o *rootOptions) readSource(cmd *cobra.Command, path string) (string, error) {
	var b []byte
	var err error
	if path == "-" {
		b, err = io.ReadAll(cmd.InOrStdin())
	} else {
		b, err = os.ReadFile(path)
	}
	if err != nil {
		return "", err
	}
	o.log.Debug("read source", "file", path, "bytes", len(b))
	return string(b), nil
}

var (
	colorError = color.New(color.FgRed, color.Bold)
	colorLoc   = color.New(color.FgCyan)
	colorHint  = color.New(color.FgGreen)
)

// printError writes the diagnostic for err, colored when the terminal allows.
func printError(w io.Writer, err error, name, src string) {
	text := pseudo.FormatError(err, name, src)
	for _, line := range strings.SplitAfter(text, "\n") {
		switch {
		case line == "":
		case strings.HasPrefix(line, "error"):
			head, msg, _ := strings.Cut(line, ": ")
			colorError.Fprint(w, head+":")
			fmt.Fprint(w, " "+msg)
		case strings.HasPrefix(line, " --> "):
			colorLoc.Fprint(w, line)
		case strings.HasPrefix(line, " = hint: "):
			colorHint.Fprint(w, line)
		default:
			fmt.Fprint(w, line)
		}
	}
}
