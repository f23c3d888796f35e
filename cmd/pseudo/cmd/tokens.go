package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/soypat/go-pseudo"
	"github.com/soypat/go-pseudo/token"
)

func newTokensCmd(o *rootOptions) *cobra.Command {
	var output string
	var trivia bool
	cmd := &cobra.Command{
		Use:   "tokens FILE",
		Short: "Print the token stream of a file",
		Long: `Prints every token of FILE with its position. Whitespace and comments
are left out unless --trivia is given. FILE "-" reads standard input.

Examples:
  pseudo tokens sort.pseudo
  pseudo tokens -o yaml --trivia sort.pseudo`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output != "table" && output != "yaml" {
				return fmt.Errorf("unknown output format %q", output)
			}
			src, err := o.readSource(cmd, args[0])
			if err != nil {
				return err
			}
			toks, err := scanTokens(src, trivia)
			if err != nil {
				printError(cmd.ErrOrStderr(), err, args[0], src)
				return errReported
			}
			if output == "yaml" {
				return writeTokenYAML(cmd.OutOrStdout(), toks)
			}
			writeTokenTable(cmd.OutOrStdout(), toks)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "table", "output format (table, yaml)")
	cmd.Flags().BoolVar(&trivia, "trivia", false, "include whitespace and comment tokens")
	return cmd
}

func scanTokens(src string, trivia bool) ([]pseudo.TokenTuple, error) {
	if !trivia {
		return pseudo.Tokenize(src)
	}
	var l pseudo.Lexer
	l.Reset(src)
	var toks []pseudo.TokenTuple
	for {
		tt, err := l.NextToken()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tt)
		if tt.Tok == token.EOF {
			return toks, nil
		}
	}
}

// tokenRecord is the YAML form of a token.
type tokenRecord struct {
	Line   int    `yaml:"line"`
	Col    int    `yaml:"col"`
	Offset int    `yaml:"offset"`
	Token  string `yaml:"token"`
	Lit    string `yaml:"lit,omitempty"`
}

func writeTokenYAML(w io.Writer, toks []pseudo.TokenTuple) error {
	records := make([]tokenRecord, len(toks))
	for i, tt := range toks {
		records[i] = tokenRecord{
			Line:   tt.Pos.Line,
			Col:    tt.Pos.Col,
			Offset: tt.Pos.Offset,
			Token:  tt.Tok.String(),
			Lit:    tt.Lit,
		}
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(records); err != nil {
		return err
	}
	return enc.Close()
}

func writeTokenTable(w io.Writer, toks []pseudo.TokenTuple) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Pos", "Token", "Lexeme"})
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetBorder(false)
	for _, tt := range toks {
		lit := ""
		if tt.Lit != "" {
			lit = strconv.Quote(tt.Lit)
		}
		table.Append([]string{tt.Pos.String(), tt.Tok.String(), lit})
	}
	table.Render()
}
