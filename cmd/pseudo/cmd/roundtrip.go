package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/soypat/go-pseudo"
)

func newRoundTripCmd(o *rootOptions) *cobra.Command {
	var text bool
	cmd := &cobra.Command{
		Use:   "roundtrip FILE...",
		Short: "Verify that printed files parse to the same tree",
		Long: `Parses each FILE, prints it in canonical form and parses the result
again. The two trees must be equal. With --text the significant tokens of
the original and printed sources must also match.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt := pseudo.RoundTripper{
				Config:      o.cfg.Format.Pretty(),
				CompareText: o.cfg.RoundTrip.CompareText,
			}
			if cmd.Flags().Changed("text") {
				rt.CompareText = text
			}
			out, errw := cmd.OutOrStdout(), cmd.ErrOrStderr()
			failed := 0
			for _, path := range args {
				src, err := o.readSource(cmd, path)
				if err != nil {
					return err
				}
				_, err = rt.RoundTrip(src)
				if err == nil {
					fmt.Fprintf(out, "ok  %s\n", path)
					continue
				}
				failed++
				name := path
				var rte *pseudo.RoundTripError
				if errors.As(err, &rte) && rte.Kind == pseudo.ReparseFailure {
					// Positions refer to the printed source.
					name, src = path+" (printed)", rte.Source
				}
				fmt.Fprintf(out, "FAIL %s\n", path)
				printError(errw, err, name, src)
			}
			if failed > 0 {
				return errReported
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&text, "text", false, "also compare the token sequences")
	return cmd
}
