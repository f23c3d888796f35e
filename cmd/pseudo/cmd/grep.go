package cmd

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/spf13/cobra"

	"github.com/soypat/go-pseudo"
	"github.com/soypat/go-pseudo/token"
)

type grepOptions struct {
	ignoreCase bool
	noComments bool
	filesOnly  bool
	invert     bool
	noNumbers  bool
	before     int
	after      int
	context    int
}

func newGrepCmd(o *rootOptions) *cobra.Command {
	var g grepOptions
	cmd := &cobra.Command{
		Use:   "grep PATTERN FILE...",
		Short: "Search source files with comment awareness",
		Long: `Prints the lines of each FILE matching the regular expression PATTERN.
With -c lines holding only comments are skipped; block comments spanning
several lines count for each of them.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pattern := args[0]
			if g.ignoreCase {
				pattern = "(?i)" + pattern
			}
			re, err := regexp.Compile(pattern)
			if err != nil {
				return fmt.Errorf("invalid pattern: %w", err)
			}
			if g.context > 0 {
				g.before, g.after = g.context, g.context
			}
			files := args[1:]
			matched := false
			for _, path := range files {
				src, err := o.readSource(cmd, path)
				if err != nil {
					return err
				}
				lines, err := commentLines(src)
				if err != nil {
					printError(cmd.ErrOrStderr(), err, path, src)
					return errReported
				}
				prefix := ""
				if len(files) > 1 {
					prefix = path + ":"
				}
				if g.search(cmd.OutOrStdout(), re, lines, path, prefix) {
					matched = true
				}
			}
			if !matched {
				return errReported
			}
			return nil
		},
	}
	flags := cmd.Flags()
	flags.BoolVarP(&g.ignoreCase, "ignore-case", "i", false, "case-insensitive matching")
	flags.BoolVarP(&g.noComments, "no-comments", "c", false, "skip comment-only lines")
	flags.BoolVarP(&g.filesOnly, "files-with-matches", "l", false, "only print names of files with matches")
	flags.BoolVar(&g.invert, "invert-match", false, "select non-matching lines")
	flags.BoolVar(&g.noNumbers, "no-line-numbers", false, "omit line numbers")
	flags.IntVarP(&g.after, "after-context", "A", 0, "print num lines after each match")
	flags.IntVarP(&g.before, "before-context", "B", 0, "print num lines before each match")
	flags.IntVarP(&g.context, "context", "C", 0, "print num lines around each match")
	return cmd
}

// sourceLine is one line of a file.
type sourceLine struct {
	text        string
	commentOnly bool
}

// commentLines splits src into lines and marks the lines holding nothing
// but comments and whitespace.
func commentLines(src string) ([]sourceLine, error) {
	texts := strings.Split(src, "\n")
	if n := len(texts); n > 1 && texts[n-1] == "" {
		texts = texts[:n-1]
	}
	hasCode := make([]bool, len(texts)+2)
	hasComment := make([]bool, len(texts)+2)

	var l pseudo.Lexer
	l.Reset(src)
	for {
		tt, err := l.NextToken()
		if err != nil {
			return nil, err
		}
		if tt.Tok == token.EOF {
			break
		}
		line := tt.Pos.Line
		if line >= len(hasCode) {
			continue
		}
		switch tt.Tok {
		case token.Comment:
			last := min(line+strings.Count(tt.Lit, "\n"), len(texts))
			for ; line <= last; line++ {
				hasComment[line] = true
			}
		case token.Whitespace, token.NewLine:
		default:
			hasCode[line] = true
		}
	}

	lines := make([]sourceLine, len(texts))
	for i, text := range texts {
		lines[i] = sourceLine{text: text, commentOnly: hasComment[i+1] && !hasCode[i+1]}
	}
	return lines, nil
}

// search prints the matches in lines and reports whether any line matched.
func (g *grepOptions) search(w io.Writer, re *regexp.Regexp, lines []sourceLine, name, prefix string) bool {
	var matches []int
	for i, ln := range lines {
		if g.noComments && ln.commentOnly {
			continue
		}
		if re.MatchString(ln.text) != g.invert {
			matches = append(matches, i)
		}
	}
	if len(matches) == 0 {
		return false
	}
	if g.filesOnly {
		fmt.Fprintln(w, name)
		return true
	}

	// Lines to print. false marks context lines.
	selected := make(map[int]bool)
	for _, m := range matches {
		selected[m] = true
		for j := max(0, m-g.before); j <= min(len(lines)-1, m+g.after); j++ {
			if _, ok := selected[j]; !ok {
				selected[j] = false
			}
		}
	}

	last := -1
	for i, ln := range lines {
		isMatch, ok := selected[i]
		if !ok {
			continue
		}
		if last >= 0 && i > last+1 && !g.onlyCommentsBetween(lines, last, i) {
			fmt.Fprintln(w, "--")
		}
		last = i
		sep := ":"
		if !isMatch {
			sep = "-"
		}
		if g.noNumbers {
			fmt.Fprintf(w, "%s%s\n", prefix, ln.text)
		} else {
			fmt.Fprintf(w, "%s%d%s%s\n", prefix, i+1, sep, ln.text)
		}
	}
	return true
}

// onlyCommentsBetween reports whether the gap between two printed lines
// consists of skipped comment lines.
func (g *grepOptions) onlyCommentsBetween(lines []sourceLine, from, to int) bool {
	if !g.noComments {
		return false
	}
	for j := from + 1; j < to; j++ {
		if !lines[j].commentOnly {
			return false
		}
	}
	return true
}
