package main

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"dfilter/query"
)

var errInvalid = errors.New("invalid filter")

func checkCmd() *cobra.Command {

	var (
		tokens   bool
		printAll bool
	)

	cmd := &cobra.Command{
		Use:   "check <filter> [capture]",
		Short: "Validate a filter, counting matches when a capture is given",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) (err error) {

			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			text := args[0]

			an := query.Analyze(text)
			if tokens {
				printTokens(out, an.Tokens)
			}
			if an.Err != nil {
				printDiagnostic(out, text, an.Err)
				return errInvalid
			}
			fmt.Fprintf(out, "ok: %s\n", describe(an))

			if len(args) < 2 {
				return
			}

			ap, err := setup(ctx)
			if err != nil {
				return
			}
			defer ap.close()

			df, err := ap.newDfilter(ap.source(args[1]))
			if err != nil {
				return
			}

			report, err := df.Check(ctx, text)
			if err != nil {
				return
			}

			if printAll {
				for _, rec := range report.Matched {
					fmt.Fprintln(out, rec.Searchable())
				}
			}
			fmt.Fprintf(out, "%d of %d packets match\n", len(report.Matched), report.Total)
			return
		},
	}
	cmd.Flags().BoolVarP(&tokens, "tokens", "t", false, "print tokens")
	cmd.Flags().BoolVarP(&printAll, "print", "p", false, "print matching packets")

	return cmd
}

func describe(an query.Analysis) string {
	if an.Blank() {
		return "matches everything"
	}
	return an.Node.String()
}

func printTokens(out io.Writer, tokens []query.Token) {
	for _, tok := range tokens {
		fmt.Fprintf(out, "%-8s [%d,%d) %q\n", tok.Kind, tok.Start, tok.End, tok.Raw)
	}
}

// printDiagnostic marks the error range under the filter text
func printDiagnostic(out io.Writer, text string, se *query.SyntaxError) {

	pad := utf8.RuneCountInString(text[:se.Range.Start])
	width := max(utf8.RuneCountInString(text[se.Range.Start:se.Range.End]), 1)

	fmt.Fprintln(out, text)
	fmt.Fprintln(out, strings.Repeat(" ", pad)+"^"+strings.Repeat("~", width-1))
	fmt.Fprintf(out, "%s: %s\n", se.Kind, se.Message)
}
