package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"dfilter"
)

func suggestCmd() *cobra.Command {

	var caret int

	cmd := &cobra.Command{
		Use:   "suggest <filter>",
		Short: "List completions at the caret, the end of the filter by default",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {

			ap, err := setup(cmd.Context())
			if err != nil {
				return
			}
			defer ap.close()

			df, err := ap.newDfilter(dfilter.StaticSource{Label: "none"})
			if err != nil {
				return
			}

			text := args[0]
			if caret < 0 || caret > len(text) {
				caret = len(text)
			}

			out := cmd.OutOrStdout()
			if text == "" {
				for _, entry := range df.Recent(cmd.Context()) {
					fmt.Fprintf(out, "%s\trecent\n", entry)
				}
			}
			for _, cand := range df.Suggest(text, caret) {
				fmt.Fprintf(out, "%s\t%s\n", cand.Label, cand.Kind)
			}
			return
		},
	}
	cmd.Flags().IntVar(&caret, "caret", -1, "caret byte offset")

	return cmd
}
