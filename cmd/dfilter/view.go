package main

import (
	tea "charm.land/bubbletea/v2"
	"github.com/spf13/cobra"

	"dfilter"
)

func viewCmd() *cobra.Command {

	var filter string

	cmd := &cobra.Command{
		Use:   "view <capture>",
		Short: "Browse a capture in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {

			ctx := cmd.Context()
			ap, err := setup(ctx)
			if err != nil {
				return
			}
			defer ap.close()

			if filter != "" {
				ap.cfg.Filter = filter
			}

			df, err := ap.newDfilter(ap.source(args[0]))
			if err != nil {
				return
			}

			model := dfilter.NewModel(ctx, df, ap.cfg)
			_, err = tea.NewProgram(model, tea.WithContext(ctx)).Run()
			if err != nil {
				ap.logger.Error(ctx, "viewer failed", err)
			}
			return
		},
	}
	cmd.Flags().StringVarP(&filter, "filter", "f", "", "initial display filter")

	return cmd
}
