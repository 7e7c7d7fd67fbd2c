package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func historyCmd() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show or clear remembered filters",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List remembered filters, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {

			ap, err := setup(cmd.Context())
			if err != nil {
				return
			}
			defer ap.close()

			for _, entry := range ap.history.Load(cmd.Context()) {
				fmt.Fprintln(cmd.OutOrStdout(), entry)
			}
			return
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add <filter>",
		Short: "Remember a filter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {

			ap, err := setup(cmd.Context())
			if err != nil {
				return
			}
			defer ap.close()

			_, err = ap.history.Remember(cmd.Context(), args[0])
			return
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Forget all remembered filters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {

			ap, err := setup(cmd.Context())
			if err != nil {
				return
			}
			defer ap.close()

			return ap.history.Clear(cmd.Context())
		},
	})

	return cmd
}
