package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/dicionario-backend/internal/app"
)

// newPruneHistoryCommand removes word history older than
// dictionary.history_retention_days. Meant to be run from cron.
func newPruneHistoryCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "prune-history",
		Short: "Delete word edit history older than the retention period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := opts.load()
			if err != nil {
				return err
			}

			c, err := app.Build(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer c.Close()

			n, err := c.Dictionary.PruneHistory(cmd.Context(), time.Now().UTC())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d history records\n", n)
			return nil
		},
	}
}
