package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/queuectl/queuectl/job"
)

func statusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show job counts per state",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, db, err := openStore(ctx, dataDir())
			if err != nil {
				return err
			}
			defer db.Close()

			stats, err := s.Stats(ctx)
			if err != nil {
				return err
			}
			for _, st := range []job.Status{job.Pending, job.Processing, job.Completed, job.Failed, job.Dead} {
				fmt.Fprintf(cmd.OutOrStdout(), "%-12s %d\n", st, stats[st])
			}
			return nil
		},
	}
}
