package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/queuectl/queuectl/job"
)

func listCommand() *cobra.Command {
	var state string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List jobs, optionally filtered by state",
		RunE: func(cmd *cobra.Command, args []string) error {
			status := job.Unknown
			if state != "" {
				parsed, err := job.ParseStatus(state)
				if err != nil {
					return fmt.Errorf("%w: %v", errInvalidStateFilter, err)
				}
				status = parsed
			}

			ctx := cmd.Context()
			s, db, err := openStore(ctx, dataDir())
			if err != nil {
				return err
			}
			defer db.Close()

			jobs, err := s.List(ctx, status, 0)
			if err != nil {
				return err
			}
			for _, jb := range jobs {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%-10s\tpriority=%d\tattempts=%d/%d\t%s\n",
					jb.Id, jb.Status, jb.Priority, jb.Attempts, jb.MaxRetries, jb.Command)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&state, "state", "", "filter by state: pending, processing, completed, failed, dead")
	return cmd
}
