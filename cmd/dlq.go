package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/queuectl/queuectl/job"
)

func dlqCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dlq",
		Short: "Inspect and manage dead-lettered jobs",
	}
	cmd.AddCommand(dlqListCommand(), dlqRetryCommand())
	return cmd
}

func dlqListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List dead-lettered jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, db, err := openStore(ctx, dataDir())
			if err != nil {
				return err
			}
			defer db.Close()

			jobs, err := s.List(ctx, job.Dead, 0)
			if err != nil {
				return err
			}
			for _, jb := range jobs {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\tattempts=%d/%d\tlast_error=%q\t%s\n",
					jb.Id, jb.Attempts, jb.MaxRetries, jb.LastError, jb.Command)
			}
			return nil
		},
	}
}

func dlqRetryCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "retry <id>",
		Short: "Return a dead job to pending",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, db, err := openStore(ctx, dataDir())
			if err != nil {
				return err
			}
			defer db.Close()

			if err := s.RetryFromDLQ(ctx, args[0], time.Now()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "requeued %s\n", args[0])
			return nil
		},
	}
}
