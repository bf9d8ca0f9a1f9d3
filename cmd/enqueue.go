package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/queuectl/queuectl"
)

func enqueueCommand() *cobra.Command {
	var (
		id          string
		priority    int32
		maxRetries  int32
		timeoutSecs uint32
		runAt       string
	)

	cmd := &cobra.Command{
		Use:   "enqueue <command>",
		Short: "Submit a new job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec := queuectl.JobSpec{
				Id:          id,
				Command:     args[0],
				Priority:    &priority,
				TimeoutSecs: timeoutSecs,
			}
			if maxRetries >= 0 {
				mr := uint32(maxRetries)
				spec.MaxRetries = &mr
			}
			if runAt != "" {
				t, err := time.Parse(time.RFC3339, runAt)
				if err != nil {
					return fmt.Errorf("%w: invalid --run-at: %v", queuectl.ErrInvalidInput, err)
				}
				spec.RunAt = &t
			}
			if spec.Id == "" {
				return fmt.Errorf("%w: --id is required", queuectl.ErrInvalidInput)
			}

			ctx := cmd.Context()
			s, db, err := openStore(ctx, dataDir())
			if err != nil {
				return err
			}
			defer db.Close()

			jb, err := s.Enqueue(ctx, spec)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "enqueued %s (state=%s, priority=%d)\n", jb.Id, jb.Status, jb.Priority)
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "unique job id (required)")
	cmd.Flags().Int32Var(&priority, "priority", 100, "dispatch priority, smaller runs first")
	cmd.Flags().Int32Var(&maxRetries, "max-retries", -1, "override the max_retries config default")
	cmd.Flags().Uint32Var(&timeoutSecs, "timeout", 0, "per-attempt timeout in seconds, 0 uses the default_timeout_secs config value")
	cmd.Flags().StringVar(&runAt, "run-at", "", "RFC3339 timestamp before which the job is not eligible to run")

	return cmd
}
