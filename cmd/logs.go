package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func logsCommand() *cobra.Command {
	var tail string

	cmd := &cobra.Command{
		Use:   "logs <id>",
		Short: "Print a job's stdout/stderr log paths",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, db, err := openStore(ctx, dataDir())
			if err != nil {
				return err
			}
			defer db.Close()

			if _, err := s.Get(ctx, args[0]); err != nil {
				return err
			}

			stdoutPath, stderrPath := s.LogPathsFor(args[0])
			fmt.Fprintf(cmd.OutOrStdout(), "stdout: %s\nstderr: %s\n", stdoutPath, stderrPath)

			if tail == "" {
				return nil
			}
			path := stdoutPath
			if tail == "stderr" {
				path = stderrPath
			}
			f, err := os.Open(path)
			if err != nil {
				if os.IsNotExist(err) {
					fmt.Fprintf(cmd.OutOrStdout(), "no %s log yet for %s\n", tail, args[0])
					return nil
				}
				return err
			}
			defer f.Close()
			_, err = io.Copy(cmd.OutOrStdout(), f)
			return err
		},
	}

	cmd.Flags().StringVar(&tail, "tail", "", "also print the contents of stdout or stderr")
	return cmd
}
