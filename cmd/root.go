// Package cmd builds the queuectl command-line surface. It contains
// no business logic: every command is a thin translation from flags
// to calls against the queuectl package's exported API.
package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/queuectl/queuectl"
)

// Exit code conventions.
const (
	ExitOK            = 0
	ExitInternal      = 1
	ExitValidation    = 2
	ExitStateConflict = 3
)

// RootCommand builds the queuectl command tree.
func RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "queuectl",
		Short:         "Durable multi-worker job queue",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("data-dir", "queuectl-data", "directory holding queuectl's database, logs and pid file")
	if err := viper.BindPFlag("data_dir", root.PersistentFlags().Lookup("data-dir")); err != nil {
		fmt.Fprintf(os.Stderr, "error binding flags: %v\n", err)
		os.Exit(ExitInternal)
	}
	viper.SetEnvPrefix("queuectl")
	viper.AutomaticEnv()

	root.AddCommand(
		enqueueCommand(),
		workerCommand(),
		statusCommand(),
		listCommand(),
		dlqCommand(),
		configCommand(),
		logsCommand(),
	)

	return root
}

// Execute runs the command tree and returns the process exit code.
func Execute() int {
	root := RootCommand()
	err := root.Execute()
	if err == nil {
		return ExitOK
	}
	fmt.Fprintln(os.Stderr, "error:", err)
	return exitCodeFor(err)
}

func exitCodeFor(err error) int {
	switch {
	case errors.Is(err, queuectl.ErrInvalidInput):
		return ExitValidation
	case errors.Is(err, queuectl.ErrNotFound),
		errors.Is(err, queuectl.ErrAlreadyExists),
		errors.Is(err, queuectl.ErrInvalidState),
		errors.Is(err, queuectl.ErrSupervisorRunning):
		return ExitStateConflict
	default:
		return ExitInternal
	}
}

func dataDir() string {
	return viper.GetString("data_dir")
}

func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}
