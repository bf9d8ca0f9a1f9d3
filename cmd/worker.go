package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/queuectl/queuectl"
)

const defaultStopGrace = 10 * time.Second

func withSignals(parent context.Context) (context.Context, func()) {
	ctx, cancel := context.WithCancel(parent)
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, func() {
		signal.Stop(sigCh)
		cancel()
	}
}

func workerCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Start, stop, and run queue workers",
	}
	cmd.AddCommand(workerStartCommand(), workerStopCommand(), workerRunCommand())
	return cmd
}

func workerStartCommand() *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start a supervised pool of worker processes",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := withSignals(cmd.Context())
			defer stop()

			dir := dataDir()
			s, db, err := openStore(ctx, dir)
			if err != nil {
				return err
			}
			defer db.Close()

			rt, err := loadRuntimeConfig(ctx, db)
			if err != nil {
				return err
			}
			cfg := queuectl.SupervisorConfig{
				DataDir:       dir,
				Count:         count,
				PollInterval:  rt.PollInterval,
				StopGrace:     defaultStopGrace,
				ReaperEnabled: rt.ReaperEnabled,
				ReaperAge:     rt.ReaperAge,
			}

			sup := queuectl.NewSupervisor(s, cfg, newLogger())
			if err := sup.Start(ctx); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "started %d workers against %s\n", count, dir)

			<-ctx.Done()
			return sup.Stop(defaultStopGrace + time.Second)
		},
	}

	cmd.Flags().IntVar(&count, "count", 1, "number of worker processes to run")
	return cmd
}

func workerStopCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop a running worker pool",
		RunE: func(cmd *cobra.Command, args []string) error {
			return queuectl.StopWorkers(dataDir(), defaultStopGrace)
		},
	}
}

// workerRunCommand is the hidden re-exec target the supervisor uses to
// start one worker process. It is not part of the documented CLI
// surface.
func workerRunCommand() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:    "run",
		Short:  "Run a single worker loop (internal, used by the supervisor)",
		Hidden: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := withSignals(cmd.Context())
			defer stop()

			dir := dataDir()
			s, db, err := openStore(ctx, dir)
			if err != nil {
				return err
			}
			defer db.Close()

			rt, err := loadRuntimeConfig(ctx, db)
			if err != nil {
				return err
			}
			cfg := queuectl.ExecutorConfig{
				WorkerName:         name,
				PollInterval:       rt.PollInterval,
				DefaultTimeoutSecs: rt.DefaultTimeoutSecs,
				BackoffBase:        rt.BackoffBase,
			}
			exec := queuectl.NewExecutor(s, cfg, newLogger())
			if err := exec.Start(ctx); err != nil {
				return err
			}

			<-ctx.Done()
			return exec.Stop(defaultStopGrace)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "this worker's identity, stamped onto claimed jobs")
	return cmd
}
