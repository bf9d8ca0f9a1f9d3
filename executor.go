package queuectl

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/queuectl/queuectl/internal"
	"github.com/queuectl/queuectl/job"
)

// ExecutorConfig parameterises one Executor instance.
//
// WorkerName identifies this executor to the store and is stamped
// onto every job it claims. PollInterval is the sleep between empty
// claim attempts. DefaultTimeoutSecs is used when a claimed job omits
// its own timeout. BackoffBase parameterises the retry delay computed
// by RescheduleOrDead.
type ExecutorConfig struct {
	WorkerName         string
	PollInterval       time.Duration
	DefaultTimeoutSecs uint32
	BackoffBase        float64
}

// Executor is one long-lived execution unit: it repeatedly claims a
// job, runs its command through the platform shell, captures its
// output, and reports the outcome. An Executor is meant to run alone
// inside its own OS process; the Supervisor is what provides fault
// isolation between multiple Executors.
//
// Within an Executor, execution is strictly sequential: claim, spawn,
// wait, report. There is no internal concurrency to manage.
type Executor struct {
	lcBase
	store    Store
	cfg      ExecutorConfig
	log      *slog.Logger
	pullTask internal.TimerTask
}

// NewExecutor creates a new Executor. It is not started automatically.
func NewExecutor(store Store, cfg ExecutorConfig, log *slog.Logger) *Executor {
	return &Executor{
		store: store,
		cfg:   cfg,
		log:   log,
	}
}

// Start begins the claim/execute/report loop on a ticker of
// cfg.PollInterval. It returns ErrDoubleStarted if already running.
func (e *Executor) Start(ctx context.Context) error {
	if err := e.tryStart(); err != nil {
		return err
	}
	e.pullTask.Start(ctx, e.tick, e.cfg.PollInterval)
	return nil
}

// Stop waits for the current attempt, if any, to finish its
// transition before returning. It returns ErrStopTimeout if that does
// not happen within timeout; in that case a job may still be
// in-flight in the background.
func (e *Executor) Stop(timeout time.Duration) error {
	return e.tryStop(timeout, e.pullTask.Stop)
}

func (e *Executor) tick(ctx context.Context) {
	jb, err := e.store.ClaimNext(ctx, e.cfg.WorkerName, time.Now())
	if err != nil {
		e.log.Error("claim failed", "worker", e.cfg.WorkerName, "err", err)
		return
	}
	if jb == nil {
		return
	}
	e.run(jb)
}

// run executes a claimed job to completion and reports its outcome.
// It deliberately does not take the loop's context: that context is
// cancelled by Stop on a shutdown signal, and a graceful shutdown
// must wait for the in-flight attempt rather than cancel it. The
// subprocess is bounded only by its own timeout, and once it has run
// the terminal report is made whether or not a shutdown was signalled.
// If either log file cannot be created, the command is not run and no
// outcome is reported, so the job remains in processing.
func (e *Executor) run(jb *job.Job) {
	stdoutPath, stderrPath := e.store.LogPathsFor(jb.Id)
	outFile, err := os.Create(stdoutPath)
	if err != nil {
		e.log.Error("cannot create stdout log", "id", jb.Id, "err", err)
		return
	}
	defer outFile.Close()
	errFile, err := os.Create(stderrPath)
	if err != nil {
		e.log.Error("cannot create stderr log", "id", jb.Id, "err", err)
		return
	}
	defer errFile.Close()

	timeoutSecs := jb.TimeoutSecs
	if timeoutSecs == 0 {
		timeoutSecs = e.cfg.DefaultTimeoutSecs
	}
	cmdCtx, cancel := context.WithTimeout(context.Background(), time.Duration(timeoutSecs)*time.Second)
	defer cancel()

	cmd := shellCommand(cmdCtx, jb.Command)
	cmd.Stdout = outFile
	cmd.Stderr = errFile

	started := time.Now()
	waitErr := cmd.Run()
	finished := time.Now()

	timedOut := errors.Is(cmdCtx.Err(), context.DeadlineExceeded)
	if timedOut {
		killTree(cmd)
	}

	exitCode := 0
	if cmd.ProcessState != nil {
		exitCode = cmd.ProcessState.ExitCode()
	} else if waitErr != nil {
		exitCode = -1
	}

	outcome := job.OutcomeSuccess
	switch {
	case timedOut:
		outcome = job.OutcomeTimeout
	case exitCode != 0:
		outcome = job.OutcomeFailure
	}

	run := job.Run{
		JobId:       jb.Id,
		Attempt:     jb.Attempts + 1,
		StartedAt:   started,
		FinishedAt:  finished,
		DurationMs:  finished.Sub(started).Milliseconds(),
		ExitCode:    exitCode,
		StdoutBytes: fileSize(outFile),
		StderrBytes: fileSize(errFile),
		WorkerName:  e.cfg.WorkerName,
		Outcome:     outcome,
	}

	// Reported on a fresh context: the terminal transition must land
	// even if the loop's context was cancelled by a shutdown signal
	// while the subprocess was running, or the job is left stranded
	// in processing.
	reportCtx := context.Background()
	if outcome == job.OutcomeSuccess {
		e.reportWithRetry(reportCtx, jb.Id, func(ctx context.Context) error {
			return e.store.Complete(ctx, jb.Id, run)
		})
		return
	}
	e.reportWithRetry(reportCtx, jb.Id, func(ctx context.Context) error {
		return e.store.RescheduleOrDead(ctx, jb.Id, run, e.cfg.BackoffBase)
	})
}

// reportWithRetry retries a store report a bounded number of times
// with short backoff before logging to stderr and proceeding: losing
// a run record is preferable to a worker getting stuck reporting it.
func (e *Executor) reportWithRetry(ctx context.Context, id string, report func(context.Context) error) {
	const attempts = 3
	var err error
	for i := 0; i < attempts; i++ {
		if err = report(ctx); err == nil {
			return
		}
		var se *StorageError
		if !errors.As(err, &se) {
			break
		}
		time.Sleep(time.Duration(i+1) * 50 * time.Millisecond)
	}
	e.log.Error("failed to report job outcome", "id", id, "err", err)
}

func fileSize(f *os.File) int64 {
	info, err := f.Stat()
	if err != nil {
		return 0
	}
	return info.Size()
}
