package queuectl

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"

	"github.com/queuectl/queuectl/internal"
)

// SupervisorConfig parameterises a Supervisor.
type SupervisorConfig struct {
	// DataDir roots the queue's persisted state. It is treated as a
	// singleton resource: Start refuses to run if a pid file already
	// names a live worker.
	DataDir string

	// WorkerBinary is the executable re-exec'd for each worker
	// process. It defaults to os.Executable() when empty.
	WorkerBinary string

	// Count is the number of worker processes to spawn.
	Count int

	// PollInterval is how often the reactivation sweep runs.
	PollInterval time.Duration

	// StopGrace bounds how long Stop waits for workers to exit
	// gracefully before force-killing stragglers.
	StopGrace time.Duration

	// ReaperEnabled and ReaperAge implement the orphan-recovery policy
	// surfaced as an explicit configuration choice: when enabled,
	// processing jobs whose updated_at is older than ReaperAge are
	// reclaimed to pending during the reactivation sweep.
	ReaperEnabled bool
	ReaperAge     time.Duration
}

// Supervisor owns a pool of worker processes: it spawns them as
// independent OS processes so that one crashing command cannot take
// down its peers, records their pids in a pid file, and centrally
// drives the periodic reactivation sweep so that N workers do not
// each issue the same MoveFailedToPending call.
type Supervisor struct {
	lcBase
	store Store
	cfg   SupervisorConfig
	log   *slog.Logger

	reactivate internal.TimerTask
	group      internal.ProcessGroup
}

// NewSupervisor creates a Supervisor. It is not started automatically.
func NewSupervisor(store Store, cfg SupervisorConfig, log *slog.Logger) *Supervisor {
	return &Supervisor{
		store: store,
		cfg:   cfg,
		log:   log,
	}
}

// Start spawns cfg.Count worker processes and begins the reactivation
// sweep. It returns ErrSupervisorRunning if a pid file already names a
// live worker against cfg.DataDir, and ErrDoubleStarted if this
// Supervisor instance is already running.
func (s *Supervisor) Start(ctx context.Context) error {
	if err := s.tryStart(); err != nil {
		return err
	}
	if IsRunning(s.cfg.DataDir) {
		s.state.Store(stopped)
		return ErrSupervisorRunning
	}
	if err := os.MkdirAll(filepath.Join(s.cfg.DataDir, "logs"), 0o755); err != nil {
		s.state.Store(stopped)
		return err
	}
	bin := s.cfg.WorkerBinary
	if bin == "" {
		resolved, err := os.Executable()
		if err != nil {
			s.state.Store(stopped)
			return err
		}
		bin = resolved
	}

	cmds := make([]*exec.Cmd, 0, s.cfg.Count)
	pids := make([]int, 0, s.cfg.Count)
	for i := 0; i < s.cfg.Count; i++ {
		cmd := exec.Command(bin, "worker", "run",
			"--name", "worker-"+strconv.Itoa(i),
			"--data-dir", s.cfg.DataDir)
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		if err := cmd.Start(); err != nil {
			for _, started := range cmds {
				_ = started.Process.Kill()
			}
			s.state.Store(stopped)
			return fmt.Errorf("starting worker %d: %w", i, err)
		}
		cmds = append(cmds, cmd)
		pids = append(pids, cmd.Process.Pid)
	}
	if err := writePidFile(s.cfg.DataDir, pids); err != nil {
		for _, cmd := range cmds {
			_ = cmd.Process.Kill()
		}
		s.state.Store(stopped)
		return err
	}

	s.group.Watch(cmds, s.log)
	s.reactivate.Start(ctx, s.sweep, s.cfg.PollInterval)
	s.log.Info("supervisor started", "count", s.cfg.Count, "data_dir", s.cfg.DataDir)
	return nil
}

func (s *Supervisor) sweep(ctx context.Context) {
	now := time.Now()
	n, err := s.store.MoveFailedToPending(ctx, now)
	if err != nil {
		s.log.Error("reactivation sweep failed", "err", err)
	} else if n > 0 {
		s.log.Info("reactivated failed jobs", "count", n)
	}
	if !s.cfg.ReaperEnabled {
		return
	}
	reaped, err := s.store.ReapOrphans(ctx, s.cfg.ReaperAge, now)
	if err != nil {
		s.log.Error("orphan reap failed", "err", err)
		return
	}
	if reaped > 0 {
		s.log.Warn("reclaimed orphaned processing jobs", "count", reaped)
	}
}

func (s *Supervisor) doStop() internal.DoneChan {
	reactivateDone := s.reactivate.Stop()
	workersDone := make(internal.DoneChan)
	go func() {
		defer close(workersDone)
		if err := StopWorkers(s.cfg.DataDir, s.cfg.StopGrace); err != nil {
			s.log.Error("stopping workers", "err", err)
		}
		<-s.group.Wait()
	}()
	return internal.Combine(reactivateDone, workersDone)
}

// Stop signals every recorded worker, waits up to cfg.StopGrace for a
// graceful exit, force-kills stragglers, and stops the reactivation
// sweep. It returns ErrStopTimeout if shutdown does not complete
// within timeout.
func (s *Supervisor) Stop(timeout time.Duration) error {
	return s.tryStop(timeout, s.doStop)
}

// IsRunning reports whether the pid file names at least one live
// worker process.
func (s *Supervisor) IsRunning() bool {
	return IsRunning(s.cfg.DataDir)
}
