package queuectl_test

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/queuectl/queuectl"
	"github.com/queuectl/queuectl/job"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeWorkerBinary writes a shell script that ignores whatever
// arguments the supervisor passes it and just sleeps, standing in for
// a re-exec'd queuectl binary so the lifecycle machinery can be
// exercised without compiling one.
func fakeWorkerBinary(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fake-worker.sh")
	script := "#!/bin/sh\ntrap 'exit 0' TERM\nsleep 30 &\nwait $!\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func sleepSupervisorConfig(t *testing.T, dir string) queuectl.SupervisorConfig {
	return queuectl.SupervisorConfig{
		DataDir:      dir,
		WorkerBinary: fakeWorkerBinary(t),
		Count:        2,
		PollInterval: 50 * time.Millisecond,
		StopGrace:    time.Second,
	}
}

func TestSupervisorStartStop(t *testing.T) {
	dir := t.TempDir()
	sup := queuectl.NewSupervisor(&fakeStore{}, sleepSupervisorConfig(t, dir), discardLogger())

	require.NoError(t, sup.Start(context.Background()))
	require.True(t, sup.IsRunning())
	require.NoError(t, sup.Stop(2*time.Second))
	require.False(t, sup.IsRunning())
}

func TestSupervisorDoubleStart(t *testing.T) {
	dir := t.TempDir()
	sup := queuectl.NewSupervisor(&fakeStore{}, sleepSupervisorConfig(t, dir), discardLogger())

	require.NoError(t, sup.Start(context.Background()))
	defer sup.Stop(2 * time.Second)

	require.ErrorIs(t, sup.Start(context.Background()), queuectl.ErrDoubleStarted)
}

func TestSecondSupervisorRefusesSameDataDir(t *testing.T) {
	dir := t.TempDir()
	first := queuectl.NewSupervisor(&fakeStore{}, sleepSupervisorConfig(t, dir), discardLogger())
	require.NoError(t, first.Start(context.Background()))
	defer first.Stop(2 * time.Second)

	second := queuectl.NewSupervisor(&fakeStore{}, sleepSupervisorConfig(t, dir), discardLogger())
	require.ErrorIs(t, second.Start(context.Background()), queuectl.ErrSupervisorRunning)
}

// fakeStore satisfies queuectl.Store with no-op behavior, sufficient
// for exercising Supervisor lifecycle without a real database: the
// reactivation sweep calls MoveFailedToPending on its own timer, and
// nothing else in these tests drives a real job through the store.
type fakeStore struct{}

func (f *fakeStore) Enqueue(ctx context.Context, spec queuectl.JobSpec) (*job.Job, error) {
	return nil, nil
}

func (f *fakeStore) Get(ctx context.Context, id string) (*job.Job, error) {
	return nil, queuectl.ErrNotFound
}

func (f *fakeStore) List(ctx context.Context, status job.Status, limit int) ([]*job.Job, error) {
	return nil, nil
}

func (f *fakeStore) ClaimNext(ctx context.Context, workerName string, now time.Time) (*job.Job, error) {
	return nil, nil
}

func (f *fakeStore) Complete(ctx context.Context, id string, run job.Run) error {
	return nil
}

func (f *fakeStore) RescheduleOrDead(ctx context.Context, id string, run job.Run, backoffBase float64) error {
	return nil
}

func (f *fakeStore) MoveFailedToPending(ctx context.Context, now time.Time) (int64, error) {
	return 0, nil
}

func (f *fakeStore) IncrementAttempts(ctx context.Context, id string) error {
	return nil
}

func (f *fakeStore) RetryFromDLQ(ctx context.Context, id string, now time.Time) error {
	return nil
}

func (f *fakeStore) Stats(ctx context.Context) (queuectl.Stats, error) {
	return nil, nil
}

func (f *fakeStore) RecordRun(ctx context.Context, run job.Run) error {
	return nil
}

func (f *fakeStore) LogPathsFor(id string) (string, string) {
	return "", ""
}

func (f *fakeStore) ReapOrphans(ctx context.Context, olderThan time.Duration, now time.Time) (int64, error) {
	return 0, nil
}
