package queuectl_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/queuectl/queuectl"
	"github.com/queuectl/queuectl/job"
	"github.com/queuectl/queuectl/store"

	_ "modernc.org/sqlite"
)

func newExecutorTestDB(t *testing.T) *bun.DB {
	t.Helper()
	sqlDB, err := sql.Open("sqlite", "file::memory:?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		t.Fatal(err)
	}
	sqlDB.SetMaxOpenConns(1)
	db := bun.NewDB(sqlDB, sqlitedialect.New())
	if err := store.InitDB(context.Background(), db); err != nil {
		t.Fatal(err)
	}
	return db
}

func TestExecutorCompletesSuccessfulJob(t *testing.T) {
	db := newExecutorTestDB(t)
	s := store.NewStore(db, t.TempDir())
	ctx := context.Background()

	if _, err := s.Enqueue(ctx, queuectl.JobSpec{Id: "j1", Command: "exit 0"}); err != nil {
		t.Fatal(err)
	}

	exec := queuectl.NewExecutor(s, queuectl.ExecutorConfig{
		WorkerName:         "worker-0",
		PollInterval:       10 * time.Millisecond,
		DefaultTimeoutSecs: 5,
		BackoffBase:        2,
	}, discardLogger())

	if err := exec.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer exec.Stop(time.Second)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		jb, err := s.Get(ctx, "j1")
		if err != nil {
			t.Fatal(err)
		}
		if jb.Status == job.Completed {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("job did not complete in time")
}

func TestExecutorReschedulesFailingJob(t *testing.T) {
	db := newExecutorTestDB(t)
	s := store.NewStore(db, t.TempDir())
	ctx := context.Background()

	if _, err := s.Enqueue(ctx, queuectl.JobSpec{Id: "j1", Command: "exit 1"}); err != nil {
		t.Fatal(err)
	}

	exec := queuectl.NewExecutor(s, queuectl.ExecutorConfig{
		WorkerName:         "worker-0",
		PollInterval:       10 * time.Millisecond,
		DefaultTimeoutSecs: 5,
		BackoffBase:        2,
	}, discardLogger())

	if err := exec.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer exec.Stop(time.Second)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		jb, err := s.Get(ctx, "j1")
		if err != nil {
			t.Fatal(err)
		}
		if jb.Status == job.Failed {
			if jb.Attempts != 1 {
				t.Fatalf("expected 1 attempt, got %d", jb.Attempts)
			}
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("job did not transition to failed in time")
}

func TestExecutorStopWaitsForInFlightJob(t *testing.T) {
	db := newExecutorTestDB(t)
	s := store.NewStore(db, t.TempDir())
	ctx := context.Background()

	if _, err := s.Enqueue(ctx, queuectl.JobSpec{
		Id: "j1", Command: "sleep 1 && exit 0", TimeoutSecs: 5,
	}); err != nil {
		t.Fatal(err)
	}

	exec := queuectl.NewExecutor(s, queuectl.ExecutorConfig{
		WorkerName:         "worker-0",
		PollInterval:       10 * time.Millisecond,
		DefaultTimeoutSecs: 5,
		BackoffBase:        2,
	}, discardLogger())

	if err := exec.Start(ctx); err != nil {
		t.Fatal(err)
	}

	// Give the loop a moment to claim the job and start the subprocess
	// before asking it to stop mid-attempt.
	time.Sleep(100 * time.Millisecond)

	if err := exec.Stop(3 * time.Second); err != nil {
		t.Fatalf("Stop should wait for the in-flight attempt to finish: %v", err)
	}

	jb, err := s.Get(ctx, "j1")
	if err != nil {
		t.Fatal(err)
	}
	if jb.Status != job.Completed {
		t.Fatalf("expected shutdown to let the in-flight job finish naturally, got status %s", jb.Status)
	}
}

func TestExecutorKillsTimedOutJob(t *testing.T) {
	db := newExecutorTestDB(t)
	s := store.NewStore(db, t.TempDir())
	ctx := context.Background()

	override := uint32(0)
	if _, err := s.Enqueue(ctx, queuectl.JobSpec{
		Id: "j1", Command: "sleep 10", TimeoutSecs: 1, MaxRetries: &override,
	}); err != nil {
		t.Fatal(err)
	}

	exec := queuectl.NewExecutor(s, queuectl.ExecutorConfig{
		WorkerName:         "worker-0",
		PollInterval:       10 * time.Millisecond,
		DefaultTimeoutSecs: 5,
		BackoffBase:        2,
	}, discardLogger())

	if err := exec.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer exec.Stop(time.Second)

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		jb, err := s.Get(ctx, "j1")
		if err != nil {
			t.Fatal(err)
		}
		if jb.Status == job.Dead {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatal("timed-out job did not reach dead state in time")
}
