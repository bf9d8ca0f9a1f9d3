package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/queuectl/queuectl"
	"github.com/queuectl/queuectl/job"
	"github.com/queuectl/queuectl/store"
)

func TestClaimAndComplete(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	s := store.NewStore(db, t.TempDir())

	jb, err := s.Enqueue(ctx, queuectl.JobSpec{Id: "j1", Command: "echo hi"})
	if err != nil {
		t.Fatal(err)
	}
	if jb.Status != job.Pending {
		t.Fatalf("expected Pending, got %v", jb.Status)
	}

	claimed, err := s.ClaimNext(ctx, "worker-0", time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if claimed == nil {
		t.Fatal("expected a claimed job")
	}
	if claimed.Status != job.Processing {
		t.Fatalf("expected Processing, got %v", claimed.Status)
	}
	if claimed.WorkerName != "worker-0" {
		t.Fatalf("expected worker-0, got %q", claimed.WorkerName)
	}

	run := job.Run{
		JobId:      claimed.Id,
		Attempt:    1,
		StartedAt:  time.Now(),
		FinishedAt: time.Now(),
		Outcome:    job.OutcomeSuccess,
	}
	if err := s.Complete(ctx, claimed.Id, run); err != nil {
		t.Fatal(err)
	}

	got, err := s.Get(ctx, claimed.Id)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != job.Completed {
		t.Fatalf("expected Completed, got %v", got.Status)
	}
	if got.Attempts != 1 {
		t.Fatalf("expected attempts=1, got %d", got.Attempts)
	}
}

func TestClaimIsExclusive(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	s := store.NewStore(db, t.TempDir())

	if _, err := s.Enqueue(ctx, queuectl.JobSpec{Id: "j1", Command: "true"}); err != nil {
		t.Fatal(err)
	}

	first, err := s.ClaimNext(ctx, "worker-a", time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if first == nil {
		t.Fatal("expected first claim to succeed")
	}

	second, err := s.ClaimNext(ctx, "worker-b", time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if second != nil {
		t.Fatal("expected second claim to find no eligible job")
	}
}

func TestRescheduleOrDead(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	s := store.NewStore(db, t.TempDir())

	override := uint32(1)
	if _, err := s.Enqueue(ctx, queuectl.JobSpec{Id: "j1", Command: "false", MaxRetries: &override}); err != nil {
		t.Fatal(err)
	}

	claimed, err := s.ClaimNext(ctx, "worker-0", time.Now())
	if err != nil {
		t.Fatal(err)
	}

	run := job.Run{JobId: claimed.Id, Attempt: 1, StartedAt: time.Now(), FinishedAt: time.Now(), Outcome: job.OutcomeFailure, ExitCode: 1}
	if err := s.RescheduleOrDead(ctx, claimed.Id, run, 2); err != nil {
		t.Fatal(err)
	}

	got, err := s.Get(ctx, claimed.Id)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != job.Failed {
		t.Fatalf("expected Failed after first attempt, got %v", got.Status)
	}
	if got.LastError == "" {
		t.Fatal("expected last_error to be set")
	}

	// promote back to pending, claim and fail again to exhaust retries.
	if _, err := s.MoveFailedToPending(ctx, got.NextRunAt.Add(time.Second)); err != nil {
		t.Fatal(err)
	}
	claimed2, err := s.ClaimNext(ctx, "worker-0", got.NextRunAt.Add(time.Second))
	if err != nil {
		t.Fatal(err)
	}
	if claimed2 == nil {
		t.Fatal("expected job to be reclaimable after reactivation")
	}
	run2 := job.Run{JobId: claimed2.Id, Attempt: 2, StartedAt: time.Now(), FinishedAt: time.Now(), Outcome: job.OutcomeFailure, ExitCode: 1}
	if err := s.RescheduleOrDead(ctx, claimed2.Id, run2, 2); err != nil {
		t.Fatal(err)
	}

	dead, err := s.Get(ctx, claimed2.Id)
	if err != nil {
		t.Fatal(err)
	}
	if dead.Status != job.Dead {
		t.Fatalf("expected Dead once retries exhausted, got %v", dead.Status)
	}
}

func TestRetryFromDLQ(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	s := store.NewStore(db, t.TempDir())

	zero := uint32(0)
	if _, err := s.Enqueue(ctx, queuectl.JobSpec{Id: "j1", Command: "false", MaxRetries: &zero}); err != nil {
		t.Fatal(err)
	}
	claimed, err := s.ClaimNext(ctx, "worker-0", time.Now())
	if err != nil {
		t.Fatal(err)
	}
	run := job.Run{JobId: claimed.Id, Attempt: 1, StartedAt: time.Now(), FinishedAt: time.Now(), Outcome: job.OutcomeFailure, ExitCode: 1}
	if err := s.RescheduleOrDead(ctx, claimed.Id, run, 2); err != nil {
		t.Fatal(err)
	}
	dead, err := s.Get(ctx, claimed.Id)
	if err != nil {
		t.Fatal(err)
	}
	if dead.Status != job.Dead {
		t.Fatalf("expected Dead, got %v", dead.Status)
	}

	if err := s.RetryFromDLQ(ctx, claimed.Id, time.Now()); err != nil {
		t.Fatal(err)
	}
	revived, err := s.Get(ctx, claimed.Id)
	if err != nil {
		t.Fatal(err)
	}
	if revived.Status != job.Pending {
		t.Fatalf("expected Pending after DLQ retry, got %v", revived.Status)
	}
	if revived.Attempts != 0 {
		t.Fatalf("expected attempts reset to 0, got %d", revived.Attempts)
	}

	if err := s.RetryFromDLQ(ctx, claimed.Id, time.Now()); err == nil {
		t.Fatal("expected ErrInvalidState retrying a non-dead job")
	}
}

func TestReapOrphans(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	s := store.NewStore(db, t.TempDir())

	if _, err := s.Enqueue(ctx, queuectl.JobSpec{Id: "j1", Command: "sleep 100"}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.ClaimNext(ctx, "worker-0", time.Now()); err != nil {
		t.Fatal(err)
	}

	future := time.Now().Add(time.Hour)
	n, err := s.ReapOrphans(ctx, 5*time.Minute, future)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("expected 1 reaped job, got %d", n)
	}

	got, err := s.Get(ctx, "j1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != job.Pending {
		t.Fatalf("expected Pending after reap, got %v", got.Status)
	}
}
