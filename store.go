package queuectl

import (
	"context"
	"time"

	"github.com/queuectl/queuectl/job"
)

// JobSpec describes a job to be enqueued. Nil optional fields take
// defaults: Priority defaults to 100, MaxRetries defaults to the
// store's max_retries configuration value, and NextRunAt defaults to
// RunAt if set, else now. Priority and MaxRetries are pointers rather
// than zero-valued ints because 0 is itself a valid, meaningful value
// for both (highest priority; no retries).
type JobSpec struct {
	Id          string
	Command     string
	Priority    *int32
	MaxRetries  *uint32
	TimeoutSecs uint32
	RunAt       *time.Time
}

// Stats reports a count of jobs for every known state, including
// states with zero jobs.
type Stats map[job.Status]int64

// Store is the single source of truth for jobs, runs and
// configuration. All state transitions flow through it; workers never
// write job rows directly.
//
// Implementations must make ClaimNext atomic: a single conditional
// update that selects and mutates one eligible row and returns it, so
// that under concurrent callers every job is claimed by exactly one
// worker. All other mutating operations are single-row updates keyed
// by id.
type Store interface {
	// Enqueue inserts a new job in the pending state. It returns
	// ErrAlreadyExists if spec.Id collides with an existing job.
	Enqueue(ctx context.Context, spec JobSpec) (*job.Job, error)

	// Get returns the job identified by id, or ErrNotFound if absent.
	Get(ctx context.Context, id string) (*job.Job, error)

	// List returns jobs in the given state (or every state, if status
	// is job.Unknown), ordered by (priority ASC, created_at ASC), up to
	// limit rows (unbounded if limit <= 0).
	List(ctx context.Context, status job.Status, limit int) ([]*job.Job, error)

	// ClaimNext atomically selects the single highest-priority
	// eligible pending job (state=pending, next_run_at <= now),
	// transitions it to processing, stamps workerName and updated_at,
	// and returns it. It returns (nil, nil) when no eligible job
	// exists. Ties are broken by ascending priority, then ascending
	// created_at, then ascending id.
	ClaimNext(ctx context.Context, workerName string, now time.Time) (*job.Job, error)

	// Complete transitions a processing job to completed, appends a
	// successful Run, clears worker_name and last_error, and
	// increments attempts.
	Complete(ctx context.Context, id string, run job.Run) error

	// RescheduleOrDead reports a failed or timed-out attempt on a
	// processing job: attempts is incremented, the Run is appended and
	// last_error set, then the job transitions to failed with a
	// computed next_run_at (if attempts <= max_retries) or to dead
	// (otherwise).
	RescheduleOrDead(ctx context.Context, id string, run job.Run, backoffBase float64) error

	// MoveFailedToPending transitions every failed job whose
	// next_run_at has elapsed to pending. It is idempotent: applying it
	// twice in succession with the same clock affects no additional
	// rows the second time.
	MoveFailedToPending(ctx context.Context, now time.Time) (int64, error)

	// IncrementAttempts bumps a job's attempts counter directly. It is
	// reserved for explicit bookkeeping and is not used by the normal
	// success path.
	IncrementAttempts(ctx context.Context, id string) error

	// RetryFromDLQ transitions a dead job back to pending, resetting
	// attempts to 0, clearing last_error, and setting next_run_at to
	// now. It returns ErrInvalidState if the job is not dead.
	RetryFromDLQ(ctx context.Context, id string, now time.Time) error

	// Stats returns the count of jobs in every state.
	Stats(ctx context.Context) (Stats, error)

	// RecordRun appends a Run. Complete and RescheduleOrDead call this
	// as part of their transition; it is also callable directly for
	// observability.
	RecordRun(ctx context.Context, run job.Run) error

	// LogPathsFor returns the deterministic stdout/stderr log paths for
	// id without creating the files.
	LogPathsFor(id string) (stdoutPath, stderrPath string)

	// ReapOrphans reclaims processing jobs whose updated_at is older
	// than now-olderThan back to pending, leaving attempts unchanged.
	// It implements the orphan-recovery policy as an explicit,
	// opt-in operator choice rather than an automatic behavior; see
	// SupervisorConfig.ReaperEnabled.
	ReapOrphans(ctx context.Context, olderThan time.Duration, now time.Time) (int64, error)
}
