package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/queuectl/queuectl"
	"github.com/queuectl/queuectl/job"
)

// ClaimNext atomically selects the single highest-priority eligible
// pending job and transitions it to processing.
//
// Eligibility is state=pending AND next_run_at <= now. Selection and
// mutation happen inside one UPDATE ... WHERE id IN (subquery)
// RETURNING statement so that concurrent callers cannot both claim
// the same row.
func (s *Store) ClaimNext(ctx context.Context, workerName string, now time.Time) (*job.Job, error) {
	subQuery := s.db.NewSelect().
		Model((*jobModel)(nil)).
		Column("id").
		Where("state = ?", job.Pending).
		Where("next_run_at <= ?", now).
		Order("priority ASC", "created_at ASC", "id ASC").
		Limit(1)
	var models []*jobModel
	err := s.db.NewUpdate().
		Model((*jobModel)(nil)).
		Set("state = ?", job.Processing).
		Set("worker_name = ?", workerName).
		Set("updated_at = ?", now).
		Where("id IN (?)", subQuery).
		Returning("*").
		Scan(ctx, &models)
	if err != nil {
		return nil, wrapErr("claim_next", err)
	}
	if len(models) == 0 {
		return nil, nil
	}
	return models[0].toJob(), nil
}

// Complete transitions a processing job to completed.
func (s *Store) Complete(ctx context.Context, id string, run job.Run) error {
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := recordRun(ctx, tx, run); err != nil {
			return err
		}
		res, err := tx.NewUpdate().
			Model((*jobModel)(nil)).
			Set("state = ?", job.Completed).
			Set("attempts = attempts + 1").
			Set("worker_name = ?", "").
			Set("last_error = ?", "").
			Set("updated_at = ?", run.FinishedAt).
			Where("id = ?", id).
			Where("state = ?", job.Processing).
			Exec(ctx)
		if err != nil {
			return err
		}
		if !isAffected(res) {
			return queuectl.ErrInvalidState
		}
		return nil
	})
	if err != nil && !errors.Is(err, queuectl.ErrInvalidState) {
		return wrapErr("complete", err)
	}
	return err
}

// RescheduleOrDead reports a failed or timed-out attempt. The job
// transitions to failed with a computed next_run_at if attempts (post
// increment) is still within max_retries, otherwise to dead.
func (s *Store) RescheduleOrDead(ctx context.Context, id string, run job.Run, backoffBase float64) error {
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := recordRun(ctx, tx, run); err != nil {
			return err
		}
		var m jobModel
		err := tx.NewSelect().Model(&m).Where("id = ?", id).Scan(ctx)
		if err != nil {
			return err
		}
		if m.State != job.Processing {
			return queuectl.ErrInvalidState
		}
		attempts := m.Attempts + 1
		lastErr := summarizeRun(run)
		newState := job.Failed
		nextRunAt := run.FinishedAt.Add(queuectl.BackoffDelay(backoffBase, attempts))
		if attempts > m.MaxRetries {
			newState = job.Dead
			nextRunAt = m.NextRunAt
		}
		res, err := tx.NewUpdate().
			Model((*jobModel)(nil)).
			Set("state = ?", newState).
			Set("attempts = ?", attempts).
			Set("worker_name = ?", "").
			Set("last_error = ?", lastErr).
			Set("next_run_at = ?", nextRunAt).
			Set("updated_at = ?", run.FinishedAt).
			Where("id = ?", id).
			Where("state = ?", job.Processing).
			Exec(ctx)
		if err != nil {
			return err
		}
		if !isAffected(res) {
			return queuectl.ErrInvalidState
		}
		return nil
	})
	if err != nil && !errors.Is(err, queuectl.ErrInvalidState) {
		return wrapErr("reschedule_or_dead", err)
	}
	return err
}

func summarizeRun(run job.Run) string {
	switch run.Outcome {
	case job.OutcomeTimeout:
		return fmt.Sprintf("attempt %d timed out", run.Attempt)
	case job.OutcomeFailure:
		return fmt.Sprintf("attempt %d exited %d", run.Attempt, run.ExitCode)
	default:
		return ""
	}
}

// MoveFailedToPending transitions every failed job whose next_run_at
// has elapsed to pending.
func (s *Store) MoveFailedToPending(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.db.NewUpdate().
		Model((*jobModel)(nil)).
		Set("state = ?", job.Pending).
		Set("updated_at = ?", now).
		Where("state = ?", job.Failed).
		Where("next_run_at <= ?", now).
		Exec(ctx)
	if err != nil {
		return 0, wrapErr("move_failed_to_pending", err)
	}
	return getAffected(res), nil
}

// IncrementAttempts bumps a job's attempts counter directly.
func (s *Store) IncrementAttempts(ctx context.Context, id string) error {
	res, err := s.db.NewUpdate().
		Model((*jobModel)(nil)).
		Set("attempts = attempts + 1").
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return wrapErr("increment_attempts", err)
	}
	if !isAffected(res) {
		return queuectl.ErrNotFound
	}
	return nil
}

// RetryFromDLQ transitions a dead job back to pending.
func (s *Store) RetryFromDLQ(ctx context.Context, id string, now time.Time) error {
	res, err := s.db.NewUpdate().
		Model((*jobModel)(nil)).
		Set("state = ?", job.Pending).
		Set("attempts = 0").
		Set("last_error = ?", "").
		Set("next_run_at = ?", now).
		Set("updated_at = ?", now).
		Where("id = ?", id).
		Where("state = ?", job.Dead).
		Exec(ctx)
	if err != nil {
		return wrapErr("retry_from_dlq", err)
	}
	if !isAffected(res) {
		return queuectl.ErrInvalidState
	}
	return nil
}

// ReapOrphans reclaims processing jobs whose updated_at is older than
// now-olderThan back to pending, leaving attempts unchanged. This
// implements the orphan-recovery policy as an explicit, opt-in
// operator choice.
func (s *Store) ReapOrphans(ctx context.Context, olderThan time.Duration, now time.Time) (int64, error) {
	cutoff := now.Add(-olderThan)
	res, err := s.db.NewUpdate().
		Model((*jobModel)(nil)).
		Set("state = ?", job.Pending).
		Set("worker_name = ?", "").
		Set("last_error = ?", "orphaned: worker did not report completion").
		Set("updated_at = ?", now).
		Where("state = ?", job.Processing).
		Where("updated_at <= ?", cutoff).
		Exec(ctx)
	if err != nil {
		return 0, wrapErr("reap_orphans", err)
	}
	return getAffected(res), nil
}
