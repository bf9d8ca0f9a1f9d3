package store

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/queuectl/queuectl/job"
)

func recordRun(ctx context.Context, db bun.IDB, run job.Run) error {
	model := fromRun(run)
	_, err := db.NewInsert().Model(model).Exec(ctx)
	return err
}

// RecordRun appends a Run to job_runs history. Complete and
// RescheduleOrDead call this internally as part of their transition;
// it is also callable directly for observability tooling.
func (s *Store) RecordRun(ctx context.Context, run job.Run) error {
	if err := recordRun(ctx, s.db, run); err != nil {
		return wrapErr("record_run", err)
	}
	return nil
}
