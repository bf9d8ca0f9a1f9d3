package store

import (
	"context"

	"github.com/queuectl/queuectl"
	"github.com/queuectl/queuectl/job"
)

var allStatuses = []job.Status{
	job.Pending,
	job.Processing,
	job.Completed,
	job.Failed,
	job.Dead,
}

// Stats returns the count of jobs in every state, including states
// with zero jobs.
func (s *Store) Stats(ctx context.Context) (queuectl.Stats, error) {
	type row struct {
		State job.Status `bun:"state"`
		Count int64      `bun:"count"`
	}
	var rows []row
	err := s.db.NewSelect().
		Model((*jobModel)(nil)).
		ColumnExpr("state").
		ColumnExpr("count(*) AS count").
		Group("state").
		Scan(ctx, &rows)
	if err != nil {
		return nil, wrapErr("stats", err)
	}
	stats := make(queuectl.Stats, len(allStatuses))
	for _, st := range allStatuses {
		stats[st] = 0
	}
	for _, r := range rows {
		stats[r.State] = r.Count
	}
	return stats, nil
}
