package store

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/uptrace/bun"

	"github.com/queuectl/queuectl"
	"github.com/queuectl/queuectl/job"
)

// Store implements queuectl.Store using a SQL backend reached through
// bun.
//
// The provided *bun.DB must already be connected and initialized via
// InitDB. LogsDir is combined with a job id to produce the paths
// returned by LogPathsFor.
type Store struct {
	db      *bun.DB
	logsDir string
}

// NewStore creates a Store. logsDir is typically <data_dir>/logs.
func NewStore(db *bun.DB, logsDir string) *Store {
	return &Store{db: db, logsDir: logsDir}
}

func wrapErr(op string, err error) error {
	return queuectl.WrapStorage(op, err)
}

// Enqueue inserts a new job in the pending state.
func (s *Store) Enqueue(ctx context.Context, spec queuectl.JobSpec) (*job.Job, error) {
	now := time.Now().UTC()
	priority := int32(100)
	if spec.Priority != nil {
		priority = *spec.Priority
	}
	maxRetries, err := s.resolveMaxRetries(ctx, spec.MaxRetries)
	if err != nil {
		return nil, err
	}
	nextRunAt := now
	if spec.RunAt != nil {
		nextRunAt = spec.RunAt.UTC()
	}
	model := &jobModel{
		Id:          spec.Id,
		Command:     spec.Command,
		State:       job.Pending,
		Attempts:    0,
		MaxRetries:  maxRetries,
		Priority:    priority,
		TimeoutSecs: spec.TimeoutSecs,
		RunAt:       spec.RunAt,
		NextRunAt:   nextRunAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	_, err = s.db.NewInsert().Model(model).Exec(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, queuectl.ErrAlreadyExists
		}
		return nil, wrapErr("enqueue", err)
	}
	return model.toJob(), nil
}

func (s *Store) resolveMaxRetries(ctx context.Context, override *uint32) (uint32, error) {
	if override != nil {
		return *override, nil
	}
	cfg := NewConfig(s.db)
	raw, err := cfg.Get(ctx, queuectl.ConfigMaxRetries)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseUint(*raw, 10, 32)
	if err != nil {
		return 0, queuectl.ErrInvalidInput
	}
	return uint32(n), nil
}

// Get returns the job identified by id.
func (s *Store) Get(ctx context.Context, id string) (*job.Job, error) {
	var m jobModel
	err := s.db.NewSelect().Model(&m).Where("id = ?", id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, queuectl.ErrNotFound
		}
		return nil, wrapErr("get", err)
	}
	return m.toJob(), nil
}

// List returns jobs in the given state, ordered by (priority ASC,
// created_at ASC).
func (s *Store) List(ctx context.Context, status job.Status, limit int) ([]*job.Job, error) {
	var models []*jobModel
	q := s.db.NewSelect().Model(&models).Order("priority ASC", "created_at ASC")
	if status != job.Unknown {
		q = q.Where("state = ?", status)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, wrapErr("list", err)
	}
	jobs := make([]*job.Job, len(models))
	for i, m := range models {
		jobs[i] = m.toJob()
	}
	return jobs, nil
}

func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key")
}
