package store

import (
	"context"
	"errors"

	"github.com/uptrace/bun"
)

func createTable(ctx context.Context, db bun.IDB, model any) error {
	_, err := db.NewCreateTable().
		Model(model).
		IfNotExists().
		Exec(ctx)
	return err
}

func createIndex(ctx context.Context, db bun.IDB, model any, name string, columns ...string) error {
	q := db.NewCreateIndex().
		Model(model).
		Index(name).
		IfNotExists()
	for _, c := range columns {
		q = q.Column(c)
	}
	_, err := q.Exec(ctx)
	return err
}

func initDB(ctx context.Context, db *bun.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := createTable(ctx, tx, (*jobModel)(nil)); err != nil {
		return errors.Join(err, tx.Rollback())
	}
	if err := createTable(ctx, tx, (*runModel)(nil)); err != nil {
		return errors.Join(err, tx.Rollback())
	}
	if err := createTable(ctx, tx, (*configModel)(nil)); err != nil {
		return errors.Join(err, tx.Rollback())
	}
	if err := createIndex(ctx, tx, (*jobModel)(nil), "idx_jobs_state_priority_created",
		"state", "priority", "created_at"); err != nil {
		return errors.Join(err, tx.Rollback())
	}
	if err := createIndex(ctx, tx, (*jobModel)(nil), "idx_jobs_state_next_run",
		"state", "next_run_at"); err != nil {
		return errors.Join(err, tx.Rollback())
	}
	if err := createIndex(ctx, tx, (*jobModel)(nil), "idx_jobs_state_updated",
		"state", "updated_at"); err != nil {
		return errors.Join(err, tx.Rollback())
	}
	return tx.Commit()
}

// InitDB initializes the database schema required by the store
// package: the jobs, job_runs and config tables and their indexes,
// inside a single transaction. It is idempotent and may be called
// safely on every process startup.
func InitDB(ctx context.Context, db *bun.DB) error {
	return initDB(ctx, db)
}
