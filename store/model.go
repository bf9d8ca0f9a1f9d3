package store

import (
	"time"

	"github.com/uptrace/bun"

	"github.com/queuectl/queuectl/job"
)

type jobModel struct {
	bun.BaseModel `bun:"table:jobs"`

	Id         string     `bun:"id,pk"`
	Command    string     `bun:"command,notnull"`
	State      job.Status `bun:"state,notnull"`
	Attempts   uint32     `bun:"attempts,notnull,default:0"`
	MaxRetries uint32     `bun:"max_retries,notnull,default:0"`
	Priority   int32      `bun:"priority,notnull,default:100"`

	TimeoutSecs uint32 `bun:"timeout_secs"`

	RunAt     *time.Time `bun:"run_at"`
	NextRunAt time.Time  `bun:"next_run_at,notnull"`

	WorkerName string `bun:"worker_name"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp"`

	LastError string `bun:"last_error"`
}

func (m *jobModel) toJob() *job.Job {
	return &job.Job{
		Id:          m.Id,
		Command:     m.Command,
		Status:      m.State,
		Attempts:    m.Attempts,
		MaxRetries:  m.MaxRetries,
		Priority:    m.Priority,
		TimeoutSecs: m.TimeoutSecs,
		RunAt:       m.RunAt,
		NextRunAt:   m.NextRunAt,
		WorkerName:  m.WorkerName,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
		LastError:   m.LastError,
	}
}

type runModel struct {
	bun.BaseModel `bun:"table:job_runs"`

	JobId       string    `bun:"job_id,notnull"`
	Attempt     uint32    `bun:"attempt,notnull"`
	StartedAt   time.Time `bun:"started_at,notnull"`
	FinishedAt  time.Time `bun:"finished_at,notnull"`
	DurationMs  int64     `bun:"duration_ms,notnull"`
	ExitCode    int       `bun:"exit_code,notnull"`
	StdoutBytes int64     `bun:"stdout_bytes,notnull"`
	StderrBytes int64     `bun:"stderr_bytes,notnull"`
	WorkerName  string    `bun:"worker_name"`
	Outcome     job.Outcome `bun:"outcome,notnull"`
}

func fromRun(r job.Run) *runModel {
	return &runModel{
		JobId:       r.JobId,
		Attempt:     r.Attempt,
		StartedAt:   r.StartedAt,
		FinishedAt:  r.FinishedAt,
		DurationMs:  r.DurationMs,
		ExitCode:    r.ExitCode,
		StdoutBytes: r.StdoutBytes,
		StderrBytes: r.StderrBytes,
		WorkerName:  r.WorkerName,
		Outcome:     r.Outcome,
	}
}

type configModel struct {
	bun.BaseModel `bun:"table:config"`

	Key   string `bun:"key,pk"`
	Value string `bun:"value,notnull"`
}
