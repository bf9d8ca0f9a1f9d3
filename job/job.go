package job

import "time"

// Job represents a unit of work managed by the queue storage.
//
// Id is externally supplied and immutable once written; it is the
// primary key. Command is the shell command line executed by a
// worker.
//
// CreatedAt records when the job was initially enqueued. UpdatedAt
// records the last state transition or modification and never
// decreases.
//
// Status represents the current state in the job lifecycle. Attempts
// counts execution attempts that have finished, success or failure.
// MaxRetries bounds Attempts: a failed attempt that pushes Attempts
// past MaxRetries (to MaxRetries+1) transitions the job to Dead
// instead of Failed.
//
// Priority orders dispatch; smaller values are claimed first.
// TimeoutSecs, when non-zero, bounds the wall-clock duration of a
// single execution attempt. RunAt is the caller-supplied earliest
// start time; NextRunAt is the scheduler's working copy of it and is
// advanced on every retry.
//
// WorkerName identifies the worker currently holding the job; it is
// non-empty only while Status is Processing. LastError carries a
// short diagnostic from the most recent failed attempt.
//
// Job instances are snapshots of storage state. Mutating fields
// directly does not change the underlying queue; transitions must be
// performed through the Store interface.
type Job struct {
	Id         string
	Command    string
	Status     Status
	Attempts   uint32
	MaxRetries uint32
	Priority   int32

	TimeoutSecs uint32

	RunAt     *time.Time
	NextRunAt time.Time

	WorkerName string

	CreatedAt time.Time
	UpdatedAt time.Time

	LastError string
}
