package queuectl

import "errors"

var (
	// ErrNotFound indicates that no job with the given id exists.
	ErrNotFound = errors.New("job not found")

	// ErrAlreadyExists indicates that Enqueue collided on id.
	ErrAlreadyExists = errors.New("job already exists")

	// ErrInvalidState indicates that an operation requires a job to be
	// in a specific state that it is not currently in, for example,
	// RetryFromDLQ called on a job that is not dead.
	ErrInvalidState = errors.New("invalid job state for operation")

	// ErrInvalidInput indicates malformed job input (such as a missing
	// id or an unparseable run-at time), an unknown state filter, or a
	// value of the wrong type supplied for a typed config key.
	ErrInvalidInput = errors.New("invalid input")

	// ErrSupervisorRunning indicates that a supervisor is already live
	// against this data directory, detected via a pid file recording
	// at least one running worker. data_dir is treated as a singleton
	// resource per instance; a second supervisor must not be started
	// against it.
	ErrSupervisorRunning = errors.New("supervisor already running against this data directory")
)

// StorageError wraps an underlying storage engine failure so that
// callers can distinguish infrastructure failures from the typed
// sentinel errors above without losing the original cause.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return "storage error during " + e.Op + ": " + e.Err.Error()
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// WrapStorage wraps err as a StorageError identifying the failing
// operation. It returns nil if err is nil.
func WrapStorage(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}
