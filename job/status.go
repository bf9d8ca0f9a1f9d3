package job

import (
	"database/sql/driver"
	"fmt"
)

// Status represents the current lifecycle state of a Job.
//
// The state machine is:
//
//	Pending    -> Processing          (ClaimNext)
//	Processing -> Completed           (Complete)
//	Processing -> Failed              (RescheduleOrDead, attempts<=max)
//	Failed     -> Pending             (MoveFailedToPending)
//	Processing -> Dead                (RescheduleOrDead, attempts>max)
//	Dead       -> Pending             (RetryFromDLQ)
//
// Unknown is reserved as a zero value and may be used to indicate an
// unspecified or invalid state in filtering contexts.
type Status uint8

const (
	// Unknown represents an unspecified or invalid job state.
	// It is the zero value of Status.
	Unknown Status = iota

	// Pending indicates that the job is eligible for claiming once
	// NextRunAt has elapsed.
	Pending

	// Processing indicates that the job has been claimed and is
	// currently owned by WorkerName.
	Processing

	// Completed indicates successful execution. Terminal; never
	// retried automatically.
	Completed

	// Failed indicates a failed or timed-out attempt that has not yet
	// exhausted MaxRetries. Failed jobs are transient: the supervisor's
	// reactivation sweep promotes them back to Pending once NextRunAt
	// elapses, but the state remains separately listable in the
	// interim for operator inspection.
	Failed

	// Dead indicates the job exhausted MaxRetries. Terminal until an
	// explicit RetryFromDLQ.
	Dead
)

func statusToString(status Status) string {
	switch status {
	case Pending:
		return "pending"
	case Processing:
		return "processing"
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	case Dead:
		return "dead"
	default:
		return "unknown"
	}
}

func statusFromString(status string) (Status, error) {
	switch status {
	case "pending":
		return Pending, nil
	case "processing":
		return Processing, nil
	case "completed":
		return Completed, nil
	case "failed":
		return Failed, nil
	case "dead":
		return Dead, nil
	case "unknown", "":
		return Unknown, nil
	default:
		return 0, fmt.Errorf("unknown status: %s", status)
	}
}

// ParseStatus converts a string representation of a status into a
// Status value.
//
// Recognized values are "pending", "processing", "completed",
// "failed", "dead", "unknown" and the empty string (the last two both
// yield Unknown). An error is returned for any other string.
func ParseStatus(s string) (Status, error) {
	return statusFromString(s)
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(statusToString(s)), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(text []byte) error {
	status, err := statusFromString(string(text))
	if err != nil {
		return err
	}
	*s = status
	return nil
}

// String returns the canonical string representation of the status.
func (s Status) String() string {
	return statusToString(s)
}

// Value implements driver.Valuer, storing the status as its canonical
// lowercase name so the state column in storage is human-readable.
func (s Status) Value() (driver.Value, error) {
	return statusToString(s), nil
}

// Scan implements sql.Scanner.
func (s *Status) Scan(value any) error {
	if value == nil {
		*s = Unknown
		return nil
	}
	var text string
	switch v := value.(type) {
	case string:
		text = v
	case []byte:
		text = string(v)
	default:
		return fmt.Errorf("cannot scan %T into Status", value)
	}
	status, err := statusFromString(text)
	if err != nil {
		return err
	}
	*s = status
	return nil
}
