package queuectl

import "context"

// Recognised configuration keys. Unknown keys are accepted by Config
// implementations for forward compatibility but are ignored by the
// core.
const (
	ConfigMaxRetries         = "max_retries"
	ConfigBackoffBase        = "backoff_base"
	ConfigPollIntervalMs     = "poll_interval_ms"
	ConfigDefaultTimeoutSecs = "default_timeout_secs"
	ConfigReaperEnabled      = "reaper_enabled"
	ConfigReaperAgeSecs      = "reaper_age_secs"
)

// DefaultConfig holds the materialized defaults for every recognised
// key. ConfigReaperEnabled and ConfigReaperAgeSecs surface the
// orphan-recovery open question as an explicit, off-by-default
// choice: processing jobs whose worker died are never reclaimed
// unless an operator opts in.
var DefaultConfig = map[string]string{
	ConfigMaxRetries:         "3",
	ConfigBackoffBase:        "2",
	ConfigPollIntervalMs:     "500",
	ConfigDefaultTimeoutSecs: "60",
	ConfigReaperEnabled:      "false",
	ConfigReaperAgeSecs:      "300",
}

// Config is a typed view over key/value settings backed by Store. On
// first read of a recognised key, the defaults table is materialized
// into the backing store.
type Config interface {
	// Get returns the string value for key, or nil if unset and key is
	// not a recognised key with a default.
	Get(ctx context.Context, key string) (*string, error)

	// Set stores value for key. Implementations validate recognised
	// numeric keys and return ErrInvalidInput for non-numeric values.
	Set(ctx context.Context, key, value string) error

	// All returns every key/value pair currently stored, including
	// materialized defaults.
	All(ctx context.Context) (map[string]string, error)
}
