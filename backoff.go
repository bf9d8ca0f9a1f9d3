package queuectl

import (
	"math"
	"time"
)

// BackoffDelay computes the scheduling delay before a failed job
// becomes eligible again, given the backoff base from configuration
// and the job's attempts count after the failing attempt has already
// been incremented.
//
// The delay is base^(attempts-1) seconds, so the first failure (attempts
// becomes 1) reschedules after base^0 = 1 second, the second failure
// after base^1 seconds, and so on. This restates the source's
// base^attempts computation with attempts already incremented at the
// point of scheduling, to remove ambiguity about increment ordering.
func BackoffDelay(base float64, attempts uint32) time.Duration {
	exp := math.Pow(base, float64(attempts-1))
	return time.Duration(exp * float64(time.Second))
}
