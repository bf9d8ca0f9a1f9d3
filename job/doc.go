// Package job defines the durable record types managed by the queue:
// Job, the persistent unit of work and its scheduling state, and Run,
// the append-only record of one execution attempt.
//
// Job values are snapshots of storage state. Mutating the fields of a
// returned Job does not change the underlying queue; transitions must
// be performed through the Store interface.
package job
