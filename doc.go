// Package queuectl provides a durable, multi-worker background job
// queue: clients enqueue shell commands, a pool of worker processes
// claims and executes them, and failures are retried with exponential
// backoff before chronically failing jobs are diverted to a dead
// letter queue.
//
// # Overview
//
// queuectl defines the Store interface, the single source of truth
// for jobs, runs and configuration, and the Executor and Supervisor
// types that drive execution on top of it. The package does not
// mandate a particular storage engine; the store subpackage provides
// a SQLite-backed implementation via bun.
//
// # State Machine
//
// Jobs follow this lifecycle:
//
//	pending    -> processing   (ClaimNext)
//	processing -> completed    (Complete)
//	processing -> failed       (RescheduleOrDead, attempts <= max)
//	failed     -> pending      (MoveFailedToPending)
//	processing -> dead         (RescheduleOrDead, attempts > max)
//	dead       -> pending      (RetryFromDLQ)
//
// completed and dead are terminal; dead only until an explicit DLQ
// retry.
//
// # Retry Policy
//
// Retry behavior is controlled by the backoff_base and max_retries
// configuration keys. When an attempt fails or times out:
//
//   - if the job has not exceeded max_retries, it is rescheduled with
//     a delay of backoff_base^(attempts-1) seconds
//   - otherwise it transitions to dead
//
// # Process Model
//
// A Supervisor owns a pool of worker processes, each a separate OS
// process so that one crashing command cannot take down its peers.
// Within a worker, execution is sequential: claim, spawn, wait,
// report. The Supervisor centrally polls Store.MoveFailedToPending so
// that N workers do not each issue the same sweep.
//
// # Concurrency Model
//
// At-most-one-worker-per-job is enforced by ClaimNext performing a
// single atomic conditional UPDATE against the store; see the store
// subpackage's documentation for the exact mechanism.
//
// # Summary
//
// queuectl provides a minimal, crash-safe foundation for running
// shell-command jobs at scale on a single host, with explicit
// lifecycle control, retry semantics, and a pluggable storage layer.
package queuectl
