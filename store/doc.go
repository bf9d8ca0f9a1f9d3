// Package store provides a bun-based SQLite implementation of
// queuectl.Store and queuectl.Config.
//
// # Overview
//
// The backend persists three tables:
//
//   - jobs       one row per Job
//   - job_runs   append-only Run history
//   - config     key/value settings
//
// It provides durable persistence, atomic claim semantics, and
// retry-safe scheduling using UPDATE ... RETURNING.
//
// # Concurrency Model
//
// ClaimNext is implemented as a single atomic UPDATE statement with a
// subquery selecting the highest-priority eligible row, so that
// selection and state transition cannot be split by a concurrent
// claimant. Correct behavior under concurrency depends on:
//
//   - proper indexing (see InitDB)
//   - the database's write-serialization guarantees
//
// SQLite users should enable WAL mode and a busy_timeout, and should
// restrict the connection pool to a single open connection, since
// SQLite serializes writers at the file level regardless of Go-level
// pooling.
//
// # Schema
//
// InitDB creates the jobs, job_runs and config tables (if not
// already present) plus the indexes queuectl's claim and listing
// operations depend on. InitDB is idempotent and runs inside a single
// transaction; it performs no destructive migration.
//
// # Database Lifecycle
//
// OpenSQLite builds a *bun.DB configured as described above (WAL,
// busy_timeout, one open connection) and runs InitDB on it. Callers
// that construct their own *bun.DB are responsible for configuring it
// and calling InitDB before use. The package performs no schema
// migrations beyond InitDB's create-if-missing.
package store
