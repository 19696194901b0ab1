// Package store persists completed simulation runs to SQLite.
//
// The archive exists for two consumers: the trace command, which prints
// an archived run's daily counts and final states, and the replay
// command, which re-executes a run from its stored parameters and
// verifies the result digest matches (determinism check).
//
// Write discipline follows the single-writer model: a run is archived
// in one transaction (run row + daily counts + final states), with
// ON CONFLICT DO NOTHING making re-archival of the same run id a no-op.
package store
