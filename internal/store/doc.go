// Package store provides the SQLite-backed fold log.
//
// The log is append-only:
//   - runs: one row per session against a target, keyed by a random UUID
//   - folds: one row per evaluated operation, keyed by ir.FoldID
//
// # Ordering
//
// Runs and folds carry a logical seq, never a timestamp. Fold queries use
// ORDER BY seq ASC, id ASC COLLATE BINARY so a replay visits records in the
// order they were written.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: folds must reference an existing run
//
// Operands and diagnostics are stored as RFC 8785 canonical JSON produced
// by ir.MarshalCanonical.
package store
