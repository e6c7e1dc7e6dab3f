// Package store provides SQLite-backed durable storage for solve logs.
//
// The store is an append-only log with:
//   - Runs: one per invocation of the solver, carrying the robot description
//     it was given (canonical JSON) and its content hash
//   - Solves: one per leg solve, with the request and outcome stored
//     bit-exactly so a run can be replayed
//
// # Logical Time
//
// All ordering uses seq INTEGER from a logical clock, never timestamps.
// Every query orders by seq ASC, id ASC COLLATE BINARY so results are
// identical across replays.
//
// # Idempotency
//
// Solve IDs are content-addressed (ir.SolveID) and inserts use
// ON CONFLICT(id) DO NOTHING, so recording the same solve twice is a no-op.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
