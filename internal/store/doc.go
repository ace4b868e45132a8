// Package store provides the SQLite-backed event journal.
//
// The journal is an append-only trace of simulation events for offline
// analysis (the trace command, training pipelines). Nothing is ever read
// back into a running simulation.
//
//   - sessions: one row per engine run (level name and recipe seed)
//   - events: every bus event, keyed by (session_id, seq)
//
// # Critical Patterns
//
// Logical Time
//   - All ordering uses seq INTEGER (the bus clock), NEVER timestamps
//   - Queries include: ORDER BY seq ASC, id ASC COLLATE BINARY
//
// Content-Addressed Events
//   - Event IDs are computed via ir.EventID over canonical JSON
//   - Re-writing the same event is a no-op (ON CONFLICT DO NOTHING)
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
