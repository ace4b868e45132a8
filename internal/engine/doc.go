// Package engine runs the kitchen simulation.
//
// ARCHITECTURE:
//
// Single-Writer Step Loop:
// One goroutine owns every appliance, actor, order and the event bus.
// Other goroutines only submit intents through a thread-safe queue.
// This keeps runs reproducible: the same level, seed and intent sequence
// always produce the same event trace.
//
// Step Flow:
//  1. FixedStep: actors integrate movement (dash included), then each
//     actor's proximity selector rescans its range and moves the highlight.
//  2. FrameStep: queued intents are applied in FIFO order (pickup/drop,
//     interact, dash), appliances tick in sorted ID order, then the order
//     manager ticks.
//
// Every event published during a step carries that step's tick number and
// a monotonic sequence number from the bus clock. Wall-clock time never
// reaches the simulation: Run only decides when to call Step.
//
// Journal:
// When a Journal is configured, a wildcard subscriber appends every event
// to it. Journal failures are logged and the simulation continues.
package engine
