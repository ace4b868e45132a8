// Package harness runs scripted kitchen scenarios against the real engine.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: chop_and_deliver
//	description: "What this scenario validates"
//	level: ../levels/salad.cue
//	seed: 7
//	auto_orders: false
//	steps:
//	  - spawn: salad
//	  - teleport: { actor: chef, x: 0, z: 1.5 }
//	  - intent: { actor: chef, kind: pickup }
//	  - advance_ms: 1500
//	  - deliver: { ingredients: [tomato, onion] }
//	assertions:
//	  - type: event_count
//	    kind: order.delivered
//	    count: 1
//	  - type: event_contains
//	    kind: order.delivered
//	    subject: order-1
//	    payload: { tip: 6 }
//	  - type: final_state
//	    target: appliance
//	    id: counter-1
//	    expect: { occupant: plate-1 }
//
// # Assertion Types
//
//   - event_count: Verifies an event kind appears exactly N times
//   - event_contains: Verifies an event appears with matching payload fields
//   - event_order: Verifies event kinds first appear in the specified order
//   - final_state: Verifies fields of an actor, appliance, order, the order
//     queue or the floor after the last step
//
// Every run is also checked against trace invariants (CheckInvariants).
//
// # Deterministic Testing
//
// Each scenario builds a fresh engine with a fixed session ID and a fixed
// recipe seed, and the engine never reads wall-clock time, so identical
// scenarios produce byte-identical traces. RunWithGolden compares the
// canonical JSON trace against testdata/golden/{name}.golden.
package harness
