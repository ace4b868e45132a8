package harness

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/kitchen/internal/appliance"
	"github.com/roach88/kitchen/internal/engine"
	"github.com/roach88/kitchen/internal/ir"
	"github.com/roach88/kitchen/internal/item"
	"github.com/roach88/kitchen/internal/order"
	"github.com/roach88/kitchen/internal/slot"
)

func strPtr(s string) *string { return &s }

func sampleTrace() []TraceEvent {
	return []TraceEvent{
		{Seq: 1, Tick: 0, Kind: "order.spawned", Subject: "order-1", Payload: ir.Object{"recipe": ir.String("salad"), "index": ir.Int(0)}},
		{Seq: 2, Tick: 1, Kind: "chopping.start", Actor: "chef", Subject: "board"},
		{Seq: 3, Tick: 1, Kind: "chopping.progress", Actor: "chef", Subject: "board"},
		{Seq: 4, Tick: 2, Kind: "chopping.progress", Actor: "chef", Subject: "board"},
		{Seq: 5, Tick: 3, Kind: "chopping.stop", Actor: "chef", Subject: "board", Payload: ir.Object{"completed": ir.Bool(true)}},
		{Seq: 6, Tick: 4, Kind: "order.delivered", Subject: "order-1", Payload: ir.Object{"recipe": ir.String("salad"), "tip": ir.Int(6)}},
		{Seq: 7, Tick: 4, Kind: "order.regroup", Subject: "order-1"},
		{Seq: 8, Tick: 5, Kind: "order.delivered", Payload: ir.Object{"tip": ir.Int(-1)}},
	}
}

func TestAssertEventCount(t *testing.T) {
	trace := sampleTrace()

	assert.NoError(t, assertEventCount(trace, Assertion{Kind: "chopping.progress", Count: 2}))
	assert.NoError(t, assertEventCount(trace, Assertion{Kind: "order.expired", Count: 0}))
	assert.NoError(t, assertEventCount(trace, Assertion{Kind: "order.delivered", Count: 2}))

	err := assertEventCount(trace, Assertion{Kind: "chopping.progress", Count: 3})
	require.Error(t, err)
	var ae *AssertionError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, AssertEventCount, ae.Type)
	assert.Equal(t, "2 occurrences", ae.Actual)
}

func TestAssertEventCount_Filters(t *testing.T) {
	trace := sampleTrace()

	assert.NoError(t, assertEventCount(trace, Assertion{Kind: "order.delivered", Subject: strPtr(""), Count: 1}),
		"empty subject selects the nothing-delivered signal")
	assert.NoError(t, assertEventCount(trace, Assertion{Kind: "order.delivered", Subject: strPtr("order-1"), Count: 1}))
	assert.NoError(t, assertEventCount(trace, Assertion{Kind: "chopping.start", Actor: "chef", Count: 1}))
	assert.NoError(t, assertEventCount(trace, Assertion{Kind: "chopping.start", Actor: "sous", Count: 0}))
}

func TestAssertEventContains(t *testing.T) {
	trace := sampleTrace()

	assert.NoError(t, assertEventContains(trace, Assertion{
		Kind:    "order.delivered",
		Payload: map[string]any{"tip": 6},
	}))
	assert.NoError(t, assertEventContains(trace, Assertion{
		Kind:    "order.delivered",
		Payload: map[string]any{"tip": -1},
	}))
	assert.NoError(t, assertEventContains(trace, Assertion{Kind: "order.regroup"}),
		"no payload means any event of the kind")

	err := assertEventContains(trace, Assertion{
		Kind:    "order.delivered",
		Subject: strPtr("order-1"),
		Payload: map[string]any{"tip": 4},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found in trace")
	assert.Contains(t, err.Error(), "Full trace:")
}

func TestAssertEventContains_RejectsFloatPayload(t *testing.T) {
	err := assertEventContains(sampleTrace(), Assertion{
		Kind:    "order.delivered",
		Payload: map[string]any{"tip": 6.5},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "event_contains payload")
}

func TestAssertEventOrder(t *testing.T) {
	trace := sampleTrace()

	assert.NoError(t, assertEventOrder(trace, Assertion{
		Kinds: []string{"order.spawned", "chopping.start", "order.delivered", "order.regroup"},
	}))

	err := assertEventOrder(trace, Assertion{Kinds: []string{"order.delivered", "chopping.start"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "should be before")

	err = assertEventOrder(trace, Assertion{Kinds: []string{"order.spawned", "order.expired"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing kind: order.expired")
}

func sampleResult() *Result {
	r := NewResult()
	r.State = engine.Observation{
		Session: "s",
		Tick:    10,
		Actors: []engine.ActorView{{
			ID:       "chef",
			Position: slot.Vec3{X: 1.5},
			Facing:   slot.Vec3{Z: 1},
			Held:     "plate-1",
			Contents: []item.Type{"tomato"},
			Target:   "board",
		}},
		Appliances: []appliance.Snapshot{{
			ID:       "board",
			Kind:     appliance.KindChoppingBoard,
			Position: slot.Vec3{X: 2},
			Occupant: "onion-1",
			Progress: 0.5,
		}},
		Floor: []engine.FloorItem{{ID: "tomato-2", Position: slot.Vec3{X: -1}}},
		Orders: []order.View{{
			ID:          "order-2",
			Recipe:      "soup",
			Ingredients: []item.Type{"tomato"},
			Remaining:   40 * time.Second,
			Initial:     60 * time.Second,
		}},
		Capacity: 5,
	}
	return r
}

func TestAssertFinalState_Targets(t *testing.T) {
	r := sampleResult()

	tests := []Assertion{
		{Target: TargetActor, ID: "chef", Expect: map[string]any{
			"held": "plate-1", "target": "board", "contents": []any{"tomato"},
			"position": map[string]any{"x": 1.5, "y": 0, "z": 0},
		}},
		{Target: TargetAppliance, ID: "board", Expect: map[string]any{
			"kind": "chopping_board", "occupant": "onion-1", "progress": 0.5,
		}},
		{Target: TargetOrder, ID: "order-2", Expect: map[string]any{
			"recipe": "soup", "remaining_ms": 40000, "initial_ms": 60000, "ingredients": []any{"tomato"},
		}},
		{Target: TargetOrders, Expect: map[string]any{"count": 1, "capacity": 5, "recipes": []any{"soup"}}},
		{Target: TargetFloor, Expect: map[string]any{"count": 1, "items": []any{"tomato-2"}}},
	}
	for _, a := range tests {
		t.Run(a.Target, func(t *testing.T) {
			a.Type = AssertFinalState
			assert.NoError(t, assertFinalState(r, a))
		})
	}
}

func TestAssertFinalState_Failures(t *testing.T) {
	r := sampleResult()

	err := assertFinalState(r, Assertion{Target: TargetActor, ID: "sous", Expect: map[string]any{"held": "x"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "actor not found")

	err = assertFinalState(r, Assertion{Target: TargetOrder, ID: "order-1", Expect: map[string]any{"recipe": "salad"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "order not active")

	err = assertFinalState(r, Assertion{Target: TargetActor, ID: "chef", Expect: map[string]any{"held": "plate-2"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `field "held"`)

	err = assertFinalState(r, Assertion{Target: TargetAppliance, ID: "board", Expect: map[string]any{"temperature": 3}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "to exist")
}

func TestEvaluateAssertions(t *testing.T) {
	r := sampleResult()
	r.Trace = sampleTrace()

	errs := EvaluateAssertions(r, []Assertion{
		{Type: AssertEventCount, Kind: "order.regroup", Count: 1},
		{Type: AssertEventOrder, Kinds: []string{"chopping.start", "chopping.stop"}},
		{Type: AssertFinalState, Target: TargetOrders, Expect: map[string]any{"count": 1}},
	})
	assert.Empty(t, errs)

	errs = EvaluateAssertions(r, []Assertion{
		{Type: AssertEventCount, Kind: "order.regroup", Count: 2},
		{Type: "trace_contains"},
	})
	require.Len(t, errs, 2)
	assert.Contains(t, errs[1], `unknown assertion type "trace_contains"`)
}

func TestAssertionError_ErrorFormat(t *testing.T) {
	err := &AssertionError{
		Type:     AssertEventCount,
		Expected: "1 occurrences of order.expired",
		Actual:   "0 occurrences",
		Trace:    sampleTrace()[:1],
	}

	msg := err.Error()
	assert.Contains(t, msg, "Assertion failed: event_count")
	assert.Contains(t, msg, "Expected: 1 occurrences of order.expired")
	assert.Contains(t, msg, "Actual: 0 occurrences")
	assert.Contains(t, msg, `[1@0] order.spawned order-1 {"index":0,"recipe":"salad"}`)
}

func TestNormalizeYAML(t *testing.T) {
	in := map[string]any{
		"outer": map[any]any{"inner": []any{map[any]any{1: "x"}}},
	}
	got := normalizeYAML(in)
	assert.Equal(t, map[string]any{
		"outer": map[string]any{"inner": []any{map[string]any{"1": "x"}}},
	}, got)
}
