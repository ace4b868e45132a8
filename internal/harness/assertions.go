package harness

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/roach88/kitchen/internal/ir"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, ev := range e.Trace {
			fmt.Fprintf(&buf, "  [%d@%d] %s", ev.Seq, ev.Tick, ev.Kind)
			if ev.Subject != "" {
				fmt.Fprintf(&buf, " %s", ev.Subject)
			}
			if len(ev.Payload) > 0 {
				data, _ := ir.MarshalCanonical(ev.Payload)
				fmt.Fprintf(&buf, " %s", data)
			}
			buf.WriteByte('\n')
		}
	}

	return buf.String()
}

// matchEvent applies the kind, subject and actor filters of an assertion.
func matchEvent(ev TraceEvent, a Assertion) bool {
	if ev.Kind != a.Kind {
		return false
	}
	if a.Subject != nil && ev.Subject != *a.Subject {
		return false
	}
	if a.Actor != "" && ev.Actor != a.Actor {
		return false
	}
	return true
}

func describeFilter(a Assertion) string {
	desc := a.Kind
	if a.Subject != nil {
		desc += fmt.Sprintf(" subject=%q", *a.Subject)
	}
	if a.Actor != "" {
		desc += fmt.Sprintf(" actor=%q", a.Actor)
	}
	return desc
}

// assertEventCount checks the filtered event appears exactly Count times.
func assertEventCount(trace []TraceEvent, a Assertion) error {
	count := 0
	for _, ev := range trace {
		if matchEvent(ev, a) {
			count++
		}
	}

	if count != a.Count {
		return &AssertionError{
			Type:     AssertEventCount,
			Expected: fmt.Sprintf("%d occurrences of %s", a.Count, describeFilter(a)),
			Actual:   fmt.Sprintf("%d occurrences", count),
			Trace:    trace,
		}
	}
	return nil
}

// assertEventContains checks some filtered event carries the expected
// payload fields (subset match).
func assertEventContains(trace []TraceEvent, a Assertion) error {
	want, err := ir.FromGo(normalizeYAML(a.Payload))
	if err != nil {
		return fmt.Errorf("event_contains payload: %w", err)
	}
	wantObj, _ := want.(ir.Object)

	for _, ev := range trace {
		if matchEvent(ev, a) && ir.Subset(wantObj, ev.Payload) {
			return nil
		}
	}

	return &AssertionError{
		Type:     AssertEventContains,
		Expected: fmt.Sprintf("%s with payload %v", describeFilter(a), a.Payload),
		Actual:   "not found in trace",
		Trace:    trace,
	}
}

// assertEventOrder checks event kinds first appear in the given order.
// Kinds don't need to be consecutive (intervening events are allowed).
func assertEventOrder(trace []TraceEvent, a Assertion) error {
	positions := make(map[string]int)
	for i, ev := range trace {
		if _, seen := positions[ev.Kind]; !seen {
			positions[ev.Kind] = i + 1 // 1-indexed for readability
		}
	}

	for _, kind := range a.Kinds {
		if positions[kind] == 0 {
			return &AssertionError{
				Type:     AssertEventOrder,
				Expected: fmt.Sprintf("all kinds present: %v", a.Kinds),
				Actual:   fmt.Sprintf("missing kind: %s", kind),
				Trace:    trace,
			}
		}
	}

	for i := 1; i < len(a.Kinds); i++ {
		prev, curr := a.Kinds[i-1], a.Kinds[i]
		if positions[prev] >= positions[curr] {
			return &AssertionError{
				Type:     AssertEventOrder,
				Expected: fmt.Sprintf("kinds in order: %v", a.Kinds),
				Actual: fmt.Sprintf("%s (pos %d) should be before %s (pos %d)",
					prev, positions[prev], curr, positions[curr]),
				Trace: trace,
			}
		}
	}
	return nil
}

// assertFinalState checks fields of one entity in the final snapshot.
// Both sides go through a JSON round trip, so YAML integers compare equal
// to JSON numbers.
func assertFinalState(result *Result, a Assertion) error {
	actual, err := stateEntity(result, a)
	if err != nil {
		return &AssertionError{
			Type:     AssertFinalState,
			Expected: fmt.Sprintf("%s %s", a.Target, a.ID),
			Actual:   err.Error(),
		}
	}

	keys := make([]string, 0, len(a.Expect))
	for k := range a.Expect {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		expectedValue := jsonValue(normalizeYAML(a.Expect[key]))
		actualValue, exists := actual[key]
		if !exists {
			return &AssertionError{
				Type:     AssertFinalState,
				Expected: fmt.Sprintf("%s %s field %q to exist", a.Target, a.ID, key),
				Actual:   fmt.Sprintf("fields: %v", sortedFields(actual)),
			}
		}
		if !reflect.DeepEqual(expectedValue, actualValue) {
			return &AssertionError{
				Type:     AssertFinalState,
				Expected: fmt.Sprintf("%s %s field %q = %v", a.Target, a.ID, key, expectedValue),
				Actual:   fmt.Sprintf("field %q = %v", key, actualValue),
			}
		}
	}
	return nil
}

// stateEntity renders the selected entity as a JSON-shaped map.
func stateEntity(result *Result, a Assertion) (map[string]any, error) {
	state := result.State
	switch a.Target {
	case TargetActor:
		v, ok := state.Actor(a.ID)
		if !ok {
			return nil, fmt.Errorf("actor not found")
		}
		return jsonObject(v), nil
	case TargetAppliance:
		v, ok := state.Appliance(a.ID)
		if !ok {
			return nil, fmt.Errorf("appliance not found")
		}
		return jsonObject(v), nil
	case TargetOrder:
		for _, o := range state.Orders {
			if o.ID == a.ID {
				return map[string]any{
					"id":           o.ID,
					"recipe":       o.Recipe,
					"ingredients":  jsonValue(o.Ingredients),
					"remaining_ms": float64(o.Remaining.Milliseconds()),
					"initial_ms":   float64(o.Initial.Milliseconds()),
				}, nil
			}
		}
		return nil, fmt.Errorf("order not active")
	case TargetOrders:
		recipes := make([]any, len(state.Orders))
		for i, o := range state.Orders {
			recipes[i] = o.Recipe
		}
		return map[string]any{
			"count":    float64(len(state.Orders)),
			"recipes":  recipes,
			"capacity": float64(state.Capacity),
		}, nil
	case TargetFloor:
		ids := make([]any, len(state.Floor))
		for i, f := range state.Floor {
			ids[i] = f.ID
		}
		return map[string]any{
			"count": float64(len(state.Floor)),
			"items": ids,
		}, nil
	}
	return nil, fmt.Errorf("unknown target %q", a.Target)
}

func jsonObject(v any) map[string]any {
	m, _ := jsonValue(v).(map[string]any)
	return m
}

// jsonValue normalises v to the shapes encoding/json decodes into.
func jsonValue(v any) any {
	data, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return v
	}
	return out
}

// normalizeYAML converts yaml.v3 decoded maps to map[string]any.
func normalizeYAML(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, e := range val {
			out[k] = normalizeYAML(e)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, e := range val {
			out[fmt.Sprint(k)] = normalizeYAML(e)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = normalizeYAML(e)
		}
		return out
	}
	return v
}

func sortedFields(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// EvaluateAssertions evaluates all assertions against the result.
// Returns a slice of error messages for failed assertions.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errors []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertEventCount:
			err = assertEventCount(result.Trace, assertion)
		case AssertEventContains:
			err = assertEventContains(result.Trace, assertion)
		case AssertEventOrder:
			err = assertEventOrder(result.Trace, assertion)
		case AssertFinalState:
			err = assertFinalState(result, assertion)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}
