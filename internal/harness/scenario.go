package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/kitchen/internal/engine"
)

// Scenario defines a kitchen test scenario: a level, a scripted sequence of
// steps, and assertions over the resulting event trace and final state.
type Scenario struct {
	// Name uniquely identifies this scenario (and its golden file).
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Level is the CUE level file or directory.
	// Relative paths are resolved against the scenario file location.
	Level string `yaml:"level"`

	// Seed overrides the level's recipe seed.
	Seed *uint64 `yaml:"seed,omitempty"`

	// AutoOrders starts random order generation before the first step.
	// Defaults to true; set false to script orders with spawn steps.
	AutoOrders *bool `yaml:"auto_orders,omitempty"`

	// Session is a fixed session ID for deterministic traces.
	// If empty, defaults to "test-session".
	Session string `yaml:"session,omitempty"`

	// Steps drive the engine in order.
	Steps []Step `yaml:"steps"`

	// Assertions validate the final trace and state.
	// Supported types: event_count, event_contains, event_order, final_state
	Assertions []Assertion `yaml:"assertions"`
}

// Step is one scripted action. Exactly one field is set.
type Step struct {
	// Tick runs N fixed steps.
	Tick int `yaml:"tick,omitempty"`

	// AdvanceMS runs enough fixed steps to cover the duration.
	AdvanceMS int64 `yaml:"advance_ms,omitempty"`

	// Intent queues an actor intent and runs one step.
	Intent *IntentStep `yaml:"intent,omitempty"`

	// Teleport moves an actor instantly (no step).
	Teleport *TeleportStep `yaml:"teleport,omitempty"`

	// Deliver hands an ingredient set straight to the order manager.
	Deliver *DeliverStep `yaml:"deliver,omitempty"`

	// Spawn adds an order for the named recipe.
	Spawn string `yaml:"spawn,omitempty"`

	// Reset starts a new episode.
	Reset bool `yaml:"reset,omitempty"`
}

// IntentStep is an actor input.
type IntentStep struct {
	Actor string  `yaml:"actor"`
	Kind  string  `yaml:"kind"` // move, dash, pickup, interact
	X     float64 `yaml:"x,omitempty"`
	Z     float64 `yaml:"z,omitempty"`
}

// TeleportStep places an actor.
type TeleportStep struct {
	Actor string  `yaml:"actor"`
	X     float64 `yaml:"x"`
	Y     float64 `yaml:"y,omitempty"`
	Z     float64 `yaml:"z"`
}

// DeliverStep is a plate's worth of ingredients.
type DeliverStep struct {
	// Ingredients may be empty: that is the "nothing delivered" case.
	Ingredients []string `yaml:"ingredients"`
	// Status of every ingredient; defaults to processed.
	Status string `yaml:"status,omitempty"`
}

// Assertion validates trace or final state.
type Assertion struct {
	// Type specifies the assertion type:
	// - "event_count": Check an event kind appears exactly N times
	// - "event_contains": Check an event with matching fields appears
	// - "event_order": Check event kinds first appear in order
	// - "final_state": Check fields of an actor, appliance or order
	Type string `yaml:"type"`

	// Kind is the event kind (event_count, event_contains).
	Kind string `yaml:"kind,omitempty"`

	// Subject and Actor narrow event matches (event_count, event_contains).
	Subject *string `yaml:"subject,omitempty"`
	Actor   string  `yaml:"actor,omitempty"`

	// Payload is a subset match against the event payload (event_contains).
	Payload map[string]any `yaml:"payload,omitempty"`

	// Count is the expected number of occurrences (event_count).
	Count int `yaml:"count,omitempty"`

	// Kinds is the expected first-occurrence order (event_order).
	Kinds []string `yaml:"kinds,omitempty"`

	// Target selects the state entity (final_state):
	// actor, appliance, order, orders or floor.
	Target string `yaml:"target,omitempty"`

	// ID names the actor, appliance or order (final_state).
	ID string `yaml:"id,omitempty"`

	// Expect contains expected field values (final_state).
	// Subset match - only specified fields are validated.
	Expect map[string]any `yaml:"expect,omitempty"`
}

// Assertion type constants.
const (
	AssertEventCount    = "event_count"
	AssertEventContains = "event_contains"
	AssertEventOrder    = "event_order"
	AssertFinalState    = "final_state"
)

// final_state targets.
const (
	TargetActor     = "actor"
	TargetAppliance = "appliance"
	TargetOrder     = "order"
	TargetOrders    = "orders"
	TargetFloor     = "floor"
)

// DefaultSession is the session ID used when a scenario names none.
const DefaultSession = "test-session"

// LoadScenario reads and parses a scenario YAML file.
// The level path is resolved relative to the scenario file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}

	if scenario.Level != "" && !filepath.IsAbs(scenario.Level) {
		scenario.Level = filepath.Join(filepath.Dir(path), scenario.Level)
	}

	if err := validateScenario(scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	if _, err := os.Stat(scenario.Level); err != nil {
		return nil, fmt.Errorf("invalid scenario: level not found: %s", scenario.Level)
	}

	return scenario, nil
}

// ParseScenario decodes scenario YAML with strict field validation
// (catches typos like "assertion:" vs "assertions:"). The level path is
// left as written.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Level == "" {
		return fmt.Errorf("level is required")
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if err := validateStep(i, step); err != nil {
			return err
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

func validateStep(index int, st Step) error {
	set := 0
	if st.Tick != 0 {
		set++
		if st.Tick < 0 {
			return fmt.Errorf("steps[%d]: tick must be positive", index)
		}
	}
	if st.AdvanceMS != 0 {
		set++
		if st.AdvanceMS < 0 {
			return fmt.Errorf("steps[%d]: advance_ms must be positive", index)
		}
	}
	if st.Intent != nil {
		set++
		if st.Intent.Actor == "" {
			return fmt.Errorf("steps[%d].intent: actor is required", index)
		}
		if _, ok := engine.ParseIntentKind(st.Intent.Kind); !ok {
			return fmt.Errorf("steps[%d].intent: unknown kind %q", index, st.Intent.Kind)
		}
	}
	if st.Teleport != nil {
		set++
		if st.Teleport.Actor == "" {
			return fmt.Errorf("steps[%d].teleport: actor is required", index)
		}
	}
	if st.Deliver != nil {
		set++
	}
	if st.Spawn != "" {
		set++
	}
	if st.Reset {
		set++
	}

	if set != 1 {
		return fmt.Errorf("steps[%d]: exactly one action is required, got %d", index, set)
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertEventCount:
		if a.Kind == "" {
			return fmt.Errorf("assertions[%d]: kind is required for event_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for event_count", index)
		}
	case AssertEventContains:
		if a.Kind == "" {
			return fmt.Errorf("assertions[%d]: kind is required for event_contains", index)
		}
	case AssertEventOrder:
		if len(a.Kinds) == 0 {
			return fmt.Errorf("assertions[%d]: kinds list is required for event_order", index)
		}
	case AssertFinalState:
		switch a.Target {
		case TargetActor, TargetAppliance, TargetOrder:
			if a.ID == "" {
				return fmt.Errorf("assertions[%d]: id is required for final_state target %q", index, a.Target)
			}
		case TargetOrders, TargetFloor:
		default:
			return fmt.Errorf("assertions[%d]: unknown final_state target %q", index, a.Target)
		}
		if len(a.Expect) == 0 {
			return fmt.Errorf("assertions[%d]: expect is required for final_state", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
