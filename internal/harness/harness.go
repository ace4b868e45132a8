package harness

import (
	"cmp"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/roach88/kitchen/internal/engine"
	"github.com/roach88/kitchen/internal/event"
	"github.com/roach88/kitchen/internal/item"
	"github.com/roach88/kitchen/internal/level"
	"github.com/roach88/kitchen/internal/slot"
	"github.com/roach88/kitchen/internal/testutil"
)

// Harness drives one engine through a scenario.
type Harness struct {
	engine    *engine.Engine
	recorder  *testutil.Recorder
	catalogue item.Catalogue
	delivered int
}

// Run executes a test scenario and returns the result.
//
// Each scenario runs on a freshly built engine with a fixed session ID, so
// the same scenario always produces the same trace.
//
// Execution flow:
// 1. Load the level and build the engine
// 2. Start order generation unless auto_orders is false
// 3. Execute steps in order
// 4. Snapshot the final state
// 5. Check trace invariants and evaluate assertions
func Run(scenario *Scenario) (*Result, error) {
	lvl, errs := level.Load(scenario.Level)
	if len(errs) > 0 {
		return nil, fmt.Errorf("failed to load level %s: %w", scenario.Level, errs[0])
	}
	return RunLevel(scenario, lvl)
}

// RunLevel executes a scenario against an already loaded level.
func RunLevel(scenario *Scenario, lvl *level.Level) (*Result, error) {
	session := scenario.Session
	if session == "" {
		session = DefaultSession
	}

	opts := []engine.Option{engine.WithSessionGenerator(engine.NewFixedGenerator(session))}
	if scenario.Seed != nil {
		opts = append(opts, engine.WithSeed(*scenario.Seed))
	}
	eng, err := engine.New(lvl, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to build engine: %w", err)
	}

	h := &Harness{
		engine:    eng,
		recorder:  testutil.NewRecorder(eng.Bus()),
		catalogue: lvl.Catalogue(),
	}

	slog.Debug("scenario starting",
		"scenario", scenario.Name,
		"level", lvl.Name,
		"session", session,
		"steps", len(scenario.Steps))

	if scenario.AutoOrders == nil || *scenario.AutoOrders {
		eng.Start()
	}

	for i, step := range scenario.Steps {
		if err := h.execute(step); err != nil {
			return nil, fmt.Errorf("steps[%d]: %w", i, err)
		}
	}

	events := h.recorder.Events()
	slices.SortStableFunc(events, func(a, b event.Event) int { return cmp.Compare(a.Seq, b.Seq) })

	result := NewResult()
	for _, e := range events {
		result.AddTrace(e)
	}
	result.State = eng.Observe()

	for _, msg := range CheckInvariants(result.Trace) {
		result.AddError(msg)
	}
	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}

	slog.Debug("scenario finished",
		"scenario", scenario.Name,
		"events", len(result.Trace),
		"pass", result.Pass)
	return result, nil
}

func (h *Harness) execute(st Step) error {
	eng := h.engine
	switch {
	case st.Tick > 0:
		for i := 0; i < st.Tick; i++ {
			eng.Step(eng.Interval())
		}
	case st.AdvanceMS > 0:
		eng.Advance(time.Duration(st.AdvanceMS) * time.Millisecond)
	case st.Intent != nil:
		kind, _ := engine.ParseIntentKind(st.Intent.Kind)
		in := engine.Intent{
			Actor: st.Intent.Actor,
			Kind:  kind,
			Move:  slot.Vec3{X: st.Intent.X, Z: st.Intent.Z},
		}
		if !eng.Enqueue(in) {
			return fmt.Errorf("engine rejected intent")
		}
		eng.Step(eng.Interval())
	case st.Teleport != nil:
		tp := st.Teleport
		return eng.Teleport(tp.Actor, slot.Vec3{X: tp.X, Y: tp.Y, Z: tp.Z})
	case st.Deliver != nil:
		return h.deliver(st.Deliver)
	case st.Spawn != "":
		_, err := eng.Orders().SpawnRecipe(st.Spawn)
		return err
	case st.Reset:
		return eng.Reset()
	}
	return nil
}

func (h *Harness) deliver(d *DeliverStep) error {
	status := item.Processed
	if d.Status != "" {
		s, ok := item.ParseStatus(d.Status)
		if !ok {
			return fmt.Errorf("unknown ingredient status %q", d.Status)
		}
		status = s
	}

	items := make([]*item.Ingredient, 0, len(d.Ingredients))
	for _, name := range d.Ingredients {
		spec, ok := h.catalogue.Lookup(item.Type(name))
		if !ok {
			return fmt.Errorf("unknown ingredient %q", name)
		}
		h.delivered++
		items = append(items, item.NewWithStatus(fmt.Sprintf("delivered-%d", h.delivered), spec, slot.Vec3{}, status))
	}
	h.engine.Orders().CheckIngredientsMatchOrder(items)
	return nil
}
