package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/roach88/kitchen/internal/appliance"
	"github.com/roach88/kitchen/internal/event"
	"github.com/roach88/kitchen/internal/level"
	"github.com/roach88/kitchen/internal/order"
	"github.com/roach88/kitchen/internal/proximity"
	"github.com/roach88/kitchen/internal/slot"
)

// Journal receives every published event. Implemented by *store.Store.
type Journal interface {
	BeginSession(ctx context.Context, id, levelName string, seed uint64) error
	WriteEvent(ctx context.Context, session string, e event.Event) error
}

// Engine is the single-writer kitchen simulation loop.
//
// Thread-safety model:
//   - Enqueue(), Submit(), Stop(): safe from any goroutine
//   - Step(), Run(), Reset(), Observe() and every accessor: must be called
//     from exactly one goroutine
//
// INVARIANTS:
//   - appliances and actors are visited in sorted ID order every step
//   - all events of one step carry the same tick number
type Engine struct {
	lvl      *level.Level
	bus      *event.Bus
	orders   *order.Manager
	world    *world
	actors   []*Actor
	actorIDs map[string]*Actor
	floor    []slot.Pickable
	queue    *intentQueue

	session    string
	sessionGen SessionGenerator
	seed       uint64
	journal    Journal
	journalCtx context.Context

	tick      int64
	tickLimit int64
	started   bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithSessionGenerator overrides the UUIDv7 session IDs.
func WithSessionGenerator(g SessionGenerator) Option {
	return func(e *Engine) {
		e.sessionGen = g
	}
}

// WithSeed overrides the level's recipe seed.
func WithSeed(seed uint64) Option {
	return func(e *Engine) {
		e.seed = seed
	}
}

// WithJournal appends every event to j. Journal failures are logged and
// never stop the simulation.
func WithJournal(j Journal) Option {
	return func(e *Engine) {
		e.journal = j
	}
}

// WithTickLimit makes Run return after n steps. Zero means no limit.
func WithTickLimit(n int64) Option {
	return func(e *Engine) {
		e.tickLimit = n
	}
}

// New builds the kitchen described by lvl. Order generation does not
// begin until Start (or Run) is called.
func New(lvl *level.Level, opts ...Option) (*Engine, error) {
	if lvl == nil {
		return nil, fmt.Errorf("engine: nil level")
	}
	if lvl.Engine.TickHz <= 0 {
		return nil, fmt.Errorf("engine: tick_hz must be positive, got %d", lvl.Engine.TickHz)
	}

	e := &Engine{
		lvl:        lvl,
		bus:        event.NewBus(event.NewClock()),
		actorIDs:   make(map[string]*Actor, len(lvl.Actors)),
		queue:      newIntentQueue(),
		sessionGen: UUIDv7Generator{},
		seed:       lvl.Seed,
		journalCtx: context.Background(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.session = e.sessionGen.Generate()

	if e.journal != nil {
		if err := e.journal.BeginSession(e.journalCtx, e.session, lvl.Name, e.seed); err != nil {
			return nil, fmt.Errorf("engine: begin session: %w", err)
		}
		e.bus.SubscribeAll(e.record)
	}

	e.orders = order.NewManager(lvl.OrderConfig(), lvl.RecipeList(), e.bus, order.WithSeed(e.seed))

	w, err := buildWorld(lvl, e.bus, e.orders)
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}
	e.world = w

	for _, id := range lvl.ActorIDs() {
		a := newActor(id, lvl.Actors[id].Pos.Vec3(), proximity.New(id, e.bus))
		e.actors = append(e.actors, a)
		e.actorIDs[id] = a
	}
	return e, nil
}

func (e *Engine) record(ev event.Event) {
	if err := e.journal.WriteEvent(e.journalCtx, e.session, ev); err != nil {
		slog.Error("journal write failed",
			"session", e.session,
			"seq", ev.Seq,
			"kind", ev.Kind,
			"error", err)
	}
}

// Session returns the run's session ID.
func (e *Engine) Session() string { return e.session }

// Seed returns the recipe seed in effect.
func (e *Engine) Seed() uint64 { return e.seed }

// Level returns the level the engine was built from.
func (e *Engine) Level() *level.Level { return e.lvl }

// Bus returns the event bus. Subscribers run on the engine goroutine.
func (e *Engine) Bus() *event.Bus { return e.bus }

// Orders returns the order manager.
func (e *Engine) Orders() *order.Manager { return e.orders }

// Tick returns the number of completed steps.
func (e *Engine) Tick() int64 { return e.tick }

// Interval is the fixed step length from the level.
func (e *Engine) Interval() time.Duration { return e.lvl.Engine.TickInterval() }

// Appliances returns the appliances in sorted ID order.
func (e *Engine) Appliances() []appliance.Appliance {
	out := make([]appliance.Appliance, len(e.world.appliances))
	copy(out, e.world.appliances)
	return out
}

// Appliance looks up an appliance by ID.
func (e *Engine) Appliance(id string) (appliance.Appliance, bool) {
	a, ok := e.world.byID[id]
	return a, ok
}

// Actor looks up an actor by ID.
func (e *Engine) Actor(id string) (*Actor, bool) {
	a, ok := e.actorIDs[id]
	return a, ok
}

// Floor returns the loose items lying on the floor, in drop order.
func (e *Engine) Floor() []slot.Pickable {
	e.pruneFloor()
	out := make([]slot.Pickable, len(e.floor))
	copy(out, e.floor)
	return out
}

// Start begins order generation. Calling it twice is a no-op.
func (e *Engine) Start() {
	if e.started {
		return
	}
	e.started = true
	e.orders.Start()
}

// Enqueue submits an intent for the next frame step.
// Returns false once the engine has stopped.
func (e *Engine) Enqueue(in Intent) bool {
	return e.queue.Enqueue(in)
}

// Submit enqueues every intent implied by one control sample.
func (e *Engine) Submit(actor string, in Input) bool {
	for _, it := range in.Intents(actor) {
		if !e.queue.Enqueue(it) {
			return false
		}
	}
	return true
}

// Stop makes Run return and rejects further intents.
func (e *Engine) Stop() {
	e.queue.Close()
}

// Run drives Step on a wall-clock ticker until ctx is cancelled or Stop is
// called. It starts order generation if Start was not called.
func (e *Engine) Run(ctx context.Context) error {
	interval := e.Interval()
	slog.Info("engine starting",
		"session", e.session,
		"level", e.lvl.Name,
		"interval", interval)

	e.journalCtx = ctx
	e.Start()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("engine stopping: context cancelled", "tick", e.tick)
			e.queue.Close()
			return ctx.Err()
		case <-e.queue.Done():
			slog.Info("engine stopping: stopped", "tick", e.tick)
			return nil
		case <-ticker.C:
			e.Step(interval)
			if e.tickLimit > 0 && e.tick >= e.tickLimit {
				slog.Info("engine stopping: tick limit reached", "tick", e.tick)
				e.queue.Close()
				return nil
			}
		}
	}
}

// Step advances the simulation by one fixed step.
func (e *Engine) Step(dt time.Duration) {
	e.tick++
	e.bus.SetTick(e.tick)
	e.FixedStep(dt)
	e.FrameStep(dt)
}

// Advance runs whole steps of the level interval covering d.
func (e *Engine) Advance(d time.Duration) int {
	interval := e.Interval()
	n := 0
	for elapsed := time.Duration(0); elapsed < d; elapsed += interval {
		e.Step(interval)
		n++
	}
	return n
}

// FixedStep moves actors and refreshes their selections.
func (e *Engine) FixedStep(dt time.Duration) {
	tuning := e.lvl.Engine
	e.pruneFloor()
	for _, a := range e.actors {
		a.move(dt, tuning.MoveSpeed, tuning.DashMultiplier)
		e.rescan(a)
	}
}

// FrameStep applies queued intents, then ticks appliances and orders.
func (e *Engine) FrameStep(dt time.Duration) {
	for _, in := range e.queue.Drain() {
		e.apply(in)
	}
	for _, a := range e.world.appliances {
		if t, ok := a.(slot.Ticker); ok {
			t.Tick(dt)
		}
	}
	e.orders.Tick(dt)
}

// Teleport moves an actor instantly and refreshes its selection.
func (e *Engine) Teleport(actor string, pos slot.Vec3) error {
	a, ok := e.actorIDs[actor]
	if !ok {
		return fmt.Errorf("unknown actor %q", actor)
	}
	a.pos = pos
	if held := a.Held(); held != nil {
		held.Place(pos)
	}
	e.rescan(a)
	return nil
}

// Reset starts a new episode: appliances are cleared and re-stocked,
// actors return to spawn empty-handed, floor items vanish and the order
// queue restarts.
func (e *Engine) Reset() error {
	for _, a := range e.actors {
		a.reset()
	}
	for _, p := range e.floor {
		p.Destroy()
	}
	e.floor = nil
	e.queue.Drain()

	if err := e.world.reset(); err != nil {
		return fmt.Errorf("engine: reset: %w", err)
	}
	if e.started {
		e.orders.Reset()
	} else {
		e.orders.StopAndClear()
	}
	slog.Debug("episode reset", "session", e.session, "tick", e.tick)
	return nil
}

func (e *Engine) apply(in Intent) {
	a, ok := e.actorIDs[in.Actor]
	if !ok {
		slog.Warn("intent for unknown actor", "actor", in.Actor, "intent", in.Kind)
		return
	}
	slog.Debug("applying intent", "actor", a.id, "intent", in.Kind, "tick", e.tick)

	switch in.Kind {
	case IntentMove:
		a.setInput(in.Move)
	case IntentDash:
		if a.dash() {
			if t, ok := a.Target().(slot.Interrupter); ok {
				t.Interrupt(a.id)
			}
			e.bus.Publish(event.Event{Kind: event.ActorDash, Actor: a.id, Subject: a.id})
		}
	case IntentPickUp:
		e.pickUp(a)
		e.rescan(a)
	case IntentInteract:
		if t := a.Target(); t != nil {
			t.Interact(a.id)
		}
	default:
		slog.Warn("unknown intent", "actor", a.id, "intent", int(in.Kind))
	}
}

// pickUp toggles what the actor holds. Empty hands take a loose item
// directly or ask the target for its content; full hands drop onto the
// floor when there is no target (or the target is itself a loose item),
// and otherwise offer the item to the target.
func (e *Engine) pickUp(a *Actor) {
	target := a.Target()
	held := a.Held()

	if held == nil {
		if p, ok := target.(slot.Pickable); ok {
			if e.takeFromFloor(p) {
				p.Pick()
				a.held = p
				a.sel.Exit(p)
			}
			return
		}
		if target == nil {
			return
		}
		if p := target.TryPickUpFromSlot(nil); p != nil {
			p.Pick()
			p.Place(a.pos)
			a.held = p
		}
		return
	}

	if _, loose := target.(slot.Pickable); target == nil || loose {
		held.Drop(a.dropPoint())
		e.floor = append(e.floor, held)
		a.held = nil
		return
	}
	if target.TryDropIntoSlot(held) {
		a.held = nil
	}
}

func (e *Engine) takeFromFloor(p slot.Pickable) bool {
	for i, f := range e.floor {
		if f == p {
			e.floor = append(e.floor[:i], e.floor[i+1:]...)
			return true
		}
	}
	return false
}

func (e *Engine) pruneFloor() {
	live := e.floor[:0]
	for _, p := range e.floor {
		if slot.Alive(p) && p.Loose() {
			live = append(live, p)
		}
	}
	e.floor = live
}

func (e *Engine) rescan(a *Actor) {
	radius := e.lvl.Engine.InteractionRadius
	var in []slot.Interactable
	for _, ap := range e.world.appliances {
		if a.pos.Distance(ap.Position()) <= radius {
			in = append(in, ap)
		}
	}
	for _, p := range e.floor {
		if slot.Alive(p) && p.Loose() && a.pos.Distance(p.Position()) <= radius {
			in = append(in, p)
		}
	}
	a.sel.Sync(in)
	a.sel.Evaluate(a.pos)
}
