package order

import (
	"cmp"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/roach88/kitchen/internal/event"
	"github.com/roach88/kitchen/internal/ir"
	"github.com/roach88/kitchen/internal/item"
)

// Config is the order tuning of a level.
type Config struct {
	// SpawnInterval is the time between spawn attempts.
	SpawnInterval time.Duration
	// BaseTime is the time budget of a recipe without its own limit.
	BaseTime time.Duration
	// ExtraTimePerOrder is added once per order already waiting.
	ExtraTimePerOrder time.Duration
	// MaxConcurrentOrders bounds the active list.
	MaxConcurrentOrders int
}

// DefaultConfig returns the stock tuning.
func DefaultConfig() Config {
	return Config{
		SpawnInterval:       15 * time.Second,
		BaseTime:            60 * time.Second,
		ExtraTimePerOrder:   20 * time.Second,
		MaxConcurrentOrders: 5,
	}
}

// Picker chooses a recipe index in [0,n).
type Picker func(n int) int

// SeededPicker returns a deterministic Picker.
func SeededPicker(seed uint64) Picker {
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	return r.IntN
}

// Option configures a Manager.
type Option func(*Manager)

// WithPicker replaces the recipe picker.
func WithPicker(p Picker) Option {
	return func(m *Manager) { m.picker = p }
}

// WithSeed uses a SeededPicker.
func WithSeed(seed uint64) Option {
	return func(m *Manager) { m.picker = SeededPicker(seed) }
}

// Manager owns the active order list and the pool. It is driven from the
// simulation tick only and is not safe for concurrent use.
type Manager struct {
	cfg     Config
	recipes []Recipe
	pub     event.Publisher
	pool    *Pool
	active  []*Order
	picker  Picker

	generating bool
	sinceSpawn time.Duration
	now        time.Duration
	spawned    int
}

// NewManager creates a stopped manager. Call Start to begin spawning.
func NewManager(cfg Config, recipes []Recipe, pub event.Publisher, opts ...Option) *Manager {
	if pub == nil {
		pub = event.Discard
	}
	m := &Manager{
		cfg:     cfg,
		recipes: recipes,
		pub:     pub,
		pool:    NewPool(),
		picker:  SeededPicker(1),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) Config() Config { return m.cfg }

// Capacity is MaxConcurrentOrders.
func (m *Manager) Capacity() int { return m.cfg.MaxConcurrentOrders }

// PoolSize is the number of recycled orders waiting for reuse.
func (m *Manager) PoolSize() int { return m.pool.Len() }

// Generating reports whether the spawn loop runs.
func (m *Manager) Generating() bool { return m.generating }

// Active returns the active orders in arrival order.
func (m *Manager) Active() []*Order {
	out := make([]*Order, len(m.active))
	copy(out, m.active)
	return out
}

// Start begins spawning: one attempt immediately, then one per interval.
func (m *Manager) Start() {
	m.generating = true
	m.sinceSpawn = 0
	m.TrySpawn()
}

// Pause halts the spawn loop. Countdowns keep running.
func (m *Manager) Pause() {
	m.generating = false
}

// Resume restarts a paused spawn loop where it left off.
func (m *Manager) Resume() {
	m.generating = true
}

// StopAndClear halts spawning and silently drops every active order.
func (m *Manager) StopAndClear() {
	m.generating = false
	m.sinceSpawn = 0
	m.recycleAll()
	slog.Debug("order manager stopped and cleared")
}

// Reset force-delivers every active order without payout, recycles them,
// announces the cleared board and restarts spawning.
func (m *Manager) Reset() {
	m.generating = false
	n := m.recycleAll()
	m.pub.Publish(event.Event{
		Kind:    event.OrderCleared,
		Payload: ir.Object{"count": ir.Int(n)},
	})
	m.Start()
}

func (m *Manager) recycleAll() int {
	n := len(m.active)
	for _, o := range m.active {
		o.setDelivered()
		m.pool.Release(o)
	}
	m.active = nil
	return n
}

// Tick counts every pending order down, expires the ones that ran out and
// then advances the spawn loop.
func (m *Manager) Tick(dt time.Duration) {
	m.now += dt

	var expired []*Order
	for _, o := range m.active {
		if o.countDown(dt) {
			expired = append(expired, o)
		}
	}
	for _, o := range expired {
		o.expired = true
		o.setDelivered()
		m.remove(o)
		m.pub.Publish(event.Event{
			Kind:    event.OrderExpired,
			Subject: o.ID(),
			Payload: m.payload(o),
		})
		m.pool.Release(o)
	}

	if !m.generating || m.cfg.SpawnInterval <= 0 {
		return
	}
	m.sinceSpawn += dt
	for m.sinceSpawn >= m.cfg.SpawnInterval {
		m.sinceSpawn -= m.cfg.SpawnInterval
		m.TrySpawn()
	}
}

// TrySpawn adds an order with a randomly picked recipe if there is room.
func (m *Manager) TrySpawn() (*Order, bool) {
	if len(m.recipes) == 0 {
		slog.Warn("order manager has no recipes")
		return nil, false
	}
	i := m.picker(len(m.recipes))
	if i < 0 || i >= len(m.recipes) {
		slog.Warn("recipe picker out of range", "index", i, "recipes", len(m.recipes))
		return nil, false
	}
	return m.spawn(m.recipes[i])
}

// SpawnRecipe adds an order for the named recipe if there is room.
func (m *Manager) SpawnRecipe(name string) (*Order, error) {
	for _, r := range m.recipes {
		if r.Name != name {
			continue
		}
		o, ok := m.spawn(r)
		if !ok {
			return nil, fmt.Errorf("order queue full (%d)", m.cfg.MaxConcurrentOrders)
		}
		return o, nil
	}
	return nil, fmt.Errorf("unknown recipe %q", name)
}

func (m *Manager) spawn(r Recipe) (*Order, bool) {
	if len(m.active) >= m.cfg.MaxConcurrentOrders {
		return nil, false
	}
	base := m.cfg.BaseTime
	if r.TimeLimit > 0 {
		base = r.TimeLimit
	}
	index := len(m.active)
	initial := base + time.Duration(index)*m.cfg.ExtraTimePerOrder

	m.spawned++
	o := m.pool.Acquire()
	o.setup(fmt.Sprintf("order-%d", m.spawned), r, m.now, initial)
	m.active = append(m.active, o)

	payload := m.payload(o)
	payload["index"] = ir.Int(index)
	m.pub.Publish(event.Event{Kind: event.OrderSpawned, Subject: o.ID(), Payload: payload})
	return o, true
}

// CheckIngredientsMatchOrder matches a delivered set against the pending
// orders, earliest arrival first. An empty set publishes the "nothing
// delivered" signal (no subject, tip -1). A failed match publishes nothing.
// Reports whether an order was consumed.
func (m *Manager) CheckIngredientsMatchOrder(items []*item.Ingredient) bool {
	delivered := item.Types(items)
	if len(delivered) == 0 {
		m.pub.Publish(event.Event{
			Kind:    event.OrderDelivered,
			Payload: ir.Object{"tip": ir.Int(-1)},
		})
		return false
	}

	pending := make([]*Order, 0, len(m.active))
	for _, o := range m.active {
		if !o.Delivered() {
			pending = append(pending, o)
		}
	}
	slices.SortStableFunc(pending, func(a, b *Order) int {
		return cmp.Compare(a.arrival, b.arrival)
	})

	for _, o := range pending {
		if !Matches(o.recipe.Ingredients, delivered) {
			continue
		}
		tip := Tip(o.Ratio())
		o.setDelivered()
		m.remove(o)

		payload := m.payload(o)
		payload["tip"] = ir.Int(tip)
		m.pub.Publish(event.Event{Kind: event.OrderDelivered, Subject: o.ID(), Payload: payload})
		m.pool.Release(o)
		m.pub.Publish(event.Event{Kind: event.OrderRegroup, Subject: o.ID()})
		return true
	}
	return false
}

func (m *Manager) remove(o *Order) {
	m.active = slices.DeleteFunc(m.active, func(x *Order) bool { return x == o })
}

func (m *Manager) payload(o *Order) ir.Object {
	return ir.Object{
		"recipe":       ir.String(o.recipe.Name),
		"ingredients":  ir.Strings(o.recipe.Ingredients),
		"initial_ms":   ir.Millis(o.initial),
		"remaining_ms": ir.Millis(o.remaining),
	}
}

// View is the query snapshot of one active order.
type View struct {
	ID          string        `json:"id"`
	Recipe      string        `json:"recipe"`
	Ingredients []item.Type   `json:"ingredients"`
	Remaining   time.Duration `json:"remaining"`
	Initial     time.Duration `json:"initial"`
}

// Snapshot lists the active orders.
func (m *Manager) Snapshot() []View {
	out := make([]View, 0, len(m.active))
	for _, o := range m.active {
		out = append(out, View{
			ID:          o.ID(),
			Recipe:      o.Recipe(),
			Ingredients: o.Ingredients(),
			Remaining:   o.Remaining(),
			Initial:     o.InitialRemaining(),
		})
	}
	return out
}
