package event

// Handler receives published events.
type Handler func(Event)

// Publisher is what simulation components need from the bus.
type Publisher interface {
	Publish(e Event)
}

// Bus delivers events synchronously to per-kind observer lists.
//
// Delivery order is subscription order: kind subscribers first, then
// wildcard subscribers. A handler may publish further events; they are
// delivered depth-first before Publish returns. Bus is not safe for
// concurrent use; the engine owns it from its single writer goroutine.
type Bus struct {
	clock  *Clock
	tick   int64
	byKind map[Kind][]Handler
	all    []Handler
}

// NewBus creates a bus stamping events from clock. A nil clock gets a
// fresh one.
func NewBus(clock *Clock) *Bus {
	if clock == nil {
		clock = NewClock()
	}
	return &Bus{
		clock:  clock,
		byKind: make(map[Kind][]Handler),
	}
}

// Subscribe registers h for one kind.
func (b *Bus) Subscribe(kind Kind, h Handler) {
	b.byKind[kind] = append(b.byKind[kind], h)
}

// SubscribeAll registers h for every kind.
func (b *Bus) SubscribeAll(h Handler) {
	b.all = append(b.all, h)
}

// SetTick sets the tick number stamped on subsequent events.
func (b *Bus) SetTick(tick int64) {
	b.tick = tick
}

// Tick returns the current tick number.
func (b *Bus) Tick() int64 {
	return b.tick
}

// Clock exposes the sequence clock.
func (b *Bus) Clock() *Clock {
	return b.clock
}

// Publish stamps e and hands it to subscribers.
func (b *Bus) Publish(e Event) {
	e.Seq = b.clock.Next()
	e.Tick = b.tick
	for _, h := range b.byKind[e.Kind] {
		h(e)
	}
	for _, h := range b.all {
		h(e)
	}
}

// Discard is a Publisher that drops everything. Components constructed
// without a bus fall back to it so they never nil-check.
var Discard Publisher = discard{}

type discard struct{}

func (discard) Publish(Event) {}
