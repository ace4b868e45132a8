package testutil

import (
	"sync"

	"github.com/roach88/kitchen/internal/event"
)

// Recorder captures every event published on a bus, in delivery order.
//
// Thread-safety: Recorder is safe for concurrent use via internal mutex, so
// tests may inspect it while an engine runs on another goroutine.
type Recorder struct {
	mu     sync.Mutex
	events []event.Event
}

// NewRecorder creates a recorder subscribed to every kind on bus.
func NewRecorder(bus *event.Bus) *Recorder {
	r := &Recorder{}
	bus.SubscribeAll(r.Record)
	return r
}

// Record appends e. It has the event.Handler shape.
func (r *Recorder) Record(e event.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// Publish lets a Recorder stand in for a bus where only event.Publisher is
// needed. Events recorded this way carry no Seq or Tick.
func (r *Recorder) Publish(e event.Event) {
	r.Record(e)
}

// Events returns a copy of everything recorded.
func (r *Recorder) Events() []event.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]event.Event, len(r.events))
	copy(out, r.events)
	return out
}

// OfKind returns the recorded events of one kind.
func (r *Recorder) OfKind(kind event.Kind) []event.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []event.Event
	for _, e := range r.events {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// Count returns how many events of kind were recorded.
func (r *Recorder) Count(kind event.Kind) int {
	return len(r.OfKind(kind))
}

// Kinds returns the kind of every recorded event, in order.
func (r *Recorder) Kinds() []event.Kind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]event.Kind, len(r.events))
	for i, e := range r.events {
		out[i] = e.Kind
	}
	return out
}

// Reset forgets everything recorded so far.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}
