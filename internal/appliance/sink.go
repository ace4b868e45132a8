package appliance

import (
	"slices"
	"time"

	"github.com/roach88/kitchen/internal/event"
	"github.com/roach88/kitchen/internal/ir"
	"github.com/roach88/kitchen/internal/slot"
)

// Sink washes dirty plates one at a time.
//
// Dirty plates queue in the basin; Interact washes the oldest one with the
// same countdown shape as chopping. The plate a wash started on is the one it
// finishes, even if more plates arrive meanwhile. Finished plates move to the
// clean rack, which is where pickups are served from.
type Sink struct {
	slot.Entity
	pub       event.Publisher
	cleanTime time.Duration
	rackPos   slot.Vec3
	dirty     []*Plate
	clean     []*Plate
	washing   *Plate
	cd        countdown
}

// NewSink returns an empty sink whose clean rack sits at rack.
func NewSink(id string, pos, rack slot.Vec3, cleanTime time.Duration, pub event.Publisher) *Sink {
	return &Sink{
		Entity:    slot.NewEntity(id, pos),
		pub:       publisher(pub),
		cleanTime: cleanTime,
		rackPos:   rack,
	}
}

func (s *Sink) Kind() Kind { return KindSink }

// DirtyCount and CleanCount report the basin and rack sizes.
func (s *Sink) DirtyCount() int { return len(s.live(s.dirty)) }
func (s *Sink) CleanCount() int { return len(s.live(s.clean)) }

// Progress is the fraction of the current wash completed.
func (s *Sink) Progress() float64 { return s.cd.progress() }

// TryDropIntoSlot queues a dirty plate in the basin.
func (s *Sink) TryDropIntoSlot(p slot.Pickable) bool {
	plate, ok := p.(*Plate)
	if !ok || !plate.Dirty() || plate.Destroyed() {
		reject(s.pub, event.DropRejected, s.ID(), reasonIncompatible)
		return false
	}
	s.dirty = append(s.live(s.dirty), plate)
	plate.Place(s.Position())
	return true
}

// TryPickUpFromSlot hands out the newest clean plate.
func (s *Sink) TryPickUpFromSlot(slot.Pickable) slot.Pickable {
	s.clean = s.live(s.clean)
	if len(s.clean) == 0 {
		reject(s.pub, event.PickupRejected, s.ID(), reasonEmpty)
		return nil
	}
	top := s.clean[len(s.clean)-1]
	s.clean = s.clean[:len(s.clean)-1]
	return top
}

// Interact starts washing the oldest dirty plate or resumes a halted wash.
func (s *Sink) Interact(actor string) {
	s.dirty = s.live(s.dirty)
	if len(s.dirty) == 0 {
		return
	}
	if !s.cd.started {
		s.washing = s.dirty[0]
		s.cd.start(s.cleanTime, actor)
		s.pub.Publish(event.Event{Kind: event.CleanStart, Actor: actor, Subject: s.ID()})
		return
	}
	if !s.cd.active {
		s.cd.resume(actor)
	}
}

// Tick advances an active wash and racks the plate once it is clean.
func (s *Sink) Tick(dt time.Duration) {
	if !s.cd.active {
		return
	}
	s.dirty = s.live(s.dirty)
	if s.washing == nil || s.washing.Destroyed() {
		s.washing = nil
		s.cd.reset()
		return
	}
	if !s.cd.advance(dt) {
		return
	}
	plate := s.washing
	s.dirty = slices.DeleteFunc(s.dirty, func(p *Plate) bool { return p == plate })
	plate.SetDirty(false)
	plate.Place(s.rackPos)
	s.clean = append(s.clean, plate)

	actor := s.cd.actor
	s.washing = nil
	s.cd.reset()
	s.pub.Publish(s.stop(actor, true))
}

// Interrupt halts the wash when actor is the one washing.
func (s *Sink) Interrupt(actor string) {
	if s.cd.haltFor(actor) {
		s.pub.Publish(s.stop(s.cd.actor, false))
	}
}

// Reset destroys every plate in the basin and on the rack.
func (s *Sink) Reset() {
	for _, p := range s.dirty {
		p.Destroy()
	}
	for _, p := range s.clean {
		p.Destroy()
	}
	s.dirty, s.clean = nil, nil
	s.washing = nil
	s.cd.reset()
	s.Entity.ClearHighlight()
}

// Seed stacks a plate: dirty ones in the basin, clean ones on the rack.
func (s *Sink) Seed(p slot.Pickable) bool {
	plate, ok := p.(*Plate)
	if !ok {
		return false
	}
	if plate.Dirty() {
		s.dirty = append(s.dirty, plate)
		plate.Place(s.Position())
	} else {
		s.clean = append(s.clean, plate)
		plate.Place(s.rackPos)
	}
	return true
}

// Snapshot reports the top of the clean rack as the occupant.
func (s *Sink) Snapshot() Snapshot {
	snap := Snapshot{ID: s.ID(), Kind: s.Kind(), Position: s.Position(), Progress: s.Progress()}
	if clean := s.live(s.clean); len(clean) > 0 {
		snap.Occupant = clean[len(clean)-1].ID()
	}
	return snap
}

func (s *Sink) stop(actor string, completed bool) event.Event {
	return event.Event{
		Kind:    event.CleanStop,
		Actor:   actor,
		Subject: s.ID(),
		Payload: ir.Object{"completed": ir.Bool(completed)},
	}
}

func (s *Sink) live(plates []*Plate) []*Plate {
	out := plates[:0]
	for _, p := range plates {
		if !p.Destroyed() {
			out = append(out, p)
		}
	}
	return out
}
