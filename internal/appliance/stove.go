package appliance

import (
	"time"

	"github.com/roach88/kitchen/internal/event"
	"github.com/roach88/kitchen/internal/slot"
)

// Stove seats one cooking pot and cooks it.
type Stove struct {
	slot.Entity
	held slot.Holder
	pub  event.Publisher
}

// NewStove returns a stove with no pot.
func NewStove(id string, pos slot.Vec3, pub event.Publisher) *Stove {
	return &Stove{
		Entity: slot.NewEntity(id, pos),
		held:   slot.NewHolder(pos),
		pub:    publisher(pub),
	}
}

func (s *Stove) Kind() Kind { return KindStove }

// Pot returns the seated pot, or nil.
func (s *Stove) Pot() *CookingPot {
	pot, _ := s.held.Current().(*CookingPot)
	return pot
}

// TryDropIntoSlot seats a pot on an empty stove; with a pot present the
// drop is forwarded to it.
func (s *Stove) TryDropIntoSlot(p slot.Pickable) bool {
	if !s.held.Occupied() {
		if _, ok := p.(*CookingPot); !ok {
			reject(s.pub, event.DropRejected, s.ID(), reasonIncompatible)
			return false
		}
	}
	return dropOrDelegate(&s.held, p, s.pub, s.ID())
}

// TryPickUpFromSlot lifts the pot, or lets it take from held.
func (s *Stove) TryPickUpFromSlot(held slot.Pickable) slot.Pickable {
	return pickOrDelegate(&s.held, held, s.pub, s.ID())
}

// Tick cooks the seated pot.
func (s *Stove) Tick(dt time.Duration) {
	if pot := s.Pot(); pot != nil {
		pot.Tick(dt)
	}
}

// Reset destroys the seated pot.
func (s *Stove) Reset() {
	s.held.Clear()
	s.Entity.ClearHighlight()
}

// Seed seats a pot without events. Anything else is refused.
func (s *Stove) Seed(p slot.Pickable) bool {
	if _, ok := p.(*CookingPot); !ok {
		return false
	}
	return s.held.Accept(p)
}

// Snapshot reports the pot and its cooking progress.
func (s *Stove) Snapshot() Snapshot {
	snap := Snapshot{ID: s.ID(), Kind: s.Kind(), Position: s.Position()}
	if pot := s.Pot(); pot != nil {
		snap.Progress = pot.Progress()
	}
	describe(&snap, s.held.Current())
	return snap
}
