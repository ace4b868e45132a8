package appliance

import (
	"github.com/roach88/kitchen/internal/event"
	"github.com/roach88/kitchen/internal/slot"
)

// Countertop is a plain holder. When occupied it behaves like its occupant.
type Countertop struct {
	slot.Entity
	held slot.Holder
	pub  event.Publisher
}

// NewCountertop returns an empty countertop at pos.
func NewCountertop(id string, pos slot.Vec3, pub event.Publisher) *Countertop {
	return &Countertop{
		Entity: slot.NewEntity(id, pos),
		held:   slot.NewHolder(pos),
		pub:    publisher(pub),
	}
}

func (c *Countertop) Kind() Kind { return KindCountertop }

// Current returns the occupant or nil.
func (c *Countertop) Current() slot.Pickable { return c.held.Current() }

// TryDropIntoSlot places p on an empty top, or forwards it to the
// occupant.
func (c *Countertop) TryDropIntoSlot(p slot.Pickable) bool {
	return dropOrDelegate(&c.held, p, c.pub, c.ID())
}

// TryPickUpFromSlot hands the occupant over, or lets it take from held.
func (c *Countertop) TryPickUpFromSlot(held slot.Pickable) slot.Pickable {
	return pickOrDelegate(&c.held, held, c.pub, c.ID())
}

// Reset destroys the occupant.
func (c *Countertop) Reset() {
	c.held.Clear()
	c.Entity.ClearHighlight()
}

// Seed places p without events.
func (c *Countertop) Seed(p slot.Pickable) bool {
	return c.held.Accept(p)
}

// Snapshot describes the occupant, if any.
func (c *Countertop) Snapshot() Snapshot {
	s := Snapshot{ID: c.ID(), Kind: c.Kind(), Position: c.Position()}
	describe(&s, c.held.Current())
	return s
}
