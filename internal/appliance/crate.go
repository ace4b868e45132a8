package appliance

import (
	"log/slog"

	"github.com/roach88/kitchen/internal/event"
	"github.com/roach88/kitchen/internal/item"
	"github.com/roach88/kitchen/internal/slot"
)

// Crate dispenses fresh Raw ingredients of one type. Its lid doubles as a
// countertop: anything placed on it is served back first.
type Crate struct {
	slot.Entity
	held    slot.Holder
	pub     event.Publisher
	factory *item.Factory
	kind    item.Type
}

// NewCrate returns a crate that dispenses kind through factory.
func NewCrate(id string, pos slot.Vec3, kind item.Type, factory *item.Factory, pub event.Publisher) *Crate {
	return &Crate{
		Entity:  slot.NewEntity(id, pos),
		held:    slot.NewHolder(pos),
		pub:     publisher(pub),
		factory: factory,
		kind:    kind,
	}
}

func (c *Crate) Kind() Kind { return KindCrate }

// Ingredient is the type this crate dispenses.
func (c *Crate) Ingredient() item.Type { return c.kind }

// TryDropIntoSlot puts p on the lid, or forwards it to the lid content.
func (c *Crate) TryDropIntoSlot(p slot.Pickable) bool {
	return dropOrDelegate(&c.held, p, c.pub, c.ID())
}

// TryPickUpFromSlot serves the lid content, or dispenses a new ingredient
// into empty hands.
func (c *Crate) TryPickUpFromSlot(held slot.Pickable) slot.Pickable {
	if c.held.Occupied() {
		return pickOrDelegate(&c.held, held, c.pub, c.ID())
	}
	if held != nil {
		reject(c.pub, event.PickupRejected, c.ID(), reasonOccupied)
		return nil
	}
	if c.factory == nil {
		slog.Warn("crate has no ingredient factory", "crate", c.ID())
		return nil
	}
	ing, err := c.factory.Make(c.kind, c.Position())
	if err != nil {
		slog.Warn("crate dispense failed", "crate", c.ID(), "error", err)
		return nil
	}
	return ing
}

// Reset destroys whatever is on the lid.
func (c *Crate) Reset() {
	c.held.Clear()
	c.Entity.ClearHighlight()
}

// Seed places p on the lid.
func (c *Crate) Seed(p slot.Pickable) bool {
	return c.held.Accept(p)
}

// Snapshot describes the lid content, if any.
func (c *Crate) Snapshot() Snapshot {
	s := Snapshot{ID: c.ID(), Kind: c.Kind(), Position: c.Position()}
	describe(&s, c.held.Current())
	return s
}
