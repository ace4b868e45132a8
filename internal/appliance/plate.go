package appliance

import (
	"github.com/roach88/kitchen/internal/event"
	"github.com/roach88/kitchen/internal/ir"
	"github.com/roach88/kitchen/internal/item"
	"github.com/roach88/kitchen/internal/slot"
)

// PlateCapacity is the number of ingredients one plate holds.
const PlateCapacity = 4

// Plate is a carryable container of processed or cooked ingredients.
// Dirty plates accept nothing until washed.
type Plate struct {
	slot.Carryable
	pub   event.Publisher
	items []*item.Ingredient
	dirty bool
}

// NewPlate returns an empty plate, dirty or clean.
func NewPlate(id string, pos slot.Vec3, dirty bool, pub event.Publisher) *Plate {
	return &Plate{
		Carryable: slot.NewCarryable(id, pos),
		pub:       publisher(pub),
		dirty:     dirty,
	}
}

// Dirty reports whether the plate needs washing.
func (p *Plate) Dirty() bool { return p.dirty }

// SetDirty flips the wash state. A plate turning dirty loses its contents.
func (p *Plate) SetDirty(dirty bool) {
	if dirty {
		p.Clear()
	}
	p.dirty = dirty
}

// Ingredients returns the live contents in insertion order.
func (p *Plate) Ingredients() []*item.Ingredient {
	out := make([]*item.Ingredient, 0, len(p.items))
	for _, ing := range p.items {
		if !ing.Destroyed() {
			out = append(out, ing)
		}
	}
	return out
}

// Empty reports whether the plate holds no live ingredient.
func (p *Plate) Empty() bool { return len(p.Ingredients()) == 0 }

// TryDropIntoSlot accepts a processed/cooked ingredient, or pours a cooked
// pot. Pouring moves the soup onto the plate but leaves the pot with the
// actor, so it returns false without a rejection.
func (p *Plate) TryDropIntoSlot(c slot.Pickable) bool {
	if p.dirty {
		p.reject(reasonDirty)
		return false
	}
	switch v := c.(type) {
	case *item.Ingredient:
		if v.Status() == item.Raw {
			p.reject(reasonUnprocessed)
			return false
		}
		if len(p.Ingredients()) >= PlateCapacity {
			p.reject(reasonFull)
			return false
		}
		p.items = append(p.Ingredients(), v)
		v.Place(p.Position())
		return true
	case *CookingPot:
		if !v.Cooked() || v.Burned() {
			p.reject(reasonNotCooked)
			return false
		}
		if !p.Empty() {
			p.reject(reasonNotEmpty)
			return false
		}
		p.items = v.TakeContents()
		for _, ing := range p.items {
			ing.Place(p.Position())
		}
		return false
	}
	p.reject(reasonIncompatible)
	return false
}

// TryPickUpFromSlot returns the plate itself unless destroyed.
func (p *Plate) TryPickUpFromSlot(slot.Pickable) slot.Pickable {
	if p.Destroyed() {
		return nil
	}
	return p
}

// TakeContents hands the ingredients over and empties the plate.
func (p *Plate) TakeContents() []*item.Ingredient {
	out := p.Ingredients()
	p.items = nil
	return out
}

// Clear destroys the contents.
func (p *Plate) Clear() {
	for _, ing := range p.items {
		ing.Destroy()
	}
	p.items = nil
}

// Place moves the plate and its contents.
func (p *Plate) Place(at slot.Vec3) {
	p.Carryable.Place(at)
	for _, ing := range p.items {
		ing.Place(at)
	}
}

// Destroy destroys the plate and its contents.
func (p *Plate) Destroy() {
	p.Clear()
	p.Carryable.Destroy()
}

func (p *Plate) reject(reason string) {
	p.pub.Publish(event.Event{
		Kind:    event.PlateRejected,
		Subject: p.ID(),
		Payload: ir.Object{"reason": ir.String(reason)},
	})
}
