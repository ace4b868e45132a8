package appliance

import (
	"github.com/roach88/kitchen/internal/event"
	"github.com/roach88/kitchen/internal/item"
	"github.com/roach88/kitchen/internal/slot"
)

// Bin destroys loose ingredients and empties containers. Containers stay in
// the actor's hands, so emptying one reports false without a rejection.
type Bin struct {
	slot.Entity
	pub event.Publisher
}

// NewBin returns a bin at pos.
func NewBin(id string, pos slot.Vec3, pub event.Publisher) *Bin {
	return &Bin{Entity: slot.NewEntity(id, pos), pub: publisher(pub)}
}

func (b *Bin) Kind() Kind { return KindBin }

// TryDropIntoSlot destroys a loose ingredient, or empties a plate or pot
// that stays in hand.
func (b *Bin) TryDropIntoSlot(p slot.Pickable) bool {
	switch v := p.(type) {
	case *item.Ingredient:
		if v.Destroyed() {
			return false
		}
		v.Destroy()
		return true
	case *Plate:
		v.Clear()
		return false
	case *CookingPot:
		v.Clear()
		return false
	}
	reject(b.pub, event.DropRejected, b.ID(), reasonIncompatible)
	return false
}

// TryPickUpFromSlot always rejects; nothing comes out of a bin.
func (b *Bin) TryPickUpFromSlot(slot.Pickable) slot.Pickable {
	reject(b.pub, event.PickupRejected, b.ID(), reasonEmpty)
	return nil
}

// Reset clears the highlight; a bin keeps no state.
func (b *Bin) Reset() {
	b.Entity.ClearHighlight()
}

// Snapshot reports the bin with no occupant.
func (b *Bin) Snapshot() Snapshot {
	return Snapshot{ID: b.ID(), Kind: b.Kind(), Position: b.Position()}
}
