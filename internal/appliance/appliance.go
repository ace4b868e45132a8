package appliance

import (
	"github.com/roach88/kitchen/internal/event"
	"github.com/roach88/kitchen/internal/ir"
	"github.com/roach88/kitchen/internal/item"
	"github.com/roach88/kitchen/internal/slot"
)

// Kind names an appliance variant as written in level files.
type Kind string

const (
	KindCountertop    Kind = "countertop"
	KindChoppingBoard Kind = "chopping_board"
	KindStove         Kind = "stove"
	KindSink          Kind = "sink"
	KindCrate         Kind = "crate"
	KindBin           Kind = "bin"
	KindDelivery      Kind = "delivery"
	KindPlateReturn   Kind = "plate_return"
)

// Appliance is a fixed-position slot holder.
type Appliance interface {
	slot.Interactable
	slot.Resetter
	Kind() Kind
	Snapshot() Snapshot
}

// Seeder is implemented by appliances that can be stocked at level setup.
type Seeder interface {
	Seed(p slot.Pickable) bool
}

// Snapshot is the query view of one appliance.
type Snapshot struct {
	ID       string    `json:"id"`
	Kind     Kind      `json:"kind"`
	Position slot.Vec3 `json:"position"`
	// Occupant is the ID of the held pickable, empty when vacant.
	Occupant string `json:"occupant,omitempty"`
	// Contents lists ingredient types inside a held container.
	Contents []item.Type `json:"contents,omitempty"`
	// Progress is normalised process progress in [0,1].
	Progress float64 `json:"progress"`
}

// Rejection reasons carried in negative event payloads.
const (
	reasonOccupied     = "occupied"
	reasonEmpty        = "empty"
	reasonBusy         = "busy"
	reasonNotRaw       = "not_raw"
	reasonUnprocessed  = "unprocessed"
	reasonIncompatible = "incompatible"
	reasonDirty        = "dirty"
	reasonFull         = "full"
	reasonNotCooked    = "not_cooked"
	reasonNotEmpty     = "not_empty"
	reasonBurned       = "burned"
)

func reject(pub event.Publisher, kind event.Kind, subject, reason string) {
	pub.Publish(event.Event{
		Kind:    kind,
		Subject: subject,
		Payload: ir.Object{"reason": ir.String(reason)},
	})
}

func publisher(pub event.Publisher) event.Publisher {
	if pub == nil {
		return event.Discard
	}
	return pub
}

// container is implemented by pickables that publish their own rejections.
type container interface {
	Ingredients() []*item.Ingredient
}

// dropOrDelegate applies the shared holder drop rule: an empty holder seats
// p, an occupied one forwards p to its occupant. A plain ingredient occupant
// never accepts anything, so the holder reports the rejection itself.
func dropOrDelegate(h *slot.Holder, p slot.Pickable, pub event.Publisher, id string) bool {
	cur := h.Current()
	if cur == nil {
		if h.Accept(p) {
			return true
		}
		reject(pub, event.DropRejected, id, reasonIncompatible)
		return false
	}
	if cur.TryDropIntoSlot(p) {
		return true
	}
	if _, ok := cur.(container); !ok {
		reject(pub, event.DropRejected, id, reasonOccupied)
	}
	return false
}

func pickOrDelegate(h *slot.Holder, held slot.Pickable, pub event.Publisher, id string) slot.Pickable {
	if !h.Occupied() {
		reject(pub, event.PickupRejected, id, reasonEmpty)
		return nil
	}
	out := h.PickOrDelegate(held)
	if out == nil {
		reject(pub, event.PickupRejected, id, reasonBusy)
	}
	return out
}

func describe(s *Snapshot, cur slot.Pickable) {
	if cur == nil {
		return
	}
	s.Occupant = cur.ID()
	if c, ok := cur.(container); ok {
		s.Contents = item.Types(c.Ingredients())
	}
}
