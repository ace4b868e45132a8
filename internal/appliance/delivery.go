package appliance

import (
	"log/slog"
	"time"

	"github.com/roach88/kitchen/internal/event"
	"github.com/roach88/kitchen/internal/ir"
	"github.com/roach88/kitchen/internal/item"
	"github.com/roach88/kitchen/internal/slot"
)

// OrderMatcher is the delivery counter's view of the order manager.
type OrderMatcher interface {
	CheckIngredientsMatchOrder(items []*item.Ingredient) bool
}

type pendingPlate struct {
	plate *Plate
	due   time.Duration
}

// Delivery accepts clean plates, hands their contents to the order manager
// and sends the plate back dirty after a delay.
type Delivery struct {
	slot.Entity
	pub     event.Publisher
	orders  OrderMatcher
	ret     *PlateReturn
	delay   time.Duration
	pending []pendingPlate
}

// NewDelivery returns a delivery counter that matches plates against
// orders and sends them to ret after delay. A nil ret destroys them.
func NewDelivery(id string, pos slot.Vec3, orders OrderMatcher, ret *PlateReturn, delay time.Duration, pub event.Publisher) *Delivery {
	return &Delivery{
		Entity: slot.NewEntity(id, pos),
		pub:    publisher(pub),
		orders: orders,
		ret:    ret,
		delay:  delay,
	}
}

func (d *Delivery) Kind() Kind { return KindDelivery }

// Pending is the number of plates waiting to be returned.
func (d *Delivery) Pending() int { return len(d.pending) }

// TryDropIntoSlot consumes a clean plate. The plate is accepted whether or
// not the contents match; the outcome is reported through events.
func (d *Delivery) TryDropIntoSlot(p slot.Pickable) bool {
	plate, ok := p.(*Plate)
	if !ok || plate.Destroyed() {
		reject(d.pub, event.DropRejected, d.ID(), reasonIncompatible)
		return false
	}
	if plate.Dirty() {
		reject(d.pub, event.DropRejected, d.ID(), reasonDirty)
		return false
	}
	if d.orders == nil {
		slog.Warn("delivery counter has no order manager", "delivery", d.ID())
		return false
	}

	items := plate.Ingredients()
	matched := d.orders.CheckIngredientsMatchOrder(items)
	if !matched && len(items) > 0 {
		d.pub.Publish(event.Event{
			Kind:    event.DeliveryUnmatched,
			Subject: d.ID(),
			Payload: ir.Object{
				"plate":       ir.String(plate.ID()),
				"ingredients": ir.Strings(item.Types(items)),
			},
		})
	}

	plate.SetDirty(true)
	plate.Place(d.Position())
	d.pending = append(d.pending, pendingPlate{plate: plate, due: d.delay})
	return true
}

// TryPickUpFromSlot always rejects.
func (d *Delivery) TryPickUpFromSlot(slot.Pickable) slot.Pickable {
	reject(d.pub, event.PickupRejected, d.ID(), reasonEmpty)
	return nil
}

// Tick counts down pending plates and returns the due ones.
func (d *Delivery) Tick(dt time.Duration) {
	keep := d.pending[:0]
	for _, pp := range d.pending {
		pp.due -= dt
		if pp.due > 0 {
			keep = append(keep, pp)
			continue
		}
		if d.ret == nil {
			pp.plate.Destroy()
			continue
		}
		d.ret.Push(pp.plate)
	}
	d.pending = keep
}

// Reset destroys every plate waiting to be returned.
func (d *Delivery) Reset() {
	for _, pp := range d.pending {
		pp.plate.Destroy()
	}
	d.pending = nil
	d.Entity.ClearHighlight()
}

// Snapshot reports the counter with no occupant.
func (d *Delivery) Snapshot() Snapshot {
	return Snapshot{ID: d.ID(), Kind: d.Kind(), Position: d.Position()}
}

// PlateReturn is where delivered plates reappear, dirty and stacked.
type PlateReturn struct {
	slot.Entity
	pub    event.Publisher
	plates []*Plate
}

// NewPlateReturn returns an empty plate return at pos.
func NewPlateReturn(id string, pos slot.Vec3, pub event.Publisher) *PlateReturn {
	return &PlateReturn{Entity: slot.NewEntity(id, pos), pub: publisher(pub)}
}

func (r *PlateReturn) Kind() Kind { return KindPlateReturn }

// Count is the number of plates on the stack.
func (r *PlateReturn) Count() int {
	r.prune()
	return len(r.plates)
}

// Push stacks a returned plate.
func (r *PlateReturn) Push(p *Plate) {
	r.plates = append(r.plates, p)
	p.Place(r.Position())
}

// TryDropIntoSlot always rejects; plates only arrive through Push.
func (r *PlateReturn) TryDropIntoSlot(slot.Pickable) bool {
	reject(r.pub, event.DropRejected, r.ID(), reasonIncompatible)
	return false
}

// TryPickUpFromSlot hands out the top plate.
func (r *PlateReturn) TryPickUpFromSlot(slot.Pickable) slot.Pickable {
	r.prune()
	if len(r.plates) == 0 {
		reject(r.pub, event.PickupRejected, r.ID(), reasonEmpty)
		return nil
	}
	top := r.plates[len(r.plates)-1]
	r.plates = r.plates[:len(r.plates)-1]
	return top
}

// Reset destroys the stack.
func (r *PlateReturn) Reset() {
	for _, p := range r.plates {
		p.Destroy()
	}
	r.plates = nil
	r.Entity.ClearHighlight()
}

// Seed stacks a plate without events.
func (r *PlateReturn) Seed(p slot.Pickable) bool {
	plate, ok := p.(*Plate)
	if !ok {
		return false
	}
	r.Push(plate)
	return true
}

// Snapshot reports the top plate as the occupant.
func (r *PlateReturn) Snapshot() Snapshot {
	s := Snapshot{ID: r.ID(), Kind: r.Kind(), Position: r.Position()}
	if r.Count() > 0 {
		s.Occupant = r.plates[len(r.plates)-1].ID()
	}
	return s
}

func (r *PlateReturn) prune() {
	out := r.plates[:0]
	for _, p := range r.plates {
		if !p.Destroyed() {
			out = append(out, p)
		}
	}
	r.plates = out
}
