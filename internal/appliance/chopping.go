package appliance

import (
	"time"

	"github.com/roach88/kitchen/internal/event"
	"github.com/roach88/kitchen/internal/ir"
	"github.com/roach88/kitchen/internal/item"
	"github.com/roach88/kitchen/internal/slot"
)

// ChoppingBoard turns Raw ingredients into Processed ones.
//
// States: Idle (empty) → Loaded (raw item, no countdown) → Processing
// (countdown exists, possibly halted) → Done (item Processed) → Idle once
// the item is taken. The item is locked on the board while a countdown
// exists.
type ChoppingBoard struct {
	slot.Entity
	held slot.Holder
	pub  event.Publisher
	cd   countdown
}

// NewChoppingBoard creates an empty board at pos.
func NewChoppingBoard(id string, pos slot.Vec3, pub event.Publisher) *ChoppingBoard {
	return &ChoppingBoard{
		Entity: slot.NewEntity(id, pos),
		held:   slot.NewHolder(pos),
		pub:    publisher(pub),
	}
}

func (b *ChoppingBoard) Kind() Kind { return KindChoppingBoard }

// Current returns the ingredient on the board, or nil.
func (b *ChoppingBoard) Current() *item.Ingredient {
	ing, _ := b.held.Current().(*item.Ingredient)
	return ing
}

// Progress is the normalised chopping progress; 1 once the item is done.
func (b *ChoppingBoard) Progress() float64 {
	ing := b.Current()
	if ing == nil {
		return 0
	}
	if ing.Status() >= item.Processed {
		return 1
	}
	return b.cd.progress()
}

// Chopping reports whether the countdown is being advanced.
func (b *ChoppingBoard) Chopping() bool {
	return b.cd.active
}

// TryDropIntoSlot loads a raw ingredient onto an empty board.
func (b *ChoppingBoard) TryDropIntoSlot(p slot.Pickable) bool {
	ing, ok := p.(*item.Ingredient)
	switch {
	case !ok:
		reject(b.pub, event.DropRejected, b.ID(), reasonIncompatible)
		return false
	case b.held.Occupied():
		reject(b.pub, event.DropRejected, b.ID(), reasonOccupied)
		return false
	case ing.Status() != item.Raw:
		reject(b.pub, event.DropRejected, b.ID(), reasonNotRaw)
		return false
	}
	if !b.held.Accept(ing) {
		reject(b.pub, event.DropRejected, b.ID(), reasonIncompatible)
		return false
	}
	b.cd.reset()
	return true
}

// TryPickUpFromSlot releases a processed ingredient. Items still being
// chopped stay on the board.
func (b *ChoppingBoard) TryPickUpFromSlot(slot.Pickable) slot.Pickable {
	ing := b.Current()
	switch {
	case ing == nil:
		reject(b.pub, event.PickupRejected, b.ID(), reasonEmpty)
		return nil
	case b.cd.started:
		reject(b.pub, event.PickupRejected, b.ID(), reasonBusy)
		return nil
	case ing.Status() < item.Processed:
		reject(b.pub, event.PickupRejected, b.ID(), reasonUnprocessed)
		return nil
	}
	b.held.Release()
	return ing
}

// Interact starts chopping a loaded raw item, or resumes a halted one.
func (b *ChoppingBoard) Interact(actor string) {
	ing := b.Current()
	if ing == nil || ing.Status() != item.Raw {
		b.pub.Publish(event.Event{Kind: event.ChopRejected, Actor: actor, Subject: b.ID()})
		return
	}
	if !b.cd.started {
		b.cd.start(ing.ProcessTime(), actor)
		b.pub.Publish(b.chopEvent(event.ChopStart, false))
		return
	}
	if !b.cd.active {
		b.cd.resume(actor)
	}
}

// Tick advances an active countdown by dt.
func (b *ChoppingBoard) Tick(dt time.Duration) {
	if !b.cd.active {
		return
	}
	ing := b.Current()
	if ing == nil {
		b.cd.reset()
		return
	}
	b.pub.Publish(b.chopEvent(event.ChopProgress, false))
	if !b.cd.advance(dt) {
		return
	}
	ing.ChangeToProcessed()
	done := b.chopEvent(event.ChopStop, true)
	done.Payload["ingredient"] = ir.String(ing.Type())
	b.cd.reset()
	b.pub.Publish(done)
}

// Interrupt halts the countdown when actor is the one chopping, preserving
// elapsed time. Other actors walking away or dashing leave it running.
func (b *ChoppingBoard) Interrupt(actor string) {
	if b.cd.haltFor(actor) {
		b.pub.Publish(b.chopEvent(event.ChopStop, false))
	}
}

// Reset destroys the held item and cancels any countdown.
func (b *ChoppingBoard) Reset() {
	b.held.Clear()
	b.cd.reset()
	b.Entity.ClearHighlight()
}

// Seed places p without events.
func (b *ChoppingBoard) Seed(p slot.Pickable) bool {
	return b.held.Accept(p)
}

// Snapshot reports the item on the board and the chopping progress.
func (b *ChoppingBoard) Snapshot() Snapshot {
	s := Snapshot{ID: b.ID(), Kind: b.Kind(), Position: b.Position(), Progress: b.Progress()}
	describe(&s, b.held.Current())
	return s
}

func (b *ChoppingBoard) chopEvent(kind event.Kind, completed bool) event.Event {
	e := event.Event{
		Kind:    kind,
		Actor:   b.cd.actor,
		Subject: b.ID(),
		Payload: ir.Object{
			"elapsed_ms":  ir.Millis(b.cd.elapsed),
			"required_ms": ir.Millis(b.cd.required),
		},
	}
	if kind == event.ChopStop {
		e.Payload["completed"] = ir.Bool(completed)
	}
	return e
}
