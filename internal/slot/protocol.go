package slot

// Interactable is anything an actor can target: appliances and loose items.
type Interactable interface {
	ID() string
	Position() Vec3

	// TryDropIntoSlot offers p to the receiver. Returns false and leaves
	// all state unchanged when p is not accepted.
	TryDropIntoSlot(p Pickable) bool

	// TryPickUpFromSlot asks the receiver for its content. held is what the
	// requesting actor already carries (usually nil). Returns nil when the
	// pickup preconditions do not hold.
	TryPickUpFromSlot(held Pickable) Pickable

	// Interact is the actor's "use" intent (chop, wash).
	Interact(actor string)

	HighlightOn()
	HighlightOff()
	Highlighted() bool

	// Destroyed reports whether the entity left the simulation. Destroyed
	// entities are treated as absent by every holder and selector.
	Destroyed() bool
}

// Pickable is an Interactable that can be carried.
type Pickable interface {
	Interactable

	// Pick is called when an actor takes the item into its hands.
	Pick()
	// Drop releases the item loose onto the floor at the given position.
	Drop(at Vec3)
	// Place seats the item at a holder's anchor.
	Place(at Vec3)
	// Loose reports whether the item lies on the floor.
	Loose() bool
	// Destroy removes the item from the simulation.
	Destroy()
}

// Resetter is implemented by appliances that support a forced reset.
type Resetter interface {
	Reset()
}

// Ticker is implemented by appliances with internal progress.
type Ticker interface {
	Tick(dt Duration)
}

// Interrupter is implemented by appliances whose in-flight process halts
// when the acting actor disengages.
type Interrupter interface {
	Interrupt(actor string)
}

// Alive reports whether p is non-nil and not destroyed.
func Alive(p Interactable) bool {
	return p != nil && !p.Destroyed()
}
