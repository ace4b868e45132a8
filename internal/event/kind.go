package event

// Kind names an event stream. Subscribers register per kind.
type Kind string

// Chopping board.
const (
	ChopStart    Kind = "chopping.start"
	ChopProgress Kind = "chopping.progress"
	ChopStop     Kind = "chopping.stop"
	ChopRejected Kind = "chopping.rejected"
)

// Sink.
const (
	CleanStart Kind = "clean.start"
	CleanStop  Kind = "clean.stop"
)

// Cooking pot.
const (
	PotIngredientAdded Kind = "pot.ingredient_added"
	PotCookFinished    Kind = "pot.cook_finished"
	PotBurned          Kind = "pot.burned"
	PotRejected        Kind = "pot.rejected"
)

// Plate and delivery.
const (
	PlateRejected     Kind = "plate.rejected"
	DeliveryUnmatched Kind = "delivery.unmatched"
)

// Order manager.
const (
	OrderSpawned   Kind = "order.spawned"
	OrderDelivered Kind = "order.delivered"
	OrderExpired   Kind = "order.expired"
	OrderRegroup   Kind = "order.regroup"
	OrderCleared   Kind = "order.cleared"
)

// Generic slot protocol negatives.
const (
	DropRejected   Kind = "slot.drop_rejected"
	PickupRejected Kind = "slot.pickup_rejected"
)

// Proximity selector and actors.
const (
	HighlightOn  Kind = "selector.highlight_on"
	HighlightOff Kind = "selector.highlight_off"
	ActorDash    Kind = "actor.dash"
)

// Negative reports whether the kind is a player-facing failure signal.
func (k Kind) Negative() bool {
	switch k {
	case ChopRejected, PotRejected, PlateRejected, DeliveryUnmatched, DropRejected, PickupRejected:
		return true
	}
	return false
}
