package engine

import "github.com/roach88/kitchen/internal/slot"

// IntentKind distinguishes actor inputs.
type IntentKind int

const (
	// IntentMove sets the actor's movement direction until changed.
	IntentMove IntentKind = iota + 1
	// IntentDash triggers a dash (edge-triggered).
	IntentDash
	// IntentPickUp picks up or drops, depending on what the actor holds.
	IntentPickUp
	// IntentInteract uses the highlighted interactable (chop, wash).
	IntentInteract
)

func (k IntentKind) String() string {
	switch k {
	case IntentMove:
		return "move"
	case IntentDash:
		return "dash"
	case IntentPickUp:
		return "pickup"
	case IntentInteract:
		return "interact"
	}
	return "unknown"
}

// ParseIntentKind maps the scenario spelling to an IntentKind.
func ParseIntentKind(s string) (IntentKind, bool) {
	for _, k := range []IntentKind{IntentMove, IntentDash, IntentPickUp, IntentInteract} {
		if k.String() == s {
			return k, true
		}
	}
	return 0, false
}

// Intent is one actor input, applied at the start of the next frame step.
type Intent struct {
	Actor string
	Kind  IntentKind
	// Move is the planar direction for IntentMove (y is ignored).
	Move slot.Vec3
}

// Input is a full per-tick control sample, the shape an agent policy
// produces.
type Input struct {
	Move     slot.Vec3
	Dash     bool
	PickUp   bool
	Interact bool
}

// Intents expands an Input into the intents it implies, in application
// order.
func (in Input) Intents(actor string) []Intent {
	out := []Intent{{Actor: actor, Kind: IntentMove, Move: in.Move}}
	if in.Dash {
		out = append(out, Intent{Actor: actor, Kind: IntentDash})
	}
	if in.PickUp {
		out = append(out, Intent{Actor: actor, Kind: IntentPickUp})
	}
	if in.Interact {
		out = append(out, Intent{Actor: actor, Kind: IntentInteract})
	}
	return out
}
