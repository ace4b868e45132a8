// Package item models carryable ingredients and their processing chain.
package item

import (
	"time"

	"github.com/roach88/kitchen/internal/slot"
)

// Type is an ingredient category from the level catalogue ("tomato").
type Type string

// Status is a stage in the processing chain. Transitions only move forward.
type Status int

const (
	Raw Status = iota
	Processed
	Cooked
)

func (s Status) String() string {
	switch s {
	case Raw:
		return "raw"
	case Processed:
		return "processed"
	case Cooked:
		return "cooked"
	}
	return "unknown"
}

// ParseStatus maps the catalogue spelling back to a Status.
func ParseStatus(s string) (Status, bool) {
	switch s {
	case "", "raw":
		return Raw, true
	case "processed":
		return Processed, true
	case "cooked":
		return Cooked, true
	}
	return Raw, false
}

// Spec is the static catalogue data of one ingredient type.
type Spec struct {
	Type        Type
	ProcessTime time.Duration
	CookTime    time.Duration
}

// Ingredient is a pickable item with a monotonic status.
//
// An ingredient never accepts drops and always hands itself back on pickup;
// the holder around it decides whether the pickup is allowed.
type Ingredient struct {
	slot.Carryable
	spec   Spec
	status Status
}

// New creates a Raw ingredient.
func New(id string, spec Spec, pos slot.Vec3) *Ingredient {
	return &Ingredient{
		Carryable: slot.NewCarryable(id, pos),
		spec:      spec,
	}
}

// NewWithStatus creates an ingredient already at status s.
func NewWithStatus(id string, spec Spec, pos slot.Vec3, s Status) *Ingredient {
	ing := New(id, spec, pos)
	ing.status = s
	return ing
}

func (i *Ingredient) Type() Type                 { return i.spec.Type }
func (i *Ingredient) Status() Status             { return i.status }
func (i *Ingredient) ProcessTime() time.Duration { return i.spec.ProcessTime }
func (i *Ingredient) CookTime() time.Duration    { return i.spec.CookTime }

// ChangeToProcessed advances Raw to Processed. Returns false for any other
// starting status; status never regresses.
func (i *Ingredient) ChangeToProcessed() bool {
	if i.status != Raw {
		return false
	}
	i.status = Processed
	return true
}

// ChangeToCooked advances Processed to Cooked.
func (i *Ingredient) ChangeToCooked() bool {
	if i.status != Processed {
		return false
	}
	i.status = Cooked
	return true
}

func (i *Ingredient) TryDropIntoSlot(slot.Pickable) bool {
	return false
}

func (i *Ingredient) TryPickUpFromSlot(slot.Pickable) slot.Pickable {
	if i.Destroyed() {
		return nil
	}
	return i
}

// Types extracts the type of every live ingredient, in order.
func Types(items []*Ingredient) []Type {
	out := make([]Type, 0, len(items))
	for _, ing := range items {
		if ing == nil || ing.Destroyed() {
			continue
		}
		out = append(out, ing.Type())
	}
	return out
}
