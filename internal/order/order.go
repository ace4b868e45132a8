// Package order runs the order queue: spawning on an interval, counting
// down, matching delivered plates, tipping and recycling through a pool.
package order

import (
	"time"

	"github.com/roach88/kitchen/internal/item"
)

// Recipe is one entry of the level's order catalogue.
type Recipe struct {
	Name        string
	Ingredients []item.Type
	// TimeLimit overrides the manager's base time when positive.
	TimeLimit time.Duration
}

// Order is a time-boxed request for a set of ingredient types.
//
// INVARIANT: 0 <= Remaining() <= InitialRemaining(). Once Delivered() is
// true the order is inert until the pool hands it out again.
type Order struct {
	id        string
	recipe    Recipe
	arrival   time.Duration
	initial   time.Duration
	remaining time.Duration
	delivered bool
	expired   bool
}

func (o *Order) ID() string                      { return o.id }
func (o *Order) Recipe() string                  { return o.recipe.Name }
func (o *Order) ArrivalTime() time.Duration      { return o.arrival }
func (o *Order) InitialRemaining() time.Duration { return o.initial }
func (o *Order) Remaining() time.Duration        { return o.remaining }
func (o *Order) Delivered() bool                 { return o.delivered }

// Expired reports whether the order ran out of time (it is then also
// Delivered, which is the terminal flag).
func (o *Order) Expired() bool { return o.expired }

// Ingredients returns a copy of the required types.
func (o *Order) Ingredients() []item.Type {
	out := make([]item.Type, len(o.recipe.Ingredients))
	copy(out, o.recipe.Ingredients)
	return out
}

// Ratio is the fraction of the time budget left, in [0,1].
func (o *Order) Ratio() float64 {
	if o.initial <= 0 {
		return 0
	}
	return float64(o.remaining) / float64(o.initial)
}

// setup resets every mutable field; pooled orders are reused by
// availability, never by identity.
func (o *Order) setup(id string, recipe Recipe, arrival, initial time.Duration) {
	*o = Order{
		id:        id,
		recipe:    recipe,
		arrival:   arrival,
		initial:   initial,
		remaining: initial,
	}
}

// countDown subtracts dt and reports whether the order just ran out.
func (o *Order) countDown(dt time.Duration) bool {
	if o.delivered {
		return false
	}
	o.remaining = max(o.remaining-dt, 0)
	return o.remaining == 0
}

func (o *Order) setDelivered() {
	o.delivered = true
}

// Tip maps the remaining-time ratio at delivery to a tip. Bracket bounds
// are exclusive: exactly 0.75 earns 4.
func Tip(ratio float64) int {
	switch {
	case ratio > 0.75:
		return 6
	case ratio > 0.5:
		return 4
	case ratio > 0.25:
		return 2
	}
	return 0
}

// Matches reports whether delivered satisfies required.
//
// Sizes must agree and the symmetric difference of the two type sets must
// be empty. Per-type counts are not compared, so {a, a, b} matches
// {a, b, b}; see DESIGN.md.
func Matches(required, delivered []item.Type) bool {
	if len(required) != len(delivered) {
		return false
	}
	want := make(map[item.Type]bool, len(required))
	for _, t := range required {
		want[t] = true
	}
	got := make(map[item.Type]bool, len(delivered))
	for _, t := range delivered {
		if !want[t] {
			return false
		}
		got[t] = true
	}
	for t := range want {
		if !got[t] {
			return false
		}
	}
	return true
}
