package engine

import (
	"time"

	"github.com/roach88/kitchen/internal/item"
	"github.com/roach88/kitchen/internal/proximity"
	"github.com/roach88/kitchen/internal/slot"
)

// Dash timing.
const (
	DashDuration = 170 * time.Millisecond
	DashCooldown = 70 * time.Millisecond
)

// holdOffset is how far in front of the actor a dropped item lands.
const holdOffset = 0.5

// Actor is one player-controlled chef.
type Actor struct {
	id     string
	spawn  slot.Vec3
	pos    slot.Vec3
	facing slot.Vec3
	input  slot.Vec3
	held   slot.Pickable
	sel    *proximity.Selector

	dashLeft     time.Duration
	cooldownLeft time.Duration
}

func newActor(id string, spawn slot.Vec3, sel *proximity.Selector) *Actor {
	return &Actor{
		id:     id,
		spawn:  spawn,
		pos:    spawn,
		facing: slot.Vec3{Z: 1},
		sel:    sel,
	}
}

func (a *Actor) ID() string          { return a.id }
func (a *Actor) Position() slot.Vec3 { return a.pos }
func (a *Actor) Facing() slot.Vec3   { return a.facing }

// Held returns the carried item, nil when hands are empty. A held item
// destroyed elsewhere reads as empty hands.
func (a *Actor) Held() slot.Pickable {
	if !slot.Alive(a.held) {
		a.held = nil
	}
	return a.held
}

// Target returns the highlighted interactable.
func (a *Actor) Target() slot.Interactable { return a.sel.Current() }

// Dashing reports whether a dash is in flight.
func (a *Actor) Dashing() bool { return a.dashLeft > 0 }

// CanDash reports whether a new dash may start.
func (a *Actor) CanDash() bool { return a.dashLeft <= 0 && a.cooldownLeft <= 0 }

func (a *Actor) setInput(v slot.Vec3) {
	a.input = slot.Vec3{X: v.X, Z: v.Z}
}

func (a *Actor) dash() bool {
	if !a.CanDash() {
		return false
	}
	a.dashLeft = DashDuration
	return true
}

// move integrates one fixed step of kinematic motion.
func (a *Actor) move(dt time.Duration, speed, dashMul float64) {
	dir := a.input.Normalized()
	if dir.Len() > 0 {
		a.facing = dir
	}

	if a.dashLeft > 0 {
		if dir.Len() == 0 {
			dir = a.facing
		}
		speed *= dashMul
		a.dashLeft -= dt
		if a.dashLeft <= 0 {
			a.dashLeft = 0
			a.cooldownLeft = DashCooldown
		}
	} else if a.cooldownLeft > 0 {
		a.cooldownLeft = max(a.cooldownLeft-dt, 0)
	}

	a.pos = a.pos.Add(dir.Scale(speed * dt.Seconds()))
	if held := a.Held(); held != nil {
		held.Place(a.pos)
	}
}

func (a *Actor) dropPoint() slot.Vec3 {
	return a.pos.Add(a.facing.Scale(holdOffset))
}

func (a *Actor) reset() {
	if held := a.Held(); held != nil {
		held.Destroy()
	}
	a.held = nil
	a.pos = a.spawn
	a.facing = slot.Vec3{Z: 1}
	a.input = slot.Vec3{}
	a.dashLeft = 0
	a.cooldownLeft = 0
	a.sel.Reset()
}

// ActorView is the observable state of one actor.
type ActorView struct {
	ID       string      `json:"id"`
	Position slot.Vec3   `json:"position"`
	Facing   slot.Vec3   `json:"facing"`
	Held     string      `json:"held,omitempty"`
	Contents []item.Type `json:"contents,omitempty"`
	Target   string      `json:"target,omitempty"`
	Dashing  bool        `json:"dashing"`
}

func (a *Actor) view() ActorView {
	v := ActorView{
		ID:       a.id,
		Position: a.pos,
		Facing:   a.facing,
		Dashing:  a.Dashing(),
	}
	if held := a.Held(); held != nil {
		v.Held = held.ID()
		switch h := held.(type) {
		case *item.Ingredient:
			v.Contents = []item.Type{h.Type()}
		case interface{ Ingredients() []*item.Ingredient }:
			v.Contents = item.Types(h.Ingredients())
		}
	}
	if t := a.Target(); t != nil {
		v.Target = t.ID()
	}
	return v
}
