package engine

import (
	"github.com/roach88/kitchen/internal/appliance"
	"github.com/roach88/kitchen/internal/order"
	"github.com/roach88/kitchen/internal/slot"
)

// Observation is a read-only snapshot of the whole kitchen, the input to
// observation encoders and scenario assertions.
type Observation struct {
	Session    string               `json:"session"`
	Tick       int64                `json:"tick"`
	Actors     []ActorView          `json:"actors"`
	Appliances []appliance.Snapshot `json:"appliances"`
	Floor      []FloorItem          `json:"floor"`
	Orders     []order.View         `json:"orders"`
	Capacity   int                  `json:"capacity"`
}

// FloorItem is a loose item lying on the floor.
type FloorItem struct {
	ID       string    `json:"id"`
	Position slot.Vec3 `json:"position"`
}

// Observe captures the current state.
func (e *Engine) Observe() Observation {
	obs := Observation{
		Session:  e.session,
		Tick:     e.tick,
		Orders:   e.orders.Snapshot(),
		Capacity: e.orders.Capacity(),
	}
	for _, a := range e.actors {
		obs.Actors = append(obs.Actors, a.view())
	}
	for _, ap := range e.world.appliances {
		obs.Appliances = append(obs.Appliances, ap.Snapshot())
	}
	for _, p := range e.Floor() {
		obs.Floor = append(obs.Floor, FloorItem{ID: p.ID(), Position: p.Position()})
	}
	return obs
}

// Actor returns the view of actor id.
func (o Observation) Actor(id string) (ActorView, bool) {
	for _, a := range o.Actors {
		if a.ID == id {
			return a, true
		}
	}
	return ActorView{}, false
}

// Appliance returns the snapshot of appliance id.
func (o Observation) Appliance(id string) (appliance.Snapshot, bool) {
	for _, s := range o.Appliances {
		if s.ID == id {
			return s, true
		}
	}
	return appliance.Snapshot{}, false
}
