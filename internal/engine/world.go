package engine

import (
	"fmt"

	"github.com/roach88/kitchen/internal/appliance"
	"github.com/roach88/kitchen/internal/event"
	"github.com/roach88/kitchen/internal/item"
	"github.com/roach88/kitchen/internal/level"
	"github.com/roach88/kitchen/internal/slot"
)

// world owns every entity built from a level.
type world struct {
	lvl        *level.Level
	pub        event.Publisher
	factory    *item.Factory
	appliances []appliance.Appliance // level.ApplianceIDs order
	byID       map[string]appliance.Appliance
	counters   map[string]int
}

// buildWorld constructs appliances from lvl. Plate returns are built first
// so deliveries can link to them. matcher is the order manager.
func buildWorld(lvl *level.Level, pub event.Publisher, matcher appliance.OrderMatcher) (*world, error) {
	w := &world{
		lvl:      lvl,
		pub:      pub,
		factory:  item.NewFactory(lvl.Catalogue()),
		byID:     make(map[string]appliance.Appliance, len(lvl.Appliances)),
		counters: make(map[string]int),
	}

	ids := lvl.ApplianceIDs()
	for _, id := range ids {
		a := lvl.Appliances[id]
		if appliance.Kind(a.Kind) == appliance.KindPlateReturn {
			w.byID[id] = appliance.NewPlateReturn(id, a.Pos.Vec3(), pub)
		}
	}

	for _, id := range ids {
		if _, ok := w.byID[id]; ok {
			continue
		}
		a, err := w.build(id, lvl.Appliances[id], matcher)
		if err != nil {
			return nil, err
		}
		w.byID[id] = a
	}

	w.appliances = make([]appliance.Appliance, 0, len(ids))
	for _, id := range ids {
		w.appliances = append(w.appliances, w.byID[id])
	}

	if err := w.seed(); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *world) build(id string, a level.Appliance, matcher appliance.OrderMatcher) (appliance.Appliance, error) {
	pos := a.Pos.Vec3()
	tuning := w.lvl.Engine

	switch appliance.Kind(a.Kind) {
	case appliance.KindCountertop:
		return appliance.NewCountertop(id, pos, w.pub), nil
	case appliance.KindChoppingBoard:
		return appliance.NewChoppingBoard(id, pos, w.pub), nil
	case appliance.KindStove:
		return appliance.NewStove(id, pos, w.pub), nil
	case appliance.KindSink:
		rack := pos
		if a.Rack != nil {
			rack = a.Rack.Vec3()
		}
		return appliance.NewSink(id, pos, rack, tuning.CleanTime(), w.pub), nil
	case appliance.KindCrate:
		return appliance.NewCrate(id, pos, item.Type(a.Ingredient), w.factory, w.pub), nil
	case appliance.KindBin:
		return appliance.NewBin(id, pos, w.pub), nil
	case appliance.KindDelivery:
		var ret *appliance.PlateReturn
		if a.ReturnTo != "" {
			r, ok := w.byID[a.ReturnTo].(*appliance.PlateReturn)
			if !ok {
				return nil, fmt.Errorf("appliance %q: return_to %q is not a plate_return", id, a.ReturnTo)
			}
			ret = r
		}
		return appliance.NewDelivery(id, pos, matcher, ret, tuning.PlateReturn(), w.pub), nil
	}
	return nil, fmt.Errorf("appliance %q: unknown kind %q", id, a.Kind)
}

// seed places each appliance's level stock. IDs restart from 1 on every
// call so a reset episode replays the same names.
func (w *world) seed() error {
	w.factory.Reset()
	clear(w.counters)

	for _, a := range w.appliances {
		stock := w.lvl.Appliances[a.ID()].Stock
		if len(stock) == 0 {
			continue
		}
		s, ok := a.(appliance.Seeder)
		if !ok {
			return fmt.Errorf("appliance %q cannot be stocked", a.ID())
		}
		for _, name := range stock {
			p, err := w.make(name, a.Position())
			if err != nil {
				return fmt.Errorf("appliance %q: %w", a.ID(), err)
			}
			if !s.Seed(p) {
				p.Destroy()
				return fmt.Errorf("appliance %q rejected stock %q", a.ID(), name)
			}
		}
	}
	return nil
}

func (w *world) make(stock string, pos slot.Vec3) (slot.Pickable, error) {
	switch stock {
	case level.StockPlate, level.StockDirtyPlate:
		return appliance.NewPlate(w.nextID("plate"), pos, stock == level.StockDirtyPlate, w.pub), nil
	case level.StockPot:
		cfg := appliance.PotConfig{Burn: w.lvl.Engine.Burn, BurnTime: w.lvl.Engine.BurnTime()}
		return appliance.NewCookingPot(w.nextID("pot"), pos, cfg, w.pub), nil
	}
	return w.factory.Make(item.Type(stock), pos)
}

func (w *world) nextID(prefix string) string {
	w.counters[prefix]++
	return fmt.Sprintf("%s-%d", prefix, w.counters[prefix])
}

func (w *world) reset() error {
	for _, a := range w.appliances {
		a.Reset()
	}
	return w.seed()
}
