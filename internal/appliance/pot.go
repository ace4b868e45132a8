package appliance

import (
	"time"

	"github.com/roach88/kitchen/internal/event"
	"github.com/roach88/kitchen/internal/ir"
	"github.com/roach88/kitchen/internal/item"
	"github.com/roach88/kitchen/internal/slot"
)

// PotCapacity is the number of soup ingredients a pot holds.
const PotCapacity = 3

// PotConfig controls cooking and burning.
type PotConfig struct {
	// Burn enables ruining cooked soup left on the stove.
	Burn bool
	// BurnTime is how long cooked soup survives on the stove.
	BurnTime time.Duration
}

// CookingPot is a carryable container that cooks while seated on a stove.
//
// Cook time is the sum of the contents' cook times; adding an ingredient
// extends it and clears the cooked flag until the new total is reached.
type CookingPot struct {
	slot.Carryable
	pub    event.Publisher
	cfg    PotConfig
	items  []*item.Ingredient
	cooked bool
	burned bool
	cook   time.Duration
	burn   time.Duration
}

// NewCookingPot returns an empty pot configured by cfg.
func NewCookingPot(id string, pos slot.Vec3, cfg PotConfig, pub event.Publisher) *CookingPot {
	return &CookingPot{
		Carryable: slot.NewCarryable(id, pos),
		pub:       publisher(pub),
		cfg:       cfg,
	}
}

// Cooked and Burned report the cooking state of the contents.
func (p *CookingPot) Cooked() bool { return p.cooked }
func (p *CookingPot) Burned() bool { return p.burned }

// Ingredients returns the live contents in insertion order.
func (p *CookingPot) Ingredients() []*item.Ingredient {
	out := make([]*item.Ingredient, 0, len(p.items))
	for _, ing := range p.items {
		if !ing.Destroyed() {
			out = append(out, ing)
		}
	}
	return out
}

// Empty reports whether the pot holds no live ingredient.
func (p *CookingPot) Empty() bool { return len(p.Ingredients()) == 0 }

// CookTime is the total time needed to cook the current contents.
func (p *CookingPot) CookTime() time.Duration {
	var total time.Duration
	for _, ing := range p.Ingredients() {
		total += ing.CookTime()
	}
	return total
}

// Progress is the normalised cooking progress.
func (p *CookingPot) Progress() float64 {
	if p.cooked {
		return 1
	}
	total := p.CookTime()
	if total <= 0 || p.Empty() {
		return 0
	}
	return min(float64(p.cook)/float64(total), 1)
}

// TryDropIntoSlot adds a processed ingredient, restarting the cook. A
// plate is poured into instead.
func (p *CookingPot) TryDropIntoSlot(c slot.Pickable) bool {
	if plate, ok := c.(*Plate); ok {
		// Pour onto the plate in hand; both containers stay where they are.
		plate.TryDropIntoSlot(p)
		return false
	}
	ing, ok := c.(*item.Ingredient)
	switch {
	case !ok:
		p.reject(reasonIncompatible)
		return false
	case p.burned:
		p.reject(reasonBurned)
		return false
	case ing.Status() != item.Processed:
		p.reject(reasonUnprocessed)
		return false
	case len(p.Ingredients()) >= PotCapacity:
		p.reject(reasonFull)
		return false
	}
	p.items = append(p.Ingredients(), ing)
	ing.Place(p.Position())
	p.cooked = false
	p.burn = 0
	p.pub.Publish(event.Event{
		Kind:    event.PotIngredientAdded,
		Subject: p.ID(),
		Payload: ir.Object{
			"ingredient": ir.String(ing.Type()),
			"count":      ir.Int(len(p.items)),
		},
	})
	return true
}

// TryPickUpFromSlot returns the pot itself unless destroyed.
func (p *CookingPot) TryPickUpFromSlot(slot.Pickable) slot.Pickable {
	if p.Destroyed() {
		return nil
	}
	return p
}

// Tick cooks the contents. Only a stove calls it.
func (p *CookingPot) Tick(dt time.Duration) {
	if p.burned || p.Empty() {
		return
	}
	if !p.cooked {
		p.cook += dt
		if p.cook < p.CookTime() {
			return
		}
		p.cooked = true
		p.burn = 0
		for _, ing := range p.Ingredients() {
			ing.ChangeToCooked()
		}
		p.pub.Publish(event.Event{
			Kind:    event.PotCookFinished,
			Subject: p.ID(),
			Payload: ir.Object{"ingredients": ir.Strings(item.Types(p.items))},
		})
		return
	}
	if !p.cfg.Burn {
		return
	}
	p.burn += dt
	if p.burn >= p.cfg.BurnTime {
		p.burned = true
		p.pub.Publish(event.Event{Kind: event.PotBurned, Subject: p.ID()})
	}
}

// TakeContents hands the ingredients over and resets the pot.
func (p *CookingPot) TakeContents() []*item.Ingredient {
	out := p.Ingredients()
	p.items = nil
	p.resetCooking()
	return out
}

// Clear destroys the contents and resets the pot.
func (p *CookingPot) Clear() {
	for _, ing := range p.items {
		ing.Destroy()
	}
	p.items = nil
	p.resetCooking()
}

// Place moves the pot and its contents.
func (p *CookingPot) Place(at slot.Vec3) {
	p.Carryable.Place(at)
	for _, ing := range p.items {
		ing.Place(at)
	}
}

// Destroy destroys the pot and its contents.
func (p *CookingPot) Destroy() {
	p.Clear()
	p.Carryable.Destroy()
}

func (p *CookingPot) resetCooking() {
	p.cooked = false
	p.burned = false
	p.cook = 0
	p.burn = 0
}

func (p *CookingPot) reject(reason string) {
	p.pub.Publish(event.Event{
		Kind:    event.PotRejected,
		Subject: p.ID(),
		Payload: ir.Object{"reason": ir.String(reason)},
	})
}
