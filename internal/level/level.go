// Package level loads kitchen layouts and catalogues from CUE.
//
// A level file is a plain CUE struct unified with the embedded #Level
// schema, so defaults and constraints live in one place. Semantic checks
// that CUE cannot express (cross references between recipes, crates and
// ingredients) run after decoding.
package level

import (
	"slices"
	"time"

	"github.com/roach88/kitchen/internal/item"
	"github.com/roach88/kitchen/internal/order"
	"github.com/roach88/kitchen/internal/slot"
)

// Level is a decoded level file.
type Level struct {
	Name        string                `json:"name"`
	Seed        uint64                `json:"seed,omitempty"`
	Ingredients map[string]Ingredient `json:"ingredients"`
	Recipes     map[string]Recipe     `json:"recipes"`
	Orders      Orders                `json:"orders"`
	Appliances  map[string]Appliance  `json:"appliances"`
	Actors      map[string]Actor      `json:"actors"`
	Engine      Engine                `json:"engine"`

	// Source is the file or directory the level was loaded from.
	Source string `json:"-"`
}

type Vec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func (v Vec) Vec3() slot.Vec3 { return slot.Vec3{X: v.X, Y: v.Y, Z: v.Z} }

type Ingredient struct {
	ProcessMS int64 `json:"process_ms"`
	CookMS    int64 `json:"cook_ms"`
}

type Recipe struct {
	Ingredients []string `json:"ingredients"`
	TimeLimitMS int64    `json:"time_limit_ms,omitempty"`
}

type Orders struct {
	SpawnIntervalMS     int64 `json:"spawn_interval_ms"`
	BaseTimeMS          int64 `json:"base_time_ms"`
	ExtraTimePerOrderMS int64 `json:"extra_time_per_order_ms"`
	MaxConcurrent       int   `json:"max_concurrent"`
}

type Appliance struct {
	Kind       string   `json:"kind"`
	Pos        Vec      `json:"pos"`
	Ingredient string   `json:"ingredient,omitempty"`
	Rack       *Vec     `json:"rack,omitempty"`
	ReturnTo   string   `json:"return_to,omitempty"`
	Stock      []string `json:"stock"`
}

type Actor struct {
	Pos Vec `json:"pos"`
}

// Engine is the simulation tuning.
type Engine struct {
	TickHz            int     `json:"tick_hz"`
	InteractionRadius float64 `json:"interaction_radius"`
	MoveSpeed         float64 `json:"move_speed"`
	DashMultiplier    float64 `json:"dash_multiplier"`
	Burn              bool    `json:"burn"`
	BurnMS            int64   `json:"burn_ms"`
	CleanMS           int64   `json:"clean_ms"`
	PlateReturnMS     int64   `json:"plate_return_ms"`
}

// Stock entries that are not ingredient names.
const (
	StockPlate      = "plate"
	StockDirtyPlate = "dirty_plate"
	StockPot        = "pot"
)

func ms(v int64) time.Duration { return time.Duration(v) * time.Millisecond }

// TickInterval is the fixed step length.
func (e Engine) TickInterval() time.Duration { return time.Second / time.Duration(e.TickHz) }

func (e Engine) BurnTime() time.Duration    { return ms(e.BurnMS) }
func (e Engine) CleanTime() time.Duration   { return ms(e.CleanMS) }
func (e Engine) PlateReturn() time.Duration { return ms(e.PlateReturnMS) }

// Catalogue converts the ingredient table.
func (l *Level) Catalogue() item.Catalogue {
	c := make(item.Catalogue, len(l.Ingredients))
	for name, ing := range l.Ingredients {
		t := item.Type(name)
		c[t] = item.Spec{Type: t, ProcessTime: ms(ing.ProcessMS), CookTime: ms(ing.CookMS)}
	}
	return c
}

// RecipeList converts the recipe table, sorted by name.
func (l *Level) RecipeList() []order.Recipe {
	out := make([]order.Recipe, 0, len(l.Recipes))
	for _, name := range sortedKeys(l.Recipes) {
		r := l.Recipes[name]
		types := make([]item.Type, len(r.Ingredients))
		for i, s := range r.Ingredients {
			types[i] = item.Type(s)
		}
		out = append(out, order.Recipe{Name: name, Ingredients: types, TimeLimit: ms(r.TimeLimitMS)})
	}
	return out
}

// OrderConfig converts the order tuning.
func (l *Level) OrderConfig() order.Config {
	return order.Config{
		SpawnInterval:       ms(l.Orders.SpawnIntervalMS),
		BaseTime:            ms(l.Orders.BaseTimeMS),
		ExtraTimePerOrder:   ms(l.Orders.ExtraTimePerOrderMS),
		MaxConcurrentOrders: l.Orders.MaxConcurrent,
	}
}

// ApplianceIDs lists appliance IDs in sorted order. The engine builds and
// ticks appliances in this order.
func (l *Level) ApplianceIDs() []string { return sortedKeys(l.Appliances) }

// ActorIDs lists actor IDs in sorted order.
func (l *Level) ActorIDs() []string { return sortedKeys(l.Actors) }

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
