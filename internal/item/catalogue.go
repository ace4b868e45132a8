package item

import (
	"fmt"
	"sort"

	"github.com/roach88/kitchen/internal/slot"
)

// Catalogue maps ingredient types to their static data.
type Catalogue map[Type]Spec

// Lookup returns the spec for t.
func (c Catalogue) Lookup(t Type) (Spec, bool) {
	s, ok := c[t]
	return s, ok
}

// Types returns the catalogue keys in sorted order.
func (c Catalogue) Types() []Type {
	out := make([]Type, 0, len(c))
	for t := range c {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Factory creates ingredients with deterministic IDs ("tomato-1", "tomato-2").
// It is the only place ingredients come into existence during a run.
type Factory struct {
	catalogue Catalogue
	counters  map[Type]int
}

// NewFactory creates a factory over catalogue.
func NewFactory(catalogue Catalogue) *Factory {
	return &Factory{catalogue: catalogue, counters: make(map[Type]int)}
}

// Make dispenses a fresh Raw ingredient of type t at pos.
func (f *Factory) Make(t Type, pos slot.Vec3) (*Ingredient, error) {
	spec, ok := f.catalogue.Lookup(t)
	if !ok {
		return nil, fmt.Errorf("unknown ingredient type %q", t)
	}
	f.counters[t]++
	return New(fmt.Sprintf("%s-%d", t, f.counters[t]), spec, pos), nil
}

// Reset restarts ID numbering.
func (f *Factory) Reset() {
	clear(f.counters)
}
