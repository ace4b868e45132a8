package appliance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/kitchen/internal/event"
	"github.com/roach88/kitchen/internal/item"
	"github.com/roach88/kitchen/internal/slot"
	"github.com/roach88/kitchen/internal/testutil"
)

func TestPlate_AcceptsProcessedUpToCapacity(t *testing.T) {
	rec := &testutil.Recorder{}
	plate := NewPlate("plate-1", slot.Vec3{}, false, rec)

	assert.False(t, plate.TryDropIntoSlot(raw("tomato-1", tomato)))
	for i := 0; i < PlateCapacity; i++ {
		require.True(t, plate.TryDropIntoSlot(processed("onion", onion)))
	}
	assert.False(t, plate.TryDropIntoSlot(processed("onion", onion)))

	assert.Len(t, plate.Ingredients(), PlateCapacity)
	reasons := []string{}
	for _, e := range rec.OfKind(event.PlateRejected) {
		reasons = append(reasons, e.String("reason"))
	}
	assert.Equal(t, []string{reasonUnprocessed, reasonFull}, reasons)
}

func TestPlate_DirtyRejectsEverything(t *testing.T) {
	rec := &testutil.Recorder{}
	plate := NewPlate("plate-1", slot.Vec3{}, false, rec)
	ing := processed("tomato-1", tomato)
	require.True(t, plate.TryDropIntoSlot(ing))

	plate.SetDirty(true)
	assert.True(t, ing.Destroyed(), "dirtying a plate discards its contents")
	assert.False(t, plate.TryDropIntoSlot(processed("tomato-2", tomato)))
	assert.Equal(t, reasonDirty, rec.OfKind(event.PlateRejected)[0].String("reason"))
}

func TestCookingPot_CooksOnStove(t *testing.T) {
	rec := &testutil.Recorder{}
	stove := NewStove("stove-1", slot.Vec3{}, rec)
	pot := NewCookingPot("pot-1", slot.Vec3{}, PotConfig{}, rec)

	assert.False(t, stove.TryDropIntoSlot(raw("tomato-1", tomato)), "empty stove only takes pots")
	require.True(t, stove.TryDropIntoSlot(pot))

	a, b := processed("tomato-1", tomato), processed("onion-1", onion)
	require.True(t, stove.TryDropIntoSlot(a), "stove forwards drops to its pot")
	require.True(t, stove.TryDropIntoSlot(b))
	assert.Equal(t, 2, rec.Count(event.PotIngredientAdded))
	assert.Equal(t, 5*time.Second, pot.CookTime())

	stove.Tick(4 * time.Second)
	assert.False(t, pot.Cooked())
	assert.InDelta(t, 0.8, pot.Progress(), 1e-9)

	stove.Tick(time.Second)
	assert.True(t, pot.Cooked())
	assert.Equal(t, item.Cooked, a.Status())
	assert.Equal(t, item.Cooked, b.Status())
	assert.Equal(t, 1, rec.Count(event.PotCookFinished))

	stove.Tick(time.Minute)
	assert.Equal(t, 0, rec.Count(event.PotBurned), "burning disabled")
}

func TestCookingPot_Burns(t *testing.T) {
	rec := &testutil.Recorder{}
	stove := NewStove("stove-1", slot.Vec3{}, rec)
	pot := NewCookingPot("pot-1", slot.Vec3{}, PotConfig{Burn: true, BurnTime: 2 * time.Second}, rec)
	require.True(t, stove.Seed(pot))
	require.True(t, pot.TryDropIntoSlot(processed("tomato-1", tomato)))

	stove.Tick(2 * time.Second)
	require.True(t, pot.Cooked())
	stove.Tick(time.Second)
	assert.False(t, pot.Burned())
	stove.Tick(time.Second)
	assert.True(t, pot.Burned())
	assert.Equal(t, 1, rec.Count(event.PotBurned))

	assert.False(t, pot.TryDropIntoSlot(processed("tomato-2", tomato)))
	assert.Equal(t, reasonBurned, rec.OfKind(event.PotRejected)[0].String("reason"))
}

func TestCookingPot_RulesAndCapacity(t *testing.T) {
	rec := &testutil.Recorder{}
	pot := NewCookingPot("pot-1", slot.Vec3{}, PotConfig{}, rec)

	assert.False(t, pot.TryDropIntoSlot(raw("tomato-1", tomato)))
	for i := 0; i < PotCapacity; i++ {
		require.True(t, pot.TryDropIntoSlot(processed("tomato", tomato)))
	}
	assert.False(t, pot.TryDropIntoSlot(processed("tomato", tomato)))
	assert.Equal(t, 2, rec.Count(event.PotRejected))
}

func TestCookingPot_OffStoveDoesNotCook(t *testing.T) {
	counter := NewCountertop("counter-1", slot.Vec3{}, nil)
	pot := NewCookingPot("pot-1", slot.Vec3{}, PotConfig{}, nil)
	require.True(t, counter.Seed(pot))
	require.True(t, pot.TryDropIntoSlot(processed("tomato-1", tomato)))

	// Countertops have no Tick; the pot only advances through a stove.
	_, ticks := any(counter).(slot.Ticker)
	assert.False(t, ticks)
	assert.False(t, pot.Cooked())
}

func TestPlate_PourCookedPot(t *testing.T) {
	stove := NewStove("stove-1", slot.Vec3{}, nil)
	pot := NewCookingPot("pot-1", slot.Vec3{}, PotConfig{}, nil)
	require.True(t, stove.Seed(pot))
	soup := processed("tomato-1", tomato)
	require.True(t, pot.TryDropIntoSlot(soup))
	stove.Tick(tomato.CookTime)

	plate := NewPlate("plate-1", slot.Vec3{}, false, nil)
	counter := NewCountertop("counter-1", slot.Vec3{}, nil)
	require.True(t, counter.Seed(plate))

	// Pouring leaves the pot in hand, so the drop reports false.
	assert.False(t, counter.TryDropIntoSlot(pot))
	assert.True(t, pot.Empty())
	assert.False(t, pot.Cooked())
	require.Len(t, plate.Ingredients(), 1)
	assert.Equal(t, item.Cooked, plate.Ingredients()[0].Status())
}

func TestCookingPot_PourOntoPlateInHand(t *testing.T) {
	pot := NewCookingPot("pot-1", slot.Vec3{}, PotConfig{}, nil)
	require.True(t, pot.TryDropIntoSlot(processed("tomato-1", tomato)))
	pot.Tick(tomato.CookTime)

	plate := NewPlate("plate-1", slot.Vec3{}, false, nil)
	assert.False(t, pot.TryDropIntoSlot(plate))
	assert.Len(t, plate.Ingredients(), 1)
	assert.True(t, pot.Empty())
}

func TestStove_PickupReturnsPot(t *testing.T) {
	rec := &testutil.Recorder{}
	stove := NewStove("stove-1", slot.Vec3{}, rec)
	assert.Nil(t, stove.TryPickUpFromSlot(nil))
	assert.Equal(t, 1, rec.Count(event.PickupRejected))

	pot := NewCookingPot("pot-1", slot.Vec3{}, PotConfig{}, nil)
	require.True(t, stove.Seed(pot))
	assert.Same(t, pot, stove.TryPickUpFromSlot(nil))
	assert.Nil(t, stove.Pot())
}
