package order

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

var (
	salad  = Recipe{Name: "salad", Ingredients: []item.Type{"tomato", "onion"}}
	single = Recipe{Name: "tomato", Ingredients: []item.Type{"tomato"}}
)

func testConfig() Config {
	return Config{
		SpawnInterval:       15 * time.Second,
		BaseTime:            10 * time.Second,
		ExtraTimePerOrder:   20 * time.Second,
		MaxConcurrentOrders: 5,
	}
}

func newManager(t *testing.T, cfg Config, recipes ...Recipe) (*Manager, *testutil.Recorder) {
	t.Helper()
	bus := event.NewBus(nil)
	rec := testutil.NewRecorder(bus)
	return NewManager(cfg, recipes, bus, WithPicker(func(int) int { return 0 })), rec
}

func plate(types ...item.Type) []*item.Ingredient {
	out := make([]*item.Ingredient, len(types))
	for i, t := range types {
		out[i] = item.NewWithStatus(string(t), item.Spec{Type: t}, slot.Vec3{}, item.Processed)
	}
	return out
}

func TestManager_DeliveryScenario(t *testing.T) {
	m, rec := newManager(t, testConfig(), salad)
	m.Start()
	require.Len(t, m.Active(), 1)
	poolBefore := m.PoolSize()

	m.Tick(2 * time.Second)
	assert.InDelta(t, 0.8, m.Active()[0].Ratio(), 1e-9)

	assert.True(t, m.CheckIngredientsMatchOrder(plate("onion", "tomato")))

	delivered := rec.OfKind(event.OrderDelivered)
	require.Len(t, delivered, 1)
	assert.Equal(t, int64(6), delivered[0].Int("tip"))
	assert.Equal(t, "order-1", delivered[0].Subject)
	assert.Empty(t, m.Active())
	assert.Equal(t, poolBefore+1, m.PoolSize())

	kinds := rec.Kinds()
	assert.Equal(t, []event.Kind{event.OrderSpawned, event.OrderDelivered, event.OrderRegroup}, kinds)
}

func TestManager_SingleExpiry(t *testing.T) {
	cfg := testConfig()
	cfg.BaseTime = 3 * time.Second
	cfg.SpawnInterval = time.Hour
	m, rec := newManager(t, cfg, single)
	m.Start()

	for i := 0; i < 10; i++ {
		m.Tick(time.Second)
	}

	expired := rec.OfKind(event.OrderExpired)
	require.Len(t, expired, 1)
	assert.Equal(t, "order-1", expired[0].Subject)
	assert.Equal(t, int64(0), expired[0].Int("remaining_ms"))
	assert.Equal(t, 0, rec.Count(event.OrderDelivered))
	assert.Empty(t, m.Active())
	assert.Equal(t, 1, m.PoolSize())
}

func TestManager_RemainingStaysInBounds(t *testing.T) {
	m, _ := newManager(t, testConfig(), salad, single)
	m.Start()

	steps := []time.Duration{
		300 * time.Millisecond, 7 * time.Second, 16 * time.Millisecond,
		15 * time.Second, 45 * time.Second, time.Millisecond, 2 * time.Minute,
	}
	for _, dt := range steps {
		m.Tick(dt)
		for _, o := range m.Active() {
			assert.GreaterOrEqual(t, o.Remaining(), time.Duration(0))
			assert.LessOrEqual(t, o.Remaining(), o.InitialRemaining())
			assert.False(t, o.Delivered())
		}
	}
}

func TestManager_EmptyDelivery(t *testing.T) {
	m, rec := newManager(t, testConfig(), salad)
	m.Start()

	assert.False(t, m.CheckIngredientsMatchOrder(nil))
	assert.False(t, m.CheckIngredientsMatchOrder([]*item.Ingredient{}))

	delivered := rec.OfKind(event.OrderDelivered)
	require.Len(t, delivered, 2)
	for _, e := range delivered {
		assert.Equal(t, "", e.Subject)
		assert.Equal(t, int64(-1), e.Int("tip"))
	}
	assert.Len(t, m.Active(), 1)
	assert.Equal(t, 0, m.PoolSize())
}

func TestManager_NoMatchIsSilent(t *testing.T) {
	m, rec := newManager(t, testConfig(), salad)
	m.Start()
	rec.Reset()

	assert.False(t, m.CheckIngredientsMatchOrder(plate("tomato")))
	assert.False(t, m.CheckIngredientsMatchOrder(plate("tomato", "lettuce")))
	assert.Empty(t, rec.Events())
	assert.Len(t, m.Active(), 1)
}

func TestManager_EarliestArrivalFirstAndNeverTwice(t *testing.T) {
	m, rec := newManager(t, testConfig(), single)
	_, err := m.SpawnRecipe("tomato")
	require.NoError(t, err)
	m.Tick(time.Second)
	_, err = m.SpawnRecipe("tomato")
	require.NoError(t, err)

	assert.True(t, m.CheckIngredientsMatchOrder(plate("tomato")))
	assert.True(t, m.CheckIngredientsMatchOrder(plate("tomato")))
	assert.False(t, m.CheckIngredientsMatchOrder(plate("tomato")))

	delivered := rec.OfKind(event.OrderDelivered)
	require.Len(t, delivered, 2)
	assert.Equal(t, "order-1", delivered[0].Subject)
	assert.Equal(t, "order-2", delivered[1].Subject)
}

func TestManager_InitialTimeGrowsWithQueue(t *testing.T) {
	m, rec := newManager(t, testConfig(), salad)
	for i := 0; i < 3; i++ {
		_, err := m.SpawnRecipe("salad")
		require.NoError(t, err)
	}

	var got []time.Duration
	for _, o := range m.Active() {
		got = append(got, o.InitialRemaining())
	}
	assert.Equal(t, []time.Duration{10 * time.Second, 30 * time.Second, 50 * time.Second}, got)
	assert.Equal(t, int64(2), rec.OfKind(event.OrderSpawned)[2].Int("index"))
}

func TestManager_RecipeTimeLimitOverridesBase(t *testing.T) {
	soup := Recipe{Name: "soup", Ingredients: []item.Type{"onion"}, TimeLimit: 90 * time.Second}
	m, _ := newManager(t, testConfig(), soup)
	o, err := m.SpawnRecipe("soup")
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, o.InitialRemaining())
}

func TestManager_RespectsCapacity(t *testing.T) {
	cfg := testConfig()
	cfg.MaxConcurrentOrders = 2
	cfg.BaseTime = time.Hour
	m, _ := newManager(t, cfg, salad)
	m.Start()

	m.Tick(15 * time.Second)
	m.Tick(15 * time.Second)
	m.Tick(15 * time.Second)
	assert.Len(t, m.Active(), 2)

	_, err := m.SpawnRecipe("salad")
	assert.Error(t, err)
	_, err = m.SpawnRecipe("pizza")
	assert.Error(t, err)
}

func TestManager_SpawnsOnInterval(t *testing.T) {
	cfg := testConfig()
	cfg.BaseTime = time.Hour
	m, rec := newManager(t, cfg, salad)
	m.Start()

	m.Tick(14 * time.Second)
	assert.Equal(t, 1, rec.Count(event.OrderSpawned))
	m.Tick(time.Second)
	assert.Equal(t, 2, rec.Count(event.OrderSpawned))
	m.Tick(30 * time.Second)
	assert.Equal(t, 4, rec.Count(event.OrderSpawned), "a long tick catches up")
}

func TestManager_PauseResume(t *testing.T) {
	cfg := testConfig()
	cfg.BaseTime = time.Hour
	m, rec := newManager(t, cfg, salad)
	m.Start()

	m.Pause()
	m.Tick(time.Minute)
	assert.Equal(t, 1, rec.Count(event.OrderSpawned))
	assert.Less(t, m.Active()[0].Remaining(), time.Hour, "countdown continues while paused")

	m.Resume()
	m.Tick(15 * time.Second)
	assert.Equal(t, 2, rec.Count(event.OrderSpawned))
}

func TestManager_Reset(t *testing.T) {
	cfg := testConfig()
	cfg.BaseTime = time.Hour
	m, rec := newManager(t, cfg, salad)
	m.Start()
	m.Tick(15 * time.Second)
	require.Len(t, m.Active(), 2)
	old := m.Active()

	m.Reset()

	for _, o := range old {
		assert.True(t, o.Delivered() || o == m.Active()[0])
	}
	cleared := rec.OfKind(event.OrderCleared)
	require.Len(t, cleared, 1)
	assert.Equal(t, int64(2), cleared[0].Int("count"))
	assert.Equal(t, 0, rec.Count(event.OrderDelivered), "reset pays nothing")
	assert.Equal(t, 0, rec.Count(event.OrderExpired))

	assert.True(t, m.Generating())
	require.Len(t, m.Active(), 1, "spawning restarts immediately")
	assert.Equal(t, 1, m.PoolSize())
	assert.False(t, m.Active()[0].Delivered())
}

func TestManager_StopAndClear(t *testing.T) {
	m, rec := newManager(t, testConfig(), salad)
	m.Start()
	m.StopAndClear()

	assert.Empty(t, m.Active())
	assert.False(t, m.Generating())
	m.Tick(time.Minute)
	assert.Equal(t, 1, rec.Count(event.OrderSpawned))
}

func TestManager_SeededPickerIsDeterministic(t *testing.T) {
	recipes := []Recipe{salad, single, {Name: "soup", Ingredients: []item.Type{"onion"}}}
	pick := func() []string {
		cfg := testConfig()
		cfg.MaxConcurrentOrders = 20
		cfg.BaseTime = time.Hour
		m := NewManager(cfg, recipes, nil, WithSeed(42))
		m.Start()
		for i := 0; i < 10; i++ {
			m.Tick(15 * time.Second)
		}
		var names []string
		for _, o := range m.Active() {
			names = append(names, o.Recipe())
		}
		return names
	}

	first := pick()
	assert.Len(t, first, 11)
	assert.Equal(t, first, pick())
}

func TestManager_NoRecipesNoOps(t *testing.T) {
	m, rec := newManager(t, testConfig())
	m.Start()
	m.Tick(time.Minute)
	assert.Empty(t, m.Active())
	assert.Empty(t, rec.Events())
}

func TestManager_Snapshot(t *testing.T) {
	m, _ := newManager(t, testConfig(), salad)
	m.Start()
	m.Tick(time.Second)

	snap := m.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, View{
		ID:          "order-1",
		Recipe:      "salad",
		Ingredients: []item.Type{"tomato", "onion"},
		Remaining:   9 * time.Second,
		Initial:     10 * time.Second,
	}, snap[0])
}
