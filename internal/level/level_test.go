package level

import (
	"errors"
	"testing"
	"time"

	"cuelang.org/go/cue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/kitchen/internal/item"
	"github.com/roach88/kitchen/internal/slot"
)

func TestLoad_File(t *testing.T) {
	lvl, errs := Load("testdata/salad.cue")
	require.Empty(t, errs)

	assert.Equal(t, "salad-bar", lvl.Name)
	assert.Equal(t, uint64(7), lvl.Seed)
	assert.Equal(t, "testdata/salad.cue", lvl.Source)

	cat := lvl.Catalogue()
	assert.Equal(t, item.Spec{Type: "tomato", ProcessTime: time.Second, CookTime: 2 * time.Second}, cat["tomato"])
	assert.Equal(t, 1500*time.Millisecond, cat["onion"].ProcessTime)
	assert.Equal(t, 5*time.Second, cat["onion"].CookTime, "default cook time")
	assert.Equal(t, 3*time.Second, cat["lettuce"].ProcessTime, "default process time")

	recipes := lvl.RecipeList()
	require.Len(t, recipes, 2)
	assert.Equal(t, "greens", recipes[0].Name)
	assert.Equal(t, 45*time.Second, recipes[0].TimeLimit)
	assert.Equal(t, []item.Type{"tomato", "onion"}, recipes[1].Ingredients)

	cfg := lvl.OrderConfig()
	assert.Equal(t, 20*time.Second, cfg.SpawnInterval)
	assert.Equal(t, 60*time.Second, cfg.BaseTime)
	assert.Equal(t, 20*time.Second, cfg.ExtraTimePerOrder)
	assert.Equal(t, 3, cfg.MaxConcurrentOrders)

	assert.Equal(t, []string{"board-1", "counter-1", "crate-onion", "crate-tomato", "delivery", "return", "sink"}, lvl.ApplianceIDs())
	assert.Equal(t, []string{"plate"}, lvl.Appliances["counter-1"].Stock)
	assert.Empty(t, lvl.Appliances["board-1"].Stock)
	require.NotNil(t, lvl.Appliances["sink"].Rack)
	assert.Equal(t, slot.Vec3{X: 7, Z: 1}, lvl.Appliances["sink"].Rack.Vec3())

	assert.Equal(t, []string{"chef"}, lvl.ActorIDs())
	assert.Equal(t, slot.Vec3{X: 2, Z: 1}, lvl.Actors["chef"].Pos.Vec3())

	assert.Equal(t, 50, lvl.Engine.TickHz)
	assert.Equal(t, 20*time.Millisecond, lvl.Engine.TickInterval())
	assert.InDelta(t, 1.5, lvl.Engine.InteractionRadius, 1e-9)
	assert.False(t, lvl.Engine.Burn)
	assert.Equal(t, 3*time.Second, lvl.Engine.CleanTime())
	assert.Equal(t, 5*time.Second, lvl.Engine.PlateReturn())
}

func TestLoad_Directory(t *testing.T) {
	lvl, errs := Load("testdata/split")
	require.Empty(t, errs)
	assert.Equal(t, "split", lvl.Name)
	assert.Equal(t, []string{"counter-1"}, lvl.ApplianceIDs())
}

func TestLoad_Missing(t *testing.T) {
	_, errs := Load("testdata/nope.cue")
	require.Len(t, errs, 1)

	var le *LoadError
	require.True(t, errors.As(errs[0], &le))
	assert.Equal(t, ErrCodeNotFound, le.Code)
}

func TestLoad_EmptyDirectory(t *testing.T) {
	_, errs := Load("testdata/empty")
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), ErrCodeNoFiles)
}

func TestParse_SchemaViolation(t *testing.T) {
	_, errs := Parse([]byte(`
name: "bad"
ingredients: tomato: process_ms: -5
recipes: r: ingredients: ["tomato"]
actors: chef: pos: {}
`), "bad.cue")
	require.NotEmpty(t, errs)

	var le *LoadError
	require.True(t, errors.As(errs[0], &le))
	assert.Equal(t, ErrCodeSchema, le.Code)
}

func TestParse_UnknownApplianceKind(t *testing.T) {
	_, errs := Parse([]byte(`
name: "bad"
recipes: r: ingredients: ["tomato"]
ingredients: tomato: {}
appliances: a: {kind: "oven", pos: {}}
actors: chef: pos: {}
`), "bad.cue")
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0].Error(), ErrCodeSchema)
}

func TestParse_SyntaxError(t *testing.T) {
	_, errs := Parse([]byte(`name: "unterminated`), "broken.cue")
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), ErrCodeBuildFailed)
}

func TestParse_SemanticErrorsCollected(t *testing.T) {
	lvl, errs := Parse([]byte(`
name: "refs"
ingredients: tomato: {}
recipes: soup: ingredients: ["tomato", "leek"]
appliances: {
	crate: {kind: "crate", pos: {}}
	"crate-2": {kind: "crate", pos: {}, ingredient: "durian"}
	delivery: {kind: "delivery", pos: {}, return_to: "crate"}
	stove: {kind: "stove", pos: {}, stock: ["plate"]}
	board: {kind: "chopping_board", pos: {}, stock: ["caviar"]}
}
actors: chef: pos: {}
`), "refs.cue")
	require.NotNil(t, lvl, "semantic errors still return the decoded level")

	codes := make([]string, 0, len(errs))
	for _, err := range errs {
		var le *LoadError
		require.True(t, errors.As(err, &le))
		codes = append(codes, le.Code)
	}
	assert.ElementsMatch(t, []string{
		ErrCodeUnknownType, // recipe soup: leek
		ErrCodeStock,       // board: caviar
		ErrCodeCrate,       // crate: no ingredient
		ErrCodeUnknownType, // crate-2: durian
		ErrCodeReturnTarget,
		ErrCodeStock, // stove: plate
	}, codes)
}

func TestCheck_NoRecipesNoActors(t *testing.T) {
	errs := Check(&Level{Name: "bare"}, cueValueAbsent())
	require.Len(t, errs, 2)
	assert.Contains(t, errs[0].Error(), ErrCodeNoRecipes)
	assert.Contains(t, errs[1].Error(), ErrCodeNoActors)
}

func TestLoadError_Format(t *testing.T) {
	err := &LoadError{Code: ErrCodeStock, Message: "boom"}
	assert.Equal(t, "E204: boom", err.Error())
}

func cueValueAbsent() cue.Value { return cue.Value{} }
