package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/roach88/kitchen/internal/testutil"
)

// testLevel spawns an order every second and lets each wait two, so a few
// seconds of headless running produce spawns and expiries.
const testLevel = `
name: "cli-kitchen"
seed: 5

ingredients: {
	tomato: {process_ms: 300}
	onion: {process_ms: 300}
}

recipes: {
	salad: ingredients: ["tomato", "onion"]
	soup: ingredients: ["tomato"]
}

orders: {
	spawn_interval_ms:       1000
	base_time_ms:            2000
	extra_time_per_order_ms: 0
	max_concurrent:          3
}

appliances: {
	"crate-tomato": {kind: "crate", pos: {z: 2}, ingredient: "tomato"}
	"board": {kind: "chopping_board", pos: {x: 2}}
	"counter": {kind: "countertop", pos: {x: -2}, stock: ["plate"]}
	"delivery": {kind: "delivery", pos: {z: -2}, return_to: "return"}
	"return": {kind: "plate_return", pos: {x: 6, z: -6}}
}

actors: chef: pos: {}

engine: tick_hz: 10
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func writeTestLevel(t *testing.T, dir string) string {
	t.Helper()
	return writeFile(t, dir, "level.cue", testLevel)
}

// execute runs cmd with args and returns everything it printed.
func execute(cmd *cobra.Command, args ...string) (string, error) {
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

// recordSession runs the test level headless into a journal file and
// returns the database path.
func recordSession(t *testing.T, dir, session string, ticks string) string {
	t.Helper()
	levelPath := writeTestLevel(t, dir)
	dbPath := filepath.Join(dir, "kitchen.db")

	opts := &RunOptions{
		RootOptions:      &RootOptions{Format: "text"},
		SessionGenerator: testutil.NewFixedSessionGenerator(session),
	}
	_, err := execute(newRunCommand(opts), "--db", dbPath, "--ticks", ticks, levelPath)
	require.NoError(t, err)
	return dbPath
}
