package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/kitchen/internal/engine"
	"github.com/roach88/kitchen/internal/event"
	"github.com/roach88/kitchen/internal/level"
	"github.com/roach88/kitchen/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Database string
	Ticks    int
	Seed     uint64
	Realtime bool

	// SessionGenerator overrides the UUIDv7 session IDs (for testing).
	SessionGenerator engine.SessionGenerator
}

// RunSummary is the outcome of a headless run.
type RunSummary struct {
	Session   string         `json:"session"`
	Level     string         `json:"level"`
	Seed      uint64         `json:"seed"`
	Ticks     int64          `json:"ticks"`
	Events    int            `json:"events"`
	Spawned   int            `json:"spawned"`
	Delivered int            `json:"delivered"`
	Expired   int            `json:"expired"`
	Tips      int64          `json:"tips"`
	Pending   int            `json:"pending"`
	Kinds     map[string]int `json:"kinds"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	return newRunCommand(&RunOptions{RootOptions: rootOpts})
}

func newRunCommand(opts *RunOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <level>",
		Short: "Run a level headless",
		Long: `Run a level without a renderer or input device.

Order generation starts immediately and the engine steps at the level's
tick rate. By default the steps run back to back; --realtime paces them on
a wall-clock ticker and stops on Ctrl-C.

Every event is journaled to the SQLite database given by --db (in memory
when omitted) under a fresh session ID.

Examples:
  kitchen run ./levels/salad.cue --ticks 3000
  kitchen run ./levels/salad.cue --db ./kitchen.db --seed 7
  kitchen run ./levels/salad.cue --realtime --ticks 0`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLevel(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite journal (default in-memory)")
	cmd.Flags().IntVar(&opts.Ticks, "ticks", 3000, "number of steps to run (0 with --realtime runs until interrupted)")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", 0, "recipe seed (defaults to the level seed)")
	cmd.Flags().BoolVar(&opts.Realtime, "realtime", false, "pace steps on a wall-clock ticker")

	return cmd
}

func runLevel(opts *RunOptions, path string, cmd *cobra.Command) error {
	setupLogging(opts.RootOptions, cmd.ErrOrStderr())
	formatter := newFormatter(opts.RootOptions, cmd)

	if opts.Ticks < 0 {
		return NewExitError(ExitCommandError, fmt.Sprintf("--ticks must be non-negative, got %d", opts.Ticks))
	}
	if opts.Ticks == 0 && !opts.Realtime {
		return NewExitError(ExitCommandError, "--ticks 0 requires --realtime")
	}

	lvl, errs := level.Load(path)
	if len(errs) > 0 {
		return WrapExitError(ExitCommandError, "failed to load level", errs[0])
	}
	formatter.VerboseLog("Loaded level %s (%d appliances, %d actors)", lvl.Name, len(lvl.Appliances), len(lvl.Actors))

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	engOpts := []engine.Option{engine.WithJournal(st)}
	if opts.SessionGenerator != nil {
		engOpts = append(engOpts, engine.WithSessionGenerator(opts.SessionGenerator))
	}
	if cmd.Flags().Changed("seed") {
		engOpts = append(engOpts, engine.WithSeed(opts.Seed))
	}
	if opts.Realtime {
		engOpts = append(engOpts, engine.WithTickLimit(int64(opts.Ticks)))
	}
	eng, err := engine.New(lvl, engOpts...)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to build engine", err)
	}

	stats := newRunStats(eng.Bus())

	if opts.Realtime {
		if err := runRealtime(cmd.Context(), eng); err != nil {
			return WrapExitError(ExitFailure, "engine error", err)
		}
	} else {
		eng.Start()
		for i := 0; i < opts.Ticks; i++ {
			eng.Step(eng.Interval())
		}
	}

	summary := stats.summary(eng)
	if formatter.JSON() {
		return formatter.Encode(CLIResponse{Status: "ok", Data: summary, Session: summary.Session})
	}
	return outputRunText(formatter, summary)
}

// runRealtime drives the engine's own loop until its tick limit is reached
// or the process is interrupted.
func runRealtime(parent context.Context, eng *engine.Engine) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := eng.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// runStats tallies bus events for the run summary.
type runStats struct {
	kinds     map[string]int
	events    int
	delivered int
	tips      int64
}

func newRunStats(bus *event.Bus) *runStats {
	s := &runStats{kinds: make(map[string]int)}
	bus.SubscribeAll(func(e event.Event) {
		s.events++
		s.kinds[string(e.Kind)]++
	})
	bus.Subscribe(event.OrderDelivered, func(e event.Event) {
		if e.Subject == "" {
			return
		}
		s.delivered++
		s.tips += e.Int("tip")
	})
	return s
}

func (s *runStats) summary(eng *engine.Engine) RunSummary {
	return RunSummary{
		Session:   eng.Session(),
		Level:     eng.Level().Name,
		Seed:      eng.Seed(),
		Ticks:     eng.Tick(),
		Events:    s.events,
		Spawned:   s.kinds[string(event.OrderSpawned)],
		Delivered: s.delivered,
		Expired:   s.kinds[string(event.OrderExpired)],
		Tips:      s.tips,
		Pending:   len(eng.Orders().Snapshot()),
		Kinds:     s.kinds,
	}
}

func outputRunText(f *OutputFormatter, s RunSummary) error {
	w := f.Writer
	fmt.Fprintf(w, "Session: %s\n", s.Session)
	fmt.Fprintf(w, "Level:   %s (seed %d)\n", s.Level, s.Seed)
	fmt.Fprintf(w, "Ticks:   %d\n", s.Ticks)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "=== Orders ===")
	fmt.Fprintf(w, "  Spawned:   %d\n", s.Spawned)
	fmt.Fprintf(w, "  Delivered: %d\n", s.Delivered)
	fmt.Fprintf(w, "  Expired:   %d\n", s.Expired)
	fmt.Fprintf(w, "  Pending:   %d\n", s.Pending)
	fmt.Fprintf(w, "  Tips:      %d\n", s.Tips)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Events journaled: %d\n", s.Events)
	if f.Verbose {
		for _, k := range sortedKinds(s.Kinds) {
			fmt.Fprintf(w, "  %-28s %d\n", k, s.Kinds[k])
		}
	}
	return nil
}
