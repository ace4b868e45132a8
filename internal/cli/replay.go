package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/kitchen/internal/engine"
	"github.com/roach88/kitchen/internal/event"
	"github.com/roach88/kitchen/internal/level"
	"github.com/roach88/kitchen/internal/store"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Database string
	Session  string // defaults to the latest session
}

// Divergence is the first point where a replay departs from the journal.
type Divergence struct {
	Seq      int64  `json:"seq"`
	Expected string `json:"expected"`
	Actual   string `json:"actual"`
	Reason   string `json:"reason"`
}

const (
	reasonReplay  = "replayed event differs"
	reasonJournal = "journaled event does not match its id"
)

// ReplayResult holds the outcome of re-simulating a session.
type ReplayResult struct {
	Session       string      `json:"session"`
	Level         string      `json:"level"`
	Seed          uint64      `json:"seed"`
	Ticks         int64       `json:"ticks"`
	Recorded      int         `json:"recorded"`
	Replayed      int         `json:"replayed"`
	Deterministic bool        `json:"deterministic"`
	Divergence    *Divergence `json:"divergence,omitempty"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay <level>",
		Short: "Re-simulate a journaled session and verify determinism",
		Long: `Re-simulate a journaled headless session and compare event IDs.

The level is rebuilt with the session's seed and session ID and stepped
up to the last journaled tick. Every event ID is a content hash of
(session, seq, tick, kind, actor, subject, payload), so an identical
sequence of IDs means the run reproduced exactly. Each journaled row is
also re-hashed, so a row edited after it was written is reported even
when its stored ID still matches. Sessions that were driven by player input cannot
be reproduced this way and report the first divergence.

Exit codes:
  0 - Replay matches the journal
  1 - Replay diverged
  2 - Command error (database or session not found, level mismatch, etc.)

Examples:
  kitchen replay ./levels/salad.cue --db ./kitchen.db
  kitchen replay ./levels/salad.cue --db ./kitchen.db --session 0192f3c4-...`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite journal (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.Session, "session", "", "session to replay (default latest)")

	return cmd
}

func runReplay(opts *ReplayOptions, levelPath string, cmd *cobra.Command) error {
	ctx := context.Background()
	setupLogging(opts.RootOptions, cmd.ErrOrStderr())
	formatter := newFormatter(opts.RootOptions, cmd)

	st, err := openJournal(opts.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	session, err := resolveSession(ctx, st, opts.Session)
	if err != nil {
		return err
	}

	lvl, errs := level.Load(levelPath)
	if len(errs) > 0 {
		return WrapExitError(ExitCommandError, "failed to load level", errs[0])
	}
	if lvl.Name != session.Level {
		return NewExitError(ExitCommandError,
			fmt.Sprintf("session %s was recorded on level %q, not %q", session.ID, session.Level, lvl.Name))
	}

	records, err := st.ReadEvents(ctx, session.ID)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read events", err)
	}

	result, err := replaySession(session, lvl, records)
	if err != nil {
		return WrapExitError(ExitCommandError, "replay failed", err)
	}
	formatter.VerboseLog("replayed %d ticks, %d events", result.Ticks, result.Replayed)

	if formatter.JSON() {
		resp := CLIResponse{Status: "ok", Data: result, Session: result.Session}
		if !result.Deterministic {
			resp.Status = "error"
			resp.Error = &CLIError{Code: ErrCodeNondeterminism, Message: "replay diverged from journal"}
		}
		if err := formatter.Encode(resp); err != nil {
			return err
		}
	} else {
		outputReplayText(formatter, result)
	}

	if !result.Deterministic {
		return NewExitError(ExitFailure, fmt.Sprintf("session %s diverged at seq %d", result.Session, result.Divergence.Seq))
	}
	return nil
}

// replaySession rebuilds the session's engine, steps it to the last
// journaled tick and compares event IDs in seq order.
func replaySession(session store.Session, lvl *level.Level, records []store.Record) (ReplayResult, error) {
	result := ReplayResult{
		Session:  session.ID,
		Level:    session.Level,
		Seed:     session.Seed,
		Recorded: len(records),
	}
	if len(records) > 0 {
		result.Ticks = records[len(records)-1].Tick
	}

	eng, err := engine.New(lvl,
		engine.WithSessionGenerator(engine.NewFixedGenerator(session.ID)),
		engine.WithSeed(session.Seed))
	if err != nil {
		return result, err
	}

	var replayed []event.Event
	eng.Bus().SubscribeAll(func(e event.Event) {
		replayed = append(replayed, e)
	})
	eng.Start()
	for eng.Tick() < result.Ticks {
		eng.Step(eng.Interval())
	}
	result.Replayed = len(replayed)

	for i := 0; i < max(len(records), len(replayed)); i++ {
		var expected, actual string
		var seq int64
		if i < len(records) {
			expected = records[i].ID
			seq = records[i].Seq
			id, err := records[i].Event().ID(session.ID)
			if err != nil {
				return result, fmt.Errorf("hash journaled event %d: %w", seq, err)
			}
			if id != expected {
				result.Divergence = &Divergence{Seq: seq, Expected: expected, Actual: id, Reason: reasonJournal}
				return result, nil
			}
		}
		if i < len(replayed) {
			id, err := replayed[i].ID(session.ID)
			if err != nil {
				return result, fmt.Errorf("hash replayed event %d: %w", replayed[i].Seq, err)
			}
			actual = id
			seq = replayed[i].Seq
		}
		if expected != actual {
			result.Divergence = &Divergence{Seq: seq, Expected: expected, Actual: actual, Reason: reasonReplay}
			return result, nil
		}
	}
	result.Deterministic = true
	return result, nil
}

func outputReplayText(f *OutputFormatter, result ReplayResult) {
	w := f.Writer
	fmt.Fprintf(w, "Session: %s\n", result.Session)
	fmt.Fprintf(w, "Level:   %s (seed %d)\n", result.Level, result.Seed)
	fmt.Fprintf(w, "Ticks:   %d\n", result.Ticks)
	fmt.Fprintf(w, "Events:  %d recorded, %d replayed\n", result.Recorded, result.Replayed)
	fmt.Fprintln(w)

	if result.Deterministic {
		fmt.Fprintln(w, "✓ Replay matches journal")
		return
	}
	d := result.Divergence
	fmt.Fprintf(w, "✗ Diverged at seq %d: %s\n", d.Seq, d.Reason)
	fmt.Fprintf(w, "  Expected: %s\n", orNone(truncateID(d.Expected)))
	fmt.Fprintf(w, "  Actual:   %s\n", orNone(truncateID(d.Actual)))
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
