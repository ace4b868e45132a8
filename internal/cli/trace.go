package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/kitchen/internal/event"
	"github.com/roach88/kitchen/internal/ir"
	"github.com/roach88/kitchen/internal/store"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Database string
	Session  string   // defaults to the latest session
	Kinds    []string // optional kind filter
}

// TraceEvent is one journaled event in the timeline.
type TraceEvent struct {
	Seq     int64     `json:"seq"`
	Tick    int64     `json:"tick"`
	Kind    string    `json:"kind"`
	ID      string    `json:"id"`
	Actor   string    `json:"actor,omitempty"`
	Subject string    `json:"subject,omitempty"`
	Payload ir.Object `json:"payload,omitempty"`
}

// TraceResult holds the complete trace output.
type TraceResult struct {
	Session  store.Session `json:"session"`
	Timeline []TraceEvent  `json:"timeline"`
	Stats    TraceStats    `json:"stats"`
}

// TraceStats summarises a session's journal.
type TraceStats struct {
	TotalEvents int            `json:"total_events"`
	LastTick    int64          `json:"last_tick"`
	Delivered   int            `json:"delivered"`
	Expired     int            `json:"expired"`
	Tips        int64          `json:"tips"`
	Kinds       map[string]int `json:"kinds"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Show the journaled events of a session",
		Long: `Show the event timeline of a journaled session.

The output includes:
- Timeline: events in seq order, optionally filtered by kind
- Stats: per-kind counts and order outcomes for the whole session

Without --session the most recently started session is shown.

Examples:
  kitchen trace --db ./kitchen.db
  kitchen trace --db ./kitchen.db --session 0192f3c4-...
  kitchen trace --db ./kitchen.db --kind order.delivered --kind order.expired
  kitchen trace --db ./kitchen.db --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite journal (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.Session, "session", "", "session to trace (default latest)")
	cmd.Flags().StringSliceVar(&opts.Kinds, "kind", nil, "only show events of this kind (repeatable)")

	return cmd
}

func runTrace(opts *TraceOptions, cmd *cobra.Command) error {
	ctx := context.Background()
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

	kinds := make([]event.Kind, len(opts.Kinds))
	for i, k := range opts.Kinds {
		kinds[i] = event.Kind(k)
	}
	records, err := st.ReadEvents(ctx, session.ID, kinds...)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read events", err)
	}

	stats, err := buildStats(ctx, st, session.ID)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to summarise session", err)
	}

	result := TraceResult{
		Session:  session,
		Timeline: buildTimeline(records),
		Stats:    stats,
	}

	if formatter.JSON() {
		return formatter.Encode(CLIResponse{Status: "ok", Data: result, Session: session.ID})
	}
	return outputTraceText(formatter.Writer, result, opts.Verbose)
}

// openJournal opens an existing journal; unlike store.Open it refuses to
// create a new database file.
func openJournal(path string) (*store.Store, error) {
	if path == "" || path == store.MemoryPath {
		return nil, NewExitError(ExitCommandError, "--db must name a journal file")
	}
	if !fileExists(path) {
		return nil, NewExitError(ExitCommandError, fmt.Sprintf("database not found: %s", path))
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	return st, nil
}

func resolveSession(ctx context.Context, st *store.Store, id string) (store.Session, error) {
	var (
		session store.Session
		err     error
	)
	if id == "" {
		session, err = st.LatestSession(ctx)
	} else {
		session, err = st.ReadSession(ctx, id)
	}
	switch {
	case errors.Is(err, store.ErrSessionNotFound):
		if id == "" {
			return session, NewExitError(ExitCommandError, "no sessions in database")
		}
		return session, NewExitError(ExitCommandError, fmt.Sprintf("session not found: %s", id))
	case err != nil:
		return session, WrapExitError(ExitCommandError, "failed to read session", err)
	}
	return session, nil
}

func buildTimeline(records []store.Record) []TraceEvent {
	timeline := make([]TraceEvent, 0, len(records))
	for _, r := range records {
		timeline = append(timeline, TraceEvent{
			Seq:     r.Seq,
			Tick:    r.Tick,
			Kind:    r.Kind,
			ID:      r.ID,
			Actor:   r.Actor,
			Subject: r.Subject,
			Payload: r.Payload,
		})
	}
	return timeline
}

func buildStats(ctx context.Context, st *store.Store, session string) (TraceStats, error) {
	kinds, err := st.CountByKind(ctx, session)
	if err != nil {
		return TraceStats{}, err
	}
	stats := TraceStats{Kinds: kinds, Expired: kinds[string(event.OrderExpired)]}
	for _, n := range kinds {
		stats.TotalEvents += n
	}

	deliveries, err := st.ReadEvents(ctx, session, event.OrderDelivered)
	if err != nil {
		return TraceStats{}, err
	}
	for _, r := range deliveries {
		if r.Subject == "" {
			continue
		}
		stats.Delivered++
		stats.Tips += r.Event().Int("tip")
	}

	all, err := st.ReadEvents(ctx, session)
	if err != nil {
		return TraceStats{}, err
	}
	if len(all) > 0 {
		stats.LastTick = all[len(all)-1].Tick
	}
	return stats, nil
}

func outputTraceText(w io.Writer, result TraceResult, verbose bool) error {
	fmt.Fprintf(w, "Trace for Session: %s\n", result.Session.ID)
	fmt.Fprintf(w, "Level: %s (seed %d)\n", result.Session.Level, result.Session.Seed)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "=== Timeline ===")
	if len(result.Timeline) == 0 {
		fmt.Fprintln(w, "  (no events)")
	}
	for _, ev := range result.Timeline {
		formatTimelineEvent(w, ev, verbose)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "=== Stats ===")
	fmt.Fprintf(w, "  Total Events: %d\n", result.Stats.TotalEvents)
	fmt.Fprintf(w, "  Last Tick:    %d\n", result.Stats.LastTick)
	fmt.Fprintf(w, "  Delivered:    %d\n", result.Stats.Delivered)
	fmt.Fprintf(w, "  Expired:      %d\n", result.Stats.Expired)
	fmt.Fprintf(w, "  Tips:         %d\n", result.Stats.Tips)
	for _, k := range sortedKinds(result.Stats.Kinds) {
		fmt.Fprintf(w, "  %-28s %d\n", k, result.Stats.Kinds[k])
	}
	return nil
}

func formatTimelineEvent(w io.Writer, ev TraceEvent, verbose bool) {
	var b strings.Builder
	fmt.Fprintf(&b, "  [%d@%d] %s", ev.Seq, ev.Tick, ev.Kind)
	if ev.Subject != "" {
		fmt.Fprintf(&b, " %s", ev.Subject)
	}
	if ev.Actor != "" && ev.Actor != ev.Subject {
		fmt.Fprintf(&b, " by %s", ev.Actor)
	}
	fmt.Fprintln(w, b.String())

	if verbose {
		if len(ev.Payload) > 0 {
			data, _ := ir.MarshalCanonical(ev.Payload)
			fmt.Fprintf(w, "       Payload: %s\n", data)
		}
		fmt.Fprintf(w, "       ID: %s\n", truncateID(ev.ID))
	}
}

// truncateID truncates a long ID for display.
func truncateID(id string) string {
	if len(id) <= 16 {
		return id
	}
	return id[:8] + "..." + id[len(id)-8:]
}

func sortedKinds(kinds map[string]int) []string {
	keys := make([]string, 0, len(kinds))
	for k := range kinds {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
