package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/kitchen/internal/event"
	"github.com/roach88/kitchen/internal/ir"
)

func TestWriteEvent_RoundTrip(t *testing.T) {
	s := createTestSession(t, "session-1")
	ctx := context.Background()

	e := event.Event{
		Seq:     3,
		Tick:    12,
		Kind:    event.OrderDelivered,
		Actor:   "chef",
		Subject: "order-1",
		Payload: ir.Object{
			"tip":         ir.Int(6),
			"recipe":      ir.String("salad"),
			"ingredients": ir.Strings([]string{"tomato", "onion"}),
		},
	}
	require.NoError(t, s.WriteEvent(ctx, "session-1", e))

	records, err := s.ReadEvents(ctx, "session-1")
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Len(t, rec.ID, 64)
	assert.Equal(t, "session-1", rec.Session)
	assert.Equal(t, e, rec.Event())
}

func TestWriteEvent_Idempotent(t *testing.T) {
	s := createTestSession(t, "session-1")
	ctx := context.Background()

	e := createTestEvent(1, event.OrderSpawned, "order-1")
	require.NoError(t, s.WriteEvent(ctx, "session-1", e))
	require.NoError(t, s.WriteEvent(ctx, "session-1", e), "duplicate write should be silently ignored")

	records, err := s.ReadEvents(ctx, "session-1")
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestWriteEvent_UnknownSession(t *testing.T) {
	s := createTestStore(t)

	err := s.WriteEvent(context.Background(), "missing", createTestEvent(1, event.OrderSpawned, "order-1"))
	assert.Error(t, err, "foreign key should reject events for unknown sessions")
}

func TestWriteEvent_RejectsNullPayload(t *testing.T) {
	s := createTestSession(t, "session-1")

	e := createTestEvent(1, event.ChopProgress, "board")
	e.Payload = ir.Object{"order": ir.Value(nil)}
	assert.Error(t, s.WriteEvent(context.Background(), "session-1", e))
}

func TestReadEvents_OrderedBySeq(t *testing.T) {
	s := createTestSession(t, "session-1")
	ctx := context.Background()

	for _, seq := range []int64{3, 1, 2} {
		require.NoError(t, s.WriteEvent(ctx, "session-1", createTestEvent(seq, event.OrderSpawned, "order")))
	}

	records, err := s.ReadEvents(ctx, "session-1")
	require.NoError(t, err)
	require.Len(t, records, 3)
	for i, rec := range records {
		assert.Equal(t, int64(i+1), rec.Seq)
	}
}

func TestReadEvents_FilterByKind(t *testing.T) {
	s := createTestSession(t, "session-1")
	ctx := context.Background()

	require.NoError(t, s.WriteEvent(ctx, "session-1", createTestEvent(1, event.OrderSpawned, "order-1")))
	require.NoError(t, s.WriteEvent(ctx, "session-1", createTestEvent(2, event.ChopStart, "board")))
	require.NoError(t, s.WriteEvent(ctx, "session-1", createTestEvent(3, event.OrderExpired, "order-1")))

	records, err := s.ReadEvents(ctx, "session-1", event.OrderSpawned, event.OrderExpired)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, string(event.OrderSpawned), records[0].Kind)
	assert.Equal(t, string(event.OrderExpired), records[1].Kind)

	counts, err := s.CountByKind(ctx, "session-1")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{
		string(event.OrderSpawned): 1,
		string(event.ChopStart):    1,
		string(event.OrderExpired): 1,
	}, counts)
}

func TestReadEvents_EmptySession(t *testing.T) {
	s := createTestSession(t, "session-1")

	records, err := s.ReadEvents(context.Background(), "session-1")
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestSessions(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	_, err := s.LatestSession(ctx)
	assert.True(t, errors.Is(err, ErrSessionNotFound))

	require.NoError(t, s.BeginSession(ctx, "0001", "salad-bar", 7))
	require.NoError(t, s.BeginSession(ctx, "0002", "soup-kitchen", 9))
	require.NoError(t, s.BeginSession(ctx, "0001", "salad-bar", 7), "re-announcing a session is a no-op")
	require.NoError(t, s.WriteEvent(ctx, "0001", createTestEvent(1, event.OrderSpawned, "order-1")))

	sessions, err := s.ListSessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, []Session{
		{ID: "0001", Level: "salad-bar", Seed: 7, Events: 1},
		{ID: "0002", Level: "soup-kitchen", Seed: 9, Events: 0},
	}, sessions)

	latest, err := s.LatestSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, "0002", latest.ID)

	_, err = s.ReadSession(ctx, "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
