package store

import (
	"context"
	"fmt"

	"github.com/roach88/kitchen/internal/event"
)

// BeginSession records a new engine run.
// Uses ON CONFLICT(id) DO NOTHING, so announcing a session twice is harmless.
func (s *Store) BeginSession(ctx context.Context, id, level string, seed uint64) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, level, seed)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, id, level, int64(seed))
	if err != nil {
		return fmt.Errorf("begin session: %w", err)
	}
	return nil
}

// WriteEvent appends one bus event to the session's trace.
//
// The row ID is content-addressed (event.Event.ID), so duplicate writes are
// silently ignored. The payload is stored as canonical JSON.
//
// Note: The session must exist (foreign key constraint).
func (s *Store) WriteEvent(ctx context.Context, session string, e event.Event) error {
	payload, err := marshalPayload(e.Payload)
	if err != nil {
		return fmt.Errorf("write event: %w", err)
	}

	id, err := e.ID(session)
	if err != nil {
		return fmt.Errorf("write event: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO events
		(id, session_id, seq, tick, kind, actor, subject, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING
	`,
		id,
		session,
		e.Seq,
		e.Tick,
		string(e.Kind),
		e.Actor,
		e.Subject,
		payload,
	)
	if err != nil {
		return fmt.Errorf("write event: %w", err)
	}

	return nil
}
