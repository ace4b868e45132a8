package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/kitchen/internal/event"
	"github.com/roach88/kitchen/internal/ir"
)

// ErrSessionNotFound is returned when a session ID is not in the journal.
var ErrSessionNotFound = errors.New("session not found")

// Session is one recorded engine run.
type Session struct {
	ID     string `json:"id"`
	Level  string `json:"level"`
	Seed   uint64 `json:"seed"`
	Events int    `json:"events"`
}

// Record is one journaled event.
type Record struct {
	ID      string    `json:"id"`
	Session string    `json:"session"`
	Seq     int64     `json:"seq"`
	Tick    int64     `json:"tick"`
	Kind    string    `json:"kind"`
	Actor   string    `json:"actor,omitempty"`
	Subject string    `json:"subject,omitempty"`
	Payload ir.Object `json:"payload"`
}

// Event converts the record back to a bus event.
func (r Record) Event() event.Event {
	return event.Event{
		Seq:     r.Seq,
		Tick:    r.Tick,
		Kind:    event.Kind(r.Kind),
		Actor:   r.Actor,
		Subject: r.Subject,
		Payload: r.Payload,
	}
}

// ListSessions returns every session with its event count.
// UUIDv7 session IDs sort in creation order, so ordering by ID is
// chronological without reading wall-clock columns.
//
// Returns an empty slice (not nil) for an empty journal.
func (s *Store) ListSessions(ctx context.Context) ([]Session, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.id, s.level, s.seed, COUNT(e.id)
		FROM sessions s
		LEFT JOIN events e ON e.session_id = s.id
		GROUP BY s.id
		ORDER BY s.id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	sessions := []Session{}
	for rows.Next() {
		var sess Session
		var seed int64
		if err := rows.Scan(&sess.ID, &sess.Level, &seed, &sess.Events); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sess.Seed = uint64(seed)
		sessions = append(sessions, sess)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return sessions, nil
}

// ReadSession returns one session, or ErrSessionNotFound.
func (s *Store) ReadSession(ctx context.Context, id string) (Session, error) {
	var sess Session
	var seed int64
	err := s.db.QueryRowContext(ctx, `
		SELECT s.id, s.level, s.seed, COUNT(e.id)
		FROM sessions s
		LEFT JOIN events e ON e.session_id = s.id
		WHERE s.id = ?
		GROUP BY s.id
	`, id).Scan(&sess.ID, &sess.Level, &seed, &sess.Events)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	if err != nil {
		return Session{}, fmt.Errorf("read session: %w", err)
	}
	sess.Seed = uint64(seed)
	return sess, nil
}

// LatestSession returns the most recently created session, or
// ErrSessionNotFound for an empty journal.
func (s *Store) LatestSession(ctx context.Context) (Session, error) {
	var id string
	err := s.db.QueryRowContext(ctx, `
		SELECT id FROM sessions ORDER BY id COLLATE BINARY DESC LIMIT 1
	`).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, ErrSessionNotFound
	}
	if err != nil {
		return Session{}, fmt.Errorf("latest session: %w", err)
	}
	return s.ReadSession(ctx, id)
}

// ReadEvents returns a session's events.
// Results are ordered deterministically: ORDER BY seq ASC, id ASC COLLATE BINARY.
// kinds optionally restricts the result to the given event kinds.
//
// Returns an empty slice (not nil) if the session has no events.
func (s *Store) ReadEvents(ctx context.Context, session string, kinds ...event.Kind) ([]Record, error) {
	query := `
		SELECT id, session_id, seq, tick, kind, actor, subject, payload
		FROM events
		WHERE session_id = ?`
	args := []any{session}
	if len(kinds) > 0 {
		query += ` AND kind IN (?` + strings.Repeat(", ?", len(kinds)-1) + `)`
		for _, k := range kinds {
			args = append(args, string(k))
		}
	}
	query += `
		ORDER BY seq ASC, id COLLATE BINARY ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return records, nil
}

// CountByKind tallies a session's events per kind.
func (s *Store) CountByKind(ctx context.Context, session string) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT kind, COUNT(*)
		FROM events
		WHERE session_id = ?
		GROUP BY kind
		ORDER BY kind COLLATE BINARY ASC
	`, session)
	if err != nil {
		return nil, fmt.Errorf("count events: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts[kind] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate counts: %w", err)
	}
	return counts, nil
}

func scanRecord(rows *sql.Rows) (Record, error) {
	var rec Record
	var payload string
	if err := rows.Scan(
		&rec.ID, &rec.Session, &rec.Seq, &rec.Tick,
		&rec.Kind, &rec.Actor, &rec.Subject, &payload,
	); err != nil {
		return Record{}, fmt.Errorf("scan event: %w", err)
	}

	obj, err := unmarshalPayload(payload)
	if err != nil {
		return Record{}, fmt.Errorf("event %s: %w", rec.ID, err)
	}
	rec.Payload = obj
	return rec, nil
}
