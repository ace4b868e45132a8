package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/roach88/kitchen/internal/event"
	"github.com/roach88/kitchen/internal/ir"
)

// createTestStore creates a new file-backed store for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestSession opens a store with one session already announced.
func createTestSession(t *testing.T, id string) *Store {
	t.Helper()
	s := createTestStore(t)
	if err := s.BeginSession(context.Background(), id, "test-kitchen", 7); err != nil {
		t.Fatalf("BeginSession() failed: %v", err)
	}
	return s
}

// createTestEvent creates an event with minimal fields.
func createTestEvent(seq int64, kind event.Kind, subject string) event.Event {
	return event.Event{
		Seq:     seq,
		Tick:    seq / 2,
		Kind:    kind,
		Subject: subject,
		Payload: ir.Object{},
	}
}
