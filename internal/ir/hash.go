package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// DomainEvent separates event IDs from any other hash in the system.
const DomainEvent = "kitchen/event/v2"

func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// EventKey is everything that identifies one journaled event.
type EventKey struct {
	Session string
	Seq     int64
	Tick    int64
	Kind    string
	Actor   string
	Subject string
	Payload Object
}

// EventID computes the content-addressed ID of a journal event.
// Every field of k takes part in the hash, so two events share an ID only
// when they agree on session, position (seq and tick), kind, actor, subject
// and payload. Identical keys always hash to the same ID, which keeps
// journal inserts idempotent.
func EventID(k EventKey) (string, error) {
	payload := k.Payload
	if payload == nil {
		payload = Object{}
	}
	canonical, err := MarshalCanonical(Object{
		"session": String(k.Session),
		"seq":     Int(k.Seq),
		"tick":    Int(k.Tick),
		"kind":    String(k.Kind),
		"actor":   String(k.Actor),
		"subject": String(k.Subject),
		"payload": payload,
	})
	if err != nil {
		return "", fmt.Errorf("event id: %w", err)
	}
	return hashWithDomain(DomainEvent, canonical), nil
}
