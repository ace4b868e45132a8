package event

import "github.com/roach88/kitchen/internal/ir"

// Event is one notification published on the bus.
//
// Seq and Tick are stamped by the bus at publish time. Actor is the actor
// that caused the event (empty for ambient events such as order spawns).
// Subject is the primary entity: an appliance, item or order ID; it is
// empty for the "nothing delivered" signal.
type Event struct {
	Seq     int64
	Tick    int64
	Kind    Kind
	Actor   string
	Subject string
	Payload ir.Object
}

// Bool reads a boolean payload field, false when absent.
func (e Event) Bool(key string) bool {
	v, _ := e.Payload[key].(ir.Bool)
	return bool(v)
}

// Int reads an integer payload field, 0 when absent.
func (e Event) Int(key string) int64 {
	v, _ := e.Payload[key].(ir.Int)
	return int64(v)
}

// String reads a string payload field, "" when absent.
func (e Event) String(key string) string {
	v, _ := e.Payload[key].(ir.String)
	return string(v)
}

// Completed is the stop(completed) flag of chopping and cleaning events.
func (e Event) Completed() bool {
	return e.Bool("completed")
}

// ID is the journal ID of e within session (see ir.EventID).
func (e Event) ID(session string) (string, error) {
	return ir.EventID(ir.EventKey{
		Session: session,
		Seq:     e.Seq,
		Tick:    e.Tick,
		Kind:    string(e.Kind),
		Actor:   e.Actor,
		Subject: e.Subject,
		Payload: e.Payload,
	})
}
