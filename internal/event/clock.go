package event

import "sync/atomic"

// Clock is the monotonic logical clock that stamps every published event.
//
// Sequence numbers order events totally within one simulation; wall-clock
// time is never used for ordering. The first call to Next returns 1.
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// Next returns the next sequence number.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the last issued sequence number without advancing.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
