// Package proximity picks the interactable an actor is facing: the nearest
// live candidate inside its interaction range.
package proximity

import (
	"log/slog"
	"math"

	"github.com/roach88/kitchen/internal/event"
	"github.com/roach88/kitchen/internal/slot"
)

// Selector tracks the candidates in range of one actor and the current
// selection.
//
// Candidates keep insertion order, so equal distances resolve to the
// candidate that entered range first.
type Selector struct {
	owner      string
	pub        event.Publisher
	candidates []slot.Interactable
	current    slot.Interactable
}

// New creates a selector for actor owner.
func New(owner string, pub event.Publisher) *Selector {
	if pub == nil {
		pub = event.Discard
	}
	return &Selector{owner: owner, pub: pub}
}

// Current is the highlighted interactable, nil when nothing is in range.
func (s *Selector) Current() slot.Interactable {
	if s.current != nil && s.current.Destroyed() {
		return nil
	}
	return s.current
}

// Candidates returns the candidates in insertion order.
func (s *Selector) Candidates() []slot.Interactable {
	out := make([]slot.Interactable, len(s.candidates))
	copy(out, s.candidates)
	return out
}

// Contains reports whether c is a candidate.
func (s *Selector) Contains(c slot.Interactable) bool {
	return s.index(c) >= 0
}

// Enter adds c to the candidate set. Entering twice is logged and ignored.
func (s *Selector) Enter(c slot.Interactable) bool {
	if c == nil {
		return false
	}
	if s.Contains(c) {
		slog.Warn("enter on a candidate already in range", "actor", s.owner, "id", c.ID())
		return false
	}
	s.candidates = append(s.candidates, c)
	return true
}

// Exit removes c from the candidate set. The selection itself only changes
// on the next Evaluate.
func (s *Selector) Exit(c slot.Interactable) {
	if i := s.index(c); i >= 0 {
		s.candidates = append(s.candidates[:i], s.candidates[i+1:]...)
	}
}

// Sync replaces the candidate set with inRange, keeping the relative order
// of candidates that stay and appending new ones in the given order.
func (s *Selector) Sync(inRange []slot.Interactable) {
	keep := make(map[slot.Interactable]bool, len(inRange))
	for _, c := range inRange {
		keep[c] = true
	}
	out := s.candidates[:0]
	for _, c := range s.candidates {
		if keep[c] {
			out = append(out, c)
			delete(keep, c)
		}
	}
	for _, c := range inRange {
		if keep[c] {
			out = append(out, c)
			delete(keep, c)
		}
	}
	s.candidates = out
}

// Evaluate prunes destroyed candidates, selects the one nearest to anchor
// and moves the highlight when the selection changed.
func (s *Selector) Evaluate(anchor slot.Vec3) slot.Interactable {
	live := s.candidates[:0]
	for _, c := range s.candidates {
		if slot.Alive(c) {
			live = append(live, c)
		}
	}
	s.candidates = live

	var closest slot.Interactable
	best := math.MaxFloat64
	for _, c := range s.candidates {
		if d := anchor.Distance(c.Position()); d < best {
			best = d
			closest = c
		}
	}

	if closest == s.current {
		return closest
	}
	s.deselect()
	s.current = closest
	if closest != nil {
		closest.HighlightOn()
		s.pub.Publish(event.Event{Kind: event.HighlightOn, Actor: s.owner, Subject: closest.ID()})
	}
	return closest
}

// Reset drops the selection and all candidates.
func (s *Selector) Reset() {
	s.deselect()
	s.current = nil
	s.candidates = nil
}

func (s *Selector) deselect() {
	prev := s.current
	if prev == nil || prev.Destroyed() {
		return
	}
	prev.HighlightOff()
	if in, ok := prev.(slot.Interrupter); ok {
		in.Interrupt(s.owner)
	}
	s.pub.Publish(event.Event{Kind: event.HighlightOff, Actor: s.owner, Subject: prev.ID()})
}

func (s *Selector) index(c slot.Interactable) int {
	for i, x := range s.candidates {
		if x == c {
			return i
		}
	}
	return -1
}
