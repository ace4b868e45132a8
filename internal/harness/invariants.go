package harness

import (
	"fmt"

	"github.com/roach88/kitchen/internal/event"
)

// validTips are the payouts an order delivery may carry. -1 marks the
// "nothing delivered" signal.
var validTips = map[int64]bool{-1: true, 0: true, 2: true, 4: true, 6: true}

// CheckInvariants verifies properties every kitchen trace must satisfy,
// whatever the scenario asserts:
//
//   - seq strictly increases and tick never decreases
//   - a chopping or cleaning stop follows a start on the same subject
//   - orders are delivered or expired only after they were spawned, and
//     at most once
//   - delivery tips are one of -1, 0, 2, 4, 6; -1 only without a subject
func CheckInvariants(trace []TraceEvent) []string {
	var errs []string
	started := make(map[string]bool)
	spawned := make(map[string]bool)
	closed := make(map[string]bool)

	for i, ev := range trace {
		if i > 0 {
			prev := trace[i-1]
			if ev.Seq <= prev.Seq {
				errs = append(errs, fmt.Sprintf("seq %d follows seq %d", ev.Seq, prev.Seq))
			}
			if ev.Tick < prev.Tick {
				errs = append(errs, fmt.Sprintf("seq %d: tick %d after tick %d", ev.Seq, ev.Tick, prev.Tick))
			}
		}

		e := event.Event{Kind: event.Kind(ev.Kind), Subject: ev.Subject, Payload: ev.Payload}
		switch e.Kind {
		case event.ChopStart, event.CleanStart:
			started[ev.Kind+"/"+ev.Subject] = true
		case event.ChopStop:
			if !started[string(event.ChopStart)+"/"+ev.Subject] {
				errs = append(errs, fmt.Sprintf("seq %d: %s on %s without a start", ev.Seq, ev.Kind, ev.Subject))
			}
		case event.CleanStop:
			if !started[string(event.CleanStart)+"/"+ev.Subject] {
				errs = append(errs, fmt.Sprintf("seq %d: %s on %s without a start", ev.Seq, ev.Kind, ev.Subject))
			}
		case event.OrderSpawned:
			spawned[ev.Subject] = true
		case event.OrderDelivered:
			tip := e.Int("tip")
			if !validTips[tip] {
				errs = append(errs, fmt.Sprintf("seq %d: invalid tip %d", ev.Seq, tip))
			}
			if ev.Subject == "" {
				if tip != -1 {
					errs = append(errs, fmt.Sprintf("seq %d: delivery without an order carries tip %d", ev.Seq, tip))
				}
				continue
			}
			errs = append(errs, checkClosed(ev, spawned, closed)...)
		case event.OrderExpired:
			errs = append(errs, checkClosed(ev, spawned, closed)...)
		}
	}
	return errs
}

func checkClosed(ev TraceEvent, spawned, closed map[string]bool) []string {
	var errs []string
	if !spawned[ev.Subject] {
		errs = append(errs, fmt.Sprintf("seq %d: %s for unknown order %s", ev.Seq, ev.Kind, ev.Subject))
	}
	if closed[ev.Subject] {
		errs = append(errs, fmt.Sprintf("seq %d: order %s closed twice", ev.Seq, ev.Subject))
	}
	closed[ev.Subject] = true
	return errs
}
