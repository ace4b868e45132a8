package harness

import (
	"github.com/roach88/kitchen/internal/engine"
	"github.com/roach88/kitchen/internal/event"
	"github.com/roach88/kitchen/internal/ir"
)

// TraceEvent is one bus event as recorded by a scenario run.
type TraceEvent struct {
	Seq     int64     `json:"seq"`
	Tick    int64     `json:"tick"`
	Kind    string    `json:"kind"`
	Actor   string    `json:"actor,omitempty"`
	Subject string    `json:"subject,omitempty"`
	Payload ir.Object `json:"payload,omitempty"`
}

func traceEvent(e event.Event) TraceEvent {
	return TraceEvent{
		Seq:     e.Seq,
		Tick:    e.Tick,
		Kind:    string(e.Kind),
		Actor:   e.Actor,
		Subject: e.Subject,
		Payload: e.Payload,
	}
}

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if every assertion and trace invariant holds.
	Pass bool `json:"pass"`

	// Trace contains every published event in seq order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// State is the kitchen snapshot after the last step.
	State engine.Observation `json:"state"`
}

// NewResult creates a new passing result.
// Used as the starting point for test execution.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddTrace appends one event to the trace.
func (r *Result) AddTrace(e event.Event) {
	r.Trace = append(r.Trace, traceEvent(e))
}
