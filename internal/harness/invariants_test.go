package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/kitchen/internal/ir"
)

func TestCheckInvariants_CleanTrace(t *testing.T) {
	assert.Empty(t, CheckInvariants(sampleTrace()))
	assert.Empty(t, CheckInvariants(nil))
}

func TestCheckInvariants_Violations(t *testing.T) {
	tests := []struct {
		name  string
		trace []TraceEvent
		want  string
	}{
		{
			name: "seq not increasing",
			trace: []TraceEvent{
				{Seq: 2, Kind: "actor.dash"},
				{Seq: 2, Kind: "actor.dash"},
			},
			want: "seq 2 follows seq 2",
		},
		{
			name: "tick goes backwards",
			trace: []TraceEvent{
				{Seq: 1, Tick: 3, Kind: "actor.dash"},
				{Seq: 2, Tick: 2, Kind: "actor.dash"},
			},
			want: "tick 2 after tick 3",
		},
		{
			name:  "chop stop without start",
			trace: []TraceEvent{{Seq: 1, Kind: "chopping.stop", Subject: "board"}},
			want:  "without a start",
		},
		{
			name: "clean stop after a chop start on another kind",
			trace: []TraceEvent{
				{Seq: 1, Kind: "chopping.start", Subject: "sink"},
				{Seq: 2, Kind: "clean.stop", Subject: "sink"},
			},
			want: "clean.stop on sink without a start",
		},
		{
			name:  "delivery of unknown order",
			trace: []TraceEvent{{Seq: 1, Kind: "order.delivered", Subject: "order-9", Payload: ir.Object{"tip": ir.Int(2)}}},
			want:  "unknown order order-9",
		},
		{
			name: "order closed twice",
			trace: []TraceEvent{
				{Seq: 1, Kind: "order.spawned", Subject: "order-1"},
				{Seq: 2, Kind: "order.delivered", Subject: "order-1", Payload: ir.Object{"tip": ir.Int(4)}},
				{Seq: 3, Kind: "order.expired", Subject: "order-1"},
			},
			want: "closed twice",
		},
		{
			name: "invalid tip",
			trace: []TraceEvent{
				{Seq: 1, Kind: "order.spawned", Subject: "order-1"},
				{Seq: 2, Kind: "order.delivered", Subject: "order-1", Payload: ir.Object{"tip": ir.Int(3)}},
			},
			want: "invalid tip 3",
		},
		{
			name:  "subjectless delivery with a tip",
			trace: []TraceEvent{{Seq: 1, Kind: "order.delivered", Payload: ir.Object{"tip": ir.Int(0)}}},
			want:  "delivery without an order carries tip 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := CheckInvariants(tt.trace)
			require.NotEmpty(t, errs)
			assert.Contains(t, errs[0], tt.want)
		})
	}
}
