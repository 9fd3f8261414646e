package relay

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/amp.go/pkg/telemetry"
	"github.com/robotalks/amp.go/pkg/wire"
)

func TestTrackerTransitions(t *testing.T) {
	correctiveFrame := wire.SentinelReceive.Frame().String()
	testCases := []struct {
		name       string
		seq        []wire.Sentinel
		mode       Mode
		antenna    int
		recoveries int64
		corrective int
	}{
		{
			name:    "initial",
			mode:    ModeReceive,
			antenna: 1,
		},
		{
			name:    "transmit",
			seq:     []wire.Sentinel{wire.SentinelTransmit},
			mode:    ModeTransmit,
			antenna: 1,
		},
		{
			name:       "transmit then receive",
			seq:        []wire.Sentinel{wire.SentinelTransmit, wire.SentinelReceive},
			mode:       ModeReceive,
			antenna:    1,
			corrective: 1,
		},
		{
			name:    "receive while receiving",
			seq:     []wire.Sentinel{wire.SentinelReceive},
			mode:    ModeReceive,
			antenna: 1,
		},
		{
			name:    "duplicate transmit",
			seq:     []wire.Sentinel{wire.SentinelTransmit, wire.SentinelTransmit},
			mode:    ModeTransmit,
			antenna: 1,
		},
		{
			name:       "lost receive indicator",
			seq:        []wire.Sentinel{wire.SentinelTransmit, wire.SentinelTransmitEnd},
			mode:       ModeReceive,
			antenna:    1,
			recoveries: 1,
			corrective: 1,
		},
		{
			name: "marker after receive is no-op",
			seq: []wire.Sentinel{
				wire.SentinelTransmit, wire.SentinelReceive, wire.SentinelTransmitEnd,
			},
			mode:       ModeReceive,
			antenna:    1,
			corrective: 1,
		},
		{
			name: "recovery then normal cycle",
			seq: []wire.Sentinel{
				wire.SentinelTransmit, wire.SentinelTransmitEnd,
				wire.SentinelTransmit, wire.SentinelReceive, wire.SentinelTransmitEnd,
			},
			mode:       ModeReceive,
			antenna:    1,
			recoveries: 1,
			corrective: 2,
		},
		{
			name:    "antenna select",
			seq:     []wire.Sentinel{wire.SentinelAntenna2},
			mode:    ModeReceive,
			antenna: 2,
		},
		{
			name:    "antenna keeps mode",
			seq:     []wire.Sentinel{wire.SentinelTransmit, wire.SentinelAntenna3},
			mode:    ModeTransmit,
			antenna: 3,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			state := NewState()
			display := &frameLog{}
			tr := NewTracker(state, display)
			for _, s := range tc.seq {
				tr.Apply(s)
			}
			require.Equal(t, tc.mode, state.Mode())
			require.Equal(t, tc.antenna, state.Antenna())
			require.Equal(t, tc.recoveries, state.Snapshot().Stats.ModeRecoveries)
			require.Len(t, display.frames, tc.corrective)
			for _, f := range display.frames {
				require.Equal(t, correctiveFrame, f)
			}
		})
	}
}

func TestTrackerIndicator(t *testing.T) {
	state := NewState()
	tr := NewTracker(state, &frameLog{})
	var flips []bool
	tr.Indicator = IndicatorFunc(func(on bool) {
		flips = append(flips, on)
	})

	tr.Apply(wire.SentinelTransmit)
	tr.Apply(wire.SentinelReceive)
	tr.Apply(wire.SentinelTransmit)
	tr.Apply(wire.SentinelTransmitEnd)
	require.Equal(t, []bool{true, false, true, false}, flips)
}

func TestTrackerResetsIdleValues(t *testing.T) {
	state := NewState()
	tr := NewTracker(state, &frameLog{})

	tr.Apply(wire.SentinelTransmit)
	require.True(t, state.Sample(telemetry.Power, 6000))
	require.True(t, state.Sample(telemetry.SWR, 15))
	tr.Apply(wire.SentinelReceive)

	v := state.Snapshot().Values
	require.Equal(t, 0, v.Power)
	require.Equal(t, 10, v.SWR)
	require.Equal(t, 0, v.Current)
	require.Equal(t, 0, v.Reflected)
}
