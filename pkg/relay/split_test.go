package relay

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/amp.go/pkg/wire"
)

func TestSplitRelays(t *testing.T) {
	eng, display, controller := newTestEngine()
	s := NewSplit(eng, display, controller)
	rs := s.Runners()
	require.Len(t, rs, 2)

	// Primary loop: controller to display. The port cancels its own
	// context once drained so the loop exits deterministically.
	controller.queue(wire.Build("led.pic=1"), wire.Build("p.val=55"))
	ctx, cancel := context.WithCancel(context.Background())
	controller.onDrained = cancel
	require.NoError(t, rs[0].Run(ctx))
	require.Equal(t, rendered("led.pic=1", "p.val=55"), display.written())
	require.Equal(t, ModeTransmit, eng.State.Mode())

	// Secondary loop proceeds because the primary already started.
	display.queue(wire.Build("get band"))
	ctx, cancel = context.WithCancel(context.Background())
	display.onDrained = cancel
	require.NoError(t, rs[1].Run(ctx))
	require.Equal(t, rendered("get band"), controller.written())
}

func TestSplitStopsWithoutBarrier(t *testing.T) {
	// The display loop must give up on a canceled context even when
	// the primary loop never came up.
	eng, display, controller := newTestEngine()
	s := NewSplit(eng, display, controller)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, s.Runners()[1].Run(ctx))
}
