package relay

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/robotalks/amp.go/pkg/run"
	"github.com/robotalks/amp.go/pkg/wire"
)

// Split relays each direction on its own goroutine, giving every port
// a dedicated reader. The controller loop is primary; the display loop
// holds off until it has started so both ports come up in order.
type Split struct {
	engine     *Engine
	display    *wire.Reader
	controller *wire.Reader
	ready      atomic.Bool
}

// NewSplit creates a Split reading the two ports through eng.
func NewSplit(eng *Engine, display, controller wire.Source) *Split {
	return &Split{
		engine:     eng,
		display:    wire.NewReader(display),
		controller: wire.NewReader(controller),
	}
}

// SetReadTimeout adjusts the capture window of both port readers.
func (s *Split) SetReadTimeout(d time.Duration) {
	s.display.Timeout = d
	s.controller.Timeout = d
}

// Runners returns the two relay loops for supervision.
func (s *Split) Runners() []run.Runnable {
	return []run.Runnable{
		run.WithName("relay-b2a", run.Func(s.runController)),
		run.WithName("relay-a2b", run.Func(s.runDisplay)),
	}
}

func (s *Split) runController(ctx context.Context) error {
	s.ready.Store(true)
	return s.loop(ctx, s.controller, s.engine.FromController)
}

func (s *Split) runDisplay(ctx context.Context) error {
	for !s.ready.Load() {
		select {
		case <-ctx.Done():
			return nil
		default:
		}
		time.Sleep(idleInterval)
	}
	return s.loop(ctx, s.display, s.engine.FromDisplay)
}

// loop pumps one direction until ctx is done. Cancellation is only
// observed between reads; a frame in flight always finishes.
func (s *Split) loop(ctx context.Context, rd *wire.Reader, handle func(wire.Frame)) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}
		f, st := rd.Read()
		switch st {
		case wire.ReadFrame:
			handle(f)
		case wire.ReadIncomplete:
			s.engine.State.CountIncomplete()
		default:
			time.Sleep(idleInterval)
		}
	}
}
