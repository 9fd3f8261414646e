package relay

import (
	"context"
	"time"

	"github.com/robotalks/amp.go/pkg/wire"
)

// DefaultStarveLimit bounds how many consecutive frames one direction
// may relay before the arbiter switches to the other port.
const DefaultStarveLimit = 8

// idleInterval paces the arbiter loop when both ports are quiet.
const idleInterval = time.Millisecond

// Arbiter drives both relay directions from a single goroutine,
// alternating between the ports. Bursts keep their direction serviced
// until the port drains or the starvation bound trips.
type Arbiter struct {
	// StarveLimit overrides DefaultStarveLimit when positive.
	StarveLimit int

	engine     *Engine
	display    *wire.Reader
	controller *wire.Reader
	dir        Direction
	served     int
}

// NewArbiter creates an Arbiter reading the two ports through eng.
func NewArbiter(eng *Engine, display, controller wire.Source) *Arbiter {
	return &Arbiter{
		StarveLimit: DefaultStarveLimit,
		engine:      eng,
		display:     wire.NewReader(display),
		controller:  wire.NewReader(controller),
		dir:         DisplayToController,
	}
}

// SetReadTimeout adjusts the capture window of both port readers.
func (a *Arbiter) SetReadTimeout(d time.Duration) {
	a.display.Timeout = d
	a.controller.Timeout = d
}

// Cycle services the current direction once and reports whether a
// frame was relayed, so callers can idle when both ports are quiet.
func (a *Arbiter) Cycle() bool {
	rd, handle := a.display, a.engine.FromDisplay
	if a.dir == ControllerToDisplay {
		rd, handle = a.controller, a.engine.FromController
	}
	f, st := rd.Read()
	switch st {
	case wire.ReadFrame:
		handle(f)
		a.served++
		if a.served >= a.starveLimit() || rd.Buffered() == 0 {
			a.flip()
		}
		return true
	case wire.ReadIncomplete:
		a.engine.State.CountIncomplete()
		a.flip()
		return false
	default:
		a.flip()
		return false
	}
}

// Run relays until ctx is done. Frames in flight finish; cancellation
// is only observed between cycles.
func (a *Arbiter) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}
		if a.Cycle() {
			continue
		}
		if a.display.Buffered() == 0 && a.controller.Buffered() == 0 {
			time.Sleep(idleInterval)
		}
	}
}

func (a *Arbiter) starveLimit() int {
	if a.StarveLimit > 0 {
		return a.StarveLimit
	}
	return DefaultStarveLimit
}

func (a *Arbiter) flip() {
	a.served = 0
	if a.dir == DisplayToController {
		a.dir = ControllerToDisplay
	} else {
		a.dir = DisplayToController
	}
}
