package relay

import (
	"io"

	"github.com/golang/glog"

	"github.com/robotalks/amp.go/pkg/telemetry"
	"github.com/robotalks/amp.go/pkg/wire"
)

// Engine is the per-frame processor shared by both relay topologies.
// It owns the tracker and the serialized outlets; the topologies only
// decide who reads which port when.
type Engine struct {
	State   *State
	Tracker *Tracker
	Sink    *Sink

	// Display and Controller are the write sides of the two ports,
	// also used by the command dispatcher and the tracker.
	Display    *Outlet
	Controller *Outlet
}

// NewEngine wires an Engine over the two port writers. The sink may be
// nil when tracing is unwanted.
func NewEngine(state *State, display, controller io.Writer, sink *Sink) *Engine {
	e := &Engine{
		State:      state,
		Sink:       sink,
		Display:    NewOutlet(display),
		Controller: NewOutlet(controller),
	}
	e.Tracker = NewTracker(state, e.Display)
	return e
}

// FromController processes one frame read from the controller and
// relays it to the display unless the telemetry filter suppresses it.
func (e *Engine) FromController(f wire.Frame) {
	if s := wire.ParseSentinel(f); s != wire.SentinelNone {
		e.Tracker.Apply(s)
		e.forward(ControllerToDisplay, e.Display, f)
		return
	}
	rec, st := wire.ParseRecord(f)
	switch st {
	case wire.RecordValue:
		if !e.State.Sample(telemetry.Channel(rec.Key), rec.Raw) {
			glog.V(2).Infof("suppress %s", f.String())
			return
		}
	case wire.RecordBad:
		e.State.CountMalformed()
		glog.V(2).Infof("malformed %s", f.String())
		return
	}
	e.forward(ControllerToDisplay, e.Display, f)
}

// FromDisplay processes one frame read from the display. Frames opening
// with the escape byte are local to the display and never relayed.
func (e *Engine) FromDisplay(f wire.Frame) {
	if len(f) > 0 && f[0] == wire.Escape {
		e.State.CountEscapeDrop()
		glog.V(2).Infof("escape drop %s", f.String())
		return
	}
	e.forward(DisplayToController, e.Controller, f)
}

func (e *Engine) forward(dir Direction, out *Outlet, f wire.Frame) {
	if err := out.WriteFrame(f); err != nil {
		glog.Warningf("relay %v: %v", dir, err)
	}
	e.State.CountFrame(dir)
	if e.Sink != nil && e.State.Verbose() {
		e.Sink.Log(dir, f)
	}
}
