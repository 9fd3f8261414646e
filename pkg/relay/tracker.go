package relay

import (
	"github.com/golang/glog"

	"github.com/robotalks/amp.go/pkg/wire"
)

// Tracker follows the transmit/receive transitions the controller
// announces and self-corrects when the receive indicator is lost.
type Tracker struct {
	// Indicator mirrors the mode externally; nil-safe default keeps
	// it off.
	Indicator Indicator

	state   *State
	display wire.FrameWriter
}

// NewTracker creates a Tracker writing corrective frames to the
// display outlet.
func NewTracker(state *State, display wire.FrameWriter) *Tracker {
	return &Tracker{
		Indicator: nopIndicator{},
		state:     state,
		display:   display,
	}
}

// Apply performs the state transition and side effects of one sentinel
// frame. Sentinels are still relayed by the caller; Apply only tracks
// them.
func (t *Tracker) Apply(s wire.Sentinel) {
	switch s {
	case wire.SentinelTransmit:
		if t.state.Mode() != ModeTransmit {
			t.state.SetMode(ModeTransmit)
			t.Indicator.SetTransmit(true)
			glog.V(2).Info("mode transmit")
		}
	case wire.SentinelReceive:
		t.toReceive()
	case wire.SentinelTransmitEnd:
		// The secondary marker always follows the receive indicator.
		// Seeing it while still in transmit proves the indicator was
		// lost; recover as if it had arrived.
		if t.state.Mode() == ModeTransmit {
			t.state.CountRecovery()
			glog.Warning("receive indicator lost, recovering")
			t.toReceive()
		}
	default:
		if n := s.Antenna(); n != 0 {
			t.state.SetAntenna(n)
			glog.V(2).Infof("antenna %d", n)
		}
	}
}

func (t *Tracker) toReceive() {
	if t.state.Mode() == ModeReceive {
		return
	}
	t.state.SetMode(ModeReceive)
	t.state.ResetIdle()
	t.Indicator.SetTransmit(false)
	glog.V(2).Info("mode receive")
	// Re-send the receive indicator so the display recovers even when
	// the original frame never made it. Setting the same picture twice
	// is harmless.
	if t.display != nil {
		if err := t.display.WriteFrame(wire.SentinelReceive.Frame()); err != nil {
			glog.Warningf("corrective frame: %v", err)
		}
	}
}
