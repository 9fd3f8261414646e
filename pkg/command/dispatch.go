// Package command maps single-character operator commands onto
// controller frames and status text. The same dispatcher serves every
// external channel: console, MQTT and WebSocket.
package command

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/golang/glog"

	"github.com/robotalks/amp.go/pkg/relay"
	"github.com/robotalks/amp.go/pkg/wire"
)

// Bands lists the selectable bands in meters, in command order: the
// command character for Bands[i] is '1'+i.
var Bands = [...]int{160, 80, 40, 20, 15, 10, 6}

// bel prefixes replies when the beep setting is on; terminals render
// it as an audible confirmation.
const bel = "\a"

const helpText = `1..7  band 160/80/40/20/15/10/6 m
a b c antenna 1/2/3
f / F fan auto / max
o / O power on / off
d / D attenuator in / out
r     controller reset
z     toggle beep
v     toggle verbose
s     status
x     status, short form
h ?   this text`

// Hooks are the optional relay drivers toggled alongside power and
// attenuator commands. Nil members are skipped.
type Hooks struct {
	Power      func(bool)
	Attenuator func(bool)
}

// Dispatcher executes operator commands against the shared state and
// the controller port.
type Dispatcher struct {
	// Persist is told about every settings toggle; nil disables
	// persistence. A failing store only logs: the in-memory setting
	// already changed.
	Persist func(beep, verbose bool) error
	// Hooks drive the external relays.
	Hooks Hooks

	state *relay.State
	out   wire.FrameWriter
}

// NewDispatcher creates a Dispatcher sending frames to the controller
// through out.
func NewDispatcher(state *relay.State, out wire.FrameWriter) *Dispatcher {
	return &Dispatcher{state: state, out: out}
}

// Dispatch executes one command character and returns the reply text.
// Unknown commands return ErrUnknownCommand.
func (d *Dispatcher) Dispatch(c byte) (string, error) {
	reply, err := d.exec(c)
	if err != nil {
		return "", err
	}
	if d.state.Beep() {
		reply = bel + reply
	}
	return reply, nil
}

func (d *Dispatcher) exec(c byte) (string, error) {
	switch c {
	case '1', '2', '3', '4', '5', '6', '7':
		band := Bands[c-'1']
		if err := d.send("pdia=" + strconv.Itoa(band)); err != nil {
			return "", err
		}
		return fmt.Sprintf("band %dm", band), nil
	case 'a', 'b', 'c':
		n := int(c-'a') + 1
		if err := d.send("ant=" + strconv.Itoa(n)); err != nil {
			return "", err
		}
		return fmt.Sprintf("antenna %d", n), nil
	case 'f':
		return "fan auto", d.send("fan=0")
	case 'F':
		return "fan max", d.send("fan=1")
	case 'o':
		if err := d.send("pwr=1"); err != nil {
			return "", err
		}
		if d.Hooks.Power != nil {
			d.Hooks.Power(true)
		}
		return "power on", nil
	case 'O':
		if err := d.send("pwr=0"); err != nil {
			return "", err
		}
		if d.Hooks.Power != nil {
			d.Hooks.Power(false)
		}
		return "power off", nil
	case 'd':
		if err := d.send("att=1"); err != nil {
			return "", err
		}
		if d.Hooks.Attenuator != nil {
			d.Hooks.Attenuator(true)
		}
		return "attenuator in", nil
	case 'D':
		if err := d.send("att=0"); err != nil {
			return "", err
		}
		if d.Hooks.Attenuator != nil {
			d.Hooks.Attenuator(false)
		}
		return "attenuator out", nil
	case 'r':
		return "reset", d.send("reset")
	case 'z':
		on := !d.state.Beep()
		d.state.SetBeep(on)
		d.persist()
		return "beep " + onOff(on), nil
	case 'v':
		on := !d.state.Verbose()
		d.state.SetVerbose(on)
		d.persist()
		return "verbose " + onOff(on), nil
	case 's':
		return statusText(d.state.Snapshot()), nil
	case 'x':
		return statusLine(d.state.Snapshot()), nil
	case 'h', '?':
		return helpText, nil
	}
	return "", ErrUnknownCommand
}

func (d *Dispatcher) send(cmd string) error {
	return d.out.WriteFrame(wire.Build(cmd))
}

func (d *Dispatcher) persist() {
	if d.Persist == nil {
		return
	}
	if err := d.Persist(d.state.Beep(), d.state.Verbose()); err != nil {
		glog.Warningf("persist settings: %v", err)
	}
}

// statusText renders the full status block.
func statusText(st relay.Status) string {
	var w bytes.Buffer
	fmt.Fprintf(&w, "mode      %s\n", st.Mode)
	fmt.Fprintf(&w, "antenna   %d\n", st.Antenna)
	fmt.Fprintf(&w, "voltage   %s V\n", tenths(st.Values.Voltage))
	fmt.Fprintf(&w, "current   %s A\n", tenths(st.Values.Current))
	fmt.Fprintf(&w, "power     %s W\n", tenths(st.Values.Power))
	fmt.Fprintf(&w, "reflected %s W\n", tenths(st.Values.Reflected))
	fmt.Fprintf(&w, "swr       %s\n", tenths(st.Values.SWR))
	fmt.Fprintf(&w, "temp      %s C\n", tenths(st.Values.Temperature))
	fmt.Fprintf(&w, "beep      %s\n", onOff(st.Beep))
	fmt.Fprintf(&w, "verbose   %s\n", onOff(st.Verbose))
	fmt.Fprintf(&w, "frames    A>B %d  B>A %d\n",
		st.Stats.DisplayFrames, st.Stats.ControllerFrames)
	fmt.Fprintf(&w, "dropped   incomplete %d  malformed %d  range %d  outlier %d  escape %d\n",
		st.Stats.Incomplete, st.Stats.MalformedRecords,
		st.Stats.OutOfRange, st.Stats.Outliers, st.Stats.EscapeDrops)
	fmt.Fprintf(&w, "recovered %d", st.Stats.ModeRecoveries)
	return w.String()
}

// statusLine renders the short one-line status form.
func statusLine(st relay.Status) string {
	mode := "rx"
	if st.Mode == relay.ModeTransmit {
		mode = "tx"
	}
	return fmt.Sprintf("%s ant%d %sV %sA %sW %sWr swr%s %sC",
		mode, st.Antenna,
		tenths(st.Values.Voltage), tenths(st.Values.Current),
		tenths(st.Values.Power), tenths(st.Values.Reflected),
		tenths(st.Values.SWR), tenths(st.Values.Temperature))
}

// tenths renders a fixed-point value carried in tenths.
func tenths(v int) string {
	return strconv.Itoa(v/10) + "." + strconv.Itoa(v%10)
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}
