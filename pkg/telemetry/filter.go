package telemetry

const (
	// MinVoltage is the lowest credible drain voltage reading (10.0 V);
	// anything below is a corrupt capture.
	MinVoltage = 100
	// MinSWR is the lowest possible SWR reading (1.0).
	MinSWR = 10
	// IdleSWR is the SWR shown while receiving.
	IdleSWR = 10
)

// Verdict is the outcome of one Update.
type Verdict int

const (
	// VerdictAccepted means the sample became the channel's last
	// accepted value and the frame may be relayed.
	VerdictAccepted Verdict = iota
	// VerdictOutOfRange means the sample failed the channel's
	// admission threshold and was not recorded.
	VerdictOutOfRange
	// VerdictOutlier means the sample entered the window but was not
	// promoted and must not be relayed.
	VerdictOutlier
)

// Forwardable reports whether the frame carrying the sample may be
// relayed to the display.
func (v Verdict) Forwardable() bool {
	return v == VerdictAccepted
}

// String returns a short name of the verdict.
func (v Verdict) String() string {
	switch v {
	case VerdictOutOfRange:
		return "out-of-range"
	case VerdictOutlier:
		return "outlier"
	}
	return "accepted"
}

type channelState struct {
	window   Window
	accepted int
}

// Filter holds one sample window and one last-accepted slot per
// channel. The last-accepted slot always equals the most recent sample
// that passed the outlier test, or the most recent admitted sample
// while the test is off.
type Filter struct {
	voltage     channelState
	current     channelState
	swr         channelState
	reflected   channelState
	power       channelState
	temperature channelState
}

// NewFilter creates a Filter showing idle values.
func NewFilter() *Filter {
	f := &Filter{}
	f.ResetIdle()
	return f
}

func (f *Filter) state(ch Channel) *channelState {
	switch ch {
	case Voltage:
		return &f.voltage
	case Current:
		return &f.current
	case SWR:
		return &f.swr
	case Reflected:
		return &f.reflected
	case Power:
		return &f.power
	case Temperature:
		return &f.temperature
	}
	return nil
}

// Update admits one raw sample. With filtered set (transmit mode) the
// sample is tested against the surviving window entries: it is an
// outlier if it differs from any of them by more than a quarter of that
// entry's value. Outliers still enter the window so it keeps evolving,
// but they are not promoted. With filtered off every admitted sample is
// accepted as-is.
//
// A stored zero makes any different sample an outlier; the original
// controller behaves the same way near zero and the relay keeps that
// quirk rather than guessing a better baseline.
func (f *Filter) Update(ch Channel, raw int, filtered bool) Verdict {
	cs := f.state(ch)
	if cs == nil {
		return VerdictOutOfRange
	}
	if ch == Voltage && raw < MinVoltage {
		return VerdictOutOfRange
	}
	if ch == SWR && raw < MinSWR {
		return VerdictOutOfRange
	}
	if filtered && cs.window.Count() > 0 {
		outlier := false
		for _, s := range cs.window.Recent() {
			d := s - raw
			if d < 0 {
				d = -d
			}
			if 4*d > s {
				outlier = true
				break
			}
		}
		cs.window.Push(raw)
		if outlier {
			return VerdictOutlier
		}
		cs.accepted = raw
		return VerdictAccepted
	}
	cs.window.Push(raw)
	cs.accepted = raw
	return VerdictAccepted
}

// ResetIdle returns the transmit-time channels to their idle readings
// so the display does not keep showing stale values after the carrier
// drops. Windows are left alone; only the accepted slots move.
func (f *Filter) ResetIdle() {
	f.swr.accepted = IdleSWR
	f.power.accepted = 0
	f.current.accepted = 0
	f.reflected.accepted = 0
}

// Snapshot copies the last accepted value of every channel.
func (f *Filter) Snapshot() Values {
	return Values{
		Voltage:     f.voltage.accepted,
		Current:     f.current.accepted,
		SWR:         f.swr.accepted,
		Reflected:   f.reflected.accepted,
		Power:       f.power.accepted,
		Temperature: f.temperature.accepted,
	}
}
