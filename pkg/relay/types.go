package relay

// Mode is the link mode inferred from the controller's sentinel
// frames.
type Mode int

const (
	// ModeReceive is the initial mode; telemetry passes unfiltered.
	ModeReceive Mode = iota
	// ModeTransmit enables the outlier filter.
	ModeTransmit
)

// String returns the mode name.
func (m Mode) String() string {
	if m == ModeTransmit {
		return "transmit"
	}
	return "receive"
}

// MarshalJSON encodes the mode name.
func (m Mode) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}

// UnmarshalJSON decodes the mode name; anything but "transmit" reads
// as receive.
func (m *Mode) UnmarshalJSON(b []byte) error {
	if string(b) == `"transmit"` {
		*m = ModeTransmit
	} else {
		*m = ModeReceive
	}
	return nil
}

// Direction identifies which port a frame came from and, with it,
// which port is being serviced: A is the display, B the controller.
type Direction int

const (
	// DisplayToController services port A and writes to port B.
	DisplayToController Direction = iota
	// ControllerToDisplay services port B and writes to port A.
	ControllerToDisplay
)

// String returns the trace marker for the direction.
func (d Direction) String() string {
	if d == ControllerToDisplay {
		return "B>A"
	}
	return "A>B"
}

// Indicator mirrors the link mode on an external signal, typically a
// panel LED. The GPIO binding lives outside this package.
type Indicator interface {
	SetTransmit(bool)
}

// IndicatorFunc is the func form of Indicator.
type IndicatorFunc func(bool)

// SetTransmit implements Indicator.
func (f IndicatorFunc) SetTransmit(on bool) {
	f(on)
}

type nopIndicator struct{}

func (nopIndicator) SetTransmit(bool) {}
