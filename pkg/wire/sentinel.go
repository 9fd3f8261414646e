package wire

// Sentinel identifies the fixed-content frames the controller sends to
// signal mode and antenna transitions instead of a measured value.
type Sentinel int

const (
	// SentinelNone means the frame is not a sentinel.
	SentinelNone Sentinel = iota
	// SentinelReceive is the receive indicator.
	SentinelReceive
	// SentinelTransmit is the transmit indicator.
	SentinelTransmit
	// SentinelTransmitEnd is the secondary transmit-end marker that
	// always follows the receive indicator on the wire.
	SentinelTransmitEnd
	// SentinelAntenna1..3 mirror the controller's antenna selection.
	SentinelAntenna1
	SentinelAntenna2
	SentinelAntenna3
)

var sentinelText = [...]string{
	SentinelReceive:     "led.pic=0",
	SentinelTransmit:    "led.pic=1",
	SentinelTransmitEnd: "swr.val=0",
	SentinelAntenna1:    "ant.pic=10",
	SentinelAntenna2:    "ant.pic=11",
	SentinelAntenna3:    "ant.pic=12",
}

// ParseSentinel matches a frame against the sentinel set. The match is
// exact: prefix plus terminator run, nothing in between.
func ParseSentinel(f Frame) Sentinel {
	if !f.Terminated() {
		return SentinelNone
	}
	body := string(f.Command())
	for s := SentinelReceive; s <= SentinelAntenna3; s++ {
		if body == sentinelText[s] {
			return s
		}
	}
	return SentinelNone
}

// Frame builds the sentinel's wire form.
func (s Sentinel) Frame() Frame {
	return Build(sentinelText[s])
}

// Antenna returns the antenna number (1..3) selected by an antenna
// sentinel, or 0 for any other sentinel.
func (s Sentinel) Antenna() int {
	if s >= SentinelAntenna1 && s <= SentinelAntenna3 {
		return int(s-SentinelAntenna1) + 1
	}
	return 0
}

// String returns the sentinel's command text.
func (s Sentinel) String() string {
	if s > SentinelNone && int(s) < len(sentinelText) {
		return sentinelText[s]
	}
	return "none"
}
