// Package telemetry maintains per-channel sample windows and rejects
// outlier readings reported by the amplifier controller.
package telemetry

// Channel is one of the six measured quantities. The value of each
// constant is the channel's key character on the wire.
type Channel byte

const (
	// Voltage is the drain voltage in tenths of a volt.
	Voltage Channel = 'v'
	// Current is the drain current in tenths of an ampere.
	Current Channel = 'c'
	// SWR is the standing wave ratio in tenths.
	SWR Channel = 's'
	// Reflected is the reflected power in tenths of a watt.
	Reflected Channel = 'r'
	// Power is the output power in tenths of a watt.
	Power Channel = 'p'
	// Temperature is the heat sink temperature in tenths of a degree.
	Temperature Channel = 't'
)

// String returns the channel name.
func (c Channel) String() string {
	switch c {
	case Voltage:
		return "voltage"
	case Current:
		return "current"
	case SWR:
		return "swr"
	case Reflected:
		return "reflected"
	case Power:
		return "power"
	case Temperature:
		return "temperature"
	}
	return "unknown"
}

// Values is a read-only snapshot of the last accepted value per
// channel, in raw tenths.
type Values struct {
	Voltage     int `json:"voltage"`
	Current     int `json:"current"`
	SWR         int `json:"swr"`
	Reflected   int `json:"reflected"`
	Power       int `json:"power"`
	Temperature int `json:"temperature"`
}
