// Package wire implements the amplifier link protocol.
package wire

// The link between the amplifier controller and its display carries ASCII
// command text delimited by a run of three 0xFF bytes. The terminator is
// part of the frame and is not escaped: a payload that happens to contain
// the run ends the frame early. That ambiguity is a property of the wire
// format itself and is reproduced here unchanged so both endpoints keep
// working behind the bridge.
//
// Producer: amplifier controller / display unit
// Consumer: relay engine (pkg/relay)
