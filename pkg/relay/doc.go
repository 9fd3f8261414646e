// Package relay forwards frames between the amplifier controller and
// its display while tracking link state.
package relay

// Frames from the controller carry telemetry records and mode
// sentinels; the relay inspects them, updates the shared State and
// suppresses what the telemetry filter rejects. Frames from the
// display pass through untouched except for the inherited escape-byte
// drop.
//
// Two interchangeable topologies drive the same Engine: Arbiter
// services both ports from a single loop, alternating with a
// starvation bound; Split runs one loop per direction and leans on the
// State mutex and the Sink mutex instead of arbitration.
//
// Producer: amplifier controller (port B), display unit (port A)
// Consumer: the opposite port, plus the external observe/inject channels
