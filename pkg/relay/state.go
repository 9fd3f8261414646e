package relay

import (
	"sync"

	"github.com/robotalks/amp.go/pkg/telemetry"
)

// Stats counts relay activity. Counters are diagnostic only; frames
// are never retried based on them.
type Stats struct {
	DisplayFrames    int64 `json:"display_frames"`
	ControllerFrames int64 `json:"controller_frames"`
	Incomplete       int64 `json:"incomplete"`
	MalformedRecords int64 `json:"malformed_records"`
	OutOfRange       int64 `json:"out_of_range"`
	Outliers         int64 `json:"outliers"`
	EscapeDrops      int64 `json:"escape_drops"`
	ModeRecoveries   int64 `json:"mode_recoveries"`
}

// Status is a point-in-time copy of the relay state for status
// reporting and the observe channels.
type Status struct {
	Mode    Mode             `json:"mode"`
	Antenna int              `json:"antenna"`
	Beep    bool             `json:"beep"`
	Verbose bool             `json:"verbose"`
	Values  telemetry.Values `json:"telemetry"`
	Stats   Stats            `json:"stats"`
}

// State is the relay's shared mutable state. The controller>display
// context writes mode, antenna and telemetry (through Tracker and
// Sample); the command dispatcher writes the beep/verbose flags;
// everyone else reads through Snapshot. One mutex covers it all: every
// critical section is a handful of integer moves.
type State struct {
	mu      sync.Mutex
	mode    Mode
	antenna int
	beep    bool
	verbose bool
	filter  *telemetry.Filter
	stats   Stats
}

// NewState creates a State in receive mode on antenna 1.
func NewState() *State {
	return &State{
		antenna: 1,
		filter:  telemetry.NewFilter(),
	}
}

// Mode returns the current link mode.
func (s *State) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// SetMode stores the link mode. The Tracker is the only writer.
func (s *State) SetMode(m Mode) {
	s.mu.Lock()
	s.mode = m
	s.mu.Unlock()
}

// Antenna returns the current antenna number (1..3).
func (s *State) Antenna() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.antenna
}

// SetAntenna stores the antenna number. The Tracker is the only
// writer.
func (s *State) SetAntenna(n int) {
	s.mu.Lock()
	s.antenna = n
	s.mu.Unlock()
}

// Beep returns the beep flag.
func (s *State) Beep() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.beep
}

// SetBeep stores the beep flag. The command dispatcher is the only
// writer after startup.
func (s *State) SetBeep(on bool) {
	s.mu.Lock()
	s.beep = on
	s.mu.Unlock()
}

// Verbose returns the verbose flag.
func (s *State) Verbose() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.verbose
}

// SetVerbose stores the verbose flag. The command dispatcher is the
// only writer after startup.
func (s *State) SetVerbose(on bool) {
	s.mu.Lock()
	s.verbose = on
	s.mu.Unlock()
}

// Sample admits one telemetry sample under the current mode and
// reports whether the frame carrying it may be relayed.
func (s *State) Sample(ch telemetry.Channel, raw int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	verdict := s.filter.Update(ch, raw, s.mode == ModeTransmit)
	switch verdict {
	case telemetry.VerdictOutOfRange:
		s.stats.OutOfRange++
	case telemetry.VerdictOutlier:
		s.stats.Outliers++
	}
	return verdict.Forwardable()
}

// ResetIdle returns the transmit-time channels to idle readings; see
// telemetry.Filter.ResetIdle.
func (s *State) ResetIdle() {
	s.mu.Lock()
	s.filter.ResetIdle()
	s.mu.Unlock()
}

// Snapshot copies the whole state consistently.
func (s *State) Snapshot() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Status{
		Mode:    s.mode,
		Antenna: s.antenna,
		Beep:    s.beep,
		Verbose: s.verbose,
		Values:  s.filter.Snapshot(),
		Stats:   s.stats,
	}
}

// CountFrame records one relayed frame.
func (s *State) CountFrame(dir Direction) {
	s.mu.Lock()
	if dir == ControllerToDisplay {
		s.stats.ControllerFrames++
	} else {
		s.stats.DisplayFrames++
	}
	s.mu.Unlock()
}

// CountIncomplete records one abandoned capture.
func (s *State) CountIncomplete() {
	s.mu.Lock()
	s.stats.Incomplete++
	s.mu.Unlock()
}

// CountMalformed records one malformed state-update record.
func (s *State) CountMalformed() {
	s.mu.Lock()
	s.stats.MalformedRecords++
	s.mu.Unlock()
}

// CountEscapeDrop records one display frame dropped for its leading
// escape byte.
func (s *State) CountEscapeDrop() {
	s.mu.Lock()
	s.stats.EscapeDrops++
	s.mu.Unlock()
}

// CountRecovery records one self-healed mode transition.
func (s *State) CountRecovery() {
	s.mu.Lock()
	s.stats.ModeRecoveries++
	s.mu.Unlock()
}
