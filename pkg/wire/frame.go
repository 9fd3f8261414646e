package wire

import (
	"fmt"
	"strings"
	"time"
)

const (
	// Term is the terminator byte value. Comparisons against it must be
	// done on the unsigned byte type; the original firmware lost frames
	// by comparing through a signed char.
	Term byte = 0xff
	// TermRunLen is the number of consecutive Term bytes ending a frame.
	TermRunLen = 3
	// MaxFrameLen bounds the capture window of a single frame.
	MaxFrameLen = 64
	// Escape marks display frames that are consumed instead of relayed.
	Escape byte = 0x1b
	// ReadTimeout is the default capture window for one frame.
	ReadTimeout = 10 * time.Millisecond
)

// Frame is one terminator-delimited unit of the link protocol, including
// the trailing terminator run. Frames produced by Reader are never empty
// and never start with a terminator byte.
type Frame []byte

// Build makes a frame from ASCII command text.
func Build(cmd string) Frame {
	f := make(Frame, len(cmd)+TermRunLen)
	copy(f, cmd)
	for i := len(cmd); i < len(f); i++ {
		f[i] = Term
	}
	return f
}

// Command returns the frame bytes before the terminator run, or the
// whole frame if it is not terminated.
func (f Frame) Command() []byte {
	if f.Terminated() {
		return f[:len(f)-TermRunLen]
	}
	return f
}

// Terminated reports whether the frame ends in a full terminator run.
func (f Frame) Terminated() bool {
	if len(f) < TermRunLen {
		return false
	}
	for _, b := range f[len(f)-TermRunLen:] {
		if b != Term {
			return false
		}
	}
	return true
}

// String renders the frame with non-printable bytes as hex escapes.
func (f Frame) String() string {
	var w strings.Builder
	w.Grow(len(f) + 2*TermRunLen)
	for _, b := range f {
		if b >= 0x20 && b < 0x7f {
			w.WriteByte(b)
		} else {
			fmt.Fprintf(&w, `\x%02x`, b)
		}
	}
	return w.String()
}
