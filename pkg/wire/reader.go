package wire

import "time"

// ReadStatus is the outcome of one Reader.Read call.
type ReadStatus int

const (
	// ReadEmpty means no frame started: nothing available, or a stray
	// terminator byte was discarded.
	ReadEmpty ReadStatus = iota
	// ReadFrame means a complete frame was returned.
	ReadFrame
	// ReadIncomplete means a partial frame was discarded after the
	// capture window closed or the buffer filled up.
	ReadIncomplete
)

// String returns a short name of the status.
func (s ReadStatus) String() string {
	switch s {
	case ReadFrame:
		return "frame"
	case ReadIncomplete:
		return "incomplete"
	}
	return "empty"
}

// pollInterval paces polling while waiting for the rest of a frame.
const pollInterval = 200 * time.Microsecond

// Reader extracts one frame at a time from a byte source.
//
// A frame ends at the first run of TermRunLen terminator bytes. The
// terminator is not escaped, so a payload containing the run ends the
// frame early; that ambiguity belongs to the wire format and is kept
// for compatibility with both endpoints.
type Reader struct {
	// Timeout closes the capture window measured from the first byte
	// of the frame.
	Timeout time.Duration

	src        Source
	buf        []byte
	pending    byte
	hasPending bool
}

// NewReader creates a Reader over src with the default timeout.
func NewReader(src Source) *Reader {
	return &Reader{
		Timeout: ReadTimeout,
		src:     src,
		buf:     make([]byte, 0, MaxFrameLen),
	}
}

// Buffered returns the number of bytes queued on the source, counting
// a byte pushed back after terminator draining.
func (r *Reader) Buffered() int {
	n := r.src.Buffered()
	if r.hasPending {
		n++
	}
	return n
}

// Read polls the source until a frame completes, the capture window
// closes, or the source turns out to be idle. It never blocks past
// roughly the configured timeout.
func (r *Reader) Read() (Frame, ReadStatus) {
	r.buf = r.buf[:0]
	var start time.Time
	if r.hasPending {
		r.buf = append(r.buf, r.pending)
		r.hasPending = false
		start = time.Now()
	}
	for {
		b, ok := r.src.ReadByte()
		if !ok {
			if len(r.buf) == 0 {
				return nil, ReadEmpty
			}
			if time.Since(start) > r.Timeout {
				return nil, ReadIncomplete
			}
			time.Sleep(pollInterval)
			continue
		}
		if len(r.buf) == 0 {
			if b == Term {
				// Residue of a prior malformed capture, not a
				// one-byte frame.
				return nil, ReadEmpty
			}
			start = time.Now()
		}
		r.buf = append(r.buf, b)
		if Frame(r.buf).Terminated() {
			f := make(Frame, len(r.buf))
			copy(f, r.buf)
			r.drainTerm()
			return f, ReadFrame
		}
		if len(r.buf) >= MaxFrameLen {
			return nil, ReadIncomplete
		}
	}
}

// drainTerm consumes up to TermRunLen-1 terminator bytes the peer sends
// overlapping the end of a frame, so they do not open the next one. A
// non-terminator byte found instead is kept for the next Read.
func (r *Reader) drainTerm() {
	for i := 0; i < TermRunLen-1; i++ {
		b, ok := r.src.ReadByte()
		if !ok {
			return
		}
		if b != Term {
			r.pending, r.hasPending = b, true
			return
		}
	}
}
