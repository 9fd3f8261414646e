package relay

import (
	"io"
	"sync"

	"github.com/golang/glog"

	"github.com/robotalks/amp.go/pkg/wire"
)

// Sink records relayed traffic as one printable line per frame and
// fans the lines out to subscribers.
type Sink struct {
	mu   sync.Mutex
	w    io.Writer
	subs []func(string)
}

// NewSink creates a Sink writing to w; w may be nil when only
// subscribers consume the trace.
func NewSink(w io.Writer) *Sink {
	return &Sink{w: w}
}

// Notify registers fn to receive every trace line. Not safe to call
// concurrently with Log.
func (s *Sink) Notify(fn func(string)) {
	s.subs = append(s.subs, fn)
}

// Log formats one frame with its direction marker and emits the line.
// Writers are serialized; subscribers run outside the lock.
func (s *Sink) Log(dir Direction, f wire.Frame) {
	line := dir.String() + " " + f.String()
	if s.w != nil {
		s.mu.Lock()
		if _, err := io.WriteString(s.w, line+"\n"); err != nil {
			glog.Warningf("trace write: %v", err)
		}
		s.mu.Unlock()
	}
	for _, fn := range s.subs {
		fn(line)
	}
}
