package relay

import (
	"io"
	"sync"

	"github.com/robotalks/amp.go/pkg/wire"
)

// Outlet is the write side of one port. The relay loop, the mode
// tracker and the external command channels all write frames through
// it, possibly from different goroutines, so writes are serialized to
// keep frames whole on the wire.
type Outlet struct {
	mu sync.Mutex
	w  io.Writer
}

// NewOutlet wraps a port writer.
func NewOutlet(w io.Writer) *Outlet {
	return &Outlet{w: w}
}

// WriteFrame implements wire.FrameWriter.
func (o *Outlet) WriteFrame(f wire.Frame) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	_, err := o.w.Write(f)
	return err
}
