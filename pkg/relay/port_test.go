package relay

import (
	"bytes"

	"github.com/robotalks/amp.go/pkg/wire"
)

// fakePort queues bytes for the read side and captures the write side,
// standing in for a serial port on both ends.
type fakePort struct {
	in        []byte
	out       bytes.Buffer
	onDrained func()
}

func newFakePort() *fakePort {
	return &fakePort{}
}

func (p *fakePort) queue(frames ...wire.Frame) *fakePort {
	for _, f := range frames {
		p.in = append(p.in, f...)
	}
	return p
}

func (p *fakePort) ReadByte() (byte, bool) {
	if len(p.in) == 0 {
		if p.onDrained != nil {
			p.onDrained()
		}
		return 0, false
	}
	b := p.in[0]
	p.in = p.in[1:]
	return b, true
}

func (p *fakePort) Buffered() int {
	return len(p.in)
}

func (p *fakePort) Write(b []byte) (int, error) {
	return p.out.Write(b)
}

// written renders everything written to the port, with terminators as
// hex escapes, for compact assertions.
func (p *fakePort) written() string {
	return wire.Frame(p.out.Bytes()).String()
}

// frameLog captures frames written through a wire.FrameWriter.
type frameLog struct {
	frames []string
}

func (l *frameLog) WriteFrame(f wire.Frame) error {
	l.frames = append(l.frames, f.String())
	return nil
}
