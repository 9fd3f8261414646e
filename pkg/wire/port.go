package wire

import "io"

// Source yields bytes from one physical endpoint without blocking.
type Source interface {
	// ReadByte returns the next byte, or false if nothing is
	// available right now.
	ReadByte() (byte, bool)
	// Buffered reports how many bytes are already waiting.
	Buffered() int
}

// Port is one physical serial endpoint.
type Port interface {
	Source
	io.Writer
}

// FrameWriter writes one complete frame.
type FrameWriter interface {
	WriteFrame(Frame) error
}
