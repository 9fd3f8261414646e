// Package uart adapts physical serial ports to the wire.Port
// interface. Reads go through a short hardware timeout and an internal
// buffer, so the frame reader sees non-blocking byte polls.
package uart

import (
	"time"

	"github.com/golang/glog"
	"go.bug.st/serial"
)

// readChunk is the bulk read size per poll.
const readChunk = 256

// portReadTimeout paces hardware reads; every ReadByte on a quiet port
// returns within roughly this long.
const portReadTimeout = time.Millisecond

// portHandle is the slice of go.bug.st/serial.Port this package uses.
type portHandle interface {
	SetReadTimeout(timeout time.Duration) error
	Read([]byte) (int, error)
	Write([]byte) (int, error)
	Close() error
}

// openPort allows tests to override the hardware dependency.
var openPort = func(name string, mode *serial.Mode) (portHandle, error) {
	return serial.Open(name, mode)
}

// Port is a physical serial port in 8N1 framing.
type Port struct {
	Device string

	handle     portHandle
	chunk      [readChunk]byte
	buf        []byte
	readFailed bool
}

// Open opens a serial device at the given baud rate.
func Open(device string, baud int) (*Port, error) {
	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	h, err := openPort(device, mode)
	if err != nil {
		return nil, err
	}
	if err = h.SetReadTimeout(portReadTimeout); err != nil {
		h.Close()
		return nil, err
	}
	return &Port{Device: device, handle: h}, nil
}

// ReadByte returns the next received byte if one arrives within the
// hardware read timeout.
func (p *Port) ReadByte() (byte, bool) {
	if len(p.buf) == 0 {
		p.fill()
	}
	if len(p.buf) == 0 {
		return 0, false
	}
	b := p.buf[0]
	p.buf = p.buf[1:]
	return b, true
}

// Buffered returns the number of received bytes not yet delivered.
func (p *Port) Buffered() int {
	return len(p.buf)
}

// Write sends bytes to the device.
func (p *Port) Write(b []byte) (int, error) {
	return p.handle.Write(b)
}

// Close closes the device.
func (p *Port) Close() error {
	return p.handle.Close()
}

// fill pulls the next chunk off the hardware. Read errors are logged
// once until a read succeeds again, so a yanked USB adapter does not
// flood the log.
func (p *Port) fill() {
	n, err := p.handle.Read(p.chunk[:])
	if err != nil {
		if !p.readFailed {
			p.readFailed = true
			glog.Warningf("read %s: %v", p.Device, err)
		}
		return
	}
	p.readFailed = false
	p.buf = p.chunk[:n]
}
