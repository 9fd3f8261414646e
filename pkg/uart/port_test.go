package uart

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.bug.st/serial"

	"github.com/robotalks/amp.go/pkg/wire"
)

type fakeHandle struct {
	data    []byte
	wrote   bytes.Buffer
	readErr error
	timeout time.Duration
	closed  bool
}

func (f *fakeHandle) SetReadTimeout(d time.Duration) error {
	f.timeout = d
	return nil
}

func (f *fakeHandle) Read(p []byte) (int, error) {
	if f.readErr != nil {
		err := f.readErr
		f.readErr = nil
		return 0, err
	}
	n := copy(p, f.data)
	f.data = f.data[n:]
	return n, nil
}

func (f *fakeHandle) Write(p []byte) (int, error) {
	return f.wrote.Write(p)
}

func (f *fakeHandle) Close() error {
	f.closed = true
	return nil
}

func TestOpenMode(t *testing.T) {
	fake := &fakeHandle{}
	var gotDevice string
	var gotMode serial.Mode
	orig := openPort
	openPort = func(name string, mode *serial.Mode) (portHandle, error) {
		gotDevice = name
		gotMode = *mode
		return fake, nil
	}
	t.Cleanup(func() { openPort = orig })

	p, err := Open("/dev/ttyUSB0", 9600)
	require.NoError(t, err)
	require.Equal(t, "/dev/ttyUSB0", gotDevice)
	require.Equal(t, 9600, gotMode.BaudRate)
	require.Equal(t, 8, gotMode.DataBits)
	require.Equal(t, serial.NoParity, gotMode.Parity)
	require.Equal(t, serial.OneStopBit, gotMode.StopBits)
	require.Equal(t, portReadTimeout, fake.timeout)

	require.NoError(t, p.Close())
	require.True(t, fake.closed)
}

func TestOpenFailure(t *testing.T) {
	orig := openPort
	openPort = func(string, *serial.Mode) (portHandle, error) {
		return nil, errors.New("no such device")
	}
	t.Cleanup(func() { openPort = orig })

	_, err := Open("/dev/ttyUSB9", 9600)
	require.Error(t, err)
}

func TestPortReadsFrames(t *testing.T) {
	fake := &fakeHandle{data: append(wire.Build("v.val=132"), wire.Build("page 0")...)}
	orig := openPort
	openPort = func(string, *serial.Mode) (portHandle, error) { return fake, nil }
	t.Cleanup(func() { openPort = orig })

	p, err := Open("/dev/ttyUSB0", 9600)
	require.NoError(t, err)

	rd := wire.NewReader(p)
	f, st := rd.Read()
	require.Equal(t, wire.ReadFrame, st)
	require.Equal(t, "v.val=132", string(f.Command()))
	require.True(t, p.Buffered() > 0, "second frame still buffered")

	f, st = rd.Read()
	require.Equal(t, wire.ReadFrame, st)
	require.Equal(t, "page 0", string(f.Command()))
}

func TestPortWrite(t *testing.T) {
	fake := &fakeHandle{}
	orig := openPort
	openPort = func(string, *serial.Mode) (portHandle, error) { return fake, nil }
	t.Cleanup(func() { openPort = orig })

	p, err := Open("/dev/ttyUSB0", 9600)
	require.NoError(t, err)
	n, err := p.Write(wire.Build("ant=2"))
	require.NoError(t, err)
	require.Equal(t, len(wire.Build("ant=2")), n)
	require.Equal(t, []byte(wire.Build("ant=2")), fake.wrote.Bytes())
}

func TestPortReadErrorRecovers(t *testing.T) {
	fake := &fakeHandle{readErr: errors.New("device unplugged")}
	orig := openPort
	openPort = func(string, *serial.Mode) (portHandle, error) { return fake, nil }
	t.Cleanup(func() { openPort = orig })

	p, err := Open("/dev/ttyUSB0", 9600)
	require.NoError(t, err)

	_, ok := p.ReadByte()
	require.False(t, ok, "failed read delivers nothing")

	fake.data = []byte{'x'}
	b, ok := p.ReadByte()
	require.True(t, ok)
	require.Equal(t, byte('x'), b)
}
