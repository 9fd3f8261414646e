package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/net/websocket"

	"github.com/robotalks/amp.go/pkg/relay"
	"github.com/robotalks/amp.go/pkg/telemetry"
)

func stubDispatch(c byte) (string, error) {
	switch c {
	case 's':
		return "ok", nil
	case 'o':
		return "power on", nil
	}
	return "", errors.New("unknown command")
}

func dialTest(t *testing.T, s *Server) *websocket.Conn {
	ts := httptest.NewServer(websocket.Handler(s.serve))
	t.Cleanup(ts.Close)
	conn, err := websocket.Dial("ws"+strings.TrimPrefix(ts.URL, "http"), "", ts.URL)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func recvEvent(t *testing.T, conn *websocket.Conn) Event {
	var text string
	require.NoError(t, websocket.Message.Receive(conn, &text))
	var ev Event
	require.NoError(t, json.Unmarshal([]byte(text), &ev))
	return ev
}

func TestServerStatusAndReplies(t *testing.T) {
	state := relay.NewState()
	state.SetMode(relay.ModeTransmit)
	state.SetAntenna(2)
	state.Sample(telemetry.Voltage, 132)
	s := &Server{State: state, Dispatch: stubDispatch}
	conn := dialTest(t, s)

	ev := recvEvent(t, conn)
	require.Equal(t, EventStatus, ev.Type)
	require.NotNil(t, ev.Status)
	require.Equal(t, relay.ModeTransmit, ev.Status.Mode)
	require.Equal(t, 2, ev.Status.Antenna)
	require.Equal(t, 132, ev.Status.Values.Voltage)

	require.NoError(t, websocket.Message.Send(conn, "s"))
	ev = recvEvent(t, conn)
	require.Equal(t, Event{Type: EventReply, Cmd: "s", Reply: "ok"}, ev)

	require.NoError(t, websocket.Message.Send(conn, "q"))
	ev = recvEvent(t, conn)
	require.Equal(t, Event{Type: EventReply, Cmd: "q", Error: "unknown command"}, ev)

	// Only the first character counts, empty messages are ignored.
	require.NoError(t, websocket.Message.Send(conn, ""))
	require.NoError(t, websocket.Message.Send(conn, "o!"))
	ev = recvEvent(t, conn)
	require.Equal(t, Event{Type: EventReply, Cmd: "o", Reply: "power on"}, ev)
}

func TestServerBroadcast(t *testing.T) {
	s := &Server{State: relay.NewState(), Dispatch: stubDispatch}
	a := dialTest(t, s)
	b := dialTest(t, s)
	// The initial status event confirms registration.
	recvEvent(t, a)
	recvEvent(t, b)

	s.Trace("B>A t.val=251")
	for _, conn := range []*websocket.Conn{a, b} {
		ev := recvEvent(t, conn)
		require.Equal(t, Event{Type: EventTrace, Line: "B>A t.val=251"}, ev)
	}
}

func TestServerRunStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{Addr: "127.0.0.1:0", State: relay.NewState(), Dispatch: stubDispatch}
	errCh := make(chan error, 1)
	go func() { errCh <- s.Run(ctx) }()
	cancel()
	require.Equal(t, context.Canceled, <-errCh)
}
