// Package ws serves the bridge over WebSocket: a JSON event stream
// out, single-character operator commands in.
package ws

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/golang/glog"
	"golang.org/x/net/websocket"

	"github.com/robotalks/amp.go/pkg/relay"
	"github.com/robotalks/amp.go/pkg/run"
)

// Event types.
const (
	EventStatus = "status"
	EventReply  = "reply"
	EventTrace  = "trace"
)

// defaultInterval is the status push pace.
const defaultInterval = time.Second

// Event is one message to a client.
type Event struct {
	Type   string        `json:"type"`
	Line   string        `json:"line,omitempty"`
	Cmd    string        `json:"cmd,omitempty"`
	Reply  string        `json:"reply,omitempty"`
	Error  string        `json:"error,omitempty"`
	Status *relay.Status `json:"status,omitempty"`
}

// client is one connected WebSocket peer with serialized sends.
type client struct {
	conn     *websocket.Conn
	sendLock sync.Mutex
}

func (c *client) send(ev *Event) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	c.sendLock.Lock()
	defer c.sendLock.Unlock()
	return websocket.Message.Send(c.conn, string(b))
}

// Server accepts WebSocket clients, pushes status and trace events and
// dispatches received commands.
type Server struct {
	Addr  string
	State *relay.State
	// Dispatch executes one command character; pkg/command provides
	// it.
	Dispatch func(c byte) (string, error)
	// Interval overrides the status push pace when positive.
	Interval time.Duration

	connsLock sync.Mutex
	conns     map[*client]struct{}
	lastTele  []byte
}

// Run listens and serves until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}
	glog.Infof("websocket on %s", ln.Addr())
	go s.pushLoop(ctx)
	srv := &http.Server{Handler: websocket.Handler(s.serve)}
	return run.RunWithContextCloser(ctx, ln, func() error {
		return srv.Serve(ln)
	})
}

// Trace fans one sink line to every client; wire it as a sink
// subscriber.
func (s *Server) Trace(line string) {
	s.Broadcast(&Event{Type: EventTrace, Line: line})
}

// Broadcast sends an event to every connected client.
func (s *Server) Broadcast(ev *Event) {
	s.connsLock.Lock()
	clients := make([]*client, 0, len(s.conns))
	for cl := range s.conns {
		clients = append(clients, cl)
	}
	s.connsLock.Unlock()
	for _, cl := range clients {
		if err := cl.send(ev); err != nil {
			glog.V(2).Infof("websocket send: %v", err)
		}
	}
}

// serve pumps one client connection: current status first, then a
// reply event per received command.
func (s *Server) serve(conn *websocket.Conn) {
	cl := &client{conn: conn}
	s.add(cl)
	defer s.remove(cl)

	st := s.State.Snapshot()
	if err := cl.send(&Event{Type: EventStatus, Status: &st}); err != nil {
		return
	}
	for {
		var text string
		if err := websocket.Message.Receive(conn, &text); err != nil {
			if err != io.EOF {
				glog.V(2).Infof("websocket receive: %v", err)
			}
			return
		}
		if len(text) == 0 {
			continue
		}
		ev := Event{Type: EventReply, Cmd: text[:1]}
		reply, err := s.Dispatch(text[0])
		if err != nil {
			ev.Error = err.Error()
		} else {
			ev.Reply = reply
		}
		if err := cl.send(&ev); err != nil {
			return
		}
	}
}

// pushLoop pushes the status snapshot to all clients when it changes.
func (s *Server) pushLoop(ctx context.Context) {
	interval := s.Interval
	if interval <= 0 {
		interval = defaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.pushStatus()
		}
	}
}

func (s *Server) pushStatus() {
	st := s.State.Snapshot()
	b, err := json.Marshal(&st)
	if err != nil {
		glog.Errorf("marshal status: %v", err)
		return
	}
	if bytes.Equal(b, s.lastTele) {
		return
	}
	s.lastTele = b
	s.Broadcast(&Event{Type: EventStatus, Status: &st})
}

func (s *Server) add(cl *client) {
	s.connsLock.Lock()
	if s.conns == nil {
		s.conns = make(map[*client]struct{})
	}
	s.conns[cl] = struct{}{}
	s.connsLock.Unlock()
}

func (s *Server) remove(cl *client) {
	s.connsLock.Lock()
	delete(s.conns, cl)
	s.connsLock.Unlock()
}
