package mqtt

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/amp.go/pkg/relay"
)

// Station topic layout, below the queue prefix.
const (
	// TopicCmd receives single-character operator commands.
	TopicCmd = "/cmd"
	// TopicReply carries dispatcher replies as JSON.
	TopicReply = "/reply"
	// TopicTele carries the retained status snapshot as JSON.
	TopicTele = "/tele"
	// TopicTrace carries sink trace lines.
	TopicTrace = "/trace"
)

// connectRetry paces reconnect attempts before the first successful
// connect; afterwards the client auto-reconnects on its own.
const connectRetry = 3 * time.Second

// defaultInterval is the telemetry publish pace.
const defaultInterval = time.Second

// Reply is the payload published on TopicReply.
type Reply struct {
	Cmd   string `json:"cmd"`
	Reply string `json:"reply,omitempty"`
	Error string `json:"error,omitempty"`
}

// Channel runs the MQTT side of the bridge: it accepts operator
// commands on the station's cmd topic and keeps a retained status
// snapshot on the tele topic.
type Channel struct {
	Queue   *Queue
	Station string
	State   *relay.State
	// Dispatch executes one command character; pkg/command provides
	// it.
	Dispatch func(c byte) (string, error)
	// Interval overrides the telemetry publish pace when positive.
	Interval time.Duration

	lastTele []byte
}

// Run connects and serves until ctx is done.
func (ch *Channel) Run(ctx context.Context) error {
	for {
		token := ch.Queue.Connect()
		token.Wait()
		if token.Error() == nil {
			break
		}
		glog.Warningf("mqtt connect: %v", token.Error())
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(connectRetry):
		}
	}
	defer ch.Queue.Close()

	ch.Queue.Sub(ch.Station+TopicCmd, ch.handleCmd)

	interval := ch.Interval
	if interval <= 0 {
		interval = defaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	ch.publishTele()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			ch.publishTele()
		}
	}
}

// Trace publishes one sink line; wire it as a sink subscriber.
func (ch *Channel) Trace(line string) {
	ch.Queue.Pub(ch.Station+TopicTrace, []byte(line))
}

func (ch *Channel) handleCmd(topic string, payload []byte) {
	if len(payload) == 0 {
		return
	}
	out := ch.reply(payload[0])
	b, err := json.Marshal(&out)
	if err != nil {
		glog.Errorf("marshal reply: %v", err)
		return
	}
	ch.Queue.Pub(ch.Station+TopicReply, b)
}

func (ch *Channel) reply(c byte) Reply {
	out := Reply{Cmd: string([]byte{c})}
	text, err := ch.Dispatch(c)
	if err != nil {
		out.Error = err.Error()
	} else {
		out.Reply = text
	}
	return out
}

// publishTele publishes the status snapshot when it changed since the
// last tick. The message is retained so late subscribers see the
// current state immediately.
func (ch *Channel) publishTele() {
	b, err := json.Marshal(ch.State.Snapshot())
	if err != nil {
		glog.Errorf("marshal status: %v", err)
		return
	}
	if bytes.Equal(b, ch.lastTele) {
		return
	}
	ch.lastTele = b
	ch.Queue.PubWith(ch.Station+TopicTele, b, 0, true)
}
