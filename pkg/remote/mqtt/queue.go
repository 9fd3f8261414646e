// Package mqtt exposes the bridge over an MQTT broker: telemetry and
// trace out, operator commands in.
package mqtt

import (
	"net/url"
	"strings"
	"sync"

	"github.com/denisbrodbeck/machineid"
	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/golang/glog"
)

// Handler is the callback when a message is received. The topic comes
// without the queue's prefix.
type Handler func(topic string, payload []byte)

// Queue wraps the MQTT client with a topic prefix. Subscriptions
// survive reconnects.
type Queue struct {
	Client      paho.Client
	TopicPrefix string
	OnConnect   func(*Queue)

	subsLock sync.Mutex
	subs     map[string]paho.MessageHandler
}

// ClientOptionsFromURL creates ClientOptions from URL. The path is the
// topic prefix, e.g. mqtt://host:1883/amp/.
func ClientOptionsFromURL(serverURL string) (*paho.ClientOptions, string, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return nil, "", err
	}
	var server string
	if u.Scheme == "" || u.Scheme == "mqtt" {
		server = "tcp"
	} else {
		server = u.Scheme
	}
	server += "://" + u.Host

	topicPrefix := strings.TrimPrefix(u.Path, "/")

	opts := paho.NewClientOptions()
	opts.AddBroker(server).
		SetAutoReconnect(true).
		SetCleanSession(true)
	if u.User != nil {
		opts.SetUsername(u.User.Username())
		if pwd, ok := u.User.Password(); ok {
			opts.SetPassword(pwd)
		}
	}

	if clientID := u.Query().Get("client-id"); clientID != "" {
		opts.SetClientID(clientID)
	}

	return opts, topicPrefix, nil
}

// NewQueue creates Queue.
func NewQueue(options *paho.ClientOptions, topicPrefix string) *Queue {
	q := &Queue{TopicPrefix: topicPrefix}
	options.SetOnConnectHandler(q.onConnect)
	options.SetConnectionLostHandler(q.onConnectionLost)
	q.Client = paho.NewClient(options)
	return q
}

// NewQueueFromURL creates Queue from URL.
func NewQueueFromURL(brokerURL string) (*Queue, error) {
	opts, topicPrefix, err := ClientOptionsFromURL(brokerURL)
	if err != nil {
		return nil, err
	}
	return NewQueue(opts, topicPrefix), nil
}

// Connect connects the client.
func (q *Queue) Connect() paho.Token {
	return q.Client.Connect()
}

// Close implements io.Closer.
func (q *Queue) Close() error {
	q.Client.Disconnect(0)
	return nil
}

// Sub subscribes a topic below the prefix.
func (q *Queue) Sub(topic string, handler Handler) paho.Token {
	cb := q.callback(handler)
	q.subsLock.Lock()
	if q.subs == nil {
		q.subs = make(map[string]paho.MessageHandler)
	}
	q.subs[topic] = cb
	q.subsLock.Unlock()
	glog.V(2).Infof("SUB %q", q.TopicPrefix+topic)
	return q.Client.Subscribe(q.TopicPrefix+topic, 0, cb)
}

// Unsub unsubscribes a topic.
func (q *Queue) Unsub(topic string) paho.Token {
	q.subsLock.Lock()
	delete(q.subs, topic)
	q.subsLock.Unlock()
	glog.V(2).Infof("UNSUB %q", q.TopicPrefix+topic)
	return q.Client.Unsubscribe(q.TopicPrefix + topic)
}

// Pub publishes to a topic below the prefix.
func (q *Queue) Pub(topic string, payload []byte) paho.Token {
	return q.PubWith(topic, payload, 0, false)
}

// PubWith publishes with QoS and retain settings.
func (q *Queue) PubWith(topic string, payload []byte, qos byte, retain bool) paho.Token {
	return q.Client.Publish(q.TopicPrefix+topic, qos, retain, payload)
}

func (q *Queue) callback(h Handler) paho.MessageHandler {
	return func(_ paho.Client, msg paho.Message) {
		topic := msg.Topic()
		glog.V(2).Infof("RCV %q", topic)
		topic = strings.TrimPrefix(topic, q.TopicPrefix)
		h(topic, msg.Payload())
	}
}

func (q *Queue) onConnect(paho.Client) {
	glog.Info("connected")
	q.subsLock.Lock()
	subs := make(map[string]paho.MessageHandler, len(q.subs))
	for topic, cb := range q.subs {
		subs[q.TopicPrefix+topic] = cb
	}
	q.subsLock.Unlock()
	for topic, cb := range subs {
		glog.V(2).Infof("SUB %q", topic)
		q.Client.Subscribe(topic, 0, cb)
	}
	if h := q.OnConnect; h != nil {
		h(q)
	}
}

func (q *Queue) onConnectionLost(c paho.Client, err error) {
	glog.Warningf("connection lost: %v", err)
}

// DefaultStation derives the station topic from the machine identity.
func DefaultStation() string {
	id, err := machineid.ID()
	if err != nil {
		panic(err)
	}
	return id
}
