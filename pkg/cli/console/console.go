// Package console provides the ishell backed interactive console. It
// talks to a running bridge daemon over MQTT: commands go to the
// station's cmd topic, replies come back on the reply topic.
package console

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/abiosoft/ishell"
	"github.com/golang/glog"

	"github.com/robotalks/amp.go/pkg/remote/mqtt"
)

// Config provides the options to reach a station.
type Config struct {
	// BrokerURL specifies the MQTT broker to use.
	// e.g. mqtt://host:port/topic-prefix
	BrokerURL string
	// Station is the station topic below the prefix. Empty selects
	// this machine's identity.
	Station string
}

var defaultConfig = Config{
	BrokerURL: "mqtt://localhost:1883/amp/",
}

func init() {
	if val := os.Getenv("AMP_MQTT_URL"); val != "" {
		defaultConfig.BrokerURL = val
	}
	if val := os.Getenv("AMP_STATION"); val != "" {
		defaultConfig.Station = val
	}
}

// SetupFlags sets up command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.BrokerURL, "mqtt", defaultConfig.BrokerURL, "MQTT broker URL.")
	flag.StringVar(&defaultConfig.Station, "station", defaultConfig.Station, "Station topic.")
}

// Default gets the default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// Console is an interactive shell bound to one station.
type Console struct {
	Interactive bool
	Station     string

	Shell  *ishell.Shell
	Config *Config
	Queue  *mqtt.Queue

	replyCh chan mqtt.Reply
}

const (
	consoleKey        = "$console"
	unconnectedPrompt = "[none] > "

	replyTimeout = 2 * time.Second
)

var (
	// flags

	evalOnly bool

	// commands are registered by init funcs via AddCmds.
	commands []*ishell.Cmd
)

func init() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
}

// AddCmds is used by command providers during init func.
func AddCmds(cmds ...*ishell.Cmd) {
	commands = append(commands, cmds...)
}

// New creates a new console.
func New(conf *Config) *Console {
	s := &Console{
		Interactive: !evalOnly,

		Shell:   ishell.New(),
		Config:  conf,
		replyCh: make(chan mqtt.Reply, 1),
	}
	s.Shell.Set(consoleKey, s)
	s.Shell.SetPrompt(unconnectedPrompt)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ConsoleFrom gets Console from ishell context.
func ConsoleFrom(c *ishell.Context) *Console {
	return c.Get(consoleKey).(*Console)
}

// MustBeConnected wraps command func requires a connection.
func MustBeConnected(fn func(c *ishell.Context)) func(c *ishell.Context) {
	return func(c *ishell.Context) {
		if ConsoleFrom(c).Queue == nil {
			c.Err(fmt.Errorf("not connected"))
			return
		}
		fn(c)
	}
}

// Connect connects the broker and subscribes the station's reply
// topic.
func (s *Console) Connect() error {
	q, err := mqtt.NewQueueFromURL(s.Config.BrokerURL)
	if err != nil {
		return err
	}
	station := s.Config.Station
	if station == "" {
		station = mqtt.DefaultStation()
	}
	token := q.Connect()
	token.Wait()
	if err = token.Error(); err != nil {
		return err
	}
	q.Sub(station+mqtt.TopicReply, s.onReply)
	s.Queue, s.Station = q, station
	s.Shell.SetPrompt(station + " > ")
	return nil
}

func (s *Console) onReply(_ string, payload []byte) {
	var reply mqtt.Reply
	if err := json.Unmarshal(payload, &reply); err != nil {
		glog.Warningf("bad reply: %v", err)
		return
	}
	select {
	case s.replyCh <- reply:
	default:
	}
}

// Send sends one command character and waits for the reply.
func (s *Console) Send(c *ishell.Context, cmd byte) error {
	// drop a stale reply left over from a timed out command
	select {
	case <-s.replyCh:
	default:
	}
	s.Queue.Pub(s.Station+mqtt.TopicCmd, []byte{cmd})
	select {
	case reply := <-s.replyCh:
		if reply.Error != "" {
			err := errors.New(reply.Error)
			c.Err(err)
			return err
		}
		c.Println(reply.Reply)
		return nil
	case <-time.After(replyTimeout):
		err := fmt.Errorf("command timeout")
		c.Err(err)
		return err
	}
}

// Run runs the console.
func (s *Console) Run(args ...string) {
	if s.Interactive {
		s.Shell.Printf("Connecting %s ...\n", s.Config.BrokerURL)
	}
	if err := s.Connect(); err != nil {
		log.Fatalf("connect %q failed: %v", s.Config.BrokerURL, err)
	}
	defer s.Queue.Close()

	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			log.Fatalln(err)
		}
		return
	}
	if s.Interactive {
		s.Shell.Run()
		return
	}
	log.Fatalln("command expected")
}

// Main is a helper to provide a single call in main.
func Main() {
	flag.Parse()
	New(NewConfig()).Run(flag.Args()...)
}
