// Package config resolves the bridge daemon configuration: built-in
// defaults, then the optional TOML file, then explicitly set command
// line flags, in increasing precedence.
package config

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/robotalks/amp.go/pkg/relay"
	"github.com/robotalks/amp.go/pkg/wire"
)

// Relay topologies.
const (
	// TopologySingle services both ports from one alternating loop.
	TopologySingle = "single"
	// TopologySplit gives each direction its own goroutine.
	TopologySplit = "split"
)

// Config carries everything the daemon needs to come up.
type Config struct {
	// Display is the serial device of the display unit (port A).
	Display     string
	DisplayBaud int
	// Controller is the serial device of the amplifier controller
	// (port B).
	Controller     string
	ControllerBaud int

	Topology    string
	StarveLimit int
	ReadTimeout time.Duration

	// MQTTURL names the broker and topic prefix,
	// e.g. mqtt://host:port/amp/. Empty disables MQTT.
	MQTTURL string
	// Station is the per-station topic segment; defaults to the
	// machine id when left empty.
	Station string

	// WSListen is the WebSocket listen address; empty disables it.
	WSListen string

	// SettingsPath locates the persisted settings file; empty disables
	// persistence.
	SettingsPath string
	// Trace echoes every relayed frame to stdout.
	Trace bool
}

var defaultConfig = Config{
	DisplayBaud:    9600,
	ControllerBaud: 9600,
	Topology:       TopologySplit,
	StarveLimit:    relay.DefaultStarveLimit,
	ReadTimeout:    wire.ReadTimeout,
	MQTTURL:        "mqtt://localhost:1883/amp/",
	SettingsPath:   "amp-settings.toml",
}

var configFile string

func init() {
	if val := os.Getenv("AMP_MQTT_URL"); val != "" {
		defaultConfig.MQTTURL = val
	}
}

// SetupFlags sets up command line flags.
func SetupFlags() {
	flag.StringVar(&configFile, "config", configFile, "Configuration file (TOML).")
	flag.StringVar(&defaultConfig.Display, "display", defaultConfig.Display, "Display serial device (port A).")
	flag.IntVar(&defaultConfig.DisplayBaud, "display-baud", defaultConfig.DisplayBaud, "Display baud rate.")
	flag.StringVar(&defaultConfig.Controller, "controller", defaultConfig.Controller, "Controller serial device (port B).")
	flag.IntVar(&defaultConfig.ControllerBaud, "controller-baud", defaultConfig.ControllerBaud, "Controller baud rate.")
	flag.StringVar(&defaultConfig.Topology, "topology", defaultConfig.Topology, "Relay topology: single or split.")
	flag.IntVar(&defaultConfig.StarveLimit, "starve-limit", defaultConfig.StarveLimit, "Frames one direction may relay back-to-back (single topology).")
	flag.DurationVar(&defaultConfig.ReadTimeout, "read-timeout", defaultConfig.ReadTimeout, "Frame capture window.")
	flag.StringVar(&defaultConfig.MQTTURL, "mqtt", defaultConfig.MQTTURL, "MQTT broker URL, empty to disable.")
	flag.StringVar(&defaultConfig.Station, "station", defaultConfig.Station, "Station topic name (defaults to machine id).")
	flag.StringVar(&defaultConfig.WSListen, "ws", defaultConfig.WSListen, "WebSocket listen address, empty to disable.")
	flag.StringVar(&defaultConfig.SettingsPath, "settings", defaultConfig.SettingsPath, "Settings file path, empty to disable persistence.")
	flag.BoolVar(&defaultConfig.Trace, "trace", defaultConfig.Trace, "Echo relayed frames to stdout.")
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

// Load resolves the effective configuration after flag.Parse. Values
// from the file never override flags given on the command line.
func Load() (*Config, error) {
	conf := NewConfig()
	if configFile != "" {
		if err := loadFile(configFile, conf, flagsSet()); err != nil {
			return nil, err
		}
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

// MustLoad resolves the configuration and fails on error.
func MustLoad() *Config {
	conf, err := Load()
	if err != nil {
		log.Fatalln(err)
	}
	return conf
}

// Validate checks the configuration for a runnable daemon.
func (c *Config) Validate() error {
	if c.Display == "" || c.Controller == "" {
		return fmt.Errorf("display and controller devices must be specified")
	}
	if c.DisplayBaud <= 0 || c.ControllerBaud <= 0 {
		return fmt.Errorf("baud rates must be positive")
	}
	switch c.Topology {
	case TopologySingle, TopologySplit:
	default:
		return fmt.Errorf("unknown topology %q", c.Topology)
	}
	if c.StarveLimit <= 0 {
		return fmt.Errorf("starve limit must be positive")
	}
	if c.ReadTimeout <= 0 {
		return fmt.Errorf("read timeout must be positive")
	}
	return nil
}

// fileConfig is the raw shape of the TOML file.
type fileConfig struct {
	Display        string `toml:"display"`
	DisplayBaud    int    `toml:"display_baud"`
	Controller     string `toml:"controller"`
	ControllerBaud int    `toml:"controller_baud"`
	Topology       string `toml:"topology"`
	StarveLimit    int    `toml:"starve_limit"`
	ReadTimeout    string `toml:"read_timeout"`
	MQTTURL        string `toml:"mqtt_url"`
	Station        string `toml:"station"`
	WSListen       string `toml:"ws_listen"`
	SettingsPath   string `toml:"settings_path"`
	Trace          bool   `toml:"trace"`
}

// loadFile applies file values onto conf. Keys named in skip (by flag
// name) were set on the command line and win over the file.
func loadFile(path string, conf *Config, skip map[string]bool) error {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return fmt.Errorf("load config: %v", err)
	}
	if meta.IsDefined("display") && !skip["display"] {
		conf.Display = raw.Display
	}
	if meta.IsDefined("display_baud") && !skip["display-baud"] {
		conf.DisplayBaud = raw.DisplayBaud
	}
	if meta.IsDefined("controller") && !skip["controller"] {
		conf.Controller = raw.Controller
	}
	if meta.IsDefined("controller_baud") && !skip["controller-baud"] {
		conf.ControllerBaud = raw.ControllerBaud
	}
	if meta.IsDefined("topology") && !skip["topology"] {
		conf.Topology = strings.TrimSpace(raw.Topology)
	}
	if meta.IsDefined("starve_limit") && !skip["starve-limit"] {
		conf.StarveLimit = raw.StarveLimit
	}
	if meta.IsDefined("read_timeout") && !skip["read-timeout"] {
		d, err := time.ParseDuration(strings.TrimSpace(raw.ReadTimeout))
		if err != nil {
			return fmt.Errorf("parse read_timeout: %v", err)
		}
		conf.ReadTimeout = d
	}
	if meta.IsDefined("mqtt_url") && !skip["mqtt"] {
		conf.MQTTURL = raw.MQTTURL
	}
	if meta.IsDefined("station") && !skip["station"] {
		conf.Station = raw.Station
	}
	if meta.IsDefined("ws_listen") && !skip["ws"] {
		conf.WSListen = raw.WSListen
	}
	if meta.IsDefined("settings_path") && !skip["settings"] {
		conf.SettingsPath = raw.SettingsPath
	}
	if meta.IsDefined("trace") && !skip["trace"] {
		conf.Trace = raw.Trace
	}
	return nil
}

// flagsSet collects the names of flags given on the command line.
func flagsSet() map[string]bool {
	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})
	return set
}
