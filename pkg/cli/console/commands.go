package console

import (
	"fmt"
	"strconv"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/amp.go/pkg/command"
	"github.com/robotalks/amp.go/pkg/remote/mqtt"
)

var (
	// BandCmd selects the band filter.
	BandCmd = ishell.Cmd{
		Name:    "band",
		Aliases: []string{"b"},
		Help:    "METERS (160/80/40/20/15/10/6)",
		Func: MustBeConnected(func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("METERS required"))
				return
			}
			m, err := strconv.Atoi(c.Args[0])
			if err != nil {
				c.Err(fmt.Errorf("Invalid METERS: %v", err))
				return
			}
			for i, band := range command.Bands {
				if band == m {
					ConsoleFrom(c).Send(c, byte('1'+i))
					return
				}
			}
			c.Err(fmt.Errorf("no %dm band", m))
		}),
	}

	// AntCmd selects an antenna.
	AntCmd = ishell.Cmd{
		Name:    "ant",
		Aliases: []string{"antenna"},
		Help:    "N (1..3)",
		Func: MustBeConnected(func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("N required"))
				return
			}
			n, err := strconv.Atoi(c.Args[0])
			if err != nil || n < 1 || n > 3 {
				c.Err(fmt.Errorf("antenna must be 1..3"))
				return
			}
			ConsoleFrom(c).Send(c, byte('a'+n-1))
		}),
	}

	// FanCmd switches the fan profile.
	FanCmd = ishell.Cmd{
		Name: "fan",
		Help: "auto|max",
		Func: MustBeConnected(func(c *ishell.Context) {
			sendChoice(c, "auto|max", map[string]byte{"auto": 'f', "max": 'F'})
		}),
	}

	// PowerCmd switches the amplifier on or off.
	PowerCmd = ishell.Cmd{
		Name:    "power",
		Aliases: []string{"pwr"},
		Help:    "on|off",
		Func: MustBeConnected(func(c *ishell.Context) {
			sendChoice(c, "on|off", map[string]byte{"on": 'o', "off": 'O'})
		}),
	}

	// AttCmd switches the input attenuator.
	AttCmd = ishell.Cmd{
		Name: "att",
		Help: "in|out",
		Func: MustBeConnected(func(c *ishell.Context) {
			sendChoice(c, "in|out", map[string]byte{"in": 'd', "out": 'D'})
		}),
	}

	// ResetCmd resets the controller.
	ResetCmd = ishell.Cmd{
		Name: "reset",
		Help: "",
		Func: MustBeConnected(func(c *ishell.Context) {
			ConsoleFrom(c).Send(c, 'r')
		}),
	}

	// BeepCmd toggles the beep setting.
	BeepCmd = ishell.Cmd{
		Name: "beep",
		Help: "toggle beep",
		Func: MustBeConnected(func(c *ishell.Context) {
			ConsoleFrom(c).Send(c, 'z')
		}),
	}

	// VerboseCmd toggles frame tracing.
	VerboseCmd = ishell.Cmd{
		Name: "verbose",
		Help: "toggle frame tracing",
		Func: MustBeConnected(func(c *ishell.Context) {
			ConsoleFrom(c).Send(c, 'v')
		}),
	}

	// StatusCmd prints the full status block.
	StatusCmd = ishell.Cmd{
		Name:    "status",
		Aliases: []string{"s"},
		Help:    "",
		Func: MustBeConnected(func(c *ishell.Context) {
			ConsoleFrom(c).Send(c, 's')
		}),
	}

	// MeterCmd prints the one-line meter readout.
	MeterCmd = ishell.Cmd{
		Name:    "meter",
		Aliases: []string{"m"},
		Help:    "",
		Func: MustBeConnected(func(c *ishell.Context) {
			ConsoleFrom(c).Send(c, 'x')
		}),
	}

	// RawCmd sends a raw command character.
	RawCmd = ishell.Cmd{
		Name: "raw",
		Help: "CHAR",
		Func: MustBeConnected(func(c *ishell.Context) {
			if len(c.Args) < 1 || len(c.Args[0]) != 1 {
				c.Err(fmt.Errorf("single CHAR required"))
				return
			}
			ConsoleFrom(c).Send(c, c.Args[0][0])
		}),
	}

	// WatchCmd streams telemetry and trace lines until enter is
	// pressed.
	WatchCmd = ishell.Cmd{
		Name:    "watch",
		Aliases: []string{"w"},
		Help:    "",
		Func: MustBeConnected(func(c *ishell.Context) {
			s := ConsoleFrom(c)
			print := func(_ string, payload []byte) {
				c.Println(string(payload))
			}
			c.Println("watching, press enter to stop")
			s.Queue.Sub(s.Station+mqtt.TopicTele, print)
			s.Queue.Sub(s.Station+mqtt.TopicTrace, print)
			c.ReadLine()
			s.Queue.Unsub(s.Station + mqtt.TopicTele)
			s.Queue.Unsub(s.Station + mqtt.TopicTrace)
		}),
	}
)

// sendChoice maps the first argument through keys and sends the
// matched command character.
func sendChoice(c *ishell.Context, help string, keys map[string]byte) {
	if len(c.Args) >= 1 {
		if cmd, ok := keys[c.Args[0]]; ok {
			ConsoleFrom(c).Send(c, cmd)
			return
		}
	}
	c.Err(fmt.Errorf("argument must be %s", help))
}

func init() {
	AddCmds(
		&BandCmd,
		&AntCmd,
		&FanCmd,
		&PowerCmd,
		&AttCmd,
		&ResetCmd,
		&BeepCmd,
		&VerboseCmd,
		&StatusCmd,
		&MeterCmd,
		&RawCmd,
		&WatchCmd,
	)
}
