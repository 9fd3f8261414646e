package main

//go-build: CGO_ENABLED=0

import (
	"flag"
	"io"
	"log"
	"os"

	"github.com/golang/glog"

	"github.com/robotalks/amp.go/pkg/command"
	"github.com/robotalks/amp.go/pkg/config"
	"github.com/robotalks/amp.go/pkg/relay"
	"github.com/robotalks/amp.go/pkg/remote/mqtt"
	"github.com/robotalks/amp.go/pkg/remote/ws"
	"github.com/robotalks/amp.go/pkg/run"
	"github.com/robotalks/amp.go/pkg/settings"
	"github.com/robotalks/amp.go/pkg/uart"
)

func init() {
	config.SetupFlags()
}

func main() {
	flag.Parse()

	conf := config.MustLoad()

	store := &settings.Store{Path: conf.SettingsPath}
	saved, err := store.Load()
	if err != nil {
		glog.Warningf("load settings: %v", err)
	}

	state := relay.NewState()
	state.SetBeep(saved.Beep)
	state.SetVerbose(saved.Verbose || conf.Trace)

	display, err := uart.Open(conf.Display, conf.DisplayBaud)
	if err != nil {
		log.Fatalln(err)
	}
	defer display.Close()
	controller, err := uart.Open(conf.Controller, conf.ControllerBaud)
	if err != nil {
		log.Fatalln(err)
	}
	defer controller.Close()

	var traceOut io.Writer
	if conf.Trace {
		traceOut = os.Stdout
	}
	sink := relay.NewSink(traceOut)

	eng := relay.NewEngine(state, display, controller, sink)
	eng.Tracker.Indicator = relay.IndicatorFunc(func(on bool) {
		glog.V(1).Infof("transmit %v", on)
	})

	disp := command.NewDispatcher(state, eng.Controller)
	disp.Persist = func(beep, verbose bool) error {
		return store.Save(settings.Settings{Beep: beep, Verbose: verbose})
	}

	group := run.NewGroup().HandleSignals()

	switch conf.Topology {
	case config.TopologySingle:
		arb := relay.NewArbiter(eng, display, controller)
		arb.StarveLimit = conf.StarveLimit
		arb.SetReadTimeout(conf.ReadTimeout)
		group.Go(run.WithName("relay", run.Func(arb.Run)))
	default:
		split := relay.NewSplit(eng, display, controller)
		split.SetReadTimeout(conf.ReadTimeout)
		group.Go(split.Runners()...)
	}

	if conf.MQTTURL != "" {
		q, err := mqtt.NewQueueFromURL(conf.MQTTURL)
		if err != nil {
			log.Fatalln(err)
		}
		station := conf.Station
		if station == "" {
			station = mqtt.DefaultStation()
		}
		ch := &mqtt.Channel{
			Queue:    q,
			Station:  station,
			State:    state,
			Dispatch: disp.Dispatch,
		}
		sink.Notify(ch.Trace)
		group.Go(run.WithName("mqtt", ch))
	}

	if conf.WSListen != "" {
		srv := &ws.Server{
			Addr:     conf.WSListen,
			State:    state,
			Dispatch: disp.Dispatch,
		}
		sink.Notify(srv.Trace)
		group.Go(run.WithName("websocket", srv))
	}

	glog.Infof("bridging %s <> %s", conf.Display, conf.Controller)
	if err := group.Wait(); err != nil {
		log.Fatalln(err)
	}
}
