package main

//go-build: CGO_ENABLED=0

import (
	"flag"
	"log"
	"os"

	"github.com/robotalks/amp.go/pkg/remote/mqtt"
)

var (
	mqttURL = "mqtt://localhost:1883/amp/"
	station string
)

func init() {
	if val := os.Getenv("AMP_MQTT_URL"); val != "" {
		mqttURL = val
	}
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL.")
	flag.StringVar(&station, "station", station, "Station topic, empty for all stations.")
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)

	q, err := mqtt.NewQueueFromURL(mqttURL)
	if err != nil {
		log.Fatalln(err)
	}
	token := q.Connect()
	token.Wait()
	if err = token.Error(); err != nil {
		log.Fatalln(err)
	}

	topic := "#"
	if station != "" {
		topic = station + "/#"
	}
	q.Sub(topic, mqtt.Handler(func(topic string, payload []byte) {
		log.Printf("%s: %s", topic, string(payload))
	}))
	<-(chan struct{})(nil)
}
