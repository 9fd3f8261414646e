package main

//go-build: CGO_ENABLED=0

import (
	"github.com/robotalks/amp.go/pkg/cli/console"
)

func init() {
	console.SetupFlags()
}

func main() {
	console.Main()
}
