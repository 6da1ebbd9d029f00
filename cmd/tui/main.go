package main

import (
	"flag"
	"os"

	"github.com/shu8h0-null/boarcoin/core/client"
	"github.com/shu8h0-null/boarcoin/core/logger"
	"github.com/shu8h0-null/boarcoin/tui"
)

var log = logger.NewLogger()

func main() {
	node := flag.String("node", "http://localhost:5000", "Base URL of the node's HTTP API")
	flag.Parse()

	if err := tui.Run(client.New(*node)); err != nil {
		log.Errorf("Error running client: %v\n", err)
		os.Exit(1)
	}
}
