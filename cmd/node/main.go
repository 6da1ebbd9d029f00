package main

import (
	"context"
	"flag"
	"io"
	"os"

	"github.com/shu8h0-null/boarcoin/core"
	"github.com/shu8h0-null/boarcoin/core/config"
	"github.com/shu8h0-null/boarcoin/core/logger"
)

var log = logger.NewLogger()

func main() {
	configPath := flag.String("config", config.ConfigPath(), "Path of the YAML config file")
	listen := flag.String("l", "", "Address the node listens on (overrides listen_addr)")
	address := flag.String("address", "", "Account credited with mining rewards (overrides node_address)")
	strict := flag.Bool("strict", false, "Reject unparseable transaction amounts instead of treating them as 0")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Errorf("Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *listen != "" {
		cfg.ListenAddr = *listen
	}
	if *address != "" {
		cfg.NodeAddress = *address
	}
	if *strict {
		cfg.StrictAmounts = true
	}
	if *debug {
		cfg.Log.Debug = true
	}

	setupLogging(cfg)

	node, err := core.NewNode(cfg)
	if err != nil {
		log.Errorf("Error initialising node: %v\n", err)
		os.Exit(1)
	}

	log.Info("Starting node...")
	if err := node.Run(context.Background()); err != nil {
		log.Errorf("Node stopped: %v\n", err)
		os.Exit(1)
	}
}

func setupLogging(cfg *config.Config) {
	logger.SetDebug(cfg.Log.Debug)
	if cfg.Log.File == "" {
		return
	}
	sink := logger.FileSink(cfg.LogFilePath(), cfg.Log.MaxSizeMB, cfg.Log.MaxAgeDays)
	logger.SetOutput(io.MultiWriter(os.Stdout, sink))
}
