package main

import (
	"flag"
	"os"

	log "github.com/sirupsen/logrus"

	"tokensmith/internal/cli"
	"tokensmith/pkg/config"
)

func main() {
	configDir := flag.String("config-dir", "", "Directory holding config.yaml (defaults to the working directory)")
	flag.Parse()

	cfg, err := config.Load(*configDir)
	if err != nil {
		log.Errorf("Failed to load config: %v", err)
		os.Exit(1)
	}

	app, err := cli.New(cfg)
	if err != nil {
		log.Errorf("Failed to start: %v", err)
		os.Exit(1)
	}
	app.Run()
}
