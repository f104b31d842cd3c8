package main

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"

	"tokensmith/internal/handlers"
	"tokensmith/internal/routes"
	"tokensmith/internal/store"
	"tokensmith/pkg/config"
	"tokensmith/pkg/solana"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		log.Errorf("Failed to load config: %v", err)
		os.Exit(1)
	}

	tokenStore, err := store.NewTokenStore(cfg.TokensDir())
	if err != nil {
		log.Errorf("Failed to open token store: %v", err)
		os.Exit(1)
	}
	journal, err := config.OpenJournal(cfg.JournalPath())
	if err != nil {
		log.Errorf("Failed to open operation journal: %v", err)
		os.Exit(1)
	}

	network := cfg.ActiveNetwork()
	endpoint, err := cfg.EndpointFor(network)
	if err != nil {
		log.Errorf("Failed to resolve RPC endpoint: %v", err)
		os.Exit(1)
	}
	inspector := solana.NewInspector(endpoint, network)

	r := routes.SetupRouter(
		handlers.NewTokenRecordHandler(tokenStore, journal),
		handlers.NewInspectHandler(inspector),
	)

	addr := fmt.Sprintf(":%d", cfg.API.Port)
	log.Infof("Serving token records on %s (network %s)", addr, network)
	if err := r.Run(addr); err != nil {
		log.Errorf("Failed to start server: %v", err)
		os.Exit(1)
	}
}
