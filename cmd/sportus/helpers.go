package main

import (
	"log"
	"os"

	"github.com/jisooooooooooo/sportus/internal/config"
	"github.com/jisooooooooooo/sportus/internal/store"
)

// loadConfig loads the layered config and creates the data directory, or
// fatals.
func loadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := os.MkdirAll(cfg.Data.Dir, 0o755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}
	return cfg
}

// openDB opens the store or fatals.
func openDB(cfg *config.Config) *store.Store {
	st, err := store.Open(cfg.DBPath())
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	return st
}
