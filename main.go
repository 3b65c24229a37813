package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/designhawk/techcrunch/api"
	"github.com/designhawk/techcrunch/config"
	"github.com/designhawk/techcrunch/logger"
	"github.com/designhawk/techcrunch/orchestrator"
	"github.com/designhawk/techcrunch/state"
	"github.com/designhawk/techcrunch/storage"
)

func main() {
	// Load environment variables from .env if present (non-fatal if missing)
	_ = godotenv.Load()

	log := logger.New("api")

	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	store, err := storage.New(context.Background(), cfg.Storage)
	if err != nil {
		log.Error("failed to initialize storage", "error", err)
		os.Exit(1)
	}

	tracker := state.NewTracker()
	pipeline := orchestrator.New(cfg, store, tracker, logger.New("pipeline"))
	server := api.NewServer(store, pipeline, tracker, log)

	addr := fmt.Sprintf(":%d", cfg.Port)
	log.Info("starting API server", "addr", addr, "storage", cfg.Storage.Backend)
	log.Info("endpoints: GET /health, GET /stats, POST /api/generate, GET /api/status, GET /api/status/:id, GET /api/digest/:date, GET /api/digests")

	if err := http.ListenAndServe(addr, server.Router()); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
