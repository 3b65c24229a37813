// Command generate runs a single digest generation and exits. It is the
// one-shot counterpart to POST /api/generate, suitable for cron jobs and
// serverless triggers.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/designhawk/techcrunch/config"
	"github.com/designhawk/techcrunch/logger"
	"github.com/designhawk/techcrunch/orchestrator"
	"github.com/designhawk/techcrunch/state"
	"github.com/designhawk/techcrunch/storage"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to the YAML config file")
	feed := flag.String("feed", "", "Feed preset name or URL (overrides config)")
	limit := flag.Int("limit", 0, "Number of articles to include (overrides config)")
	flag.Parse()

	_ = godotenv.Load()
	log := logger.New("generate")

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if *feed != "" {
		cfg.FeedURL = config.ResolveFeedURL(*feed)
	}
	if *limit > 0 {
		cfg.ArticleLimit = *limit
	}

	ctx := context.Background()
	store, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		log.Error("failed to initialize storage", "error", err)
		os.Exit(1)
	}

	tracker := state.NewTracker()
	pipeline := orchestrator.New(cfg, store, tracker, log)

	digest, err := pipeline.GenerateDigest(ctx, tracker.Start())
	if err != nil {
		log.Error("digest generation failed", "error", err)
		os.Exit(1)
	}

	fmt.Printf("generated digest for %s: %d articles, %d insights\n",
		digest.Date, len(digest.Articles), len(digest.Insights))
}
