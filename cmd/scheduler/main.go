// Command scheduler periodically triggers digest generation by POSTing to a
// running API server's /api/generate endpoint.
package main

import (
	"flag"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/designhawk/techcrunch/logger"
)

func main() {
	apiURL := flag.String("api", "http://localhost:8080", "Base URL of the digest API server")
	schedule := flag.String("schedule", "0 6 * * *", "Cron schedule for digest generation")
	runNow := flag.Bool("now", false, "Trigger one generation immediately on startup")
	flag.Parse()

	_ = godotenv.Load()
	log := logger.New("scheduler")

	client := &http.Client{Timeout: 10 * time.Second}
	trigger := func() {
		resp, err := client.Post(*apiURL+"/api/generate", "application/json", nil)
		if err != nil {
			log.Error("failed to trigger generation", "error", err)
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusAccepted {
			log.Error("unexpected trigger response", "status", resp.StatusCode)
			return
		}
		log.Info("generation triggered", "api", *apiURL)
	}

	if *runNow {
		trigger()
	}

	c := cron.New()
	if _, err := c.AddFunc(*schedule, trigger); err != nil {
		log.Error("invalid cron schedule", "schedule", *schedule, "error", err)
		os.Exit(1)
	}

	log.Info("scheduler started", "schedule", *schedule, "api", *apiURL)
	c.Run()
}
