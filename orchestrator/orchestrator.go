// Package orchestrator wires the digest pipeline: feed fetch, article
// normalization, page-image resolution, insight generation, assembly and
// persistence.
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/designhawk/techcrunch/config"
	"github.com/designhawk/techcrunch/digest"
	"github.com/designhawk/techcrunch/insights"
	"github.com/designhawk/techcrunch/rssfeeds"
	"github.com/designhawk/techcrunch/state"
	"github.com/designhawk/techcrunch/storage"
	"github.com/designhawk/techcrunch/types"
)

// Pipeline executes digest generation runs. All external calls are made
// sequentially, in pipeline order; throttling lives in the stages themselves.
type Pipeline struct {
	cfg     *config.Config
	store   storage.Store
	tracker *state.Tracker
	log     *slog.Logger
}

// New creates a Pipeline over the given store and run tracker.
func New(cfg *config.Config, store storage.Store, tracker *state.Tracker, log *slog.Logger) *Pipeline {
	return &Pipeline{cfg: cfg, store: store, tracker: tracker, log: log}
}

// GenerateDigest runs one end-to-end generation for today and persists the
// result, overwriting any digest already stored for the date. Only feed
// failure aborts the run; image and insight failures degrade in place.
// Persistence failure surfaces to the caller after the tracker is updated.
func (p *Pipeline) GenerateDigest(ctx context.Context, runID string) (types.DailyDigest, error) {
	p.log.Info("starting digest generation", "run_id", runID, "feed", p.cfg.FeedURL)

	fetcher := rssfeeds.NewFetcher(p.cfg.FeedURL)
	feed, err := fetcher.FetchFeed(ctx)
	if err != nil {
		p.tracker.Fail(runID, err)
		return types.DailyDigest{}, err
	}

	articles := rssfeeds.ParseArticles(feed, p.cfg.ArticleLimit)
	p.tracker.SetArticles(runID, len(articles))
	p.log.Info("parsed articles", "run_id", runID, "count", len(articles))

	// Feed info is snapshotted with a fresh fetch, never cached across calls.
	feedInfo, err := fetcher.FeedInfo(ctx)
	if err != nil {
		p.tracker.Fail(runID, err)
		return types.DailyDigest{}, err
	}

	resolver := rssfeeds.NewImageResolver(p.log)
	resolver.ResolvePageImages(ctx, articles)
	p.tracker.SetImages(runID, countImages(articles))
	p.log.Info("resolved images", "run_id", runID, "count", countImages(articles))

	if !p.cfg.AIConfigured() {
		p.log.Warn("no OpenRouter API key configured, insights will use the rule-based fallback")
	}
	generator := insights.NewGenerator(p.cfg, p.log)
	articleInsights := generator.GenerateBatch(ctx, articles)
	p.tracker.SetInsights(runID, len(articleInsights))
	p.log.Info("generated insights", "run_id", runID, "count", len(articleInsights))

	today := time.Now().Format(types.DateFormat)
	d := digest.Assemble(articles, articleInsights, feedInfo, today)

	if err := p.store.Save(ctx, d); err != nil {
		err = fmt.Errorf("failed to persist digest: %w", err)
		p.tracker.Fail(runID, err)
		return types.DailyDigest{}, err
	}

	p.tracker.Complete(runID, today)
	p.log.Info("digest generation complete", "run_id", runID, "date", today)
	return d, nil
}

func countImages(articles []types.Article) int {
	n := 0
	for _, a := range articles {
		if a.ImageURL != "" {
			n++
		}
	}
	return n
}
