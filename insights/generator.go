package insights

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/designhawk/techcrunch/config"
	"github.com/designhawk/techcrunch/types"
)

// batchPause throttles outbound provider calls between articles.
const batchPause = 500 * time.Millisecond

// Generator produces one Insight per article by walking an ordered provider
// chain: OpenRouter, then Mistral (only on an explicit rate-limit signal),
// then rule-based synthesis. Generation is best-effort and never fails
// outward; every failure path terminates in the fallback.
type Generator struct {
	primary   *chatProvider
	secondary *chatProvider
	pause     time.Duration
	log       *slog.Logger
}

// NewGenerator builds a Generator from the configured credentials. With no
// usable OpenRouter key the chain is fallback-only.
func NewGenerator(cfg *config.Config, log *slog.Logger) *Generator {
	g := &Generator{pause: batchPause, log: log}
	if !cfg.AIConfigured() {
		return g
	}

	client := &http.Client{Timeout: providerTimeout}

	referer := cfg.HTTPReferer
	if referer == "" {
		referer = "http://localhost:8080"
	}
	g.primary = &chatProvider{
		source: types.SourceOpenRouter,
		url:    openRouterURL,
		apiKey: cfg.OpenRouterKey,
		model:  openRouterModel,
		headers: map[string]string{
			"HTTP-Referer": referer,
			"X-Title":      "TechCrunch Digest",
		},
		client: client,
	}

	if cfg.MistralKey != "" {
		g.secondary = &chatProvider{
			source: types.SourceMistral,
			url:    mistralURL,
			apiKey: cfg.MistralKey,
			model:  mistralModel,
			client: client,
		}
	}
	return g
}

// GenerateInsight produces the Insight for a single article. It never
// returns an error: any provider or parse failure degrades to the rule-based
// fallback.
func (g *Generator) GenerateInsight(ctx context.Context, article types.Article) types.Insight {
	if g.primary == nil {
		return fallbackInsight(article)
	}

	prompt := buildPrompt(article)

	text, err := g.primary.call(ctx, prompt)
	switch {
	case err == nil:
		if ins, ok := parseInsightResponse(text, article.Title); ok {
			ins.Source = g.primary.source
			return ins
		}
		g.log.Warn("unparseable primary response, using fallback", "title", article.Title)

	case errors.Is(err, ErrRateLimited):
		// The secondary is attempted only on an explicit 429 from the
		// primary, never on generic failure.
		if g.secondary == nil {
			g.log.Warn("primary rate limited, no secondary configured", "title", article.Title)
			break
		}
		g.log.Warn("primary rate limited, trying secondary", "title", article.Title)
		text, err := g.secondary.call(ctx, prompt)
		if err != nil {
			g.log.Warn("secondary provider failed, using fallback", "title", article.Title, "error", err)
			break
		}
		if ins, ok := parseInsightResponse(text, article.Title); ok {
			ins.Source = g.secondary.source
			return ins
		}
		g.log.Warn("unparseable secondary response, using fallback", "title", article.Title)

	default:
		g.log.Warn("primary provider failed, using fallback", "title", article.Title, "error", err)
	}

	return fallbackInsight(article)
}

// GenerateBatch produces one Insight per article, in order, pausing between
// articles to respect provider rate limits.
func (g *Generator) GenerateBatch(ctx context.Context, articles []types.Article) []types.Insight {
	insights := make([]types.Insight, 0, len(articles))
	for i, article := range articles {
		insights = append(insights, g.GenerateInsight(ctx, article))
		if i < len(articles)-1 {
			select {
			case <-time.After(g.pause):
			case <-ctx.Done():
				// Remaining articles still get an insight; the chain
				// degrades to fallback once the context is gone.
			}
		}
	}
	return insights
}
