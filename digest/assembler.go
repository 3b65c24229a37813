// Package digest assembles normalized articles, their insights and feed
// metadata into immutable DailyDigest records.
package digest

import (
	"fmt"
	"time"

	"github.com/designhawk/techcrunch/types"
)

// Assemble zips articles and insights into a DailyDigest for the given date.
// The two slices must already be index-aligned: insights[i] describes
// articles[i]. A length mismatch is a programming error, not a runtime
// condition to recover from, so it panics.
func Assemble(articles []types.Article, insights []types.Insight, feedInfo types.FeedInfo, date string) types.DailyDigest {
	if len(articles) != len(insights) {
		panic(fmt.Sprintf("digest: %d articles but %d insights", len(articles), len(insights)))
	}

	return types.DailyDigest{
		Date:        date,
		Articles:    articles,
		Insights:    insights,
		GeneratedAt: time.Now().Format(time.RFC3339),
		FeedInfo:    feedInfo,
	}
}
