package insights

import (
	"strings"

	"github.com/designhawk/techcrunch/types"
)

// fallbackInsight synthesizes a deterministic insight from article metadata
// alone. It is the guaranteed last step of the provider chain and is also
// used wholesale when no AI credential is configured.
func fallbackInsight(article types.Article) types.Insight {
	category := "Tech"
	if len(article.Categories) > 0 {
		category = article.Categories[0]
	}

	summary := truncate(article.Summary, 200)
	firstSentence := "See full article"
	if summary != "" {
		sentence, _, _ := strings.Cut(summary, ".")
		firstSentence = sentence + "."
	}

	related := article.Categories
	if len(related) > 3 {
		related = related[:3]
	}
	relatedTech := make([]string, len(related))
	copy(relatedTech, related)

	return types.Insight{
		Title: article.Title,
		KeyTakeaways: []string{
			"Category: " + category,
			firstSentence,
			"Click to read more details",
		},
		ImpactAnalysis:   "This article covers recent tech industry news",
		RelatedTech:      relatedTech,
		Sentiment:        "neutral",
		ReadTimeEstimate: "medium",
		Source:           types.SourceFallback,
	}
}
