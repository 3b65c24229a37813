package insights

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/designhawk/techcrunch/types"
)

const promptSummaryLimit = 400

const promptTemplate = `Analyze this TechCrunch article and provide insights. Respond ONLY with valid JSON.

Article: %s
Summary: %s
Categories: %s

Output JSON with:
{
  "key_takeaways": ["3 main points from this article"],
  "impact_analysis": "1-2 sentences on why this matters",
  "related_tech": ["technologies/companies mentioned"],
  "sentiment": "positive/neutral/negative",
  "read_time_estimate": "short/medium/long"
}`

// buildPrompt renders the fixed-shape analysis prompt for one article.
func buildPrompt(article types.Article) string {
	summary := truncate(article.Summary, promptSummaryLimit)
	return fmt.Sprintf(promptTemplate, article.Title, summary, strings.Join(article.Categories, ", "))
}

// truncate cuts s to at most limit bytes without splitting a rune.
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return s[:limit]
}
