package types

// Insight sources, recorded so a digest can distinguish AI-derived analysis
// from the rule-based fallback.
const (
	SourceOpenRouter = "openrouter"
	SourceMistral    = "mistral"
	SourceFallback   = "fallback"
)

// Insight is the structured analysis of one article. Insights[i] in a digest
// always describes Articles[i]; Title echoes the article title and is used as
// a display join key.
type Insight struct {
	Title            string   `json:"title"`
	KeyTakeaways     []string `json:"key_takeaways"`
	ImpactAnalysis   string   `json:"impact_analysis"`
	RelatedTech      []string `json:"related_tech"`
	Sentiment        string   `json:"sentiment"`
	ReadTimeEstimate string   `json:"read_time_estimate"`
	Source           string   `json:"source,omitempty"`
}
