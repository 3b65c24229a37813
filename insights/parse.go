package insights

import (
	"encoding/json"
	"strings"

	"github.com/designhawk/techcrunch/types"
)

// parseInsightResponse extracts the JSON object from a raw model response,
// tolerating conversational text around it, and maps recognized fields onto
// an Insight. Absent fields get named defaults. The second return value is
// false when no parseable object was found.
func parseInsightResponse(text, title string) (types.Insight, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return types.Insight{}, false
	}

	var raw struct {
		KeyTakeaways     []string `json:"key_takeaways"`
		ImpactAnalysis   string   `json:"impact_analysis"`
		RelatedTech      []string `json:"related_tech"`
		Sentiment        string   `json:"sentiment"`
		ReadTimeEstimate string   `json:"read_time_estimate"`
	}
	if err := json.Unmarshal([]byte(text[start:end+1]), &raw); err != nil {
		return types.Insight{}, false
	}

	ins := types.Insight{
		Title:            title,
		KeyTakeaways:     raw.KeyTakeaways,
		ImpactAnalysis:   raw.ImpactAnalysis,
		RelatedTech:      raw.RelatedTech,
		Sentiment:        raw.Sentiment,
		ReadTimeEstimate: raw.ReadTimeEstimate,
	}
	if ins.KeyTakeaways == nil {
		ins.KeyTakeaways = []string{}
	}
	if ins.RelatedTech == nil {
		ins.RelatedTech = []string{}
	}
	if ins.Sentiment == "" {
		ins.Sentiment = "neutral"
	}
	if ins.ReadTimeEstimate == "" {
		ins.ReadTimeEstimate = "medium"
	}
	return ins, true
}
