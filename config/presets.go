package config

// DefaultFeedPreset names the feed used when none is specified.
const DefaultFeedPreset = "tc"

// FeedPresets maps friendly names to RSS feed URLs.
var FeedPresets = map[string]string{
	"tc": "https://techcrunch.com/feed/",
	"hn": "https://hnrss.org/newest",
	"tr": "https://www.technologyreview.com/feed/",
	"vb": "https://venturebeat.com/feed/",
}

// ResolveFeedURL resolves a feed identifier to a URL. If the input is a
// preset name, returns the corresponding URL; otherwise the input is assumed
// to already be a URL and is returned as-is.
func ResolveFeedURL(feedInput string) string {
	if url, exists := FeedPresets[feedInput]; exists {
		return url
	}
	return feedInput
}
