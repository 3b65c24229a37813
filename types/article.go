package types

// Article is a single normalized feed entry. Articles are built once per feed
// entry per run and never mutated afterwards, except for ImageURL which the
// page-image pass may fill in while it is still empty.
type Article struct {
	Title         string   `json:"title"`
	Link          string   `json:"link"`
	Description   string   `json:"description"`
	Author        string   `json:"author"`
	PublishedDate string   `json:"published_date"`
	Categories    []string `json:"categories"`
	ImageURL      string   `json:"image_url"`
	Summary       string   `json:"summary"`
}

// FeedInfo is a snapshot of feed-level metadata taken at fetch time.
type FeedInfo struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	Link          string `json:"link"`
	LastBuildDate string `json:"last_build_date"`
}
