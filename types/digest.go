package types

// DateFormat is the calendar-day key format used throughout the system.
const DateFormat = "2006-01-02"

// DailyDigest is the unit of persistence: one day's articles, their insights
// (index-aligned with Articles) and the feed metadata snapshot. A digest is
// immutable after assembly; regenerating for the same date overwrites the
// stored record.
type DailyDigest struct {
	Date        string    `json:"date"`
	Articles    []Article `json:"articles"`
	Insights    []Insight `json:"insights"`
	GeneratedAt string    `json:"generated_at"`
	FeedInfo    FeedInfo  `json:"feed_info"`
}
