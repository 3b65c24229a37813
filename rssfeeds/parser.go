package rssfeeds

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/araddon/dateparse"
	"github.com/mmcdole/gofeed"

	"github.com/designhawk/techcrunch/types"
)

const (
	descriptionLimit = 500
	summaryLimit     = 300
)

var imgSrcRe = regexp.MustCompile(`<img[^>]+src=["']([^"']+)["']`)

// ParseArticles normalizes the first limit feed entries, in feed order, into
// Article records. The ordering is preserved through to the final digest.
func ParseArticles(feed *gofeed.Feed, limit int) []types.Article {
	count := min(len(feed.Items), limit)
	articles := make([]types.Article, 0, count)

	for _, item := range feed.Items[:count] {
		categories := make([]string, len(item.Categories))
		copy(categories, item.Categories)

		description := item.Description
		summary := item.Description
		if summary == "" {
			summary = item.Content
		}
		if summary == "" {
			summary = description
		}

		title := item.Title
		if title == "" {
			title = "No Title"
		}

		author := "Unknown"
		if item.Author != nil && item.Author.Name != "" {
			author = item.Author.Name
		}

		articles = append(articles, types.Article{
			Title:         title,
			Link:          item.Link,
			Description:   truncate(description, descriptionLimit),
			Author:        author,
			PublishedDate: publishedDate(item),
			Categories:    categories,
			ImageURL:      feedImage(item),
			Summary:       truncate(summary, summaryLimit),
		})
	}

	return articles
}

// publishedDate resolves an entry's publication date. A parsed time wins and
// is rendered as ISO-8601; a raw string the feed library could not handle gets
// one more chance through dateparse before being passed through verbatim.
func publishedDate(item *gofeed.Item) string {
	if item.PublishedParsed != nil {
		return item.PublishedParsed.Format(time.RFC3339)
	}
	raw := item.Published
	if raw == "" {
		return ""
	}
	if t, err := dateparse.ParseAny(raw); err == nil {
		return t.Format(time.RFC3339)
	}
	return raw
}

// feedImage resolves an article image from feed data alone, stopping at the
// first tier that yields a URL: the structured media attachment, then an
// image-typed enclosure, then an <img> tag embedded in the HTML description.
// An empty result is left for the page-level pass to fill in.
func feedImage(item *gofeed.Item) string {
	if item.Image != nil && item.Image.URL != "" {
		return item.Image.URL
	}

	for _, enc := range item.Enclosures {
		if enc != nil && strings.HasPrefix(enc.Type, "image/") && enc.URL != "" {
			return enc.URL
		}
	}

	return extractImageFromContent(item.Description)
}

// extractImageFromContent pulls the first <img src=...> URL out of an HTML
// fragment, or returns "" if there is none.
func extractImageFromContent(content string) string {
	if content == "" {
		return ""
	}
	m := imgSrcRe.FindStringSubmatch(content)
	if m == nil {
		return ""
	}
	return m[1]
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
