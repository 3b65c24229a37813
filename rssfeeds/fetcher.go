package rssfeeds

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/designhawk/techcrunch/types"
)

const maxFetchAttempts = 3

var (
	// ErrFeedUnavailable marks a feed fetch that exhausted its retries or hit
	// malformed content on the final attempt. It is the only error allowed to
	// abort digest generation.
	ErrFeedUnavailable = errors.New("feed unavailable")

	// ErrFeedParse marks malformed feed content. It always also satisfies
	// errors.Is(err, ErrFeedUnavailable).
	ErrFeedParse = errors.New("failed to parse feed")
)

// Fetcher retrieves and parses a remote RSS/Atom feed. Fetches are retried
// with exponential backoff; nothing is cached between calls.
type Fetcher struct {
	feedURL    string
	parser     *gofeed.Parser
	retryDelay time.Duration // base backoff, doubled per attempt
}

// NewFetcher creates a Fetcher for the given feed URL.
func NewFetcher(feedURL string) *Fetcher {
	return &Fetcher{
		feedURL:    feedURL,
		parser:     gofeed.NewParser(),
		retryDelay: time.Second,
	}
}

// FetchFeed retrieves and parses the feed, making up to 3 attempts with
// backoff delays of 1s then 2s. Transient errors on intermediate attempts are
// swallowed and retried; the last error is surfaced wrapped in
// ErrFeedUnavailable (and ErrFeedParse when the content was malformed).
func (f *Fetcher) FetchFeed(ctx context.Context) (*gofeed.Feed, error) {
	var lastErr error
	for attempt := 0; attempt < maxFetchAttempts; attempt++ {
		if attempt > 0 {
			delay := f.retryDelay << (attempt - 1)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		feed, err := f.parser.ParseURLWithContext(f.feedURL, ctx)
		if err == nil {
			return feed, nil
		}
		lastErr = err
	}

	if isParseError(lastErr) {
		return nil, fmt.Errorf("%w: %w: %v", ErrFeedUnavailable, ErrFeedParse, lastErr)
	}
	return nil, fmt.Errorf("%w after %d attempts: %v", ErrFeedUnavailable, maxFetchAttempts, lastErr)
}

// FeedInfo re-fetches the feed and returns its metadata snapshot.
func (f *Fetcher) FeedInfo(ctx context.Context) (types.FeedInfo, error) {
	feed, err := f.FetchFeed(ctx)
	if err != nil {
		return types.FeedInfo{}, err
	}
	return types.FeedInfo{
		Title:         feed.Title,
		Description:   feed.Description,
		Link:          feed.Link,
		LastBuildDate: feed.Updated,
	}, nil
}

// isParseError distinguishes malformed feed content from transport failures.
// Network errors surface as *url.Error and bad statuses as gofeed.HTTPError;
// everything else came out of the XML parser.
func isParseError(err error) bool {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return false
	}
	var httpErr gofeed.HTTPError
	return !errors.As(err, &httpErr)
}
