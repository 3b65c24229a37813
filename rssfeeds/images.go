package rssfeeds

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/designhawk/techcrunch/types"
)

const (
	pageFetchTimeout = 15 * time.Second

	// Some sites serve bot-hostile defaults; identify as a regular browser.
	browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// ImageResolver fills in article images by fetching the article pages and
// reading their OpenGraph/Twitter meta tags.
type ImageResolver struct {
	client *http.Client
	log    *slog.Logger
}

// NewImageResolver creates a resolver with the standard page-fetch timeout.
func NewImageResolver(log *slog.Logger) *ImageResolver {
	return &ImageResolver{
		client: &http.Client{Timeout: pageFetchTimeout},
		log:    log,
	}
}

// ResolvePageImages attempts page-level image resolution for every article
// still missing an image. Articles are fetched one at a time to avoid
// bursting requests against the remote site. Failures leave the image empty
// and never abort the batch.
func (r *ImageResolver) ResolvePageImages(ctx context.Context, articles []types.Article) {
	for i := range articles {
		if articles[i].ImageURL != "" {
			continue
		}

		img, err := r.fetchPageImage(ctx, articles[i].Link)
		if err != nil {
			r.log.Warn("page image fetch failed", "link", articles[i].Link, "error", err)
			continue
		}
		if img == "" {
			r.log.Debug("no page image found", "link", articles[i].Link)
			continue
		}
		articles[i].ImageURL = img
	}
}

// fetchPageImage retrieves the article page and scans for an og:image meta
// tag, falling back to a Twitter-card image. Returns "" when neither exists.
func (r *ImageResolver) fetchPageImage(ctx context.Context, pageURL string) (string, error) {
	if pageURL == "" {
		return "", nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", err
	}

	if img, ok := doc.Find(`meta[property="og:image"]`).Attr("content"); ok && isValidURL(img) {
		return img, nil
	}
	if img, ok := doc.Find(`meta[name="twitter:image"]`).Attr("content"); ok && isValidURL(img) {
		return img, nil
	}
	return "", nil
}

// isValidURL reports whether s parses as an absolute http(s) URL.
func isValidURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
