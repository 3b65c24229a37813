// Package storage persists DailyDigest records keyed by calendar date. It is
// the only package permitted to read or write stable storage.
package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/designhawk/techcrunch/config"
	"github.com/designhawk/techcrunch/types"
)

// ErrNotFound is returned when no digest exists for the requested date.
var ErrNotFound = errors.New("digest not found")

const (
	recordPrefix = "digest_"
	recordSuffix = ".json"
)

// Store is the digest persistence interface. Saving an existing date
// overwrites the prior record; there is no merge or versioning.
type Store interface {
	Save(ctx context.Context, digest types.DailyDigest) error
	Load(ctx context.Context, date string) (types.DailyDigest, error)
	// ListDates returns all stored digest dates, most recent first.
	ListDates(ctx context.Context) ([]string, error)
	Latest(ctx context.Context) (types.DailyDigest, error)
	Delete(ctx context.Context, date string) error
	Stats(ctx context.Context) (Stats, error)
}

// Stats summarizes what a store currently holds.
type Stats struct {
	TotalDigests int    `json:"total_digests"`
	LatestDate   string `json:"latest_date,omitempty"`
	Location     string `json:"location"`
}

// New constructs the store selected by cfg.Backend.
func New(ctx context.Context, cfg config.Storage) (Store, error) {
	switch cfg.Backend {
	case "", "file":
		return NewFileStore(cfg.DataDir)
	case "s3":
		return NewS3Store(ctx, cfg.S3)
	case "redis":
		return NewRedisStore(ctx, cfg.Redis)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// recordName builds the stable record key for a date, e.g.
// "digest_2025-01-31.json". The fixed prefix and suffix keep date extraction
// unambiguous across backends.
func recordName(date string) string {
	return recordPrefix + date + recordSuffix
}

// dateFromRecord extracts the date from a record key, returning false for
// names that do not follow the digest naming scheme.
func dateFromRecord(name string) (string, bool) {
	if !strings.HasPrefix(name, recordPrefix) || !strings.HasSuffix(name, recordSuffix) {
		return "", false
	}
	date := strings.TrimSuffix(strings.TrimPrefix(name, recordPrefix), recordSuffix)
	if date == "" {
		return "", false
	}
	return date, true
}

// sortDatesDesc orders ISO dates most recent first. Lexicographic order is
// chronological for YYYY-MM-DD.
func sortDatesDesc(dates []string) {
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
}

// latestFrom loads the most recent digest using the store's own ListDates.
func latestFrom(ctx context.Context, s Store) (types.DailyDigest, error) {
	dates, err := s.ListDates(ctx)
	if err != nil {
		return types.DailyDigest{}, err
	}
	if len(dates) == 0 {
		return types.DailyDigest{}, ErrNotFound
	}
	return s.Load(ctx, dates[0])
}
