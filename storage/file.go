package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/designhawk/techcrunch/types"
)

// FileStore keeps one JSON file per digest date in a flat directory.
type FileStore struct {
	dir string
}

// NewFileStore creates the data directory if needed and returns the store.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data dir %s: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(date string) string {
	return filepath.Join(s.dir, recordName(date))
}

// Save writes the digest record, replacing any existing record for the date.
func (s *FileStore) Save(ctx context.Context, digest types.DailyDigest) error {
	data, err := json.MarshalIndent(digest, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode digest %s: %w", digest.Date, err)
	}
	if err := os.WriteFile(s.path(digest.Date), data, 0o644); err != nil {
		return fmt.Errorf("failed to write digest %s: %w", digest.Date, err)
	}
	return nil
}

// Load reads the digest for a date, or ErrNotFound.
func (s *FileStore) Load(ctx context.Context, date string) (types.DailyDigest, error) {
	data, err := os.ReadFile(s.path(date))
	if err != nil {
		if os.IsNotExist(err) {
			return types.DailyDigest{}, fmt.Errorf("%w: %s", ErrNotFound, date)
		}
		return types.DailyDigest{}, fmt.Errorf("failed to read digest %s: %w", date, err)
	}

	var digest types.DailyDigest
	if err := json.Unmarshal(data, &digest); err != nil {
		return types.DailyDigest{}, fmt.Errorf("failed to decode digest %s: %w", date, err)
	}
	return digest, nil
}

// ListDates returns all stored digest dates, most recent first.
func (s *FileStore) ListDates(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list data dir: %w", err)
	}

	dates := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if date, ok := dateFromRecord(entry.Name()); ok {
			dates = append(dates, date)
		}
	}
	sortDatesDesc(dates)
	return dates, nil
}

// Latest returns the most recent digest, or ErrNotFound when none exist.
func (s *FileStore) Latest(ctx context.Context) (types.DailyDigest, error) {
	return latestFrom(ctx, s)
}

// Delete removes the digest for a date, or ErrNotFound.
func (s *FileStore) Delete(ctx context.Context, date string) error {
	if err := os.Remove(s.path(date)); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, date)
		}
		return fmt.Errorf("failed to delete digest %s: %w", date, err)
	}
	return nil
}

// Stats reports how many digests are stored and where.
func (s *FileStore) Stats(ctx context.Context) (Stats, error) {
	dates, err := s.ListDates(ctx)
	if err != nil {
		return Stats{}, err
	}
	abs, err := filepath.Abs(s.dir)
	if err != nil {
		abs = s.dir
	}
	st := Stats{TotalDigests: len(dates), Location: abs}
	if len(dates) > 0 {
		st.LatestDate = dates[0]
	}
	return st, nil
}
