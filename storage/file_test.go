package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/designhawk/techcrunch/types"
)

func testDigest(date string) types.DailyDigest {
	return types.DailyDigest{
		Date: date,
		Articles: []types.Article{
			{
				Title:      "Article",
				Link:       "http://example.com/a",
				Author:     "Someone",
				Categories: []string{"AI"},
				Summary:    "short",
			},
		},
		Insights: []types.Insight{
			{
				Title:            "Article",
				KeyTakeaways:     []string{"one", "two", "three"},
				RelatedTech:      []string{"AI"},
				Sentiment:        "neutral",
				ReadTimeEstimate: "medium",
				Source:           types.SourceFallback,
			},
		},
		GeneratedAt: "2026-01-05T10:00:00Z",
		FeedInfo:    types.FeedInfo{Title: "Feed", Link: "http://example.com"},
	}
}

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	original := testDigest("2026-01-05")
	require.NoError(t, store.Save(ctx, original))

	loaded, err := store.Load(ctx, "2026-01-05")
	require.NoError(t, err)
	assert.Equal(t, original, loaded)
}

func TestFileStoreOverwritesSameDate(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	first := testDigest("2026-01-05")
	require.NoError(t, store.Save(ctx, first))

	second := testDigest("2026-01-05")
	second.GeneratedAt = "2026-01-05T18:00:00Z"
	require.NoError(t, store.Save(ctx, second))

	dates, err := store.ListDates(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-01-05"}, dates, "store must hold exactly one record per date")

	loaded, err := store.Load(ctx, "2026-01-05")
	require.NoError(t, err)
	assert.Equal(t, second, loaded)
}

func TestFileStoreListDatesDescending(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	for _, date := range []string{"2026-01-03", "2026-01-05", "2026-01-04"} {
		require.NoError(t, store.Save(ctx, testDigest(date)))
	}

	dates, err := store.ListDates(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-01-05", "2026-01-04", "2026-01-03"}, dates)
}

func TestFileStoreLatest(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_, err := store.Latest(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Save(ctx, testDigest("2026-01-03")))
	require.NoError(t, store.Save(ctx, testDigest("2026-01-05")))

	latest, err := store.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2026-01-05", latest.Date)
}

func TestFileStoreLoadMissing(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Load(context.Background(), "1999-01-01")
	assert.True(t, errors.Is(err, ErrNotFound), "missing digest should be ErrNotFound, got %v", err)
}

func TestFileStoreDelete(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.Save(ctx, testDigest("2026-01-05")))
	require.NoError(t, store.Delete(ctx, "2026-01-05"))

	_, err := store.Load(ctx, "2026-01-05")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, store.Delete(ctx, "2026-01-05"), ErrNotFound)
}

func TestFileStoreStats(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.TotalDigests)
	assert.Empty(t, stats.LatestDate)

	require.NoError(t, store.Save(ctx, testDigest("2026-01-04")))
	require.NoError(t, store.Save(ctx, testDigest("2026-01-05")))

	stats, err = store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalDigests)
	assert.Equal(t, "2026-01-05", stats.LatestDate)
	assert.NotEmpty(t, stats.Location)
}

func TestDateFromRecord(t *testing.T) {
	cases := []struct {
		name   string
		record string
		want   string
		ok     bool
	}{
		{"valid", "digest_2026-01-05.json", "2026-01-05", true},
		{"wrong prefix", "notes_2026-01-05.json", "", false},
		{"wrong suffix", "digest_2026-01-05.txt", "", false},
		{"empty date", "digest_.json", "", false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, ok := dateFromRecord(c.record)
			if got != c.want || ok != c.ok {
				t.Errorf("dateFromRecord(%q) = %q, %v; want %q, %v", c.record, got, ok, c.want, c.ok)
			}
		})
	}
}
