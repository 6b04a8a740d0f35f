package store

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/bilgisen/rsswatch/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestAddFeedConflict(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	feed, err := s.AddFeed(ctx, "https://example.com/rss.xml")
	require.NoError(t, err)
	assert.NotZero(t, feed.ID)
	assert.Equal(t, "https://example.com/rss.xml", feed.URL)

	_, err = s.AddFeed(ctx, "https://example.com/rss.xml")
	assert.ErrorIs(t, err, ErrConflict)

	feeds, err := s.ListFeeds(ctx)
	require.NoError(t, err)
	assert.Len(t, feeds, 1)
}

func TestAddKeywordCaseInsensitiveConflict(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	kw, err := s.AddKeyword(ctx, "  Bitcoin ")
	require.NoError(t, err)
	assert.Equal(t, "bitcoin", kw.Text, "keywords are stored lowercase")

	_, err = s.AddKeyword(ctx, "BITCOIN")
	assert.ErrorIs(t, err, ErrConflict)
}

func TestAddKeywordBlankRejected(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.AddKeyword(ctx, "   ")
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = s.AddKeyword(ctx, "")
	assert.ErrorIs(t, err, ErrInvalid)

	keywords, err := s.ListKeywords(ctx)
	require.NoError(t, err)
	assert.Empty(t, keywords, "blank keywords must not be persisted")
}

func TestAddFeedBlankRejected(t *testing.T) {
	s := openTestStore(t)

	_, err := s.AddFeed(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestRemoveFeedNotFound(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.AddFeed(ctx, "https://example.com/rss.xml")
	require.NoError(t, err)

	err = s.RemoveFeed(ctx, 9999)
	assert.ErrorIs(t, err, ErrNotFound)

	feeds, err := s.ListFeeds(ctx)
	require.NoError(t, err)
	assert.Len(t, feeds, 1, "failed removal must not alter the table")
}

func TestRemoveKeywordNotFound(t *testing.T) {
	s := openTestStore(t)

	err := s.RemoveKeyword(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTryInsertDeduplicates(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	feed, err := s.AddFeed(ctx, "https://example.com/rss.xml")
	require.NoError(t, err)

	item := models.NewsItem{
		FeedID:         feed.ID,
		Title:          "Bitcoin rally",
		Link:           "https://example.com/a1",
		Summary:        "crypto up",
		MatchedKeyword: "bitcoin",
	}

	inserted, err := s.TryInsert(ctx, item)
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = s.TryInsert(ctx, item)
	require.NoError(t, err)
	assert.False(t, inserted, "second insert of the same (feed, link) must be a no-op")

	items, err := s.QueryNews(ctx, NewsFilter{})
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestTryInsertSameLinkDifferentFeeds(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	feedA, err := s.AddFeed(ctx, "https://a.example.com/rss.xml")
	require.NoError(t, err)
	feedB, err := s.AddFeed(ctx, "https://b.example.com/rss.xml")
	require.NoError(t, err)

	// The same story syndicated by two configured feeds is kept once per feed
	for _, id := range []int64{feedA.ID, feedB.ID} {
		inserted, err := s.TryInsert(ctx, models.NewsItem{
			FeedID:         id,
			Title:          "Shared story",
			Link:           "https://example.com/story",
			MatchedKeyword: "story",
		})
		require.NoError(t, err)
		assert.True(t, inserted)
	}
}

func TestTryInsertConcurrent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	feed, err := s.AddFeed(ctx, "https://example.com/rss.xml")
	require.NoError(t, err)

	const attempts = 10
	var wg sync.WaitGroup
	results := make(chan bool, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			inserted, err := s.TryInsert(ctx, models.NewsItem{
				FeedID:         feed.ID,
				Title:          "Bitcoin rally",
				Link:           "https://example.com/a1",
				MatchedKeyword: "bitcoin",
			})
			assert.NoError(t, err)
			results <- inserted
		}()
	}
	wg.Wait()
	close(results)

	var insertedCount int
	for inserted := range results {
		if inserted {
			insertedCount++
		}
	}
	assert.Equal(t, 1, insertedCount, "exactly one concurrent insert may win")
}

func TestQueryNewsFilters(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	feedA, err := s.AddFeed(ctx, "https://a.example.com/rss.xml")
	require.NoError(t, err)
	feedB, err := s.AddFeed(ctx, "https://b.example.com/rss.xml")
	require.NoError(t, err)

	now := time.Now().UTC()
	fixtures := []models.NewsItem{
		{FeedID: feedA.ID, Title: "one", Link: "l1", MatchedKeyword: "bitcoin", InsertedAt: now.Add(-2 * time.Minute)},
		{FeedID: feedA.ID, Title: "two", Link: "l2", MatchedKeyword: "gold", InsertedAt: now.Add(-1 * time.Minute)},
		{FeedID: feedB.ID, Title: "three", Link: "l3", MatchedKeyword: "bitcoin", InsertedAt: now},
	}
	for _, item := range fixtures {
		inserted, err := s.TryInsert(ctx, item)
		require.NoError(t, err)
		require.True(t, inserted)
	}

	all, err := s.QueryNews(ctx, NewsFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "three", all[0].Title, "newest first")

	kw := "bitcoin"
	byKeyword, err := s.QueryNews(ctx, NewsFilter{Keyword: &kw})
	require.NoError(t, err)
	assert.Len(t, byKeyword, 2)

	byFeed, err := s.QueryNews(ctx, NewsFilter{FeedID: &feedA.ID})
	require.NoError(t, err)
	assert.Len(t, byFeed, 2)

	both, err := s.QueryNews(ctx, NewsFilter{Keyword: &kw, FeedID: &feedA.ID})
	require.NoError(t, err)
	require.Len(t, both, 1)
	assert.Equal(t, "one", both[0].Title)

	// Filters are normalized like stored keywords are
	mixed := " Bitcoin "
	byMixedCase, err := s.QueryNews(ctx, NewsFilter{Keyword: &mixed})
	require.NoError(t, err)
	assert.Len(t, byMixedCase, 2)
}

func TestGetNews(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	feed, err := s.AddFeed(ctx, "https://example.com/rss.xml")
	require.NoError(t, err)

	inserted, err := s.TryInsert(ctx, models.NewsItem{
		FeedID:         feed.ID,
		Title:          "Bitcoin rally",
		Link:           "https://example.com/a1",
		MatchedKeyword: "bitcoin",
	})
	require.NoError(t, err)
	require.True(t, inserted)

	items, err := s.QueryNews(ctx, NewsFilter{})
	require.NoError(t, err)
	require.Len(t, items, 1)

	got, err := s.GetNews(ctx, items[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Bitcoin rally", got.Title)

	_, err = s.GetNews(ctx, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRemoveFeedCascadesNews(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	feed, err := s.AddFeed(ctx, "https://example.com/rss.xml")
	require.NoError(t, err)

	inserted, err := s.TryInsert(ctx, models.NewsItem{
		FeedID:         feed.ID,
		Title:          "Bitcoin rally",
		Link:           "https://example.com/a1",
		MatchedKeyword: "bitcoin",
	})
	require.NoError(t, err)
	require.True(t, inserted)

	require.NoError(t, s.RemoveFeed(ctx, feed.ID))

	items, err := s.QueryNews(ctx, NewsFilter{})
	require.NoError(t, err)
	assert.Empty(t, items, "deleting a feed removes its news items")
}
