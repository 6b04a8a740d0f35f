package pipeline

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/bilgisen/rsswatch/internal/cache"
	"github.com/bilgisen/rsswatch/internal/logger"
	"github.com/bilgisen/rsswatch/internal/match"
	"github.com/bilgisen/rsswatch/internal/models"
	"github.com/bilgisen/rsswatch/internal/store"
	"github.com/bilgisen/rsswatch/internal/utils"
	"github.com/google/uuid"
)

// Fetcher retrieves and parses one feed URL
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]models.RawItem, error)
}

// Archiver receives the items a run inserted, for export
type Archiver interface {
	Export(ctx context.Context, runID string, items []models.NewsItem) error
}

type Options struct {
	FetchTimeout   time.Duration
	MaxConcurrency int
	CacheTTL       time.Duration
}

// Pipeline executes one fetch-filter-dedup-persist cycle across all
// configured feeds. Callers serialize runs through the scheduler's guard;
// the pipeline itself only assumes the store is safe for concurrent use.
type Pipeline struct {
	store   *store.Store
	fetcher Fetcher
	seen    cache.SeenCache
	archive Archiver
	opts    Options
}

func New(st *store.Store, fetcher Fetcher, seen cache.SeenCache, archive Archiver, opts Options) *Pipeline {
	if opts.MaxConcurrency <= 0 {
		opts.MaxConcurrency = 5
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = 20 * time.Second
	}
	return &Pipeline{
		store:   st,
		fetcher: fetcher,
		seen:    seen,
		archive: archive,
		opts:    opts,
	}
}

// Run executes one cycle and always produces a summary; individual feed
// failures are recorded in it, never returned. The only error case is an
// unreachable store, which invalidates the dedup guarantee and must be
// surfaced loudly.
func (p *Pipeline) Run(ctx context.Context) (*models.RunSummary, error) {
	log := logger.Get()
	start := time.Now()

	summary := &models.RunSummary{
		RunID:     uuid.NewString(),
		StartedAt: start.UTC(),
	}

	// Snapshot feeds and keywords before fetching anything, so every item
	// in this run is matched against the same keyword set.
	feeds, err := p.store.ListFeeds(ctx)
	if err != nil {
		log.Error().Err(err).Str("run_id", summary.RunID).Msg("Store unreachable, aborting run")
		return nil, fmt.Errorf("storage unavailable: %w", err)
	}
	keywords, err := p.store.ListKeywords(ctx)
	if err != nil {
		log.Error().Err(err).Str("run_id", summary.RunID).Msg("Store unreachable, aborting run")
		return nil, fmt.Errorf("storage unavailable: %w", err)
	}

	summary.FeedsAttempted = len(feeds)

	var mu sync.Mutex
	var wg sync.WaitGroup
	var inserted []models.NewsItem

	semaphore := make(chan struct{}, p.opts.MaxConcurrency)

	for _, f := range feeds {
		f := f

		wg.Add(1)
		semaphore <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-semaphore }()

			fctx, cancel := context.WithTimeout(ctx, p.opts.FetchTimeout)
			defer cancel()

			items, err := p.fetcher.Fetch(fctx, f.URL)
			if err != nil {
				log.Warn().
					Err(err).
					Int64("feed_id", f.ID).
					Str("url", f.URL).
					Msg("Feed fetch failed, skipping until next cycle")
				mu.Lock()
				summary.Errors = append(summary.Errors, models.RunError{
					FeedID:  f.ID,
					URL:     f.URL,
					Message: err.Error(),
				})
				mu.Unlock()
				return
			}

			newItems := p.ingestFeed(ctx, f, keywords, items)

			mu.Lock()
			summary.FeedsSucceeded++
			summary.ItemsSeen += len(items)
			summary.ItemsInserted += len(newItems)
			inserted = append(inserted, newItems...)
			mu.Unlock()
		}()
	}

	wg.Wait()
	summary.Duration = time.Since(start)

	log.Info().
		Str("run_id", summary.RunID).
		Int("feeds_attempted", summary.FeedsAttempted).
		Int("feeds_succeeded", summary.FeedsSucceeded).
		Int("items_seen", summary.ItemsSeen).
		Int("items_inserted", summary.ItemsInserted).
		Int("feed_errors", len(summary.Errors)).
		Dur("duration", summary.Duration).
		Msg("Run completed")

	if p.archive != nil && len(inserted) > 0 {
		if err := p.archive.Export(ctx, summary.RunID, inserted); err != nil {
			log.Error().
				Err(err).
				Str("run_id", summary.RunID).
				Msg("Archive export failed")
		}
	}

	return summary, nil
}

// ingestFeed matches one feed's items and persists the hits, returning
// the items this run actually inserted.
func (p *Pipeline) ingestFeed(ctx context.Context, f models.Feed, keywords []models.Keyword, items []models.RawItem) []models.NewsItem {
	log := logger.Get()
	var newItems []models.NewsItem

	for _, raw := range items {
		matched, ok := match.Match(raw, keywords)
		if !ok {
			continue
		}

		key := utils.Hash(strconv.FormatInt(f.ID, 10) + "|" + raw.Link)
		if p.seen != nil {
			// Cache errors downgrade to a miss; the unique constraint
			// below still guarantees at-most-once insertion.
			if seen, err := p.seen.Seen(ctx, key); err == nil && seen {
				continue
			}
		}

		// Stamped here rather than in TryInsert so the copy handed to
		// the archive exporter carries the insertion time.
		item := models.NewsItem{
			FeedID:         f.ID,
			Title:          raw.Title,
			Link:           raw.Link,
			PublishedAt:    raw.PublishedAt,
			Summary:        raw.Summary,
			MatchedKeyword: matched,
			InsertedAt:     time.Now().UTC(),
		}

		wasInserted, err := p.store.TryInsert(ctx, item)
		if err != nil {
			log.Error().
				Err(err).
				Int64("feed_id", f.ID).
				Str("link", raw.Link).
				Msg("Failed to insert news item")
			continue
		}

		if p.seen != nil {
			if err := p.seen.MarkSeen(ctx, key, p.opts.CacheTTL); err != nil {
				log.Debug().Err(err).Str("link", raw.Link).Msg("Failed to mark item as seen")
			}
		}

		if wasInserted {
			newItems = append(newItems, item)
		}
	}
	return newItems
}
