package models

import "time"

// NewsItem is a persisted feed entry that matched at least one keyword.
// Items are written once by the ingest pipeline and never updated;
// (FeedID, Link) is unique across all stored items.
type NewsItem struct {
	ID             int64      `json:"id" db:"id"`
	FeedID         int64      `json:"feed_id" db:"feed_id"`
	Title          string     `json:"title" db:"title"`
	Link           string     `json:"link" db:"link"`
	PublishedAt    *time.Time `json:"published_at,omitempty" db:"published_at"`
	Summary        string     `json:"summary" db:"summary"`
	MatchedKeyword string     `json:"matched_keyword" db:"matched_keyword"`
	InsertedAt     time.Time  `json:"inserted_at" db:"inserted_at"`
}

// RawItem is a normalized entry extracted from a fetched feed document,
// before matching. Summaries are already HTML-stripped.
type RawItem struct {
	Title       string     `json:"title"`
	Link        string     `json:"link"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	Summary     string     `json:"summary"`
}
