package models

import "time"

// Feed is a configured syndication source polled on every run
type Feed struct {
	ID        int64     `json:"id" db:"id"`
	URL       string    `json:"url" db:"url"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Keyword is a watchlist entry matched against incoming items.
// Text is stored lowercase; uniqueness is case-insensitive.
type Keyword struct {
	ID        int64     `json:"id" db:"id"`
	Text      string    `json:"keyword" db:"text"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
