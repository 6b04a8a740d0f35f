package models

import "time"

// RunError records a single feed's failure within a run
type RunError struct {
	FeedID  int64  `json:"feed_id"`
	URL     string `json:"url"`
	Message string `json:"message"`
}

// RunSummary is the aggregate outcome of one fetch-filter-persist run.
// It is returned to the caller and logged, never persisted.
type RunSummary struct {
	RunID          string        `json:"run_id"`
	StartedAt      time.Time     `json:"started_at"`
	Duration       time.Duration `json:"duration"`
	FeedsAttempted int           `json:"feeds_attempted"`
	FeedsSucceeded int           `json:"feeds_succeeded"`
	ItemsSeen      int           `json:"items_seen"`
	ItemsInserted  int           `json:"items_inserted"`
	Errors         []RunError    `json:"errors,omitempty"`
}
