package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bilgisen/rsswatch/internal/models"
)

// NewsFilter narrows a news query. Nil fields are ignored.
type NewsFilter struct {
	Keyword *string
	FeedID  *int64
}

// TryInsert stores a matched item unless an item with the same
// (feed_id, link) already exists. The decision is made by the unique
// constraint inside a single INSERT, so concurrent attempts on the same
// logical item yield exactly one true result.
func (s *Store) TryInsert(ctx context.Context, item models.NewsItem) (bool, error) {
	if item.InsertedAt.IsZero() {
		item.InsertedAt = time.Now().UTC()
	}

	res, err := s.db.ExecContext(ctx, `
INSERT INTO news (feed_id, title, link, published_at, summary, matched_keyword, inserted_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (feed_id, link) DO NOTHING`,
		item.FeedID, item.Title, item.Link, item.PublishedAt,
		item.Summary, item.MatchedKeyword, item.InsertedAt)
	if err != nil {
		return false, fmt.Errorf("failed to insert news item: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return rows == 1, nil
}

// QueryNews returns stored items matching the filter, newest first
func (s *Store) QueryNews(ctx context.Context, filter NewsFilter) ([]models.NewsItem, error) {
	query := `SELECT id, feed_id, title, link, published_at, summary, matched_keyword, inserted_at FROM news`
	var conditions []string
	var args []interface{}

	if filter.Keyword != nil {
		// Matched keywords are stored lowercase, so the filter is
		// normalized the same way before comparing.
		conditions = append(conditions, "matched_keyword = ?")
		args = append(args, strings.ToLower(strings.TrimSpace(*filter.Keyword)))
	}
	if filter.FeedID != nil {
		conditions = append(conditions, "feed_id = ?")
		args = append(args, *filter.FeedID)
	}
	for i, cond := range conditions {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY inserted_at DESC, id DESC"

	items := []models.NewsItem{}
	if err := s.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, fmt.Errorf("failed to query news: %w", err)
	}
	return items, nil
}

// GetNews returns one stored item by id. Returns ErrNotFound when absent.
func (s *Store) GetNews(ctx context.Context, id int64) (models.NewsItem, error) {
	var item models.NewsItem
	err := s.db.GetContext(ctx, &item,
		`SELECT id, feed_id, title, link, published_at, summary, matched_keyword, inserted_at
		 FROM news WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.NewsItem{}, ErrNotFound
		}
		return models.NewsItem{}, fmt.Errorf("failed to get news item: %w", err)
	}
	return item, nil
}
