package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bilgisen/rsswatch/internal/models"
)

// AddFeed registers a new feed URL. Returns ErrConflict when the URL is
// already configured.
func (s *Store) AddFeed(ctx context.Context, url string) (models.Feed, error) {
	feed := models.Feed{
		URL:       strings.TrimSpace(url),
		CreatedAt: time.Now().UTC(),
	}
	if feed.URL == "" {
		return models.Feed{}, ErrInvalid
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO feeds (url, created_at) VALUES (?, ?)`,
		feed.URL, feed.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return models.Feed{}, ErrConflict
		}
		return models.Feed{}, fmt.Errorf("failed to insert feed: %w", err)
	}

	feed.ID, err = res.LastInsertId()
	if err != nil {
		return models.Feed{}, fmt.Errorf("failed to read feed id: %w", err)
	}
	return feed, nil
}

// ListFeeds returns all configured feeds in creation order
func (s *Store) ListFeeds(ctx context.Context) ([]models.Feed, error) {
	feeds := []models.Feed{}
	err := s.db.SelectContext(ctx, &feeds,
		`SELECT id, url, created_at FROM feeds ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list feeds: %w", err)
	}
	return feeds, nil
}

// RemoveFeed deletes a feed and, by cascade, its stored news items.
// Returns ErrNotFound when no feed has the given id.
func (s *Store) RemoveFeed(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM feeds WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete feed: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// AddKeyword registers a new watchlist keyword, stored lowercase.
// Uniqueness is case-insensitive; "Bitcoin" after "BITCOIN" is a conflict.
func (s *Store) AddKeyword(ctx context.Context, text string) (models.Keyword, error) {
	kw := models.Keyword{
		Text:      strings.ToLower(strings.TrimSpace(text)),
		CreatedAt: time.Now().UTC(),
	}
	if kw.Text == "" {
		return models.Keyword{}, ErrInvalid
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO keywords (text, created_at) VALUES (?, ?)`,
		kw.Text, kw.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return models.Keyword{}, ErrConflict
		}
		return models.Keyword{}, fmt.Errorf("failed to insert keyword: %w", err)
	}

	kw.ID, err = res.LastInsertId()
	if err != nil {
		return models.Keyword{}, fmt.Errorf("failed to read keyword id: %w", err)
	}
	return kw, nil
}

// ListKeywords returns all keywords in creation order, which is also the
// order the matcher tries them in.
func (s *Store) ListKeywords(ctx context.Context) ([]models.Keyword, error) {
	keywords := []models.Keyword{}
	err := s.db.SelectContext(ctx, &keywords,
		`SELECT id, text, created_at FROM keywords ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list keywords: %w", err)
	}
	return keywords, nil
}

// RemoveKeyword deletes a keyword. Returns ErrNotFound when absent.
func (s *Store) RemoveKeyword(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM keywords WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete keyword: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
