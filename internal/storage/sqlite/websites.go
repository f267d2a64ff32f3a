package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/site-scout/backend/internal/storage/models"
	"github.com/site-scout/backend/pkg/logger"
)

// UpsertWebsite writes one row per URL. A second crawl of the same URL
// overwrites title, content and metadata in place; the unique index on
// url keeps concurrent crawls from producing duplicates.
func (c *Client) UpsertWebsite(url, title, content string, metadata models.WebsiteMetadata) (*models.Website, error) {
	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata: %w", err)
	}

	now := time.Now().UnixMilli()

	query := `
		INSERT INTO websites (url, title, content, metadata, created_at, crawled_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
			title = excluded.title,
			content = excluded.content,
			metadata = excluded.metadata,
			crawled_at = excluded.crawled_at
	`

	_, err = c.db.Exec(query, url, title, content, string(metadataJSON), now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert website: %w", err)
	}

	website, err := c.GetWebsiteByURL(url)
	if err != nil {
		return nil, err
	}

	logger.Debug("Website upserted", zap.Int64("website_id", website.ID), zap.String("url", url))
	return website, nil
}

func (c *Client) GetWebsiteByURL(url string) (*models.Website, error) {
	query := `SELECT id, url, title, content, metadata, created_at, crawled_at FROM websites WHERE url = ?`
	return c.scanWebsite(c.db.QueryRow(query, url))
}

func (c *Client) GetWebsiteByID(id int64) (*models.Website, error) {
	query := `SELECT id, url, title, content, metadata, created_at, crawled_at FROM websites WHERE id = ?`
	return c.scanWebsite(c.db.QueryRow(query, id))
}

func (c *Client) ListWebsites() ([]models.Website, error) {
	query := `
		SELECT id, url, title, content, metadata, created_at, crawled_at
		FROM websites
		ORDER BY crawled_at DESC, id DESC
	`

	rows, err := c.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list websites: %w", err)
	}
	defer rows.Close()

	var websites []models.Website
	for rows.Next() {
		w, err := c.scanWebsite(rows)
		if err != nil {
			return nil, err
		}
		websites = append(websites, *w)
	}

	return websites, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (c *Client) scanWebsite(row rowScanner) (*models.Website, error) {
	var w models.Website
	var metadataJSON string
	var createdAt, crawledAt int64

	err := row.Scan(&w.ID, &w.URL, &w.Title, &w.Content, &metadataJSON, &createdAt, &crawledAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan website: %w", err)
	}

	if err := json.Unmarshal([]byte(metadataJSON), &w.Metadata); err != nil {
		return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
	}

	w.CreatedAt = time.UnixMilli(createdAt)
	w.CrawledAt = time.UnixMilli(crawledAt)

	return &w, nil
}
