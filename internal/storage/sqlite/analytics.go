package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/site-scout/backend/internal/storage/models"
)

// CountVisitedWebsites groups a user's messages by website.
func (c *Client) CountVisitedWebsites(userID int64) ([]models.WebsiteInteraction, error) {
	query := `
		SELECT website_id, COUNT(*)
		FROM chat_messages
		WHERE user_id = ?
		GROUP BY website_id
	`

	rows, err := c.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count visited websites: %w", err)
	}
	defer rows.Close()

	var interactions []models.WebsiteInteraction
	for rows.Next() {
		var wi models.WebsiteInteraction
		if err := rows.Scan(&wi.WebsiteID, &wi.InteractionCount); err != nil {
			return nil, fmt.Errorf("failed to scan interaction: %w", err)
		}
		interactions = append(interactions, wi)
	}

	return interactions, rows.Err()
}

// WebsiteVisitDetails joins per-website visit counts with website
// identity. The LEFT JOIN keeps rows whose website record is missing;
// those fall back to literal placeholders instead of failing the call.
func (c *Client) WebsiteVisitDetails(userID int64) ([]models.WebsiteVisitDetail, error) {
	query := `
		SELECT m.website_id, COUNT(m.id), MAX(m.created_at), w.url, w.title, w.created_at
		FROM chat_messages m
		LEFT JOIN websites w ON w.id = m.website_id
		WHERE m.user_id = ?
		GROUP BY m.website_id
		ORDER BY COUNT(m.id) DESC
	`

	rows, err := c.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get website visits: %w", err)
	}
	defer rows.Close()

	var details []models.WebsiteVisitDetail
	for rows.Next() {
		var d models.WebsiteVisitDetail
		var lastVisited int64
		var url, title sql.NullString
		var crawled sql.NullInt64

		err := rows.Scan(&d.WebsiteID, &d.VisitCount, &lastVisited, &url, &title, &crawled)
		if err != nil {
			return nil, fmt.Errorf("failed to scan visit detail: %w", err)
		}

		d.LastVisited = time.UnixMilli(lastVisited)
		d.WebsiteURL = "Unknown"
		if url.Valid && url.String != "" {
			d.WebsiteURL = url.String
		}
		d.WebsiteTitle = "No Title"
		if title.Valid && title.String != "" {
			d.WebsiteTitle = title.String
		}
		if crawled.Valid {
			t := time.UnixMilli(crawled.Int64)
			d.FirstCrawled = &t
		}

		details = append(details, d)
	}

	return details, rows.Err()
}

// ChatStatsForUser reports message volume and the activity window.
func (c *Client) ChatStatsForUser(userID int64) (*models.ChatStats, error) {
	query := `
		SELECT COUNT(*), MIN(created_at), MAX(created_at)
		FROM chat_messages
		WHERE user_id = ?
	`

	var stats models.ChatStats
	var first, last sql.NullInt64

	err := c.db.QueryRow(query, userID).Scan(&stats.TotalMessages, &first, &last)
	if err != nil {
		return nil, fmt.Errorf("failed to get chat stats: %w", err)
	}

	if first.Valid {
		t := time.UnixMilli(first.Int64)
		stats.FirstInteraction = &t
	}
	if last.Valid {
		t := time.UnixMilli(last.Int64)
		stats.LastInteraction = &t
	}

	return &stats, nil
}
