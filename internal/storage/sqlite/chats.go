package sqlite

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/site-scout/backend/internal/storage/models"
	"github.com/site-scout/backend/pkg/logger"
)

// SaveMessage records a question/answer pair. The answer is typically
// empty at this point and written later with UpdateAnswer.
func (c *Client) SaveMessage(question, answer string, userID, websiteID int64) (*models.ChatMessage, error) {
	query := `INSERT INTO chat_messages (question, answer, user_id, website_id, created_at) VALUES (?, ?, ?, ?, ?)`

	now := time.Now().UnixMilli()
	res, err := c.db.Exec(query, question, answer, userID, websiteID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to save message: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read message id: %w", err)
	}

	logger.Debug("Chat message saved",
		zap.Int64("message_id", id),
		zap.Int64("user_id", userID),
		zap.Int64("website_id", websiteID),
	)

	return &models.ChatMessage{
		ID:        id,
		Question:  question,
		Answer:    answer,
		UserID:    userID,
		WebsiteID: websiteID,
		CreatedAt: time.UnixMilli(now),
	}, nil
}

func (c *Client) UpdateAnswer(messageID int64, answer string) error {
	res, err := c.db.Exec(`UPDATE chat_messages SET answer = ? WHERE id = ?`, answer, messageID)
	if err != nil {
		return fmt.Errorf("failed to update message: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

// HistoryForWebsite lists a website's conversation in chronological
// order, each row joined with the asking user's identity.
func (c *Client) HistoryForWebsite(websiteID int64) ([]models.ChatMessage, error) {
	query := `
		SELECT m.id, m.question, m.answer, m.user_id, m.website_id, m.created_at,
			u.id, u.first_name, u.last_name
		FROM chat_messages m
		JOIN users u ON u.id = m.user_id
		WHERE m.website_id = ?
		ORDER BY m.created_at ASC, m.id ASC
	`

	rows, err := c.db.Query(query, websiteID)
	if err != nil {
		return nil, fmt.Errorf("failed to get chat history: %w", err)
	}
	defer rows.Close()

	var messages []models.ChatMessage
	for rows.Next() {
		var m models.ChatMessage
		var u models.UserRef
		var createdAt int64

		err := rows.Scan(&m.ID, &m.Question, &m.Answer, &m.UserID, &m.WebsiteID, &createdAt,
			&u.ID, &u.FirstName, &u.LastName)
		if err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}

		m.CreatedAt = time.UnixMilli(createdAt)
		m.User = &u
		messages = append(messages, m)
	}

	return messages, rows.Err()
}

// HistoryForUser lists a user's messages across all websites, newest
// first, each row joined with website identity.
func (c *Client) HistoryForUser(userID int64) ([]models.ChatMessage, error) {
	query := `
		SELECT m.id, m.question, m.answer, m.user_id, m.website_id, m.created_at,
			w.id, w.url, w.title
		FROM chat_messages m
		JOIN websites w ON w.id = m.website_id
		WHERE m.user_id = ?
		ORDER BY m.created_at DESC, m.id DESC
	`

	rows, err := c.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user chats: %w", err)
	}
	defer rows.Close()

	var messages []models.ChatMessage
	for rows.Next() {
		var m models.ChatMessage
		var w models.WebsiteRef
		var createdAt int64

		err := rows.Scan(&m.ID, &m.Question, &m.Answer, &m.UserID, &m.WebsiteID, &createdAt,
			&w.ID, &w.URL, &w.Title)
		if err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}

		m.CreatedAt = time.UnixMilli(createdAt)
		m.Website = &w
		messages = append(messages, m)
	}

	return messages, rows.Err()
}

// RecentMessages lists the newest messages system-wide, joined with
// both user and website identity.
func (c *Client) RecentMessages(limit int) ([]models.ChatMessage, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT m.id, m.question, m.answer, m.user_id, m.website_id, m.created_at,
			u.id, u.first_name, u.last_name,
			w.id, w.url, w.title
		FROM chat_messages m
		JOIN users u ON u.id = m.user_id
		JOIN websites w ON w.id = m.website_id
		ORDER BY m.created_at DESC, m.id DESC
		LIMIT ?
	`

	rows, err := c.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent messages: %w", err)
	}
	defer rows.Close()

	var messages []models.ChatMessage
	for rows.Next() {
		var m models.ChatMessage
		var u models.UserRef
		var w models.WebsiteRef
		var createdAt int64

		err := rows.Scan(&m.ID, &m.Question, &m.Answer, &m.UserID, &m.WebsiteID, &createdAt,
			&u.ID, &u.FirstName, &u.LastName,
			&w.ID, &w.URL, &w.Title)
		if err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}

		m.CreatedAt = time.UnixMilli(createdAt)
		m.User = &u
		m.Website = &w
		messages = append(messages, m)
	}

	return messages, rows.Err()
}
