package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/site-scout/backend/internal/storage/models"
	"github.com/site-scout/backend/pkg/logger"
)

// GetOrCreateUser registers a user keyed by email. Registering an
// existing email returns the stored record unchanged.
func (c *Client) GetOrCreateUser(firstName, lastName, email, avatar string) (*models.User, error) {
	existing, err := c.GetUserByEmail(email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	query := `INSERT INTO users (first_name, last_name, email, avatar, created_at) VALUES (?, ?, ?, ?, ?)`

	res, err := c.db.Exec(query, firstName, lastName, email, avatar, time.Now().UnixMilli())
	if err != nil {
		// Lost the race against a concurrent registration of the same
		// email; the unique index guarantees the row now exists.
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return c.GetUserByEmail(email)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read user id: %w", err)
	}

	logger.Info("User registered", zap.Int64("user_id", id), zap.String("email", email))

	return c.GetUserByID(id)
}

func (c *Client) GetUserByEmail(email string) (*models.User, error) {
	query := `SELECT id, first_name, last_name, email, avatar, created_at FROM users WHERE email = ?`
	return c.scanUser(c.db.QueryRow(query, email))
}

// GetUserByID returns the user along with their total message count
// and ten most recent messages joined with website identity.
func (c *Client) GetUserByID(id int64) (*models.User, error) {
	query := `SELECT id, first_name, last_name, email, avatar, created_at FROM users WHERE id = ?`

	user, err := c.scanUser(c.db.QueryRow(query, id))
	if err != nil {
		return nil, err
	}

	countQuery := `SELECT COUNT(*) FROM chat_messages WHERE user_id = ?`
	if err := c.db.QueryRow(countQuery, id).Scan(&user.MessageCount); err != nil {
		return nil, fmt.Errorf("failed to count user messages: %w", err)
	}

	messages, err := c.HistoryForUser(id)
	if err != nil {
		return nil, err
	}
	if len(messages) > 10 {
		messages = messages[:10]
	}
	user.Messages = messages

	return user, nil
}

func (c *Client) ListUsers() ([]models.User, error) {
	query := `
		SELECT u.id, u.first_name, u.last_name, u.email, u.avatar, u.created_at,
			COUNT(m.id) AS message_count
		FROM users u
		LEFT JOIN chat_messages m ON m.user_id = u.id
		GROUP BY u.id
		ORDER BY u.created_at DESC, u.id DESC
	`

	rows, err := c.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		var createdAt int64

		err := rows.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.Avatar, &createdAt, &u.MessageCount)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}

		u.CreatedAt = time.UnixMilli(createdAt)
		users = append(users, u)
	}

	return users, rows.Err()
}

func (c *Client) scanUser(row rowScanner) (*models.User, error) {
	var u models.User
	var createdAt int64

	err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.Avatar, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}

	u.CreatedAt = time.UnixMilli(createdAt)
	return &u, nil
}
