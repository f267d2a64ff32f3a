package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/site-scout/backend/internal/metrics"
	"github.com/site-scout/backend/pkg/logger"
	"github.com/site-scout/backend/pkg/utils"
)

// Client caches generated answers keyed by website and question so a
// repeated question skips the inference call. The whole layer is
// optional; callers hold a nil *Client when redis is disabled.
type Client struct {
	client *redis.Client
	ttl    time.Duration
}

func NewClient(host string, port int, password string, db int, ttl time.Duration) (*Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: password,
		DB:       db,
	})

	ctx := context.Background()
	_, err := client.Ping(ctx).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("Redis client initialized", zap.String("addr", fmt.Sprintf("%s:%d", host, port)))

	return &Client{client: client, ttl: ttl}, nil
}

func (c *Client) Close() error {
	return c.client.Close()
}

func answerKey(websiteID int64, question string) string {
	return fmt.Sprintf("answer:%d:%s", websiteID, utils.HashString(question))
}

func (c *Client) GetAnswer(ctx context.Context, websiteID int64, question string) (string, bool, error) {
	answer, err := c.client.Get(ctx, answerKey(websiteID, question)).Result()
	if err == redis.Nil {
		metrics.CacheMisses.WithLabelValues("answer").Inc()
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get cached answer: %w", err)
	}

	metrics.CacheHits.WithLabelValues("answer").Inc()
	logger.Debug("Answer cache hit", zap.Int64("website_id", websiteID))
	return answer, true, nil
}

func (c *Client) SetAnswer(ctx context.Context, websiteID int64, question, answer string) error {
	err := c.client.Set(ctx, answerKey(websiteID, question), answer, c.ttl).Err()
	if err != nil {
		return fmt.Errorf("failed to cache answer: %w", err)
	}
	return nil
}
