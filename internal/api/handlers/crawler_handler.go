package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/site-scout/backend/internal/crawler"
	"github.com/site-scout/backend/internal/storage/sqlite"
	"github.com/site-scout/backend/pkg/logger"
)

type CrawlerHandler struct {
	crawler *crawler.Crawler
	db      *sqlite.Client
}

func NewCrawlerHandler(cr *crawler.Crawler, db *sqlite.Client) *CrawlerHandler {
	return &CrawlerHandler{crawler: cr, db: db}
}

func (h *CrawlerHandler) CrawlWebsite(c *fiber.Ctx) error {
	var req struct {
		URL string `json:"url"`
	}

	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", zap.Error(err))
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if req.URL == "" {
		return fail(c, fiber.StatusBadRequest, "URL is required")
	}

	website, err := h.crawler.Crawl(c.Context(), req.URL)
	if err != nil {
		logger.Error("Crawl failed", zap.String("url", req.URL), zap.Error(err))
		status := fiber.StatusBadRequest
		if !errors.Is(err, crawler.ErrInvalidURL) {
			status = fiber.StatusBadGateway
		}
		return fail(c, status, err.Error())
	}

	return okWithMessage(c, website, "Website crawled successfully")
}

func (h *CrawlerHandler) ListWebsites(c *fiber.Ctx) error {
	websites, err := h.db.ListWebsites()
	if err != nil {
		logger.Error("Failed to list websites", zap.Error(err))
		return fail(c, fiber.StatusInternalServerError, "Failed to get websites")
	}

	return ok(c, websites)
}

func (h *CrawlerHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "OK",
		"service":   "Crawler",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
