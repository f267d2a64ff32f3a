package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/site-scout/backend/internal/chat"
	"github.com/site-scout/backend/internal/crawler"
	"github.com/site-scout/backend/internal/storage/sqlite"
	"github.com/site-scout/backend/pkg/logger"
)

type ChatHandler struct {
	service *chat.Service
	db      *sqlite.Client
}

func NewChatHandler(service *chat.Service, db *sqlite.Client) *ChatHandler {
	return &ChatHandler{service: service, db: db}
}

func (h *ChatHandler) AskQuestion(c *fiber.Ctx) error {
	var req struct {
		Question   string `json:"question"`
		WebsiteID  int64  `json:"websiteId"`
		WebsiteURL string `json:"websiteUrl"`
		UserID     int64  `json:"userId"`
	}

	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", zap.Error(err))
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if req.Question == "" {
		return fail(c, fiber.StatusBadRequest, "Question is required")
	}
	if req.UserID == 0 {
		return fail(c, fiber.StatusBadRequest, "userId is required")
	}

	result, err := h.service.Ask(c.Context(), chat.AskRequest{
		Question:   req.Question,
		UserID:     req.UserID,
		WebsiteID:  req.WebsiteID,
		WebsiteURL: req.WebsiteURL,
	})
	if err != nil {
		logger.Error("Failed to answer question", zap.Error(err))
		switch {
		case errors.Is(err, chat.ErrWebsiteUnresolved):
			return fail(c, fiber.StatusNotFound, err.Error())
		case errors.Is(err, crawler.ErrInvalidURL), errors.Is(err, crawler.ErrFetchFailed):
			return fail(c, fiber.StatusBadRequest, err.Error())
		default:
			return fail(c, fiber.StatusInternalServerError, "Failed to answer question")
		}
	}

	return okWithMessage(c, result, "Question answered successfully")
}

func (h *ChatHandler) ChatHistory(c *fiber.Ctx) error {
	var req struct {
		WebsiteID int64 `json:"websiteId"`
		UserID    int64 `json:"userId"`
	}

	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if req.WebsiteID == 0 {
		return fail(c, fiber.StatusBadRequest, "websiteId is required")
	}

	history, err := h.db.HistoryForWebsite(req.WebsiteID)
	if err != nil {
		logger.Error("Failed to get chat history", zap.Error(err))
		return fail(c, fiber.StatusInternalServerError, "Failed to get chat history")
	}

	return okWithMessage(c, history, "Chat history retrieved successfully")
}

func (h *ChatHandler) RecentMessages(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)

	messages, err := h.db.RecentMessages(limit)
	if err != nil {
		logger.Error("Failed to get recent messages", zap.Error(err))
		return fail(c, fiber.StatusInternalServerError, "Failed to get recent messages")
	}

	return ok(c, messages)
}

func (h *ChatHandler) AIHealth(c *fiber.Ctx) error {
	return c.JSON(h.service.Health(c.Context()))
}
