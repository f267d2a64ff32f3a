package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/site-scout/backend/internal/analytics"
	"github.com/site-scout/backend/pkg/logger"
)

type AnalyticsHandler struct {
	aggregator *analytics.Aggregator
}

func NewAnalyticsHandler(aggregator *analytics.Aggregator) *AnalyticsHandler {
	return &AnalyticsHandler{aggregator: aggregator}
}

func (h *AnalyticsHandler) VisitedWebsitesCount(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid user ID")
	}

	result, err := h.aggregator.VisitedWebsiteCount(userID)
	if err != nil {
		logger.Error("Failed to count visited websites", zap.Int64("user_id", userID), zap.Error(err))
		return fail(c, fiber.StatusInternalServerError, "Failed to get analytics")
	}

	return c.JSON(result)
}

func (h *AnalyticsHandler) WebsiteVisits(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid user ID")
	}

	result, err := h.aggregator.WebsiteVisits(userID)
	if err != nil {
		logger.Error("Failed to get website visits", zap.Int64("user_id", userID), zap.Error(err))
		return fail(c, fiber.StatusInternalServerError, "Failed to get analytics")
	}

	return c.JSON(result)
}

func (h *AnalyticsHandler) ChatStats(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid user ID")
	}

	result, err := h.aggregator.ChatStats(userID)
	if err != nil {
		logger.Error("Failed to get chat stats", zap.Int64("user_id", userID), zap.Error(err))
		return fail(c, fiber.StatusInternalServerError, "Failed to get analytics")
	}

	return c.JSON(result)
}

func (h *AnalyticsHandler) Summary(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid user ID")
	}

	result, err := h.aggregator.UserSummary(c.Context(), userID)
	if err != nil {
		logger.Error("Failed to build analytics summary", zap.Int64("user_id", userID), zap.Error(err))
		return fail(c, fiber.StatusInternalServerError, "Failed to get analytics")
	}

	return c.JSON(result)
}

func parseUserID(c *fiber.Ctx) (int64, error) {
	return strconv.ParseInt(c.Params("userId"), 10, 64)
}
