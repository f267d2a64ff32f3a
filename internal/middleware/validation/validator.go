package validation

import (
	"net/url"
	"regexp"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/site-scout/backend/pkg/logger"
)

var injectionPattern = regexp.MustCompile(`(?i)(<script|<iframe|javascript:|onerror=|onload=|onclick=)`)

const maxQuestionLength = 5000

// Middleware rejects malformed bodies on the two write-heavy routes
// before they reach a handler. Business-level validation (missing ids,
// unknown websites) stays in the services.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Method() != fiber.MethodPost {
			return c.Next()
		}

		switch c.Path() {
		case "/crawler/crawl":
			var req struct {
				URL string `json:"url"`
			}
			if err := c.BodyParser(&req); err != nil {
				return reject(c, "Invalid JSON format")
			}
			if req.URL != "" && !isValidURL(req.URL) {
				return reject(c, "Invalid URL format")
			}

		case "/chat/ask":
			var req struct {
				Question string `json:"question"`
			}
			if err := c.BodyParser(&req); err != nil {
				return reject(c, "Invalid JSON format")
			}
			if len(req.Question) > maxQuestionLength {
				return reject(c, "Question exceeds maximum length")
			}
			if injectionPattern.MatchString(req.Question) {
				logger.Warn("Rejected suspicious question",
					zap.String("ip", c.IP()),
				)
				return reject(c, "Invalid question content")
			}
		}

		return c.Next()
	}
}

func reject(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}

func isValidURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}
