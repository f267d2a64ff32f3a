package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/site-scout/backend/internal/storage/sqlite"
	"github.com/site-scout/backend/pkg/logger"
)

type UsersHandler struct {
	db *sqlite.Client
}

func NewUsersHandler(db *sqlite.Client) *UsersHandler {
	return &UsersHandler{db: db}
}

// Register is idempotent on email: re-registering a known address
// returns the existing record, never an "already exists" error.
func (h *UsersHandler) Register(c *fiber.Ctx) error {
	var req struct {
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Email     string `json:"email"`
		Avatar    string `json:"avatar"`
	}

	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if req.Email == "" {
		return fail(c, fiber.StatusBadRequest, "Email is required")
	}

	user, err := h.db.GetOrCreateUser(req.FirstName, req.LastName, req.Email, req.Avatar)
	if err != nil {
		logger.Error("Failed to register user", zap.String("email", req.Email), zap.Error(err))
		return fail(c, fiber.StatusInternalServerError, "Failed to register user")
	}

	return okWithMessage(c, user, "User registered successfully")
}

func (h *UsersHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.db.ListUsers()
	if err != nil {
		logger.Error("Failed to list users", zap.Error(err))
		return fail(c, fiber.StatusInternalServerError, "Failed to get users")
	}

	return ok(c, users)
}

func (h *UsersHandler) GetUserByID(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid user ID")
	}

	user, err := h.db.GetUserByID(id)
	if err != nil {
		if errors.Is(err, sqlite.ErrNotFound) {
			return fail(c, fiber.StatusNotFound, "User not found")
		}
		logger.Error("Failed to get user", zap.Int64("user_id", id), zap.Error(err))
		return fail(c, fiber.StatusInternalServerError, "Failed to get user")
	}

	return ok(c, user)
}

func (h *UsersHandler) GetUserByEmail(c *fiber.Ctx) error {
	email := c.Params("email")

	user, err := h.db.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, sqlite.ErrNotFound) {
			return fail(c, fiber.StatusNotFound, "User not found")
		}
		logger.Error("Failed to get user", zap.String("email", email), zap.Error(err))
		return fail(c, fiber.StatusInternalServerError, "Failed to get user")
	}

	return ok(c, user)
}
