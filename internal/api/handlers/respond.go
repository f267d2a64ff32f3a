package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// Every endpoint answers with the same envelope: a success flag, the
// typed payload on success, a message on failure. Business errors ride
// in the envelope instead of bare status codes.
type envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

func ok(c *fiber.Ctx, data interface{}) error {
	return c.JSON(envelope{Success: true, Data: data})
}

func okWithMessage(c *fiber.Ctx, data interface{}, message string) error {
	return c.JSON(envelope{Success: true, Data: data, Message: message})
}

func fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(envelope{Success: false, Message: message})
}
