package handlers

import (
	"context"
	"strings"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/site-scout/backend/internal/chat"
	"github.com/site-scout/backend/pkg/logger"
)

// WebSocketHandler streams answers word by word over /chat/ws so the
// frontend can render them as they arrive.
type WebSocketHandler struct {
	service *chat.Service
}

func NewWebSocketHandler(service *chat.Service) *WebSocketHandler {
	return &WebSocketHandler{service: service}
}

func (h *WebSocketHandler) HandleConnection(c *websocket.Conn) {
	logger.Info("WebSocket connection established")

	defer func() {
		c.Close()
		logger.Info("WebSocket connection closed")
	}()

	for {
		var msg struct {
			Type       string `json:"type"`
			Content    string `json:"content"`
			UserID     int64  `json:"user_id"`
			WebsiteID  int64  `json:"website_id"`
			WebsiteURL string `json:"website_url"`
		}

		if err := c.ReadJSON(&msg); err != nil {
			logger.Debug("WebSocket read ended", zap.Error(err))
			break
		}

		if msg.Type != "question" {
			continue
		}

		err := h.streamAnswer(c, chat.AskRequest{
			Question:   msg.Content,
			UserID:     msg.UserID,
			WebsiteID:  msg.WebsiteID,
			WebsiteURL: msg.WebsiteURL,
		})
		if err != nil {
			logger.Error("Failed to stream answer", zap.Error(err))
			h.send(c, "error", "Failed to answer question")
		}
	}
}

func (h *WebSocketHandler) streamAnswer(c *websocket.Conn, req chat.AskRequest) error {
	h.send(c, "status", "Thinking...")

	result, err := h.service.Ask(context.Background(), req)
	if err != nil {
		return err
	}

	words := strings.Fields(result.Answer)
	for i, word := range words {
		chunk := word
		if i < len(words)-1 {
			chunk += " "
		}
		if err := h.send(c, "chunk", chunk); err != nil {
			return err
		}
	}

	return c.WriteJSON(map[string]interface{}{
		"type":       "complete",
		"question":   result.Question,
		"website_id": result.WebsiteID,
		"user_id":    result.UserID,
	})
}

func (h *WebSocketHandler) send(c *websocket.Conn, msgType, content string) error {
	return c.WriteJSON(map[string]interface{}{
		"type":    msgType,
		"content": content,
	})
}
