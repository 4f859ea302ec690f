// Package handlers exposes the backend-facing HTTP endpoints of the bridge.
package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/icommits/telecord/internal/backend"
)

// Sender delivers backend-originated content into a chat.
type Sender interface {
	SendText(chatID int64, text string) error
	SendDocumentURL(chatID int64, url string) error
}

// PushHandler receives messages pushed by the ticket backend and delivers
// them into the originating chat.
type PushHandler struct {
	logger *slog.Logger
	sender Sender
}

func NewPushHandler(log *slog.Logger, sender Sender) *PushHandler {
	if log == nil {
		log = slog.Default()
	}
	return &PushHandler{
		logger: log.With(slog.String("handler", "push")),
		sender: sender,
	}
}

func (h *PushHandler) Register(e *echo.Echo) {
	e.POST("/post-message", h.PostMessage)
}

// PostMessage delivers one backend message: the text first, then each
// attachment by URL. A text failure aborts with 400; attachment failures are
// counted and reported to the user in one aggregate notice. The response
// body is a textual echo of what was attempted.
func (h *PushHandler) PostMessage(c echo.Context) error {
	var msg backend.ChatMessage
	if err := c.Bind(&msg); err != nil {
		return c.JSON(http.StatusBadRequest, fmt.Sprintf("invalid payload: %v", err))
	}

	log := h.logger.With(
		slog.String("delivery_id", uuid.NewString()),
		slog.Int64("chat_id", msg.TeleID),
	)

	if err := h.sender.SendText(msg.TeleID, fmt.Sprintf("%s: %s", msg.Author, msg.Text)); err != nil {
		log.Error("deliver text failed", slog.Any("error", err))
		return c.JSON(http.StatusBadRequest, fmt.Sprintf("deliver message failed: %v", err))
	}

	failed := 0
	for _, att := range msg.Attachment {
		if err := h.sender.SendDocumentURL(msg.TeleID, att.URL); err != nil {
			log.Warn("deliver file failed", slog.String("name", att.Name), slog.Any("error", err))
			failed++
		}
	}
	if failed > 0 {
		notice := fmt.Sprintf("One or more files sent by %s failed to be sent", msg.Author)
		if err := h.sender.SendText(msg.TeleID, notice); err != nil {
			log.Error("deliver failure notice failed", slog.Any("error", err))
		}
		log.Warn("partial delivery", slog.Int("failed", failed), slog.Int("total", len(msg.Attachment)))
	}

	return c.JSON(http.StatusOK, fmt.Sprintf("%s. You sent: %s", msg.Author, msg.Text))
}
