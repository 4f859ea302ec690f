package telegram

import (
	"context"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const updateTimeoutSeconds = 30

// MessageHandler processes one inbound chat message.
type MessageHandler func(ctx context.Context, msg *tgbotapi.Message)

// Updates long-polls for updates and dispatches each message to handler
// until ctx is cancelled. Every message is an independent unit of work; no
// ordering is guaranteed across chats.
func (c *Client) Updates(ctx context.Context, handler MessageHandler) {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = updateTimeoutSeconds
	updates := c.bot.GetUpdatesChan(updateConfig)

	c.logger.Info("update listener started")
	for {
		select {
		case <-ctx.Done():
			c.bot.StopReceivingUpdates()
			// Drain so the library's polling goroutine can finish writing
			// and exit; otherwise the in-flight long-poll keeps the old
			// getUpdates session alive.
			for range updates {
			}
			c.logger.Info("update listener stopped")
			return
		case update, ok := <-updates:
			if !ok {
				c.logger.Info("updates channel closed")
				return
			}
			if update.Message == nil {
				continue
			}
			msg := update.Message
			go func() {
				defer func() {
					if r := recover(); r != nil {
						c.logger.Error("message handler panicked", slog.Any("panic", r))
					}
				}()
				handler(ctx, msg)
			}()
		}
	}
}
