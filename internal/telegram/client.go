// Package telegram wraps the bot API behind the narrow surface the relay
// needs: send text, send a document by URL, resolve a file id to a fetchable
// URL, and stream inbound updates.
package telegram

import (
	"fmt"
	"log/slog"
	"path"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Client is a thin wrapper over *tgbotapi.BotAPI. The underlying bot holds
// only credentials and is safe for concurrent use, so one Client is shared
// by the update listener and the push endpoint.
type Client struct {
	logger      *slog.Logger
	bot         *tgbotapi.BotAPI
	token       string
	fileBaseURL string
}

// New authenticates the bot and returns a Client. fileBaseURL is the file
// serving root (default https://api.telegram.org/file); the bot token is
// appended per the platform's file URL scheme.
func New(log *slog.Logger, token, fileBaseURL string) (*Client, error) {
	if log == nil {
		log = slog.Default()
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}
	c := &Client{
		logger:      log.With(slog.String("component", "telegram")),
		bot:         bot,
		token:       token,
		fileBaseURL: strings.TrimRight(strings.TrimSpace(fileBaseURL), "/"),
	}
	c.logger.Info("bot authorized", slog.String("username", bot.Self.UserName))
	return c, nil
}

// BotName returns the bot's username, used to match /command@BotName suffixes.
func (c *Client) BotName() string {
	return c.bot.Self.UserName
}

// SendText delivers a plain text message into a chat.
func (c *Client) SendText(chatID int64, text string) error {
	_, err := c.bot.Send(tgbotapi.NewMessage(chatID, text))
	return err
}

// SendDocumentURL delivers a file into a chat by URL; the platform fetches
// the bytes itself.
func (c *Client) SendDocumentURL(chatID int64, url string) error {
	_, err := c.bot.Send(tgbotapi.NewDocument(chatID, tgbotapi.FileURL(url)))
	return err
}

// ResolveFileURL resolves a transient file id to a (name, fetchable URL)
// pair. The name is the final segment of the platform's file path.
func (c *Client) ResolveFileURL(fileID string) (string, string, error) {
	file, err := c.bot.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return "", "", fmt.Errorf("get file %q: %w", fileID, err)
	}
	if strings.TrimSpace(file.FilePath) == "" {
		return "", "", fmt.Errorf("get file %q: empty file path", fileID)
	}
	return path.Base(file.FilePath), composeFileURL(c.fileBaseURL, c.token, file.FilePath), nil
}

func composeFileURL(base, token, filePath string) string {
	return base + "/bot" + token + "/" + strings.TrimLeft(filePath, "/")
}
