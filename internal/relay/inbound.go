package relay

import (
	"context"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/icommits/telecord/internal/backend"
)

const (
	cmdOpenTicket  = "open-ticket"
	cmdCloseTicket = "close-ticket"
	cmdStart       = "start"
	cmdHelp        = "help"

	fallbackAuthor = "Unknown User"

	msgDirectOnly = "This bot can only be used in a direct message."
	msgWelcome    = "Hello, welcome to customer support! How can we help you?\n\n" +
		"To open a new ticket, send /open-ticket <short description of your issue>.\n" +
		"When you are done, send /close-ticket to close it."
	msgNoActiveTicket = "Please open a new ticket first."
	msgGenericError   = "Sorry, something went wrong. Please try again later."
)

// Sender delivers replies back into the chat.
type Sender interface {
	SendText(chatID int64, text string) error
}

// MessagePoster relays plain content into the chat's active ticket.
type MessagePoster interface {
	PostMessage(ctx context.Context, msg backend.ChatMessage) (backend.Outcome, error)
}

// TicketService handles the open/close lifecycle and returns the user-facing
// reply for each operation.
type TicketService interface {
	Open(ctx context.Context, chatID int64, titleArgs []string) string
	Close(ctx context.Context, chatID int64) string
}

// Processor handles each inbound chat message: command dispatch, attachment
// normalization, and plain-content relay. It keeps no state between events.
type Processor struct {
	logger  *slog.Logger
	sender  Sender
	files   FileResolver
	poster  MessagePoster
	tickets TicketService
	botName string
}

func NewProcessor(log *slog.Logger, sender Sender, files FileResolver, poster MessagePoster, tickets TicketService, botName string) *Processor {
	if log == nil {
		log = slog.Default()
	}
	return &Processor{
		logger:  log.With(slog.String("component", "relay")),
		sender:  sender,
		files:   files,
		poster:  poster,
		tickets: tickets,
		botName: botName,
	}
}

// HandleMessage processes one inbound message end to end. All failures are
// converted to a user-facing reply; nothing propagates to the caller.
func (p *Processor) HandleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg == nil || msg.Chat == nil {
		return
	}
	chatID := msg.Chat.ID
	if chatID < 0 {
		p.reply(chatID, msgDirectOnly)
		return
	}

	attachment, caption, err := NormalizeAttachment(msg, p.files)
	if err != nil {
		p.logger.Error("attachment normalization failed", slog.Int64("chat_id", chatID), slog.Any("error", err))
		p.reply(chatID, msgGenericError)
		return
	}

	text := msg.Text
	if text == "" {
		text = caption
	}

	command, args := ParseCommand(text, p.botName)
	switch command {
	case cmdOpenTicket:
		p.reply(chatID, p.tickets.Open(ctx, chatID, args))
		return
	case cmdCloseTicket:
		p.reply(chatID, p.tickets.Close(ctx, chatID))
		return
	case cmdStart, cmdHelp:
		p.reply(chatID, msgWelcome)
		return
	}

	content := backend.ChatMessage{
		TeleID:     chatID,
		Author:     authorName(msg),
		Text:       text,
		Attachment: []backend.AttachmentRef{},
	}
	if attachment != nil {
		content.Attachment = append(content.Attachment, *attachment)
	}

	outcome, err := p.poster.PostMessage(ctx, content)
	if err != nil {
		p.logger.Error("relay to backend failed", slog.Int64("chat_id", chatID), slog.Any("error", err))
		outcome = backend.OutcomeTransient
	}
	switch outcome {
	case backend.OutcomeConflict:
		p.reply(chatID, msgNoActiveTicket)
	case backend.OutcomeTransient:
		p.reply(chatID, msgGenericError)
	}
	// Success is silent: the message is in the ticket, nothing to say.
}

func (p *Processor) reply(chatID int64, text string) {
	if err := p.sender.SendText(chatID, text); err != nil {
		p.logger.Error("send reply failed", slog.Int64("chat_id", chatID), slog.Any("error", err))
	}
}

func authorName(msg *tgbotapi.Message) string {
	if msg.From == nil {
		return fallbackAuthor
	}
	name := strings.TrimSpace(strings.TrimSpace(msg.From.FirstName) + " " + strings.TrimSpace(msg.From.LastName))
	if name == "" {
		return fallbackAuthor
	}
	return name
}
