// Package ticket drives the open/close lifecycle of the backend-owned ticket
// associated with a chat. No ticket state lives here: the backend is the
// single source of truth and its response codes are the only observable state.
package ticket

import (
	"context"
	"log/slog"
	"strings"

	"github.com/icommits/telecord/internal/backend"
)

// User-facing outcomes for the lifecycle operations.
const (
	MsgMissingTitle = "Please provide a title after /open-ticket."
	MsgAlreadyOpen  = "You already have an active ticket. Please close it before opening a new one."
	MsgOpenFailed   = "Sorry, something went wrong while opening the ticket. Please try again later."
	MsgOpened       = "Thank you, your next messages will be forwarded to our support team."
	MsgNotFound     = "There is no active ticket to close."
	MsgCloseFailed  = "Sorry, something went wrong while closing the ticket. Please try again later."
	MsgClosed       = "Your ticket has been closed. Thank you for contacting support."
)

// Backend is the lifecycle slice of the ticket backend client.
type Backend interface {
	OpenTicket(ctx context.Context, req backend.TicketOpenRequest) (backend.Outcome, error)
	CloseTicket(ctx context.Context, req backend.TicketCloseRequest) (backend.Outcome, error)
}

type Service struct {
	logger  *slog.Logger
	backend Backend
}

func NewService(log *slog.Logger, b Backend) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		logger:  log.With(slog.String("component", "ticket")),
		backend: b,
	}
}

// Open requests a new ticket titled with the space-joined args and returns
// the reply to show the user. An empty title never reaches the backend.
func (s *Service) Open(ctx context.Context, chatID int64, titleArgs []string) string {
	if len(titleArgs) == 0 {
		return MsgMissingTitle
	}
	req := backend.TicketOpenRequest{
		ID:    chatID,
		Title: strings.Join(titleArgs, " "),
	}
	outcome, err := s.backend.OpenTicket(ctx, req)
	if err != nil {
		s.logger.Error("open ticket failed", slog.Int64("chat_id", chatID), slog.Any("error", err))
		return MsgOpenFailed
	}
	switch outcome {
	case backend.OutcomeSuccess:
		return MsgOpened
	case backend.OutcomeConflict:
		return MsgAlreadyOpen
	default:
		return MsgOpenFailed
	}
}

// Close requests closing the chat's active ticket and returns the reply to
// show the user.
func (s *Service) Close(ctx context.Context, chatID int64) string {
	outcome, err := s.backend.CloseTicket(ctx, backend.TicketCloseRequest{ID: chatID})
	if err != nil {
		s.logger.Error("close ticket failed", slog.Int64("chat_id", chatID), slog.Any("error", err))
		return MsgCloseFailed
	}
	switch outcome {
	case backend.OutcomeSuccess:
		return MsgClosed
	case backend.OutcomeConflict:
		return MsgNotFound
	default:
		return MsgCloseFailed
	}
}
