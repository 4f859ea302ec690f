package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Conflict markers the backend uses on the lifecycle endpoints when it
// reports a domain conflict by message rather than by code.
const (
	conflictTicketExists   = "forum exists"
	conflictTicketNotFound = "forum not found"
)

// Client posts ticket requests and relayed messages to the backend. It holds
// no state beyond credentials-free connection settings and is safe for
// concurrent use.
type Client struct {
	logger  *slog.Logger
	baseURL string
	client  *http.Client
}

// New creates a backend client for baseURL. A zero timeout falls back to 10s.
func New(log *slog.Logger, baseURL string, timeout time.Duration) *Client {
	if log == nil {
		log = slog.Default()
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		logger:  log.With(slog.String("component", "backend")),
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// OpenTicket creates a ticket thread. A conflict outcome means a ticket is
// already active for the chat.
func (c *Client) OpenTicket(ctx context.Context, req TicketOpenRequest) (Outcome, error) {
	var env InitEnvelope
	if err := c.post(ctx, "/init", req, &env); err != nil {
		return OutcomeTransient, err
	}
	outcome := env.Outcome(conflictTicketExists)
	if outcome == OutcomeSuccess {
		c.logger.Info("ticket opened", slog.Int64("chat_id", req.ID), slog.Int64("thread_id", env.ID))
	}
	return outcome, nil
}

// CloseTicket closes the chat's active ticket. A conflict outcome means no
// ticket exists for the chat.
func (c *Client) CloseTicket(ctx context.Context, req TicketCloseRequest) (Outcome, error) {
	var env Envelope
	if err := c.post(ctx, "/close", req, &env); err != nil {
		return OutcomeTransient, err
	}
	return env.Outcome(conflictTicketNotFound), nil
}

// PostMessage relays a chat message into the active ticket. A conflict
// outcome means the chat has no active ticket.
func (c *Client) PostMessage(ctx context.Context, msg ChatMessage) (Outcome, error) {
	var env Envelope
	if err := c.post(ctx, "/post-message", msg, &env); err != nil {
		return OutcomeTransient, err
	}
	return env.Outcome(), nil
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode %s request: %w", path, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build %s request: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("post %s: %w", path, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response (status %d): %w", path, resp.StatusCode, err)
	}
	c.logger.Debug("backend response", slog.String("path", path), slog.Int("http_status", resp.StatusCode))
	return nil
}
