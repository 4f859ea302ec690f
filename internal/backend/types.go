// Package backend talks to the ticketing service over HTTP and classifies its
// response envelopes into the three outcomes the relay layer acts on.
package backend

import (
	"encoding/json"
	"fmt"
	"strings"
)

// AttachmentRef is one piece of media as it travels on the wire: a display
// name and a fetchable URL, encoded as a two-element JSON array [name, url].
type AttachmentRef struct {
	Name string
	URL  string
}

// MarshalJSON encodes the ref as [name, url].
func (a AttachmentRef) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]string{a.Name, a.URL})
}

// UnmarshalJSON decodes a [name, url] pair, rejecting any other arity.
func (a *AttachmentRef) UnmarshalJSON(data []byte) error {
	var pair []string
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("attachment must be a [name, url] pair, got %d elements", len(pair))
	}
	a.Name = pair[0]
	a.URL = pair[1]
	return nil
}

// ChatMessage is the message shape shared by both relay directions: chat to
// backend on /post-message, and backend to chat on the push listener.
type ChatMessage struct {
	TeleID     int64           `json:"tele_id"`
	Author     string          `json:"author"`
	Text       string          `json:"text"`
	Attachment []AttachmentRef `json:"attachment"`
}

// TicketOpenRequest asks the backend to open a ticket thread for a chat.
type TicketOpenRequest struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// TicketCloseRequest asks the backend to close the chat's active ticket.
type TicketCloseRequest struct {
	ID int64 `json:"id"`
}

// Envelope is the backend's response wrapper. Code 1 conventionally means a
// backend-side fault, code 2 a domain conflict whose meaning depends on the
// endpoint.
type Envelope struct {
	Status  string `json:"status"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// InitEnvelope is the /init response; ID carries the created thread id, 0
// when absent.
type InitEnvelope struct {
	Envelope
	ID int64 `json:"id"`
}

// Outcome is the total classification of a backend response.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeTransient
	OutcomeConflict
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeConflict:
		return "conflict"
	default:
		return "transient"
	}
}

const conflictCode = 2

// Outcome classifies the envelope. A non-fail status is success; code 2 or a
// message matching one of the caller-supplied conflict markers is a conflict;
// every other failure is transient. What a conflict means is the caller's
// business, not the classifier's.
func (e Envelope) Outcome(conflictMessages ...string) Outcome {
	if !strings.EqualFold(strings.TrimSpace(e.Status), "fail") {
		return OutcomeSuccess
	}
	if e.Code == conflictCode {
		return OutcomeConflict
	}
	for _, marker := range conflictMessages {
		if strings.EqualFold(strings.TrimSpace(e.Message), marker) {
			return OutcomeConflict
		}
	}
	return OutcomeTransient
}
