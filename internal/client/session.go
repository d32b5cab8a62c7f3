// File: internal/client/session.go
package client

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/relaydev/chatstream/internal/domain"
)

// FailureNotice is appended to whatever partial assistant content is visible
// when a turn fails. Raw server or provider error text never reaches the
// rendered conversation.
const FailureNotice = "I apologize, but I encountered an error. Please try again later."

// ErrTurnInFlight is returned when Send is called while a previous turn has
// not finished.
var ErrTurnInFlight = errors.New("a turn is already in flight")

// Message is one rendered conversation entry. IDs are generated locally so
// the in-flight assistant placeholder can be grown by identity rather than
// by content or position.
type Message struct {
	ID      string
	Role    string
	Content string
}

type inflightTurn struct {
	user      Message
	assistant Message
}

// Session holds conversation state in two explicit tiers: the confirmed
// history of finished turns, plus at most one in-flight optimistic turn. The
// two are merged deterministically for rendering, so a failed turn can never
// silently diverge from what the user saw.
type Session struct {
	client *Client

	// OnDelta, when set before Send, observes every content delta after it
	// has been applied to the in-flight assistant message.
	OnDelta func(string)

	mu        sync.Mutex
	chatID    string
	confirmed []Message
	inflight  *inflightTurn
}

// NewSession starts a session against an existing chat id, or a fresh
// conversation when chatID is empty.
func NewSession(c *Client, chatID string) *Session {
	return &Session{client: c, chatID: chatID}
}

// ChatID returns the conversation id, empty until the first completed turn of
// a new conversation adopts one from the terminal frame.
func (s *Session) ChatID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chatID
}

// Messages returns the rendered conversation: confirmed history followed by
// the in-flight turn, if any.
func (s *Session) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Message, len(s.confirmed), len(s.confirmed)+2)
	copy(out, s.confirmed)
	if s.inflight != nil {
		out = append(out, s.inflight.user, s.inflight.assistant)
	}
	return out
}

// Send runs one conversation turn: the user message and an empty assistant
// placeholder become visible immediately, every delta grows the placeholder,
// and the turn is promoted to confirmed history when it terminates. On
// failure the partial content stays visible with FailureNotice appended, and
// the error is returned for the caller to inspect.
func (s *Session) Send(ctx context.Context, text string) error {
	s.mu.Lock()
	if s.inflight != nil {
		s.mu.Unlock()
		return ErrTurnInFlight
	}

	turn := &inflightTurn{
		user:      Message{ID: uuid.New().String(), Role: domain.RoleUser, Content: text},
		assistant: Message{ID: uuid.New().String(), Role: domain.RoleAssistant},
	}
	s.inflight = turn
	assistantID := turn.assistant.ID

	history := make([]ChatMessage, 0, len(s.confirmed)+1)
	for _, m := range s.confirmed {
		history = append(history, ChatMessage{Role: m.Role, Content: m.Content})
	}
	history = append(history, ChatMessage{Role: domain.RoleUser, Content: text})
	chatID := s.chatID
	s.mu.Unlock()

	result, err := s.client.Send(ctx, chatID, history, func(delta string) {
		s.mu.Lock()
		if s.inflight != nil && s.inflight.assistant.ID == assistantID {
			s.inflight.assistant.Content += delta
		}
		s.mu.Unlock()
		if s.OnDelta != nil {
			s.OnDelta(delta)
		}
	})

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		partial := s.inflight.assistant.Content
		if partial != "" {
			partial += "\n\n"
		}
		turn.assistant.Content = partial + FailureNotice
		s.confirmed = append(s.confirmed, turn.user, turn.assistant)
		s.inflight = nil
		return err
	}

	if s.chatID == "" {
		s.chatID = result.ChatID
	}
	turn.assistant.Content = result.Content
	s.confirmed = append(s.confirmed, turn.user, turn.assistant)
	s.inflight = nil
	return nil
}
