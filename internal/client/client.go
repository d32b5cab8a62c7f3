// File: internal/client/client.go

// Package client consumes the chat server's streaming API: it issues turn
// requests, incrementally decodes the framed response stream, and reduces
// frames into conversation state.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/relaydev/chatstream/internal/domain"
	"github.com/relaydev/chatstream/internal/protocol"
)

// ErrUnexpectedEnd reports a transport that ended without ever producing a
// terminal frame. Distinct from a server-reported TurnError.
var ErrUnexpectedEnd = errors.New("stream ended unexpectedly")

// ErrNotFound reports a chat id the server does not know.
var ErrNotFound = errors.New("chat not found")

// TurnError is a terminal failure frame reported by the server. Deltas
// delivered before it remain visible to the caller.
type TurnError struct {
	Message string
}

func (e *TurnError) Error() string { return e.Message }

// ChatMessage is the request-body shape of one history entry.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// TurnResult is the outcome of one completed conversation turn.
type TurnResult struct {
	ChatID  string
	Content string
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New returns a client for the chat server at baseURL. The underlying HTTP
// client carries no overall timeout; streams are bounded by the caller's
// context instead.
func New(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{},
	}
}

// Send runs one conversation turn. An empty chatID starts a new conversation;
// otherwise the turn continues the given one. onDelta, when non-nil, is
// invoked synchronously for every content delta in arrival order, before the
// next chunk is read. On success the result carries the full accumulated
// content and the chat id, adopted from the terminal frame if the call
// started without one.
func (c *Client) Send(ctx context.Context, chatID string, history []ChatMessage, onDelta func(string)) (*TurnResult, error) {
	url := c.baseURL + "/chat"
	if chatID != "" {
		url += "/" + chatID
	}

	body, err := json.Marshal(map[string][]ChatMessage{"messages": history})
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending turn: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.responseError(resp)
	}

	var full strings.Builder
	dec := protocol.NewDecoder(resp.Body)
	for {
		frame, err := dec.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, ErrUnexpectedEnd
			}
			return nil, fmt.Errorf("reading stream: %w", err)
		}

		switch f := frame.(type) {
		case protocol.Delta:
			full.WriteString(f.Content)
			if onDelta != nil {
				onDelta(f.Content)
			}
		case protocol.Completed:
			id := chatID
			if id == "" {
				id = f.ChatID
			}
			return &TurnResult{ChatID: id, Content: full.String()}, nil
		case protocol.ErrorFrame:
			return nil, &TurnError{Message: f.Message}
		}
	}
}

// GetChat fetches the full persisted chat.
func (c *Client) GetChat(ctx context.Context, chatID string) (*domain.Chat, error) {
	var chat domain.Chat
	if err := c.getJSON(ctx, c.baseURL+"/chat/"+chatID, &chat); err != nil {
		return nil, err
	}
	return &chat, nil
}

// ListChats fetches all chats, newest created first.
func (c *Client) ListChats(ctx context.Context) ([]domain.Chat, error) {
	var chats []domain.Chat
	if err := c.getJSON(ctx, c.baseURL+"/chats", &chats); err != nil {
		return nil, err
	}
	return chats, nil
}

// DeleteChat removes a chat and all of its messages.
func (c *Client) DeleteChat(ctx context.Context, chatID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/chat/"+chatID, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("deleting chat: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		return c.responseError(resp)
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.responseError(resp)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// responseError maps a non-streaming failure response onto an error,
// preserving the distinction between a missing chat and a broken server.
func (c *Client) responseError(resp *http.Response) error {
	var payload struct {
		Error struct {
			Category string `json:"category"`
			Message  string `json:"message"`
		} `json:"error"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&payload)

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if payload.Error.Message != "" {
		return fmt.Errorf("server error (%d, %s): %s",
			resp.StatusCode, payload.Error.Category, payload.Error.Message)
	}
	return fmt.Errorf("server error (%d)", resp.StatusCode)
}
