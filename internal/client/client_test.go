// File: internal/client/client_test.go
package client_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/relaydev/chatstream/internal/client"
)

// sseServer streams the given raw chunks with a flush after each one, so
// frame boundaries and transport chunk boundaries deliberately disagree.
func sseServer(t *testing.T, gotPath *string, chunks ...string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if gotPath != nil {
			*gotPath = r.URL.Path
		}
		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)
		for _, chunk := range chunks {
			_, _ = w.Write([]byte(chunk))
			flusher.Flush()
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func userHistory(content string) []client.ChatMessage {
	return []client.ChatMessage{{Role: "user", Content: content}}
}

func TestSendReconstructsContent(t *testing.T) {
	srv := sseServer(t, nil,
		"data: {\"content\":\"Hello!\"}\n\ndata: {\"con",
		"tent\":\" How are you?\"}\n\n",
		"data: {\"chatId\":\"1\",\"done\":true}\n\n",
	)

	var deltas []string
	result, err := client.New(srv.URL).Send(context.Background(), "", userHistory("Hi"),
		func(d string) { deltas = append(deltas, d) })
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	if result.Content != "Hello! How are you?" {
		t.Errorf("content = %q, want concatenation of all deltas", result.Content)
	}
	if len(deltas) != 2 || deltas[0] != "Hello!" || deltas[1] != " How are you?" {
		t.Errorf("deltas = %#v, want the two original deltas in order", deltas)
	}
}

func TestSendStartAdoptsChatID(t *testing.T) {
	var gotPath string
	srv := sseServer(t, &gotPath, "data: {\"chatId\":\"123\",\"done\":true}\n\n")

	result, err := client.New(srv.URL).Send(context.Background(), "", userHistory("Hi"), nil)
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if gotPath != "/chat" {
		t.Errorf("path = %q, want /chat for a new conversation", gotPath)
	}
	if result.ChatID != "123" {
		t.Errorf("chat id = %q, want adopted %q", result.ChatID, "123")
	}
}

func TestSendContinueKeepsChatID(t *testing.T) {
	var gotPath string
	srv := sseServer(t, &gotPath, "data: {\"done\":true}\n\n")

	result, err := client.New(srv.URL).Send(context.Background(), "42", userHistory("more"), nil)
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if gotPath != "/chat/42" {
		t.Errorf("path = %q, want /chat/42", gotPath)
	}
	if result.ChatID != "42" {
		t.Errorf("chat id = %q, want unchanged %q", result.ChatID, "42")
	}
}

func TestSendErrorFrame(t *testing.T) {
	srv := sseServer(t, nil,
		"data: {\"content\":\"par\"}\n\n",
		"data: {\"error\":\"Failed to get chat completion\"}\n\n",
	)

	var deltas []string
	_, err := client.New(srv.URL).Send(context.Background(), "", userHistory("Hi"),
		func(d string) { deltas = append(deltas, d) })

	var turnErr *client.TurnError
	if !errors.As(err, &turnErr) {
		t.Fatalf("Send() error = %v, want TurnError", err)
	}
	if turnErr.Message != "Failed to get chat completion" {
		t.Errorf("message = %q", turnErr.Message)
	}
	// Content already delivered stays with the caller.
	if len(deltas) != 1 || deltas[0] != "par" {
		t.Errorf("deltas = %#v, want the partial delta preserved", deltas)
	}
}

func TestSendUnexpectedEnd(t *testing.T) {
	srv := sseServer(t, nil, "data: {\"content\":\"par\"}\n\n")

	_, err := client.New(srv.URL).Send(context.Background(), "", userHistory("Hi"), nil)
	if !errors.Is(err, client.ErrUnexpectedEnd) {
		t.Errorf("Send() error = %v, want ErrUnexpectedEnd", err)
	}
}

func TestSendRejectedRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"category":"validation","message":"message history is empty"}}`))
	}))
	t.Cleanup(srv.Close)

	_, err := client.New(srv.URL).Send(context.Background(), "", nil, nil)
	if err == nil || !strings.Contains(err.Error(), "message history is empty") {
		t.Errorf("Send() error = %v, want the server's validation message", err)
	}
}

func TestGetChatNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"category":"not_found","message":"chat not found"}}`))
	}))
	t.Cleanup(srv.Close)

	_, err := client.New(srv.URL).GetChat(context.Background(), "9")
	if !errors.Is(err, client.ErrNotFound) {
		t.Errorf("GetChat() error = %v, want ErrNotFound", err)
	}
}

func TestDeleteChat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("method = %s, want DELETE", r.Method)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(srv.Close)

	if err := client.New(srv.URL).DeleteChat(context.Background(), "2"); err != nil {
		t.Errorf("DeleteChat() error = %v", err)
	}
}
